package errors

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("failed to load plan: %w", errors.New("plan not found")),
			expected: "Error: failed to load plan: plan not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("unknown food item %q", "kale")
	want := `Error: unknown food item "kale"`
	if got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer

	if Report(&buf, nil) {
		t.Error("Report(nil) = true, want false")
	}
	if buf.Len() != 0 {
		t.Errorf("Report(nil) wrote %q", buf.String())
	}

	if !Report(&buf, errors.New("boom")) {
		t.Error("Report(err) = false, want true")
	}
	if buf.String() != "Error: boom\n" {
		t.Errorf("Report wrote %q", buf.String())
	}
}
