package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/macroplan/internal/constants"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, constants.LogDirName)
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")

	data, err := os.ReadFile(filepath.Join(logDir, constants.LogFileName))
	if err != nil {
		t.Fatalf("Log file was not written: %v", err)
	}
	if strings.Contains(string(data), "Test info message") {
		t.Error("Info message written below the default warn level")
	}
	if !strings.Contains(string(data), "Test warning message") {
		t.Error("Warning message missing from log file")
	}
}

func TestInitDebugModeMirrorsToStderr(t *testing.T) {
	var stderr bytes.Buffer

	err := Init(Config{
		Debug:     true,
		ConfigDir: t.TempDir(),
		Stderr:    &stderr,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	Debug("Test debug message in debug mode", "plan_id", "p1")

	out := stderr.String()
	if !strings.Contains(out, "Test debug message in debug mode") {
		t.Errorf("debug message not mirrored to stderr: %q", out)
	}
	if !strings.Contains(out, "plan_id=p1") {
		t.Errorf("key/value pair missing from output: %q", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
