package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestParse(t *testing.T) {
	doc := `
config = "plans.json"
debug = true

[backup]
keep = 7
auto = false

[suggest]
types = ["carbs", "fats"]
`
	values, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := map[string]string{
		"config":        "plans.json",
		"debug":         "true",
		"backup-keep":   "7",
		"backup-auto":   "false",
		"suggest-types": "carbs,fats",
	}
	if len(values) != len(expected) {
		t.Fatalf("expected %d values, got %d: %v", len(expected), len(values), values)
	}
	for k, want := range expected {
		if got := values[k]; got != want {
			t.Errorf("values[%q] = %q, want %q", k, got, want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse(strings.NewReader("config = ")); err == nil {
		t.Error("expected error for malformed TOML")
	}

	_, err := Parse(strings.NewReader("[[profile]]\nname = \"a\"\n"))
	if err == nil {
		t.Error("expected error for array of tables")
	}
}

type testCLI struct {
	Config     string   `default:"default.db"`
	Debug      bool     `help:"Debug."`
	BackupKeep int      `default:"14"`
	Types      []string `help:"Types."`
}

func parseWith(t *testing.T, settings string, args ...string) testCLI {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(settings), 0600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(TOML, path))
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return cli
}

func TestResolverSuppliesDefaults(t *testing.T) {
	cli := parseWith(t, `
config = "from-file.db"
debug = true
types = ["carbs", "fats"]

[backup]
keep = 3
`)

	if cli.Config != "from-file.db" {
		t.Errorf("Config = %q, want from-file.db", cli.Config)
	}
	if !cli.Debug {
		t.Error("Debug not set from file")
	}
	if cli.BackupKeep != 3 {
		t.Errorf("BackupKeep = %d, want 3", cli.BackupKeep)
	}
	if len(cli.Types) != 2 || cli.Types[0] != "carbs" || cli.Types[1] != "fats" {
		t.Errorf("Types = %v, want [carbs fats]", cli.Types)
	}
}

func TestCommandLineWins(t *testing.T) {
	cli := parseWith(t, `config = "from-file.db"`, "--config=flag.db")

	if cli.Config != "flag.db" {
		t.Errorf("Config = %q, want flag.db", cli.Config)
	}
	if cli.BackupKeep != 14 {
		t.Errorf("BackupKeep = %d, want default 14", cli.BackupKeep)
	}
}

func TestMissingSettingsFileIsIgnored(t *testing.T) {
	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(TOML, filepath.Join(t.TempDir(), "absent.toml")))
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	if _, err := parser.Parse(nil); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cli.Config != "default.db" {
		t.Errorf("Config = %q, want default.db", cli.Config)
	}
}

func TestSettingsPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  string
		want string
	}{
		{"default", []string{"plan", "list"}, "", "default.toml"},
		{"env", []string{"plan", "list"}, "env.toml", "env.toml"},
		{"equals form", []string{"--settings=a.toml", "plan"}, "env.toml", "a.toml"},
		{"separate value", []string{"plan", "--settings", "b.toml"}, "", "b.toml"},
		{"after terminator", []string{"--", "--settings=c.toml"}, "", "default.toml"},
		{"dangling flag", []string{"--settings"}, "", "default.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SettingsPath(tt.args, tt.env, "default.toml"); got != tt.want {
				t.Errorf("SettingsPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
