package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

type testOptions struct {
	Config string `help:"Config file path"`

	Port        int      `toml:"server.port" env:"SERVER_PORT"`
	ReadTimeout string   `toml:"server.read_timeout" env:"SERVER_READ_TIMEOUT"`
	LEDControl  bool     `toml:"features.led_control_enabled" env:"FEATURES_LED_CONTROL"`
	Subjects    []string `toml:"nats.subjects" env:"NATS_SUBJECTS"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[server]
port = 9999
read_timeout = "5s"

[features]
led_control_enabled = true

[nats]
subjects = ["a", "b"]
`)

	opts := &testOptions{Config: path, Port: 8888}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != 9999 {
		t.Errorf("Port = %d, want 9999", opts.Port)
	}
	if opts.ReadTimeout != "5s" {
		t.Errorf("ReadTimeout = %q, want 5s", opts.ReadTimeout)
	}
	if !opts.LEDControl {
		t.Error("LEDControl = false, want true")
	}
	if !reflect.DeepEqual(opts.Subjects, []string{"a", "b"}) {
		t.Errorf("Subjects = %v, want [a b]", opts.Subjects)
	}
}

func TestLoadConfigMissingFileKeepsDefaults(t *testing.T) {
	opts := &testOptions{Config: filepath.Join(t.TempDir(), "absent.toml"), Port: 8888}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig with missing file should not fail: %v", err)
	}
	if opts.Port != 8888 {
		t.Errorf("Port = %d, want default 8888", opts.Port)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeFile(t, "broken.toml", "[server\nport = ")
	if err := LoadConfig(&testOptions{Config: path}, nil); err == nil {
		t.Error("expected parse error for malformed TOML")
	}
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	if err := LoadConfig(testOptions{}, nil); err == nil {
		t.Error("expected error for non-pointer opts")
	}
}

func TestLoadConfigEnvOverridesTOML(t *testing.T) {
	path := writeFile(t, "config.toml", "[server]\nport = 7000\nread_timeout = \"1s\"\n")

	t.Setenv("LEDTOGGLE_SERVER_PORT", "7100")
	t.Setenv("LEDTOGGLE_NATS_SUBJECTS", "x, y")

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != 7100 {
		t.Errorf("Port = %d, want env override 7100", opts.Port)
	}
	if opts.ReadTimeout != "1s" {
		t.Errorf("ReadTimeout = %q, want TOML value 1s", opts.ReadTimeout)
	}
	if !reflect.DeepEqual(opts.Subjects, []string{"x", "y"}) {
		t.Errorf("Subjects = %v, want [x y]", opts.Subjects)
	}
}

func TestLoadConfigCLIFlagWins(t *testing.T) {
	path := writeFile(t, "config.toml", "[server]\nport = 7000\n")
	t.Setenv("LEDTOGGLE_SERVER_PORT", "7100")

	opts := &testOptions{Config: path}
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&opts.Port, "port", 8888, "")
	if err := cmd.Flags().Set("port", "9000"); err != nil {
		t.Fatal(err)
	}

	if err := LoadConfig(opts, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if opts.Port != 9000 {
		t.Errorf("Port = %d, want CLI value 9000", opts.Port)
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := map[string]string{
		"Port":               "port",
		"LoggingLevel":       "logging-level",
		"FeaturesLEDControl": "features-led-control",
		"APIPort":            "api-port",
		"NATSURL":            "natsurl",
	}
	for in, want := range tests {
		if got := fieldNameToFlag(in); got != want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"server": map[string]any{
			"limits": map[string]any{"max": int64(5)},
			"port":   int64(8888),
		},
		"root": "value",
	}

	tests := []struct {
		path string
		want any
	}{
		{"root", "value"},
		{"server.port", int64(8888)},
		{"server.limits.max", int64(5)},
		{"missing", nil},
		{"root.child", nil},
	}
	for _, tt := range tests {
		if got := getNestedValue(data, tt.path); got != tt.want {
			t.Errorf("getNestedValue(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeFile(t, "config.toml", `
[logging]
level = "warn"
format = "json"
api = "debug"

[logging.modules]
toggle = "error"
`)

	cfg, err := LoadLoggingConfig(path)
	if err != nil {
		t.Fatalf("LoadLoggingConfig failed: %v", err)
	}
	if cfg.Level != "warn" || cfg.Format != "json" {
		t.Errorf("got level=%q format=%q, want warn/json", cfg.Level, cfg.Format)
	}
	if cfg.Modules["api"] != "debug" {
		t.Errorf("api module = %q, want debug", cfg.Modules["api"])
	}
	if cfg.Modules["toggle"] != "error" {
		t.Errorf("toggle module = %q, want error", cfg.Modules["toggle"])
	}
}

func TestLoadLoggingConfigMissingFile(t *testing.T) {
	cfg, err := LoadLoggingConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	if cfg.Level != "info" {
		t.Errorf("defaults should be returned alongside the error, got level %q", cfg.Level)
	}
}
