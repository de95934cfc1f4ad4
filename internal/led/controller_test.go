package led

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestNoopController(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctrl := newNoop(logger)

	if err := ctrl.Set("status", true); err != nil {
		t.Errorf("Set() returned error: %v", err)
	}
	if names := ctrl.Available(); len(names) != 0 {
		t.Errorf("Available() = %v, want empty slice", names)
	}
}

func TestSysfsController_Available(t *testing.T) {
	tests := []struct {
		name string
		leds map[string]string
		want []string
	}{
		{
			name: "single LED",
			leds: map[string]string{"status": "usr_led"},
			want: []string{"status"},
		},
		{
			name: "sorted names",
			leds: map[string]string{"green": "green_led", "blue": "blue_led"},
			want: []string{"blue", "green"},
		},
		{
			name: "no LEDs",
			leds: map[string]string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newSysfs(tt.leds).Available()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSysfsController_Set(t *testing.T) {
	root := t.TempDir()
	ledDir := filepath.Join(root, "usr_led")
	if err := os.Mkdir(ledDir, 0o755); err != nil {
		t.Fatal(err)
	}

	ctrl := newSysfs(map[string]string{"status": "usr_led"})
	ctrl.root = root

	tests := []struct {
		on   bool
		want string
	}{
		{on: true, want: "1"},
		{on: false, want: "0"},
	}
	for _, tt := range tests {
		if err := ctrl.Set("status", tt.on); err != nil {
			t.Fatalf("Set(%v) error: %v", tt.on, err)
		}
		brightness, err := os.ReadFile(filepath.Join(ledDir, "brightness"))
		if err != nil {
			t.Fatal(err)
		}
		if string(brightness) != tt.want {
			t.Errorf("brightness = %q, want %q", brightness, tt.want)
		}
		trigger, err := os.ReadFile(filepath.Join(ledDir, "trigger"))
		if err != nil {
			t.Fatal(err)
		}
		if string(trigger) != "none" {
			t.Errorf("trigger = %q, want none", trigger)
		}
	}
}

func TestSysfsController_Set_Errors(t *testing.T) {
	ctrl := newSysfs(map[string]string{"status": "missing_led"})
	ctrl.root = t.TempDir()

	if err := ctrl.Set("nonexistent", true); err == nil {
		t.Error("Set() with unknown LED should return error")
	}
	if err := ctrl.Set("status", true); err == nil {
		t.Error("Set() with missing sysfs directory should return error")
	}
}
