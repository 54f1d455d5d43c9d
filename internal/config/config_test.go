package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, expected nil", err)
	}
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	// Only holds when no user or local override is present, which is the case in CI.
	if _, statErr := os.Stat(filepath.Join("configs", "sweep.yaml")); statErr == nil {
		t.Skip("local override present")
	}
	if home, herr := os.UserHomeDir(); herr == nil {
		if _, statErr := os.Stat(filepath.Join(home, ".sweep", "config.yaml")); statErr == nil {
			t.Skip("user override present")
		}
	}
	if cfg.Engine != DefaultEngine() {
		t.Errorf("embedded engine config = %+v, expected %+v", cfg.Engine, DefaultEngine())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	data := []byte("engine:\n  time_buffer: 1.5\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Engine.TimeBuffer != 1.5 {
		t.Errorf("TimeBuffer = %v, expected 1.5", cfg.Engine.TimeBuffer)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, expected debug", cfg.Log.Level)
	}
	// Unset keys keep their defaults
	if cfg.Engine.DiscriminantPlaces != 4 {
		t.Errorf("DiscriminantPlaces = %d, expected default 4", cfg.Engine.DiscriminantPlaces)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  time_buffer: 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, expected ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative deviation", func(c *Config) { c.Engine.PointDeviation = -1 }},
		{"negative places", func(c *Config) { c.Engine.TouchPlaces = -1 }},
		{"small buffer", func(c *Config) { c.Engine.TimeBuffer = 0.9 }},
		{"zero duration", func(c *Config) { c.Engine.DefaultFrameDuration = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"zero fps", func(c *Config) { c.Viewer.FPS = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != PresetDefault {
		t.Errorf("ParsePreset(\"\") = %q, %v", p, err)
	}
	if _, err := ParsePreset("sloppy"); !errors.Is(err, ErrInvalid) {
		t.Errorf("ParsePreset(sloppy) error = %v, expected ErrInvalid", err)
	}

	cfg := DefaultEngine()
	cfg.HistoryDepth = 8

	ApplyPreset(&cfg, PresetStrict)
	if cfg.PointDeviation >= DefaultEngine().PointDeviation {
		t.Error("strict preset should tighten the point deviation")
	}
	if cfg.HistoryDepth != 8 {
		t.Error("presets must not touch history depth")
	}

	ApplyPreset(&cfg, PresetDefault)
	if cfg.PointDeviation != DefaultEngine().PointDeviation || cfg.TimeBuffer != DefaultEngine().TimeBuffer {
		t.Error("default preset should restore the default tolerances")
	}
}
