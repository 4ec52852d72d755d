package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/gridflow/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "plume" {
		t.Errorf("expected scenario plume, got %s", cfg.Scenario)
	}
	if cfg.CellDim != 1 || cfg.TimeStep != 1 {
		t.Errorf("expected cell_dim 1 and time_step 1, got %d and %f", cfg.CellDim, cfg.TimeStep)
	}
	if cfg.InjectionVelocity != 4.0 {
		t.Errorf("expected injection velocity 4, got %f", cfg.InjectionVelocity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.yaml")
	cfg := DefaultConfig()
	cfg.Width = 32
	cfg.AdvectColor = true
	cfg.Activations = []ActivationConfig{{Frame: 3, X: 4, Y: 5, Radius: 1}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Width != 32 || !loaded.AdvectColor {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.Activations) != 1 || loaded.Activations[0].Frame != 3 {
		t.Errorf("activations lost: %+v", loaded.Activations)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"cell dim above width", func(c *Config) { c.CellDim = 65 }},
		{"zero frames", func(c *Config) { c.Frames = 0 }},
		{"bad mode", func(c *Config) { c.RenderMode = "heat" }},
		{"negative radius", func(c *Config) { c.Activations = []ActivationConfig{{Radius: -1}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
			if _, err := cfg.SimConfig(); err == nil {
				t.Error("expected SimConfig error, got nil")
			}
		})
	}
}

func TestSchedule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 4, 4
	cfg.Activations = []ActivationConfig{
		{Frame: 0, X: 1, Y: 1},
		{Frame: 2, X: 0, Y: 0, Radius: 1},
	}

	s := cfg.Schedule()
	if got := s[0]; len(got) != 1 || got[0] != 5 {
		t.Errorf("frame 0: expected [5], got %v", got)
	}
	if got := s[2]; len(got) != 3 {
		t.Errorf("frame 2: expected 3 pixels, got %v", got)
	}
}

func TestScheduleLargeRadius(t *testing.T) {
	cfg := GetPreset("tiny")
	cfg.Activations = []ActivationConfig{{Frame: 0, X: 1, Y: 1, Radius: 60000}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	done := make(chan sim.Schedule, 1)
	go func() { done <- cfg.Schedule() }()
	select {
	case s := <-done:
		if got := len(s[0]); got != 16 {
			t.Errorf("expected every pixel of the 4x4 image, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatal("schedule did not finish within a second")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tiny")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Width != 4 {
		t.Errorf("expected width 4, got %d", cfg.Width)
	}
	cfg.Activations[0].X = 99
	if Presets["tiny"].Activations[0].X == 99 {
		t.Error("GetPreset must return a copy")
	}

	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}
