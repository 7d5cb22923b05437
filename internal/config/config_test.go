package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/voxelphys/internal/phys"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxEntities != DefaultMaxEntities {
		t.Errorf("expected max entities %d, got %d", DefaultMaxEntities, cfg.MaxEntities)
	}
	if cfg.Scene.Name != "drop" {
		t.Errorf("expected scene drop, got %s", cfg.Scene.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max entities", func(c *Config) { c.MaxEntities = 0 }},
		{"bodies over capacity", func(c *Config) { c.Scene.Bodies = c.MaxEntities + 1 }},
		{"zero duration", func(c *Config) { c.Scene.Duration = 0 }},
		{"bad cell size", func(c *Config) { c.Spatial.CellSize = 0 }},
		{"bad iterations", func(c *Config) { c.Solver.Iterations = 0 }},
		{"positive terminal velocity", func(c *Config) { c.Integrator.TerminalVelocity = 1 }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !errors.Is(err, phys.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tc.name, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Scene.Bodies = 99
	cfg.Solver.Workers = 2
	cfg.Materials.Restitution = 0.8

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Scene.Bodies != 99 {
		t.Errorf("expected bodies 99, got %d", loaded.Scene.Bodies)
	}
	if loaded.Solver.Workers != 2 {
		t.Errorf("expected workers 2, got %d", loaded.Solver.Workers)
	}
	if loaded.Materials.Restitution != 0.8 {
		t.Errorf("expected restitution 0.8, got %g", loaded.Materials.Restitution)
	}
}

func TestLoad_PartialOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("scene:\n  name: stack\n  bodies: 12\n  duration: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scene.Name != "stack" || cfg.Scene.Bodies != 12 {
		t.Errorf("scene override lost: %+v", cfg.Scene)
	}
	if cfg.Solver.Iterations != 4 {
		t.Errorf("expected default iterations 4, got %d", cfg.Solver.Iterations)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("stack")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scene.Bodies != 64 {
		t.Errorf("expected 64 bodies, got %d", cfg.Scene.Bodies)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("preset names not sorted: %v", names)
			break
		}
	}
}
