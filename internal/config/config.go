package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/voxelphys/internal/integrate"
	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/solver"
	"github.com/san-kum/voxelphys/internal/spatial"
	"github.com/san-kum/voxelphys/internal/store"
)

const (
	DefaultMaxEntities = 16384
	DefaultBodies      = 256
	DefaultDuration    = 10.0
	DefaultDropHeight  = 20.0
)

// Config is the full simulation configuration: scene selection plus the
// tuning of every subsystem. Loaded files overlay the defaults, so a
// partial file only overrides what it names.
type Config struct {
	MaxEntities int              `yaml:"max_entities"`
	Seed        int64            `yaml:"seed"`
	Scene       SceneConfig      `yaml:"scene"`
	Spatial     spatial.Config   `yaml:"spatial"`
	Solver      solver.Config    `yaml:"solver"`
	Integrator  integrate.Config `yaml:"integrator"`
	Materials   store.Defaults   `yaml:"materials"`
}

// SceneConfig describes what the demo scenes spawn.
type SceneConfig struct {
	Name       string  `yaml:"name"`
	Bodies     int     `yaml:"bodies"`
	Duration   float32 `yaml:"duration"`
	DropHeight float32 `yaml:"drop_height"`
	FloorY     int32   `yaml:"floor_y"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxEntities: DefaultMaxEntities,
		Scene: SceneConfig{
			Name:       "drop",
			Bodies:     DefaultBodies,
			Duration:   DefaultDuration,
			DropHeight: DefaultDropHeight,
		},
		Spatial:    spatial.DefaultConfig(),
		Solver:     solver.DefaultConfig(),
		Integrator: integrate.DefaultConfig(),
		Materials:  store.DefaultMaterials(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scene and every subsystem configuration.
func (c *Config) Validate() error {
	if c.MaxEntities <= 0 {
		return fmt.Errorf("%w: max_entities must be positive, got %d", phys.ErrInvalidConfig, c.MaxEntities)
	}
	if c.Scene.Bodies < 0 || c.Scene.Bodies > c.MaxEntities {
		return fmt.Errorf("%w: scene bodies %d outside [0, %d]", phys.ErrInvalidConfig, c.Scene.Bodies, c.MaxEntities)
	}
	if c.Scene.Duration <= 0 {
		return fmt.Errorf("%w: scene duration must be positive, got %g", phys.ErrInvalidConfig, c.Scene.Duration)
	}
	if err := c.Spatial.Validate(); err != nil {
		return err
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	return c.Integrator.Validate()
}
