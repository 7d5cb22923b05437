package config

import "sort"

// Presets are the canned demo scenes. A preset replaces the scene block
// of the default configuration and leaves subsystem tuning alone.
var Presets = map[string]SceneConfig{
	"drop": {
		Name: "drop", Bodies: 256, Duration: 10.0, DropHeight: 20.0, FloorY: 0,
	},
	"stack": {
		Name: "stack", Bodies: 64, Duration: 15.0, DropHeight: 2.0, FloorY: 0,
	},
	"rain": {
		Name: "rain", Bodies: 2048, Duration: 20.0, DropHeight: 60.0, FloorY: 0,
	},
	"pool": {
		Name: "pool", Bodies: 128, Duration: 12.0, DropHeight: 15.0, FloorY: 0,
	},
	"dense": {
		Name: "dense", Bodies: 8192, Duration: 8.0, DropHeight: 40.0, FloorY: 0,
	},
}

func GetPreset(name string) *Config {
	scene, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scene = scene
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
