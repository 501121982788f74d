package config

import "sort"

type Preset struct {
	Description string
	apply       func(*Config)
}

var Presets = map[string]Preset{
	"default": {
		Description: "two co-rotating discs, offset collision",
		apply:       func(*Config) {},
	},
	"small": {
		Description: "200 bodies, 200 frames smoke run",
		apply: func(c *Config) {
			c.NumBodies = 200
			c.Frames = 200
			c.Galaxy.Radius = 40
			c.Galaxy.CoreRadius = 12
			c.Galaxy.Offset = Vec{X: 25, Z: 80}
		},
	},
	"counter": {
		Description: "top disc rotates against the bottom disc",
		apply: func(c *Config) {
			c.Galaxy.InvertRotation = true
		},
	},
	"headon": {
		Description: "discs stacked on one axis, no horizontal offset",
		apply: func(c *Config) {
			c.Galaxy.Offset = Vec{Z: 200}
			c.Frames = 2000
		},
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.apply(cfg)
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
