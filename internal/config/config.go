package config

import (
	"fmt"
	"os"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBodies       = 2000
	DefaultFrames       = 1000
	DefaultDt           = 1e-4
	DefaultGm           = 1.5e6
	DefaultDiameter     = 1.0
	DefaultUnit         = "kpc"
	DefaultRadius       = 100.0
	DefaultThickness    = 5.0
	DefaultCoreRadius   = 30.0
	DefaultCoreThick    = 3.0
	DefaultCoreFraction = 1.0 / 3.0
	DefaultInterval     = 2.0
	DefaultVelocityK    = 880.0
	DefaultVelocityP    = 0.4
	DefaultDrift        = 1000.0
)

type Config struct {
	NumBodies  int          `yaml:"num_bodies"`
	Frames     int          `yaml:"frames"`
	Dt         float64      `yaml:"dt"`
	Gm         float64      `yaml:"gm"`
	Diameter   float64      `yaml:"diameter"`
	LengthUnit string       `yaml:"length_unit"`
	Seed       uint64       `yaml:"seed"`
	Ordering   string       `yaml:"ordering"`
	Backend    string       `yaml:"backend"`
	Workers    int          `yaml:"workers"`
	Galaxy     GalaxyConfig `yaml:"galaxy"`
}

type GalaxyConfig struct {
	Radius            float64 `yaml:"radius"`
	HalfThickness     float64 `yaml:"half_thickness"`
	CoreRadius        float64 `yaml:"core_radius"`
	CoreHalfThickness float64 `yaml:"core_half_thickness"`
	CoreFraction      float64 `yaml:"core_fraction"`
	MeshInterval      float64 `yaml:"mesh_interval"`
	Offset            Vec     `yaml:"offset"`
	Center            Vec     `yaml:"center"`
	VelocityK         float64 `yaml:"velocity_k"`
	VelocityP         float64 `yaml:"velocity_p"`
	InvertRotation    bool    `yaml:"invert_rotation"`
	DriftSpeed        float64 `yaml:"drift_speed"`
}

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec) R3() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

func DefaultConfig() *Config {
	return &Config{
		NumBodies:  DefaultBodies,
		Frames:     DefaultFrames,
		Dt:         DefaultDt,
		Gm:         DefaultGm,
		Diameter:   DefaultDiameter,
		LengthUnit: DefaultUnit,
		Seed:       1,
		Ordering:   "snapshot",
		Backend:    "parallel",
		Galaxy: GalaxyConfig{
			Radius:            DefaultRadius,
			HalfThickness:     DefaultThickness,
			CoreRadius:        DefaultCoreRadius,
			CoreHalfThickness: DefaultCoreThick,
			CoreFraction:      DefaultCoreFraction,
			MeshInterval:      DefaultInterval,
			Offset:            Vec{X: 60, Z: 200},
			VelocityK:         DefaultVelocityK,
			VelocityP:         DefaultVelocityP,
			DriftSpeed:        DefaultDrift,
		},
	}
}

// Load reads path over base. A nil base starts from DefaultConfig.
func Load(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if base != nil {
		c := *base
		cfg = &c
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Validate() error {
	switch {
	case c.NumBodies < 2 || c.NumBodies%2 != 0:
		return fmt.Errorf("num_bodies must be even and at least 2, got %d", c.NumBodies)
	case c.Frames < 1:
		return fmt.Errorf("frames must be at least 1, got %d", c.Frames)
	case c.Dt <= 0:
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	case c.Diameter < 0:
		return fmt.Errorf("diameter must be non-negative, got %g", c.Diameter)
	case c.Workers < 0:
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}

	g := c.Galaxy
	switch {
	case g.Radius <= 0 || g.CoreRadius <= 0:
		return fmt.Errorf("galaxy radii must be positive")
	case g.HalfThickness < 0 || g.CoreHalfThickness < 0:
		return fmt.Errorf("galaxy half thickness must be non-negative")
	case g.MeshInterval <= 0:
		return fmt.Errorf("mesh_interval must be positive, got %g", g.MeshInterval)
	case g.CoreFraction < 0 || g.CoreFraction > 1:
		return fmt.Errorf("core_fraction must be in [0, 1], got %g", g.CoreFraction)
	}

	if _, err := nbody.ParseOrdering(c.Ordering); err != nil {
		return err
	}
	if _, err := compute.Lookup(c.Backend, c.Workers); err != nil {
		return err
	}
	return nil
}

// GalaxyParams converts the galaxy block for the initializer.
func (c *Config) GalaxyParams() galaxy.Params {
	g := c.Galaxy
	return galaxy.Params{
		Center:            g.Center.R3(),
		Offset:            g.Offset.R3(),
		Radius:            g.Radius,
		HalfThickness:     g.HalfThickness,
		CoreRadius:        g.CoreRadius,
		CoreHalfThickness: g.CoreHalfThickness,
		CoreFraction:      g.CoreFraction,
		MeshInterval:      g.MeshInterval,
		VelocityK:         g.VelocityK,
		VelocityP:         g.VelocityP,
		InvertRotation:    g.InvertRotation,
		DriftSpeed:        g.DriftSpeed,
	}
}
