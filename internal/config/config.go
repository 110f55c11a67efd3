package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidsim/internal/fluid"
)

const (
	DefaultParticleCount   = 36
	DefaultParticleRadius  = 5.0
	DefaultSpacingFactor   = 0.5
	DefaultRestitution     = 0.4
	DefaultSmoothingRadius = 40.0
	DefaultGravityStrength = 1.0
	DefaultParticleMass    = 1.0
	DefaultDt              = 1.0 / 60
	DefaultTicks           = 600
	DefaultWallThickness   = 5.0
)

type SimulationConfig struct {
	ParticleCount   int          `yaml:"particle_count"`
	ParticleRadius  float64      `yaml:"particle_radius"`
	SpacingFactor   float64      `yaml:"spacing_factor"`
	Restitution     float64      `yaml:"restitution"`
	SmoothingRadius float64      `yaml:"smoothing_radius"`
	GravityStrength float64      `yaml:"gravity_strength"`
	GravityEnabled  bool         `yaml:"gravity_enabled"`
	ParticleMass    float64      `yaml:"particle_mass"`
	Dt              float64      `yaml:"dt"`
	Ticks           int          `yaml:"ticks"`
	Bounds          BoundsConfig `yaml:"bounds"`
	WallThickness   float64      `yaml:"wall_thickness"`
	DensityProbe    PointConfig  `yaml:"density_probe"`
	InitialSpeed    float64      `yaml:"initial_speed"`
	Seed            int64        `yaml:"seed"`
	RecordEvery     int          `yaml:"record_every"`
}

type BoundsConfig struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Top    float64 `yaml:"top"`
}

type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func DefaultConfig() *SimulationConfig {
	b := fluid.DefaultBounds()
	return &SimulationConfig{
		ParticleCount:   DefaultParticleCount,
		ParticleRadius:  DefaultParticleRadius,
		SpacingFactor:   DefaultSpacingFactor,
		Restitution:     DefaultRestitution,
		SmoothingRadius: DefaultSmoothingRadius,
		GravityStrength: DefaultGravityStrength,
		ParticleMass:    DefaultParticleMass,
		Dt:              DefaultDt,
		Ticks:           DefaultTicks,
		Bounds:          BoundsConfig{Left: b.Left, Right: b.Right, Bottom: b.Bottom, Top: b.Top},
		WallThickness:   DefaultWallThickness,
		RecordEvery:     1,
	}
}

// Load reads a YAML file over the defaults. The result is not validated.
func Load(path string) (*SimulationConfig, error) {
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

func Save(path string, cfg *SimulationConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *SimulationConfig) Clone() *SimulationConfig {
	cp := *c
	return &cp
}

// Validate reports the first out-of-range field. Everything except wall
// geometry wraps fluid.ErrInvalidConfiguration; geometry wraps
// fluid.ErrDegenerateGeometry.
func (c *SimulationConfig) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{fluid.ErrInvalidConfiguration}, args...)...)
	}

	switch {
	case c.ParticleCount <= 0:
		return invalid("particle_count must be positive, got %d", c.ParticleCount)
	case !positive(c.ParticleRadius):
		return invalid("particle_radius must be positive, got %v", c.ParticleRadius)
	case !nonNegative(c.SpacingFactor):
		return invalid("spacing_factor must be >= 0, got %v", c.SpacingFactor)
	case !nonNegative(c.Restitution):
		return invalid("restitution must be >= 0, got %v", c.Restitution)
	case !positive(c.SmoothingRadius):
		return invalid("smoothing_radius must be positive, got %v", c.SmoothingRadius)
	case !nonNegative(c.ParticleMass):
		return invalid("particle_mass must be >= 0, got %v", c.ParticleMass)
	case !finite(c.GravityStrength):
		return invalid("gravity_strength must be finite, got %v", c.GravityStrength)
	case !finite(c.DensityProbe.X) || !finite(c.DensityProbe.Y):
		return invalid("density_probe must be finite, got (%v, %v)", c.DensityProbe.X, c.DensityProbe.Y)
	case !positive(c.Dt):
		return invalid("dt must be positive, got %v", c.Dt)
	case c.Ticks < 1:
		return invalid("ticks must be >= 1, got %d", c.Ticks)
	case c.RecordEvery < 1:
		return invalid("record_every must be >= 1, got %d", c.RecordEvery)
	case !nonNegative(c.InitialSpeed):
		return invalid("initial_speed must be >= 0, got %v", c.InitialSpeed)
	}

	b := c.Bounds
	if !(b.Left < b.Right) || !(b.Bottom < b.Top) {
		return fmt.Errorf("%w: bounds %+v", fluid.ErrDegenerateGeometry, b)
	}
	if !positive(c.WallThickness) {
		return fmt.Errorf("%w: wall_thickness must be positive, got %v", fluid.ErrDegenerateGeometry, c.WallThickness)
	}

	// the spawn grid plus one particle radius must start inside the walls
	ext := fluid.SpawnExtent(c.SpawnOptions())
	r := c.ParticleRadius
	if ext.Min.X-r < b.Left || ext.Max.X+r > b.Right || ext.Min.Y-r < b.Bottom || ext.Max.Y+r > b.Top {
		return invalid("%d particles spawn over x [%v, %v] y [%v, %v], outside bounds %+v",
			c.ParticleCount, ext.Min.X-r, ext.Max.X+r, ext.Min.Y-r, ext.Max.Y+r, b)
	}
	return nil
}

// Warnings lists accepted values that behave outside physical norms.
func (c *SimulationConfig) Warnings() []string {
	var w []string
	if c.Restitution > 1 {
		w = append(w, fmt.Sprintf("restitution %v > 1 adds energy on every bounce", c.Restitution))
	}
	return w
}

func (c *SimulationConfig) WorldBounds() fluid.Bounds {
	return fluid.Bounds{Left: c.Bounds.Left, Right: c.Bounds.Right, Bottom: c.Bounds.Bottom, Top: c.Bounds.Top}
}

func (c *SimulationConfig) Params() fluid.Params {
	return fluid.Params{
		ParticleRadius: c.ParticleRadius,
		WallThickness:  c.WallThickness,
		Restitution:    c.Restitution,
		Gravity:        fluid.Gravity{Strength: c.GravityStrength, Enabled: c.GravityEnabled},
	}
}

func (c *SimulationConfig) SpawnOptions() fluid.SpawnOptions {
	return fluid.SpawnOptions{
		Count:        c.ParticleCount,
		Radius:       c.ParticleRadius,
		Spacing:      c.SpacingFactor,
		Mass:         c.ParticleMass,
		InitialSpeed: c.InitialSpeed,
		Seed:         c.Seed,
	}
}

func (c *SimulationConfig) DensityField() fluid.DensityField {
	return fluid.DensityField{Mass: c.ParticleMass, SmoothingRadius: c.SmoothingRadius}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
