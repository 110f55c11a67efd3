package config

import "sort"

// Presets tweak DefaultConfig into named scenarios.
var Presets = map[string]func(*SimulationConfig){
	"calm": func(c *SimulationConfig) {},
	"splash": func(c *SimulationConfig) {
		c.InitialSpeed = 180
		c.Seed = 1
	},
	"bouncy": func(c *SimulationConfig) {
		c.InitialSpeed = 150
		c.Restitution = 0.95
		c.Seed = 2
	},
	"dense": func(c *SimulationConfig) {
		c.ParticleCount = 400
		c.SpacingFactor = 0.1
		c.InitialSpeed = 60
		c.Seed = 3
	},
	"rain": func(c *SimulationConfig) {
		c.ParticleCount = 100
		c.GravityEnabled = true
		c.Restitution = 0.6
		c.Ticks = 900
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *SimulationConfig {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
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
