package config

import (
	"math"
	"math/rand"
)

var Presets = map[string]*Config{
	"binary": {
		Scenario: "binary", Dt: 0.01, Duration: 30.0,
		G: 1.0, Theta: 0.5, TimeScale: 1.0, UseApproximation: true,
		Bodies: []BodyConfig{
			{Mass: 500, Position: [3]float64{-10, 0, 0}, Velocity: [3]float64{0, -2.5, 0}},
			{Mass: 500, Position: [3]float64{10, 0, 0}, Velocity: [3]float64{0, 2.5, 0}},
		},
	},
	"orbit": {
		Scenario: "orbit", Dt: 0.01, Duration: 60.0,
		G: 1.0, Theta: 0.5, TimeScale: 1.0, UseApproximation: true, AutoOrbit: true,
		Bodies: []BodyConfig{
			{Mass: 1000, Static: true},
			{Mass: 1, Position: [3]float64{20, 0, 0}},
			{Mass: 1, Position: [3]float64{-35, 0, 0}},
		},
	},
	"solar": {
		Scenario: "solar", Dt: 0.005, Duration: 120.0,
		G: 1.0, Theta: 0.5, TimeScale: 1.0, UseApproximation: true, AutoOrbit: true,
		Bodies: []BodyConfig{
			{Mass: 2000, Static: true},
			{Mass: 0.5, Position: [3]float64{12, 0, 0}},
			{Mass: 1.0, Position: [3]float64{22, 0, 0}},
			{Mass: 1.2, Position: [3]float64{34, 0, 0}},
			{Mass: 8.0, Position: [3]float64{55, 0, 0}},
		},
	},
}

// GetPreset returns a copy of the named preset, so callers may override
// fields without touching the shared table.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Bodies = make([]BodyConfig, len(p.Bodies))
	copy(cfg.Bodies, p.Bodies)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

// Ring generates n bodies of unit mass evenly spaced on a circle of the
// given radius, each with a tangential velocity. Deterministic apart from
// the seeded mass perturbation.
func Ring(n int, radius float64, seed int64) *Config {
	rng := rand.New(rand.NewSource(seed))
	cfg := DefaultConfig()
	cfg.Scenario = "ring"
	cfg.Seed = seed
	cfg.Bodies = make([]BodyConfig, n)

	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		cfg.Bodies[i] = BodyConfig{
			Mass:     1.0 + rng.Float64()*0.1,
			Position: [3]float64{radius * math.Cos(angle), radius * math.Sin(angle), 0},
			Velocity: [3]float64{-math.Sin(angle) * 0.5, math.Cos(angle) * 0.5, 0},
		}
	}
	return cfg
}

// Cluster generates n bodies uniformly inside a cube of the given half
// extent, at rest, plus a heavy static core at the origin.
func Cluster(n int, extent float64, seed int64) *Config {
	rng := rand.New(rand.NewSource(seed))
	cfg := DefaultConfig()
	cfg.Scenario = "cluster"
	cfg.Seed = seed
	cfg.Bodies = make([]BodyConfig, 0, n+1)
	cfg.Bodies = append(cfg.Bodies, BodyConfig{Mass: 1000, Static: true})

	for i := 0; i < n; i++ {
		cfg.Bodies = append(cfg.Bodies, BodyConfig{
			Mass: 0.5 + rng.Float64(),
			Position: [3]float64{
				(rng.Float64()*2 - 1) * extent,
				(rng.Float64()*2 - 1) * extent,
				(rng.Float64()*2 - 1) * extent,
			},
		})
	}
	return cfg
}
