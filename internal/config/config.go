package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/body"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultG        = 1.0
	DefaultTheta    = 0.5
)

// Config describes a scenario: engine settings plus the initial body set.
type Config struct {
	Scenario         string       `yaml:"scenario"`
	Dt               float64      `yaml:"dt"`
	Duration         float64      `yaml:"duration"`
	Seed             int64        `yaml:"seed"`
	TimeScale        float64      `yaml:"time_scale"`
	G                float64      `yaml:"g"`
	Theta            float64      `yaml:"theta"`
	UseApproximation bool         `yaml:"use_approximation"`
	AutoOrbit        bool         `yaml:"auto_orbit"`
	Bodies           []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
	Static   bool       `yaml:"static"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:         "binary",
		Dt:               DefaultDt,
		Duration:         DefaultDuration,
		TimeScale:        1.0,
		G:                DefaultG,
		Theta:            DefaultTheta,
		UseApproximation: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
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

// BuildRegistry materializes the configured body set. With AutoOrbit set,
// every non-static body with zero configured velocity is given a circular
// orbital velocity about the first body, perpendicular to the separation in
// the XY plane.
func (c *Config) BuildRegistry() *body.Registry {
	bodies := c.Bodies
	if c.AutoOrbit {
		// Work on a copy so shared presets keep their configured zeros.
		bodies = make([]BodyConfig, len(c.Bodies))
		copy(bodies, c.Bodies)
		setOrbitalVelocities(bodies, c.G)
	}

	reg := body.NewRegistry()
	for _, bc := range bodies {
		reg.Add(&body.Body{
			Mass:     bc.Mass,
			Position: mgl64.Vec3{bc.Position[0], bc.Position[1], bc.Position[2]},
			Velocity: mgl64.Vec3{bc.Velocity[0], bc.Velocity[1], bc.Velocity[2]},
			Static:   bc.Static,
		})
	}
	return reg
}

// setOrbitalVelocities fills in v = sqrt(G*M/r) tangential velocities,
// treating the first configured body as the central mass.
func setOrbitalVelocities(bodies []BodyConfig, g float64) {
	if len(bodies) == 0 {
		return
	}
	central := bodies[0]

	for i := 1; i < len(bodies); i++ {
		b := &bodies[i]
		if b.Static || b.Velocity != [3]float64{} {
			continue
		}

		dx := b.Position[0] - central.Position[0]
		dy := b.Position[1] - central.Position[1]
		r := math.Hypot(dx, dy)
		if r == 0 {
			continue
		}
		v := math.Sqrt(g * central.Mass / r)
		b.Velocity[0] = -dy / r * v
		b.Velocity[1] = dx / r * v
	}
}
