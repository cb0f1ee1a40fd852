// Package sim drives the gravity engine over a fixed-step run, collecting
// snapshots and diagnostics.
package sim

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/metrics"
)

// Config controls a run. TimeScale globally scales dt without the engine's
// involvement; the engine only ever sees the product.
type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	TimeScale     float64
	SnapshotEvery int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		TimeScale:     1.0,
		SnapshotEvery: 1,
		ValidateState: true,
	}
}

// Snapshot captures body kinematics and total energy at one instant.
type Snapshot struct {
	Time      float64
	Positions []mgl64.Vec3
	Energy    float64
}

// Result accumulates a run's output.
type Result struct {
	Snapshots   []Snapshot
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// Observer is notified after every step.
type Observer interface {
	OnStep(reg *body.Registry, t float64)
}

// Runner owns nothing: the engine borrows the caller's registry, and the
// runner borrows the engine. Runs are synchronous and single-threaded.
type Runner struct {
	engine    *gravity.Engine
	metrics   []metrics.Metric
	observers []Observer
}

func New(engine *gravity.Engine) *Runner {
	return &Runner{engine: engine}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }

func (r *Runner) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return ErrInvalidTimestep
	}
	if cfg.Duration <= 0 {
		return ErrInvalidDuration
	}
	if cfg.TimeScale <= 0 {
		return ErrInvalidTimeScale
	}
	return nil
}

// Run advances the engine for Duration/Dt steps, observing metrics each
// step and capturing snapshots at the configured cadence. A cancelled
// context returns the partial result along with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Seed != 0 {
		r.engine.Reseed(cfg.Seed)
	}

	steps := int(cfg.Duration / cfg.Dt)
	every := cfg.SnapshotEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Snapshots: make([]Snapshot, 0, steps/every+1),
		Metrics:   make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	reg := r.engine.Registry()
	t := 0.0
	dt := cfg.Dt * cfg.TimeScale

	initialEnergy := r.engine.TotalEnergy()
	result.Snapshots = append(result.Snapshots, r.snapshot(t))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range r.metrics {
			m.Observe(reg, t)
		}
		for _, o := range r.observers {
			o.OnStep(reg, t)
		}

		r.engine.Step(dt)
		t += dt
		result.StepsTaken++

		if cfg.ValidateState && !reg.IsValid() {
			result.Errors = append(result.Errors, &StepError{Step: i, Time: t, Wrapped: ErrDiverged})
			break
		}

		if (i+1)%every == 0 {
			result.Snapshots = append(result.Snapshots, r.snapshot(t))
		}
	}

	finalEnergy := r.engine.TotalEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps until the callback returns false or the duration
// elapses. Used by the live view, which paces itself.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(t float64) bool) error {
	if err := r.validate(cfg); err != nil {
		return err
	}
	if cfg.Seed != 0 {
		r.engine.Reseed(cfg.Seed)
	}

	reg := r.engine.Registry()
	t := 0.0
	dt := cfg.Dt * cfg.TimeScale

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(t) {
			return nil
		}

		r.engine.Step(dt)
		t += dt

		if cfg.ValidateState && !reg.IsValid() {
			return ErrDiverged
		}
	}

	return nil
}

func (r *Runner) snapshot(t float64) Snapshot {
	bodies := r.engine.Registry().Bodies()
	positions := make([]mgl64.Vec3, len(bodies))
	for i, b := range bodies {
		positions[i] = b.Position
	}
	return Snapshot{Time: t, Positions: positions, Energy: r.engine.TotalEnergy()}
}
