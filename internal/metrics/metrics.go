// Package metrics provides conserved-quantity diagnostics observed over a
// simulation run.
package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Metric observes the body set once per step and reduces to a single value
// at the end of a run.
type Metric interface {
	Name() string
	Observe(reg *body.Registry, t float64)
	Value() float64
	Reset()
}

// EnergyDrift tracks the maximum relative deviation of total energy from
// its value at the first observation.
type EnergyDrift struct {
	engine  *gravity.Engine
	initial float64
	max     float64
	samples int
}

func NewEnergyDrift(engine *gravity.Engine) *EnergyDrift {
	return &EnergyDrift{engine: engine}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(reg *body.Registry, t float64) {
	energy := e.engine.TotalEnergy()
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.max = math.Max(e.max, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.max }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.max = 0
	e.samples = 0
}

// MomentumDrift tracks the maximum deviation of total linear momentum from
// its value at the first observation, in absolute magnitude.
type MomentumDrift struct {
	engine  *gravity.Engine
	initial [3]float64
	max     float64
	samples int
}

func NewMomentumDrift(engine *gravity.Engine) *MomentumDrift {
	return &MomentumDrift{engine: engine}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(reg *body.Registry, t float64) {
	p := m.engine.Momentum()
	if m.samples == 0 {
		m.initial = [3]float64{p[0], p[1], p[2]}
	}
	m.samples++

	dx := p[0] - m.initial[0]
	dy := p[1] - m.initial[1]
	dz := p[2] - m.initial[2]
	m.max = math.Max(m.max, math.Sqrt(dx*dx+dy*dy+dz*dz))
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() {
	m.initial = [3]float64{}
	m.max = 0
	m.samples = 0
}

// AngularMomentumDrift tracks the maximum deviation of total angular
// momentum about the origin from its value at the first observation.
type AngularMomentumDrift struct {
	engine  *gravity.Engine
	initial [3]float64
	max     float64
	samples int
}

func NewAngularMomentumDrift(engine *gravity.Engine) *AngularMomentumDrift {
	return &AngularMomentumDrift{engine: engine}
}

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(reg *body.Registry, t float64) {
	l := a.engine.AngularMomentum()
	if a.samples == 0 {
		a.initial = [3]float64{l[0], l[1], l[2]}
	}
	a.samples++

	dx := l[0] - a.initial[0]
	dy := l[1] - a.initial[1]
	dz := l[2] - a.initial[2]
	a.max = math.Max(a.max, math.Sqrt(dx*dx+dy*dy+dz*dz))
}

func (a *AngularMomentumDrift) Value() float64 { return a.max }

func (a *AngularMomentumDrift) Reset() {
	a.initial = [3]float64{}
	a.max = 0
	a.samples = 0
}

// Defaults returns the standard diagnostic set for a run.
func Defaults(engine *gravity.Engine) []Metric {
	return []Metric{
		NewEnergyDrift(engine),
		NewMomentumDrift(engine),
		NewAngularMomentumDrift(engine),
	}
}
