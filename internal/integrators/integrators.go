// Package integrators advances body kinematics from precomputed forces.
//
// Every integrator consumes forces evaluated against the pre-step position
// snapshot; no force is recomputed mid-step. Static bodies are skipped in
// every pass.
package integrators

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
)

// Integrator advances positions and velocities by dt. forces is indexed by
// registry slot and must be at least as long as bodies.
type Integrator interface {
	Step(bodies []*body.Body, forces []mgl64.Vec3, dt float64)
	Name() string
}

// SymplecticEuler is the semi-implicit Euler scheme: the velocity pass runs
// first, and the position pass uses the already-updated velocities. That
// ordering is what bounds long-term energy drift for periodic orbits.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (SymplecticEuler) Name() string { return "symplectic" }

func (SymplecticEuler) Step(bodies []*body.Body, forces []mgl64.Vec3, dt float64) {
	for i, b := range bodies {
		if b.Static {
			continue
		}
		b.Velocity = b.Velocity.Add(forces[i].Mul(dt / b.Mass))
	}
	for _, b := range bodies {
		if b.Static {
			continue
		}
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}
}

// ExplicitEuler updates position with the pre-update velocity. It
// systematically injects energy on periodic orbits and exists as the drift
// baseline for integrator comparisons.
type ExplicitEuler struct{}

func NewExplicitEuler() *ExplicitEuler {
	return &ExplicitEuler{}
}

func (ExplicitEuler) Name() string { return "euler" }

func (ExplicitEuler) Step(bodies []*body.Body, forces []mgl64.Vec3, dt float64) {
	for i, b := range bodies {
		if b.Static {
			continue
		}
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
		b.Velocity = b.Velocity.Add(forces[i].Mul(dt / b.Mass))
	}
}
