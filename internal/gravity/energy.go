package gravity

import (
	"github.com/go-gl/mathgl/mgl64"
)

// TotalEnergy returns kinetic plus potential energy of the tracked set.
// Potential energy sums unique unordered pairs with the separation floored
// at MinDistance, matching the force clamp. Read-only; the integrator never
// consumes it.
func (e *Engine) TotalEnergy() float64 {
	bodies := e.registry.Bodies()

	ke := 0.0
	for _, b := range bodies {
		ke += b.KineticEnergy()
	}

	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			dist := bodies[j].Position.Sub(bodies[i].Position).Len()
			if dist < MinDistance {
				dist = MinDistance
			}
			pe -= e.G * bodies[i].Mass * bodies[j].Mass / dist
		}
	}

	return ke + pe
}

// Momentum returns the total linear momentum of the tracked set.
func (e *Engine) Momentum() mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range e.registry.Bodies() {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin.
func (e *Engine) AngularMomentum() mgl64.Vec3 {
	var l mgl64.Vec3
	for _, b := range e.registry.Bodies() {
		l = l.Add(b.Position.Cross(b.Velocity.Mul(b.Mass)))
	}
	return l
}
