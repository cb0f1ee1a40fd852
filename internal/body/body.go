package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is a mutable point mass. Mass must be positive; the engine treats
// that as a caller-maintained precondition and does not validate it.
//
// A static body is excluded from integration (it never moves) but still
// contributes to the forces on other bodies.
type Body struct {
	Mass     float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Static   bool
}

// Speed returns the magnitude of the body's velocity.
func (b *Body) Speed() float64 {
	return b.Velocity.Len()
}

// KineticEnergy returns 0.5*m*|v|^2.
func (b *Body) KineticEnergy() float64 {
	v := b.Velocity
	return 0.5 * b.Mass * v.Dot(v)
}

// Registry is a flat, ordered collection of bodies. The caller owns it;
// the engine borrows it for the duration of a single step and indexes
// per-body scratch state by registry slot.
type Registry struct {
	bodies []*Body
}

func NewRegistry() *Registry {
	return &Registry{bodies: make([]*Body, 0)}
}

// Add appends a body. O(1).
func (r *Registry) Add(b *Body) {
	r.bodies = append(r.bodies, b)
}

// Remove deletes the first occurrence of b, preserving the order of the
// remaining bodies. O(N). Returns false if b is not tracked.
func (r *Registry) Remove(b *Body) bool {
	for i, tracked := range r.bodies {
		if tracked == b {
			r.bodies = append(r.bodies[:i], r.bodies[i+1:]...)
			return true
		}
	}
	return false
}

// Index returns the slot of b, or -1 if b is not tracked.
func (r *Registry) Index(b *Body) int {
	for i, tracked := range r.bodies {
		if tracked == b {
			return i
		}
	}
	return -1
}

// Bodies exposes the backing slice. Callers must not reorder it while a
// step is in flight.
func (r *Registry) Bodies() []*Body {
	return r.bodies
}

func (r *Registry) Len() int {
	return len(r.bodies)
}

// IsValid reports whether every tracked body has finite position and
// velocity components.
func (r *Registry) IsValid() bool {
	for _, b := range r.bodies {
		for i := 0; i < 3; i++ {
			if math.IsNaN(b.Position[i]) || math.IsInf(b.Position[i], 0) {
				return false
			}
			if math.IsNaN(b.Velocity[i]) || math.IsInf(b.Velocity[i], 0) {
				return false
			}
		}
	}
	return true
}
