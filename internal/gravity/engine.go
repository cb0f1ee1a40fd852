package gravity

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/integrators"
)

// Default engine settings.
const (
	DefaultG     = 1.0
	DefaultTheta = 0.5
)

// Engine evaluates gravitational forces over a body registry and advances
// the non-static bodies each step. G, Theta and UseApproximation are read
// once per tick and may be adjusted between steps.
//
// Engine is not safe for concurrent use; the caller serializes ticks.
type Engine struct {
	// G is the gravitational constant.
	G float64
	// Theta is the Barnes-Hut opening-angle threshold in (0, 1]. Smaller
	// values trade speed for accuracy; as Theta approaches zero the tree
	// result converges to the direct sum.
	Theta float64
	// UseApproximation selects the Barnes-Hut octree; when false every
	// step runs the exact O(N^2) evaluator.
	UseApproximation bool

	registry   *body.Registry
	integrator integrators.Integrator
	tree       Octree
	forces     []mgl64.Vec3
	rng        *rand.Rand
}

// New returns an engine over the given registry with default settings and a
// time-seeded jitter source.
func New(reg *body.Registry) *Engine {
	return &Engine{
		G:                DefaultG,
		Theta:            DefaultTheta,
		UseApproximation: true,
		registry:         reg,
		integrator:       integrators.NewSymplecticEuler(),
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Reseed resets the coincidence-jitter source for reproducible runs.
func (e *Engine) Reseed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// SetIntegrator replaces the integration scheme. The default is
// semi-implicit Euler.
func (e *Engine) SetIntegrator(integ integrators.Integrator) {
	e.integrator = integ
}

// Registry returns the tracked body set.
func (e *Engine) Registry() *body.Registry {
	return e.registry
}

// AddBody starts tracking a body. O(1).
func (e *Engine) AddBody(b *body.Body) {
	e.registry.Add(b)
}

// RemoveBody stops tracking a body. O(N).
func (e *Engine) RemoveBody(b *body.Body) bool {
	return e.registry.Remove(b)
}

// Step advances the system by dt. The step is atomic: the octree is rebuilt
// from current positions, all forces are computed from the pre-step
// snapshot, then the velocity and position passes run. Static bodies act as
// force sources but are never advanced. A zero- or one-body registry steps
// without effect.
func (e *Engine) Step(dt float64) {
	bodies := e.registry.Bodies()
	if len(bodies) == 0 {
		return
	}

	if e.UseApproximation {
		e.tree.Build(bodies)
	}

	if cap(e.forces) < len(bodies) {
		e.forces = make([]mgl64.Vec3, len(bodies))
	}
	e.forces = e.forces[:len(bodies)]

	for i, b := range bodies {
		if b.Static {
			e.forces[i] = mgl64.Vec3{}
			continue
		}
		if e.UseApproximation {
			e.forces[i] = e.tree.force(e, int32(i))
		} else {
			e.forces[i] = e.directForce(i)
		}
	}

	e.integrator.Step(bodies, e.forces, dt)

	if e.UseApproximation {
		e.tree.Release()
	}
}

// TotalForce computes the net force on b via whichever evaluator is active.
// Exposed for inspection and testing; Step does not use it.
func (e *Engine) TotalForce(b *body.Body) mgl64.Vec3 {
	slot := e.registry.Index(b)
	if slot < 0 {
		return mgl64.Vec3{}
	}
	if !e.UseApproximation {
		return e.directForce(slot)
	}
	e.tree.Build(e.registry.Bodies())
	f := e.tree.force(e, int32(slot))
	e.tree.Release()
	return f
}
