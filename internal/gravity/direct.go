package gravity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MinDistance floors the squared separation before computing force
	// magnitude, preventing blow-up as bodies approach each other.
	MinDistance = 0.1

	// Below this unclamped squared separation two bodies are treated as
	// coincident and the force direction is replaced by a random unit
	// vector, nudging them apart instead of normalizing a zero vector.
	coincidentDistSq = 0.001

	jitterAmplitude = 0.05
)

// pairForce returns the force exerted on a body of mass mi at pi by a point
// mass mj at pj. Both evaluators route every interaction through this
// kernel, so clamping and coincidence jitter behave identically whether a
// pair is resolved exactly or through a tree aggregate.
func (e *Engine) pairForce(pi mgl64.Vec3, mi float64, pj mgl64.Vec3, mj float64) mgl64.Vec3 {
	dir := pj.Sub(pi)
	distSq := dir.Dot(dir)

	clamped := distSq
	if clamped < MinDistance*MinDistance {
		clamped = MinDistance * MinDistance
	}
	mag := e.G * mi * mj / clamped

	if distSq < coincidentDistSq {
		return e.jitterDirection().Mul(mag)
	}
	return dir.Mul(mag / math.Sqrt(distSq))
}

// jitterDirection draws a pseudo-random unit vector with components uniform
// in [-jitterAmplitude, jitterAmplitude] before normalization. Draw order is
// deterministic for a given seed because the force pass is single-threaded.
func (e *Engine) jitterDirection() mgl64.Vec3 {
	for {
		v := mgl64.Vec3{
			(e.rng.Float64()*2 - 1) * jitterAmplitude,
			(e.rng.Float64()*2 - 1) * jitterAmplitude,
			(e.rng.Float64()*2 - 1) * jitterAmplitude,
		}
		if l := v.Len(); l > 0 {
			return v.Mul(1 / l)
		}
	}
}

// directForce sums the exact pairwise force on the body in the given slot
// from every other tracked body. O(N).
func (e *Engine) directForce(slot int) mgl64.Vec3 {
	bodies := e.registry.Bodies()
	b := bodies[slot]

	var total mgl64.Vec3
	for i, other := range bodies {
		if i == slot {
			continue
		}
		total = total.Add(e.pairForce(b.Position, b.Mass, other.Position, other.Mass))
	}
	return total
}
