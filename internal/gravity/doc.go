// Package gravity computes mutual gravitational forces for a set of point
// masses and advances them in time.
//
// Two evaluators are provided:
//
//   - direct: exact O(N^2) pairwise summation, the reference implementation
//   - octree: Barnes-Hut approximation, O(N log N) expected, with accuracy
//     controlled by the opening-angle threshold Theta
//
// The [Engine] ties an evaluator to a [body.Registry] and a symplectic
// integrator:
//
//	reg := body.NewRegistry()
//	eng := gravity.New(reg)
//	eng.AddBody(&body.Body{Mass: 1000, Static: true})
//	eng.Step(0.01)
//
// A step is atomic: the octree is rebuilt from scratch, all forces are
// evaluated against the pre-step position snapshot, then velocities and
// positions are updated. Engine instances are not safe for concurrent use.
package gravity
