package gravity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
)

const (
	// boundsPadding expands the build-time bounding cube on every axis so
	// that bodies sitting exactly on the hull still insert cleanly.
	boundsPadding = 10.0

	// maxDepth caps subdivision. A leaf at the cap holds colocated bodies
	// as an aggregate instead of recursing forever on identical octant
	// codes.
	maxDepth = 32
)

type nodeID int32

const noNode nodeID = -1

// octreeNode is one cell of the spatial partition. A node is internal once
// it has been split; otherwise it is a leaf holding zero or more body slots
// directly (more than one only at the depth cap).
type octreeNode struct {
	min, max mgl64.Vec3
	children [8]nodeID
	slots    []int32
	internal bool

	// aggregate over all bodies in the subtree
	mass float64
	com  mgl64.Vec3
}

// Octree is an arena of nodes indexed by integer handles. The arena is
// cleared, not reallocated, on every rebuild; the tree has no lifecycle
// beyond a single step.
type Octree struct {
	nodes  []octreeNode
	bodies []*body.Body
}

// Build rebuilds the tree from scratch over the given bodies. The slice is
// borrowed until the next Build or Release.
func (t *Octree) Build(bodies []*body.Body) {
	t.nodes = t.nodes[:0]
	t.bodies = bodies
	if len(bodies) == 0 {
		return
	}

	min, max := boundingCube(bodies)
	t.newNode(min, max)
	for slot := range bodies {
		t.insert(0, int32(slot), 0)
	}
	t.aggregate(0)
}

// Release drops the borrowed body slice. Node storage is kept for reuse.
func (t *Octree) Release() {
	t.bodies = nil
}

// boundingCube returns the axis-aligned bounding box of all positions,
// expanded by boundsPadding and stretched to a cube so that octants divide
// evenly.
func boundingCube(bodies []*body.Body) (mgl64.Vec3, mgl64.Vec3) {
	min := bodies[0].Position
	max := bodies[0].Position
	for _, b := range bodies[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], b.Position[i])
			max[i] = math.Max(max[i], b.Position[i])
		}
	}

	edge := 0.0
	for i := 0; i < 3; i++ {
		min[i] -= boundsPadding
		max[i] += boundsPadding
		edge = math.Max(edge, max[i]-min[i])
	}
	for i := 0; i < 3; i++ {
		pad := (edge - (max[i] - min[i])) / 2
		min[i] -= pad
		max[i] += pad
	}
	return min, max
}

func (t *Octree) newNode(min, max mgl64.Vec3) nodeID {
	id := nodeID(len(t.nodes))
	t.nodes = append(t.nodes, octreeNode{
		min:      min,
		max:      max,
		children: [8]nodeID{noNode, noNode, noNode, noNode, noNode, noNode, noNode, noNode},
	})
	return id
}

func (t *Octree) center(id nodeID) mgl64.Vec3 {
	n := &t.nodes[id]
	return n.min.Add(n.max).Mul(0.5)
}

// octant computes the 3-bit child code for a position: one bit per axis,
// set when the coordinate is >= the node's center on that axis.
func (t *Octree) octant(id nodeID, pos mgl64.Vec3) int {
	c := t.center(id)
	oct := 0
	if pos[0] >= c[0] {
		oct |= 1
	}
	if pos[1] >= c[1] {
		oct |= 2
	}
	if pos[2] >= c[2] {
		oct |= 4
	}
	return oct
}

// child returns the child node for the given octant, creating it lazily.
// Appending to the arena may relocate it, so callers must not hold node
// pointers across this call.
func (t *Octree) child(id nodeID, oct int) nodeID {
	if c := t.nodes[id].children[oct]; c != noNode {
		return c
	}
	center := t.center(id)
	min := t.nodes[id].min
	max := t.nodes[id].max
	for i, bit := 0, 1; i < 3; i, bit = i+1, bit<<1 {
		if oct&bit != 0 {
			min[i] = center[i]
		} else {
			max[i] = center[i]
		}
	}
	c := t.newNode(min, max)
	t.nodes[id].children[oct] = c
	return c
}

// insert places a body slot into the subtree rooted at id. Recursion is
// bounded by maxDepth; at the cap a leaf accumulates colocated slots.
func (t *Octree) insert(id nodeID, slot int32, depth int) {
	pos := t.bodies[slot].Position

	if t.nodes[id].internal {
		t.insert(t.child(id, t.octant(id, pos)), slot, depth+1)
		return
	}
	if len(t.nodes[id].slots) == 0 || depth >= maxDepth {
		t.nodes[id].slots = append(t.nodes[id].slots, slot)
		return
	}

	// Leaf split: push the resident body down, then retry as internal.
	resident := t.nodes[id].slots
	t.nodes[id].slots = nil
	t.nodes[id].internal = true
	for _, s := range resident {
		rp := t.bodies[s].Position
		t.insert(t.child(id, t.octant(id, rp)), s, depth+1)
	}
	t.insert(t.child(id, t.octant(id, pos)), slot, depth+1)
}

// aggregate computes total mass and center of mass bottom-up in a single
// post-order pass. Leaves copy their bodies' mass and position.
func (t *Octree) aggregate(id nodeID) (float64, mgl64.Vec3) {
	n := &t.nodes[id]
	if !n.internal {
		for _, s := range n.slots {
			b := t.bodies[s]
			n.mass += b.Mass
			n.com = n.com.Add(b.Position.Mul(b.Mass))
		}
		if n.mass > 0 {
			n.com = n.com.Mul(1 / n.mass)
		}
		return n.mass, n.com
	}

	var mass float64
	var weighted mgl64.Vec3
	for _, c := range n.children {
		if c == noNode {
			continue
		}
		m, com := t.aggregate(c)
		mass += m
		weighted = weighted.Add(com.Mul(m))
	}
	n.mass = mass
	if mass > 0 {
		n.com = weighted.Mul(1 / mass)
	}
	return n.mass, n.com
}

// size returns the largest edge of the node's bounding cube.
func (t *Octree) size(id nodeID) float64 {
	n := &t.nodes[id]
	s := n.max[0] - n.min[0]
	s = math.Max(s, n.max[1]-n.min[1])
	return math.Max(s, n.max[2]-n.min[2])
}

// force computes the approximate net force on the body in the given slot by
// walking the tree with the engine's opening-angle threshold.
func (t *Octree) force(e *Engine, slot int32) mgl64.Vec3 {
	if len(t.nodes) == 0 {
		return mgl64.Vec3{}
	}
	return t.forceFrom(e, 0, slot)
}

func (t *Octree) forceFrom(e *Engine, id nodeID, slot int32) mgl64.Vec3 {
	n := &t.nodes[id]
	if n.mass == 0 {
		return mgl64.Vec3{}
	}
	b := t.bodies[slot]

	if !n.internal {
		// Resolve leaf bodies exactly through the pair kernel. A leaf
		// holding only the query body contributes nothing; colocated
		// bodies at the depth cap fall through to the kernel's jitter.
		var f mgl64.Vec3
		for _, s := range n.slots {
			if s == slot {
				continue
			}
			other := t.bodies[s]
			f = f.Add(e.pairForce(b.Position, b.Mass, other.Position, other.Mass))
		}
		return f
	}

	d := n.com.Sub(b.Position).Len()
	if d > 0 && t.size(id)/d < e.Theta {
		// Far enough: the whole subtree acts as one point mass at its
		// center of mass.
		return e.pairForce(b.Position, b.Mass, n.com, n.mass)
	}

	var f mgl64.Vec3
	for _, c := range n.children {
		if c != noNode {
			f = f.Add(t.forceFrom(e, c, slot))
		}
	}
	return f
}
