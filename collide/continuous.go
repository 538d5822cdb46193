package collide

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/prox3d/prox/bvh"
)

// ContinuousPair records a triangle pair that comes into contact during the
// motion interval, with the earliest contact time in [0, 1].
type ContinuousPair struct {
	ID1, ID2 int
	Time     float64
}

// ContinuousResult is the outcome of a continuous mesh-mesh query over one
// motion interval. TimeOfContact is the earliest time over all recorded
// pairs, or 1 when nothing collides.
type ContinuousResult struct {
	Pairs         []ContinuousPair
	TimeOfContact float64
	Stats         TraversalStats
}

// Collides reports whether any pair comes into contact during the interval.
func (r ContinuousResult) Collides() bool { return len(r.Pairs) > 0 }

// MeshContinuousCollisionNode is the traversal node for a continuous
// mesh-mesh query. Both models must have been moved to their end pose with
// UpdateVertices so that every bounding volume covers the full motion of its
// primitives; vertices are assumed to move linearly over the interval.
//
// Each leaf pair runs fifteen elementary sweeps: six vertex-face (each
// vertex of one triangle against the other's face) and nine edge-edge.
type MeshContinuousCollisionNode[B bvh.BV[B]] struct {
	model1, model2 *bvh.Model[B]
	req            CollisionRequest

	pairs         []ContinuousPair
	timeOfContact float64
	stats         TraversalStats
}

// NewMeshContinuousCollisionNode pairs two triangle models posed in a common
// frame across the motion interval.
func NewMeshContinuousCollisionNode[B bvh.BV[B]](model1, model2 *bvh.Model[B], req CollisionRequest) (*MeshContinuousCollisionNode[B], error) {
	if model1.Kind() != bvh.GeometryTriangles || model2.Kind() != bvh.GeometryTriangles {
		return nil, errors.New("continuous mesh collision requires triangle models")
	}
	return &MeshContinuousCollisionNode[B]{model1: model1, model2: model2, req: req, timeOfContact: 1}, nil
}

// Result returns what the traversal recorded so far.
func (n *MeshContinuousCollisionNode[B]) Result() ContinuousResult {
	return ContinuousResult{Pairs: n.pairs, TimeOfContact: n.timeOfContact, Stats: n.stats}
}

// FirstOverSecond descends into the first model when the second side is a
// leaf or the first side's volume is at least as large.
func (n *MeshContinuousCollisionNode[B]) FirstOverSecond(first, second int) bool {
	if n.IsSecondLeaf(second) {
		return true
	}
	if n.IsFirstLeaf(first) {
		return false
	}
	return bvSize(n.model1.NodeAt(first).Volume) >= bvSize(n.model2.NodeAt(second).Volume)
}

// IsFirstLeaf reports whether the first model's node is a leaf.
func (n *MeshContinuousCollisionNode[B]) IsFirstLeaf(first int) bool {
	return n.model1.NodeAt(first).IsLeaf()
}

// IsSecondLeaf reports whether the second model's node is a leaf.
func (n *MeshContinuousCollisionNode[B]) IsSecondLeaf(second int) bool {
	return n.model2.NodeAt(second).IsLeaf()
}

// FirstChildren returns the children of an internal node of the first model.
func (n *MeshContinuousCollisionNode[B]) FirstChildren(first int) (int, int) {
	node := n.model1.NodeAt(first)
	return node.LeftChild(), node.RightChild()
}

// SecondChildren returns the children of an internal node of the second model.
func (n *MeshContinuousCollisionNode[B]) SecondChildren(second int) (int, int) {
	node := n.model2.NodeAt(second)
	return node.LeftChild(), node.RightChild()
}

// BVDisjoint prunes a node pair whose motion-covering bounding volumes do
// not overlap.
func (n *MeshContinuousCollisionNode[B]) BVDisjoint(first, second int) bool {
	if n.req.EnableStatistics {
		n.stats.BVTests++
	}
	return !n.model1.NodeAt(first).Volume.Overlaps(n.model2.NodeAt(second).Volume)
}

// LeafTest sweeps one triangle pair through the motion interval and records
// the earliest contact time, if any.
func (n *MeshContinuousCollisionNode[B]) LeafTest(first, second int) {
	if n.req.EnableStatistics {
		n.stats.LeafTests++
	}
	id1 := n.model1.NodeAt(first).PrimitiveID()
	id2 := n.model2.NodeAt(second).PrimitiveID()

	a0, b0, c0 := n.model1.PrevTrianglePoints(id1)
	a1, b1, c1 := n.model1.TrianglePoints(id1)
	d0, e0, f0 := n.model2.PrevTrianglePoints(id2)
	d1, e1, f1 := n.model2.TrianglePoints(id2)

	tri1Start := [3]r3.Vector{a0, b0, c0}
	tri1End := [3]r3.Vector{a1, b1, c1}
	tri2Start := [3]r3.Vector{d0, e0, f0}
	tri2End := [3]r3.Vector{d1, e1, f1}

	collided := false
	earliest := 1.0
	record := func(t float64, ok bool) {
		if ok {
			collided = true
			if t < earliest {
				earliest = t
			}
		}
	}

	for i := 0; i < 3; i++ {
		if n.req.EnableStatistics {
			n.stats.VFTests += 2
		}
		record(vertexFaceCollisionTime(
			tri1Start[i], tri1End[i],
			d0, d1, e0, e1, f0, f1))

		record(vertexFaceCollisionTime(
			tri2Start[i], tri2End[i],
			a0, a1, b0, b1, c0, c1))
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if n.req.EnableStatistics {
				n.stats.EETests++
			}
			record(edgeEdgeCollisionTime(
				tri1Start[i], tri1End[i], tri1Start[(i+1)%3], tri1End[(i+1)%3],
				tri2Start[j], tri2End[j], tri2Start[(j+1)%3], tri2End[(j+1)%3]))
		}
	}

	if collided {
		n.pairs = append(n.pairs, ContinuousPair{ID1: id1, ID2: id2, Time: earliest})
		if earliest < n.timeOfContact {
			n.timeOfContact = earliest
		}
	}
}

// CanStop reports whether the requested number of pairs has been reached.
func (n *MeshContinuousCollisionNode[B]) CanStop() bool {
	return n.req.MaxContacts > 0 && len(n.pairs) >= n.req.MaxContacts
}

// CollideMeshesContinuous runs a continuous collision query between two
// triangle models over their last motion interval.
func CollideMeshesContinuous[B bvh.BV[B]](model1, model2 *bvh.Model[B], req CollisionRequest) (ContinuousResult, error) {
	node, err := NewMeshContinuousCollisionNode(model1, model2, req)
	if err != nil {
		return ContinuousResult{}, err
	}
	Traverse(node)
	return node.Result(), nil
}
