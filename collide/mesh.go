package collide

import (
	"github.com/pkg/errors"

	"github.com/prox3d/prox/bvh"
	"github.com/prox3d/prox/narrowphase"
	"github.com/prox3d/prox/spatial"
)

// MeshCollisionNode is the traversal node for a discrete mesh-mesh query.
// Leaf pairs are decided by an exact triangle-triangle test.
type MeshCollisionNode[B bvh.BV[B]] struct {
	model1, model2 *bvh.Model[B]
	req            CollisionRequest

	pairs []CollisionPair
	stats TraversalStats
}

// NewMeshCollisionNode pairs two triangle models posed in a common frame.
func NewMeshCollisionNode[B bvh.BV[B]](model1, model2 *bvh.Model[B], req CollisionRequest) (*MeshCollisionNode[B], error) {
	if model1.Kind() != bvh.GeometryTriangles || model2.Kind() != bvh.GeometryTriangles {
		return nil, errors.New("mesh collision requires triangle models")
	}
	return &MeshCollisionNode[B]{model1: model1, model2: model2, req: req}, nil
}

// Result returns what the traversal recorded so far.
func (n *MeshCollisionNode[B]) Result() CollisionResult {
	return CollisionResult{Pairs: n.pairs, Stats: n.stats}
}

// FirstOverSecond descends into the first model when the second side is a
// leaf or the first side's volume is at least as large.
func (n *MeshCollisionNode[B]) FirstOverSecond(first, second int) bool {
	if n.IsSecondLeaf(second) {
		return true
	}
	if n.IsFirstLeaf(first) {
		return false
	}
	return bvSize(n.model1.NodeAt(first).Volume) >= bvSize(n.model2.NodeAt(second).Volume)
}

// IsFirstLeaf reports whether the first model's node is a leaf.
func (n *MeshCollisionNode[B]) IsFirstLeaf(first int) bool { return n.model1.NodeAt(first).IsLeaf() }

// IsSecondLeaf reports whether the second model's node is a leaf.
func (n *MeshCollisionNode[B]) IsSecondLeaf(second int) bool { return n.model2.NodeAt(second).IsLeaf() }

// FirstChildren returns the children of an internal node of the first model.
func (n *MeshCollisionNode[B]) FirstChildren(first int) (int, int) {
	node := n.model1.NodeAt(first)
	return node.LeftChild(), node.RightChild()
}

// SecondChildren returns the children of an internal node of the second model.
func (n *MeshCollisionNode[B]) SecondChildren(second int) (int, int) {
	node := n.model2.NodeAt(second)
	return node.LeftChild(), node.RightChild()
}

// BVDisjoint prunes a node pair whose bounding volumes do not overlap.
func (n *MeshCollisionNode[B]) BVDisjoint(first, second int) bool {
	if n.req.EnableStatistics {
		n.stats.BVTests++
	}
	return !n.model1.NodeAt(first).Volume.Overlaps(n.model2.NodeAt(second).Volume)
}

// LeafTest runs the exact triangle pair test and records intersecting pairs.
func (n *MeshCollisionNode[B]) LeafTest(first, second int) {
	if n.req.EnableStatistics {
		n.stats.LeafTests++
	}
	id1 := n.model1.NodeAt(first).PrimitiveID()
	id2 := n.model2.NodeAt(second).PrimitiveID()

	a0, a1, a2 := n.model1.TrianglePoints(id1)
	b0, b1, b2 := n.model2.TrianglePoints(id2)
	if narrowphase.TriangleTriangleIntersect(spatial.NewTriangle(a0, a1, a2), spatial.NewTriangle(b0, b1, b2)) {
		n.pairs = append(n.pairs, CollisionPair{ID1: id1, ID2: id2})
	}
}

// CanStop reports whether the requested number of pairs has been reached.
func (n *MeshCollisionNode[B]) CanStop() bool {
	return n.req.MaxContacts > 0 && len(n.pairs) >= n.req.MaxContacts
}

// CollideMeshes runs a discrete collision query between two posed triangle
// models and returns every intersecting triangle pair, up to the request's
// maximum.
func CollideMeshes[B bvh.BV[B]](model1, model2 *bvh.Model[B], req CollisionRequest) (CollisionResult, error) {
	node, err := NewMeshCollisionNode(model1, model2, req)
	if err != nil {
		return CollisionResult{}, err
	}
	Traverse(node)
	return node.Result(), nil
}
