// Package collide runs collision queries by pairing two object
// representations under a shared hierarchical traversal engine. Each query
// kind is a traversal node: a value that knows how to cull a pair of
// bounding volumes, how to test a pair of leaves, and when enough results
// have been gathered to stop.
//
// All discrete queries expect their models posed in a common frame; use
// Model.ApplyTransform to pose a model before querying.
package collide

import (
	"github.com/prox3d/prox/bvh"
)

// CollisionRequest controls how much work a query does.
type CollisionRequest struct {
	// MaxContacts stops the traversal once this many intersecting pairs
	// have been recorded. Zero or negative means exhaustive.
	MaxContacts int
	// EnableContact requests full contact data (point, normal, depth)
	// where the pair test can produce it. Pair identities are recorded
	// either way.
	EnableContact bool
	// EnableStatistics makes the query count its work in TraversalStats.
	EnableStatistics bool
}

// TraversalStats counts the primitive work one query performed.
type TraversalStats struct {
	// BVTests is the number of bounding-volume pair tests.
	BVTests int
	// LeafTests is the number of leaf-pair tests.
	LeafTests int
	// VFTests and EETests count the vertex-face and edge-edge root-finding
	// invocations of a continuous query; both stay zero for discrete
	// queries.
	VFTests int
	EETests int
}

// CollisionPair records one intersecting primitive pair, by primitive id in
// each model.
type CollisionPair struct {
	ID1, ID2 int
}

// CollisionResult is the outcome of a discrete collision query.
type CollisionResult struct {
	Pairs []CollisionPair
	Stats TraversalStats
}

// Collides reports whether the query found any intersecting pair.
func (r CollisionResult) Collides() bool { return len(r.Pairs) > 0 }

// Traversal is the capability surface the traversal engine drives a query
// through. Node arguments are indices whose meaning belongs to the
// implementation: a tree index, or a placeholder for a single-shape side.
type Traversal interface {
	// FirstOverSecond decides which side's children to descend into when
	// neither index pair is a leaf-leaf pair.
	FirstOverSecond(first, second int) bool
	// IsFirstLeaf and IsSecondLeaf report whether the given index is a
	// leaf on that side.
	IsFirstLeaf(first int) bool
	IsSecondLeaf(second int) bool
	// FirstChildren and SecondChildren return the two child indices of an
	// internal node on that side.
	FirstChildren(first int) (left, right int)
	SecondChildren(second int) (left, right int)
	// BVDisjoint reports whether the bounding volumes of the two indices
	// are certainly disjoint. It may report false for disjoint volumes
	// (a wasted descent) but never true for overlapping ones.
	BVDisjoint(first, second int) bool
	// LeafTest runs the exact primitive test for a leaf pair and records
	// any results on the node.
	LeafTest(first, second int)
	// CanStop reports whether enough results are recorded to abandon the
	// rest of the traversal.
	CanStop() bool
}

// Traverse runs a depth-first traversal over the node from both roots. The
// descent order is deterministic: the left child of whichever side
// FirstOverSecond picks is always visited first.
func Traverse(t Traversal) {
	if t.BVDisjoint(0, 0) {
		return
	}
	traverse(t, 0, 0)
}

func traverse(t Traversal, first, second int) bool {
	if t.IsFirstLeaf(first) && t.IsSecondLeaf(second) {
		t.LeafTest(first, second)
		return t.CanStop()
	}
	if t.FirstOverSecond(first, second) {
		left, right := t.FirstChildren(first)
		if !t.BVDisjoint(left, second) && traverse(t, left, second) {
			return true
		}
		if !t.BVDisjoint(right, second) && traverse(t, right, second) {
			return true
		}
		return false
	}
	left, right := t.SecondChildren(second)
	if !t.BVDisjoint(first, left) && traverse(t, first, left) {
		return true
	}
	if !t.BVDisjoint(first, right) && traverse(t, first, right) {
		return true
	}
	return false
}

// bvSize orders bounding volumes for the descent heuristic: descend into the
// larger volume first to shrink the broader side of the pair.
func bvSize[B bvh.BV[B]](v B) float64 {
	w, h, d := v.Width(), v.Height(), v.Depth()
	return w*w + h*h + d*d
}
