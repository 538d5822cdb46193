// Package bvh implements bounding-volume hierarchies for triangle meshes and
// point clouds: spatial-sorting Morton keys, node-splitting heuristics,
// bounding-volume fitters, and a flat indexed tree model suitable for
// read-only sharing across concurrent queries.
package bvh

import (
	"github.com/golang/geo/r3"
)

// BV is the capability constraint a bounding-volume variant must satisfy to
// participate in a hierarchy. Overlaps must be conservative: it may report
// overlap for disjoint volumes, but must never report disjoint for
// overlapping ones.
type BV[B any] interface {
	Center() r3.Vector
	Width() float64
	Height() float64
	Depth() float64
	Overlaps(other B) bool
}

// OrientedBV is implemented by bounding volumes that carry their own
// orientation frame. The node splitter projects onto the principal axis
// instead of a world axis when this capability is present.
type OrientedBV interface {
	PrincipalAxis() r3.Vector
}

// SplitVolume is the minimal capability surface the node splitter reads from
// a bounding volume. All BV variants in this package satisfy it.
type SplitVolume interface {
	Center() r3.Vector
	Width() float64
	Height() float64
	Depth() float64
}
