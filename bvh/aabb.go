package bvh

import (
	"github.com/golang/geo/r3"
)

// AABB is an axis-aligned bounding box described by its min and max corners.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// FitAABB returns the tightest axis-aligned box containing all given points.
// An empty point set yields the zero box.
func FitAABB(ps []r3.Vector) AABB {
	if len(ps) == 0 {
		return AABB{}
	}
	bb := AABB{Min: ps[0], Max: ps[0]}
	for _, p := range ps[1:] {
		bb = bb.ExtendPoint(p)
	}
	return bb
}

// ExtendPoint returns the box grown to also contain the given point.
func (bb AABB) ExtendPoint(p r3.Vector) AABB {
	return AABB{
		Min: r3.Vector{X: min(bb.Min.X, p.X), Y: min(bb.Min.Y, p.Y), Z: min(bb.Min.Z, p.Z)},
		Max: r3.Vector{X: max(bb.Max.X, p.X), Y: max(bb.Max.Y, p.Y), Z: max(bb.Max.Z, p.Z)},
	}
}

// Center returns the box center.
func (bb AABB) Center() r3.Vector {
	return bb.Min.Add(bb.Max).Mul(0.5)
}

// Width returns the box extent along the world X axis.
func (bb AABB) Width() float64 { return bb.Max.X - bb.Min.X }

// Height returns the box extent along the world Y axis.
func (bb AABB) Height() float64 { return bb.Max.Y - bb.Min.Y }

// Depth returns the box extent along the world Z axis.
func (bb AABB) Depth() float64 { return bb.Max.Z - bb.Min.Z }

// Overlaps reports whether the two boxes share any point.
func (bb AABB) Overlaps(other AABB) bool {
	if bb.Min.X > other.Max.X || bb.Max.X < other.Min.X {
		return false
	}
	if bb.Min.Y > other.Max.Y || bb.Max.Y < other.Min.Y {
		return false
	}
	if bb.Min.Z > other.Max.Z || bb.Max.Z < other.Min.Z {
		return false
	}
	return true
}
