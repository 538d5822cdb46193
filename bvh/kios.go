package bvh

import (
	"github.com/golang/geo/r3"
)

// kiosSphere is one bounding sphere of a KIOS volume.
type kiosSphere struct {
	center r3.Vector
	radius float64
}

// KIOS bounds geometry by the intersection of a small set of spheres,
// tightened further by an oriented box. Two KIOS volumes are disjoint if any
// sphere pair is disjoint or the boxes are disjoint.
type KIOS struct {
	spheres []kiosSphere
	obb     OBB
}

// Center returns the center of the underlying oriented box.
func (k KIOS) Center() r3.Vector { return k.obb.Center() }

// Width returns the oriented box extent along its principal axis.
func (k KIOS) Width() float64 { return k.obb.Width() }

// Height returns the oriented box extent along its second axis.
func (k KIOS) Height() float64 { return k.obb.Height() }

// Depth returns the oriented box extent along its third axis.
func (k KIOS) Depth() float64 { return k.obb.Depth() }

// PrincipalAxis returns the principal axis of the underlying oriented box.
func (k KIOS) PrincipalAxis() r3.Vector { return k.obb.PrincipalAxis() }

// OBB returns the underlying oriented box.
func (k KIOS) OBB() OBB { return k.obb }

// Overlaps reports whether the two volumes may intersect. Each volume is an
// intersection of spheres, so a single disjoint sphere pair proves the
// volumes disjoint; the oriented boxes are checked first as they usually
// prune sooner.
func (k KIOS) Overlaps(other KIOS) bool {
	if !k.obb.Overlaps(other.obb) {
		return false
	}
	for _, s1 := range k.spheres {
		for _, s2 := range other.spheres {
			d := s1.center.Sub(s2.center).Norm()
			if d > s1.radius+s2.radius {
				return false
			}
		}
	}
	return true
}
