package bvh

import (
	"github.com/golang/geo/r3"
)

// OBB is an oriented bounding box: an orthonormal right-handed axis frame, a
// center, and half extents along each axis.
type OBB struct {
	axes     [3]r3.Vector
	center   r3.Vector
	halfSize [3]float64
}

// NewOBB assembles an oriented box from its frame, center, and half extents.
func NewOBB(axes [3]r3.Vector, center r3.Vector, halfSize [3]float64) OBB {
	return OBB{axes: axes, center: center, halfSize: halfSize}
}

// Center returns the box center.
func (b OBB) Center() r3.Vector { return b.center }

// Width returns the extent along the first (principal) axis.
func (b OBB) Width() float64 { return 2 * b.halfSize[0] }

// Height returns the extent along the second axis.
func (b OBB) Height() float64 { return 2 * b.halfSize[1] }

// Depth returns the extent along the third axis.
func (b OBB) Depth() float64 { return 2 * b.halfSize[2] }

// PrincipalAxis returns the axis the box is longest along.
func (b OBB) PrincipalAxis() r3.Vector { return b.axes[0] }

// Axes returns the box's orientation frame.
func (b OBB) Axes() [3]r3.Vector { return b.axes }

// HalfSize returns the box's half extents.
func (b OBB) HalfSize() [3]float64 { return b.halfSize }

// Overlaps reports whether the two oriented boxes intersect, using the
// 15-axis separating axis test.
func (b OBB) Overlaps(other OBB) bool {
	return satMaxGap(b.axes, other.axes, b.halfSize, other.halfSize, other.center.Sub(b.center)) <= 0
}

// ContainsPoint reports whether the point lies inside the box; used by the
// fitter tests to validate containment.
func (b OBB) ContainsPoint(p r3.Vector) bool {
	d := p.Sub(b.center)
	const slack = 1e-9
	for i := 0; i < 3; i++ {
		proj := d.Dot(b.axes[i])
		if proj > b.halfSize[i]+slack || proj < -b.halfSize[i]-slack {
			return false
		}
	}
	return true
}
