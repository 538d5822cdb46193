package bvh

import (
	"github.com/golang/geo/r3"
)

// RSS is a rectangle-swept sphere: all points within distance r of a
// rectangle lying in the plane of the first two frame axes. origin is the
// rectangle corner at minimal coordinates in the frame; l holds the rectangle
// side lengths along the first two axes.
type RSS struct {
	axes   [3]r3.Vector
	origin r3.Vector
	l      [2]float64
	r      float64
}

// Center returns the center of the swept volume.
func (s RSS) Center() r3.Vector {
	return s.origin.Add(s.axes[0].Mul(s.l[0] / 2)).Add(s.axes[1].Mul(s.l[1] / 2))
}

// Width returns the extent along the first axis, sweep included.
func (s RSS) Width() float64 { return s.l[0] + 2*s.r }

// Height returns the extent along the second axis, sweep included.
func (s RSS) Height() float64 { return s.l[1] + 2*s.r }

// Depth returns the extent along the third axis (the sweep thickness).
func (s RSS) Depth() float64 { return 2 * s.r }

// PrincipalAxis returns the rectangle's long axis.
func (s RSS) PrincipalAxis() r3.Vector { return s.axes[0] }

// Radius returns the sweep radius.
func (s RSS) Radius() float64 { return s.r }

// Overlaps reports whether two swept volumes may intersect. The test treats
// each rectangle as a degenerate box and compares the separating-axis gap
// against the summed sweep radii. The gap is a lower bound on the rectangle
// distance, so the test is conservative: it can admit disjoint volumes but
// never rejects intersecting ones.
func (s RSS) Overlaps(other RSS) bool {
	hA := [3]float64{s.l[0] / 2, s.l[1] / 2, 0}
	hB := [3]float64{other.l[0] / 2, other.l[1] / 2, 0}
	gap := satMaxGap(s.axes, other.axes, hA, hB, other.Center().Sub(s.Center()))
	return gap <= s.r+other.r
}

// ContainsPoint reports whether the point lies within the swept volume.
func (s RSS) ContainsPoint(p r3.Vector) bool {
	d := p.Sub(s.origin)
	x := d.Dot(s.axes[0])
	y := d.Dot(s.axes[1])
	z := d.Dot(s.axes[2])

	// Closest point on the rectangle in frame coordinates.
	cx := clamp(x, 0, s.l[0])
	cy := clamp(y, 0, s.l[1])
	dx, dy := x-cx, y-cy
	const slack = 1e-9
	return dx*dx+dy*dy+z*z <= s.r*s.r+slack
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
