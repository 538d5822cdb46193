package spatial

import (
	"math"

	"github.com/golang/geo/r3"
)

const floatEpsilon = 1e-6

// Float64AlmostEqual compares two float64s within the given epsilon.
func Float64AlmostEqual(v1, v2, epsilon float64) bool {
	return math.Abs(v1-v2) < epsilon
}

// PlaneNormal returns the plane normal of the plane defined by three points.
// Degenerate (collinear) triangles yield the zero vector.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if l := n.Norm(); l > 0 {
		return n.Mul(1 / l)
	}
	return r3.Vector{}
}

// ClosestPointSegmentPoint takes a segment defined by pt1 and pt2, and a point,
// and returns the closest point on the segment to the given point.
func ClosestPointSegmentPoint(pt1, pt2, point r3.Vector) r3.Vector {
	ab := pt2.Sub(pt1)
	t := point.Sub(pt1).Dot(ab)
	if t <= 0 {
		return pt1
	}
	denom := ab.Norm2()
	if t >= denom {
		return pt2
	}
	return pt1.Add(ab.Mul(t / denom))
}

// OrthonormalBasis returns two unit vectors that, together with the
// normalization of v, form a right-handed orthonormal frame. A zero v yields
// the world Y and Z axes.
func OrthonormalBasis(v r3.Vector) (r3.Vector, r3.Vector) {
	n := v.Norm()
	if n == 0 {
		return r3.Vector{Y: 1}, r3.Vector{Z: 1}
	}
	u := v.Mul(1 / n)
	var other r3.Vector
	if math.Abs(u.X) <= math.Abs(u.Y) && math.Abs(u.X) <= math.Abs(u.Z) {
		other = r3.Vector{X: 1}
	} else if math.Abs(u.Y) <= math.Abs(u.Z) {
		other = r3.Vector{Y: 1}
	} else {
		other = r3.Vector{Z: 1}
	}
	b1 := u.Cross(other).Normalize()
	b2 := u.Cross(b1)
	return b1, b2
}
