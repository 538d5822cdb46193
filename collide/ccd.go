package collide

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
)

// ccdEps tolerates roundoff when classifying cubic coefficients and when
// testing containment of a candidate root's geometry.
const ccdEps = 1e-10

// vertexFaceCollisionTime finds the earliest time in [0, 1] at which a
// linearly moving vertex crosses a linearly moving triangle. Each point is
// given at the start and end of the motion interval. The earliest coplanarity
// root whose projection lands inside the triangle wins; ok is false when no
// root qualifies.
func vertexFaceCollisionTime(p0, p1, a0, a1, b0, b1, c0, c1 r3.Vector) (float64, bool) {
	// Coplanarity of (b-a), (c-a), (p-a) as a cubic in t.
	e10 := b0.Sub(a0)
	v1 := b1.Sub(a1).Sub(e10)
	e20 := c0.Sub(a0)
	v2 := c1.Sub(a1).Sub(e20)
	w0 := p0.Sub(a0)
	vw := p1.Sub(a1).Sub(w0)

	for _, t := range coplanarityRoots(e10, v1, e20, v2, w0, vw) {
		a := lerp(a0, a1, t)
		b := lerp(b0, b1, t)
		c := lerp(c0, c1, t)
		p := lerp(p0, p1, t)
		if pointInTriangle(p, a, b, c) {
			return t, true
		}
	}
	return 0, false
}

// edgeEdgeCollisionTime finds the earliest time in [0, 1] at which two
// linearly moving segments (a, b) and (c, d) cross. The earliest coplanarity
// root at which the two lines intersect within both segments wins; ok is
// false when no root qualifies.
func edgeEdgeCollisionTime(a0, a1, b0, b1, c0, c1, d0, d1 r3.Vector) (float64, bool) {
	// Coplanarity of (b-a), (d-c), (c-a) as a cubic in t.
	e10 := b0.Sub(a0)
	v1 := b1.Sub(a1).Sub(e10)
	e20 := d0.Sub(c0)
	v2 := d1.Sub(c1).Sub(e20)
	w0 := c0.Sub(a0)
	vw := c1.Sub(a1).Sub(w0)

	for _, t := range coplanarityRoots(e10, v1, e20, v2, w0, vw) {
		a := lerp(a0, a1, t)
		b := lerp(b0, b1, t)
		c := lerp(c0, c1, t)
		d := lerp(d0, d1, t)
		if segmentsCross(a, b, c, d) {
			return t, true
		}
	}
	return 0, false
}

// coplanarityRoots expands (e1(t) x e2(t)) . w(t) = 0, with e1 = e10 + t*v1,
// e2 = e20 + t*v2, w = w0 + t*vw, into cubic coefficients and returns its
// roots within [0, 1] in ascending order.
func coplanarityRoots(e10, v1, e20, v2, w0, vw r3.Vector) []float64 {
	cross0 := e10.Cross(e20)
	cross1 := e10.Cross(v2).Add(v1.Cross(e20))
	cross2 := v1.Cross(v2)

	c0 := cross0.Dot(w0)
	c1 := cross1.Dot(w0) + cross0.Dot(vw)
	c2 := cross2.Dot(w0) + cross1.Dot(vw)
	c3 := cross2.Dot(vw)
	return cubicRootsInUnitInterval(c3, c2, c1, c0)
}

// cubicRootsInUnitInterval solves a*t^3 + b*t^2 + c*t + d = 0 and returns the
// real roots clamped into [0, 1], ascending and deduplicated. An identically
// zero polynomial (geometry coplanar throughout the interval) reports a
// single root at t = 0 so the caller's containment check decides.
func cubicRootsInUnitInterval(a, b, c, d float64) []float64 {
	var roots []float64
	switch {
	case math.Abs(a) > ccdEps:
		roots = cardanoRoots(b/a, c/a, d/a)
	case math.Abs(b) > ccdEps:
		disc := c*c - 4*b*d
		if disc < 0 {
			return nil
		}
		s := math.Sqrt(disc)
		roots = []float64{(-c - s) / (2 * b), (-c + s) / (2 * b)}
	case math.Abs(c) > ccdEps:
		roots = []float64{-d / c}
	case math.Abs(d) <= ccdEps:
		roots = []float64{0}
	default:
		return nil
	}

	kept := roots[:0]
	for _, t := range roots {
		if t < -ccdEps || t > 1+ccdEps {
			continue
		}
		kept = append(kept, math.Min(1, math.Max(0, t)))
	}
	sort.Float64s(kept)
	out := kept[:0]
	for i, t := range kept {
		if i == 0 || t-out[len(out)-1] > ccdEps {
			out = append(out, t)
		}
	}
	return out
}

// cardanoRoots returns the real roots of the monic cubic
// t^3 + b*t^2 + c*t + d.
func cardanoRoots(b, c, d float64) []float64 {
	// Depressed form u^3 + p*u + q with t = u - b/3.
	p := c - b*b/3
	q := 2*b*b*b/27 - b*c/3 + d
	shift := -b / 3
	disc := q*q/4 + p*p*p/27

	switch {
	case disc > ccdEps:
		s := math.Sqrt(disc)
		return []float64{math.Cbrt(-q/2+s) + math.Cbrt(-q/2-s) + shift}
	case disc < -ccdEps:
		// Three real roots, by the trigonometric method.
		r := 2 * math.Sqrt(-p/3)
		phi := math.Acos(math.Max(-1, math.Min(1, 3*q/(p*r))))
		return []float64{
			r*math.Cos(phi/3) + shift,
			r*math.Cos((phi+2*math.Pi)/3) + shift,
			r*math.Cos((phi+4*math.Pi)/3) + shift,
		}
	default:
		// Repeated roots.
		u := math.Cbrt(-q / 2)
		return []float64{2*u + shift, -u + shift}
	}
}

func lerp(p, q r3.Vector, t float64) r3.Vector {
	return p.Add(q.Sub(p).Mul(t))
}

// pointInTriangle reports whether p, assumed on the triangle's plane, lies
// inside the triangle, boundary included.
func pointInTriangle(p, a, b, c r3.Vector) bool {
	e0 := b.Sub(a)
	e1 := c.Sub(a)
	w := p.Sub(a)
	aa := e0.Norm2()
	bb := e0.Dot(e1)
	cc := e1.Norm2()
	det := aa*cc - bb*bb
	if math.Abs(det) < 1e-20 {
		return false
	}
	u := (cc*e0.Dot(w) - bb*e1.Dot(w)) / det
	v := (-bb*e0.Dot(w) + aa*e1.Dot(w)) / det
	return u >= -ccdEps && v >= -ccdEps && u+v <= 1+ccdEps
}

// segmentsCross reports whether two coplanar segments (a, b) and (c, d)
// intersect within both segment extents. Near-parallel segments never
// qualify.
func segmentsCross(a, b, c, d r3.Vector) bool {
	u := b.Sub(a)
	v := d.Sub(c)
	w := c.Sub(a)
	n := u.Cross(v)
	nSq := n.Norm2()
	if nSq < 1e-20 {
		return false
	}
	s := w.Cross(v).Dot(n) / nSq
	t := w.Cross(u).Dot(n) / nSq
	return s >= -ccdEps && s <= 1+ccdEps && t >= -ccdEps && t <= 1+ccdEps
}
