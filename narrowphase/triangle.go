package narrowphase

import (
	"github.com/golang/geo/r3"

	"github.com/prox3d/prox/spatial"
)

// TriangleTriangleIntersect reports whether two world-space triangles
// intersect, boundary contact included. The test is a separating-axis search
// over both face normals, all nine edge-pair cross products, and the in-plane
// edge normals that resolve coplanar pairs.
func TriangleTriangleIntersect(t1, t2 *spatial.Triangle) bool {
	a := t1.Points()
	b := t2.Points()

	edgesA := [3]r3.Vector{a[1].Sub(a[0]), a[2].Sub(a[1]), a[0].Sub(a[2])}
	edgesB := [3]r3.Vector{b[1].Sub(b[0]), b[2].Sub(b[1]), b[0].Sub(b[2])}
	n1 := t1.Normal()
	n2 := t2.Normal()

	if triSeparated(n1, a, b) || triSeparated(n2, a, b) {
		return false
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if triSeparated(edgesA[i].Cross(edgesB[j]), a, b) {
				return false
			}
		}
	}
	// Coplanar triangles defeat every axis above; the edge normals within
	// either plane decide those.
	for i := 0; i < 3; i++ {
		if triSeparated(edgesA[i].Cross(n1), a, b) || triSeparated(edgesB[i].Cross(n2), a, b) {
			return false
		}
	}
	return true
}

// triSeparated reports whether axis strictly separates the two point triples.
// Degenerate (near-zero) axes never separate.
func triSeparated(axis r3.Vector, a, b []r3.Vector) bool {
	if axis.Norm2() < 1e-20 {
		return false
	}
	minA, maxA := projectInterval(axis, a)
	minB, maxB := projectInterval(axis, b)
	return minA > maxB || minB > maxA
}

func projectInterval(axis r3.Vector, pts []r3.Vector) (float64, float64) {
	lo := axis.Dot(pts[0])
	hi := lo
	for _, p := range pts[1:] {
		d := axis.Dot(p)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}
