package bvh

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/prox3d/prox/spatial"
)

// Fitters compute a tight bounding volume of their kind for a point set.
// Each has fixed-arity fast paths for the degenerate distributions (single
// point, segment, triangle) and a general PCA path for four or more points.

// FitOBB returns an oriented box bounding all given points.
func FitOBB(ps []r3.Vector) OBB {
	return obbFromAxes(ps, fitAxes(ps))
}

// FitRSS returns a rectangle-swept sphere bounding all given points.
func FitRSS(ps []r3.Vector) RSS {
	return rssFromAxes(ps, fitAxes(ps))
}

// FitOBBRSS fits the composite volume by running both sub-fitters on the same
// point set and storing the results side by side.
func FitOBBRSS(ps []r3.Vector) OBBRSS {
	axes := fitAxes(ps)
	return OBBRSS{obb: obbFromAxes(ps, axes), rss: rssFromAxes(ps, axes)}
}

// FitKIOS returns a sphere-intersection volume: a centered sphere plus two
// spheres displaced along the principal axis, together with the oriented box.
func FitKIOS(ps []r3.Vector) KIOS {
	obb := obbFromAxes(ps, fitAxes(ps))
	k := KIOS{obb: obb}
	k.spheres = append(k.spheres, boundingSphereAt(obb.center, ps))
	if len(ps) >= 3 && obb.halfSize[0] > 0 {
		shift := obb.axes[0].Mul(obb.halfSize[0])
		k.spheres = append(k.spheres,
			boundingSphereAt(obb.center.Add(shift), ps),
			boundingSphereAt(obb.center.Sub(shift), ps),
		)
	}
	return k
}

// boundingSphereAt returns the smallest sphere with the given center that
// contains all points.
func boundingSphereAt(center r3.Vector, ps []r3.Vector) kiosSphere {
	r2 := 0.0
	for _, p := range ps {
		if d := p.Sub(center).Norm2(); d > r2 {
			r2 = d
		}
	}
	return kiosSphere{center: center, radius: math.Sqrt(r2)}
}

// fitAxes picks the orientation frame for a point distribution: identity for
// a single point, the segment direction for two, the triangle frame for
// three, and covariance eigenvectors for the general case.
func fitAxes(ps []r3.Vector) [3]r3.Vector {
	switch len(ps) {
	case 0, 1:
		return [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
	case 2:
		return segmentAxes(ps[0], ps[1])
	case 3:
		return triangleAxes(ps[0], ps[1], ps[2])
	default:
		return pcaAxes(ps)
	}
}

func segmentAxes(p0, p1 r3.Vector) [3]r3.Vector {
	d := p1.Sub(p0)
	if d.Norm() == 0 {
		return [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
	}
	a0 := d.Normalize()
	a1, a2 := spatial.OrthonormalBasis(a0)
	return [3]r3.Vector{a0, a1, a2}
}

func triangleAxes(p0, p1, p2 r3.Vector) [3]r3.Vector {
	e0, e1, e2 := p1.Sub(p0), p2.Sub(p1), p0.Sub(p2)
	longest := e0
	if e1.Norm2() > longest.Norm2() {
		longest = e1
	}
	if e2.Norm2() > longest.Norm2() {
		longest = e2
	}
	normal := spatial.PlaneNormal(p0, p1, p2)
	if normal.Norm() == 0 {
		// Collinear points degrade to the segment frame of the longest span.
		return segmentAxes(r3.Vector{}, longest)
	}
	a0 := longest.Normalize()
	a1 := normal.Cross(a0)
	return [3]r3.Vector{a0, a1, normal}
}

// pcaAxes returns the covariance eigenvectors of the point set, longest
// spread first, corrected to a right-handed frame.
func pcaAxes(ps []r3.Vector) [3]r3.Vector {
	n := float64(len(ps))
	var mean r3.Vector
	for _, p := range ps {
		mean = mean.Add(p)
	}
	mean = mean.Mul(1 / n)

	var cxx, cxy, cxz, cyy, cyz, czz float64
	for _, p := range ps {
		d := p.Sub(mean)
		cxx += d.X * d.X
		cxy += d.X * d.Y
		cxz += d.X * d.Z
		cyy += d.Y * d.Y
		cyz += d.Y * d.Z
		czz += d.Z * d.Z
	}
	cov := mat.NewSymDense(3, []float64{
		cxx / n, cxy / n, cxz / n,
		cxy / n, cyy / n, cyz / n,
		cxz / n, cyz / n, czz / n,
	})

	var es mat.EigenSym
	if !es.Factorize(cov, true) {
		return [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// Eigenvalues come back in ascending order; take the two largest spreads
	// and derive the third axis by cross product to stay right-handed.
	a0 := r3.Vector{X: vecs.At(0, 2), Y: vecs.At(1, 2), Z: vecs.At(2, 2)}
	a1 := r3.Vector{X: vecs.At(0, 1), Y: vecs.At(1, 1), Z: vecs.At(2, 1)}
	return [3]r3.Vector{a0, a1, a0.Cross(a1)}
}

// obbFromAxes computes the extents of the point set along the frame and
// assembles the oriented box.
func obbFromAxes(ps []r3.Vector, axes [3]r3.Vector) OBB {
	if len(ps) == 0 {
		return OBB{axes: axes}
	}
	lo, hi := frameExtents(ps, axes)
	var center r3.Vector
	var half [3]float64
	for i := 0; i < 3; i++ {
		center = center.Add(axes[i].Mul((lo[i] + hi[i]) / 2))
		half[i] = (hi[i] - lo[i]) / 2
	}
	return OBB{axes: axes, center: center, halfSize: half}
}

// rssFromAxes places the rectangle in the plane of the first two frame axes
// at the mid-plane of the third, with the sweep radius covering the
// remaining thickness.
func rssFromAxes(ps []r3.Vector, axes [3]r3.Vector) RSS {
	if len(ps) == 0 {
		return RSS{axes: axes}
	}
	lo, hi := frameExtents(ps, axes)
	origin := axes[0].Mul(lo[0]).
		Add(axes[1].Mul(lo[1])).
		Add(axes[2].Mul((lo[2] + hi[2]) / 2))
	return RSS{
		axes:   axes,
		origin: origin,
		l:      [2]float64{hi[0] - lo[0], hi[1] - lo[1]},
		r:      (hi[2] - lo[2]) / 2,
	}
}

func frameExtents(ps []r3.Vector, axes [3]r3.Vector) (lo, hi [3]float64) {
	for i := 0; i < 3; i++ {
		lo[i] = math.Inf(1)
		hi[i] = math.Inf(-1)
	}
	for _, p := range ps {
		for i := 0; i < 3; i++ {
			proj := p.Dot(axes[i])
			if proj < lo[i] {
				lo[i] = proj
			}
			if proj > hi[i] {
				hi[i] = proj
			}
		}
	}
	return lo, hi
}
