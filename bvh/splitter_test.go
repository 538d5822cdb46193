package bvh

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestNewSplitterRejectsUnknownMethod(t *testing.T) {
	_, err := NewSplitter(SplitMethod(99))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSplitterSetRejectsUnknownKind(t *testing.T) {
	s, err := NewSplitter(SplitMean)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Set(nil, nil, GeometryKind(42)), test.ShouldNotBeNil)
}

func TestSplitterRequiresGeometry(t *testing.T) {
	s, err := NewSplitter(SplitMean)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.ComputeRule(FitAABB([]r3.Vector{{}}), []int{0}), test.ShouldNotBeNil)
}

func TestSplitterRejectsEmptySubset(t *testing.T) {
	pts := []r3.Vector{{}, {X: 1}}
	for _, method := range []SplitMethod{SplitMean, SplitMedian} {
		s, err := NewSplitter(method)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, s.Set(pts, nil, GeometryPoints), test.ShouldBeNil)
		test.That(t, s.ComputeRule(FitAABB(pts), nil), test.ShouldNotBeNil)
	}
}

func axisPoints(n int) []r3.Vector {
	pts := make([]r3.Vector, n)
	for i := range pts {
		pts[i] = r3.Vector{X: float64(i)}
	}
	return pts
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// A median split over distinct representatives may differ in subset size by
// at most one.
func TestMedianSplitBalances(t *testing.T) {
	for _, n := range []int{2, 3, 9, 10, 17} {
		pts := axisPoints(n)
		s, err := NewSplitter(SplitMedian)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, s.Set(pts, nil, GeometryPoints), test.ShouldBeNil)
		test.That(t, s.ComputeRule(FitAABB(pts), allIndices(n)), test.ShouldBeNil)

		left, right := 0, 0
		for _, p := range pts {
			if s.Apply(p) {
				right++
			} else {
				left++
			}
		}
		diff := left - right
		if diff < 0 {
			diff = -diff
		}
		test.That(t, diff, test.ShouldBeLessThanOrEqualTo, 1)
	}
}

func TestMeanSplit(t *testing.T) {
	pts := []r3.Vector{{X: 0}, {X: 1}, {X: 2}, {X: 9}}
	s, err := NewSplitter(SplitMean)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Set(pts, nil, GeometryPoints), test.ShouldBeNil)
	test.That(t, s.ComputeRule(FitAABB(pts), allIndices(4)), test.ShouldBeNil)

	// Mean is 3; only the outlier lands on the far side.
	test.That(t, s.Apply(pts[3]), test.ShouldBeTrue)
	for _, p := range pts[:3] {
		test.That(t, s.Apply(p), test.ShouldBeFalse)
	}
}

func TestBVCenterSplit(t *testing.T) {
	pts := []r3.Vector{{X: 0}, {X: 10}}
	s, err := NewSplitter(SplitBVCenter)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Set(pts, nil, GeometryPoints), test.ShouldBeNil)
	test.That(t, s.ComputeRule(FitAABB(pts), allIndices(2)), test.ShouldBeNil)
	test.That(t, s.Apply(r3.Vector{X: 6}), test.ShouldBeTrue)
	test.That(t, s.Apply(r3.Vector{X: 4}), test.ShouldBeFalse)
}

// Axis choice follows the longest extent, with width winning ties over
// height and height over depth.
func TestSplitAxisSelection(t *testing.T) {
	cases := []struct {
		name     string
		pts      []r3.Vector
		inLeft   r3.Vector
		inRight  r3.Vector
	}{
		{"longest y", []r3.Vector{{}, {X: 1, Y: 10, Z: 1}}, r3.Vector{Y: 1}, r3.Vector{Y: 9}},
		{"tie prefers x", []r3.Vector{{}, {X: 10, Y: 10, Z: 10}}, r3.Vector{X: 1, Y: 9, Z: 9}, r3.Vector{X: 9, Y: 1, Z: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := NewSplitter(SplitBVCenter)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, s.Set(c.pts, nil, GeometryPoints), test.ShouldBeNil)
			test.That(t, s.ComputeRule(FitAABB(c.pts), allIndices(len(c.pts))), test.ShouldBeNil)
			test.That(t, s.Apply(c.inLeft), test.ShouldBeFalse)
			test.That(t, s.Apply(c.inRight), test.ShouldBeTrue)
		})
	}
}

// An oriented volume splits along its own principal axis rather than a world
// axis.
func TestOrientedSplitUsesPrincipalAxis(t *testing.T) {
	// Points along the (1,1,1) diagonal.
	pts := make([]r3.Vector, 10)
	for i := range pts {
		f := float64(i)
		pts[i] = r3.Vector{X: f, Y: f, Z: f}
	}
	s, err := NewSplitter(SplitMedian)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Set(pts, nil, GeometryPoints), test.ShouldBeNil)
	test.That(t, s.ComputeRule(FitOBB(pts), allIndices(len(pts))), test.ShouldBeNil)

	left, right := 0, 0
	for _, p := range pts {
		if s.Apply(p) {
			right++
		} else {
			left++
		}
	}
	test.That(t, left, test.ShouldEqual, 5)
	test.That(t, right, test.ShouldEqual, 5)
}

func TestTriangleRepresentative(t *testing.T) {
	verts := []r3.Vector{{}, {X: 3}, {Y: 3}}
	tris := []IndexedTriangle{{A: 0, B: 1, C: 2}}
	s, err := NewSplitter(SplitMean)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Set(verts, tris, GeometryTriangles), test.ShouldBeNil)
	rep, err := s.representative(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rep.X, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, rep.Y, test.ShouldAlmostEqual, 1, 1e-9)
}
