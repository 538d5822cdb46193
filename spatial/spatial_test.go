package spatial

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func vectorsAlmostEqual(t *testing.T, got, want r3.Vector) {
	t.Helper()
	test.That(t, got.X, test.ShouldAlmostEqual, want.X, 1e-9)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, 1e-9)
	test.That(t, got.Z, test.ShouldAlmostEqual, want.Z, 1e-9)
}

func TestRotationMatrix(t *testing.T) {
	t.Run("axis angle", func(t *testing.T) {
		rot := NewRotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2)
		vectorsAlmostEqual(t, rot.MulVec(r3.Vector{X: 1}), r3.Vector{Y: 1})
		vectorsAlmostEqual(t, rot.MulVec(r3.Vector{Y: 1}), r3.Vector{X: -1})
	})
	t.Run("zero axis is identity", func(t *testing.T) {
		rot := NewRotationFromAxisAngle(r3.Vector{}, 1.23)
		vectorsAlmostEqual(t, rot.MulVec(r3.Vector{X: 1, Y: 2, Z: 3}), r3.Vector{X: 1, Y: 2, Z: 3})
	})
	t.Run("transpose inverts", func(t *testing.T) {
		rot := NewRotationFromAxisAngle(r3.Vector{X: 1, Y: 1, Z: 0.5}, 0.7)
		v := r3.Vector{X: 0.3, Y: -2, Z: 1.1}
		vectorsAlmostEqual(t, rot.TransposeMulVec(rot.MulVec(v)), v)
		vectorsAlmostEqual(t, rot.Transpose().MulVec(rot.MulVec(v)), v)
	})
	t.Run("columns", func(t *testing.T) {
		rot := NewRotationFromCols(r3.Vector{Y: 1}, r3.Vector{Z: 1}, r3.Vector{X: 1})
		vectorsAlmostEqual(t, rot.Col(0), r3.Vector{Y: 1})
		vectorsAlmostEqual(t, rot.MulVec(r3.Vector{X: 1}), r3.Vector{Y: 1})
	})
}

func TestTransform(t *testing.T) {
	t.Run("apply rotates then translates", func(t *testing.T) {
		tf := NewTransform(NewRotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2), r3.Vector{X: 10})
		vectorsAlmostEqual(t, tf.Apply(r3.Vector{X: 1}), r3.Vector{X: 10, Y: 1})
	})
	t.Run("nil rotation is identity", func(t *testing.T) {
		tf := NewTransform(nil, r3.Vector{Y: 2})
		vectorsAlmostEqual(t, tf.Apply(r3.Vector{X: 1}), r3.Vector{X: 1, Y: 2})
	})
	t.Run("compose", func(t *testing.T) {
		a := NewTransformFromPoint(r3.Vector{X: 1})
		b := NewTransform(NewRotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2), r3.Vector{})
		ab := a.Compose(b)
		vectorsAlmostEqual(t, ab.Apply(r3.Vector{X: 1}), a.Apply(b.Apply(r3.Vector{X: 1})))
	})
}

func TestTriangle(t *testing.T) {
	tri := NewTriangle(r3.Vector{}, r3.Vector{X: 4}, r3.Vector{Y: 4})

	t.Run("normal", func(t *testing.T) {
		vectorsAlmostEqual(t, tri.Normal(), r3.Vector{Z: 1})
	})
	t.Run("closest point inside", func(t *testing.T) {
		vectorsAlmostEqual(t, tri.ClosestPointToPoint(r3.Vector{X: 1, Y: 1, Z: 5}), r3.Vector{X: 1, Y: 1})
	})
	t.Run("closest point on edge", func(t *testing.T) {
		vectorsAlmostEqual(t, tri.ClosestPointToPoint(r3.Vector{X: 2, Y: -3}), r3.Vector{X: 2})
	})
	t.Run("closest point at vertex", func(t *testing.T) {
		vectorsAlmostEqual(t, tri.ClosestPointToPoint(r3.Vector{X: -1, Y: -1}), r3.Vector{})
	})
	t.Run("transform moves points", func(t *testing.T) {
		moved := tri.Transform(NewTransformFromPoint(r3.Vector{Z: 2}))
		vectorsAlmostEqual(t, moved.Centroid(), tri.Centroid().Add(r3.Vector{Z: 2}))
	})
}

func TestPlaneNormalDegenerate(t *testing.T) {
	n := PlaneNormal(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 2})
	vectorsAlmostEqual(t, n, r3.Vector{})
}

func TestClosestPointSegmentPoint(t *testing.T) {
	a, b := r3.Vector{}, r3.Vector{X: 2}
	vectorsAlmostEqual(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: 1, Y: 3}), r3.Vector{X: 1})
	vectorsAlmostEqual(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: -5}), a)
	vectorsAlmostEqual(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: 5}), b)
}

func TestOrthonormalBasis(t *testing.T) {
	for _, v := range []r3.Vector{{X: 1}, {X: 1, Y: 2, Z: 3}, {Z: -4}, {}} {
		b1, b2 := OrthonormalBasis(v)
		test.That(t, b1.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, b2.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, b1.Dot(b2), test.ShouldAlmostEqual, 0, 1e-9)
		if v.Norm() > 0 {
			test.That(t, b1.Dot(v), test.ShouldAlmostEqual, 0, 1e-9)
			test.That(t, b2.Dot(v), test.ShouldAlmostEqual, 0, 1e-9)
		}
	}
}
