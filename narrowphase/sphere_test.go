package narrowphase

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/prox3d/prox/spatial"
)

func at(p r3.Vector) spatial.Transform {
	return spatial.NewTransformFromPoint(p)
}

func TestSphereSphereIntersect(t *testing.T) {
	unit := Sphere{Radius: 1}

	t.Run("overlapping", func(t *testing.T) {
		c, ok := SphereSphereIntersect(unit, at(r3.Vector{}), unit, at(r3.Vector{X: 1.5}))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, c.Depth, test.ShouldAlmostEqual, 0.5, 1e-9)
		test.That(t, c.Normal.X, test.ShouldAlmostEqual, -1, 1e-9)
		test.That(t, c.Point.X, test.ShouldAlmostEqual, 0.75, 1e-9)
		test.That(t, c.Point.Y, test.ShouldAlmostEqual, 0, 1e-9)
	})
	t.Run("separated", func(t *testing.T) {
		_, ok := SphereSphereIntersect(unit, at(r3.Vector{}), unit, at(r3.Vector{X: 3}))
		test.That(t, ok, test.ShouldBeFalse)
	})
	t.Run("touching counts as contact", func(t *testing.T) {
		c, ok := SphereSphereIntersect(unit, at(r3.Vector{}), unit, at(r3.Vector{X: 2}))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, c.Depth, test.ShouldAlmostEqual, 0, 1e-9)
	})
	t.Run("coincident centers", func(t *testing.T) {
		c, ok := SphereSphereIntersect(unit, at(r3.Vector{X: 1}), unit, at(r3.Vector{X: 1}))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, c.Depth, test.ShouldAlmostEqual, 2, 1e-9)
		test.That(t, c.Normal.Norm(), test.ShouldEqual, 0.0)
	})
}

func TestSphereSphereDistance(t *testing.T) {
	unit := Sphere{Radius: 1}
	d, ok := SphereSphereDistance(unit, at(r3.Vector{}), unit, at(r3.Vector{X: 3}))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, d, test.ShouldAlmostEqual, 1, 1e-9)

	d, ok = SphereSphereDistance(unit, at(r3.Vector{}), unit, at(r3.Vector{X: 1.5}))
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, d, test.ShouldEqual, -1.0)
}

// For every configuration exactly one of the intersect and distance tests
// reports true; touching spheres belong to the intersect side.
func TestSphereSphereMutualExclusion(t *testing.T) {
	unit := Sphere{Radius: 1}
	for _, gap := range []float64{0, 0.5, 1.99, 2, 2.01, 5} {
		tf2 := at(r3.Vector{X: gap})
		_, hit := SphereSphereIntersect(unit, at(r3.Vector{}), unit, tf2)
		_, apart := SphereSphereDistance(unit, at(r3.Vector{}), unit, tf2)
		test.That(t, hit, test.ShouldNotEqual, apart)
	}
}

func TestSphereTriangleIntersect(t *testing.T) {
	tri := spatial.NewTriangle(r3.Vector{}, r3.Vector{X: 4}, r3.Vector{Y: 4})
	unit := Sphere{Radius: 1}

	t.Run("center projects inside", func(t *testing.T) {
		c, ok := SphereTriangleIntersect(unit, at(r3.Vector{X: 1, Y: 1, Z: 0.5}), tri)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, c.Depth, test.ShouldAlmostEqual, 0.5, 1e-9)
		test.That(t, c.Point.X, test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, c.Point.Z, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, c.Normal.Z, test.ShouldAlmostEqual, 1, 1e-9)
	})
	t.Run("center projects outside, edge contact", func(t *testing.T) {
		c, ok := SphereTriangleIntersect(unit, at(r3.Vector{X: 2, Y: -0.5}), tri)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, c.Depth, test.ShouldAlmostEqual, 0.5, 1e-9)
		test.That(t, c.Point.X, test.ShouldAlmostEqual, 2, 1e-9)
		test.That(t, c.Point.Y, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, c.Normal.Y, test.ShouldAlmostEqual, -1, 1e-9)
	})
	t.Run("separated above the plane", func(t *testing.T) {
		_, ok := SphereTriangleIntersect(unit, at(r3.Vector{X: 1, Y: 1, Z: 2}), tri)
		test.That(t, ok, test.ShouldBeFalse)
	})
	t.Run("in the plane but beyond the edges", func(t *testing.T) {
		_, ok := SphereTriangleIntersect(unit, at(r3.Vector{X: 2, Y: -1.5}), tri)
		test.That(t, ok, test.ShouldBeFalse)
	})
	t.Run("works from below", func(t *testing.T) {
		c, ok := SphereTriangleIntersect(unit, at(r3.Vector{X: 1, Y: 1, Z: -0.5}), tri)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, c.Normal.Z, test.ShouldAlmostEqual, -1, 1e-9)
	})
}

func TestSphereTriangleDistance(t *testing.T) {
	tri := spatial.NewTriangle(r3.Vector{}, r3.Vector{X: 4}, r3.Vector{Y: 4})
	unit := Sphere{Radius: 1}

	d, ok := SphereTriangleDistance(unit, at(r3.Vector{X: 1, Y: 1, Z: 2}), tri)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, d, test.ShouldAlmostEqual, 1, 1e-9)

	// Touching is not strictly separated.
	d, ok = SphereTriangleDistance(unit, at(r3.Vector{X: 1, Y: 1, Z: 1}), tri)
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, d, test.ShouldEqual, -1.0)

	d, ok = SphereTriangleDistance(unit, at(r3.Vector{X: 1, Y: 1, Z: 0.2}), tri)
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, d, test.ShouldEqual, -1.0)
}
