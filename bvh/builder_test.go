package bvh

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"
	"go.viam.com/test"

	"github.com/prox3d/prox/spatial"
)

// gridMesh builds a strip of n triangles along the x axis.
func gridMesh(n int) ([]r3.Vector, []IndexedTriangle) {
	verts := make([]r3.Vector, 0, 3*n)
	tris := make([]IndexedTriangle, 0, n)
	for i := 0; i < n; i++ {
		x := float64(i) * 2
		base := len(verts)
		verts = append(verts,
			r3.Vector{X: x},
			r3.Vector{X: x + 1},
			r3.Vector{X: x, Y: 1},
		)
		tris = append(tris, IndexedTriangle{A: base, B: base + 1, C: base + 2})
	}
	return verts, tris
}

// checkTree verifies the structural invariants of a built hierarchy: a full
// binary tree with one primitive per leaf, every primitive exactly once, and
// every node's volume covering its whole subtree.
func checkTree(t *testing.T, m *Model[OBB], numPrims int) {
	t.Helper()
	test.That(t, m.NumNodes(), test.ShouldEqual, 2*numPrims-1)

	seen := make(map[int]int)
	var walk func(idx int)
	walk = func(idx int) {
		n := m.NodeAt(idx)
		if n.IsLeaf() {
			seen[n.PrimitiveID()]++
			return
		}
		test.That(t, n.RightChild(), test.ShouldEqual, n.LeftChild()+1)
		walk(n.LeftChild())
		walk(n.RightChild())
	}
	walk(0)
	test.That(t, seen, test.ShouldHaveLength, numPrims)
	for id, count := range seen {
		test.That(t, count, test.ShouldEqual, 1)
		test.That(t, id, test.ShouldBeLessThan, numPrims)
	}

	root := m.NodeAt(0).Volume
	for _, v := range m.Vertices() {
		test.That(t, root.ContainsPoint(v), test.ShouldBeTrue)
	}
}

func TestBuilderRejectsEmptyInput(t *testing.T) {
	b, err := NewBuilder(FitOBB, SplitMedian)
	test.That(t, err, test.ShouldBeNil)
	_, err = b.BuildMesh(nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = b.BuildPoints(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBuilderRejectsUnknownMethod(t *testing.T) {
	_, err := NewBuilder(FitOBB, SplitMethod(5))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBuildMesh(t *testing.T) {
	for _, n := range []int{1, 2, 7, 32} {
		verts, tris := gridMesh(n)
		b, err := NewBuilder(FitOBB, SplitMedian)
		test.That(t, err, test.ShouldBeNil)
		m, err := b.BuildMesh(verts, tris)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.Kind(), test.ShouldEqual, GeometryTriangles)
		checkTree(t, m, n)
	}
}

func TestBuildPoints(t *testing.T) {
	pts := randomCloud(20, 33, r3.Vector{}, 10)
	b, err := NewBuilder(FitOBB, SplitMean)
	test.That(t, err, test.ShouldBeNil)
	m, err := b.BuildPoints(pts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Kind(), test.ShouldEqual, GeometryPoints)
	checkTree(t, m, len(pts))
}

func TestBuildWithMortonPresort(t *testing.T) {
	verts, tris := gridMesh(16)
	b, err := NewBuilder(FitOBB, SplitBVCenter, WithMortonPresort[OBB](), WithLogger[OBB](zap.NewNop()))
	test.That(t, err, test.ShouldBeNil)
	m, err := b.BuildMesh(verts, tris)
	test.That(t, err, test.ShouldBeNil)
	checkTree(t, m, 16)
}

// All primitives sharing one representative defeats every split heuristic;
// the middle-partition fallback must still terminate with a full tree.
func TestBuildDegenerateGeometry(t *testing.T) {
	pts := []r3.Vector{{X: 1}, {X: 1}, {X: 1}, {X: 1}, {X: 1}}
	b, err := NewBuilder(FitOBB, SplitMean)
	test.That(t, err, test.ShouldBeNil)
	m, err := b.BuildPoints(pts)
	test.That(t, err, test.ShouldBeNil)
	checkTree(t, m, len(pts))
}

func TestUpdateVertices(t *testing.T) {
	verts, tris := gridMesh(8)
	b, err := NewBuilder(FitOBB, SplitMedian)
	test.That(t, err, test.ShouldBeNil)
	m, err := b.BuildMesh(verts, tris)
	test.That(t, err, test.ShouldBeNil)

	t.Run("rejects mismatched lengths", func(t *testing.T) {
		test.That(t, m.UpdateVertices(verts[:3]), test.ShouldNotBeNil)
	})

	t.Run("volumes cover both poses", func(t *testing.T) {
		moved := make([]r3.Vector, len(verts))
		for i, v := range verts {
			moved[i] = v.Add(r3.Vector{Z: 5})
		}
		test.That(t, m.UpdateVertices(moved), test.ShouldBeNil)
		test.That(t, m.PrevVertices()[0].Z, test.ShouldEqual, 0.0)
		test.That(t, m.Vertices()[0].Z, test.ShouldEqual, 5.0)

		root := m.NodeAt(0).Volume
		for i := range verts {
			test.That(t, root.ContainsPoint(verts[i]), test.ShouldBeTrue)
			test.That(t, root.ContainsPoint(moved[i]), test.ShouldBeTrue)
		}
	})
}

func TestApplyTransform(t *testing.T) {
	verts, tris := gridMesh(4)
	b, err := NewBuilder(FitOBB, SplitMedian)
	test.That(t, err, test.ShouldBeNil)
	m, err := b.BuildMesh(verts, tris)
	test.That(t, err, test.ShouldBeNil)

	m.ApplyTransform(spatial.NewTransformFromPoint(r3.Vector{X: 100}))
	test.That(t, m.Vertices()[0].X, test.ShouldEqual, 100.0)
	root := m.NodeAt(0).Volume
	for _, v := range m.Vertices() {
		test.That(t, root.ContainsPoint(v), test.ShouldBeTrue)
	}
}
