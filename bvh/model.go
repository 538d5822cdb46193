package bvh

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/prox3d/prox/spatial"
)

// IndexedTriangle addresses three vertices in a model's vertex array.
type IndexedTriangle struct {
	A, B, C int
}

// Node is one entry of a model's flat node array. A leaf stores a primitive
// id; an internal node stores the index of its left child, with the right
// child always at left+1.
type Node[B BV[B]] struct {
	Volume B

	// first encodes the children: >= 0 is the left child index, negative
	// encodes leaf primitive id -(first)-1.
	first int

	// Primitive index span [begin, end) covered by this subtree, into the
	// model's ordered primitive index slice. Used for bound refitting.
	begin, end int
}

// IsLeaf reports whether the node bounds a single primitive.
func (n Node[B]) IsLeaf() bool { return n.first < 0 }

// PrimitiveID returns the primitive id of a leaf node.
func (n Node[B]) PrimitiveID() int { return -(n.first) - 1 }

// LeftChild returns the node index of the left child of an internal node.
func (n Node[B]) LeftChild() int { return n.first }

// RightChild returns the node index of the right child of an internal node.
func (n Node[B]) RightChild() int { return n.first + 1 }

// Model is a bounding-volume hierarchy over a triangle mesh or point cloud.
// The tree is an arena of nodes addressed by integer index; node 0 is the
// root. Models are immutable during queries and safe for concurrent readers.
//
// For continuous collision queries the model retains the vertex positions
// from before the most recent UpdateVertices call.
type Model[B BV[B]] struct {
	nodes        []Node[B]
	primIndices  []int
	vertices     []r3.Vector
	prevVertices []r3.Vector
	tris         []IndexedTriangle
	kind         GeometryKind
	fit          func([]r3.Vector) B
}

// NumNodes returns the number of nodes in the hierarchy.
func (m *Model[B]) NumNodes() int { return len(m.nodes) }

// NodeAt returns the node with the given index.
func (m *Model[B]) NodeAt(i int) Node[B] { return m.nodes[i] }

// Kind returns the geometry kind the model was built from.
func (m *Model[B]) Kind() GeometryKind { return m.kind }

// Vertices returns the model's current vertex positions.
func (m *Model[B]) Vertices() []r3.Vector { return m.vertices }

// PrevVertices returns the vertex positions before the last UpdateVertices
// call, or the current positions if the model was never updated.
func (m *Model[B]) PrevVertices() []r3.Vector {
	if m.prevVertices == nil {
		return m.vertices
	}
	return m.prevVertices
}

// Triangles returns the model's triangle index list; nil for point clouds.
func (m *Model[B]) Triangles() []IndexedTriangle { return m.tris }

// TrianglePoints returns the three current vertex positions of a triangle
// primitive.
func (m *Model[B]) TrianglePoints(primID int) (r3.Vector, r3.Vector, r3.Vector) {
	t := m.tris[primID]
	return m.vertices[t.A], m.vertices[t.B], m.vertices[t.C]
}

// PrevTrianglePoints returns the three previous vertex positions of a
// triangle primitive.
func (m *Model[B]) PrevTrianglePoints(primID int) (r3.Vector, r3.Vector, r3.Vector) {
	prev := m.PrevVertices()
	t := m.tris[primID]
	return prev[t.A], prev[t.B], prev[t.C]
}

// UpdateVertices moves the model to a new pose sample: the current vertices
// become the previous ones and every node's bounding volume is refit to
// cover the primitives at both poses, so that a subsequent continuous
// collision query prunes conservatively over the whole motion interval.
func (m *Model[B]) UpdateVertices(vertices []r3.Vector) error {
	if len(vertices) != len(m.vertices) {
		return errors.Errorf("vertex count mismatch: model has %d, update has %d", len(m.vertices), len(vertices))
	}
	m.prevVertices = m.vertices
	m.vertices = vertices
	m.refitAll()
	return nil
}

// ApplyTransform moves every vertex, current and previous, through the given
// transform and refits all bounding volumes. Use it to pose a model in a
// shared query frame.
func (m *Model[B]) ApplyTransform(tf spatial.Transform) {
	for i := range m.vertices {
		m.vertices[i] = tf.Apply(m.vertices[i])
	}
	for i := range m.prevVertices {
		m.prevVertices[i] = tf.Apply(m.prevVertices[i])
	}
	m.refitAll()
}

// refitAll recomputes every node's bounding volume over its primitive span,
// covering both pose samples when a previous pose is present.
func (m *Model[B]) refitAll() {
	for i := range m.nodes {
		n := &m.nodes[i]
		pts := m.gatherPoints(m.primIndices[n.begin:n.end], m.vertices)
		if m.prevVertices != nil {
			pts = append(pts, m.gatherPoints(m.primIndices[n.begin:n.end], m.prevVertices)...)
		}
		n.Volume = m.fit(pts)
	}
}

// gatherPoints collects the vertex positions of the given primitives from a
// vertex array.
func (m *Model[B]) gatherPoints(indices []int, vertices []r3.Vector) []r3.Vector {
	if m.kind == GeometryPoints {
		pts := make([]r3.Vector, 0, len(indices))
		for _, idx := range indices {
			pts = append(pts, vertices[idx])
		}
		return pts
	}
	pts := make([]r3.Vector, 0, 3*len(indices))
	for _, idx := range indices {
		t := m.tris[idx]
		pts = append(pts, vertices[t.A], vertices[t.B], vertices[t.C])
	}
	return pts
}
