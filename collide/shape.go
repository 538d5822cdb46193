package collide

import (
	"math"

	"github.com/pkg/errors"

	"github.com/prox3d/prox/bvh"
	"github.com/prox3d/prox/narrowphase"
	"github.com/prox3d/prox/spatial"
)

// SphereMeshContact is one triangle the sphere touches, with the exact
// contact found by the narrow phase.
type SphereMeshContact struct {
	PrimitiveID int
	Contact     narrowphase.Contact
}

// SphereMeshResult is the outcome of a sphere-mesh collision query.
type SphereMeshResult struct {
	Contacts []SphereMeshContact
	Stats    TraversalStats
}

// Collides reports whether the query found any contact.
func (r SphereMeshResult) Collides() bool { return len(r.Contacts) > 0 }

// SphereMeshCollisionNode is the traversal node for a posed sphere against a
// triangle model. The sphere side has no hierarchy, so the traversal always
// expands the model side; the sphere is index 0 on the first side and is
// always a leaf.
type SphereMeshCollisionNode[B bvh.BV[B]] struct {
	sphere narrowphase.Sphere
	tf     spatial.Transform
	model  *bvh.Model[B]
	req    CollisionRequest

	contacts []SphereMeshContact
	stats    TraversalStats
}

// NewSphereMeshCollisionNode pairs a posed sphere with a triangle model given
// in the query frame.
func NewSphereMeshCollisionNode[B bvh.BV[B]](sphere narrowphase.Sphere, tf spatial.Transform, model *bvh.Model[B], req CollisionRequest) (*SphereMeshCollisionNode[B], error) {
	if model.Kind() != bvh.GeometryTriangles {
		return nil, errors.New("sphere-mesh collision requires a triangle model")
	}
	if sphere.Radius < 0 {
		return nil, errors.New("negative sphere radius")
	}
	return &SphereMeshCollisionNode[B]{sphere: sphere, tf: tf, model: model, req: req}, nil
}

// Result returns what the traversal recorded so far.
func (n *SphereMeshCollisionNode[B]) Result() SphereMeshResult {
	return SphereMeshResult{Contacts: n.contacts, Stats: n.stats}
}

// FirstOverSecond always picks the model side; the sphere has no children.
func (n *SphereMeshCollisionNode[B]) FirstOverSecond(first, second int) bool { return false }

// IsFirstLeaf always reports true; the sphere is a single leaf.
func (n *SphereMeshCollisionNode[B]) IsFirstLeaf(first int) bool { return true }

// IsSecondLeaf reports whether the model's node is a leaf.
func (n *SphereMeshCollisionNode[B]) IsSecondLeaf(second int) bool { return n.model.NodeAt(second).IsLeaf() }

// FirstChildren is never called; the sphere side is always a leaf.
func (n *SphereMeshCollisionNode[B]) FirstChildren(first int) (int, int) { return first, first }

// SecondChildren returns the children of an internal model node.
func (n *SphereMeshCollisionNode[B]) SecondChildren(second int) (int, int) {
	node := n.model.NodeAt(second)
	return node.LeftChild(), node.RightChild()
}

// BVDisjoint tests the sphere against the bounding sphere of the node's
// volume. The test is conservative for any volume type: it may let a
// disjoint pair through but never prunes an overlapping one.
func (n *SphereMeshCollisionNode[B]) BVDisjoint(first, second int) bool {
	if n.req.EnableStatistics {
		n.stats.BVTests++
	}
	v := n.model.NodeAt(second).Volume
	w, h, d := v.Width(), v.Height(), v.Depth()
	boundRadius := 0.5 * math.Sqrt(w*w+h*h+d*d)
	dist := n.tf.Point().Sub(v.Center()).Norm()
	return dist > n.sphere.Radius+boundRadius
}

// LeafTest runs the exact sphere-triangle test and records any contact.
func (n *SphereMeshCollisionNode[B]) LeafTest(first, second int) {
	if n.req.EnableStatistics {
		n.stats.LeafTests++
	}
	id := n.model.NodeAt(second).PrimitiveID()
	p0, p1, p2 := n.model.TrianglePoints(id)
	if c, ok := narrowphase.SphereTriangleIntersect(n.sphere, n.tf, spatial.NewTriangle(p0, p1, p2)); ok {
		sc := SphereMeshContact{PrimitiveID: id}
		if n.req.EnableContact {
			sc.Contact = c
		}
		n.contacts = append(n.contacts, sc)
	}
}

// CanStop reports whether the requested number of contacts has been reached.
func (n *SphereMeshCollisionNode[B]) CanStop() bool {
	return n.req.MaxContacts > 0 && len(n.contacts) >= n.req.MaxContacts
}

// CollideSphereMesh runs a discrete collision query between a posed sphere
// and a triangle model posed in the same frame.
func CollideSphereMesh[B bvh.BV[B]](sphere narrowphase.Sphere, tf spatial.Transform, model *bvh.Model[B], req CollisionRequest) (SphereMeshResult, error) {
	node, err := NewSphereMeshCollisionNode(sphere, tf, model, req)
	if err != nil {
		return SphereMeshResult{}, err
	}
	Traverse(node)
	return node.Result(), nil
}
