// Package narrowphase implements exact closed-form intersection, distance,
// and contact-manifold routines for specific shape pairs. Every routine is a
// pure function of two posed primitives; no traversal or query state is
// involved.
//
// A no-collision outcome is an ordinary false return, never an error.
// Degenerate geometry (coincident centers, near-parallel edges) produces
// documented fallback values rather than failures.
package narrowphase

import (
	"github.com/golang/geo/r3"
)

// machineEpsilon is the double-precision unit roundoff, used to pad candidate
// acceptance thresholds without ever inflating reported depths.
const machineEpsilon = 2.220446049250313e-16

// Sphere is a sphere of the given radius centered at its pose's translation.
type Sphere struct {
	Radius float64
}

// Box is a rectangular box with the given full side lengths, centered at its
// pose and oriented by its pose's rotation.
type Box struct {
	Side r3.Vector
}

// Contact is one point of a contact manifold. Normal points from the second
// shape toward the first; Depth is the minimum translation distance along
// Normal needed to separate the shapes.
type Contact struct {
	Point  r3.Vector
	Normal r3.Vector
	Depth  float64
}
