package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/prox3d/prox/spatial"
)

// SphereSphereIntersect tests two posed spheres for overlap. Touching spheres
// count as a contact with zero depth. The contact point is the midpoint of the
// two surface points along the center line, and the normal points from s2
// toward s1. Coincident centers yield a zero normal and a depth of the summed
// radii.
func SphereSphereIntersect(s1 Sphere, tf1 spatial.Transform, s2 Sphere, tf2 spatial.Transform) (Contact, bool) {
	c1 := tf1.Point()
	c2 := tf2.Point()
	diff := c1.Sub(c2)
	length := diff.Norm()
	if length > s1.Radius+s2.Radius {
		return Contact{}, false
	}
	var normal r3.Vector
	if length > 0 {
		normal = diff.Mul(1 / length)
	}
	onS1 := c1.Sub(normal.Mul(s1.Radius))
	onS2 := c2.Add(normal.Mul(s2.Radius))
	return Contact{
		Point:  onS1.Add(onS2).Mul(0.5),
		Normal: normal,
		Depth:  s1.Radius + s2.Radius - length,
	}, true
}

// SphereSphereDistance reports the surface separation of two posed spheres.
// The second return is false when the spheres overlap or touch, in which case
// the distance is the -1 sentinel. Exactly one of SphereSphereIntersect and
// SphereSphereDistance reports true for any configuration.
func SphereSphereDistance(s1 Sphere, tf1 spatial.Transform, s2 Sphere, tf2 spatial.Transform) (float64, bool) {
	diff := tf1.Point().Sub(tf2.Point())
	length := diff.Norm()
	if length > s1.Radius+s2.Radius {
		return length - s1.Radius - s2.Radius, true
	}
	return -1, false
}

// SphereTriangleIntersect tests a posed sphere against a triangle given in
// world coordinates. The candidate contact point is the projection of the
// sphere center onto the triangle plane when that projection lies inside the
// triangle, and otherwise the nearest point on the nearest of the three
// edges. The candidate only yields a contact if it actually lies within the
// sphere. Depth is the penetration of the sphere surface past the contact
// point.
func SphereTriangleIntersect(s Sphere, tf spatial.Transform, tri *spatial.Triangle) (Contact, bool) {
	center := tf.Point()
	normal := tri.Normal()
	pts := tri.Points()

	threshold := s.Radius + machineEpsilon
	distFromPlane := center.Sub(pts[0]).Dot(normal)
	if distFromPlane < 0 {
		distFromPlane = -distFromPlane
		normal = normal.Mul(-1)
	}

	var contactPoint r3.Vector
	hasContact := false
	if distFromPlane < threshold {
		if projectInTriangle(pts[0], pts[1], pts[2], normal, center) {
			contactPoint = center.Sub(normal.Mul(distFromPlane))
			hasContact = true
		} else {
			// Fall back to the closest point over the three edges.
			bestSq := math.MaxFloat64
			for i := 0; i < 3; i++ {
				onEdge := spatial.ClosestPointSegmentPoint(pts[i], pts[(i+1)%3], center)
				if dSq := center.Sub(onEdge).Norm2(); dSq < bestSq {
					bestSq = dSq
					contactPoint = onEdge
				}
			}
			hasContact = bestSq < threshold*threshold
		}
	}
	if !hasContact {
		return Contact{}, false
	}

	// Re-check against the unpadded radius so the epsilon above never
	// manufactures a contact.
	toCenter := center.Sub(contactPoint)
	distSq := toCenter.Norm2()
	if distSq >= s.Radius*s.Radius {
		return Contact{}, false
	}
	if distSq > 0 {
		dist := math.Sqrt(distSq)
		return Contact{
			Point:  contactPoint,
			Normal: toCenter.Mul(1 / dist),
			Depth:  s.Radius - dist,
		}, true
	}
	// Center sits exactly on the triangle; use the plane normal.
	return Contact{
		Point:  contactPoint,
		Normal: normal,
		Depth:  s.Radius,
	}, true
}

// SphereTriangleDistance reports the surface distance between a posed sphere
// and a world-space triangle. It reports true only when the surfaces are
// strictly separated; overlap or touching yields the -1 sentinel and false.
func SphereTriangleDistance(s Sphere, tf spatial.Transform, tri *spatial.Triangle) (float64, bool) {
	center := tf.Point()
	closest := tri.ClosestPointToPoint(center)
	sqDist := center.Sub(closest).Norm2()
	if sqDist > s.Radius*s.Radius {
		return math.Sqrt(sqDist) - s.Radius, true
	}
	return -1, false
}

// projectInTriangle reports whether p's projection along the plane normal
// falls inside the triangle. The test is sign consistency of p against the
// three edge planes, inclusive of zero so boundary points count as inside.
func projectInTriangle(p1, p2, p3, normal, p r3.Vector) bool {
	edge1 := p2.Sub(p1)
	edge2 := p3.Sub(p2)
	edge3 := p1.Sub(p3)

	r1 := edge1.Cross(normal).Dot(p.Sub(p1))
	r2 := edge2.Cross(normal).Dot(p.Sub(p2))
	r3v := edge3.Cross(normal).Dot(p.Sub(p3))
	return (r1 > 0 && r2 > 0 && r3v > 0) || (r1 <= 0 && r2 <= 0 && r3v <= 0)
}
