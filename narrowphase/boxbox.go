package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/prox3d/prox/spatial"
)

// DefaultFudgeFactor biases the separating-axis search toward face-normal
// axes, preferring face contacts over numerically fragile edge-edge contacts
// when their depths are close.
const DefaultFudgeFactor = 1.05

// quadFudge pads the absolute rotation terms so near-parallel boxes do not
// divide by zero during face clipping.
const quadFudge = 1.0e-6

// BoxBoxConfig tunes box-box contact generation.
type BoxBoxConfig struct {
	// FudgeFactor scales edge-axis depths during axis selection. Values
	// above 1 make face contacts win ties. Zero or negative values fall
	// back to DefaultFudgeFactor.
	FudgeFactor float64
}

// BoxBoxIntersect computes a contact manifold between two posed boxes using
// the default configuration. At most maxContacts contacts are returned; the
// deepest contact is always among them. A non-positive maxContacts keeps
// every generated contact. The second return is false when the boxes are
// disjoint.
func BoxBoxIntersect(b1 Box, tf1 spatial.Transform, b2 Box, tf2 spatial.Transform, maxContacts int) ([]Contact, bool) {
	return BoxBoxIntersectWithConfig(b1, tf1, b2, tf2, maxContacts, BoxBoxConfig{})
}

// BoxBoxIntersectWithConfig is BoxBoxIntersect with an explicit configuration.
func BoxBoxIntersectWithConfig(b1 Box, tf1 spatial.Transform, b2 Box, tf2 spatial.Transform, maxContacts int, cfg BoxBoxConfig) ([]Contact, bool) {
	fudge := cfg.FudgeFactor
	if fudge <= 0 {
		fudge = DefaultFudgeFactor
	}

	hA := [3]float64{b1.Side.X * 0.5, b1.Side.Y * 0.5, b1.Side.Z * 0.5}
	hB := [3]float64{b2.Side.X * 0.5, b2.Side.Y * 0.5, b2.Side.Z * 0.5}
	rotA := tf1.Rotation()
	rotB := tf2.Rotation()
	colA := [3]r3.Vector{rotA.Col(0), rotA.Col(1), rotA.Col(2)}
	colB := [3]r3.Vector{rotB.Col(0), rotB.Col(1), rotB.Col(2)}

	p := tf2.Point().Sub(tf1.Point())
	pp := [3]float64{colA[0].Dot(p), colA[1].Dot(p), colA[2].Dot(p)}

	var rot, q [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot[i][j] = colA[i].Dot(colB[j])
			q[i][j] = math.Abs(rot[i][j])
		}
	}

	// Separating-axis search. s tracks the largest (least negative) depth
	// seen so far; a positive value on any axis proves disjointness.
	s := math.Inf(-1)
	invertNormal := false
	code := 0
	var normal r3.Vector
	var normalC [3]float64

	// Face axes of the first box.
	for i := 0; i < 3; i++ {
		s2 := math.Abs(pp[i]) - (q[i][0]*hB[0] + q[i][1]*hB[1] + q[i][2]*hB[2] + hA[i])
		if s2 > 0 {
			return nil, false
		}
		if s2 > s {
			s = s2
			normal = colA[i]
			invertNormal = pp[i] < 0
			code = i + 1
		}
	}

	// Face axes of the second box.
	for j := 0; j < 3; j++ {
		tmp := colB[j].Dot(p)
		s2 := math.Abs(tmp) - (q[0][j]*hA[0] + q[1][j]*hA[1] + q[2][j]*hA[2] + hB[j])
		if s2 > 0 {
			return nil, false
		}
		if s2 > s {
			s = s2
			normal = colB[j]
			invertNormal = tmp < 0
			code = j + 4
		}
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			q[i][j] += quadFudge
		}
	}

	// Edge-edge cross-product axes. Near-parallel edge pairs produce a
	// near-zero axis and are skipped before normalization.
	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			tmp := pp[i2]*rot[i1][j] - pp[i1]*rot[i2][j]
			s2 := math.Abs(tmp) - (hA[i1]*q[i2][j] + hA[i2]*q[i1][j] + hB[j1]*q[i][j2] + hB[j2]*q[i][j1])
			if s2 > machineEpsilon {
				return nil, false
			}
			var n [3]float64
			n[i1] = -rot[i2][j]
			n[i2] = rot[i1][j]
			l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
			if l <= machineEpsilon {
				continue
			}
			s2 /= l
			if s2*fudge > s {
				s = s2
				normalC = [3]float64{n[0] / l, n[1] / l, n[2] / l}
				normal = r3.Vector{}
				invertNormal = tmp < 0
				code = 7 + i*3 + j
			}
		}
	}

	if code == 0 {
		return nil, false
	}

	// normalW points from the first box center toward the second.
	var normalW r3.Vector
	if code > 6 {
		normalW = rotA.MulVec(r3.Vector{X: normalC[0], Y: normalC[1], Z: normalC[2]})
	} else {
		normalW = normal
	}
	if invertNormal {
		normalW = normalW.Mul(-1)
	}
	depth := -s

	if code > 6 {
		// Edge-edge contact: one point at the middle of the closest
		// approach between the two extremal edges.
		pa := tf1.Point()
		for j := 0; j < 3; j++ {
			if colA[j].Dot(normalW) > 0 {
				pa = pa.Add(colA[j].Mul(hA[j]))
			} else {
				pa = pa.Sub(colA[j].Mul(hA[j]))
			}
		}
		pb := tf2.Point()
		for j := 0; j < 3; j++ {
			if colB[j].Dot(normalW) > 0 {
				pb = pb.Sub(colB[j].Mul(hB[j]))
			} else {
				pb = pb.Add(colB[j].Mul(hB[j]))
			}
		}
		ua := colA[(code-7)/3]
		ub := colB[(code-7)%3]
		alpha, beta := lineClosestApproach(pa, ua, pb, ub)
		pa = pa.Add(ua.Mul(alpha))
		pb = pb.Add(ub.Mul(beta))
		return []Contact{{
			Point:  pa.Add(pb).Mul(0.5),
			Normal: normalW.Mul(-1),
			Depth:  depth,
		}}, true
	}

	// Face contact: clip the incident face of the other box against the
	// reference face rectangle.
	var refRot, incRot *spatial.RotationMatrix
	var refCenter r3.Vector
	var refH, incH [3]float64
	var normal2 r3.Vector
	if code <= 3 {
		refRot, incRot = rotA, rotB
		refCenter = tf1.Point()
		refH, incH = hA, hB
		normal2 = normalW
	} else {
		refRot, incRot = rotB, rotA
		refCenter = tf2.Point()
		refH, incH = hB, hA
		normal2 = normalW.Mul(-1)
	}

	// Incident face: the face of the other box whose normal is most
	// anti-parallel to normal2.
	nr := [3]float64{incRot.Col(0).Dot(normal2), incRot.Col(1).Dot(normal2), incRot.Col(2).Dot(normal2)}
	anr := [3]float64{math.Abs(nr[0]), math.Abs(nr[1]), math.Abs(nr[2])}
	var lanr, a1, a2 int
	if anr[1] > anr[0] {
		if anr[1] > anr[2] {
			a1, lanr, a2 = 0, 1, 2
		} else {
			a1, a2, lanr = 0, 1, 2
		}
	} else {
		if anr[0] > anr[2] {
			lanr, a1, a2 = 0, 1, 2
		} else {
			a1, a2, lanr = 0, 1, 2
		}
	}

	center := tf2.Point().Sub(tf1.Point())
	if code > 3 {
		center = center.Mul(-1)
	}
	if nr[lanr] < 0 {
		center = center.Add(incRot.Col(lanr).Mul(incH[lanr]))
	} else {
		center = center.Sub(incRot.Col(lanr).Mul(incH[lanr]))
	}

	codeN := code - 1
	if code > 3 {
		codeN = code - 4
	}
	var code1, code2 int
	switch codeN {
	case 0:
		code1, code2 = 1, 2
	case 1:
		code1, code2 = 0, 2
	default:
		code1, code2 = 0, 1
	}

	c1 := refRot.Col(code1).Dot(center)
	c2 := refRot.Col(code2).Dot(center)

	m11 := refRot.Col(code1).Dot(incRot.Col(a1))
	m12 := refRot.Col(code1).Dot(incRot.Col(a2))
	m21 := refRot.Col(code2).Dot(incRot.Col(a1))
	m22 := refRot.Col(code2).Dot(incRot.Col(a2))

	k1 := m11 * incH[a1]
	k2 := m21 * incH[a1]
	k3 := m12 * incH[a2]
	k4 := m22 * incH[a2]
	quad := []float64{
		c1 - k1 - k3, c2 - k2 - k4,
		c1 - k1 + k3, c2 - k2 + k4,
		c1 + k1 + k3, c2 + k2 + k4,
		c1 + k1 - k3, c2 + k2 - k4,
	}
	rect := [2]float64{refH[code1], refH[code2]}

	clipped := intersectRectQuad(rect, quad)
	if len(clipped) == 0 {
		return nil, false
	}

	det1 := 1 / (m11*m22 - m12*m21)
	m11 *= det1
	m12 *= det1
	m21 *= det1
	m22 *= det1

	// Map clipped 2D points back to 3D and keep those that actually
	// penetrate the reference face.
	points := make([]r3.Vector, 0, 8)
	depths := make([]float64, 0, 8)
	kept2D := make([]float64, 0, 16)
	for i := 0; i < len(clipped)/2; i++ {
		x, y := clipped[2*i], clipped[2*i+1]
		k1p := m22*(x-c1) - m12*(y-c2)
		k2p := -m21*(x-c1) + m11*(y-c2)
		pt := center.Add(incRot.Col(a1).Mul(k1p)).Add(incRot.Col(a2).Mul(k2p))
		dep := refH[codeN] - normal2.Dot(pt)
		if dep >= 0 {
			points = append(points, pt)
			depths = append(depths, dep)
			kept2D = append(kept2D, x, y)
		}
	}
	if len(points) == 0 {
		return nil, false
	}

	maxc := maxContacts
	if maxc <= 0 || maxc > len(points) {
		maxc = len(points)
	}

	contactAt := func(i int) Contact {
		pos := points[i].Add(refCenter)
		if code > 3 {
			pos = pos.Sub(normalW.Mul(depths[i]))
		}
		return Contact{Point: pos, Normal: normalW.Mul(-1), Depth: depths[i]}
	}

	if len(points) <= maxc {
		contacts := make([]Contact, 0, len(points))
		for i := range points {
			contacts = append(contacts, contactAt(i))
		}
		return contacts, true
	}

	// More candidates than requested: cull to an evenly spread subset that
	// always includes the deepest point.
	deepest := 0
	for i := 1; i < len(depths); i++ {
		if depths[i] > depths[deepest] {
			deepest = i
		}
	}
	contacts := make([]Contact, 0, maxc)
	for _, i := range cullPoints(kept2D, maxc, deepest) {
		contacts = append(contacts, contactAt(i))
	}
	return contacts, true
}

// lineClosestApproach returns the parameters of the closest points of two
// lines pa+alpha*ua and pb+beta*ub. Near-parallel lines yield (0, 0).
func lineClosestApproach(pa r3.Vector, ua r3.Vector, pb r3.Vector, ub r3.Vector) (alpha, beta float64) {
	p := pb.Sub(pa)
	uaub := ua.Dot(ub)
	q1 := ua.Dot(p)
	q2 := -ub.Dot(p)
	d := 1 - uaub*uaub
	if d <= 1e-4 {
		return 0, 0
	}
	d = 1 / d
	return (q1 + uaub*q2) * d, (uaub*q1 + q2) * d
}

// intersectRectQuad clips a 2D quadrilateral (4 xy pairs) against the
// axis-aligned rectangle [-h0,h0]x[-h1,h1] and returns the clipped polygon as
// xy pairs, at most 8 points.
func intersectRectQuad(h [2]float64, quad []float64) []float64 {
	poly := quad
	for dir := 0; dir <= 1; dir++ {
		for _, sign := range []float64{-1, 1} {
			n := len(poly) / 2
			clipped := make([]float64, 0, 16)
			for i := 0; i < n; i++ {
				cx, cy := poly[2*i], poly[2*i+1]
				ni := (i + 1) % n
				nx, ny := poly[2*ni], poly[2*ni+1]
				cur := [2]float64{cx, cy}
				next := [2]float64{nx, ny}
				curIn := sign*cur[dir] < h[dir]
				nextIn := sign*next[dir] < h[dir]
				if curIn {
					clipped = append(clipped, cx, cy)
				}
				if curIn != nextIn {
					t := (sign*h[dir] - cur[dir]) / (next[dir] - cur[dir])
					var pt [2]float64
					pt[dir] = sign * h[dir]
					pt[1-dir] = cur[1-dir] + (next[1-dir]-cur[1-dir])*t
					clipped = append(clipped, pt[0], pt[1])
				}
				if len(clipped) >= 16 {
					return clipped[:16]
				}
			}
			if len(clipped) == 0 {
				return nil
			}
			poly = clipped
		}
	}
	return poly
}

// cullPoints selects m indices out of the 2D polygon pts (xy pairs), spread
// as evenly as possible by angle around the polygon centroid, always
// starting from index i0.
func cullPoints(pts []float64, m, i0 int) []int {
	n := len(pts) / 2

	var cx, cy float64
	switch n {
	case 1:
		cx, cy = pts[0], pts[1]
	case 2:
		cx, cy = 0.5*(pts[0]+pts[2]), 0.5*(pts[1]+pts[3])
	default:
		var a float64
		for i := 0; i < n-1; i++ {
			q := pts[i*2]*pts[i*2+3] - pts[i*2+2]*pts[i*2+1]
			a += q
			cx += q * (pts[i*2] + pts[i*2+2])
			cy += q * (pts[i*2+1] + pts[i*2+3])
		}
		q := pts[n*2-2]*pts[1] - pts[0]*pts[n*2-1]
		// Degenerate (zero-area) polygons get a huge inverse so the
		// centroid collapses toward the origin gracefully.
		if math.Abs(a+q) > machineEpsilon {
			a = 1 / (3 * (a + q))
		} else {
			a = 1e18
		}
		cx = a * (cx + q*(pts[n*2-2]+pts[0]))
		cy = a * (cy + q*(pts[n*2-1]+pts[1]))
	}

	angles := make([]float64, n)
	for i := 0; i < n; i++ {
		angles[i] = math.Atan2(pts[i*2+1]-cy, pts[i*2]-cx)
	}

	avail := make([]bool, n)
	for i := range avail {
		avail[i] = true
	}
	avail[i0] = false
	ret := make([]int, 0, m)
	ret = append(ret, i0)
	for j := 1; j < m; j++ {
		want := float64(j)*(2*math.Pi/float64(m)) + angles[i0]
		if want > math.Pi {
			want -= 2 * math.Pi
		}
		best := -1
		bestDiff := 1e9
		for i := 0; i < n; i++ {
			if !avail[i] {
				continue
			}
			diff := math.Abs(angles[i] - want)
			if diff > math.Pi {
				diff = 2*math.Pi - diff
			}
			if diff < bestDiff {
				bestDiff = diff
				best = i
			}
		}
		avail[best] = false
		ret = append(ret, best)
	}
	return ret
}
