package bvh

import (
	"math"

	"github.com/golang/geo/r3"
)

// satMaxGap computes the maximum separation gap across all 15 candidate
// separating axes for two oriented boxes (Ericson's precomputed R-matrix
// formulation, "Real-Time Collision Detection" Ch. 4.4). A positive result is
// a proven lower bound on the distance between the boxes; a negative result
// means no candidate axis separates them.
//
// Half sizes may be zero on any axis, which makes the same routine usable for
// rectangles (RSS slabs) as degenerate boxes.
func satMaxGap(axesA, axesB [3]r3.Vector, hA, hB [3]float64, centerDist r3.Vector) float64 {
	const eps = 1e-10

	var t [3]float64
	var rot, abs [3][3]float64
	for i := 0; i < 3; i++ {
		t[i] = axesA[i].Dot(centerDist)
		for j := 0; j < 3; j++ {
			rot[i][j] = axesA[i].Dot(axesB[j])
			// The epsilon keeps near-parallel edge axes from producing
			// arithmetically negative gaps out of round-off.
			abs[i][j] = math.Abs(rot[i][j]) + eps
		}
	}

	best := math.Inf(-1)

	// Three face axes of A.
	for i := 0; i < 3; i++ {
		g := math.Abs(t[i]) - hA[i] - (hB[0]*abs[i][0] + hB[1]*abs[i][1] + hB[2]*abs[i][2])
		if g > best {
			best = g
		}
	}

	// Three face axes of B.
	for j := 0; j < 3; j++ {
		proj := t[0]*rot[0][j] + t[1]*rot[1][j] + t[2]*rot[2][j]
		g := math.Abs(proj) - hB[j] - (hA[0]*abs[0][j] + hA[1]*abs[1][j] + hA[2]*abs[2][j])
		if g > best {
			best = g
		}
	}

	// Nine edge-cross axes a_i x b_j, skipping near-parallel (degenerate) pairs.
	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			l2 := 1 - rot[i][j]*rot[i][j]
			if l2 <= eps {
				continue
			}
			j1, j2 := (j+1)%3, (j+2)%3
			raw := math.Abs(t[i2]*rot[i1][j]-t[i1]*rot[i2][j]) -
				(hA[i1]*abs[i2][j] + hA[i2]*abs[i1][j]) -
				(hB[j1]*abs[i][j2] + hB[j2]*abs[i][j1])
			if g := raw / math.Sqrt(l2); g > best {
				best = g
			}
		}
	}

	return best
}
