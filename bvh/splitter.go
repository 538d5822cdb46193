package bvh

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// SplitMethod selects the node-splitting heuristic used during construction.
type SplitMethod int

const (
	// SplitMean splits at the arithmetic mean of the primitive representatives
	// projected on the split axis.
	SplitMean SplitMethod = iota
	// SplitMedian splits at the statistical median of the projected
	// representatives, yielding balanced subtrees.
	SplitMedian
	// SplitBVCenter splits at the bounding volume's own center coordinate.
	SplitBVCenter
)

// GeometryKind tells the splitter how to derive a representative point per
// primitive.
type GeometryKind int

const (
	// GeometryTriangles uses the unweighted average of each triangle's three
	// vertices as its representative.
	GeometryTriangles GeometryKind = iota + 1
	// GeometryPoints uses each point as its own representative.
	GeometryPoints
)

// Splitter computes the binary partition rule for one internal node at a
// time: a split axis or vector plus a scalar threshold. The rule is scoped to
// a single ComputeRule/Apply cycle during construction and is not persisted.
type Splitter struct {
	vertices []r3.Vector
	tris     []IndexedTriangle
	kind     GeometryKind
	method   SplitMethod

	splitAxis   int
	splitVector r3.Vector
	splitValue  float64
	oriented    bool
}

// NewSplitter creates a splitter with the given heuristic. An unrecognized
// heuristic is a configuration error reported here, not at query time.
func NewSplitter(method SplitMethod) (*Splitter, error) {
	switch method {
	case SplitMean, SplitMedian, SplitBVCenter:
		return &Splitter{method: method}, nil
	default:
		return nil, errors.Errorf("unsupported split method %d", method)
	}
}

// Set provides the geometry the split rule reads. For GeometryPoints, tris
// may be nil.
func (s *Splitter) Set(vertices []r3.Vector, tris []IndexedTriangle, kind GeometryKind) error {
	if kind != GeometryTriangles && kind != GeometryPoints {
		return errors.Errorf("unsupported geometry kind %d", kind)
	}
	s.vertices = vertices
	s.tris = tris
	s.kind = kind
	return nil
}

// Clear drops the geometry set before.
func (s *Splitter) Clear() {
	s.vertices = nil
	s.tris = nil
	s.kind = 0
}

// ComputeRule selects the split axis/vector and threshold for the node
// bounded by bv covering the given primitive indices. Passing an empty subset
// to the mean or median heuristic is a caller contract violation and is
// rejected rather than producing an undefined threshold.
func (s *Splitter) ComputeRule(bv SplitVolume, indices []int) error {
	if s.kind == 0 {
		return errors.New("splitter geometry not set")
	}

	// Oriented volumes split along their own principal axis; axis-aligned
	// volumes along the longest world extent (ties prefer width, then height).
	if ob, ok := bv.(OrientedBV); ok {
		s.oriented = true
		s.splitVector = ob.PrincipalAxis()
	} else {
		s.oriented = false
		s.splitAxis = 2
		if bv.Width() >= bv.Height() && bv.Width() >= bv.Depth() {
			s.splitAxis = 0
		} else if bv.Height() >= bv.Width() && bv.Height() >= bv.Depth() {
			s.splitAxis = 1
		}
		s.splitVector = worldAxis(s.splitAxis)
	}

	switch s.method {
	case SplitBVCenter:
		s.splitValue = bv.Center().Dot(s.splitVector)
		return nil
	case SplitMean:
		if len(indices) == 0 {
			return errors.New("cannot compute mean split of an empty primitive subset")
		}
		sum := 0.0
		for _, idx := range indices {
			rep, err := s.representative(idx)
			if err != nil {
				return err
			}
			sum += rep.Dot(s.splitVector)
		}
		s.splitValue = sum / float64(len(indices))
		return nil
	case SplitMedian:
		if len(indices) == 0 {
			return errors.New("cannot compute median split of an empty primitive subset")
		}
		proj := make([]float64, len(indices))
		for i, idx := range indices {
			rep, err := s.representative(idx)
			if err != nil {
				return err
			}
			proj[i] = rep.Dot(s.splitVector)
		}
		sort.Float64s(proj)
		n := len(proj)
		if n%2 == 1 {
			s.splitValue = proj[(n-1)/2]
		} else {
			s.splitValue = (proj[n/2] + proj[n/2-1]) / 2
		}
		return nil
	default:
		return errors.Errorf("unsupported split method %d", s.method)
	}
}

// Apply reports which side of the current rule a point falls on.
func (s *Splitter) Apply(q r3.Vector) bool {
	return q.Dot(s.splitVector) > s.splitValue
}

// representative returns the projection point for one primitive.
func (s *Splitter) representative(idx int) (r3.Vector, error) {
	switch s.kind {
	case GeometryTriangles:
		t := s.tris[idx]
		return s.vertices[t.A].Add(s.vertices[t.B]).Add(s.vertices[t.C]).Mul(1.0 / 3.0), nil
	case GeometryPoints:
		return s.vertices[idx], nil
	default:
		return r3.Vector{}, errors.Errorf("unsupported geometry kind %d", s.kind)
	}
}

func worldAxis(axis int) r3.Vector {
	switch axis {
	case 0:
		return r3.Vector{X: 1}
	case 1:
		return r3.Vector{Y: 1}
	default:
		return r3.Vector{Z: 1}
	}
}
