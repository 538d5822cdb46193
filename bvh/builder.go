package bvh

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Builder constructs hierarchies top-down with a node splitter and a
// bounding-volume fitter. One builder may build many models; it holds no
// state between Build calls.
type Builder[B BV[B]] struct {
	fit      func([]r3.Vector) B
	splitter *Splitter
	presort  bool
	logger   *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption[B BV[B]] func(*Builder[B])

// WithMortonPresort orders primitives along a 60-bit Morton curve of their
// representative points before construction, improving the locality of the
// index runs the splitter partitions.
func WithMortonPresort[B BV[B]]() BuilderOption[B] {
	return func(b *Builder[B]) { b.presort = true }
}

// WithLogger attaches a logger for build diagnostics.
func WithLogger[B BV[B]](logger *zap.Logger) BuilderOption[B] {
	return func(b *Builder[B]) { b.logger = logger }
}

// NewBuilder creates a builder from a fitter and a split heuristic.
func NewBuilder[B BV[B]](fit func([]r3.Vector) B, method SplitMethod, opts ...BuilderOption[B]) (*Builder[B], error) {
	splitter, err := NewSplitter(method)
	if err != nil {
		return nil, err
	}
	b := &Builder[B]{fit: fit, splitter: splitter, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// BuildMesh builds a hierarchy over a triangle mesh with one triangle per leaf.
func (b *Builder[B]) BuildMesh(vertices []r3.Vector, tris []IndexedTriangle) (*Model[B], error) {
	if len(tris) == 0 {
		return nil, errors.New("cannot build a hierarchy over zero triangles")
	}
	return b.build(vertices, tris, GeometryTriangles, len(tris))
}

// BuildPoints builds a hierarchy over a point cloud with one point per leaf.
func (b *Builder[B]) BuildPoints(points []r3.Vector) (*Model[B], error) {
	if len(points) == 0 {
		return nil, errors.New("cannot build a hierarchy over zero points")
	}
	return b.build(points, nil, GeometryPoints, len(points))
}

func (b *Builder[B]) build(vertices []r3.Vector, tris []IndexedTriangle, kind GeometryKind, numPrims int) (*Model[B], error) {
	m := &Model[B]{
		primIndices: make([]int, numPrims),
		vertices:    vertices,
		tris:        tris,
		kind:        kind,
		fit:         b.fit,
	}
	for i := range m.primIndices {
		m.primIndices[i] = i
	}

	if err := b.splitter.Set(vertices, tris, kind); err != nil {
		return nil, err
	}
	defer b.splitter.Clear()

	if b.presort {
		if err := b.mortonSort(m); err != nil {
			return nil, err
		}
	}

	m.nodes = append(m.nodes, Node[B]{})
	if err := b.buildInto(m, 0, 0, numPrims); err != nil {
		return nil, err
	}

	b.logger.Debug("built bounding volume hierarchy",
		zap.Int("primitives", numPrims),
		zap.Int("nodes", len(m.nodes)),
	)
	return m, nil
}

// mortonSort reorders the primitive indices along a space-filling curve of
// their representative points within the root bounding box.
func (b *Builder[B]) mortonSort(m *Model[B]) error {
	reps := make([]r3.Vector, len(m.primIndices))
	for i, idx := range m.primIndices {
		rep, err := b.splitter.representative(idx)
		if err != nil {
			return err
		}
		reps[i] = rep
	}
	coder := NewMorton60(FitAABB(reps))
	codes := make([]uint64, len(reps))
	for i, rep := range reps {
		codes[i] = coder.Code(rep)
	}
	order := make([]int, len(m.primIndices))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return codes[order[i]] < codes[order[j]]
	})
	sorted := make([]int, len(m.primIndices))
	for i, pos := range order {
		sorted[i] = m.primIndices[pos]
	}
	copy(m.primIndices, sorted)
	return nil
}

// buildInto fills node nodeIdx with the subtree over primitive index span
// [begin, end).
func (b *Builder[B]) buildInto(m *Model[B], nodeIdx, begin, end int) error {
	indices := m.primIndices[begin:end]
	volume := b.fit(m.gatherPoints(indices, m.vertices))

	if end-begin == 1 {
		m.nodes[nodeIdx] = Node[B]{Volume: volume, first: -(indices[0]) - 1, begin: begin, end: end}
		return nil
	}

	if err := b.splitter.ComputeRule(volume, indices); err != nil {
		return err
	}

	// Stable partition into two contiguous runs.
	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, idx := range indices {
		rep, err := b.splitter.representative(idx)
		if err != nil {
			return err
		}
		if b.splitter.Apply(rep) {
			right = append(right, idx)
		} else {
			left = append(left, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		// All representatives fell on one side; split at the middle so the
		// tree stays finite.
		b.logger.Warn("degenerate split, falling back to middle partition",
			zap.Int("primitives", len(indices)),
		)
		mid := len(indices) / 2
		left = append(left[:0], indices[:mid]...)
		right = append(right[:0], indices[mid:]...)
	}
	copy(indices, left)
	copy(indices[len(left):], right)

	childIdx := len(m.nodes)
	m.nodes = append(m.nodes, Node[B]{}, Node[B]{})
	m.nodes[nodeIdx] = Node[B]{Volume: volume, first: childIdx, begin: begin, end: end}

	if err := b.buildInto(m, childIdx, begin, begin+len(left)); err != nil {
		return err
	}
	return b.buildInto(m, childIdx+1, begin+len(left), end)
}
