package coordset

import (
	"iter"
	"slices"

	"github.com/pkg/errors"
)

// IteratorSet is a coordinate set that only offers the iterator path. Streams
// over it are always sequential.
type IteratorSet struct {
	md        CoordinateMetadata
	dimension int
	positions func() iter.Seq[Position]
}

// NewIteratorSet creates a set whose tuples are produced by positions. The
// function is called once per traversal and must start from the first tuple
// every time.
func NewIteratorSet(md CoordinateMetadata, dimension int, positions func() iter.Seq[Position]) (*IteratorSet, error) {
	if md == nil {
		return nil, errors.New("coordset: nil coordinate metadata")
	}
	if positions == nil {
		return nil, errors.New("coordset: nil position source")
	}
	if err := resolveDimension(md, dimension); err != nil {
		return nil, err
	}
	return &IteratorSet{md: md, dimension: dimension, positions: positions}, nil
}

// FromPositions creates an iterator set over a fixed list of positions. The
// dimension comes from the metadata, or from the first position when the
// metadata has no reference system. Every position must have that dimension
// and either no reference system or the metadata's one.
func FromPositions(md CoordinateMetadata, positions ...Position) (*IteratorSet, error) {
	if md == nil {
		return nil, errors.New("coordset: nil coordinate metadata")
	}
	dimension := DimensionOf(md)
	if dimension == 0 && len(positions) > 0 {
		dimension = positions[0].Dimension()
	}
	crs := md.CRS()
	for i, p := range positions {
		if p.Dimension() != dimension {
			return nil, &MismatchedDimensionError{Expected: dimension, Actual: p.Dimension(), Index: i}
		}
		if pc := p.CRS(); pc != nil && !SameCRS(crs, pc) {
			return nil, &MismatchedCRSError{Expected: crs, Actual: pc, Index: i}
		}
	}
	list := slices.Clone(positions)
	return &IteratorSet{
		md:        md,
		dimension: dimension,
		positions: func() iter.Seq[Position] { return slices.Values(list) },
	}, nil
}

// CoordinateMetadata returns the metadata the set was created with.
func (s *IteratorSet) CoordinateMetadata() CoordinateMetadata { return s.md }

// Dimension returns the number of coordinates per tuple.
func (s *IteratorSet) Dimension() int { return s.dimension }

// Positions starts a new traversal of the producer.
func (s *IteratorSet) Positions() iter.Seq[Position] { return s.positions() }
