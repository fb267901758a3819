package coordset

import (
	"iter"

	"github.com/pkg/errors"
)

// packed is the storage shared by DoubleSet and FloatSet: a list of buffers,
// each holding a whole number of tuples. The stored buffers are never handed
// out or traversed directly; callers always get duplicates.
type packed[T Scalar] struct {
	md        CoordinateMetadata
	dimension int
	buffers   []*Buffer[T]
}

func newPacked[T Scalar](md CoordinateMetadata, dimension int, buffers []*Buffer[T]) (packed[T], error) {
	if md == nil {
		return packed[T]{}, errors.New("coordset: nil coordinate metadata")
	}
	if err := resolveDimension(md, dimension); err != nil {
		return packed[T]{}, err
	}
	if err := checkTuples(dimension, 0, -1); err != nil {
		return packed[T]{}, err
	}
	for i, b := range buffers {
		if b == nil {
			return packed[T]{}, errors.Errorf("coordset: buffer %d is nil", i)
		}
		if err := checkTuples(dimension, b.Remaining(), i); err != nil {
			return packed[T]{}, err
		}
	}
	return packed[T]{md: md, dimension: dimension, buffers: duplicates(buffers)}, nil
}

// CoordinateMetadata returns the metadata the set was created with.
func (p *packed[T]) CoordinateMetadata() CoordinateMetadata { return p.md }

// Dimension returns the number of coordinates per tuple.
func (p *packed[T]) Dimension() int { return p.dimension }

// Positions walks every buffer in order. Positions are views over the
// storage: writing to them writes to the buffers unless they are read-only.
func (p *packed[T]) Positions() iter.Seq[Position] {
	return bufferPositions(p.md.CRS(), p.dimension, duplicates(p.buffers))
}

// Len returns the number of tuples in the set.
func (p *packed[T]) Len() int {
	n := 0
	for _, b := range p.buffers {
		n += b.Remaining() / p.dimension
	}
	return n
}

// DoubleSet is a coordinate set backed by one or more float64 buffers, for
// example one buffer per chunk of a larger dataset.
type DoubleSet struct {
	packed[float64]
}

// NewDoubleSet creates a set over the remaining content of each buffer. The
// buffers are duplicated, so later cursor moves by the caller do not affect
// the set, but the storage is shared.
//
// Example:
//
//	wgs84 := coordset.NewCRS("WGS 84", 2)
//	set, err := coordset.NewDoubleSet(coordset.NewCoordinateMetadata(wgs84), 2,
//	    coordset.Wrap([]float64{-71.05, 42.36, -70.99, 42.31}))
func NewDoubleSet(md CoordinateMetadata, dimension int, buffers ...*DoubleBuffer) (*DoubleSet, error) {
	p, err := newPacked(md, dimension, buffers)
	if err != nil {
		return nil, err
	}
	return &DoubleSet{packed: p}, nil
}

// AsDoubleBuffers returns fresh duplicates of the backing buffers.
func (s *DoubleSet) AsDoubleBuffers() ([]*DoubleBuffer, bool) {
	return duplicates(s.buffers), true
}

// FloatSet is a coordinate set backed by one or more float32 buffers.
type FloatSet struct {
	packed[float32]
}

// NewFloatSet is NewDoubleSet for single-precision storage.
func NewFloatSet(md CoordinateMetadata, dimension int, buffers ...*FloatBuffer) (*FloatSet, error) {
	p, err := newPacked(md, dimension, buffers)
	if err != nil {
		return nil, err
	}
	return &FloatSet{packed: p}, nil
}

// AsFloatBuffers returns fresh duplicates of the backing buffers.
func (s *FloatSet) AsFloatBuffers() ([]*FloatBuffer, bool) {
	return duplicates(s.buffers), true
}
