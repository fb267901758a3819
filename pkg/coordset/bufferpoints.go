package coordset

import (
	"github.com/pkg/errors"
)

// bufferPoints exposes a packed buffer as a splittable sequence of position
// views. The buffer's own position and limit are the traversal cursor, so a
// fork only needs a duplicated buffer with an adjusted limit.
type bufferPoints[T Scalar] struct {
	crs       CoordinateReferenceSystem
	dimension int
	buffer    *Buffer[T]
}

// NewDoubleSpliterator returns a Spliterator producing one position per
// dimension-sized group of values in buf, tagged with crs. The buffer must
// be non-nil and hold a whole number of tuples.
func NewDoubleSpliterator(crs CoordinateReferenceSystem, dimension int, buf *DoubleBuffer) (Spliterator, error) {
	return newBufferPoints(crs, dimension, buf, -1)
}

// NewFloatSpliterator is NewDoubleSpliterator for single-precision buffers.
// Coordinates are widened to float64 on read and rounded to float32 on write.
func NewFloatSpliterator(crs CoordinateReferenceSystem, dimension int, buf *FloatBuffer) (Spliterator, error) {
	return newBufferPoints(crs, dimension, buf, -1)
}

// newBufferPoints wraps buf, the index-th buffer of a set or -1 when it
// stands alone.
func newBufferPoints[T Scalar](crs CoordinateReferenceSystem, dimension int, buf *Buffer[T], index int) (Spliterator, error) {
	if buf == nil {
		if index < 0 {
			return nil, errors.New("coordset: nil buffer")
		}
		return nil, errors.Errorf("coordset: buffer %d is nil", index)
	}
	if err := checkTuples(dimension, buf.Remaining(), index); err != nil {
		return nil, err
	}
	return &bufferPoints[T]{crs: crs, dimension: dimension, buffer: buf}, nil
}

// checkTuples verifies that n scalar values form whole tuples.
func checkTuples(dimension, n, index int) error {
	if dimension <= 0 {
		return &MismatchedDimensionError{Expected: 1, Actual: dimension, Index: index}
	}
	if n%dimension != 0 {
		return &MismatchedDimensionError{Expected: dimension, Actual: n % dimension, Index: index}
	}
	return nil
}

func (s *bufferPoints[T]) Characteristics() Characteristics {
	c := Ordered | Sized | Subsized | NonNull
	if s.buffer.ReadOnly() {
		c |= Immutable
	}
	return c
}

func (s *bufferPoints[T]) EstimateSize() int {
	return s.buffer.Remaining() / s.dimension
}

func (s *bufferPoints[T]) TrySplit() (Spliterator, bool) {
	b := s.buffer
	half := b.Remaining() / (2 * s.dimension)
	if half < 1 {
		return nil, false
	}
	splitAt := b.position + half*s.dimension
	prefix := &bufferPoints[T]{crs: s.crs, dimension: s.dimension, buffer: b.Duplicate()}
	prefix.buffer.limit = splitAt
	b.position = splitAt
	return prefix, true
}

func (s *bufferPoints[T]) TryAdvance(action func(Position)) bool {
	b := s.buffer
	lower := b.position
	upper := lower + s.dimension
	if upper > b.limit {
		return false
	}
	action(s.position(lower))
	b.position = upper
	return true
}

func (s *bufferPoints[T]) ForEachRemaining(action func(Position) bool) {
	b := s.buffer
	lower := b.position
	for upper := lower + s.dimension; upper <= b.limit; upper += s.dimension {
		if !action(s.position(lower)) {
			b.position = upper
			return
		}
		lower = upper
	}
	b.position = lower
}

func (s *bufferPoints[T]) position(offset int) Position {
	return &bufferPosition[T]{
		buffer:    s.buffer,
		offset:    offset,
		dimension: s.dimension,
		crs:       s.crs,
	}
}

// bufferPosition is a view over dimension values of a buffer starting at
// offset. It reads through to the storage on every call.
type bufferPosition[T Scalar] struct {
	buffer    *Buffer[T]
	offset    int
	dimension int
	crs       CoordinateReferenceSystem
}

func (p *bufferPosition[T]) CRS() CoordinateReferenceSystem { return p.crs }

func (p *bufferPosition[T]) Dimension() int { return p.dimension }

func (p *bufferPosition[T]) Coordinates() []float64 {
	coords := make([]float64, p.dimension)
	for i, v := range p.buffer.data[p.offset : p.offset+p.dimension] {
		coords[i] = float64(v)
	}
	return coords
}

func (p *bufferPosition[T]) Coordinate(i int) (float64, error) {
	if i < 0 || i >= p.dimension {
		return 0, indexError(i, p.dimension)
	}
	return float64(p.buffer.data[p.offset+i]), nil
}

func (p *bufferPosition[T]) SetCoordinate(i int, v float64) error {
	if i < 0 || i >= p.dimension {
		return indexError(i, p.dimension)
	}
	if p.buffer.readOnly {
		return ErrReadOnly
	}
	p.buffer.data[p.offset+i] = T(v)
	return nil
}

func (p *bufferPosition[T]) String() string {
	return formatPoint(p.Coordinates(), bitSize[T]())
}

// bitSize returns the precision values of type T are formatted with.
func bitSize[T Scalar]() int {
	// Single precision rounds 1 + 2^-30 to 1.
	v := 1 + 0x1p-30
	if float64(T(v)) == 1 {
		return 32
	}
	return 64
}
