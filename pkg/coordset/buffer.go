package coordset

import (
	"github.com/pkg/errors"
)

// Scalar is the set of floating point types a packed buffer can hold.
type Scalar interface {
	~float32 | ~float64
}

// Buffer is a non-owning window over a flat slice of scalar values.
//
// The window is the half-open range [Position, Limit) of the slice. The slice
// itself is owned by whichever producer allocated it; a Buffer only borrows it.
// Duplicate returns a second window over the same storage with its own cursor,
// which is how traversals are forked without copying coordinate data.
//
// Coordinate tuples are packed in row-major order (x0, y0, x1, y1, ...).
// A Buffer is not safe for concurrent use, but distinct duplicates covering
// disjoint ranges may be read concurrently. Writing to the borrowed slice
// while another goroutine reads it through any duplicate is a data race.
type Buffer[T Scalar] struct {
	data     []T
	position int
	limit    int
	readOnly bool
}

// DoubleBuffer is a buffer of double-precision values.
type DoubleBuffer = Buffer[float64]

// FloatBuffer is a buffer of single-precision values.
type FloatBuffer = Buffer[float32]

// Wrap returns a writable buffer covering all of data.
//
// Example:
//
//	coords := []float64{1, 2, 3, 4, 5, 6} // three 2-D tuples
//	buf := coordset.Wrap(coords)
func Wrap[T Scalar](data []T) *Buffer[T] {
	return &Buffer[T]{data: data, limit: len(data)}
}

// WrapRange returns a writable buffer over data whose window starts at offset
// and spans length values. Indices stay relative to the start of data, so the
// buffer's Position is offset, not zero.
func WrapRange[T Scalar](data []T, offset, length int) (*Buffer[T], error) {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, errors.Wrapf(ErrInvalidBuffer, "range [%d, %d) outside capacity %d",
			offset, offset+length, len(data))
	}
	return &Buffer[T]{data: data, position: offset, limit: offset + length}, nil
}

// Position returns the index of the next value to read.
func (b *Buffer[T]) Position() int { return b.position }

// Limit returns the index of the first value that must not be read.
func (b *Buffer[T]) Limit() int { return b.limit }

// Capacity returns the length of the underlying storage.
func (b *Buffer[T]) Capacity() int { return len(b.data) }

// Remaining returns the number of values between Position and Limit.
func (b *Buffer[T]) Remaining() int { return b.limit - b.position }

// HasRemaining reports whether at least one value is left to read.
func (b *Buffer[T]) HasRemaining() bool { return b.position < b.limit }

// ReadOnly reports whether writes through this buffer are refused.
func (b *Buffer[T]) ReadOnly() bool { return b.readOnly }

// SetPosition moves the cursor. p must lie within [0, Limit].
func (b *Buffer[T]) SetPosition(p int) error {
	if p < 0 || p > b.limit {
		return errors.Wrapf(ErrInvalidBuffer, "position %d outside [0, %d]", p, b.limit)
	}
	b.position = p
	return nil
}

// SetLimit moves the end of the window. l must lie within [0, Capacity].
// If the position is past the new limit it is moved back to the limit.
func (b *Buffer[T]) SetLimit(l int) error {
	if l < 0 || l > len(b.data) {
		return errors.Wrapf(ErrInvalidBuffer, "limit %d outside [0, %d]", l, len(b.data))
	}
	b.limit = l
	if b.position > l {
		b.position = l
	}
	return nil
}

// Get returns the value at absolute index i of the storage.
func (b *Buffer[T]) Get(i int) (T, error) {
	if i < 0 || i >= b.limit {
		return 0, errors.Wrapf(ErrInvalidBuffer, "index %d outside [0, %d)", i, b.limit)
	}
	return b.data[i], nil
}

// Put stores v at absolute index i of the storage. It fails with ErrReadOnly
// when the buffer is read-only, leaving the storage untouched.
func (b *Buffer[T]) Put(i int, v T) error {
	if b.readOnly {
		return ErrReadOnly
	}
	if i < 0 || i >= b.limit {
		return errors.Wrapf(ErrInvalidBuffer, "index %d outside [0, %d)", i, b.limit)
	}
	b.data[i] = v
	return nil
}

// Duplicate returns a buffer sharing this buffer's storage, with an
// independent copy of its position, limit and read-only flag.
func (b *Buffer[T]) Duplicate() *Buffer[T] {
	d := *b
	return &d
}

// AsReadOnly returns a duplicate that refuses writes.
func (b *Buffer[T]) AsReadOnly() *Buffer[T] {
	d := b.Duplicate()
	d.readOnly = true
	return d
}

// CopyRemaining appends the values in [Position, Limit) to dst without moving
// the cursor.
func (b *Buffer[T]) CopyRemaining(dst []T) []T {
	return append(dst, b.data[b.position:b.limit]...)
}
