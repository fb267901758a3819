package coordset

import (
	"iter"
)

// CoordinateSet is a collection of coordinate tuples referenced to a single
// CoordinateMetadata.
//
// Every position produced by a set has exactly Dimension coordinates and is
// either untagged or tagged with the set's reference system.
//
// A set may additionally implement DoubleBuffered or FloatBuffered to expose
// its packed storage for zero-copy traversal. StreamOf prefers those over
// Positions.
type CoordinateSet interface {
	// CoordinateMetadata returns the reference system and epoch of every
	// tuple in the set. Never nil.
	CoordinateMetadata() CoordinateMetadata

	// Dimension returns the number of coordinates per tuple. When the
	// metadata carries a reference system this equals DimensionOf(metadata).
	Dimension() int

	// Positions returns an ordered traversal of every tuple. Each call starts
	// a new, independent traversal.
	Positions() iter.Seq[Position]
}

// DoubleBuffered is implemented by sets backed by packed float64 storage.
//
// AsDoubleBuffers returns false when the set chooses not to expose buffers.
// It returns true and zero buffers when the set is empty. Each call must
// return fresh duplicates whose cursors are reset, since traversal consumes
// them.
type DoubleBuffered interface {
	AsDoubleBuffers() ([]*DoubleBuffer, bool)
}

// FloatBuffered is DoubleBuffered for packed float32 storage.
type FloatBuffered interface {
	AsFloatBuffers() ([]*FloatBuffer, bool)
}

// bufferPositions traverses every buffer in order through the point adapter.
// The buffers are consumed.
func bufferPositions[T Scalar](crs CoordinateReferenceSystem, dimension int, buffers []*Buffer[T]) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for _, buf := range buffers {
			s := &bufferPoints[T]{crs: crs, dimension: dimension, buffer: buf}
			stopped := false
			s.ForEachRemaining(func(p Position) bool {
				if !yield(p) {
					stopped = true
					return false
				}
				return true
			})
			if stopped {
				return
			}
		}
	}
}

// duplicates returns a duplicate of every buffer.
func duplicates[T Scalar](buffers []*Buffer[T]) []*Buffer[T] {
	out := make([]*Buffer[T], len(buffers))
	for i, b := range buffers {
		out[i] = b.Duplicate()
	}
	return out
}

// resolveDimension checks an explicit dimension against the one declared by
// the metadata's reference system, if any.
func resolveDimension(md CoordinateMetadata, dimension int) error {
	if declared := DimensionOf(md); declared != 0 && declared != dimension {
		return &MismatchedDimensionError{Expected: declared, Actual: dimension, Index: -1}
	}
	return nil
}

func crsOf(md CoordinateMetadata) CoordinateReferenceSystem {
	if md == nil {
		return nil
	}
	return md.CRS()
}
