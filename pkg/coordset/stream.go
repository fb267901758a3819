package coordset

import (
	"context"
	"iter"
	"runtime"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/beetlebugorg/coordset/internal/parallel"
)

// ErrStreamConsumed is returned when a terminal operation runs on a stream
// that has already been traversed.
var ErrStreamConsumed = errors.New("coordset: stream has already been consumed")

// ctxCheckInterval is how many positions are visited between context checks.
const ctxCheckInterval = 1024

// SourceKind identifies which storage path a stream reads from.
type SourceKind int

const (
	// SourceIterator streams from CoordinateSet.Positions.
	SourceIterator SourceKind = iota

	// SourceDoubles streams from the buffers returned by AsDoubleBuffers.
	SourceDoubles

	// SourceFloats streams from the buffers returned by AsFloatBuffers.
	SourceFloats
)

func (k SourceKind) String() string {
	switch k {
	case SourceDoubles:
		return "doubles"
	case SourceFloats:
		return "floats"
	default:
		return "iterator"
	}
}

// StreamOptions controls parallel traversal.
type StreamOptions struct {
	// Workers is the maximum number of goroutines traversing at once.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// MinChunk is the number of positions at or below which a range is
	// traversed without further splitting.
	MinChunk int
}

// DefaultStreamOptions returns options using every CPU and ranges of at
// least 1024 positions.
func DefaultStreamOptions() StreamOptions {
	return StreamOptions{
		Workers:  runtime.NumCPU(),
		MinChunk: 1024,
	}
}

// Stream is a single-use traversal of the positions of a coordinate set.
//
// A stream is sequential unless Parallel is called. Parallel streams split
// packed buffers into disjoint ranges and visit them from several goroutines;
// sets without buffers are always traversed sequentially.
type Stream struct {
	set          CoordinateSet
	kind         SourceKind
	crs          CoordinateReferenceSystem
	dimension    int
	spliterators []Spliterator
	parallel     bool
	opts         StreamOptions
	consumed     bool
}

// StreamOf returns a stream over the positions of set.
//
// The storage path is chosen once: double buffers if the set exposes them,
// otherwise float buffers, otherwise the set's Positions iterator. One point
// adapter is created per buffer. A buffer that does not hold a whole number
// of tuples is reported as a *MismatchedDimensionError.
//
// Example:
//
//	stream, err := coordset.StreamOf(set)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, err := stream.Parallel(coordset.DefaultStreamOptions()).Count(ctx)
func StreamOf(set CoordinateSet) (*Stream, error) {
	s := &Stream{
		set:       set,
		crs:       crsOf(set.CoordinateMetadata()),
		dimension: set.Dimension(),
		opts:      DefaultStreamOptions(),
	}

	var err error
	if buffers, ok := doubleBuffers(set); ok {
		s.kind = SourceDoubles
		s.spliterators, err = adaptBuffers(s.crs, s.dimension, buffers)
	} else if buffers, ok := floatBuffers(set); ok {
		s.kind = SourceFloats
		s.spliterators, err = adaptBuffers(s.crs, s.dimension, buffers)
	} else {
		s.kind = SourceIterator
	}
	if err != nil {
		return nil, errors.Wrapf(err, "coordset: adapt %s buffers", s.kind)
	}
	if glog.V(2) {
		glog.Infof("coordset: streaming %d-D set through %d %s buffers", s.dimension, len(s.spliterators), s.kind)
	}
	return s, nil
}

func doubleBuffers(set CoordinateSet) ([]*DoubleBuffer, bool) {
	if d, ok := set.(DoubleBuffered); ok {
		return d.AsDoubleBuffers()
	}
	return nil, false
}

func floatBuffers(set CoordinateSet) ([]*FloatBuffer, bool) {
	if f, ok := set.(FloatBuffered); ok {
		return f.AsFloatBuffers()
	}
	return nil, false
}

// adaptBuffers creates one point adapter per buffer.
func adaptBuffers[T Scalar](crs CoordinateReferenceSystem, dimension int, buffers []*Buffer[T]) ([]Spliterator, error) {
	out := make([]Spliterator, len(buffers))
	for i, buf := range buffers {
		sp, err := newBufferPoints(crs, dimension, buf, i)
		if err != nil {
			return nil, err
		}
		out[i] = sp
	}
	return out, nil
}

// Source returns the storage path this stream reads from.
func (s *Stream) Source() SourceKind { return s.kind }

// Dimension returns the number of coordinates of every position.
func (s *Stream) Dimension() int { return s.dimension }

// CRS returns the reference system positions are tagged with.
func (s *Stream) CRS() CoordinateReferenceSystem { return s.crs }

// Parallel switches the stream to parallel traversal with the given options.
func (s *Stream) Parallel(opts StreamOptions) *Stream {
	s.parallel = true
	s.opts = opts
	return s
}

// Sequential switches the stream back to single-goroutine traversal.
func (s *Stream) Sequential() *Stream {
	s.parallel = false
	return s
}

// IsParallel reports whether terminal operations may run concurrently.
// Iterator-backed streams are never parallel.
func (s *Stream) IsParallel() bool {
	return s.parallel && s.kind != SourceIterator
}

// Spliterators returns the point adapters of a buffer-backed stream, one per
// buffer in order, or nil for an iterator-backed stream. Driving them
// consumes the stream.
func (s *Stream) Spliterators() []Spliterator {
	s.consumed = true
	return s.spliterators
}

func (s *Stream) claim() error {
	if s.consumed {
		return ErrStreamConsumed
	}
	s.consumed = true
	return nil
}

// All returns an ordered, sequential traversal of the stream, regardless of
// the parallel setting. It panics if the stream was already consumed.
func (s *Stream) All() iter.Seq[Position] {
	if err := s.claim(); err != nil {
		panic(err)
	}
	if s.kind == SourceIterator {
		return s.set.Positions()
	}
	return func(yield func(Position) bool) {
		for _, sp := range s.spliterators {
			stopped := false
			sp.ForEachRemaining(func(p Position) bool {
				if !yield(p) {
					stopped = true
				}
				return !stopped
			})
			if stopped {
				return
			}
		}
	}
}

// ForEach calls fn for every position. In parallel mode fn is called from
// several goroutines at once and positions from different ranges interleave;
// use Collect or Reduce for ordered results.
//
// ForEach stops at the first error returned by fn or when ctx is done.
func (s *Stream) ForEach(ctx context.Context, fn func(Position) error) error {
	if err := s.claim(); err != nil {
		return err
	}
	if s.kind == SourceIterator {
		return drainSeq(ctx, s.set.Positions(), fn)
	}
	if !s.parallel {
		for _, sp := range s.spliterators {
			if err := drain(ctx, sp, fn); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := parallel.Reduce(ctx, s.spliterators, s.parallelOptions(),
		func(ctx context.Context, sp Spliterator) (struct{}, error) {
			return struct{}{}, drain(ctx, sp, fn)
		},
		func(a, _ struct{}) struct{} { return a })
	return err
}

// Count returns the number of positions. Buffer-backed streams answer from
// their exact sizes without visiting positions.
func (s *Stream) Count(ctx context.Context) (int, error) {
	if s.kind == SourceIterator {
		n := 0
		err := s.ForEach(ctx, func(Position) error {
			n++
			return nil
		})
		return n, err
	}
	if err := s.claim(); err != nil {
		return 0, err
	}
	n := 0
	for _, sp := range s.spliterators {
		n += sp.EstimateSize()
	}
	return n, nil
}

// Collect returns every position in encounter order, also in parallel mode.
func (s *Stream) Collect(ctx context.Context) ([]Position, error) {
	return Reduce(ctx, s,
		func() []Position { return nil },
		func(acc []Position, p Position) []Position { return append(acc, p) },
		func(a, b []Position) []Position { return append(a, b...) })
}

func (s *Stream) parallelOptions() parallel.Options {
	return parallel.Options{Workers: s.opts.Workers, MinChunk: s.opts.MinChunk}
}

func parallelReduce[A any](ctx context.Context, s *Stream, leaf parallel.LeafFunc[Spliterator, A], combine func(A, A) A) (A, error) {
	return parallel.Reduce(ctx, s.spliterators, s.parallelOptions(), leaf, combine)
}

// drain visits the remaining positions of sp, checking ctx periodically.
func drain(ctx context.Context, sp Spliterator, fn func(Position) error) error {
	var err error
	n := 0
	sp.ForEachRemaining(func(p Position) bool {
		if n++; n%ctxCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		err = fn(p)
		return err == nil
	})
	if err != nil {
		return err
	}
	return ctx.Err()
}

func drainSeq(ctx context.Context, seq iter.Seq[Position], fn func(Position) error) error {
	n := 0
	for p := range seq {
		if n++; n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return ctx.Err()
}
