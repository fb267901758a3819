package coordset

import (
	"context"
)

// Reduce folds every position of s into a single value, in encounter order.
//
// identity returns a fresh accumulator; it is called once per range the
// stream is split into, so it must not return shared state. accumulate folds
// one position into an accumulator and combine merges two accumulators, the
// earlier range always on the left. Positions are live views over buffer
// storage; keep a CopyPosition when a snapshot is needed.
//
// Example:
//
//	sumX, err := coordset.Reduce(ctx, stream,
//	    func() float64 { return 0 },
//	    func(acc float64, p coordset.Position) float64 {
//	        x, _ := p.Coordinate(0)
//	        return acc + x
//	    },
//	    func(a, b float64) float64 { return a + b })
func Reduce[A any](ctx context.Context, s *Stream, identity func() A, accumulate func(A, Position) A, combine func(A, A) A) (A, error) {
	if err := s.claim(); err != nil {
		var zero A
		return zero, err
	}

	if s.kind == SourceIterator {
		acc := identity()
		err := drainSeq(ctx, s.set.Positions(), func(p Position) error {
			acc = accumulate(acc, p)
			return nil
		})
		return acc, err
	}

	leaf := func(ctx context.Context, sp Spliterator) (A, error) {
		acc := identity()
		err := drain(ctx, sp, func(p Position) error {
			acc = accumulate(acc, p)
			return nil
		})
		return acc, err
	}

	if !s.parallel {
		acc := identity()
		for _, sp := range s.spliterators {
			part, err := leaf(ctx, sp)
			if err != nil {
				return acc, err
			}
			acc = combine(acc, part)
		}
		return acc, nil
	}

	if len(s.spliterators) == 0 {
		return identity(), nil
	}
	return parallelReduce(ctx, s, leaf, combine)
}
