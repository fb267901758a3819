// Package parallel drives splittable work across goroutines while keeping
// results in encounter order.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// Part is a unit of work that knows its size and can carve off a prefix.
//
// TrySplit returns a new part covering a prefix of the receiver's range and
// shrinks the receiver to the remainder, or returns false when the part is too
// small to divide.
type Part[P any] interface {
	EstimateSize() int
	TrySplit() (P, bool)
}

// Options controls how work is divided.
type Options struct {
	// Workers is the maximum number of goroutines working at once, including
	// the caller. If 0, defaults to runtime.NumCPU().
	Workers int

	// MinChunk is the size at or below which a part is processed without
	// further splitting. If 0, parts are split until they refuse.
	MinChunk int
}

// DefaultOptions returns options using every CPU and chunks of 1024 elements.
func DefaultOptions() Options {
	return Options{
		Workers:  runtime.NumCPU(),
		MinChunk: 1024,
	}
}

// LeafFunc processes a part sequentially.
type LeafFunc[P, A any] func(ctx context.Context, part P) (A, error)

// Reduce processes parts as one ordered sequence, in parallel.
//
// Each part is bisected until it is no larger than MinChunk or refuses to
// split; leaves run on a new goroutine when a worker slot is free and inline
// otherwise, so Reduce never blocks waiting for a slot. Results are combined
// prefix first: combine(left, right) always receives the earlier range as
// left, which keeps ordered reductions deterministic.
//
// The first error cancels the remaining work and is returned. Reduce returns
// the zero value of A when parts is empty.
func Reduce[P Part[P], A any](ctx context.Context, parts []P, opts Options, leaf LeafFunc[P, A], combine func(A, A) A) (A, error) {
	var zero A
	if len(parts) == 0 {
		return zero, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	// The caller is one of the workers.
	g.SetLimit(workers - 1)
	cctx, cancel := context.WithCancel(gctx)
	defer cancel()

	r := &reducer[P, A]{
		g:        g,
		ctx:      cctx,
		cancel:   cancel,
		minChunk: opts.MinChunk,
		leaf:     leaf,
		combine:  combine,
	}

	if glog.V(2) {
		glog.Infof("parallel: reducing %d parts with %d workers, min chunk %d", len(parts), workers, opts.MinChunk)
	}

	result, err := r.walkList(parts)
	if werr := g.Wait(); err == nil {
		err = werr
	}
	if ferr := r.firstErr(); ferr != nil {
		// Other leaves may have failed with the cancellation it caused.
		err = ferr
	}
	if err != nil {
		return zero, err
	}
	return result, nil
}

type reducer[P Part[P], A any] struct {
	g        *errgroup.Group
	ctx      context.Context
	cancel   context.CancelFunc
	minChunk int
	leaf     LeafFunc[P, A]
	combine  func(A, A) A

	mu  sync.Mutex
	err error
}

// fail records the first leaf error and cancels the remaining work.
func (r *reducer[P, A]) fail(err error) {
	r.mu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.mu.Unlock()
	r.cancel()
}

func (r *reducer[P, A]) firstErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// walkList treats parts as the concatenation of their ranges.
func (r *reducer[P, A]) walkList(parts []P) (A, error) {
	if len(parts) == 1 {
		return r.walk(parts[0])
	}
	mid := len(parts) / 2
	return r.fork(
		func() (A, error) { return r.walkList(parts[:mid]) },
		func() (A, error) { return r.walkList(parts[mid:]) },
	)
}

func (r *reducer[P, A]) walk(p P) (A, error) {
	if err := r.ctx.Err(); err != nil {
		var zero A
		return zero, err
	}
	if size := p.EstimateSize(); size > r.minChunk {
		if prefix, ok := p.TrySplit(); ok {
			if glog.V(3) {
				glog.Infof("parallel: split %d into %d + %d", size, prefix.EstimateSize(), p.EstimateSize())
			}
			return r.fork(
				func() (A, error) { return r.walk(prefix) },
				func() (A, error) { return r.walk(p) },
			)
		}
	}
	a, err := r.leaf(r.ctx, p)
	if err != nil {
		r.fail(err)
	}
	return a, err
}

// fork runs left on another goroutine when a slot is free, right on the
// calling goroutine, and combines the two results in order.
func (r *reducer[P, A]) fork(left, right func() (A, error)) (A, error) {
	var zero A
	var (
		l    A
		lerr error
	)
	done := make(chan struct{})
	if r.g.TryGo(func() error {
		defer close(done)
		l, lerr = left()
		return lerr
	}) {
		rv, rerr := right()
		<-done
		if lerr != nil {
			return zero, lerr
		}
		if rerr != nil {
			return zero, rerr
		}
		return r.combine(l, rv), nil
	}

	l, lerr = left()
	if lerr != nil {
		return zero, lerr
	}
	rv, rerr := right()
	if rerr != nil {
		return zero, rerr
	}
	return r.combine(l, rv), nil
}
