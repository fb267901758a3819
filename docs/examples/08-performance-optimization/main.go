package main

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/beetlebugorg/coordset/pkg/coordset"
)

const (
	dimension = 3
	tuples    = 2_000_000
	chunks    = 8
)

func buildSet() coordset.CoordinateSet {
	data := make([]float64, tuples*dimension)
	for i := range data {
		data[i] = float64(i % 7919)
	}

	// Window the backing slice into several buffers; each becomes one
	// independently splittable part of the stream.
	buffers := make([]*coordset.DoubleBuffer, 0, chunks)
	for i := 0; i < chunks; i++ {
		lo := i * tuples / chunks
		hi := (i + 1) * tuples / chunks
		b, err := coordset.WrapRange(data, lo*dimension, (hi-lo)*dimension)
		if err != nil {
			log.Fatal(err)
		}
		buffers = append(buffers, b)
	}
	set, err := coordset.NewDoubleSet(coordset.NewCoordinateMetadata(nil), dimension, buffers...)
	if err != nil {
		log.Fatal(err)
	}
	return set
}

func envelope(ctx context.Context, set coordset.CoordinateSet, opts *coordset.StreamOptions) (*coordset.Envelope, time.Duration) {
	stream, err := coordset.StreamOf(set)
	if err != nil {
		log.Fatal(err)
	}
	if opts != nil {
		stream.Parallel(*opts)
	}
	start := time.Now()
	env, err := coordset.ComputeEnvelope(ctx, stream)
	if err != nil {
		log.Fatal(err)
	}
	return env, time.Since(start)
}

func main() {
	ctx := context.Background()
	set := buildSet()

	seqEnv, seqTime := envelope(ctx, set, nil)
	fmt.Printf("Sequential: %s in %v\n", seqEnv, seqTime)

	for _, workers := range []int{2, 4, runtime.NumCPU()} {
		opts := coordset.DefaultStreamOptions()
		opts.Workers = workers
		env, elapsed := envelope(ctx, set, &opts)
		fmt.Printf("Parallel (%d workers): %s in %v\n", workers, env, elapsed)
		if !env.Equal(seqEnv) {
			log.Fatalf("parallel envelope %s differs from sequential %s", env, seqEnv)
		}
	}

	// A custom reduction: the sum of every coordinate.
	stream, err := coordset.StreamOf(set)
	if err != nil {
		log.Fatal(err)
	}
	stream.Parallel(coordset.DefaultStreamOptions())
	sum, err := coordset.Reduce(ctx, stream,
		func() float64 { return 0 },
		func(acc float64, p coordset.Position) float64 {
			for i := 0; i < p.Dimension(); i++ {
				v, _ := p.Coordinate(i)
				acc += v
			}
			return acc
		},
		func(a, b float64) float64 { return a + b },
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Coordinate sum: %.0f\n", sum)
}
