package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/coordset/pkg/coordset"
)

func main() {
	ctx := context.Background()

	// A 100 x 100 grid of positions with unit spacing.
	const size = 100
	data := make([]float64, 0, 2*size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			data = append(data, float64(x), float64(y))
		}
	}
	set, err := coordset.NewDoubleSet(coordset.NewCoordinateMetadata(nil), 2, coordset.Wrap(data))
	if err != nil {
		log.Fatal(err)
	}

	idx, err := coordset.BuildIndex(ctx, set, coordset.DefaultIndexOptions())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Indexed %d positions\n", idx.Len())

	// Query a viewport.
	lower, _ := coordset.NewPosition(nil, 10, 20)
	upper, _ := coordset.NewPosition(nil, 12, 21)
	viewport, err := coordset.NewEnvelope(lower, upper)
	if err != nil {
		log.Fatal(err)
	}
	hits, err := idx.Search(viewport)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Positions in %s: %d\n", viewport, len(hits))
	for _, p := range hits {
		fmt.Printf("  %s\n", p)
	}

	// Closest positions to a point of interest.
	poi, _ := coordset.NewPosition(nil, 50.4, 50.6)
	nearest, err := idx.Nearest(poi, 3)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Nearest to %s:\n", poi)
	for _, p := range nearest {
		fmt.Printf("  %s\n", p)
	}
}
