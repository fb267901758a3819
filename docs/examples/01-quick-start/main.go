package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/coordset/pkg/coordset"
)

func main() {
	ctx := context.Background()

	// Three 2-D positions packed as x0 y0 x1 y1 x2 y2.
	wgs84 := coordset.NewCRS("WGS 84", 2)
	md := coordset.NewCoordinateMetadata(wgs84)
	set, err := coordset.NewDoubleSet(md, 2, coordset.Wrap([]float64{
		-71.05, 42.36,
		-70.93, 42.27,
		-71.10, 42.40,
	}))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Dimension: %d\n", set.Dimension())
	for p := range set.Positions() {
		fmt.Printf("  %s\n", p)
	}

	stream, err := coordset.StreamOf(set)
	if err != nil {
		log.Fatal(err)
	}
	env, err := coordset.ComputeEnvelope(ctx, stream)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Envelope: %s\n", env)
}
