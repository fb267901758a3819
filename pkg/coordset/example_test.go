package coordset_test

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/coordset/pkg/coordset"
)

func ExampleStreamOf() {
	wgs84 := coordset.NewCRS("WGS 84", 2)
	set, err := coordset.NewDoubleSet(coordset.NewCoordinateMetadata(wgs84), 2,
		coordset.Wrap([]float64{-71.05, 42.36, -70.99, 42.31}),
		coordset.Wrap([]float64{-70.93, 42.27}))
	if err != nil {
		log.Fatal(err)
	}

	stream, err := coordset.StreamOf(set)
	if err != nil {
		log.Fatal(err)
	}
	positions, err := stream.Parallel(coordset.DefaultStreamOptions()).Collect(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range positions {
		fmt.Println(p)
	}
	// Output:
	// POINT(-71.05 42.36)
	// POINT(-70.99 42.31)
	// POINT(-70.93 42.27)
}

func ExampleComputeEnvelope() {
	set, err := coordset.NewFloatSet(coordset.NewCoordinateMetadata(nil), 3,
		coordset.Wrap([]float32{1, 2, 3, -4, 5, 0.5}))
	if err != nil {
		log.Fatal(err)
	}
	stream, err := coordset.StreamOf(set)
	if err != nil {
		log.Fatal(err)
	}
	env, err := coordset.ComputeEnvelope(context.Background(), stream)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(env)
	// Output: BOX3D(-4 2 0.5, 1 5 3)
}
