package main

import (
	"context"
	"fmt"
	"log"

	"github.com/pkg/errors"

	"github.com/beetlebugorg/coordset/pkg/coordset"
)

func main() {
	md := coordset.NewCoordinateMetadata(coordset.NewCRS("WGS 84", 2))

	// Five values cannot hold whole 2-D tuples.
	_, err := coordset.NewDoubleSet(md, 2, coordset.Wrap([]float64{1, 2, 3, 4, 5}))
	var dimErr *coordset.MismatchedDimensionError
	if errors.As(err, &dimErr) {
		log.Printf("Expected error: %v", dimErr)
	}

	// Views over read-only buffers refuse writes.
	set, err := coordset.NewDoubleSet(md, 2, coordset.Wrap([]float64{1, 2}).AsReadOnly())
	if err != nil {
		log.Fatal(err)
	}
	for p := range set.Positions() {
		if err := p.SetCoordinate(0, 9); errors.Is(err, coordset.ErrReadOnly) {
			log.Printf("Expected error: %v", err)
		}

		// Axis indices are checked.
		var idxErr *coordset.IndexError
		if _, err := p.Coordinate(2); errors.As(err, &idxErr) {
			log.Printf("Expected error: %v", idxErr)
		}
	}

	// Validate reports positions that disagree with the set.
	other := coordset.NewCRS("NAD 83", 2)
	p, _ := coordset.NewPosition(other, 1, 2)
	mixed, err := coordset.FromPositions(md, p)
	if err == nil {
		err = coordset.Validate(context.Background(), mixed)
	}
	var crsErr *coordset.MismatchedCRSError
	if errors.As(err, &crsErr) {
		log.Printf("Expected error: %v", crsErr)
	}

	fmt.Println("All errors handled")
}
