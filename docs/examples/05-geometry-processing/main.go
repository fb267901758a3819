package main

import (
	"context"
	"fmt"
	"log"

	"github.com/twpayne/go-geom"

	"github.com/beetlebugorg/coordset/pkg/coordset"
)

func main() {
	ctx := context.Background()

	// Wrap a go-geom line string without copying its coordinates.
	line := geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{
		{-71.06, 42.36},
		{-71.03, 42.35},
		{-70.99, 42.33},
	})
	set, err := coordset.NewGeomSet(coordset.NewCoordinateMetadata(nil), line)
	if err != nil {
		log.Fatal(err)
	}

	// Shift every vertex east through the position views.
	for p := range set.Positions() {
		x, err := p.Coordinate(0)
		if err != nil {
			log.Fatal(err)
		}
		if err := p.SetCoordinate(0, x+0.01); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Printf("Shifted line: %v\n", line.Coords())

	// Collect a stream back into a go-geom multipoint.
	stream, err := coordset.StreamOf(set)
	if err != nil {
		log.Fatal(err)
	}
	mp, err := coordset.ToMultiPoint(ctx, stream)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("MultiPoint: %d points, bounds %v\n", mp.NumPoints(), mp.Bounds())
}
