package coordset

import (
	"context"
	"iter"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// GeomSet is a coordinate set over the flat coordinates of a go-geom
// geometry. Every vertex of the geometry is one tuple; ring and part
// boundaries are ignored.
//
// The geometry's coordinate slice is exposed as a single double buffer
// without copying, so writing through a position moves the vertex.
type GeomSet struct {
	md        CoordinateMetadata
	g         geom.T
	dimension int
}

// NewGeomSet creates a set over the vertices of g. The geometry's stride
// becomes the set dimension and must match the metadata's reference system
// when it has one.
//
// Example:
//
//	line := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1, 2, 0})
//	set, err := coordset.NewGeomSet(coordset.NewCoordinateMetadata(wgs84), line)
func NewGeomSet(md CoordinateMetadata, g geom.T) (*GeomSet, error) {
	if md == nil {
		return nil, errors.New("coordset: nil coordinate metadata")
	}
	if g == nil {
		return nil, errors.New("coordset: nil geometry")
	}
	dimension := g.Stride()
	if err := resolveDimension(md, dimension); err != nil {
		return nil, err
	}
	if err := checkTuples(dimension, len(g.FlatCoords()), -1); err != nil {
		return nil, errors.Wrapf(err, "geometry layout %v", g.Layout())
	}
	return &GeomSet{md: md, g: g, dimension: dimension}, nil
}

// CoordinateMetadata returns the metadata the set was created with.
func (s *GeomSet) CoordinateMetadata() CoordinateMetadata { return s.md }

// Dimension returns the stride of the geometry.
func (s *GeomSet) Dimension() int { return s.dimension }

// Geometry returns the wrapped geometry.
func (s *GeomSet) Geometry() geom.T { return s.g }

// Positions walks the vertices as live views over the flat coordinates.
func (s *GeomSet) Positions() iter.Seq[Position] {
	buffers, _ := s.AsDoubleBuffers()
	return bufferPositions(s.md.CRS(), s.dimension, buffers)
}

// AsDoubleBuffers returns one buffer over the geometry's flat coordinates,
// or none when the geometry is empty.
func (s *GeomSet) AsDoubleBuffers() ([]*DoubleBuffer, bool) {
	flat := s.g.FlatCoords()
	if len(flat) == 0 {
		return []*DoubleBuffer{}, true
	}
	return []*DoubleBuffer{Wrap(flat)}, true
}

// layoutFor maps a dimension onto the go-geom layout with that stride.
// Three dimensions are taken as XYZ rather than XYM.
func layoutFor(dimension int) (geom.Layout, error) {
	switch dimension {
	case 2:
		return geom.XY, nil
	case 3:
		return geom.XYZ, nil
	case 4:
		return geom.XYZM, nil
	default:
		return geom.NoLayout, errors.Errorf("coordset: no geometry layout for dimension %d", dimension)
	}
}

// ToMultiPoint collects every position of s, in order, into a go-geom
// MultiPoint. Streams of dimension 2, 3 and 4 map to the XY, XYZ and XYZM
// layouts; any other dimension is an error.
func ToMultiPoint(ctx context.Context, s *Stream) (*geom.MultiPoint, error) {
	layout, err := layoutFor(s.Dimension())
	if err != nil {
		return nil, err
	}
	flat, err := Reduce(ctx, s,
		func() []float64 { return nil },
		func(acc []float64, p Position) []float64 { return append(acc, p.Coordinates()...) },
		func(a, b []float64) []float64 { return append(a, b...) })
	if err != nil {
		return nil, err
	}
	return geom.NewMultiPointFlat(layout, flat), nil
}
