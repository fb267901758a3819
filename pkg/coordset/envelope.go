package coordset

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Envelope is an axis-aligned bounding box in any number of dimensions,
// optionally tagged with a reference system.
//
// Envelopes are immutable; Union and Expand return new values.
type Envelope struct {
	lower []float64
	upper []float64
	crs   CoordinateReferenceSystem
}

// NewEnvelope creates an envelope from its corners. Both corners must have
// the same dimension and reference system, and no lower coordinate may be
// greater than the matching upper one. NaN corner coordinates are rejected.
//
// Example:
//
//	lower, _ := coordset.NewPosition(nil, -122.5, 37.5)
//	upper, _ := coordset.NewPosition(nil, -122.0, 38.0)
//	bay, err := coordset.NewEnvelope(lower, upper)
func NewEnvelope(lower, upper Position) (*Envelope, error) {
	if lower == nil || upper == nil {
		return nil, errors.New("coordset: nil envelope corner")
	}
	crs := lower.CRS()
	if !SameCRS(crs, upper.CRS()) {
		return nil, &MismatchedCRSError{Expected: crs, Actual: upper.CRS(), Index: -1}
	}
	if lower.Dimension() != upper.Dimension() {
		return nil, &MismatchedDimensionError{Expected: lower.Dimension(), Actual: upper.Dimension(), Index: -1}
	}
	lo, hi := lower.Coordinates(), upper.Coordinates()
	for i := range lo {
		if math.IsNaN(lo[i]) || math.IsNaN(hi[i]) {
			return nil, errors.Errorf("coordset: NaN envelope corner at dimension %d", i)
		}
		if lo[i] > hi[i] {
			return nil, errors.Errorf("coordset: lower corner coordinate %v at dimension %d is greater than upper corner coordinate %v",
				lo[i], i, hi[i])
		}
	}
	return &Envelope{lower: lo, upper: hi, crs: crs}, nil
}

// CRS returns the reference system of the corners, or nil.
func (e *Envelope) CRS() CoordinateReferenceSystem { return e.crs }

// Dimension returns the number of axes.
func (e *Envelope) Dimension() int { return len(e.lower) }

// LowerCorner returns a copy of the corner holding every minimum.
func (e *Envelope) LowerCorner() *SimplePosition {
	return &SimplePosition{coords: append([]float64(nil), e.lower...), crs: e.crs}
}

// UpperCorner returns a copy of the corner holding every maximum.
func (e *Envelope) UpperCorner() *SimplePosition {
	return &SimplePosition{coords: append([]float64(nil), e.upper...), crs: e.crs}
}

func (e *Envelope) checkIndex(i int) error {
	if i < 0 || i >= len(e.lower) {
		return indexError(i, len(e.lower))
	}
	return nil
}

// Minimum returns the lower bound along axis i.
func (e *Envelope) Minimum(i int) (float64, error) {
	if err := e.checkIndex(i); err != nil {
		return 0, err
	}
	return e.lower[i], nil
}

// Maximum returns the upper bound along axis i.
func (e *Envelope) Maximum(i int) (float64, error) {
	if err := e.checkIndex(i); err != nil {
		return 0, err
	}
	return e.upper[i], nil
}

// Median returns the midpoint along axis i.
func (e *Envelope) Median(i int) (float64, error) {
	if err := e.checkIndex(i); err != nil {
		return 0, err
	}
	return 0.5 * (e.lower[i] + e.upper[i]), nil
}

// Span returns the extent along axis i.
func (e *Envelope) Span(i int) (float64, error) {
	if err := e.checkIndex(i); err != nil {
		return 0, err
	}
	return e.upper[i] - e.lower[i], nil
}

// Contains reports whether p lies inside the envelope, borders included.
// Positions of another dimension, and NaN coordinates, are never contained.
func (e *Envelope) Contains(p Position) bool {
	if p == nil || p.Dimension() != len(e.lower) {
		return false
	}
	for i, v := range p.Coordinates() {
		if !(v >= e.lower[i] && v <= e.upper[i]) {
			return false
		}
	}
	return true
}

// Intersects reports whether the two envelopes share at least one point.
// An axis with NaN bounds intersects nothing.
func (e *Envelope) Intersects(other *Envelope) bool {
	if other == nil || len(other.lower) != len(e.lower) {
		return false
	}
	for i := range e.lower {
		if !(other.upper[i] >= e.lower[i] && other.lower[i] <= e.upper[i]) {
			return false
		}
	}
	return true
}

// Union returns the smallest envelope containing both envelopes.
func (e *Envelope) Union(other *Envelope) (*Envelope, error) {
	if other == nil {
		return nil, errors.New("coordset: nil envelope")
	}
	if len(other.lower) != len(e.lower) {
		return nil, &MismatchedDimensionError{Expected: len(e.lower), Actual: len(other.lower), Index: -1}
	}
	if !SameCRS(e.crs, other.crs) {
		return nil, &MismatchedCRSError{Expected: e.crs, Actual: other.crs, Index: -1}
	}
	u := &Envelope{
		lower: make([]float64, len(e.lower)),
		upper: make([]float64, len(e.upper)),
		crs:   e.crs,
	}
	for i := range e.lower {
		u.lower[i] = math.Min(e.lower[i], other.lower[i])
		u.upper[i] = math.Max(e.upper[i], other.upper[i])
	}
	return u, nil
}

// Expand returns a new envelope grown by margin on every side of every axis.
// A negative margin shrinks the envelope, collapsing axes that would invert
// onto their median.
func (e *Envelope) Expand(margin float64) *Envelope {
	x := &Envelope{
		lower: make([]float64, len(e.lower)),
		upper: make([]float64, len(e.upper)),
		crs:   e.crs,
	}
	for i := range e.lower {
		lo, hi := e.lower[i]-margin, e.upper[i]+margin
		if lo > hi {
			lo = 0.5 * (e.lower[i] + e.upper[i])
			hi = lo
		}
		x.lower[i], x.upper[i] = lo, hi
	}
	return x
}

// Equal reports whether both envelopes have the same corners, compared as
// Equal compares positions, and the same reference system.
func (e *Envelope) Equal(other *Envelope) bool {
	if e == nil || other == nil {
		return e == other
	}
	return Equal(e.LowerCorner(), other.LowerCorner()) && Equal(e.UpperCorner(), other.UpperCorner())
}

// String returns the envelope as BOXnD(min0 min1, max0 max1).
func (e *Envelope) String() string {
	var sb strings.Builder
	sb.WriteString("BOX")
	sb.WriteString(strconv.Itoa(len(e.lower)))
	sb.WriteString("D(")
	for i, v := range e.lower {
		if i != 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte(',')
	for _, v := range e.upper {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte(')')
	return sb.String()
}

// extent accumulates coordinate bounds during a reduction. A nil extent has
// seen no position.
type extent struct {
	lower []float64
	upper []float64
}

func (x *extent) add(p Position) *extent {
	if x == nil {
		dim := p.Dimension()
		x = &extent{lower: make([]float64, dim), upper: make([]float64, dim)}
		for i := range x.lower {
			x.lower[i], x.upper[i] = math.Inf(1), math.Inf(-1)
		}
	}
	for i := range x.lower {
		v, _ := p.Coordinate(i)
		if v < x.lower[i] {
			x.lower[i] = v
		}
		if v > x.upper[i] {
			x.upper[i] = v
		}
	}
	return x
}

func (x *extent) merge(other *extent) *extent {
	if x == nil {
		return other
	}
	if other == nil {
		return x
	}
	for i := range x.lower {
		x.lower[i] = math.Min(x.lower[i], other.lower[i])
		x.upper[i] = math.Max(x.upper[i], other.upper[i])
	}
	return x
}

// ComputeEnvelope returns the smallest envelope containing every position of
// s, tagged with the stream's reference system, or nil when the stream is
// empty. NaN coordinates are ignored; an axis holding only NaN values is
// reported as NaN, and the resulting envelope contains no position.
func ComputeEnvelope(ctx context.Context, s *Stream) (*Envelope, error) {
	x, err := Reduce(ctx, s,
		func() *extent { return nil },
		(*extent).add,
		(*extent).merge)
	if err != nil {
		return nil, err
	}
	if x == nil {
		return nil, nil
	}
	for i := range x.lower {
		if x.lower[i] > x.upper[i] {
			x.lower[i], x.upper[i] = math.NaN(), math.NaN()
		}
	}
	return &Envelope{lower: x.lower, upper: x.upper, crs: s.crs}, nil
}
