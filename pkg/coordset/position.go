package coordset

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	farm "github.com/dgryski/go-farm"
)

// Position is a single coordinate tuple, optionally tagged with the reference
// system its values are expressed in (ISO 19107 DirectPosition).
//
// Positions produced from packed buffers are views: their values are read
// from, and written to, the shared storage on every call. A position obtained
// earlier reflects later writes to the same region of the buffer.
type Position interface {
	// CRS returns the reference system of this position, or nil if unknown.
	CRS() CoordinateReferenceSystem

	// Dimension returns the number of coordinates.
	Dimension() int

	// Coordinates returns a copy of all coordinate values.
	Coordinates() []float64

	// Coordinate returns the value at index i, or an *IndexError when i is
	// outside [0, Dimension).
	Coordinate(i int) (float64, error)

	// SetCoordinate stores v at index i. It returns an *IndexError for a bad
	// index and ErrReadOnly when the position cannot be modified.
	SetCoordinate(i int, v float64) error

	// String returns the position as POINT(x y ...).
	String() string
}

// Equal reports whether a and b hold the same coordinate values in the same
// reference system. Values are compared by bit pattern, so NaN equals NaN and
// +0 differs from -0. Two nil positions are equal.
func Equal(a, b Position) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	dim := a.Dimension()
	if dim != b.Dimension() || !SameCRS(a.CRS(), b.CRS()) {
		return false
	}
	ca, cb := a.Coordinates(), b.Coordinates()
	for i := 0; i < dim; i++ {
		if canonicalBits(ca[i]) != canonicalBits(cb[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash code consistent with Equal: equal positions have equal
// hashes.
func Hash(p Position) uint64 {
	if p == nil {
		return 0
	}
	coords := p.Coordinates()
	buf := make([]byte, 0, 8*len(coords)+16)
	for _, v := range coords {
		buf = binary.LittleEndian.AppendUint64(buf, canonicalBits(v))
	}
	if crs := p.CRS(); crs != nil {
		buf = append(buf, crs.Name()...)
	}
	return farm.Fingerprint64(buf)
}

// canonicalBits collapses every NaN payload onto a single value.
func canonicalBits(v float64) uint64 {
	if v != v {
		return 0x7ff8000000000000
	}
	return math.Float64bits(v)
}

// formatPoint renders POINT(c0 c1 ...) using the shortest representation
// for the given bit size.
func formatPoint(coords []float64, bitSize int) string {
	var sb strings.Builder
	sb.WriteString("POINT(")
	for i, v := range coords {
		if i != 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, bitSize))
	}
	sb.WriteByte(')')
	return sb.String()
}

// SimplePosition is a position that owns its coordinate values.
type SimplePosition struct {
	coords []float64
	crs    CoordinateReferenceSystem
}

// NewPosition creates a position holding a copy of coords. When crs is not nil
// its coordinate system must have len(coords) axes.
//
// Example:
//
//	p, err := coordset.NewPosition(wgs84, -71.05, 42.36)
func NewPosition(crs CoordinateReferenceSystem, coords ...float64) (*SimplePosition, error) {
	if crs != nil {
		if cs := crs.CoordinateSystem(); cs != nil && cs.Dimension() != len(coords) {
			return nil, &MismatchedDimensionError{Expected: cs.Dimension(), Actual: len(coords), Index: -1}
		}
	}
	c := make([]float64, len(coords))
	copy(c, coords)
	return &SimplePosition{coords: c, crs: crs}, nil
}

// CopyPosition returns a snapshot of p that no longer tracks its storage.
func CopyPosition(p Position) *SimplePosition {
	return &SimplePosition{coords: p.Coordinates(), crs: p.CRS()}
}

func (p *SimplePosition) CRS() CoordinateReferenceSystem { return p.crs }

func (p *SimplePosition) Dimension() int { return len(p.coords) }

func (p *SimplePosition) Coordinates() []float64 {
	c := make([]float64, len(p.coords))
	copy(c, p.coords)
	return c
}

func (p *SimplePosition) Coordinate(i int) (float64, error) {
	if i < 0 || i >= len(p.coords) {
		return 0, indexError(i, len(p.coords))
	}
	return p.coords[i], nil
}

func (p *SimplePosition) SetCoordinate(i int, v float64) error {
	if i < 0 || i >= len(p.coords) {
		return indexError(i, len(p.coords))
	}
	p.coords[i] = v
	return nil
}

func (p *SimplePosition) String() string {
	return formatPoint(p.coords, 64)
}
