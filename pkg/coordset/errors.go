package coordset

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrReadOnly is returned when a coordinate is written through a position or
// buffer whose backing storage is read-only.
var ErrReadOnly = errors.New("coordset: unsupported operation on read-only buffer")

// ErrInvalidBuffer is returned when a buffer cursor is moved outside its storage.
var ErrInvalidBuffer = errors.New("coordset: invalid buffer position or limit")

// IndexError indicates a coordinate index outside [0, Dimension).
type IndexError struct {
	Index     int
	Dimension int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("coordinate index %d out of bounds for dimension %d", e.Index, e.Dimension)
}

// MismatchedDimensionError indicates a tuple, buffer or position whose number
// of coordinates disagrees with the dimension of its coordinate set.
type MismatchedDimensionError struct {
	Expected int
	Actual   int
	// Index of the offending tuple or buffer, or -1 when not applicable.
	Index int
}

func (e *MismatchedDimensionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("mismatched dimension at %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
	}
	return fmt.Sprintf("mismatched dimension: expected %d, got %d", e.Expected, e.Actual)
}

// MismatchedCRSError indicates a position tagged with a coordinate reference
// system other than the one of its coordinate set.
type MismatchedCRSError struct {
	Expected CoordinateReferenceSystem
	Actual   CoordinateReferenceSystem
	Index    int
}

func (e *MismatchedCRSError) Error() string {
	return fmt.Sprintf("mismatched reference system at %d: expected %s, got %s",
		e.Index, crsName(e.Expected), crsName(e.Actual))
}

func crsName(crs CoordinateReferenceSystem) string {
	if crs == nil {
		return "<none>"
	}
	return crs.Name()
}

func indexError(i, dimension int) error {
	return &IndexError{Index: i, Dimension: dimension}
}
