package coordset

import (
	"context"

	"github.com/pkg/errors"
)

// Validate checks that set honours the coordinate set contract:
//
//   - the metadata is present and its declared dimension matches Dimension
//   - every exposed buffer holds a whole number of tuples
//   - every position has Dimension coordinates and either no reference
//     system or the set's one
//   - the buffer paths and the iterator agree on the number of tuples
//
// Violations are reported as *MismatchedDimensionError or
// *MismatchedCRSError carrying the offending buffer or position index.
func Validate(ctx context.Context, set CoordinateSet) error {
	if set == nil {
		return errors.New("coordset: nil coordinate set")
	}
	md := set.CoordinateMetadata()
	if md == nil {
		return errors.New("coordset: set has nil coordinate metadata")
	}
	dimension := set.Dimension()
	if err := resolveDimension(md, dimension); err != nil {
		return err
	}
	if err := checkTuples(dimension, 0, -1); err != nil {
		return err
	}

	tuples := -1
	if buffers, ok := doubleBuffers(set); ok {
		n, err := countTuples(dimension, buffers)
		if err != nil {
			return errors.Wrap(err, "double buffers")
		}
		tuples = n
	}
	if buffers, ok := floatBuffers(set); ok {
		n, err := countTuples(dimension, buffers)
		if err != nil {
			return errors.Wrap(err, "float buffers")
		}
		if tuples >= 0 && n != tuples {
			return errors.Errorf("coordset: double buffers hold %d tuples but float buffers hold %d", tuples, n)
		}
		tuples = n
	}

	crs := md.CRS()
	i := 0
	for p := range set.Positions() {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if p == nil {
			return errors.Errorf("coordset: position %d is nil", i)
		}
		if p.Dimension() != dimension {
			return &MismatchedDimensionError{Expected: dimension, Actual: p.Dimension(), Index: i}
		}
		if pc := p.CRS(); pc != nil && !SameCRS(crs, pc) {
			return &MismatchedCRSError{Expected: crs, Actual: pc, Index: i}
		}
		i++
	}
	if tuples >= 0 && i != tuples {
		return errors.Errorf("coordset: buffers hold %d tuples but the iterator produced %d", tuples, i)
	}
	return nil
}

func countTuples[T Scalar](dimension int, buffers []*Buffer[T]) (int, error) {
	n := 0
	for i, b := range buffers {
		if b == nil {
			return 0, errors.Errorf("coordset: buffer %d is nil", i)
		}
		if err := checkTuples(dimension, b.Remaining(), i); err != nil {
			return 0, err
		}
		n += b.Remaining() / dimension
	}
	return n, nil
}
