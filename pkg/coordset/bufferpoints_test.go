package coordset

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainAll returns the coordinates of every remaining position of sp.
func drainAll(sp Spliterator) [][]float64 {
	var out [][]float64
	sp.ForEachRemaining(func(p Position) bool {
		out = append(out, p.Coordinates())
		return true
	})
	return out
}

// sequence returns n tuples of the given dimension holding 1000 + 10*t + d.
func sequence(n, dimension int) []float64 {
	data := make([]float64, 0, n*dimension)
	for t := 0; t < n; t++ {
		for d := 0; d < dimension; d++ {
			data = append(data, float64(1000+10*t+d))
		}
	}
	return data
}

func tuples(data []float64, dimension int) [][]float64 {
	var out [][]float64
	for i := 0; i+dimension <= len(data); i += dimension {
		out = append(out, append([]float64(nil), data[i:i+dimension]...))
	}
	return out
}

func TestBufferPointsForEachRemaining(t *testing.T) {
	sp, err := NewDoubleSpliterator(nil, 2, Wrap([]float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, err)

	assert.Equal(t, 3, sp.EstimateSize())
	want := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	if diff := cmp.Diff(want, drainAll(sp)); diff != "" {
		t.Errorf("ForEachRemaining mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, sp.EstimateSize())
	assert.Empty(t, drainAll(sp), "a drained adapter yields nothing")
}

func TestBufferPointsTrySplit(t *testing.T) {
	sp, err := NewDoubleSpliterator(nil, 2, Wrap([]float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, err)

	prefix, ok := sp.TrySplit()
	require.True(t, ok)
	assert.Equal(t, 1, prefix.EstimateSize())
	assert.Equal(t, 2, sp.EstimateSize())

	_, ok = prefix.TrySplit()
	assert.False(t, ok, "a single tuple cannot be split")

	assert.Equal(t, [][]float64{{1, 2}}, drainAll(prefix))
	assert.Equal(t, [][]float64{{3, 4}, {5, 6}}, drainAll(sp))
}

func TestBufferPointsSplitLaw(t *testing.T) {
	for dimension := 1; dimension <= 4; dimension++ {
		for n := 0; n <= 40; n++ {
			t.Run(fmt.Sprintf("dim%d_n%d", dimension, n), func(t *testing.T) {
				data := sequence(n, dimension)
				sp, err := NewDoubleSpliterator(nil, dimension, Wrap(data))
				require.NoError(t, err)

				got := splitAndDrain(t, sp, 0)
				if diff := cmp.Diff(tuples(data, dimension), got); diff != "" {
					t.Errorf("split traversal mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

// splitAndDrain splits sp recursively until every branch refuses, checking
// sizes on the way, and concatenates the branches prefix first.
func splitAndDrain(t *testing.T, sp Spliterator, depth int) [][]float64 {
	t.Helper()
	require.Less(t, depth, 64, "splitting did not terminate")

	size := sp.EstimateSize()
	prefix, ok := sp.TrySplit()
	if !ok {
		assert.LessOrEqual(t, size, 1)
		return drainAll(sp)
	}
	require.Equal(t, size, prefix.EstimateSize()+sp.EstimateSize())
	assert.Equal(t, size/2, prefix.EstimateSize())

	out := splitAndDrain(t, prefix, depth+1)
	return append(out, splitAndDrain(t, sp, depth+1)...)
}

func TestBufferPointsTryAdvance(t *testing.T) {
	sp, err := NewDoubleSpliterator(nil, 3, Wrap(sequence(2, 3)))
	require.NoError(t, err)

	var got [][]float64
	for sp.TryAdvance(func(p Position) { got = append(got, p.Coordinates()) }) {
	}
	assert.Equal(t, [][]float64{{1000, 1001, 1002}, {1010, 1011, 1012}}, got)
	assert.False(t, sp.TryAdvance(func(Position) { t.Fatal("action called on empty adapter") }))
}

func TestBufferPointsEarlyStop(t *testing.T) {
	sp, err := NewDoubleSpliterator(nil, 2, Wrap(sequence(5, 2)))
	require.NoError(t, err)

	visited := 0
	sp.ForEachRemaining(func(Position) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
	assert.Equal(t, 3, sp.EstimateSize(), "the cursor sits past the last visited tuple")
	assert.Equal(t, [][]float64{{1020, 1021}, {1030, 1031}, {1040, 1041}}, drainAll(sp))
}

func TestBufferPointsCharacteristics(t *testing.T) {
	base := Ordered | Sized | Subsized | NonNull

	tests := []struct {
		name string
		buf  *DoubleBuffer
		want Characteristics
	}{
		{"writable", Wrap([]float64{1, 2}), base},
		{"read-only", Wrap([]float64{1, 2}).AsReadOnly(), base | Immutable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := NewDoubleSpliterator(nil, 2, tt.buf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sp.Characteristics())

			// Splits inherit the flags.
			sp2, err := NewDoubleSpliterator(nil, 1, tt.buf.Duplicate())
			require.NoError(t, err)
			prefix, ok := sp2.TrySplit()
			require.True(t, ok)
			assert.Equal(t, tt.want, prefix.Characteristics())
		})
	}
}

func TestCharacteristicsString(t *testing.T) {
	assert.Equal(t, "NONE", Characteristics(0).String())
	assert.Equal(t, "ORDERED|SIZED", (Ordered | Sized).String())
	assert.True(t, (Ordered | Immutable).Has(Immutable))
	assert.False(t, Ordered.Has(Ordered|Sized))
}

func TestBufferPointsMisaligned(t *testing.T) {
	_, err := NewDoubleSpliterator(nil, 2, Wrap([]float64{1, 2, 3}))
	var dimErr *MismatchedDimensionError
	require.True(t, errors.As(err, &dimErr), "got %v", err)
	assert.Equal(t, 2, dimErr.Expected)

	_, err = NewFloatSpliterator(nil, 0, Wrap([]float32{}))
	assert.Error(t, err)
}

func TestBufferPointsNilBuffer(t *testing.T) {
	sp, err := NewDoubleSpliterator(nil, 2, nil)
	assert.Nil(t, sp)
	assert.ErrorContains(t, err, "nil buffer")

	sp, err = NewFloatSpliterator(nil, 2, nil)
	assert.Nil(t, sp)
	assert.ErrorContains(t, err, "nil buffer")
}

func TestFloatPositionWidening(t *testing.T) {
	sp, err := NewFloatSpliterator(nil, 3, Wrap([]float32{1.5, -2.25, 0}))
	require.NoError(t, err)

	got := drainAll(sp)
	assert.Equal(t, [][]float64{{1.5, -2.25, 0}}, got)
}

func TestPositionViewErrors(t *testing.T) {
	data := []float64{1, 2, 3}
	sp, err := NewDoubleSpliterator(nil, 3, Wrap(data).AsReadOnly())
	require.NoError(t, err)

	require.True(t, sp.TryAdvance(func(p Position) {
		_, err := p.Coordinate(3)
		var idxErr *IndexError
		require.True(t, errors.As(err, &idxErr), "got %v", err)
		assert.Equal(t, 3, idxErr.Index)
		assert.Equal(t, 3, idxErr.Dimension)

		_, err = p.Coordinate(-1)
		assert.Error(t, err)

		err = p.SetCoordinate(0, 9)
		assert.True(t, errors.Is(err, ErrReadOnly), "got %v", err)
		assert.Equal(t, 1.0, data[0])

		// A bad index is reported before the read-only check.
		assert.True(t, errors.As(p.SetCoordinate(5, 9), &idxErr))
	}))
}

func TestPositionViewRoundTrip(t *testing.T) {
	t.Run("double", func(t *testing.T) {
		data := []float64{1, 2}
		sp, err := NewDoubleSpliterator(nil, 2, Wrap(data))
		require.NoError(t, err)
		sp.TryAdvance(func(p Position) {
			require.NoError(t, p.SetCoordinate(1, 0.1))
			v, err := p.Coordinate(1)
			require.NoError(t, err)
			assert.Equal(t, 0.1, v)
		})
		assert.Equal(t, 0.1, data[1])
	})

	t.Run("float narrows", func(t *testing.T) {
		data := []float32{1, 2}
		sp, err := NewFloatSpliterator(nil, 2, Wrap(data))
		require.NoError(t, err)
		sp.TryAdvance(func(p Position) {
			require.NoError(t, p.SetCoordinate(0, 0.1))
			v, err := p.Coordinate(0)
			require.NoError(t, err)
			assert.Equal(t, float64(float32(0.1)), v)
			assert.Equal(t, "POINT(0.1 2)", p.String())
		})
		assert.Equal(t, float32(0.1), data[0])
	})
}

type meters float32

type degrees float64

func TestPositionViewFormatsStoragePrecision(t *testing.T) {
	assert.Equal(t, 32, bitSize[float32]())
	assert.Equal(t, 64, bitSize[float64]())
	assert.Equal(t, 32, bitSize[meters]())
	assert.Equal(t, 64, bitSize[degrees]())

	sp, err := newBufferPoints(nil, 2, Wrap([]meters{0.1, 2}), -1)
	require.NoError(t, err)
	sp.TryAdvance(func(p Position) {
		assert.Equal(t, "POINT(0.1 2)", p.String())
	})

	sp, err = newBufferPoints(nil, 1, Wrap([]degrees{0.1}), -1)
	require.NoError(t, err)
	sp.TryAdvance(func(p Position) {
		assert.Equal(t, "POINT(0.1)", p.String())
	})
}

func TestPositionViewIsLive(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	sp, err := NewDoubleSpliterator(nil, 2, Wrap(data))
	require.NoError(t, err)

	var first Position
	sp.TryAdvance(func(p Position) { first = p })
	data[0] = 42

	v, err := first.Coordinate(0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
	v2, _ := first.Coordinate(0)
	assert.Equal(t, v, v2, "reads are idempotent")
}

func TestConcurrentSplitHalves(t *testing.T) {
	const n, dimension = 10000, 3
	data := sequence(n, dimension)
	sp, err := NewDoubleSpliterator(nil, dimension, Wrap(data).AsReadOnly())
	require.NoError(t, err)

	prefix, ok := sp.TrySplit()
	require.True(t, ok)

	var wg sync.WaitGroup
	results := make([][][]float64, 2)
	for i, part := range []Spliterator{prefix, sp} {
		wg.Add(1)
		go func(i int, part Spliterator) {
			defer wg.Done()
			results[i] = drainAll(part)
		}(i, part)
	}
	wg.Wait()

	assert.Len(t, results[0], n/2)
	assert.Len(t, results[1], n-n/2)
	if diff := cmp.Diff(tuples(data, dimension), append(results[0], results[1]...)); diff != "" {
		t.Errorf("halves do not partition the buffer (-want +got):\n%s", diff)
	}
}

func BenchmarkBufferPointsForEach(b *testing.B) {
	data := sequence(100000, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sp, _ := NewDoubleSpliterator(nil, 2, Wrap(data))
		var sum float64
		sp.ForEachRemaining(func(p Position) bool {
			v, _ := p.Coordinate(0)
			sum += v
			return true
		})
	}
}
