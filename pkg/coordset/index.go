package coordset

import (
	"context"
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// IndexOptions controls how a spatial index is built.
type IndexOptions struct {
	// MinChildren and MaxChildren bound the fan-out of R-tree nodes.
	MinChildren int
	MaxChildren int

	// Epsilon is the half-width of the box each position occupies in the
	// tree, and the minimum extent of a query box. The R-tree cannot store
	// zero-sized rectangles.
	Epsilon float64

	// Parallel enables parallel collection of the positions.
	Parallel bool

	// Workers specifies the number of collecting goroutines.
	// If 0, defaults to runtime.NumCPU(). Only used when Parallel is true.
	Workers int
}

// DefaultIndexOptions returns index options with sensible defaults.
func DefaultIndexOptions() IndexOptions {
	stream := DefaultStreamOptions()
	return IndexOptions{
		MinChildren: 25,
		MaxChildren: 50,
		Epsilon:     1e-9,
		Parallel:    true,
		Workers:     stream.Workers,
	}
}

// Index answers box and nearest-neighbour queries over a snapshot of a
// coordinate set.
//
// Positions are copied when the index is built, so later writes to the set's
// buffers are not reflected. Queries are O(log N) with the R-tree.
//
// Example:
//
//	idx, err := coordset.BuildIndex(ctx, set, coordset.DefaultIndexOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	hits, err := idx.Search(bay)
//	fmt.Printf("%d positions in the bay\n", len(hits))
type Index struct {
	entries   []*indexEntry
	rtree     *rtreego.Rtree
	treeSize  int
	dimension int
	epsilon   float64
}

type indexEntry struct {
	seq      int
	position *SimplePosition
	epsilon  float64
}

// Bounds implements rtreego.Spatial.
func (e *indexEntry) Bounds() rtreego.Rect {
	return rtreego.Point(e.position.coords).ToRect(e.epsilon)
}

// BuildIndex snapshots every position of set and bulk-loads them into an
// R-tree. Empty sets produce an empty index.
func BuildIndex(ctx context.Context, set CoordinateSet, opts IndexOptions) (*Index, error) {
	if opts.MinChildren <= 0 || opts.MaxChildren < opts.MinChildren {
		return nil, errors.Errorf("coordset: invalid R-tree fan-out [%d, %d]", opts.MinChildren, opts.MaxChildren)
	}
	if opts.Epsilon <= 0 {
		return nil, errors.Errorf("coordset: index epsilon must be positive, got %v", opts.Epsilon)
	}

	stream, err := StreamOf(set)
	if err != nil {
		return nil, errors.Wrap(err, "build index")
	}
	if opts.Parallel {
		so := DefaultStreamOptions()
		if opts.Workers > 0 {
			so.Workers = opts.Workers
		}
		stream.Parallel(so)
	}

	positions, err := Reduce(ctx, stream,
		func() []*SimplePosition { return nil },
		func(acc []*SimplePosition, p Position) []*SimplePosition { return append(acc, CopyPosition(p)) },
		func(a, b []*SimplePosition) []*SimplePosition { return append(a, b...) })
	if err != nil {
		return nil, errors.Wrap(err, "build index")
	}

	dimension := stream.Dimension()
	entries := make([]*indexEntry, len(positions))
	objs := make([]rtreego.Spatial, 0, len(positions))
	for i, p := range positions {
		entries[i] = &indexEntry{seq: i, position: p, epsilon: opts.Epsilon}
		// NaN bounds would corrupt node boxes, and no envelope contains them.
		if !hasNaN(p.coords) {
			objs = append(objs, entries[i])
		}
	}

	idx := &Index{
		entries:   entries,
		dimension: dimension,
		epsilon:   opts.Epsilon,
		treeSize:  len(objs),
	}
	if len(objs) > 0 {
		idx.rtree = rtreego.NewTree(dimension, opts.MinChildren, opts.MaxChildren, objs...)
	}
	if glog.V(2) {
		glog.Infof("coordset: indexed %d %d-D positions", len(entries), dimension)
	}
	return idx, nil
}

func hasNaN(coords []float64) bool {
	return slices.ContainsFunc(coords, math.IsNaN)
}

// Len returns the number of positions in the snapshot, including those with
// NaN coordinates that no query can return.
func (idx *Index) Len() int { return len(idx.entries) }

// Dimension returns the number of coordinates of every indexed position.
func (idx *Index) Dimension() int { return idx.dimension }

// Search returns the indexed positions inside env, borders included, in the
// order they had in the set.
func (idx *Index) Search(env *Envelope) ([]Position, error) {
	if env == nil {
		return nil, errors.New("coordset: nil search envelope")
	}
	if env.Dimension() != idx.dimension {
		return nil, &MismatchedDimensionError{Expected: idx.dimension, Actual: env.Dimension(), Index: -1}
	}
	if idx.treeSize == 0 {
		return nil, nil
	}

	lengths := make([]float64, idx.dimension)
	for i := range lengths {
		lengths[i] = max(env.upper[i]-env.lower[i], idx.epsilon)
	}
	rect, err := rtreego.NewRect(rtreego.Point(env.lower), lengths)
	if err != nil {
		return nil, errors.Wrap(err, "coordset: search box")
	}

	var hits []*indexEntry
	for _, s := range idx.rtree.SearchIntersect(rect) {
		e := s.(*indexEntry)
		if env.Contains(e.position) {
			hits = append(hits, e)
		}
	}
	slices.SortFunc(hits, func(a, b *indexEntry) int { return a.seq - b.seq })

	result := make([]Position, len(hits))
	for i, e := range hits {
		result[i] = CopyPosition(e.position)
	}
	return result, nil
}

// Nearest returns up to k indexed positions closest to p, nearest first.
// Positions with NaN coordinates are never returned.
func (idx *Index) Nearest(p Position, k int) ([]Position, error) {
	if p == nil {
		return nil, errors.New("coordset: nil query position")
	}
	if p.Dimension() != idx.dimension {
		return nil, &MismatchedDimensionError{Expected: idx.dimension, Actual: p.Dimension(), Index: -1}
	}
	if k <= 0 || idx.treeSize == 0 {
		return nil, nil
	}
	k = min(k, idx.treeSize)

	var result []Position
	for _, s := range idx.rtree.NearestNeighbors(k, rtreego.Point(p.Coordinates())) {
		// NearestNeighbors pads with nil when the tree holds fewer than k objects.
		if s == nil {
			continue
		}
		result = append(result, CopyPosition(s.(*indexEntry).position))
	}
	return result, nil
}
