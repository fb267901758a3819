// Package coordset provides collections of coordinate tuples that can be
// traversed sequentially or in parallel without copying.
//
// A CoordinateSet holds tuples of a fixed dimension referenced to a single
// coordinate reference system. Producers that keep their coordinates in packed
// float64 or float32 slices expose them as buffers, and a Stream then splits
// those buffers into disjoint ranges that several goroutines read at once.
// Producers without packed storage only offer an iterator and are traversed
// sequentially.
//
// # Basic Usage
//
//	wgs84 := coordset.NewCRS("WGS 84", 2)
//	set, err := coordset.NewDoubleSet(coordset.NewCoordinateMetadata(wgs84), 2,
//	    coordset.Wrap([]float64{-71.05, 42.36, -70.99, 42.31, -70.93, 42.27}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for p := range set.Positions() {
//	    fmt.Println(p) // POINT(-71.05 42.36) ...
//	}
//
// # Parallel Streams
//
// StreamOf chooses a storage path once: double buffers, then float buffers,
// then the iterator. Parallel streams bisect each buffer until the ranges are
// small enough, and ordered operations such as Collect, Reduce and
// ComputeEnvelope combine the partial results in encounter order:
//
//	stream, err := coordset.StreamOf(set)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	env, err := coordset.ComputeEnvelope(ctx, stream.Parallel(coordset.DefaultStreamOptions()))
//	fmt.Println(env) // BOX2D(-71.05 42.27, -70.93 42.36)
//
// # Position Views
//
// Positions produced from buffers are live views. Reading a coordinate reads
// the buffer, and SetCoordinate writes it unless the buffer is read-only, in
// which case ErrReadOnly is returned. Use CopyPosition to keep a snapshot.
// Values stored as float32 are widened on read and rounded on write.
//
// # Spatial Queries
//
//	idx, err := coordset.BuildIndex(ctx, set, coordset.DefaultIndexOptions())
//	hits, err := idx.Search(env.Expand(0.01))
//	nearest, err := idx.Nearest(p, 3)
//
// # go-geom Interop
//
// NewGeomSet exposes the vertices of any go-geom geometry as a set without
// copying, and ToMultiPoint collects a stream back into a geometry.
package coordset
