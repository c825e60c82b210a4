// Package stark provides a partition-pruned query execution core for
// spatio-temporal records.
//
// Records pair a spatio-temporal key (a geometry, optionally with a time
// interval) with an arbitrary payload and live in partitioned in-memory
// collections. Queries run in three steps: prune the partitions that
// cannot contain a match, execute one independent task per surviving
// partition (optionally accelerated by an ephemeral per-partition index),
// and merge the partial results deterministically.
//
// # Quick start
//
//	ctx := context.Background()
//
//	grid, _ := partition.NewGrid(geom.NewEnvelope(0, 0, 100, 100), 4, 4)
//	ds := stark.NewDataset(records, 16, stark.WithPartitioner(grid))
//
//	// All records intersecting a spatio-temporal window.
//	window := geom.NewSpatioTemporal(geom.NewRect(10, 10, 40, 40), geom.NewInterval(0, 3600))
//	hits, _ := ds.Filter(ctx, window, geom.PredicateIntersects)
//
//	// Five nearest records to a point.
//	nearest, _ := ds.KNN(ctx, geom.NewSpatial(geom.NewPoint(25, 25)), 5, geom.EuclideanDistance)
//
// # Exactness
//
// Filter, FilterFunc, WithinDistance and the joins are exact given the
// documented partitioner contracts. KNN prunes participant partitions by
// envelope intersection, a heuristic that can miss neighbors in
// non-intersecting partitions; WithKNNMargin widens participation up to
// exactness. See the query package for details.
//
// Datasets can be persisted to and restored from a blob store (local
// directory, in-memory, or S3-compatible object storage) via Save and
// Load.
package stark
