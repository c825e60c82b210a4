package query

import (
	"context"

	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/model"
)

// Cluster groups the records of c by spatial proximity. Not yet
// implemented: calls fail with ErrNotImplemented instead of returning a
// partial or misleading grouping.
func Cluster[V any](ctx context.Context, c *exec.Collection[V], optFns ...Option) ([][]model.Record[V], error) {
	return nil, ErrNotImplemented
}

// Skyline returns the records of c not dominated in both space and time
// by any other record. Not yet implemented: calls fail with
// ErrNotImplemented instead of returning a partial or misleading result.
func Skyline[V any](ctx context.Context, c *exec.Collection[V], optFns ...Option) ([]model.Record[V], error) {
	return nil, ErrNotImplemented
}
