package exec

import (
	"slices"
	"sort"
)

// TakeOrdered returns the first k items under less. The sort is stable, so
// items comparing equal keep their input order, making the result
// deterministic for a deterministic input order.
func TakeOrdered[R any](items []R, k int, less func(a, b R) bool) []R {
	if k <= 0 || len(items) == 0 {
		return nil
	}

	out := slices.Clone(items)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > k {
		out = out[:k:k]
	}
	return out
}
