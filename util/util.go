package util

import (
	"cmp"
	"iter"
	"slices"
)

// TransformSlice applies the converter to each element in the input slice and returns a new slice.
func TransformSlice[T any, R any](in []T, converter func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = converter(v)
	}
	return out
}

// CanonicalMapIter returns an iterator that yields map entries in ascending
// key order, so that output built from a map (attribute ids, table names)
// comes out the same way on every run regardless of Go's randomized map
// iteration order.
func CanonicalMapIter[K cmp.Ordered, T any](m map[K]T) iter.Seq2[K, T] {
	return func(yield func(K, T) bool) {
		keys := make([]K, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}
