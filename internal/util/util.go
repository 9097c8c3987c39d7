// Package util contains small generic helpers shared by the other FSMC
// packages.
package util

import (
	"sort"
)

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, len(m))
	idx := 0

	for k := range m {
		keys[idx] = k
		idx++
	}

	sort.Strings(keys)

	return keys
}

// SortBy returns a copy of items sorted by the given less function. The sort is
// stable. The original slice is not modified.
func SortBy[E any](items []E, less func(left, right E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// InsertionOrder tracks a sequence of unique strings in the order they were
// first seen.
type InsertionOrder struct {
	seen  StringSet
	order []string
}

// Add appends s if it has not been added before. It returns whether s was
// new.
func (ord *InsertionOrder) Add(s string) bool {
	if ord.seen == nil {
		ord.seen = NewStringSet()
	}
	if ord.seen.Has(s) {
		return false
	}
	ord.seen.Add(s)
	ord.order = append(ord.order, s)
	return true
}

// Remove removes s from the order if present.
func (ord *InsertionOrder) Remove(s string) {
	if !ord.seen.Has(s) {
		return
	}
	ord.seen.Remove(s)
	for i := range ord.order {
		if ord.order[i] == s {
			ord.order = append(ord.order[:i], ord.order[i+1:]...)
			return
		}
	}
}

// Has returns whether s has been added.
func (ord InsertionOrder) Has(s string) bool {
	return ord.seen.Has(s)
}

// Slice returns a copy of the elements in insertion order.
func (ord InsertionOrder) Slice() []string {
	sl := make([]string, len(ord.order))
	copy(sl, ord.order)
	return sl
}

func (ord InsertionOrder) Len() int {
	return len(ord.order)
}
