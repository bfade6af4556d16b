package kv

import (
	"slices"
	"sort"
)

// insertSortedString inserts element into the sorted, deduplicated arr,
// a no-op if element is already present (spec.md §8 property 7).
func insertSortedString(arr []string, element string) []string {
	idx, found := slices.BinarySearch(arr, element)
	if found {
		return arr
	}
	return slices.Insert(arr, idx, element)
}

// removeSortedString removes element from the sorted arr, a no-op if
// element is absent (spec.md §8 property 11).
func removeSortedString(arr []string, element string) []string {
	idx, found := slices.BinarySearch(arr, element)
	if !found {
		return arr
	}
	return slices.Delete(arr, idx, idx+1)
}

// mergeUnionBy merges existing with incoming, deduplicating by keyOf and
// keeping the result sorted by keyOf. This is the "classic merge"
// described for setUnion in spec.md §4.2.
func mergeUnionBy[T any](existing, incoming []T, keyOf func(T) string) []T {
	all := make([]T, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)
	sort.SliceStable(all, func(i, j int) bool { return keyOf(all[i]) < keyOf(all[j]) })

	out := make([]T, 0, len(all))
	seen := false
	var lastKey string
	for _, v := range all {
		k := keyOf(v)
		if seen && k == lastKey {
			continue
		}
		out = append(out, v)
		lastKey = k
		seen = true
	}
	return out
}

// mergeDifferenceBy returns the elements of existing whose key does not
// appear in remove (spec.md §4.2 setDifference).
func mergeDifferenceBy[T any](existing, remove []T, keyOf func(T) string) []T {
	removeSet := make(map[string]struct{}, len(remove))
	for _, v := range remove {
		removeSet[keyOf(v)] = struct{}{}
	}
	out := make([]T, 0, len(existing))
	for _, v := range existing {
		if _, skip := removeSet[keyOf(v)]; !skip {
			out = append(out, v)
		}
	}
	return out
}

func identity(s string) string { return s }

func ruleKey(r Rule) string { return r.Raw }
