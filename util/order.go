package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// OrderedMapEntry is a single (key, value) pair of a map, ordered by the key.
type OrderedMapEntry[K constraints.Ordered, V any] struct {
	Key   K
	Value V
}

// OrderedKeys returns the sorted keys of the input map.
func OrderedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// OrderedValues returns the values of the input map ordered by their keys.
func OrderedValues[K constraints.Ordered, V any](m map[K]V) []V {
	keys := OrderedKeys(m)
	result := make([]V, 0, len(m))
	for _, k := range keys {
		result = append(result, m[k])
	}
	return result
}

// OrderedEntries returns the (key, value) pairs of the input map ordered by their keys.
func OrderedEntries[K constraints.Ordered, V any](m map[K]V) []OrderedMapEntry[K, V] {
	keys := OrderedKeys(m)
	result := make([]OrderedMapEntry[K, V], 0, len(m))
	for _, k := range keys {
		result = append(result, OrderedMapEntry[K, V]{Key: k, Value: m[k]})
	}
	return result
}
