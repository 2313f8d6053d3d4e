package hermestools

import (
	"cmp"
	"slices"
)

func Map[T any, Y any](input []T, x func(T) Y) []Y {
	result := []Y{}
	for _, i := range input {
		result = append(result, x(i))
	}

	return result
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
