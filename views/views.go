// Package views derives display-ready structures from household state and
// meal plans. Every function is pure and returns new values.
package views

// Group is the items sharing one label, in input order.
type Group[T any] struct {
	Label string
	Items []T
}

// GroupBy partitions items by label. Groups appear in the order their label is
// first seen and keep the relative order of their items.
func GroupBy[T any](items []T, labelOf func(T) string) []Group[T] {
	index := make(map[string]int)
	groups := make([]Group[T], 0)

	for _, it := range items {
		label := labelOf(it)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group[T]{Label: label})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// GroupMap is GroupBy keyed by label.
func GroupMap[T any](items []T, labelOf func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, g := range GroupBy(items, labelOf) {
		out[g.Label] = g.Items
	}
	return out
}

// Labels returns the group labels in order.
func Labels[T any](groups []Group[T]) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Label
	}
	return out
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
