// Package offsets implements the list edits a list view performs on
// visual rows: removal by a set of offsets, moving a set of rows to a
// target offset, and a stable partition.
//
// Every function returns a new slice and leaves its input untouched, so
// snapshots handed out earlier never observe later edits.
package offsets

import "sort"

// Normalize returns the offsets that fall inside [0, n), ascending and
// without duplicates.
func Normalize(offsets []int, n int) []int {
	seen := make(map[int]bool, len(offsets))
	out := make([]int, 0, len(offsets))
	for _, o := range offsets {
		if o < 0 || o >= n || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	sort.Ints(out)
	return out
}

// Remove drops the items at the given offsets. Offsets refer to the
// ordering of items before any removal; out-of-range offsets are ignored.
func Remove[T any](items []T, offsets []int) []T {
	drop := make(map[int]bool, len(offsets))
	for _, o := range Normalize(offsets, len(items)) {
		drop[o] = true
	}

	out := make([]T, 0, len(items)-len(drop))
	for i, it := range items {
		if !drop[i] {
			out = append(out, it)
		}
	}
	return out
}

// Move relocates the items at from so that they end up, as one
// contiguous block in their original relative order, just before the
// item that was at offset to. to is an offset into the list before the
// move and is clamped to [0, len(items)]; len(items) means the end.
func Move[T any](items []T, from []int, to int) []T {
	sel := Normalize(from, len(items))
	if to < 0 {
		to = 0
	}
	if to > len(items) {
		to = len(items)
	}

	picked := make(map[int]bool, len(sel))
	for _, o := range sel {
		picked[o] = true
	}

	moved := make([]T, 0, len(sel))
	rest := make([]T, 0, len(items)-len(sel))
	below := 0
	for i, it := range items {
		if picked[i] {
			moved = append(moved, it)
			if i < to {
				below++
			}
			continue
		}
		rest = append(rest, it)
	}

	at := to - below
	out := make([]T, 0, len(items))
	out = append(out, rest[:at]...)
	out = append(out, moved...)
	out = append(out, rest[at:]...)
	return out
}

// Keep returns the items for which keep reports true, in order.
func Keep[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// StablePartition moves every item for which last reports true after
// every item for which it reports false. Relative order inside each
// group is preserved.
func StablePartition[T any](items []T, last func(T) bool) []T {
	head := make([]T, 0, len(items))
	var tail []T
	for _, it := range items {
		if last(it) {
			tail = append(tail, it)
		} else {
			head = append(head, it)
		}
	}
	return append(head, tail...)
}
