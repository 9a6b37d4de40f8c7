// Package gallery owns the ordered-image interactions of the ad composer:
// drag-based reordering of the accepted photo list, and the full-screen
// viewer with its navigation, gesture, and keyboard handling.
package gallery

// Reorder returns a new list with the element at from moved to to. The
// insertion index is computed against the post-removal list, not the
// original. from == to is a no-op, and out-of-range indices return the
// input unchanged — drag-gesture races can hand us stale indices, and
// ignoring them beats crashing mid-drag.
//
// Position 0 is the cover slot; moving an image there promotes it to cover,
// which is intentional — cover is purely positional.
func Reorder[T any](list []T, from, to int) []T {
	if from == to {
		return list
	}
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return list
	}

	next := make([]T, 0, len(list))
	next = append(next, list[:from]...)
	next = append(next, list[from+1:]...)

	// Splice the moved element back in at the target position.
	next = append(next, *new(T))
	copy(next[to+1:], next[to:])
	next[to] = list[from]
	return next
}
