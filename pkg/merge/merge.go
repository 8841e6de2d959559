// Package merge computes the append and delete operations that turn an
// existing ordered list into a desired one.
//
// The scan keeps a single pending insert window. Each existing element is
// tried against the remaining desired elements; an existing element with no
// match is deleted and the window is retried against the next one. This is
// not a longest common subsequence and costs O(len(existing) * len(desired))
// comparisons in the worst case.
package merge

import "github.com/vrerv/md-to-notion/pkg/block"

// AppendFunc inserts run after the anchor element. A nil anchor means the
// start of the list.
type AppendFunc[T any] func(run []T, after *T) error

// DeleteFunc removes one existing element.
type DeleteFunc[T any] func(item T) error

// Sequence issues the calls that converge existing to desired. equal is
// called as equal(existing, desired). Calls are issued in scan order and the
// first error stops the scan.
func Sequence[T any](existing, desired []T, equal func(candidate, want T) bool, appendRun AppendFunc[T], deleteOne DeleteFunc[T]) error {
	var (
		existingIndex int
		desiredIndex  int
		pendingStart  = -1
		anchorIndex   = -1
	)

	anchor := func() *T {
		if anchorIndex < 0 {
			return nil
		}
		return &existing[anchorIndex]
	}

	for existingIndex < len(existing) || desiredIndex < len(desired) {
		if existingIndex >= len(existing) {
			return appendRun(desired[desiredIndex:], anchor())
		}

		if desiredIndex < len(desired) && equal(existing[existingIndex], desired[desiredIndex]) {
			if pendingStart >= 0 {
				if err := appendRun(desired[pendingStart:desiredIndex], anchor()); err != nil {
					return err
				}
				pendingStart = -1
			}
			anchorIndex = existingIndex
			existingIndex++
			desiredIndex++
			continue
		}

		if pendingStart < 0 {
			pendingStart = desiredIndex
		}
		desiredIndex++
		if desiredIndex >= len(desired) {
			if err := deleteOne(existing[existingIndex]); err != nil {
				return err
			}
			desiredIndex = pendingStart
			pendingStart = -1
			existingIndex++
		}
	}

	return nil
}

// Blocks reconciles block lists using block equivalence.
func Blocks(existing, desired []block.Block, appendRun AppendFunc[block.Block], deleteOne DeleteFunc[block.Block]) error {
	return Sequence(existing, desired, block.Equivalent, appendRun, deleteOne)
}
