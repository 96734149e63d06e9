// Package ordering computes dense, zero-based ranks for tasks inside a board
// column. Nothing here touches storage; the same code plans moves on the
// server and tentatively on clients.
package ordering

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"taskboard/internal/model"
)

// ErrInconsistentColumn is an internal fault: a column arrived with two tasks
// sharing a position. A density-preserving store never produces one.
var ErrInconsistentColumn = errors.New("ordering: inconsistent column")

// InsertAt places item at index (clamped to [0, len(list)]) and renumbers
// every element to its slice index. list is not modified.
func InsertAt(list []model.Task, index int, item model.Task) ([]model.Task, error) {
	if err := checkDistinct(list); err != nil {
		return nil, err
	}
	index = clamp(index, 0, len(list))

	out := make([]model.Task, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, item)
	out = append(out, list[index:]...)
	renumber(out)
	return out, nil
}

// RemoveAndCompact drops the task with the given id and renumbers the rest
// 0..n-2 keeping their relative order. list is not modified.
func RemoveAndCompact(list []model.Task, id uuid.UUID) ([]model.Task, error) {
	if err := checkDistinct(list); err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(list))
	for _, t := range list {
		if t.ID != id {
			out = append(out, t)
		}
	}
	renumber(out)
	return out, nil
}

func renumber(list []model.Task) {
	for i := range list {
		list[i].Position = i
	}
}

func checkDistinct(list []model.Task) error {
	seen := make(map[int]uuid.UUID, len(list))
	for _, t := range list {
		if other, dup := seen[t.Position]; dup {
			return fmt.Errorf("%w: tasks %s and %s both at position %d", ErrInconsistentColumn, other, t.ID, t.Position)
		}
		seen[t.Position] = t.ID
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
