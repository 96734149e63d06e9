// Package boardstate is the client-side projection of the board and the
// optimistic move protocol that runs against it.
package boardstate

import (
	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

// Board is a local, provisional copy of the server's columns.
type Board struct {
	cols ordering.Columns
}

func NewBoard(tasks []model.Task) *Board {
	cols := ordering.GroupByStatus(tasks)
	for _, s := range model.Statuses {
		if _, ok := cols[s]; !ok {
			cols[s] = []model.Task{}
		}
	}
	return &Board{cols: cols}
}

// Column returns a copy of one column in position order.
func (b *Board) Column(status model.Status) []model.Task {
	return append([]model.Task{}, b.cols[status]...)
}

func (b *Board) Task(id uuid.UUID) (model.Task, bool) {
	s, i, ok := b.cols.Locate(id)
	if !ok {
		return model.Task{}, false
	}
	return b.cols[s][i], true
}

// Tasks returns every task in board order.
func (b *Board) Tasks() []model.Task {
	return b.cols.Flatten()
}

func (b *Board) Snapshot() Snapshot {
	return Snapshot{cols: b.cols.Clone()}
}

func (b *Board) clone() *Board {
	return &Board{cols: b.cols.Clone()}
}

func (b *Board) replace(cols map[model.Status][]model.Task) {
	for s, list := range cols {
		b.cols[s] = append([]model.Task{}, list...)
	}
}

// Snapshot is an immutable copy of the projection taken before a move.
type Snapshot struct {
	cols ordering.Columns
}

func (s Snapshot) Column(status model.Status) []model.Task {
	return append([]model.Task{}, s.cols[status]...)
}

func (s Snapshot) Board() *Board {
	return &Board{cols: s.cols.Clone()}
}
