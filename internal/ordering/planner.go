package ordering

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"taskboard/internal/model"
)

// ErrTaskNotInColumns is returned when the moved task is absent from the
// columns handed to the planner.
var ErrTaskNotInColumns = errors.New("ordering: task not present in columns")

// Columns holds position-ordered task lists keyed by status. A plan only
// needs the source and target columns to be present.
type Columns map[model.Status][]model.Task

// GroupByStatus buckets tasks into columns sorted by position.
func GroupByStatus(tasks []model.Task) Columns {
	cols := make(Columns, len(model.Statuses))
	for _, t := range tasks {
		cols[t.Status] = append(cols[t.Status], t)
	}
	for s := range cols {
		list := cols[s]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	}
	return cols
}

// Clone copies every column list so the result can be edited freely.
func (c Columns) Clone() Columns {
	out := make(Columns, len(c))
	for s, list := range c {
		out[s] = append([]model.Task(nil), list...)
	}
	return out
}

// Locate returns the status and slice index of a task.
func (c Columns) Locate(id uuid.UUID) (model.Status, int, bool) {
	for s, list := range c {
		for i, t := range list {
			if t.ID == id {
				return s, i, true
			}
		}
	}
	return "", 0, false
}

// Flatten returns every task in board order.
func (c Columns) Flatten() []model.Task {
	var out []model.Task
	for _, s := range model.Statuses {
		out = append(out, c[s]...)
	}
	return out
}

// Target is where a task is dropped. Index wins over AnchorID; with neither
// the task goes to the tail.
type Target struct {
	Index    *int
	AnchorID *uuid.UUID
}

// TargetOf extracts the slot selector from a move request.
func TargetOf(req model.MoveRequest) Target {
	return Target{Index: req.TargetIndex, AnchorID: req.TargetAnchorID}
}

// Change is one row reassignment produced by a plan. Version is the version
// the row had when the plan was computed.
type Change struct {
	TaskID       uuid.UUID
	FromStatus   model.Status
	FromPosition int
	ToStatus     model.Status
	ToPosition   int
	Version      int
}

func (c Change) StatusChanged() bool {
	return c.FromStatus != c.ToStatus
}

// Plan is the full set of reassignments for one move or removal.
type Plan struct {
	TaskID  uuid.UUID
	From    model.Status
	To      model.Status
	Index   int
	Changes []Change
	// Columns are the resulting lists for every touched status.
	Columns Columns
	// NoOp is set when the task keeps its status and position.
	NoOp bool
}

// PlanMove resolves a drop of taskID onto column to at target.
func PlanMove(cols Columns, taskID uuid.UUID, to model.Status, target Target) (Plan, error) {
	if !to.Valid() {
		return Plan{}, &model.ValidationError{Field: "target_column", Reason: fmt.Sprintf("unknown column %q", to)}
	}
	from, idx, ok := cols.Locate(taskID)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrTaskNotInColumns, taskID)
	}
	source := cols[from]
	if err := checkDistinct(source); err != nil {
		return Plan{}, err
	}
	task := source[idx]

	remaining := make([]model.Task, 0, len(source))
	for _, t := range source {
		if t.ID != taskID {
			remaining = append(remaining, t)
		}
	}
	targetList := remaining
	if from != to {
		targetList = cols[to]
	}

	dest := destination(targetList, task, from == to, idx, target)
	moved := task
	moved.Status = to
	placed, err := InsertAt(targetList, dest, moved)
	if err != nil {
		return Plan{}, err
	}

	result := Columns{to: placed}
	if from != to {
		compacted, err := RemoveAndCompact(source, taskID)
		if err != nil {
			return Plan{}, err
		}
		result[from] = compacted
	}

	plan := Plan{
		TaskID:  taskID,
		From:    from,
		To:      to,
		Index:   dest,
		Columns: result,
		NoOp:    from == to && placed[dest].Position == task.Position,
	}
	if !plan.NoOp {
		plan.Changes = diff(cols, result)
	}
	return plan, nil
}

// PlanRemoval compacts the column of taskID as if the task were gone.
func PlanRemoval(cols Columns, taskID uuid.UUID) (Plan, error) {
	from, _, ok := cols.Locate(taskID)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrTaskNotInColumns, taskID)
	}
	compacted, err := RemoveAndCompact(cols[from], taskID)
	if err != nil {
		return Plan{}, err
	}
	result := Columns{from: compacted}
	return Plan{
		TaskID:  taskID,
		From:    from,
		To:      from,
		Columns: result,
		Changes: diff(cols, result),
	}, nil
}

func destination(list []model.Task, task model.Task, sameColumn bool, current int, target Target) int {
	switch {
	case target.Index != nil:
		return clamp(*target.Index, 0, len(list))
	case target.AnchorID != nil:
		if sameColumn && *target.AnchorID == task.ID {
			return current
		}
		for i, t := range list {
			if t.ID == *target.AnchorID {
				return i
			}
		}
		return len(list)
	default:
		return len(list)
	}
}

// diff lists every task in after whose status or position differs from before.
func diff(before, after Columns) []Change {
	type slot struct {
		status   model.Status
		position int
		version  int
	}
	prev := make(map[uuid.UUID]slot)
	for s, list := range before {
		for _, t := range list {
			prev[t.ID] = slot{status: s, position: t.Position, version: t.Version}
		}
	}

	var changes []Change
	for _, s := range model.Statuses {
		for _, t := range after[s] {
			p := prev[t.ID]
			if p.status == s && p.position == t.Position {
				continue
			}
			changes = append(changes, Change{
				TaskID:       t.ID,
				FromStatus:   p.status,
				FromPosition: p.position,
				ToStatus:     s,
				ToPosition:   t.Position,
				Version:      p.version,
			})
		}
	}
	return changes
}
