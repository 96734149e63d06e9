package ordering

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/model"
)

func intPtr(v int) *int { return &v }

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func TestPlanMove_AnchorBeforeFirst(t *testing.T) {
	todo := column(model.StatusTodo, "A", "B", "C")
	cols := Columns{model.StatusTodo: todo}

	plan, err := PlanMove(cols, todo[2].ID, model.StatusTodo, Target{AnchorID: idPtr(todo[0].ID)})
	require.NoError(t, err)

	assert.False(t, plan.NoOp)
	assert.Equal(t, []string{"C", "A", "B"}, titles(plan.Columns[model.StatusTodo]))
	assertDense(t, plan.Columns[model.StatusTodo])
	assert.Len(t, plan.Changes, 3)
}

func TestPlanMove_CrossColumnToEmpty(t *testing.T) {
	todo := column(model.StatusTodo, "A", "B", "C")
	cols := Columns{model.StatusTodo: todo, model.StatusDone: nil}

	plan, err := PlanMove(cols, todo[0].ID, model.StatusDone, Target{})
	require.NoError(t, err)

	done := plan.Columns[model.StatusDone]
	require.Len(t, done, 1)
	assert.Equal(t, "A", done[0].Title)
	assert.Equal(t, model.StatusDone, done[0].Status)
	assert.Equal(t, 0, done[0].Position)

	assert.Equal(t, []string{"B", "C"}, titles(plan.Columns[model.StatusTodo]))
	assertDense(t, plan.Columns[model.StatusTodo])

	require.Len(t, plan.Changes, 3)
	var statusChanges int
	for _, c := range plan.Changes {
		if c.StatusChanged() {
			statusChanges++
			assert.Equal(t, todo[0].ID, c.TaskID)
		}
	}
	assert.Equal(t, 1, statusChanges)
}

func TestPlanMove_UnknownAnchorAppendsToTail(t *testing.T) {
	todo := column(model.StatusTodo, "A")
	progress := column(model.StatusInProgress, "X", "Y")
	cols := Columns{model.StatusTodo: todo, model.StatusInProgress: progress}

	plan, err := PlanMove(cols, todo[0].ID, model.StatusInProgress, Target{AnchorID: idPtr(uuid.New())})
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "A"}, titles(plan.Columns[model.StatusInProgress]))
	assert.Empty(t, plan.Columns[model.StatusTodo])
}

func TestPlanMove_AnchorIndexIsTakenAfterRemoval(t *testing.T) {
	todo := column(model.StatusTodo, "A", "B", "C")
	cols := Columns{model.StatusTodo: todo}

	plan, err := PlanMove(cols, todo[0].ID, model.StatusTodo, Target{AnchorID: idPtr(todo[2].ID)})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, titles(plan.Columns[model.StatusTodo]))
}

func TestPlanMove_ExplicitIndexClamped(t *testing.T) {
	todo := column(model.StatusTodo, "A", "B", "C")
	cols := Columns{model.StatusTodo: todo}

	plan, err := PlanMove(cols, todo[0].ID, model.StatusTodo, Target{Index: intPtr(42)})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, titles(plan.Columns[model.StatusTodo]))
	assert.Equal(t, 2, plan.Index)
}

func TestPlanMove_SamePositionIsNoOp(t *testing.T) {
	todo := column(model.StatusTodo, "A", "B", "C")
	cols := Columns{model.StatusTodo: todo}

	plan, err := PlanMove(cols, todo[1].ID, model.StatusTodo, Target{Index: intPtr(1)})
	require.NoError(t, err)
	assert.True(t, plan.NoOp)
	assert.Empty(t, plan.Changes)

	plan, err = PlanMove(cols, todo[1].ID, model.StatusTodo, Target{AnchorID: idPtr(todo[1].ID)})
	require.NoError(t, err)
	assert.True(t, plan.NoOp)
}

func TestPlanMove_OnlyTaskInColumnIsNoOp(t *testing.T) {
	solo := column(model.StatusTesting, "solo")
	cols := Columns{model.StatusTesting: solo}

	plan, err := PlanMove(cols, solo[0].ID, model.StatusTesting, Target{})
	require.NoError(t, err)
	assert.True(t, plan.NoOp)
}

func TestPlanMove_ChangesCarryReadVersion(t *testing.T) {
	todo := column(model.StatusTodo, "A", "B")
	todo[1].Version = 7
	cols := Columns{model.StatusTodo: todo}

	plan, err := PlanMove(cols, todo[0].ID, model.StatusTodo, Target{Index: intPtr(1)})
	require.NoError(t, err)
	require.Len(t, plan.Changes, 2)
	for _, c := range plan.Changes {
		if c.TaskID == todo[1].ID {
			assert.Equal(t, 7, c.Version)
			assert.Equal(t, 1, c.FromPosition)
			assert.Equal(t, 0, c.ToPosition)
		}
	}
}

func TestPlanMove_UnaffectedTasksAreNotChanged(t *testing.T) {
	todo := column(model.StatusTodo, "A", "B", "C", "D")
	cols := Columns{model.StatusTodo: todo}

	// B <-> C swap leaves A and D untouched.
	plan, err := PlanMove(cols, todo[2].ID, model.StatusTodo, Target{Index: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D"}, titles(plan.Columns[model.StatusTodo]))
	ids := map[uuid.UUID]bool{}
	for _, c := range plan.Changes {
		ids[c.TaskID] = true
	}
	assert.Equal(t, map[uuid.UUID]bool{todo[1].ID: true, todo[2].ID: true}, ids)
}

func TestPlanMove_Errors(t *testing.T) {
	todo := column(model.StatusTodo, "A")
	cols := Columns{model.StatusTodo: todo}

	_, err := PlanMove(cols, uuid.New(), model.StatusTodo, Target{})
	assert.ErrorIs(t, err, ErrTaskNotInColumns)

	_, err = PlanMove(cols, todo[0].ID, model.Status("BACKLOG"), Target{})
	assert.True(t, model.IsValidation(err))
}

func TestPlanRemoval(t *testing.T) {
	todo := column(model.StatusTodo, "A", "B", "C")
	cols := Columns{model.StatusTodo: todo}

	plan, err := PlanRemoval(cols, todo[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, titles(plan.Columns[model.StatusTodo]))
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, todo[2].ID, plan.Changes[0].TaskID)
	assert.Equal(t, 2, plan.Changes[0].FromPosition)
	assert.Equal(t, 1, plan.Changes[0].ToPosition)
}

func TestPlanMove_RandomSequenceStaysDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var all []model.Task
	for _, s := range model.Statuses {
		all = append(all, column(s, "a", "b", "c")...)
	}
	cols := GroupByStatus(all)

	for i := 0; i < 500; i++ {
		flat := cols.Flatten()
		task := flat[rng.Intn(len(flat))]
		to := model.Statuses[rng.Intn(len(model.Statuses))]

		var target Target
		switch rng.Intn(3) {
		case 0:
			target.Index = intPtr(rng.Intn(6) - 1)
		case 1:
			anchor := flat[rng.Intn(len(flat))].ID
			target.AnchorID = &anchor
		}

		plan, err := PlanMove(cols, task.ID, to, target)
		require.NoError(t, err)
		for s, list := range plan.Columns {
			cols[s] = list
		}
		for _, s := range model.Statuses {
			assertDense(t, cols[s])
		}
		assert.Len(t, cols.Flatten(), len(all))
	}
}
