package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

type CreateTaskInput struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description *string     `json:"description" validate:"omitempty,max=2000"`
	LabelIDs    []uuid.UUID `json:"label_ids"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

// TaskPatch carries non-ordering field edits. Nil fields are left alone; an
// empty description clears it; non-nil id lists replace the whole set.
type TaskPatch struct {
	Title       *string      `json:"title" validate:"omitempty,max=200"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	LabelIDs    *[]uuid.UUID `json:"label_ids"`
	AssigneeIDs *[]uuid.UUID `json:"assignee_ids"`
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.LabelIDs == nil && p.AssigneeIDs == nil
}

// TaskStore is the persisted side of the board.
type TaskStore interface {
	Create(ctx context.Context, in CreateTaskInput) (*model.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error)
	UpdateFields(ctx context.Context, id uuid.UUID, patch TaskPatch, expectedVersion *int) (*model.Task, error)
	Move(ctx context.Context, id uuid.UUID, req model.MoveRequest) (*model.MoveResult, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	History(ctx context.Context, id uuid.UUID) ([]model.TaskHistory, error)
}

var _ TaskStore = (*TaskRepository)(nil)

type TaskRepository struct {
	db    *gorm.DB
	assoc *AssociationRepository
	log   *logger.Logger
	now   func() time.Time
}

func NewTaskRepository(db *gorm.DB, log *logger.Logger) *TaskRepository {
	return &TaskRepository{
		db:    db,
		assoc: NewAssociationRepository(db),
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create appends a new task to the tail of the first column.
func (r *TaskRepository) Create(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = normalizeDescription(in.Description)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := r.now()
	task := model.Task{
		Title:           in.Title,
		Description:     in.Description,
		Status:          model.FirstStatus,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
		StatusChangedAt: now,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Task{}).Where("status = ?", string(model.FirstStatus)).Count(&count).Error; err != nil {
			return err
		}
		task.Position = int(count)
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		if err := enterStatus(tx, task.ID, task.Status, now); err != nil {
			return err
		}
		assoc := r.assoc.WithTx(tx)
		if err := assoc.ReplaceLabels(ctx, task.ID, in.LabelIDs); err != nil {
			return err
		}
		return assoc.ReplaceAssignees(ctx, task.ID, in.AssigneeIDs)
	})
	if err != nil {
		r.log.Errorw("task_repo_create_failed", "title", in.Title, "error", err)
		return nil, txError("create task", err)
	}
	r.log.Infow("task_repo_create_ok", "id", task.ID, "position", task.Position)
	return r.GetByID(ctx, task.ID)
}

// GetByID retrieves a task with its labels and assignees
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, notFound(err, model.ErrTaskNotFound)
	}
	tasks := []model.Task{task}
	if err := r.compose(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// List returns every task in board order: by column, then by position.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("position").Find(&tasks).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if ri, rj := tasks[i].Status.Rank(), tasks[j].Status.Rank(); ri != rj {
			return ri < rj
		}
		return tasks[i].Position < tasks[j].Position
	})
	if err := r.compose(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByStatus returns one column ordered by position.
func (r *TaskRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	tasks := []model.Task{}
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("position").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	if err := r.compose(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateFields applies a non-ordering edit. When expectedVersion is set it
// must match the stored version or ErrVersionConflict is returned.
func (r *TaskRepository) UpdateFields(ctx context.Context, id uuid.UUID, patch TaskPatch, expectedVersion *int) (*model.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, &model.ValidationError{Field: "title", Reason: "is required"}
		}
		patch.Title = &title
	}
	if patch.Empty() {
		return nil, &model.ValidationError{Field: "patch", Reason: "no changes supplied"}
	}
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	now := r.now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, "id = ?", id).Error; err != nil {
			return notFound(err, model.ErrTaskNotFound)
		}
		if expectedVersion != nil && *expectedVersion != current.Version {
			return model.ErrVersionConflict
		}

		updates := map[string]any{
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Description != nil {
			updates["description"] = normalizeDescription(patch.Description)
		}
		res := tx.Model(&model.Task{}).
			Where("id = ? AND version = ?", id, current.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrVersionConflict
		}

		assoc := r.assoc.WithTx(tx)
		if patch.LabelIDs != nil {
			if err := assoc.ReplaceLabels(ctx, id, *patch.LabelIDs); err != nil {
				return err
			}
		}
		if patch.AssigneeIDs != nil {
			if err := assoc.ReplaceAssignees(ctx, id, *patch.AssigneeIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Errorw("task_repo_update_failed", "id", id, "error", err)
		return nil, txError("update task", err)
	}
	r.log.Infow("task_repo_update_ok", "id", id)
	return r.GetByID(ctx, id)
}

// Move plans and applies a drop in one transaction. The source and target
// columns are row-locked for the duration, every reassigned row is written
// with a version check, and any failure rolls back the whole set.
func (r *TaskRepository) Move(ctx context.Context, id uuid.UUID, req model.MoveRequest) (*model.MoveResult, error) {
	if !req.TargetColumn.Valid() {
		return nil, &model.ValidationError{Field: "target_column", Reason: "unknown column"}
	}

	var plan ordering.Plan
	now := r.now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Task
		if err := tx.Select("id", "status").First(&current, "id = ?", id).Error; err != nil {
			return notFound(err, model.ErrTaskNotFound)
		}

		cols, err := lockColumns(tx, current.Status, req.TargetColumn)
		if err != nil {
			return err
		}
		from, idx, ok := cols.Locate(id)
		if !ok {
			// Moved to another column between the read and the lock.
			return model.ErrVersionConflict
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != cols[from][idx].Version {
			return model.ErrVersionConflict
		}

		plan, err = ordering.PlanMove(cols, id, req.TargetColumn, ordering.TargetOf(req))
		if err != nil {
			return err
		}
		if plan.NoOp {
			return nil
		}
		if err := applyChanges(tx, plan.Changes, now); err != nil {
			return err
		}
		if plan.From != plan.To {
			return enterStatus(tx, id, plan.To, now)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrVersionConflict) {
			r.log.Infow("task_repo_move_conflict", "id", id, "target", req.TargetColumn)
		} else {
			r.log.Errorw("task_repo_move_failed", "id", id, "target", req.TargetColumn, "error", err)
		}
		return nil, txError("move task", err)
	}
	r.log.Infow("task_repo_move_ok",
		"id", id, "from", plan.From, "to", plan.To, "index", plan.Index,
		"rows", len(plan.Changes), "noop", plan.NoOp)

	return r.moveResult(ctx, id, plan)
}

// Delete removes a task, its associations and history, and re-densifies its
// former column. It reports false when the task did not exist.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	now := r.now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Task
		if err := tx.Select("id", "status").First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		cols, err := lockColumns(tx, current.Status)
		if err != nil {
			return err
		}
		plan, err := ordering.PlanRemoval(cols, id)
		if err != nil {
			if errors.Is(err, ordering.ErrTaskNotInColumns) {
				return model.ErrVersionConflict
			}
			return err
		}

		if err := r.assoc.WithTx(tx).DeleteForTask(ctx, id); err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskHistory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Task{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return applyChanges(tx, plan.Changes, now)
	})
	if err != nil {
		r.log.Errorw("task_repo_delete_failed", "id", id, "error", err)
		return false, txError("delete task", err)
	}
	if deleted {
		r.log.Infow("task_repo_delete_ok", "id", id)
	}
	return deleted, nil
}

// History lists the column stays of a task, oldest first.
func (r *TaskRepository) History(ctx context.Context, id uuid.UUID) ([]model.TaskHistory, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, model.ErrTaskNotFound
	}
	history := []model.TaskHistory{}
	err := r.db.WithContext(ctx).
		Where("task_id = ?", id).
		Order("entered_at").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (r *TaskRepository) moveResult(ctx context.Context, id uuid.UUID, plan ordering.Plan) (*model.MoveResult, error) {
	statuses := []model.Status{plan.From}
	if plan.To != plan.From {
		statuses = append(statuses, plan.To)
	}
	result := &model.MoveResult{
		Columns: make(map[model.Status][]model.Task, len(statuses)),
		Moved:   !plan.NoOp,
	}
	found := false
	for _, s := range statuses {
		list, err := r.ListByStatus(ctx, s)
		if err != nil {
			return nil, err
		}
		result.Columns[s] = list
		for _, t := range list {
			if t.ID == id {
				result.Task = t
				found = true
			}
		}
	}
	if !found {
		task, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Task = *task
	}
	return result, nil
}

// compose attaches labels and assignees to already-fetched rows.
func (r *TaskRepository) compose(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	var (
		labels    map[uuid.UUID][]model.Label
		assignees map[uuid.UUID][]model.Assignee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		labels, err = r.assoc.LabelsFor(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		assignees, err = r.assoc.AssigneesFor(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range tasks {
		tasks[i].Labels = labels[tasks[i].ID]
		if tasks[i].Labels == nil {
			tasks[i].Labels = []model.Label{}
		}
		tasks[i].Assignees = assignees[tasks[i].ID]
		if tasks[i].Assignees == nil {
			tasks[i].Assignees = []model.Assignee{}
		}
	}
	return nil
}

// lockColumns loads the given columns inside tx, locking their rows on
// databases that support row locks. Rows are locked in (status, position)
// order so two moves over the same pair of columns queue instead of
// deadlocking.
func lockColumns(tx *gorm.DB, statuses ...model.Status) (ordering.Columns, error) {
	names := make([]string, 0, len(statuses))
	seen := make(map[model.Status]bool, len(statuses))
	for _, s := range statuses {
		if !seen[s] {
			seen[s] = true
			names = append(names, string(s))
		}
	}

	var rows []model.Task
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status IN ?", names).
		Order("status, position").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	cols := ordering.GroupByStatus(rows)
	for _, s := range statuses {
		if _, ok := cols[s]; !ok {
			cols[s] = nil
		}
	}
	return cols, nil
}

// applyChanges writes a reassignment set. Rows are first parked on negative
// slots in their new column so the unique (status, position) index never
// sees two rows on one slot, then given their final position. Each row is
// guarded by the version it was planned against.
func applyChanges(tx *gorm.DB, changes []ordering.Change, now time.Time) error {
	for _, c := range changes {
		res := tx.Model(&model.Task{}).
			Where("id = ? AND version = ?", c.TaskID, c.Version).
			Updates(map[string]any{
				"status":   string(c.ToStatus),
				"position": -(c.ToPosition + 1),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrVersionConflict
		}
	}
	for _, c := range changes {
		updates := map[string]any{
			"position":   c.ToPosition,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		}
		if c.StatusChanged() {
			updates["status_changed_at"] = now
		}
		if err := tx.Model(&model.Task{}).Where("id = ?", c.TaskID).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

// enterStatus closes the task's open history entry, if any, and opens one
// for status.
func enterStatus(tx *gorm.DB, taskID uuid.UUID, status model.Status, now time.Time) error {
	var open []model.TaskHistory
	err := tx.Where("task_id = ? AND exited_at IS NULL", taskID).
		Order("entered_at DESC").
		Limit(1).
		Find(&open).Error
	if err != nil {
		return err
	}
	if len(open) == 1 {
		duration := int64(now.Sub(open[0].EnteredAt).Seconds())
		err := tx.Model(&model.TaskHistory{}).
			Where("id = ?", open[0].ID).
			Updates(map[string]any{"exited_at": now, "duration": duration}).Error
		if err != nil {
			return err
		}
	}
	return tx.Create(&model.TaskHistory{TaskID: taskID, Status: status, EnteredAt: now}).Error
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
