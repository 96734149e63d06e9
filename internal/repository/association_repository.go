package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

// AssociationRepository owns the task_labels and task_assignees link tables.
type AssociationRepository struct {
	db *gorm.DB
}

func NewAssociationRepository(db *gorm.DB) *AssociationRepository {
	return &AssociationRepository{db: db}
}

// WithTx returns a copy bound to an open transaction.
func (r *AssociationRepository) WithTx(tx *gorm.DB) *AssociationRepository {
	return &AssociationRepository{db: tx}
}

// ReplaceLabels swaps the full label set of a task. Unknown label ids are a
// validation error and nothing is written.
func (r *AssociationRepository) ReplaceLabels(ctx context.Context, taskID uuid.UUID, labelIDs []uuid.UUID) error {
	ids := uniqueIDs(labelIDs)
	if err := r.ensureExist(ctx, &model.Label{}, ids, "label_ids"); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id = ?", taskID).Delete(&model.TaskLabel{}).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([]model.TaskLabel, len(ids))
	for i, id := range ids {
		rows[i] = model.TaskLabel{TaskID: taskID, LabelID: id}
	}
	return db.Create(&rows).Error
}

// ReplaceAssignees swaps the full assignee set of a task.
func (r *AssociationRepository) ReplaceAssignees(ctx context.Context, taskID uuid.UUID, assigneeIDs []uuid.UUID) error {
	ids := uniqueIDs(assigneeIDs)
	if err := r.ensureExist(ctx, &model.Assignee{}, ids, "assignee_ids"); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id = ?", taskID).Delete(&model.TaskAssignee{}).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([]model.TaskAssignee, len(ids))
	for i, id := range ids {
		rows[i] = model.TaskAssignee{TaskID: taskID, AssigneeID: id}
	}
	return db.Create(&rows).Error
}

func (r *AssociationRepository) DeleteForTask(ctx context.Context, taskID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id = ?", taskID).Delete(&model.TaskLabel{}).Error; err != nil {
		return err
	}
	return db.Where("task_id = ?", taskID).Delete(&model.TaskAssignee{}).Error
}

// LabelsFor batch-loads labels for a set of tasks, ordered by label name.
func (r *AssociationRepository) LabelsFor(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]model.Label, error) {
	out := make(map[uuid.UUID][]model.Label, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		TaskID    uuid.UUID
		ID        uuid.UUID
		Name      string
		Color     string
		CreatedAt time.Time
	}
	err := r.db.WithContext(ctx).
		Table("task_labels").
		Select("task_labels.task_id, labels.id, labels.name, labels.color, labels.created_at").
		Joins("JOIN labels ON labels.id = task_labels.label_id").
		Where("task_labels.task_id IN ?", taskIDs).
		Order("labels.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TaskID] = append(out[row.TaskID], model.Label{
			ID: row.ID, Name: row.Name, Color: row.Color, CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

// AssigneesFor batch-loads assignees for a set of tasks, ordered by name.
func (r *AssociationRepository) AssigneesFor(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]model.Assignee, error) {
	out := make(map[uuid.UUID][]model.Assignee, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		TaskID    uuid.UUID
		ID        uuid.UUID
		Name      string
		Email     *string
		CreatedAt time.Time
	}
	err := r.db.WithContext(ctx).
		Table("task_assignees").
		Select("task_assignees.task_id, assignees.id, assignees.name, assignees.email, assignees.created_at").
		Joins("JOIN assignees ON assignees.id = task_assignees.assignee_id").
		Where("task_assignees.task_id IN ?", taskIDs).
		Order("assignees.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TaskID] = append(out[row.TaskID], model.Assignee{
			ID: row.ID, Name: row.Name, Email: row.Email, CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (r *AssociationRepository) ensureExist(ctx context.Context, m any, ids []uuid.UUID, field string) error {
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(m).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return &model.ValidationError{Field: field, Reason: "references an unknown id"}
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
