package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     *string   `gorm:"size:2000" json:"description"`
	Status          Status    `gorm:"type:varchar(20);not null;uniqueIndex:idx_tasks_status_position,priority:1" json:"status"`
	Position        int       `gorm:"not null;uniqueIndex:idx_tasks_status_position,priority:2" json:"position"`
	Version         int       `gorm:"not null" json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	StatusChangedAt time.Time `gorm:"not null" json:"status_changed_at"`

	// Associations are composed after the row fetch, never stored on the row.
	Labels    []Label    `gorm:"-" json:"labels"`
	Assignees []Assignee `gorm:"-" json:"assignees"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TaskLabel links a task to a label.
type TaskLabel struct {
	TaskID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	LabelID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TaskAssignee links a task to an assignee.
type TaskAssignee struct {
	TaskID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	AssigneeID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}
