package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskHistory records one stay of a task in a column. ExitedAt and Duration
// stay nil while the task is still there.
type TaskHistory struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"task_id"`
	Status    Status     `gorm:"type:varchar(20);not null" json:"status"`
	EnteredAt time.Time  `gorm:"not null" json:"entered_at"`
	ExitedAt  *time.Time `json:"exited_at"`
	Duration  *int64     `json:"duration"` // seconds
}

func (TaskHistory) TableName() string {
	return "task_history"
}

func (h *TaskHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
