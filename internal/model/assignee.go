package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Assignee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     *string   `gorm:"size:255" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Assignee) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
