package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type AssigneeInput struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type AssigneeRepository struct {
	db *gorm.DB
}

func NewAssigneeRepository(db *gorm.DB) *AssigneeRepository {
	return &AssigneeRepository{db: db}
}

func (r *AssigneeRepository) Create(ctx context.Context, in AssigneeInput) (*model.Assignee, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &email
		if email == "" {
			in.Email = nil
		}
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	assignee := &model.Assignee{Name: in.Name, Email: in.Email}
	if err := r.db.WithContext(ctx).Create(assignee).Error; err != nil {
		return nil, txError("create assignee", err)
	}
	return assignee, nil
}

func (r *AssigneeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignee, error) {
	var assignee model.Assignee
	if err := r.db.WithContext(ctx).First(&assignee, "id = ?", id).Error; err != nil {
		return nil, notFound(err, model.ErrAssigneeNotFound)
	}
	return &assignee, nil
}

func (r *AssigneeRepository) GetAll(ctx context.Context) ([]model.Assignee, error) {
	var assignees []model.Assignee
	if err := r.db.WithContext(ctx).Order("name").Find(&assignees).Error; err != nil {
		return nil, err
	}
	return assignees, nil
}
