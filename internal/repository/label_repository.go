package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type LabelInput struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"required"`
}

type LabelRepository struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Create adds a label. Names are unique ignoring case and the colour must
// come from model.LabelColors.
func (r *LabelRepository) Create(ctx context.Context, in LabelInput) (*model.Label, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.ToUpper(strings.TrimSpace(in.Color))
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !slices.Contains(model.LabelColors, in.Color) {
		return nil, &model.ValidationError{Field: "color", Reason: "must be one of the palette colours"}
	}

	label := &model.Label{Name: in.Name, Color: in.Color}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Label{}).Where("LOWER(name) = LOWER(?)", in.Name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &model.ValidationError{Field: "name", Reason: "already exists"}
		}
		return tx.Create(label).Error
	})
	if err != nil {
		return nil, txError("create label", err)
	}
	return label, nil
}

// GetByID retrieves a label by its ID
func (r *LabelRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Label, error) {
	var label model.Label
	if err := r.db.WithContext(ctx).First(&label, "id = ?", id).Error; err != nil {
		return nil, notFound(err, model.ErrLabelNotFound)
	}
	return &label, nil
}

// GetAll lists labels ordered by name
func (r *LabelRepository) GetAll(ctx context.Context) ([]model.Label, error) {
	var labels []model.Label
	if err := r.db.WithContext(ctx).Order("name").Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}
