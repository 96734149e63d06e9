package repository

import (
	"errors"

	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// txError passes domain errors through untouched and wraps storage failures
// as a TransactionError.
func txError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, model.ErrTaskNotFound),
		errors.Is(err, model.ErrVersionConflict),
		errors.Is(err, model.ErrLabelNotFound),
		errors.Is(err, model.ErrAssigneeNotFound),
		errors.Is(err, ordering.ErrInconsistentColumn),
		errors.Is(err, ordering.ErrTaskNotInColumns):
		return err
	}
	var te *model.TransactionError
	if errors.As(err, &te) {
		return err
	}
	return &model.TransactionError{Op: op, Err: err}
}
