package model

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrLabelNotFound    = errors.New("label not found")
	ErrAssigneeNotFound = errors.New("assignee not found")

	// ErrVersionConflict means the stored version no longer matches the one
	// the caller read. Nothing was written.
	ErrVersionConflict = errors.New("version conflict")
)

// ValidationError reports malformed input rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransactionError wraps a storage-level failure that aborted a write.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
