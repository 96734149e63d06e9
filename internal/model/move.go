package model

import "github.com/google/uuid"

// MoveRequest is a drop intent for one task. At most one of TargetIndex and
// TargetAnchorID should be set; with neither the task goes to the tail of
// TargetColumn.
type MoveRequest struct {
	TargetColumn    Status     `json:"target_column"`
	TargetIndex     *int       `json:"target_index,omitempty"`
	TargetAnchorID  *uuid.UUID `json:"target_anchor_id,omitempty"`
	ExpectedVersion *int       `json:"expected_version,omitempty"`
}

// MoveResult is the authoritative outcome of a move. Columns holds the full,
// position-ordered contents of every column the move touched.
type MoveResult struct {
	Task    Task              `json:"task"`
	Columns map[Status][]Task `json:"columns"`
	Moved   bool              `json:"moved"`
}
