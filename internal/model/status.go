package model

import (
	"fmt"
	"strings"
)

// Status is the board column a task sits in. The set is fixed and ordered.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusTesting    Status = "TESTING"
	StatusDone       Status = "DONE"
)

// Statuses lists every column in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusTesting, StatusDone}

// FirstStatus is where new tasks are created.
const FirstStatus = StatusTodo

func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Rank returns the column's index in board order, or -1 for unknown values.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts the canonical column names case-insensitively.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("must be one of %s", strings.Join(statusNames(), ", ")),
		}
	}
	return s, nil
}

func statusNames() []string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return names
}
