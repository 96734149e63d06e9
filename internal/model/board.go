package model

// Board is the full read view: every task in board order plus the label and
// assignee catalogues.
type Board struct {
	Tasks     []Task     `json:"tasks"`
	Labels    []Label    `json:"labels"`
	Assignees []Assignee `json:"assignees"`
}
