package model

import "fmt"

// Status is the workflow state of a task or subtask.
type Status string

const (
	StatusBacklog    Status = "BACKLOG"
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusDone       Status = "DONE"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return Status(raw), nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// Label returns the human-readable form used in activity summaries.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "TO DO"
	case StatusInProgress:
		return "IN PROGRESS"
	default:
		return string(s)
	}
}

// Priority orders tasks by urgency.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// ParsePriority validates a raw priority value.
func ParsePriority(raw string) (Priority, error) {
	switch Priority(raw) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(raw), nil
	}
	return "", fmt.Errorf("unknown priority %q", raw)
}
