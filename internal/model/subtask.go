package model

import "time"

// Subtask is a child work item nested inside a task's lifetime.
// Deleting the parent task cascades to its subtasks.
type Subtask struct {
	ID           string `gorm:"primaryKey"`
	ParentTaskID string `gorm:"index"`
	Title        string
	Description  string
	Status       Status
	Priority     Priority
	AssigneeID   *string `gorm:"index"`
	ReporterID   string
	CreatedBy    string
	DueDate      *time.Time
	CompletedAt  *time.Time
	ActivityLog  ActivityLog `gorm:"serializer:json"`
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsCompleted reports whether the subtask has reached DONE.
func (s *Subtask) IsCompleted() bool {
	return s.Status == StatusDone
}
