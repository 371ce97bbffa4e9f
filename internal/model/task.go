package model

import (
	"time"

	"gorm.io/datatypes"
)

// Task represents a single work item inside a project.
//
// The owning project keeps the list of task ids; a task carries no pointer
// back. CompletedAt is derived from status transitions and never set by hand.
type Task struct {
	ID          string `gorm:"primaryKey"`
	Title       string
	Description string
	Status      Status
	Priority    Priority
	AssigneeID  *string `gorm:"index"`
	ReporterID  string
	TeamID      *string
	DueDate     *time.Time
	CompletedAt *time.Time
	SubtaskIDs  datatypes.JSONSlice[string]
	ActivityLog ActivityLog `gorm:"serializer:json"`
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCompleted reports whether the task counts toward project progress.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusDone
}
