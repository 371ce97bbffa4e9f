package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// ProjectStatus is an independent workflow label, not derived from tasks.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "Planning"
	ProjectActive    ProjectStatus = "Active"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectArchived  ProjectStatus = "Archived"
)

// ParseProjectStatus validates a raw project status value.
func ParseProjectStatus(raw string) (ProjectStatus, error) {
	switch ProjectStatus(raw) {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectArchived:
		return ProjectStatus(raw), nil
	}
	return "", fmt.Errorf("unknown project status %q", raw)
}

// Project owns an ordered list of task ids and a set of member ids.
// Progress is recomputed from task statuses and never hand-edited.
type Project struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Description string
	CreatedBy   string
	Status      ProjectStatus
	MemberIDs   datatypes.JSONSlice[string]
	TaskIDs     datatypes.JSONSlice[string]
	Progress    int
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
