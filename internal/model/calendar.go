package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// EventType classifies native calendar events. TASK_DUE is reserved for
// projected task/subtask due dates.
type EventType string

const (
	EventTaskDue   EventType = "TASK_DUE"
	EventMilestone EventType = "MILESTONE"
	EventMeeting   EventType = "MEETING"
	EventReminder  EventType = "REMINDER"
)

// ParseEventType validates a raw event type value.
func ParseEventType(raw string) (EventType, error) {
	switch EventType(raw) {
	case EventTaskDue, EventMilestone, EventMeeting, EventReminder:
		return EventType(raw), nil
	}
	return "", fmt.Errorf("unknown event type %q", raw)
}

// EventStatus is the scheduling state of a calendar item.
type EventStatus string

const (
	EventScheduled  EventStatus = "SCHEDULED"
	EventInProgress EventStatus = "IN_PROGRESS"
	EventCompleted  EventStatus = "COMPLETED"
	EventCancelled  EventStatus = "CANCELLED"
)

// ParseEventStatus validates a raw event status value.
func ParseEventStatus(raw string) (EventStatus, error) {
	switch EventStatus(raw) {
	case EventScheduled, EventInProgress, EventCompleted, EventCancelled:
		return EventStatus(raw), nil
	}
	return "", fmt.Errorf("unknown event status %q", raw)
}

// CalendarEvent is a native, independently owned calendar record. Its uuid
// id space never collides with the prefixed synthetic ids that project
// task/subtask due dates onto the calendar.
type CalendarEvent struct {
	ID             string `gorm:"primaryKey"`
	Title          string
	Description    string
	StartDate      time.Time
	EndDate        time.Time
	ProjectID      string  `gorm:"index"`
	TaskID         *string `gorm:"index"`
	CreatedBy      string
	ParticipantIDs datatypes.JSONSlice[string]
	EventType      EventType
	Status         EventStatus
	Priority       Priority
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
