package model

import "time"

// FieldDelta is the before/after pair recorded for one changed field.
type FieldDelta struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AuditEntry is one record in an entity's activity log.
// Entries are append-only; insertion order is chronological.
type AuditEntry struct {
	ActorID   string         `json:"actorId"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ActivityLog is the ordered audit trail of a task or subtask.
type ActivityLog []AuditEntry
