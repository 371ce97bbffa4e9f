package service

import (
	"strings"
	"time"

	"project-tracker/internal/model"
)

// Action labels for action-specific mutations. Generic updates instead get
// a comma-joined summary of their individual field changes.
const (
	ActionTaskCreated    = "Task Created"
	ActionAssignedTask   = "Assigned Task"
	ActionTeamAssigned   = "Team Assigned"
	ActionTeamRemoved    = "Team Removed"
	ActionAddedSubtask   = "Added Subtask"
	ActionDeletedSubtask = "Deleted Subtask"
)

// BuildEntry merges a change set into one audit entry. The action is the
// comma-joined human summary of every change, the details hold the rendered
// before/after pair per field. Returns ErrEmptyChangeSet for an empty set so
// callers skip the write instead of persisting a vacuous entry.
func BuildEntry(changes []Change, actorID string, now time.Time) (model.AuditEntry, error) {
	if len(changes) == 0 {
		return model.AuditEntry{}, ErrEmptyChangeSet
	}
	parts := make([]string, 0, len(changes))
	details := make(map[string]any, len(changes))
	for _, c := range changes {
		parts = append(parts, c.Summary)
		details[c.Field] = model.FieldDelta{
			From: detailValue(c.Mode, c.From),
			To:   detailValue(c.Mode, c.To),
		}
	}
	return model.AuditEntry{
		ActorID:   actorID,
		Action:    strings.Join(parts, ", "),
		Details:   details,
		Timestamp: now,
	}, nil
}

// ActionEntry records an action-specific mutation (assignment, subtask
// creation, team link) as exactly one entry with a fixed label.
func ActionEntry(action, actorID string, details map[string]any, now time.Time) model.AuditEntry {
	return model.AuditEntry{
		ActorID:   actorID,
		Action:    action,
		Details:   details,
		Timestamp: now,
	}
}

// detailValue renders a before/after value for the details payload. Text
// fields are preview-truncated; everything else renders in full.
func detailValue(mode CompareMode, v any) string {
	if mode == CompareText {
		return preview(textValue(v))
	}
	return renderValue(v)
}
