package service

import "strings"

const (
	taskIDPrefix    = "task-"
	subtaskIDPrefix = "subtask-"
)

// RefKind tags the three id spaces addressable through the calendar.
type RefKind int

const (
	// RefNative addresses a stored CalendarEvent.
	RefNative RefKind = iota
	// RefTask addresses the synthetic projection of a task's due date.
	RefTask
	// RefSubtask addresses the synthetic projection of a subtask's due date.
	RefSubtask
)

// CalendarRef is a parsed calendar identifier. Synthetic ids carry the
// task-/subtask- prefix; native event ids are uuids, so the two spaces
// cannot collide.
type CalendarRef struct {
	Kind RefKind
	ID   string
}

// ParseCalendarID classifies a calendar identifier. This is the only place
// id prefixes are inspected; everything downstream dispatches on the kind.
func ParseCalendarID(raw string) CalendarRef {
	if rest, ok := strings.CutPrefix(raw, subtaskIDPrefix); ok {
		return CalendarRef{Kind: RefSubtask, ID: rest}
	}
	if rest, ok := strings.CutPrefix(raw, taskIDPrefix); ok {
		return CalendarRef{Kind: RefTask, ID: rest}
	}
	return CalendarRef{Kind: RefNative, ID: raw}
}

// String renders the ref back into its addressable form. Parsing and
// rendering round-trip for every well-formed id.
func (r CalendarRef) String() string {
	switch r.Kind {
	case RefTask:
		return taskIDPrefix + r.ID
	case RefSubtask:
		return subtaskIDPrefix + r.ID
	default:
		return r.ID
	}
}

// Synthetic reports whether the ref points at a due-date projection rather
// than a stored event.
func (r CalendarRef) Synthetic() bool {
	return r.Kind != RefNative
}
