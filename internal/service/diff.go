package service

import (
	"fmt"
	"time"

	"project-tracker/internal/model"
)

// previewLimit caps how much of a text field is rendered in summaries and
// details. Comparison always uses the full value.
const previewLimit = 50

// CompareMode selects how a tracked field's old and proposed values are
// compared.
type CompareMode int

const (
	// CompareScalar uses direct inequality.
	CompareScalar CompareMode = iota
	// CompareReference compares by stable string identity; absent versus
	// present counts as a change.
	CompareReference
	// CompareDate compares normalized instants; equal instants are
	// unchanged even if the source representations differ.
	CompareDate
	// CompareText compares the full value and truncates only the rendered
	// preview.
	CompareText
)

// SummaryStyle selects the wording of a change's human summary.
type SummaryStyle int

const (
	// SummaryFromTo renders "Status changed from TO DO to DONE".
	SummaryFromTo SummaryStyle = iota
	// SummaryQuoted renders `Title updated from "a" to "b"`.
	SummaryQuoted
	// SummaryUpdated renders "Due date updated", or "Due date removed"
	// when the value was cleared.
	SummaryUpdated
	// SummaryChanged renders "Reporter changed".
	SummaryChanged
)

// FieldSpec declares one comparable field of an entity. The declared order
// of a spec table fixes the order of emitted changes, so repeated runs over
// the same inputs are reproducible.
type FieldSpec struct {
	Name  string
	Label string
	Mode  CompareMode
	Style SummaryStyle
}

// FieldMap carries an update payload or a field snapshot. A key absent from
// a payload means the field is not part of the update.
type FieldMap map[string]any

// Change describes one field whose proposed value differs from the old one.
type Change struct {
	Field   string
	Label   string
	Mode    CompareMode
	From    any
	To      any
	Summary string
}

// Diff compares a field snapshot against a proposed partial update. Fields
// omitted from proposed are skipped; fields not in the spec table are
// ignored. Pure: no side effects, deterministic output order.
func Diff(old, proposed FieldMap, specs []FieldSpec) []Change {
	var changes []Change
	for _, spec := range specs {
		to, ok := proposed[spec.Name]
		if !ok {
			continue
		}
		from := old[spec.Name]
		if !fieldChanged(spec.Mode, from, to) {
			continue
		}
		changes = append(changes, Change{
			Field:   spec.Name,
			Label:   spec.Label,
			Mode:    spec.Mode,
			From:    from,
			To:      to,
			Summary: summarize(spec, from, to),
		})
	}
	return changes
}

func fieldChanged(mode CompareMode, from, to any) bool {
	switch mode {
	case CompareReference:
		fromRef, fromSet := refValue(from)
		toRef, toSet := refValue(to)
		return fromSet != toSet || fromRef != toRef
	case CompareDate:
		fromDate, fromSet := dateValue(from)
		toDate, toSet := dateValue(to)
		if fromSet != toSet {
			return true
		}
		return fromSet && !fromDate.Equal(toDate)
	case CompareText:
		return textValue(from) != textValue(to)
	default:
		return from != to
	}
}

func summarize(spec FieldSpec, from, to any) string {
	switch spec.Style {
	case SummaryQuoted:
		return fmt.Sprintf("%s updated from %q to %q", spec.Label, preview(textValue(from)), preview(textValue(to)))
	case SummaryUpdated:
		if valueAbsent(spec.Mode, to) {
			return spec.Label + " removed"
		}
		return spec.Label + " updated"
	case SummaryChanged:
		return spec.Label + " changed"
	default:
		return fmt.Sprintf("%s changed from %s to %s", spec.Label, renderValue(from), renderValue(to))
	}
}

func valueAbsent(mode CompareMode, v any) bool {
	switch mode {
	case CompareReference:
		_, set := refValue(v)
		return !set
	case CompareDate:
		_, set := dateValue(v)
		return !set
	default:
		return textValue(v) == ""
	}
}

// refValue normalizes a reference field to its string identity.
func refValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case *string:
		if val == nil || *val == "" {
			return "", false
		}
		return *val, true
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	default:
		return fmt.Sprint(val), true
	}
}

// dateValue normalizes a date field to an instant.
func dateValue(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case time.Time:
		return val, true
	default:
		return time.Time{}, false
	}
}

func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// renderValue produces the human-readable form of a field value for
// summaries and details. Absent values render as "None".
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case model.Status:
		return val.Label()
	case model.Priority:
		return string(val)
	case *string:
		if val == nil || *val == "" {
			return "None"
		}
		return *val
	case *time.Time:
		if val == nil {
			return "None"
		}
		return val.UTC().Format(time.RFC3339)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case string:
		if val == "" {
			return "None"
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}

func preview(text string) string {
	if text == "" {
		return "None"
	}
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}
