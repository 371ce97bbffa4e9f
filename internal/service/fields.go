package service

import (
	"fmt"
	"time"

	"project-tracker/internal/model"
)

// workItemFieldSpecs is the schema table driving the diff engine for tasks
// and subtasks. The order here is the order changes appear in summaries.
var workItemFieldSpecs = []FieldSpec{
	{Name: "status", Label: "Status", Mode: CompareScalar, Style: SummaryFromTo},
	{Name: "assignee", Label: "Assignee", Mode: CompareReference, Style: SummaryUpdated},
	{Name: "priority", Label: "Priority", Mode: CompareScalar, Style: SummaryFromTo},
	{Name: "reporter", Label: "Reporter", Mode: CompareReference, Style: SummaryChanged},
	{Name: "dueDate", Label: "Due date", Mode: CompareDate, Style: SummaryUpdated},
	{Name: "title", Label: "Title", Mode: CompareText, Style: SummaryQuoted},
	{Name: "description", Label: "Description", Mode: CompareText, Style: SummaryUpdated},
}

func taskSnapshot(t *model.Task) FieldMap {
	return FieldMap{
		"status":      t.Status,
		"assignee":    t.AssigneeID,
		"priority":    t.Priority,
		"reporter":    t.ReporterID,
		"dueDate":     t.DueDate,
		"title":       t.Title,
		"description": t.Description,
	}
}

func subtaskSnapshot(s *model.Subtask) FieldMap {
	return FieldMap{
		"status":      s.Status,
		"assignee":    s.AssigneeID,
		"priority":    s.Priority,
		"reporter":    s.ReporterID,
		"dueDate":     s.DueDate,
		"title":       s.Title,
		"description": s.Description,
	}
}

// normalizeFields coerces a loosely-typed update payload into the typed
// effective values an update will write. Unknown keys are dropped rather
// than rejected; malformed values for known keys are invalid operations.
func normalizeFields(fields FieldMap) (FieldMap, error) {
	out := make(FieldMap, len(fields))
	for name, raw := range fields {
		switch name {
		case "status":
			status, err := toStatus(raw)
			if err != nil {
				return nil, fmt.Errorf("field status: %s: %w", err, ErrInvalidOperation)
			}
			out[name] = status
		case "priority":
			priority, err := toPriority(raw)
			if err != nil {
				return nil, fmt.Errorf("field priority: %s: %w", err, ErrInvalidOperation)
			}
			out[name] = priority
		case "assignee":
			ref, err := toRef(raw)
			if err != nil {
				return nil, fmt.Errorf("field assignee: %s: %w", err, ErrInvalidOperation)
			}
			out[name] = ref
		case "reporter":
			ref, err := toRef(raw)
			if err != nil {
				return nil, fmt.Errorf("field reporter: %s: %w", err, ErrInvalidOperation)
			}
			// A reporter is mandatory; an empty value means "leave as is".
			if ref != nil {
				out[name] = *ref
			}
		case "dueDate":
			date, err := toDate(raw)
			if err != nil {
				return nil, fmt.Errorf("field dueDate: %s: %w", err, ErrInvalidOperation)
			}
			out[name] = date
		case "title":
			text, err := toText(raw)
			if err != nil {
				return nil, fmt.Errorf("field title: %s: %w", err, ErrInvalidOperation)
			}
			// A title is mandatory; an empty value means "leave as is".
			if text != "" {
				out[name] = text
			}
		case "description":
			text, err := toText(raw)
			if err != nil {
				return nil, fmt.Errorf("field description: %s: %w", err, ErrInvalidOperation)
			}
			out[name] = text
		}
	}
	return out, nil
}

func applyTaskFields(task *model.Task, fields FieldMap) {
	if v, ok := fields["status"]; ok {
		task.Status = v.(model.Status)
	}
	if v, ok := fields["assignee"]; ok {
		task.AssigneeID = v.(*string)
	}
	if v, ok := fields["priority"]; ok {
		task.Priority = v.(model.Priority)
	}
	if v, ok := fields["reporter"]; ok {
		task.ReporterID = v.(string)
	}
	if v, ok := fields["dueDate"]; ok {
		task.DueDate = v.(*time.Time)
	}
	if v, ok := fields["title"]; ok {
		task.Title = v.(string)
	}
	if v, ok := fields["description"]; ok {
		task.Description = v.(string)
	}
}

func applySubtaskFields(subtask *model.Subtask, fields FieldMap) {
	if v, ok := fields["status"]; ok {
		subtask.Status = v.(model.Status)
	}
	if v, ok := fields["assignee"]; ok {
		subtask.AssigneeID = v.(*string)
	}
	if v, ok := fields["priority"]; ok {
		subtask.Priority = v.(model.Priority)
	}
	if v, ok := fields["reporter"]; ok {
		subtask.ReporterID = v.(string)
	}
	if v, ok := fields["dueDate"]; ok {
		subtask.DueDate = v.(*time.Time)
	}
	if v, ok := fields["title"]; ok {
		subtask.Title = v.(string)
	}
	if v, ok := fields["description"]; ok {
		subtask.Description = v.(string)
	}
}

func toStatus(v any) (model.Status, error) {
	switch val := v.(type) {
	case model.Status:
		return model.ParseStatus(string(val))
	case string:
		return model.ParseStatus(val)
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

func toPriority(v any) (model.Priority, error) {
	switch val := v.(type) {
	case model.Priority:
		return model.ParsePriority(string(val))
	case string:
		return model.ParsePriority(val)
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

// toRef normalizes a user/team reference. nil and "" both clear the field.
func toRef(v any) (*string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case *string:
		if val == nil || *val == "" {
			return nil, nil
		}
		ref := *val
		return &ref, nil
	case string:
		if val == "" {
			return nil, nil
		}
		ref := val
		return &ref, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func toDate(v any) (*time.Time, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		return val, nil
	case time.Time:
		t := val
		return &t, nil
	case string:
		if val == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func toText(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
