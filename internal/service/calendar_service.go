package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"project-tracker/internal/model"
	"project-tracker/internal/repository"
)

// CalendarItem is the unified calendar record: either a native event or the
// synthetic projection of a task/subtask due date. Projections exist only
// as this view; they are never stored.
type CalendarItem struct {
	ID             string
	Title          string
	Description    string
	StartDate      time.Time
	EndDate        time.Time
	ProjectID      string
	TaskID         *string
	CreatedBy      string
	ParticipantIDs []string
	EventType      model.EventType
	Status         model.EventStatus
	Priority       model.Priority
	Synthetic      bool
}

// EventInput represents data required to create a native calendar event.
type EventInput struct {
	Title          string
	Description    string
	StartDate      time.Time
	EndDate        time.Time
	ProjectID      string
	TaskID         *string
	CreatedBy      string
	ParticipantIDs []string
	EventType      model.EventType
	Status         model.EventStatus
	Priority       model.Priority
}

// CalendarService presents one addressable space combining native events
// with due-date projections of tasks and subtasks.
type CalendarService struct {
	eventRepo   *repository.EventRepository
	taskRepo    *repository.TaskRepository
	subtaskRepo *repository.SubtaskRepository
	projectRepo *repository.ProjectRepository
}

func NewCalendarService(eventRepo *repository.EventRepository, taskRepo *repository.TaskRepository, subtaskRepo *repository.SubtaskRepository, projectRepo *repository.ProjectRepository) *CalendarService {
	return &CalendarService{
		eventRepo:   eventRepo,
		taskRepo:    taskRepo,
		subtaskRepo: subtaskRepo,
		projectRepo: projectRepo,
	}
}

// List returns a project's calendar: native events first, then task
// due-date projections in project task order, then subtask projections
// grouped under the same order. The three fetches run concurrently; any
// failure aborts the whole read.
func (s *CalendarService) List(ctx context.Context, projectID string, from, to *time.Time) ([]CalendarItem, error) {
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project", projectID)
	}

	var (
		events   []model.CalendarEvent
		tasks    []model.Task
		subtasks []model.Subtask
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.ListByProject(gctx, projectID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.taskRepo.ListByIDs(gctx, project.TaskIDs)
		return err
	})
	g.Go(func() error {
		var err error
		subtasks, err = s.subtaskRepo.ListDueByParents(gctx, project.TaskIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(tasks))
	for _, task := range tasks {
		titles[task.ID] = task.Title
	}

	items := make([]CalendarItem, 0, len(events)+len(tasks)+len(subtasks))
	for i := range events {
		items = append(items, itemFromEvent(&events[i]))
	}
	for i := range tasks {
		if tasks[i].DueDate == nil {
			continue
		}
		items = append(items, itemFromTask(&tasks[i], projectID))
	}
	for i := range subtasks {
		items = append(items, itemFromSubtask(&subtasks[i], titles[subtasks[i].ParentTaskID], projectID))
	}
	return items, nil
}

// Get resolves one calendar identifier, synthetic or native.
func (s *CalendarService) Get(ctx context.Context, id string) (*CalendarItem, error) {
	ref := ParseCalendarID(id)
	switch ref.Kind {
	case RefTask:
		task, err := s.taskRepo.Get(ctx, ref.ID)
		if err != nil {
			return nil, storeErr(err, "task", ref.ID)
		}
		if task.DueDate == nil {
			return nil, fmt.Errorf("task %s has no due date: %w", ref.ID, ErrNotFound)
		}
		item := itemFromTask(task, s.owningProjectID(ctx, task.ID))
		return &item, nil

	case RefSubtask:
		subtask, err := s.subtaskRepo.Get(ctx, ref.ID)
		if err != nil {
			return nil, storeErr(err, "subtask", ref.ID)
		}
		if subtask.DueDate == nil {
			return nil, fmt.Errorf("subtask %s has no due date: %w", ref.ID, ErrNotFound)
		}
		var parentTitle, projectID string
		if parent, err := s.taskRepo.Get(ctx, subtask.ParentTaskID); err == nil {
			parentTitle = parent.Title
			projectID = s.owningProjectID(ctx, parent.ID)
		}
		item := itemFromSubtask(subtask, parentTitle, projectID)
		return &item, nil

	default:
		event, err := s.eventRepo.Get(ctx, ref.ID)
		if err != nil {
			return nil, storeErr(err, "event", ref.ID)
		}
		item := itemFromEvent(event)
		return &item, nil
	}
}

// Create always creates a native event; synthetic items only come into
// existence through task/subtask due dates.
func (s *CalendarService) Create(ctx context.Context, input EventInput) (*CalendarItem, error) {
	switch {
	case input.Title == "":
		return nil, fmt.Errorf("title is required: %w", ErrInvalidOperation)
	case input.StartDate.IsZero() || input.EndDate.IsZero():
		return nil, fmt.Errorf("start and end dates are required: %w", ErrInvalidOperation)
	case input.EndDate.Before(input.StartDate):
		return nil, fmt.Errorf("end date precedes start date: %w", ErrInvalidOperation)
	case input.CreatedBy == "":
		return nil, fmt.Errorf("creator is required: %w", ErrInvalidOperation)
	}
	if _, err := s.projectRepo.Get(ctx, input.ProjectID); err != nil {
		return nil, storeErr(err, "project", input.ProjectID)
	}

	event := &model.CalendarEvent{
		Title:          input.Title,
		Description:    input.Description,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		ProjectID:      input.ProjectID,
		TaskID:         input.TaskID,
		CreatedBy:      input.CreatedBy,
		ParticipantIDs: input.ParticipantIDs,
		EventType:      input.EventType,
		Status:         input.Status,
		Priority:       input.Priority,
	}
	if event.EventType == "" {
		event.EventType = model.EventMeeting
	}
	if event.Status == "" {
		event.Status = model.EventScheduled
	}
	if event.Priority == "" {
		event.Priority = model.PriorityMedium
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	item := itemFromEvent(event)
	return &item, nil
}

// Update reschedules a calendar item. For a synthetic id only the date is
// honored and it is written through to the underlying task's or subtask's
// due date; for a native id this is a standard field update.
func (s *CalendarService) Update(ctx context.Context, id string, fields FieldMap) (*CalendarItem, error) {
	ref := ParseCalendarID(id)
	switch ref.Kind {
	case RefTask:
		due, err := syntheticDate(fields)
		if err != nil {
			return nil, err
		}
		task, err := s.taskRepo.Get(ctx, ref.ID)
		if err != nil {
			return nil, storeErr(err, "task", ref.ID)
		}
		task.DueDate = &due
		if err := s.taskRepo.Save(ctx, task); err != nil {
			return nil, err
		}
		item := itemFromTask(task, s.owningProjectID(ctx, task.ID))
		return &item, nil

	case RefSubtask:
		due, err := syntheticDate(fields)
		if err != nil {
			return nil, err
		}
		subtask, err := s.subtaskRepo.Get(ctx, ref.ID)
		if err != nil {
			return nil, storeErr(err, "subtask", ref.ID)
		}
		subtask.DueDate = &due
		if err := s.subtaskRepo.Save(ctx, subtask); err != nil {
			return nil, err
		}
		var parentTitle, projectID string
		if parent, err := s.taskRepo.Get(ctx, subtask.ParentTaskID); err == nil {
			parentTitle = parent.Title
			projectID = s.owningProjectID(ctx, parent.ID)
		}
		item := itemFromSubtask(subtask, parentTitle, projectID)
		return &item, nil

	default:
		event, err := s.eventRepo.Get(ctx, ref.ID)
		if err != nil {
			return nil, storeErr(err, "event", ref.ID)
		}
		if err := applyEventFields(event, fields); err != nil {
			return nil, err
		}
		if err := s.eventRepo.Save(ctx, event); err != nil {
			return nil, err
		}
		item := itemFromEvent(event)
		return &item, nil
	}
}

// Delete removes a native event. Synthetic ids are rejected: due dates live
// on their task or subtask and can only disappear with it.
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	ref := ParseCalendarID(id)
	if ref.Synthetic() {
		return fmt.Errorf("cannot delete task/subtask due dates directly: %w", ErrInvalidOperation)
	}
	if err := s.eventRepo.Delete(ctx, ref.ID); err != nil {
		return storeErr(err, "event", ref.ID)
	}
	return nil
}

// owningProjectID is best-effort context for projection records; a missing
// owner leaves it empty.
func (s *CalendarService) owningProjectID(ctx context.Context, taskID string) string {
	project, err := s.projectRepo.FindByTask(ctx, taskID)
	if err != nil {
		return ""
	}
	return project.ID
}

// syntheticDate extracts the one mutable field of a projection.
func syntheticDate(fields FieldMap) (time.Time, error) {
	raw, ok := fields["startDate"]
	if !ok {
		raw, ok = fields["dueDate"]
	}
	if !ok {
		return time.Time{}, fmt.Errorf("only the date of a due-date entry can be updated: %w", ErrInvalidOperation)
	}
	date, err := toDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("field startDate: %s: %w", err, ErrInvalidOperation)
	}
	if date == nil {
		return time.Time{}, fmt.Errorf("a due-date entry cannot be cleared from the calendar: %w", ErrInvalidOperation)
	}
	return *date, nil
}

func applyEventFields(event *model.CalendarEvent, fields FieldMap) error {
	for name, raw := range fields {
		switch name {
		case "title":
			text, err := toText(raw)
			if err != nil || text == "" {
				return fmt.Errorf("field title: %w", ErrInvalidOperation)
			}
			event.Title = text
		case "description":
			text, err := toText(raw)
			if err != nil {
				return fmt.Errorf("field description: %w", ErrInvalidOperation)
			}
			event.Description = text
		case "startDate":
			date, err := toDate(raw)
			if err != nil || date == nil {
				return fmt.Errorf("field startDate: %w", ErrInvalidOperation)
			}
			event.StartDate = *date
		case "endDate":
			date, err := toDate(raw)
			if err != nil || date == nil {
				return fmt.Errorf("field endDate: %w", ErrInvalidOperation)
			}
			event.EndDate = *date
		case "eventType":
			text, err := toText(raw)
			if err != nil {
				return fmt.Errorf("field eventType: %w", ErrInvalidOperation)
			}
			eventType, err := model.ParseEventType(text)
			if err != nil {
				return fmt.Errorf("field eventType: %s: %w", err, ErrInvalidOperation)
			}
			event.EventType = eventType
		case "status":
			text, err := toText(raw)
			if err != nil {
				return fmt.Errorf("field status: %w", ErrInvalidOperation)
			}
			status, err := model.ParseEventStatus(text)
			if err != nil {
				return fmt.Errorf("field status: %s: %w", err, ErrInvalidOperation)
			}
			event.Status = status
		case "priority":
			text, err := toText(raw)
			if err != nil {
				return fmt.Errorf("field priority: %w", ErrInvalidOperation)
			}
			priority, err := model.ParsePriority(text)
			if err != nil {
				return fmt.Errorf("field priority: %s: %w", err, ErrInvalidOperation)
			}
			event.Priority = priority
		case "task":
			ref, err := toRef(raw)
			if err != nil {
				return fmt.Errorf("field task: %w", ErrInvalidOperation)
			}
			event.TaskID = ref
		case "participants":
			ids, ok := raw.([]string)
			if !ok {
				return fmt.Errorf("field participants: %w", ErrInvalidOperation)
			}
			event.ParticipantIDs = ids
		}
	}
	if event.EndDate.Before(event.StartDate) {
		return fmt.Errorf("end date precedes start date: %w", ErrInvalidOperation)
	}
	return nil
}

func itemFromEvent(event *model.CalendarEvent) CalendarItem {
	return CalendarItem{
		ID:             event.ID,
		Title:          event.Title,
		Description:    event.Description,
		StartDate:      event.StartDate,
		EndDate:        event.EndDate,
		ProjectID:      event.ProjectID,
		TaskID:         event.TaskID,
		CreatedBy:      event.CreatedBy,
		ParticipantIDs: event.ParticipantIDs,
		EventType:      event.EventType,
		Status:         event.Status,
		Priority:       event.Priority,
	}
}

// itemFromTask projects a task's due date as a single-instant entry.
// Callers guarantee the due date is set.
func itemFromTask(task *model.Task, projectID string) CalendarItem {
	due := *task.DueDate
	var participants []string
	if task.AssigneeID != nil {
		participants = []string{*task.AssigneeID}
	}
	return CalendarItem{
		ID:             CalendarRef{Kind: RefTask, ID: task.ID}.String(),
		Title:          task.Title + " (Due)",
		StartDate:      due,
		EndDate:        due,
		ProjectID:      projectID,
		TaskID:         &task.ID,
		CreatedBy:      task.ReporterID,
		ParticipantIDs: participants,
		EventType:      model.EventTaskDue,
		Status:         dueStatus(task.Status),
		Priority:       task.Priority,
		Synthetic:      true,
	}
}

func itemFromSubtask(subtask *model.Subtask, parentTitle, projectID string) CalendarItem {
	due := *subtask.DueDate
	title := subtask.Title + " (Due)"
	if parentTitle != "" {
		title = parentTitle + " > " + title
	}
	var participants []string
	if subtask.AssigneeID != nil {
		participants = []string{*subtask.AssigneeID}
	}
	return CalendarItem{
		ID:             CalendarRef{Kind: RefSubtask, ID: subtask.ID}.String(),
		Title:          title,
		StartDate:      due,
		EndDate:        due,
		ProjectID:      projectID,
		TaskID:         &subtask.ParentTaskID,
		CreatedBy:      subtask.ReporterID,
		ParticipantIDs: participants,
		EventType:      model.EventTaskDue,
		Status:         dueStatus(subtask.Status),
		Priority:       subtask.Priority,
		Synthetic:      true,
	}
}

func dueStatus(status model.Status) model.EventStatus {
	if status == model.StatusDone {
		return model.EventCompleted
	}
	return model.EventScheduled
}
