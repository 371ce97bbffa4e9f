package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"project-tracker/internal/model"
	"project-tracker/internal/repository"
)

// SubtaskInput represents data required to create a subtask.
type SubtaskInput struct {
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	AssigneeID  *string
	ReporterID  string
	DueDate     *time.Time
}

// SubtaskService orchestrates subtask mutations and mirrors their audit
// entries onto the parent task's log.
type SubtaskService struct {
	subtaskRepo *repository.SubtaskRepository
	taskRepo    *repository.TaskRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewSubtaskService(subtaskRepo *repository.SubtaskRepository, taskRepo *repository.TaskRepository, logger *slog.Logger) *SubtaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubtaskService{
		subtaskRepo: subtaskRepo,
		taskRepo:    taskRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Add creates a subtask under a task and records "Added Subtask" on the
// parent's log.
func (s *SubtaskService) Add(ctx context.Context, taskID string, input SubtaskInput, actorID string) (*model.Subtask, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidOperation)
	}

	task, err := s.taskRepo.Get(ctx, taskID)
	if err != nil {
		return nil, storeErr(err, "task", taskID)
	}

	now := s.now()
	reporter := input.ReporterID
	if reporter == "" {
		reporter = actorID
	}
	subtask := &model.Subtask{
		ParentTaskID: taskID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		AssigneeID:   input.AssigneeID,
		ReporterID:   reporter,
		CreatedBy:    actorID,
		DueDate:      input.DueDate,
	}
	if subtask.Status == "" {
		subtask.Status = model.StatusTodo
	}
	if subtask.Priority == "" {
		subtask.Priority = model.PriorityLow
	}
	if subtask.Status == model.StatusDone {
		subtask.CompletedAt = &now
	}

	if err := s.subtaskRepo.Save(ctx, subtask); err != nil {
		return nil, err
	}

	task.SubtaskIDs = append(task.SubtaskIDs, subtask.ID)
	task.ActivityLog = append(task.ActivityLog,
		ActionEntry(ActionAddedSubtask, actorID, map[string]any{
			"subtaskId":    subtask.ID,
			"subtaskTitle": subtask.Title,
		}, now))
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return subtask, nil
}

func (s *SubtaskService) Get(ctx context.Context, subtaskID string) (*model.Subtask, error) {
	subtask, err := s.subtaskRepo.Get(ctx, subtaskID)
	if err != nil {
		return nil, storeErr(err, "subtask", subtaskID)
	}
	return subtask, nil
}

// ListByTask returns a task's subtasks in creation order.
func (s *SubtaskService) ListByTask(ctx context.Context, taskID string) ([]model.Subtask, error) {
	if _, err := s.taskRepo.Get(ctx, taskID); err != nil {
		return nil, storeErr(err, "task", taskID)
	}
	return s.subtaskRepo.ListByParent(ctx, taskID)
}

// ApplyUpdate applies a partial field update to a subtask. The subtask gets
// one merged audit entry and the parent task a mirrored one; failing to
// reach the parent is logged but never fails the subtask update.
func (s *SubtaskService) ApplyUpdate(ctx context.Context, subtaskID string, fields FieldMap, actorID string) (*model.Subtask, error) {
	subtask, err := s.subtaskRepo.Get(ctx, subtaskID)
	if err != nil {
		return nil, storeErr(err, "subtask", subtaskID)
	}

	proposed, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}

	now := s.now()
	old := subtaskSnapshot(subtask)
	if v, ok := proposed["status"]; ok {
		subtask.CompletedAt = NextCompletedAt(subtask.Status, v.(model.Status), subtask.CompletedAt, now)
	}

	changes := Diff(old, proposed, workItemFieldSpecs)
	applySubtaskFields(subtask, proposed)

	if len(changes) == 0 {
		// Nothing actually changed; skip the save and both log writes.
		return subtask, nil
	}

	entry, err := BuildEntry(changes, actorID, now)
	if err != nil {
		return nil, err
	}
	subtask.ActivityLog = append(subtask.ActivityLog, entry)
	if err := s.subtaskRepo.Save(ctx, subtask); err != nil {
		return nil, err
	}

	s.mirrorToParent(ctx, subtask, entry)
	return subtask, nil
}

// mirrorToParent appends a reworded copy of a subtask's audit entry to the
// parent task's log. The parent reference may be stale, so any failure here
// is recoverable: the subtask update already succeeded.
func (s *SubtaskService) mirrorToParent(ctx context.Context, subtask *model.Subtask, entry model.AuditEntry) {
	parent, err := s.taskRepo.Get(ctx, subtask.ParentTaskID)
	if err != nil {
		s.logger.Warn("subtask change not mirrored to parent task",
			"subtask", subtask.ID, "parent", subtask.ParentTaskID, "error", err)
		return
	}

	details := make(map[string]any, len(entry.Details)+2)
	for k, v := range entry.Details {
		details[k] = v
	}
	details["subtaskId"] = subtask.ID
	details["subtaskTitle"] = subtask.Title

	parent.ActivityLog = append(parent.ActivityLog, model.AuditEntry{
		ActorID:   entry.ActorID,
		Action:    fmt.Sprintf("Subtask %q: %s", subtask.Title, entry.Action),
		Details:   details,
		Timestamp: entry.Timestamp,
	})
	if err := s.taskRepo.Save(ctx, parent); err != nil {
		s.logger.Warn("subtask change not mirrored to parent task",
			"subtask", subtask.ID, "parent", subtask.ParentTaskID, "error", err)
	}
}

// Delete removes a subtask, unregisters it from the parent and records
// "Deleted Subtask" on the parent's log.
func (s *SubtaskService) Delete(ctx context.Context, subtaskID, actorID string) error {
	subtask, err := s.subtaskRepo.Get(ctx, subtaskID)
	if err != nil {
		return storeErr(err, "subtask", subtaskID)
	}

	if err := s.subtaskRepo.Delete(ctx, subtaskID); err != nil {
		return storeErr(err, "subtask", subtaskID)
	}

	parent, err := s.taskRepo.Get(ctx, subtask.ParentTaskID)
	if err != nil {
		s.logger.Warn("deleted subtask had no reachable parent task",
			"subtask", subtaskID, "parent", subtask.ParentTaskID, "error", err)
		return nil
	}

	parent.SubtaskIDs = removeID(parent.SubtaskIDs, subtaskID)
	parent.ActivityLog = append(parent.ActivityLog,
		ActionEntry(ActionDeletedSubtask, actorID, map[string]any{"subtaskTitle": subtask.Title}, s.now()))
	if err := s.taskRepo.Save(ctx, parent); err != nil {
		s.logger.Warn("subtask deletion not recorded on parent task",
			"subtask", subtaskID, "parent", subtask.ParentTaskID, "error", err)
	}
	return nil
}
