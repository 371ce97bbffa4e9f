package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"project-tracker/internal/model"
	"project-tracker/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	AssigneeID  *string
	ReporterID  string
	TeamID      *string
	DueDate     *time.Time
}

// StatusCounts summarizes a project's tasks per workflow state.
type StatusCounts struct {
	Total    int
	ByStatus map[model.Status]int
}

// TaskService orchestrates task mutations: status rules, diffing, audit
// logging and progress recomputation.
type TaskService struct {
	taskRepo    *repository.TaskRepository
	subtaskRepo *repository.SubtaskRepository
	projectRepo *repository.ProjectRepository
	progress    *ProgressService
	now         func() time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository, subtaskRepo *repository.SubtaskRepository, projectRepo *repository.ProjectRepository, progress *ProgressService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		subtaskRepo: subtaskRepo,
		projectRepo: projectRepo,
		progress:    progress,
		now:         time.Now,
	}
}

// Create adds a task to a project and recomputes the project's progress.
func (s *TaskService) Create(ctx context.Context, projectID string, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidOperation)
	}
	if input.ReporterID == "" {
		return nil, fmt.Errorf("reporter is required: %w", ErrInvalidOperation)
	}

	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project", projectID)
	}

	now := s.now()
	task := &model.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		AssigneeID:  input.AssigneeID,
		ReporterID:  input.ReporterID,
		TeamID:      input.TeamID,
		DueDate:     input.DueDate,
		ActivityLog: model.ActivityLog{
			ActionEntry(ActionTaskCreated, input.ReporterID, map[string]any{"title": input.Title}, now),
		},
	}
	if task.Status == "" {
		task.Status = model.StatusBacklog
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Status == model.StatusDone {
		task.CompletedAt = &now
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	project.TaskIDs = append(project.TaskIDs, task.ID)
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	if _, err := s.progress.RecomputeProject(ctx, project.ID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.Get(ctx, taskID)
	if err != nil {
		return nil, storeErr(err, "task", taskID)
	}
	return task, nil
}

// ListByProject returns a project's tasks in the project's task order.
func (s *TaskService) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project", projectID)
	}
	return s.taskRepo.ListByIDs(ctx, project.TaskIDs)
}

// ListByProjectAndStatus returns the project's tasks in one workflow state.
func (s *TaskService) ListByProjectAndStatus(ctx context.Context, projectID string, status model.Status) ([]model.Task, error) {
	tasks, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var filtered []model.Task
	for _, task := range tasks {
		if task.Status == status {
			filtered = append(filtered, task)
		}
	}
	return filtered, nil
}

// StatusCounts tallies a project's tasks by workflow state.
func (s *TaskService) StatusCounts(ctx context.Context, projectID string) (StatusCounts, error) {
	tasks, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return StatusCounts{}, err
	}
	counts := StatusCounts{Total: len(tasks), ByStatus: make(map[model.Status]int)}
	for _, task := range tasks {
		counts.ByStatus[task.Status]++
	}
	return counts, nil
}

// ApplyUpdate applies a partial field update to a task. Status-derived
// fields are normalized first, then the diff against the original values
// feeds the activity log; a no-op update writes nothing. A status change
// triggers recomputation of the owning project's progress.
func (s *TaskService) ApplyUpdate(ctx context.Context, taskID string, fields FieldMap, actorID string) (*model.Task, error) {
	task, err := s.taskRepo.Get(ctx, taskID)
	if err != nil {
		return nil, storeErr(err, "task", taskID)
	}

	proposed, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}

	now := s.now()
	old := taskSnapshot(task)
	if v, ok := proposed["status"]; ok {
		task.CompletedAt = NextCompletedAt(task.Status, v.(model.Status), task.CompletedAt, now)
	}

	changes := Diff(old, proposed, workItemFieldSpecs)
	applyTaskFields(task, proposed)

	var entries []model.AuditEntry
	if teamRaw, ok := fields["team"]; ok {
		entry, teamChanged, err := s.applyTeam(task, teamRaw, actorID, now)
		if err != nil {
			return nil, err
		}
		if teamChanged {
			entries = append(entries, entry)
		}
	}
	if len(changes) > 0 {
		entry, err := BuildEntry(changes, actorID, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		// Nothing actually changed; skip the save entirely.
		return task, nil
	}

	task.ActivityLog = append(task.ActivityLog, entries...)
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	if hasChange(changes, "status") {
		if _, err := s.progress.RecomputeForTask(ctx, task.ID); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// applyTeam links or unlinks the task's team. Team changes are logged as
// their own action entry, not merged into the generic change summary.
func (s *TaskService) applyTeam(task *model.Task, raw any, actorID string, now time.Time) (model.AuditEntry, bool, error) {
	team, err := toRef(raw)
	if err != nil {
		return model.AuditEntry{}, false, fmt.Errorf("field team: %s: %w", err, ErrInvalidOperation)
	}

	oldRef, oldSet := refValue(task.TeamID)
	newRef, newSet := refValue(team)
	if oldSet == newSet && oldRef == newRef {
		return model.AuditEntry{}, false, nil
	}

	task.TeamID = team
	if team != nil {
		return ActionEntry(ActionTeamAssigned, actorID, map[string]any{"team": *team}, now), true, nil
	}
	return ActionEntry(ActionTeamRemoved, actorID, map[string]any{"team": "None"}, now), true, nil
}

// Assign sets the task's assignee and records the assignment. Re-assigning
// the current assignee is a no-op.
func (s *TaskService) Assign(ctx context.Context, taskID, assigneeID, actorID string) (*model.Task, error) {
	if assigneeID == "" {
		return nil, fmt.Errorf("assignee is required: %w", ErrInvalidOperation)
	}
	task, err := s.taskRepo.Get(ctx, taskID)
	if err != nil {
		return nil, storeErr(err, "task", taskID)
	}
	if task.AssigneeID != nil && *task.AssigneeID == assigneeID {
		return task, nil
	}

	task.AssigneeID = &assigneeID
	task.ActivityLog = append(task.ActivityLog,
		ActionEntry(ActionAssignedTask, actorID, map[string]any{"assignedTo": assigneeID}, s.now()))
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task, cascades to its subtasks, unregisters it from the
// owning project and recomputes progress over the remaining set.
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	if _, err := s.taskRepo.Get(ctx, taskID); err != nil {
		return storeErr(err, "task", taskID)
	}

	project, err := s.projectRepo.FindByTask(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// An orphaned task can still be deleted.
		project = nil
	} else if err != nil {
		return err
	}

	if err := s.subtaskRepo.DeleteByParent(ctx, taskID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return storeErr(err, "task", taskID)
	}

	if project != nil {
		project.TaskIDs = removeID(project.TaskIDs, taskID)
		if err := s.projectRepo.Save(ctx, project); err != nil {
			return err
		}
		if _, err := s.progress.RecomputeProject(ctx, project.ID); err != nil {
			return err
		}
	}
	return nil
}

func hasChange(changes []Change, field string) bool {
	for _, c := range changes {
		if c.Field == field {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
