package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"project-tracker/internal/model"
	"project-tracker/internal/repository"
)

// fixedNow keeps test timestamps deterministic.
var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type env struct {
	ctx      context.Context
	users    *repository.UserRepository
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	subtasks *repository.SubtaskRepository
	events   *repository.EventRepository

	progress *ProgressService
	taskSvc  *TaskService
	subSvc   *SubtaskService
	projSvc  *ProjectService
	calSvc   *CalendarService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)

	logger := slog.Default()
	e := &env{
		ctx:      context.Background(),
		users:    repository.NewUserRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
		subtasks: repository.NewSubtaskRepository(db),
		events:   repository.NewEventRepository(db),
	}
	e.progress = NewProgressService(e.projects, e.tasks, logger)
	e.taskSvc = NewTaskService(e.tasks, e.subtasks, e.projects, e.progress)
	e.taskSvc.now = func() time.Time { return fixedNow }
	e.subSvc = NewSubtaskService(e.subtasks, e.tasks, logger)
	e.subSvc.now = func() time.Time { return fixedNow }
	e.projSvc = NewProjectService(e.projects, e.users)
	e.calSvc = NewCalendarService(e.events, e.tasks, e.subtasks, e.projects)
	return e
}

func (e *env) createProject(t *testing.T, name string) *model.Project {
	t.Helper()
	project, err := e.projSvc.Create(e.ctx, ProjectInput{Name: name, CreatedBy: "u-creator"})
	require.NoError(t, err)
	return project
}

func (e *env) createTask(t *testing.T, projectID string, input TaskInput) *model.Task {
	t.Helper()
	if input.Title == "" {
		input.Title = "Fix login flow"
	}
	if input.ReporterID == "" {
		input.ReporterID = "u-reporter"
	}
	task, err := e.taskSvc.Create(e.ctx, projectID, input)
	require.NoError(t, err)
	return task
}

func (e *env) createSubtask(t *testing.T, taskID string, input SubtaskInput) *model.Subtask {
	t.Helper()
	if input.Title == "" {
		input.Title = "Write tests"
	}
	subtask, err := e.subSvc.Add(e.ctx, taskID, input, "u-actor")
	require.NoError(t, err)
	return subtask
}

func timePtr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }
