package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/internal/model"
)

func TestTaskCreateDefaults(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")

	task := e.createTask(t, project.ID, TaskInput{Title: "Fix login flow"})

	assert.Equal(t, model.StatusBacklog, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Nil(t, task.CompletedAt)
	require.Len(t, task.ActivityLog, 1)
	assert.Equal(t, "Task Created", task.ActivityLog[0].Action)

	got, err := e.projects.Get(e.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{task.ID}, []string(got.TaskIDs))
}

func TestTaskCreateValidation(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")

	_, err := e.taskSvc.Create(e.ctx, project.ID, TaskInput{ReporterID: "u-1"})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = e.taskSvc.Create(e.ctx, project.ID, TaskInput{Title: "No reporter"})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = e.taskSvc.Create(e.ctx, "missing", TaskInput{Title: "T", ReporterID: "u-1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskStatusRoundTrip(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")
	task := e.createTask(t, project.ID, TaskInput{Status: model.StatusTodo})

	// TODO -> DONE stamps completedAt, writes one merged entry and lifts
	// the single-task project's progress to 100.
	updated, err := e.taskSvc.ApplyUpdate(e.ctx, task.ID, FieldMap{"status": "DONE"}, "u-actor")
	require.NoError(t, err)

	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, fixedNow, *updated.CompletedAt)
	require.Len(t, updated.ActivityLog, 2)
	assert.Equal(t, "Status changed from TO DO to DONE", updated.ActivityLog[1].Action)

	got, err := e.projects.Get(e.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)

	// DONE -> TODO clears the stamp and drops progress back to 0.
	updated, err = e.taskSvc.ApplyUpdate(e.ctx, updated.ID, FieldMap{"status": "TODO"}, "u-actor")
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)

	got, err = e.projects.Get(e.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)
}

func TestTaskNoOpUpdateWritesNothing(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")
	task := e.createTask(t, project.ID, TaskInput{Status: model.StatusTodo})

	updated, err := e.taskSvc.ApplyUpdate(e.ctx, task.ID, FieldMap{"status": "TODO", "title": "Fix login flow"}, "u-actor")
	require.NoError(t, err)
	assert.Len(t, updated.ActivityLog, 1)
	assert.Equal(t, task.Version, updated.Version)
}

func TestTaskUpdateMergesChangesIntoOneEntry(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")
	task := e.createTask(t, project.ID, TaskInput{Status: model.StatusTodo, Priority: model.PriorityLow})

	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	updated, err := e.taskSvc.ApplyUpdate(e.ctx, task.ID, FieldMap{
		"status":   "IN_PROGRESS",
		"priority": "HIGH",
		"dueDate":  due.Format(time.RFC3339),
	}, "u-actor")
	require.NoError(t, err)

	require.Len(t, updated.ActivityLog, 2)
	entry := updated.ActivityLog[1]
	assert.Equal(t, "Status changed from TO DO to IN PROGRESS, Priority changed from LOW to HIGH, Due date updated", entry.Action)
	assert.Equal(t, "u-actor", entry.ActorID)
	assert.Len(t, entry.Details, 3)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))
}

func TestTaskUpdateRejectsMalformedValues(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")
	task := e.createTask(t, project.ID, TaskInput{})

	_, err := e.taskSvc.ApplyUpdate(e.ctx, task.ID, FieldMap{"status": "SHIPPED"}, "u-actor")
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = e.taskSvc.ApplyUpdate(e.ctx, task.ID, FieldMap{"dueDate": "tomorrow"}, "u-actor")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestTaskTeamAssignmentEntries(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")
	task := e.createTask(t, project.ID, TaskInput{})

	updated, err := e.taskSvc.ApplyUpdate(e.ctx, task.ID, FieldMap{"team": "team-core"}, "u-actor")
	require.NoError(t, err)
	require.NotNil(t, updated.TeamID)
	assert.Equal(t, "team-core", *updated.TeamID)
	require.Len(t, updated.ActivityLog, 2)
	assert.Equal(t, "Team Assigned", updated.ActivityLog[1].Action)

	// The team entry stays separate from the generic change summary.
	updated, err = e.taskSvc.ApplyUpdate(e.ctx, updated.ID, FieldMap{"team": nil, "priority": "HIGH"}, "u-actor")
	require.NoError(t, err)
	assert.Nil(t, updated.TeamID)
	require.Len(t, updated.ActivityLog, 4)
	assert.Equal(t, "Team Removed", updated.ActivityLog[2].Action)
	assert.Equal(t, "Priority changed from MEDIUM to HIGH", updated.ActivityLog[3].Action)
}

func TestTaskAssignIdempotent(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")
	task := e.createTask(t, project.ID, TaskInput{})

	assigned, err := e.taskSvc.Assign(e.ctx, task.ID, "u-dev", "u-lead")
	require.NoError(t, err)
	require.NotNil(t, assigned.AssigneeID)
	assert.Equal(t, "u-dev", *assigned.AssigneeID)
	require.Len(t, assigned.ActivityLog, 2)
	assert.Equal(t, "Assigned Task", assigned.ActivityLog[1].Action)

	again, err := e.taskSvc.Assign(e.ctx, task.ID, "u-dev", "u-lead")
	require.NoError(t, err)
	assert.Len(t, again.ActivityLog, 2)
}

func TestTaskDeleteCascades(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")
	keep := e.createTask(t, project.ID, TaskInput{Title: "Keep", Status: model.StatusDone})
	task := e.createTask(t, project.ID, TaskInput{Title: "Drop"})
	sub := e.createSubtask(t, task.ID, SubtaskInput{})

	require.NoError(t, e.taskSvc.Delete(e.ctx, task.ID))

	_, err := e.taskSvc.Get(e.ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.subSvc.Get(e.ctx, sub.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := e.projects.Get(e.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, []string(got.TaskIDs))
	assert.Equal(t, 100, got.Progress)

	assert.ErrorIs(t, e.taskSvc.Delete(e.ctx, task.ID), ErrNotFound)
}

func TestTaskListByProjectKeepsProjectOrder(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")
	first := e.createTask(t, project.ID, TaskInput{Title: "First"})
	second := e.createTask(t, project.ID, TaskInput{Title: "Second", Status: model.StatusDone})
	third := e.createTask(t, project.ID, TaskInput{Title: "Third"})

	tasks, err := e.taskSvc.ListByProject(e.ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID},
		[]string{tasks[0].ID, tasks[1].ID, tasks[2].ID})

	done, err := e.taskSvc.ListByProjectAndStatus(e.ctx, project.ID, model.StatusDone)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, second.ID, done[0].ID)

	counts, err := e.taskSvc.StatusCounts(e.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 2, counts.ByStatus[model.StatusBacklog])
	assert.Equal(t, 1, counts.ByStatus[model.StatusDone])
}

func TestTaskActivityLogSurvivesReload(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")
	task := e.createTask(t, project.ID, TaskInput{Status: model.StatusTodo})

	_, err := e.taskSvc.ApplyUpdate(e.ctx, task.ID, FieldMap{"status": "DONE"}, "u-actor")
	require.NoError(t, err)

	got, err := e.taskSvc.Get(e.ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, got.ActivityLog, 2)
	entry := got.ActivityLog[1]
	assert.Equal(t, "Status changed from TO DO to DONE", entry.Action)

	// Details round-trip through JSON as generic maps.
	delta, ok := entry.Details["status"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "TO DO", delta["from"])
	assert.Equal(t, "DONE", delta["to"])
}
