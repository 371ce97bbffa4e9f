package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/internal/model"
)

func TestRecomputeProgressFormula(t *testing.T) {
	mk := func(statuses ...model.Status) []model.Task {
		tasks := make([]model.Task, len(statuses))
		for i, s := range statuses {
			tasks[i] = model.Task{Status: s}
		}
		return tasks
	}

	cases := []struct {
		name  string
		tasks []model.Task
		want  int
	}{
		{"empty set", nil, 0},
		{"none done", mk(model.StatusTodo, model.StatusInProgress), 0},
		{"half done", mk(model.StatusDone, model.StatusTodo), 50},
		{"all done", mk(model.StatusDone, model.StatusDone), 100},
		{"one of three rounds", mk(model.StatusDone, model.StatusTodo, model.StatusBacklog), 33},
		{"two of three rounds", mk(model.StatusDone, model.StatusDone, model.StatusReview), 67},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RecomputeProgress(tc.tasks))
		})
	}
}

func TestRecomputeProjectPersists(t *testing.T) {
	e := newEnv(t)
	project := e.createProject(t, "Apollo")

	e.createTask(t, project.ID, TaskInput{Title: "First"})
	done := e.createTask(t, project.ID, TaskInput{Title: "Second"})

	_, err := e.taskSvc.ApplyUpdate(e.ctx, done.ID, FieldMap{"status": "DONE"}, "u-actor")
	require.NoError(t, err)

	got, err := e.projects.Get(e.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Progress)

	// Reconciling again is a no-op, not an error.
	require.NoError(t, e.progress.ReconcileAll(e.ctx))
	got, err = e.projects.Get(e.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Progress)
}

func TestRecomputeForTaskWithoutProject(t *testing.T) {
	e := newEnv(t)
	task := &model.Task{Title: "Loose", Status: model.StatusTodo, Priority: model.PriorityMedium, ReporterID: "u-1"}
	require.NoError(t, e.tasks.Save(e.ctx, task))

	project, err := e.progress.RecomputeForTask(e.ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, project)
}
