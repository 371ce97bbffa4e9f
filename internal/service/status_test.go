package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/internal/model"
)

func TestNextCompletedAt(t *testing.T) {
	earlier := fixedNow.Add(-48 * time.Hour)

	t.Run("entering done stamps the clock", func(t *testing.T) {
		got := NextCompletedAt(model.StatusInProgress, model.StatusDone, nil, fixedNow)
		require.NotNil(t, got)
		assert.Equal(t, fixedNow, *got)
	})

	t.Run("leaving done clears the stamp", func(t *testing.T) {
		got := NextCompletedAt(model.StatusDone, model.StatusTodo, timePtr(earlier), fixedNow)
		assert.Nil(t, got)
	})

	t.Run("repeating done keeps the original stamp", func(t *testing.T) {
		got := NextCompletedAt(model.StatusDone, model.StatusDone, timePtr(earlier), fixedNow)
		require.NotNil(t, got)
		assert.Equal(t, earlier, *got)
	})

	t.Run("moves between open states stay unset", func(t *testing.T) {
		got := NextCompletedAt(model.StatusBacklog, model.StatusReview, nil, fixedNow)
		assert.Nil(t, got)
	})
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"BACKLOG", "TODO", "IN_PROGRESS", "REVIEW", "DONE"} {
		got, err := model.ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, model.Status(raw), got)
	}

	for _, raw := range []string{"todo", "CANCELLED", ""} {
		_, err := model.ParseStatus(raw)
		assert.Error(t, err, raw)
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "TO DO", model.StatusTodo.Label())
	assert.Equal(t, "IN PROGRESS", model.StatusInProgress.Label())
	assert.Equal(t, "DONE", model.StatusDone.Label())
}
