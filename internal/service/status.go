package service

import (
	"time"

	"project-tracker/internal/model"
)

// NextCompletedAt applies the completion-timestamp rule for a status
// transition. Entering DONE from any other state stamps the clock, leaving
// DONE clears it, and re-submitting the current status keeps the existing
// value so repeated updates cause no timestamp churn.
func NextCompletedAt(current, proposed model.Status, completedAt *time.Time, now time.Time) *time.Time {
	switch {
	case proposed == current:
		return completedAt
	case proposed == model.StatusDone:
		t := now
		return &t
	default:
		return nil
	}
}
