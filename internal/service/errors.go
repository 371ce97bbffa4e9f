package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"project-tracker/internal/repository"
)

var (
	// ErrNotFound reports that an entity, or the target behind a synthetic
	// calendar id, does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation reports a structurally disallowed mutation, such
	// as deleting a task due date through the calendar.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrEmptyChangeSet guards against persisting a vacuous audit entry.
	// Callers skip entry creation instead of surfacing it.
	ErrEmptyChangeSet = errors.New("empty change set")

	// ErrConflict is returned when a save loses the optimistic-concurrency
	// race against another writer of the same entity.
	ErrConflict = repository.ErrVersionConflict
)

// storeErr translates storage lookup failures into the service taxonomy.
func storeErr(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return err
}
