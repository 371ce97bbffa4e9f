package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-tracker/internal/model"
)

// EventRepository handles storage for native calendar events.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Get(ctx context.Context, id string) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByProject fetches a project's events ordered by start date, optionally
// restricted to events contained in [from, to].
func (r *EventRepository) ListByProject(ctx context.Context, projectID string, from, to *time.Time) ([]model.CalendarEvent, error) {
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if from != nil && to != nil {
		q = q.Where("start_date >= ? AND end_date <= ?", *from, *to)
	}
	var events []model.CalendarEvent
	if err := q.Order("start_date ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Save upserts an event with uuid assignment and version compare-and-swap.
func (r *EventRepository) Save(ctx context.Context, event *model.CalendarEvent) error {
	db := r.db.WithContext(ctx)
	if event.ID == "" {
		event.ID = uuid.NewString()
		event.Version = 1
		if err := db.Create(event).Error; err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	}

	current := event.Version
	event.Version = current + 1
	res := db.Model(&model.CalendarEvent{}).
		Where("id = ? AND version = ?", event.ID, current).
		Select("*").Omit("id", "created_at").
		Updates(event)
	if res.Error != nil {
		event.Version = current
		return fmt.Errorf("update event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		event.Version = current
		return fmt.Errorf("update event %s: %w", event.ID, ErrVersionConflict)
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.CalendarEvent{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
