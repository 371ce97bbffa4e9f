package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-tracker/internal/model"
)

// SubtaskRepository handles storage for subtasks.
type SubtaskRepository struct {
	db *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) *SubtaskRepository {
	return &SubtaskRepository{db: db}
}

func (r *SubtaskRepository) Get(ctx context.Context, id string) (*model.Subtask, error) {
	var subtask model.Subtask
	if err := r.db.WithContext(ctx).First(&subtask, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (r *SubtaskRepository) ListByParent(ctx context.Context, parentTaskID string) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	if err := r.db.WithContext(ctx).
		Where("parent_task_id = ?", parentTaskID).
		Order("created_at ASC").
		Find(&subtasks).Error; err != nil {
		return nil, err
	}
	return subtasks, nil
}

// ListDueByParents fetches subtasks of the given parent tasks that carry a
// due date, grouped by parent in creation order.
func (r *SubtaskRepository) ListDueByParents(ctx context.Context, parentTaskIDs []string) ([]model.Subtask, error) {
	if len(parentTaskIDs) == 0 {
		return nil, nil
	}
	var subtasks []model.Subtask
	if err := r.db.WithContext(ctx).
		Where("parent_task_id IN ? AND due_date IS NOT NULL", parentTaskIDs).
		Order("parent_task_id ASC, created_at ASC").
		Find(&subtasks).Error; err != nil {
		return nil, err
	}
	return orderByIDs(subtasks, parentTaskIDs, func(s model.Subtask) string { return s.ParentTaskID }), nil
}

// Save upserts a subtask with the same uuid assignment and version
// compare-and-swap semantics as tasks.
func (r *SubtaskRepository) Save(ctx context.Context, subtask *model.Subtask) error {
	db := r.db.WithContext(ctx)
	if subtask.ID == "" {
		subtask.ID = uuid.NewString()
		subtask.Version = 1
		if err := db.Create(subtask).Error; err != nil {
			return fmt.Errorf("create subtask: %w", err)
		}
		return nil
	}

	current := subtask.Version
	subtask.Version = current + 1
	res := db.Model(&model.Subtask{}).
		Where("id = ? AND version = ?", subtask.ID, current).
		Select("*").Omit("id", "created_at").
		Updates(subtask)
	if res.Error != nil {
		subtask.Version = current
		return fmt.Errorf("update subtask: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		subtask.Version = current
		return fmt.Errorf("update subtask %s: %w", subtask.ID, ErrVersionConflict)
	}
	return nil
}

func (r *SubtaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Subtask{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete subtask: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByParent removes all subtasks of a task. Used by the task delete
// cascade; deleting zero rows is not an error.
func (r *SubtaskRepository) DeleteByParent(ctx context.Context, parentTaskID string) error {
	if err := r.db.WithContext(ctx).
		Delete(&model.Subtask{}, "parent_task_id = ?", parentTaskID).Error; err != nil {
		return fmt.Errorf("delete subtasks of %s: %w", parentTaskID, err)
	}
	return nil
}
