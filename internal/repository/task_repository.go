package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-tracker/internal/model"
)

// TaskRepository handles storage for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByIDs fetches all tasks in the given id set. Order follows the id set.
func (r *TaskRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return orderByIDs(tasks, ids, func(t model.Task) string { return t.ID }), nil
}

// ListDueByIDs fetches the tasks in the id set that carry a due date.
func (r *TaskRepository) ListDueByIDs(ctx context.Context, ids []string) ([]model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND due_date IS NOT NULL", ids).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return orderByIDs(tasks, ids, func(t model.Task) string { return t.ID }), nil
}

// Save upserts a task. A new task gets a uuid; an existing one is written
// with a version compare-and-swap so concurrent updates cannot silently
// overwrite each other.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	db := r.db.WithContext(ctx)
	if task.ID == "" {
		task.ID = uuid.NewString()
		task.Version = 1
		if err := db.Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		return nil
	}

	current := task.Version
	task.Version = current + 1
	res := db.Model(&model.Task{}).
		Where("id = ? AND version = ?", task.ID, current).
		Select("*").Omit("id", "created_at").
		Updates(task)
	if res.Error != nil {
		task.Version = current
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		task.Version = current
		return fmt.Errorf("update task %s: %w", task.ID, ErrVersionConflict)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// orderByIDs reorders rows to match the owning entity's id list. Rows whose
// id is not in the list keep their query order at the tail.
func orderByIDs[T any](rows []T, ids []string, id func(T) string) []T {
	pos := make(map[string]int, len(ids))
	for i, v := range ids {
		pos[v] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		pi, iok := pos[id(rows[i])]
		pj, jok := pos[id(rows[j])]
		if iok != jok {
			return iok
		}
		return iok && pi < pj
	})
	return rows
}
