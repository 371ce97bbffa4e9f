package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"project-tracker/internal/model"
)

// ProjectRepository handles storage for projects.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByMember fetches all projects whose member set contains the user.
func (r *ProjectRepository) ListByMember(ctx context.Context, userID string) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).
		Where(datatypes.JSONArrayQuery("member_ids").Contains(userID)).
		Order("created_at ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByTask resolves the project owning a task through id-set membership.
// Tasks hold no pointer back to their project.
func (r *ProjectRepository) FindByTask(ctx context.Context, taskID string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Where(datatypes.JSONArrayQuery("task_ids").Contains(taskID)).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Save upserts a project with uuid assignment and version compare-and-swap.
func (r *ProjectRepository) Save(ctx context.Context, project *model.Project) error {
	db := r.db.WithContext(ctx)
	if project.ID == "" {
		project.ID = uuid.NewString()
		project.Version = 1
		if err := db.Create(project).Error; err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		return nil
	}

	current := project.Version
	project.Version = current + 1
	res := db.Model(&model.Project{}).
		Where("id = ? AND version = ?", project.ID, current).
		Select("*").Omit("id", "created_at").
		Updates(project)
	if res.Error != nil {
		project.Version = current
		return fmt.Errorf("update project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		project.Version = current
		return fmt.Errorf("update project %s: %w", project.ID, ErrVersionConflict)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Project{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
