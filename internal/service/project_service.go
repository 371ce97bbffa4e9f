package service

import (
	"context"
	"fmt"

	"project-tracker/internal/model"
	"project-tracker/internal/repository"
)

// ProjectInput represents data required to create a project.
type ProjectInput struct {
	Name        string
	Description string
	CreatedBy   string
	Status      model.ProjectStatus
}

// ProjectService provides project CRUD and membership management. Progress
// and the task list are derived elsewhere and never pass through here.
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
}

func NewProjectService(projectRepo *repository.ProjectRepository, userRepo *repository.UserRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, userRepo: userRepo}
}

// Create starts a project with its creator as the first member.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*model.Project, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrInvalidOperation)
	}
	if input.CreatedBy == "" {
		return nil, fmt.Errorf("creator is required: %w", ErrInvalidOperation)
	}

	project := &model.Project{
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
		Status:      input.Status,
		MemberIDs:   []string{input.CreatedBy},
	}
	if project.Status == "" {
		project.Status = model.ProjectPlanning
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID string) (*model.Project, error) {
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project", projectID)
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.projectRepo.List(ctx)
}

// ListByMember returns the projects a user belongs to.
func (s *ProjectService) ListByMember(ctx context.Context, userID string) ([]model.Project, error) {
	return s.projectRepo.ListByMember(ctx, userID)
}

// Update applies name/description/status changes. The derived fields
// (progress, task list, members) are managed by their own operations.
func (s *ProjectService) Update(ctx context.Context, projectID string, fields FieldMap) (*model.Project, error) {
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project", projectID)
	}

	changed := false
	for name, raw := range fields {
		switch name {
		case "name":
			text, err := toText(raw)
			if err != nil || text == "" {
				return nil, fmt.Errorf("field name: %w", ErrInvalidOperation)
			}
			changed = changed || project.Name != text
			project.Name = text
		case "description":
			text, err := toText(raw)
			if err != nil {
				return nil, fmt.Errorf("field description: %w", ErrInvalidOperation)
			}
			changed = changed || project.Description != text
			project.Description = text
		case "status":
			text, err := toText(raw)
			if err != nil {
				return nil, fmt.Errorf("field status: %w", ErrInvalidOperation)
			}
			status, err := model.ParseProjectStatus(text)
			if err != nil {
				return nil, fmt.Errorf("field status: %s: %w", err, ErrInvalidOperation)
			}
			changed = changed || project.Status != status
			project.Status = status
		}
	}
	if !changed {
		return project, nil
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID string) error {
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return storeErr(err, "project", projectID)
	}
	return nil
}

// AddMember adds a user to the project. Adding an existing member is
// rejected so callers can tell the difference.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID string) (*model.Project, error) {
	if userID == "" {
		return nil, fmt.Errorf("user is required: %w", ErrInvalidOperation)
	}
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project", projectID)
	}
	for _, member := range project.MemberIDs {
		if member == userID {
			return nil, fmt.Errorf("user %s is already a member: %w", userID, ErrInvalidOperation)
		}
	}

	project.MemberIDs = append(project.MemberIDs, userID)
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Members resolves the project's member refs to user records.
func (s *ProjectService) Members(ctx context.Context, projectID string) ([]model.User, error) {
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project", projectID)
	}
	return s.userRepo.ListByIDs(ctx, project.MemberIDs)
}
