package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"gorm.io/gorm"

	"project-tracker/internal/model"
	"project-tracker/internal/repository"
)

// RecomputeProgress returns a project's completion percentage for a task
// set: the rounded share of DONE tasks, 0 when the set is empty. Pure and
// idempotent.
func RecomputeProgress(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, task := range tasks {
		if task.IsCompleted() {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(tasks)) * 100))
}

// ProgressService recomputes and persists derived project progress.
type ProgressService struct {
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	logger      *slog.Logger
}

func NewProgressService(projectRepo *repository.ProjectRepository, taskRepo *repository.TaskRepository, logger *slog.Logger) *ProgressService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressService{projectRepo: projectRepo, taskRepo: taskRepo, logger: logger}
}

// RecomputeProject reloads a project's tasks and persists the recomputed
// progress. An unchanged value writes nothing.
func (s *ProgressService) RecomputeProject(ctx context.Context, projectID string) (*model.Project, error) {
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project", projectID)
	}
	tasks, err := s.taskRepo.ListByIDs(ctx, project.TaskIDs)
	if err != nil {
		return nil, err
	}

	next := RecomputeProgress(tasks)
	if project.Progress == next {
		return project, nil
	}
	project.Progress = next
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// RecomputeForTask recomputes progress for the project owning the task.
// A task without an owning project is not an error.
func (s *ProgressService) RecomputeForTask(ctx context.Context, taskID string) (*model.Project, error) {
	project, err := s.projectRepo.FindByTask(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.RecomputeProject(ctx, project.ID)
}

// ReconcileAll sweeps every project. It backs the scheduled reconciler, so
// a single failing project is logged and skipped rather than aborting the
// sweep.
func (s *ProgressService) ReconcileAll(ctx context.Context) error {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, project := range projects {
		if _, err := s.RecomputeProject(ctx, project.ID); err != nil {
			s.logger.Warn("progress reconcile failed", "project", project.ID, "error", err)
		}
	}
	return nil
}
