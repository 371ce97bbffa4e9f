package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/repository"
	"project-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	progressSvc := service.NewProgressService(projectRepo, taskRepo, logger)

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.ReconcileInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.ReconcileInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := progressSvc.ReconcileAll(jobCtx); err != nil {
				logger.Warn("progress reconcile sweep failed", "error", err)
			}
		}); err != nil {
			log.Fatalf("schedule reconcile: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Println("Project tracker started.")
	<-ctx.Done()
	log.Println("Shutdown complete.")
}
