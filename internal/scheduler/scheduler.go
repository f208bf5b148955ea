package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"printdesk-backend/internal/jobs"
	"printdesk-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
	log  *slog.Logger
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
		log:  logger.WithService("scheduler"),
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	_, err := s.cron.AddFunc(cfg.SendDueDateReminders, s.jobs.SendDueDateReminders)
	if err != nil {
		s.log.Error("Failed to register SendDueDateReminders job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.NotifyStalePending, s.jobs.NotifyStalePending)
	if err != nil {
		s.log.Error("Failed to register NotifyStalePending job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.CleanupOrphanArtifacts, s.jobs.CleanupOrphanArtifacts)
	if err != nil {
		s.log.Error("Failed to register CleanupOrphanArtifacts job", "error", err)
	}

	s.log.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.log.Info("Starting cron scheduler...")
	s.cron.Start()
	s.log.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	s.log.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Cron scheduler stopped")
}
