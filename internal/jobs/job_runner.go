package jobs

import (
	"database/sql"

	"printdesk-backend/internal/config"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/notify"
	"printdesk-backend/internal/repository/postgres"
	"printdesk-backend/internal/service"
	"printdesk-backend/internal/storage"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db      *sql.DB
	store   *postgres.Store
	email   service.EmailService
	hub     notify.Broadcaster
	files   storage.StorageInterface
	config  *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, email service.EmailService, hub notify.Broadcaster, files storage.StorageInterface, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:     db,
		store:  store,
		email:  email,
		hub:    hub,
		files:  files,
		config: cfg,
	}
}

// Config exposes the loaded configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllJobs runs every job once (for manual execution)
func (jr *JobRunner) RunAllJobs() {
	jr.SendDueDateReminders()
	jr.NotifyStalePending()
	jr.CleanupOrphanArtifacts()
}
