package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"printdesk-backend/internal/config"
	"printdesk-backend/internal/jobs"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/notify"
	"printdesk-backend/internal/repository/postgres"
	"printdesk-backend/internal/scheduler"
	"printdesk-backend/internal/service"
	"printdesk-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-due-date-reminders', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PrintDesk Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Storage Service (orphan cleanup needs it)
	var storageService storage.StorageInterface
	switch cfg.Storage.Type {
	case "", "local":
		storageService, err = storage.NewLocalStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	case "gcs":
		storageService, err = storage.NewGCSStorageService(context.Background(), cfg.Storage.Bucket, cfg.Storage.CredentialsFile)
	default:
		log.Fatalf("Unsupported storage type: %s", cfg.Storage.Type)
	}
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize Services
	emailService := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)

	// The cronjob process has no websocket listeners of its own; events
	// published here only reach listeners when jobs run inside the server
	// process. A standalone runner still records inbox notifications.
	hub := notify.NewHub()

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, emailService, hub, storageService, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "send-due-date-reminders":
		jobRunner.SendDueDateReminders()
	case "notify-stale-pending":
		jobRunner.NotifyStalePending()
	case "cleanup-orphan-artifacts":
		jobRunner.CleanupOrphanArtifacts()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - send-due-date-reminders\n")
		fmt.Printf("  - notify-stale-pending\n")
		fmt.Printf("  - cleanup-orphan-artifacts\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
