package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "printdesk-backend/internal/api/http"
	"printdesk-backend/internal/config"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/notify"
	"printdesk-backend/internal/repository/postgres"
	"printdesk-backend/internal/security"
	"printdesk-backend/internal/service"
	"printdesk-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PrintDesk Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Apply pending schema migrations
	if err := postgres.RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Storage Service
	var storageService storage.StorageInterface
	var localStore storage.StorageInterface
	switch cfg.Storage.Type {
	case "", "local":
		logger.Info("Using local file storage", "upload_dir", cfg.Storage.UploadDir)
		local, err := storage.NewLocalStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		storageService = local
		localStore = local
	case "gcs":
		logger.Info("Using GCS file storage", "bucket", cfg.Storage.Bucket)
		gcs, err := storage.NewGCSStorageService(context.Background(), cfg.Storage.Bucket, cfg.Storage.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize GCS storage", "error", err)
			log.Fatalf("Failed to initialize GCS storage: %v", err)
		}
		storageService = gcs
	default:
		log.Fatalf("Unsupported storage type: %s", cfg.Storage.Type)
	}

	// Initialize realtime fan-out hub
	hub := notify.NewHub()

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	authSvc := service.NewAuthService(store.UserRepository, store.OrganizationRepository, tokenManager)
	accountSvc := service.NewAccountService(store.UserRepository, store.OrganizationRepository, emailSvc)
	requestSvc := service.NewRequestService(
		store.RequestRepository,
		store.UserRepository,
		store.OrganizationRepository,
		store.NotificationRepository,
		storageService,
		hub,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP handlers
	authMW := httpapi.NewAuthMiddleware(tokenManager, authSvc)
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc),
		Account:      httpapi.NewAccountHandler(accountSvc),
		Request:      httpapi.NewRequestHandler(requestSvc, cfg.Storage.MaxFileSizeMB, cfg.Storage.AllowedTypes),
		Notification: httpapi.NewNotificationHandler(noteSvc),
		WS:           httpapi.NewWSHandler(hub, authMW),
		AuthMW:       authMW,
		LocalStore:   localStore,
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
