package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hinderager/web-agency-outreach/internal/analyzer"
	"github.com/Hinderager/web-agency-outreach/internal/api"
	"github.com/Hinderager/web-agency-outreach/internal/config"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
	"github.com/Hinderager/web-agency-outreach/internal/notifier"
	"github.com/Hinderager/web-agency-outreach/internal/pipeline"
	"github.com/Hinderager/web-agency-outreach/internal/preview"
	"github.com/Hinderager/web-agency-outreach/internal/publisher"
	"github.com/Hinderager/web-agency-outreach/internal/repository"
	"github.com/Hinderager/web-agency-outreach/internal/sheet"
	"github.com/Hinderager/web-agency-outreach/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(logger.LoadFromEnv())
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	runRepo := repository.NewRunRepository(db)

	// Initialize artifact storage (supports MinIO, R2, S3)
	artifactStore, err := storage.NewS3Store(&storage.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	// Ensure bucket exists
	ctx := context.Background()
	if err := artifactStore.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	// Initialize the spreadsheet job queue
	sheetClient := sheet.NewClient(&sheet.ClientConfig{
		BaseURL:       cfg.Sheet.BaseURL,
		SpreadsheetID: cfg.Sheet.SpreadsheetID,
		APIToken:      cfg.Sheet.APIToken,
		Timeout:       cfg.Sheet.Timeout,
	})
	leadStore := sheet.NewLeadStore(sheetClient, appLogger)

	// Initialize pipeline stages
	siteAnalyzer := analyzer.New(&analyzer.Config{
		Timeout:   cfg.Analyzer.Timeout,
		MaxBodyKB: cfg.Analyzer.MaxBodyKB,
		UserAgent: cfg.Analyzer.UserAgent,
	}, appLogger)

	previewBuilder := preview.NewBuilder(appLogger)

	sitePublisher := publisher.New(artifactStore, &publisher.Config{
		RepoAPIBase:   cfg.Publisher.RepoAPIBase,
		RepoToken:     cfg.Publisher.RepoToken,
		Owner:         cfg.Publisher.Owner,
		ProjectPrefix: cfg.Publisher.ProjectPrefix,
		PreviewDomain: cfg.Publisher.PreviewDomain,
		BranchPrefix:  cfg.Publisher.BranchPrefix,
		PollInterval:  cfg.Publisher.PollInterval,
		PollAttempts:  cfg.Publisher.PollAttempts,
		Timeout:       cfg.Publisher.Timeout,
	}, appLogger)

	leadNotifier := notifier.New(artifactStore, &notifier.Config{
		SenderName:      cfg.Notifier.SenderName,
		ExportKeyPrefix: cfg.Notifier.ExportKeyPrefix,
	}, appLogger)

	// Wire the orchestrator and the run lock
	orchestrator := pipeline.New(
		leadStore,
		siteAnalyzer,
		previewBuilder,
		sitePublisher,
		leadNotifier,
		runRepo,
		appLogger,
		&pipeline.Config{
			StageTimeout: cfg.Pipeline.StageTimeout,
			NotesMaxLen:  cfg.Pipeline.NotesMaxLen,
		},
	)
	manager := pipeline.NewManager(orchestrator, cfg.Pipeline.BatchMax, appLogger)

	// Setup router
	router := api.SetupRouter(manager, runRepo, appLogger, cfg.Server)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
