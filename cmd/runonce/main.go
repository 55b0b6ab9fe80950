package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hinderager/web-agency-outreach/internal/analyzer"
	"github.com/Hinderager/web-agency-outreach/internal/config"
	"github.com/Hinderager/web-agency-outreach/internal/domain"
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
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "outreach-runonce",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	maxLeads := flag.Int("max", 1, "Maximum number of leads to process (0 = until the sheet is drained)")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	appLogger.WithFields(logger.Fields{
		"max": *maxLeads,
	}).Info("Starting pipeline run")

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	runRepo := repository.NewRunRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize S3-compatible storage (supports R2, MinIO, S3)
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

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	// Run the pipeline
	reports := orchestrator.RunBatch(ctx, "cli", *maxLeads)

	var processed, failed int
	for _, report := range reports {
		switch report.Status {
		case domain.RunStatusSuccess:
			processed++
		case domain.RunStatusFailed, domain.RunStatusError:
			failed++
		}
	}

	appLogger.WithFields(logger.Fields{
		"runs":      len(reports),
		"processed": processed,
		"failed":    failed,
	}).Info("Pipeline run completed")

	if failed > 0 {
		os.Exit(1)
	}
}
