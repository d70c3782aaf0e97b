package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"summary-pipeline/config"
	"summary-pipeline/consumer"
	"summary-pipeline/driver"
	"summary-pipeline/handler"
	"summary-pipeline/logger"
	"summary-pipeline/middleware"
	"summary-pipeline/orchestrator"
	"summary-pipeline/repository"
	"summary-pipeline/service"
	appOtel "summary-pipeline/utils/otel"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelCfg := appOtel.ConfigFromEnv()
	otelShutdown, err := appOtel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	log := logger.InitWithOTel(logger.LoadConfigFromEnv(), otelCfg.Enabled)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Checkpoint store
	dbPool, err := repository.NewCheckpointPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Error("failed to initialize checkpoint database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := repository.EnsureCheckpointSchema(ctx, dbPool); err != nil {
		log.Error("failed to ensure checkpoint schema", "error", err)
		os.Exit(1)
	}

	// Drivers
	storeClient := driver.NewContentStoreClient(cfg.ContentStore, log)
	summarizerClient := driver.NewSummarizerClient(cfg.Summarizer, log)

	// Repositories
	contentRepo := repository.NewContentRepository(storeClient, log)
	summaryRepo := repository.NewSummaryRepository(storeClient, log)
	summarizerRepo := repository.NewSummarizerRepository(summarizerClient)
	checkpointRepo := repository.NewCheckpointRepository(dbPool, log)

	// Workers
	fetcher := service.NewFetcherService(contentRepo, log)
	cleaner := service.NewCleanerService(log)
	summarizer := service.NewSummarizerService(summarizerRepo, cfg.Summarizer, cfg.Retry, log)
	storage := service.NewStorageService(summaryRepo, log)

	// Orchestration
	router := orchestrator.NewRouter(fetcher, cleaner, summarizer, storage, log)
	workflow := orchestrator.NewWorkflow(router, checkpointRepo, log)

	resumeJob := orchestrator.NewResumeJob(workflow, checkpointRepo, cfg.Resume, log)
	resumeJob.Start(ctx)
	defer resumeJob.Stop()

	// Trigger consumer
	eventHandler := consumer.NewPipelineEventHandler(workflow, log)
	eventConsumer, err := consumer.NewConsumer(cfg.Consumer, eventHandler, log)
	if err != nil {
		log.Error("failed to create event consumer", "error", err)
		os.Exit(1)
	}
	if err := eventConsumer.Start(ctx); err != nil {
		log.Error("failed to start event consumer", "error", err)
		os.Exit(1)
	}
	defer eventConsumer.Stop()

	// HTTP surface
	e := echo.New()
	e.HideBanner = true
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
	}
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.LoggingMiddleware(log))

	summarizeHandler := handler.NewSummarizeHandler(workflow, log)
	summaryHandler := handler.NewSummaryHandler(summaryRepo, log)
	healthHandler := handler.NewHealthHandler()

	e.POST("/api/v1/summaries", summarizeHandler.HandleSummarize)
	e.GET("/api/v1/summaries/:contentId", summaryHandler.HandleGetSummary)
	e.GET("/v1/health", healthHandler.HandleHealth)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info("starting summary-pipeline server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}

	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error("opentelemetry shutdown failed", "error", err)
	}
}
