package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dlazarev/finadvisor/internal/advisor"
	"github.com/dlazarev/finadvisor/internal/api"
	"github.com/dlazarev/finadvisor/internal/api/handlers"
	"github.com/dlazarev/finadvisor/internal/config"
	"github.com/dlazarev/finadvisor/internal/ingest"
	bqstore "github.com/dlazarev/finadvisor/internal/store/bigquery"

	"github.com/dlazarev/finadvisor/internal/jobs/inmemory"
	"github.com/dlazarev/finadvisor/internal/llm"
	"github.com/dlazarev/finadvisor/internal/logger"
)

func main() {
	configPath := flag.String("config", "finadvisor.toml", "path to config file")
	flag.Parse()

	log := logger.New("finadvisor-api")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	repo, err := bqstore.NewRepository(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	// A missing provider key is not fatal: the advice endpoint answers 503
	// while the rest of the API keeps serving.
	var gen llm.Generator
	gemini, err := llm.NewGemini(ctx, cfg.Gemini.Model)
	if err != nil {
		log.Warn().Err(err).Msg("Gemini unavailable - advice endpoint will return 503")
	} else {
		gen = gemini
	}

	adviser := advisor.New(gen, repo, cfg.Gemini, log)

	if cfg.GCS.Bucket == "" {
		log.Warn().Msg("No GCS bucket configured - provider uploads will fail")
	}
	storage, err := ingest.NewGCSStorage(ctx, cfg.GCS.Bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create GCS storage")
	}
	defer storage.Close()

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 5, jobStore)
	importer := ingest.NewImporter(storage, repo, log)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	go func() {
		log.Info().Msg("Starting import worker")
		if err := jobQueue.Start(workerCtx, importer.Handle); err != nil {
			log.Error().Err(err).Msg("Import worker stopped with error")
		}
	}()

	router := api.NewRouter(cfg.Server, log, api.Handlers{
		Advice:  handlers.NewAdviceHandler(adviser, repo, log),
		Entries: handlers.NewEntriesHandler(repo, log),
		Goals:   handlers.NewGoalsHandler(repo, log),
		Summary: handlers.NewSummaryHandler(repo, log),
		Uploads: handlers.NewUploadsHandler(storage, jobQueue, log),
		Jobs:    handlers.NewJobsHandler(jobStore, log),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
