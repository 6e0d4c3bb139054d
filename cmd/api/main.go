package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"deckgen/internal/adapter/repo"
	"deckgen/internal/enrich"
	"deckgen/internal/http/handlers"
	httpapi "deckgen/internal/http/httpapi"
	"deckgen/internal/infra"
	"deckgen/internal/oracle"
	"deckgen/internal/orchestrator"
	"deckgen/internal/planner"
	"deckgen/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// One throttle shared by every oracle client: provider quotas are
	// process-wide, not per-job.
	throttle := oracle.NewThrottle(cfg.OracleInFlight)
	retry := oracle.RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    cfg.RetryMaxDelay,
	}
	oracleHTTP := &http.Client{Timeout: cfg.OracleTimeout}

	gemini, err := oracle.NewGeminiClient(oracle.GeminiOptions{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: oracleHTTP,
		Throttle:   throttle,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure text oracle")
	}

	pexels, err := oracle.NewPexelsClient(oracle.PexelsOptions{
		APIKey:     cfg.PexelsAPIKey,
		BaseURL:    cfg.PexelsBaseURL,
		HTTPClient: oracleHTTP,
		Throttle:   throttle,
		Logger:     &logger,
		MinWidth:   cfg.MinImageWidth,
		MinHeight:  cfg.MinImageHeight,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image oracle")
	}

	kroki, err := oracle.NewKrokiRenderer(oracle.KrokiOptions{
		BaseURL:    cfg.RenderBaseURL,
		HTTPClient: oracleHTTP,
		Throttle:   throttle,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure diagram renderer")
	}

	plan := planner.New(planner.Options{
		Oracle:         gemini,
		Retry:          retry,
		MinSlides:      cfg.MinSlides,
		MaxSlides:      cfg.MaxSlides,
		RepairAttempts: cfg.RepairAttempts,
		Logger:         logger,
	})

	enricher := enrich.New(enrich.Options{
		Images:   pexels,
		Diagrams: kroki,
		Retry:    retry,
		Workers:  cfg.EnrichWorkers,
		Logger:   logger,
	})

	// Job archive is optional: without DATABASE_URL the service runs purely
	// in memory.
	var archive *repo.JobRepositoryPG
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(context.Background(), cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		archive = repo.NewJobRepository(dbpool)
	}

	orcOpts := orchestrator.Options{
		Planner:   plan,
		Enricher:  enricher,
		Store:     store,
		Logger:    logger,
		MinSlides: cfg.MinSlides,
		MaxSlides: cfg.MaxSlides,
	}
	if archive != nil {
		orcOpts.Archive = archive
	}
	orc := orchestrator.New(orcOpts)

	retentionCtx, stopRetention := context.WithCancel(context.Background())
	defer stopRetention()
	go orc.RunRetention(retentionCtx, time.Hour, cfg.Retention)

	app := &handlers.App{
		Orchestrator: orc,
		Store:        store,
		Archive:      archive,
		Logger:       logger,
		MinSlides:    cfg.MinSlides,
		MaxSlides:    cfg.MaxSlides,
	}
	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app))

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	// The server bounds its own drain with the configured shutdown timeout.
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	stopRetention()
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()
	if err := orc.Shutdown(drainCtx); err != nil {
		logger.Error().Err(err).Msg("failed to drain running jobs")
	}
	logger.Info().Msg("server stopped")
}
