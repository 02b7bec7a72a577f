// Package main provides the scheduled refresh worker. On a cron schedule it
// re-fetches and re-indexes news for every saved interest so that similarity
// queries stay current without manual searches.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"newsdigest/internal/config"
	"newsdigest/internal/infra/adapter/persistence/jsonfile"
	"newsdigest/internal/infra/embedder"
	"newsdigest/internal/infra/newsapi"
	"newsdigest/internal/infra/summarizer"
	"newsdigest/internal/infra/vectorstore"
	"newsdigest/internal/observability/logging"
	"newsdigest/internal/repository"
	"newsdigest/internal/usecase/digest"
	fetchUC "newsdigest/internal/usecase/fetch"
	indexUC "newsdigest/internal/usecase/index"
	queryUC "newsdigest/internal/usecase/query"
)

const topicTimeout = 2 * time.Minute

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	svc, profiles, cleanup, err := buildServices(cfg, logger)
	if err != nil {
		logger.Error("startup failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	startMetricsServer(logger)
	startScheduler(logger, svc, profiles)
}

func buildServices(cfg *config.Config, logger *slog.Logger) (digest.Service, repository.ProfileRepository, func(), error) {
	cleanup := func() {}

	emb := embedder.NewOpenAI(cfg.Vector.OpenAIAPIKey, cfg.Vector.EmbeddingModel)

	opts := vectorstore.Options{DataDir: cfg.Vector.DataDir}
	if cfg.Vector.Backend == "pgvector" {
		db, err := sql.Open("pgx", cfg.Vector.DatabaseURL)
		if err != nil {
			return digest.Service{}, nil, cleanup, fmt.Errorf("open database: %w", err)
		}
		opts.DB = db
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}
	}

	store, err := vectorstore.New(cfg.Vector.Backend, emb, opts)
	if err != nil {
		return digest.Service{}, nil, cleanup, err
	}
	if migrator, ok := store.(interface{ Migrate(context.Context) error }); ok {
		if err := migrator.Migrate(context.Background()); err != nil {
			return digest.Service{}, nil, cleanup, fmt.Errorf("migrate vector store: %w", err)
		}
	}

	var generator summarizer.Generator
	if cfg.AnthropicAPIKey != "" {
		generator = summarizer.NewClaude(cfg.AnthropicAPIKey)
	} else {
		generator = summarizer.NewUnconfigured()
	}

	profiles := jsonfile.NewProfileRepo(cfg.ProfilePath)

	// The worker skips content enrichment: it runs unattended and the
	// truncated API content is enough for indexing.
	svc := digest.NewService(
		fetchUC.NewService(newsapi.NewClient(cfg.News), nil, logger),
		indexUC.NewService(store, logger),
		queryUC.NewService(store, logger),
		summarizer.NewService(generator, nil, logger),
		profiles,
		logger,
	)

	return svc, profiles, cleanup, nil
}

// startMetricsServer exposes Prometheus metrics on REFRESH_METRICS_ADDR.
func startMetricsServer(logger *slog.Logger) {
	addr := os.Getenv("REFRESH_METRICS_ADDR")
	if addr == "" {
		addr = ":9090"
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		server := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	logger.Info("metrics server started", slog.String("addr", addr))
}

// startScheduler runs the refresh job on REFRESH_CRON (default 07:00 daily)
// and blocks forever.
func startScheduler(logger *slog.Logger, svc digest.Service, profiles repository.ProfileRepository) {
	schedule := os.Getenv("REFRESH_CRON")
	if schedule == "" {
		schedule = "0 7 * * *"
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		runRefreshJob(logger, svc, profiles)
	})
	if err != nil {
		logger.Error("invalid cron schedule", slog.String("schedule", schedule), slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	logger.Info("refresh worker started", slog.String("schedule", schedule))
	select {}
}

// runRefreshJob re-researches every saved interest. A failing topic is
// logged and skipped so one broken search does not starve the rest.
func runRefreshJob(logger *slog.Logger, svc digest.Service, profiles repository.ProfileRepository) {
	interests := profiles.Preferences().Interests
	if len(interests) == 0 {
		logger.Info("refresh skipped, no saved interests")
		return
	}

	start := time.Now()
	logger.Info("refresh started", slog.Int("topics", len(interests)))

	var failed int
	for _, topic := range interests {
		if err := refreshTopic(svc, topic); err != nil {
			logger.Error("refresh failed for topic",
				slog.String("topic", topic),
				slog.Any("error", err))
			failed++
		}
	}

	logger.Info("refresh completed",
		slog.Int("topics", len(interests)),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)))
}

func refreshTopic(svc digest.Service, topic string) error {
	ctx, cancel := context.WithTimeout(context.Background(), topicTimeout)
	defer cancel()

	_, err := svc.Research(ctx, topic)
	return err
}
