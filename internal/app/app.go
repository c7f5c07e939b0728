package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ksj1368/er-crawler/external/bser"
	"github.com/ksj1368/er-crawler/internal/config"
	"github.com/ksj1368/er-crawler/internal/infrastructure/repository/postgres"
	"github.com/ksj1368/er-crawler/internal/platform/logging"
	"github.com/ksj1368/er-crawler/internal/platform/resilience"
	"github.com/ksj1368/er-crawler/internal/usecase"
)

// Crawler bundles the wired collection pipeline and its database handle.
type Crawler struct {
	collect *usecase.CollectService
	db      *sqlx.DB
	logger  *logging.Logger
}

func NewCrawler(cfg config.Config, logger *logging.Logger) (*Crawler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	matchRepo := postgres.NewMatchRepository(db)
	staticRepo := postgres.NewStaticDataRepository(db)

	client := bser.NewClient(bser.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.BserTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:    cfg.BserBaseURL,
		APIKey:     cfg.BserAPIKey,
		Timeout:    cfg.BserTimeout,
		MaxRetries: cfg.BserMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.BserCircuitEnabled,
			FailureThreshold: cfg.BserCircuitFailureCount,
			OpenTimeout:      cfg.BserCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.BserCircuitHalfOpenMaxReq,
		},
	})

	discovery := usecase.NewDiscoveryService(client, usecase.DiscoveryConfig{
		VersionFloor: cfg.VersionFloor,
		MatchingMode: cfg.MatchingMode,
	}, logger)

	fetcher := usecase.NewFetchService(client, usecase.FetchConfig{
		BatchSize:  cfg.FetchBatchSize,
		BatchPause: cfg.FetchBatchPause,
	}, logger)

	pipeline := usecase.NewPipelineService(matchRepo, client, usecase.PipelineConfig{
		BatchSize:  cfg.IngestBatchSize,
		Workers:    cfg.IngestWorkers,
		RetryDelay: cfg.IngestRetryDelay,
	}, logger)

	staticSync := usecase.NewStaticSyncService(client, staticRepo, logger)

	collect := usecase.NewCollectService(client, discovery, fetcher, pipeline, staticSync, matchRepo, usecase.CollectConfig{
		SeasonID:       cfg.SeasonID,
		MatchingMode:   cfg.MatchingMode,
		TopRankerLimit: cfg.TopRankerLimit,
		LogDir:         cfg.LogDir,
	}, logger)

	return &Crawler{collect: collect, db: db, logger: logger}, nil
}

// Run executes one full collection pass.
func (c *Crawler) Run(ctx context.Context) (usecase.CollectSummary, error) {
	return c.collect.Collect(ctx)
}

func (c *Crawler) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
