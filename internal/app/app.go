// Package app wires configuration, storage, the provider client and the
// collection loop into one runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/exilewatch/exilewatch/internal/config"
	"github.com/exilewatch/exilewatch/internal/ingest"
	"github.com/exilewatch/exilewatch/internal/league"
	"github.com/exilewatch/exilewatch/internal/metrics"
	"github.com/exilewatch/exilewatch/internal/provider/poeninja"
	"github.com/exilewatch/exilewatch/internal/retry"
	"github.com/exilewatch/exilewatch/internal/scheduler"
	"github.com/exilewatch/exilewatch/internal/storage"
	"github.com/exilewatch/exilewatch/internal/storage/archive"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the collector service: discovery, ingestion, backfill and the
// metrics endpoint behind one lifecycle.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	metrics *metrics.Registry

	registry  *league.Registry
	discovery *league.Discovery
	pipeline  *ingest.Pipeline
	backfill  *ingest.Backfill
	scheduler *scheduler.Scheduler
}

// New builds the service from configuration. A storage failure here is fatal;
// the service never starts without a reachable database and a migrated
// schema.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := storage.Open(storage.Options{
		DSN:             cfg.Storage.DSN,
		MaxOpenConns:    cfg.Storage.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	store, err := newArchiveStore(cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("configuring archive: %w", err)
	}

	m := metrics.NewRegistry()
	policy := retry.NewPolicy(
		cfg.Provider.Retry.MaxAttempts,
		cfg.Provider.Retry.BaseDelay,
		cfg.Provider.Retry.MaxDelay,
	)
	client := poeninja.NewClient(cfg.Provider.BaseURL, cfg.Provider.Timeout, policy, m, log.Named("provider"))

	registry := league.NewRegistry(db, log.Named("league"))
	discovery := league.NewDiscovery(
		client,
		registry,
		cfg.Collector.PermanentLeagues,
		cfg.Collector.LeagueOverride,
		log.Named("discovery"),
	)

	writer := storage.NewWriter(db, log.Named("writer"))
	pipeline := ingest.NewPipeline(client, writer, store, cfg.Collector.Concurrency, m, log.Named("ingest"))
	backfill := ingest.NewBackfill(client, registry, db, writer, store, m, log.Named("backfill"))

	a := &App{
		cfg:       cfg,
		log:       log,
		db:        db,
		metrics:   m,
		registry:  registry,
		discovery: discovery,
		pipeline:  pipeline,
		backfill:  backfill,
	}
	a.scheduler = scheduler.New(a.runCycle, cfg.Collector.Interval, m, log.Named("scheduler"))
	return a, nil
}

func newArchiveStore(cfg config.ArchiveConfig) (archive.Store, error) {
	switch cfg.Type {
	case "":
		return archive.Nop{}, nil
	case "localfs":
		return archive.NewLocalFS(cfg.Path)
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	}
	return nil, fmt.Errorf("unknown archive type %q", cfg.Type)
}

// Run starts the collection loop and blocks until ctx is cancelled. When
// backfill is enabled its leagues are seeded first, before the first cycle.
func (a *App) Run(ctx context.Context) error {
	stopMetrics := a.serveMetrics()
	defer stopMetrics()

	if a.cfg.Backfill.Enabled && len(a.cfg.Backfill.Leagues) > 0 {
		if _, err := a.RunBackfill(ctx); err != nil {
			return err
		}
	}

	return a.scheduler.Start(ctx)
}

// RunBackfill seeds the configured historical leagues once and returns.
func (a *App) RunBackfill(ctx context.Context) (ingest.Summary, error) {
	sum, err := a.backfill.Run(ctx, a.cfg.Backfill.Leagues)
	if err != nil {
		return sum, err
	}
	a.log.Info("backfill finished",
		zap.Int("backfilled", sum.Backfilled),
		zap.Int("skipped", sum.Skipped),
		zap.Strings("failed", sum.Failed),
	)
	return sum, nil
}

// runCycle is one scheduled collection cycle: resolve the active league, then
// ingest every category. Category failures are isolated inside the pipeline;
// only failing to resolve a league fails the cycle itself.
func (a *App) runCycle(ctx context.Context) error {
	lg, err := a.discovery.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("resolving active league: %w", err)
	}

	reports := a.pipeline.RunCycle(ctx, lg)
	for _, r := range reports {
		if r.Err != nil {
			a.log.Warn("category run failed",
				zap.String("league", lg.Name),
				zap.String("category", string(r.Category)),
				zap.Error(r.Err),
			)
		}
	}
	return nil
}

// serveMetrics exposes /metrics and /healthz when enabled. The listener's
// lifetime is tied to the returned stop func, not to request handling.
func (a *App) serveMetrics() func() {
	if !a.cfg.Metrics.Enabled {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, promhttp.HandlerFor(a.metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := a.db.DB()
		if err != nil || sqlDB.PingContext(r.Context()) != nil {
			http.Error(w, "storage unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux}
	go func() {
		a.log.Info("metrics listening",
			zap.String("addr", a.cfg.Metrics.Addr),
			zap.String("path", a.cfg.Metrics.Path),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
