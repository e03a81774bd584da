package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rail-fusion/internal/config"
	"github.com/rail-fusion/internal/domain/repository"
	"github.com/rail-fusion/internal/export"
	"github.com/rail-fusion/internal/infrastructure/notify"
	"github.com/rail-fusion/internal/infrastructure/opendata"
	"github.com/rail-fusion/internal/metrics"
	"github.com/rail-fusion/internal/pkg/logger"
	"github.com/rail-fusion/internal/repository/cache"
	"github.com/rail-fusion/internal/repository/postgres"
	redisRepo "github.com/rail-fusion/internal/repository/redis"
	"github.com/rail-fusion/internal/usecase"
)

// app - зависимости одного вызова CLI
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	manifest  *config.Manifest
	collector *metrics.Collector
	db        *postgres.DB
	redis     *cache.Redis
	notifier  notify.Notifier
}

func newApp(envFile string) (*app, error) {
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	manifest, err := config.LoadManifest(cfg.Pipeline.SourcesFile)
	if err != nil {
		return nil, err
	}

	log.Info("Configuration loaded",
		zap.String("raw_dir", cfg.Pipeline.RawDir),
		zap.String("output_dir", cfg.Pipeline.OutputDir),
		zap.String("null_policy", string(cfg.Pipeline.NullPolicy)),
		zap.Int("sources", len(manifest.Sources)))

	return &app{
		cfg:       cfg,
		log:       log,
		manifest:  manifest,
		collector: metrics.NewCollector(),
		notifier:  notify.Nop{},
	}, nil
}

// connectDatabase подключает PostGIS, если он включён в конфигурации
func (a *app) connectDatabase(ctx context.Context) error {
	if !a.cfg.Database.Enabled {
		a.log.Info("PostGIS persistence disabled")
		return nil
	}

	db, err := postgres.New(&a.cfg.Database, a.log)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.db = db

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.Health(ctx)
}

// connectRedis нужен для redis-уведомлений и сброса кэша API
func (a *app) connectRedis() error {
	if a.cfg.Notify.Backend != notify.BackendRedis && !a.cfg.Database.Enabled {
		return nil
	}

	client, err := cache.NewRedis(&a.cfg.Redis, a.log)
	if err != nil {
		if a.cfg.Notify.Backend == notify.BackendRedis {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.log.Warn("Redis unavailable, API cache will not be invalidated", zap.Error(err))
		return nil
	}
	a.redis = client
	return nil
}

func (a *app) setupNotifier() error {
	var streams repository.StreamRepository
	if a.redis != nil {
		streams = redisRepo.NewStreamRepository(a.redis.Client(), a.log, a.cfg.Worker.StreamReadTimeout)
	}

	n, err := notify.New(&a.cfg.Notify, streams, a.collector, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}
	a.notifier = n
	return nil
}

func (a *app) fetcher() *opendata.Fetcher {
	return opendata.NewFetcher(&a.cfg.Fetch, a.cfg.Pipeline.RawDir, a.collector, a.log)
}

func (a *app) fusionUseCase() *usecase.FusionUseCase {
	var stores usecase.FusionStores
	if a.db != nil {
		stores.Segments = postgres.NewSegmentRepository(a.db)
		stores.StationYears = postgres.NewStationYearRepository(a.db)
		stores.Runs = postgres.NewRunRepository(a.db)
	}
	if a.redis != nil && a.db != nil {
		stores.Cache = cache.NewCacheRepository(a.redis)
	}

	return usecase.NewFusionUseCase(
		a.cfg,
		a.manifest,
		a.fetcher(),
		export.NewWriter(a.cfg.Pipeline.OutputDir, a.log),
		stores,
		a.notifier,
		a.collector,
		a.log,
	)
}

func (a *app) close() {
	a.notifier.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
