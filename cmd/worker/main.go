package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rail-fusion/internal/config"
	"github.com/rail-fusion/internal/export"
	"github.com/rail-fusion/internal/infrastructure/notify"
	"github.com/rail-fusion/internal/infrastructure/opendata"
	"github.com/rail-fusion/internal/metrics"
	"github.com/rail-fusion/internal/pkg/logger"
	"github.com/rail-fusion/internal/repository/cache"
	"github.com/rail-fusion/internal/repository/postgres"
	redisRepo "github.com/rail-fusion/internal/repository/redis"
	"github.com/rail-fusion/internal/usecase"
	"github.com/rail-fusion/internal/worker"
	"github.com/rail-fusion/internal/worker/fusion"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Rail Fusion Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.String("consumer_name", cfg.Worker.ConsumerName),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.String("notify_backend", cfg.Notify.Backend))

	manifest, err := config.LoadManifest(cfg.Pipeline.SourcesFile)
	if err != nil {
		log.Fatal("Failed to load source manifest", zap.Error(err))
	}

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Connect to PostgreSQL when persistence is enabled
	stores := usecase.FusionStores{Cache: cache.NewCacheRepository(redisClient)}
	if cfg.Database.Enabled {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.Migrate(ctx); err != nil {
			cancel()
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		cancel()

		stores.Segments = postgres.NewSegmentRepository(db)
		stores.StationYears = postgres.NewStationYearRepository(db)
		stores.Runs = postgres.NewRunRepository(db)
	}

	// 5. Initialize repositories and notifier
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log, cfg.Worker.StreamReadTimeout)
	collector := metrics.NewCollector()

	notifier, err := notify.New(&cfg.Notify, streamRepo, collector, log)
	if err != nil {
		log.Fatal("Failed to initialize notifier", zap.Error(err))
	}
	defer notifier.Close()

	// 6. Initialize use cases
	fusionUC := usecase.NewFusionUseCase(
		cfg,
		manifest,
		opendata.NewFetcher(&cfg.Fetch, cfg.Pipeline.RawDir, collector, log),
		export.NewWriter(cfg.Pipeline.OutputDir, log),
		stores,
		notifier,
		collector,
		log,
	)

	// 7. Initialize workers
	fusionWorker := fusion.NewFusionWorker(
		streamRepo,
		fusionUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.ConsumerName,
		cfg.Worker.MaxRetries,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(fusionWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Прерванный запуск остаётся в pending и будет прочитан заново
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	for _, err := range workerManager.Errors() {
		log.Error("Worker exited with error", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
