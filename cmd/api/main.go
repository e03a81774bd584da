package main

// @title Rail Fusion API
// @version 1.0.0
// @description Читающий API над итоговыми таблицами слияния данных сети SNCF:
// @description участки со скоростями, пассажиропоток станций по годам, агрегаты по регионам.

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/rail-fusion/docs"
	"github.com/rail-fusion/internal/config"
	httpDelivery "github.com/rail-fusion/internal/delivery/http"
	"github.com/rail-fusion/internal/delivery/http/handler"
	"github.com/rail-fusion/internal/domain/repository"
	"github.com/rail-fusion/internal/metrics"
	"github.com/rail-fusion/internal/pkg/logger"
	"github.com/rail-fusion/internal/repository/cache"
	"github.com/rail-fusion/internal/repository/postgres"
	redisRepo "github.com/rail-fusion/internal/repository/redis"
	"github.com/rail-fusion/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Rail Fusion API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	if !cfg.Database.Enabled {
		log.Fatal("The API serves PostGIS tables, set DB_ENABLED=true")
	}

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis, the API works without cache when it is down
	checks := map[string]httpDelivery.HealthChecker{"postgres": db}
	var (
		cacheRepo repository.CacheRepository
		publisher handler.RunPublisher
	)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, serving without cache", zap.Error(err))
	} else {
		cacheRepo = cache.NewCacheRepository(redisClient)
		publisher = redisRepo.NewStreamRepository(redisClient.Client(), log, cfg.Worker.StreamReadTimeout)
		checks["redis"] = redisClient
		log.Info("Redis connected")
	}

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}
	cancel()

	// 6. Repositories and use cases
	queryUC := usecase.NewQueryUseCase(
		postgres.NewSegmentRepository(db),
		postgres.NewStationYearRepository(db),
		postgres.NewRunRepository(db),
		cacheRepo,
		cfg.Cache.QueryTTL,
		log,
	)

	// 7. HTTP handlers
	handlers := httpDelivery.Handlers{
		Segments: handler.NewSegmentHandler(queryUC, log),
		Stations: handler.NewStationHandler(queryUC, log),
		Regions:  handler.NewRegionHandler(queryUC, log),
		Runs:     handler.NewRunHandler(queryUC, publisher, log),
	}

	// 8. HTTP server
	collector := metrics.NewCollector()
	server := httpDelivery.NewServer(cfg, log, handlers, checks, collector.Handler())

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close PostgreSQL", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
