package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/config"
	"github.com/rail-fusion/internal/delivery/http/handler"
	"github.com/rail-fusion/internal/delivery/http/middleware"
)

// HealthChecker - зависимость, проверяемая в /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handlers - обработчики API
type Handlers struct {
	Segments *handler.SegmentHandler
	Stations *handler.StationHandler
	Regions  *handler.RegionHandler
	Runs     *handler.RunHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
	checks   map[string]HealthChecker
	metrics  http.Handler
}

// NewServer - создание нового HTTP сервера. metrics может быть nil.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	handlers Handlers,
	checks map[string]HealthChecker,
	metrics http.Handler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Rail Fusion API",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
		checks:   checks,
		metrics:  metrics,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App возвращает fiber приложение, используется в тестах через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics))
	}

	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")
	api.Get("/health", s.health)

	api.Get("/segments", s.handlers.Segments.ListSegments)

	api.Get("/stations/top", s.handlers.Stations.TopStations)
	api.Get("/stations/:code/years", s.handlers.Stations.GetStationYears)
	api.Get("/station-years", s.handlers.Stations.ListStationYears)

	api.Get("/regions/travelers", s.handlers.Regions.Travelers)
	api.Get("/regions/covid-loss", s.handlers.Regions.CovidLoss)

	api.Get("/runs/latest", s.handlers.Runs.Latest)
	api.Post("/runs", s.handlers.Runs.Enqueue)
}

func (s *Server) health(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK
	deps := make(fiber.Map, len(s.checks))

	for name, check := range s.checks {
		if err := check.Health(c.Context()); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"dependencies": deps,
		"time":         time.Now(),
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "INTERNAL_SERVER_ERROR"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			if code == fiber.StatusNotFound {
				errCode = "NOT_FOUND"
			}
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    errCode,
				"message": err.Error(),
			},
		})
	}
}
