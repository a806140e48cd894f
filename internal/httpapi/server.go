// Package httpapi serves the job board over a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/honeycarbs/jobboard/internal/config"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

const apiVersion = "1.0.0"

// Server is the fiber REST listener
type Server struct {
	app    *fiber.App
	addr   string
	logger *logging.Logger

	started atomic.Bool
}

// NewServer builds the REST API on top of the job service
func NewServer(log *logging.Logger, cfg config.Config, svc job.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("httpapi: job service is required")
	}
	if log == nil {
		log = logging.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "jobboard",
		DisableStartupMessage: true,
		Immutable:             true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	h := &handler{service: svc, logger: log}

	api := app.Group("/api")
	api.Get("/health", h.health)

	jobs := api.Group("/jobs")
	jobs.Get("/", h.listJobs)
	jobs.Get("/filter-options", h.filterOptions)
	jobs.Get("/stats", h.stats)
	jobs.Get("/:id", h.getJob)
	jobs.Post("/", h.createJob)
	jobs.Put("/:id", h.updateJob)
	jobs.Delete("/:id", h.deleteJob)

	return &Server{
		app:    app,
		addr:   net.JoinHostPort(cfg.Host, cfg.APIPort),
		logger: log,
	}, nil
}

// App exposes the fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts listening and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("REST API listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for REST API")
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		s.logger.Warn("REST API shutdown with error", "err", err)
		return err
	}

	s.logger.Info("REST API shutdown complete")
	return nil
}

func requestLogger(log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		log.Debug("http request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
		)
		return err
	}
}
