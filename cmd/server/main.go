package main

import (
	"context"
	"log"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/honeycarbs/jobboard/internal/config"
	"github.com/honeycarbs/jobboard/internal/domain/ingest"
	"github.com/honeycarbs/jobboard/internal/httpapi"
	"github.com/honeycarbs/jobboard/internal/mcp"
	"github.com/honeycarbs/jobboard/pkg/logging"
	"github.com/honeycarbs/jobboard/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	res, cleanup, err := mcp.InitializeResources(initCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to initialize resources", "err", err, "store", cfg.Store)
		os.Exit(1)
	}
	defer cleanup()

	srv, err := mcp.NewServer(logger.Named("mcp"), cfg, res)
	if err != nil {
		logger.Error("failed to create MCP server", "err", err)
		os.Exit(1)
	}

	targets := []shutdown.Stoppable{srv}

	if cfg.APIPort != "" {
		api, err := httpapi.NewServer(logger.Named("api"), cfg, res.JobService)
		if err != nil {
			logger.Error("failed to create REST API", "err", err)
			os.Exit(1)
		}
		targets = append(targets, api)

		go func() {
			if err := api.Run(); err != nil {
				logger.Error("REST API exited with error", "err", err)
			}
		}()
	}

	if cfg.Ingest.Schedule != "" {
		scheduler := ingest.NewScheduler(res.Ingestor, ingest.Query{
			Keywords: cfg.Ingest.Query,
			Location: cfg.Ingest.Location,
		}, logger.Named("ingest"))
		if err := scheduler.Start(cfg.Ingest.Schedule); err != nil {
			logger.Error("failed to start ingestion scheduler", "err", err)
			os.Exit(1)
		}
		targets = append(targets, scheduler)
	}

	stopped := make(chan struct{})
	go func() {
		shutdown.Graceful(
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			10*time.Second,
			logger,
			targets...,
		)
		close(stopped)
	}()

	logger.Info("MCP server initialized and starting", "addr", net.JoinHostPort(cfg.Host, cfg.Port), "store", cfg.Store)

	if err := srv.Run(); err != nil {
		logger.Error("MCP server exited with error", "err", err)
		_ = shutdown.StopAll(10*time.Second, targets...)
		return
	}

	<-stopped
	logger.Info("MCP server stopped")
}
