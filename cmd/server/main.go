package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/artifacts"
	"github.com/spacesedan/sentidash/internal/logging"
	"github.com/spacesedan/sentidash/internal/server"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := artifacts.LoadPipeline(ctx, cfg.ModelManifest, artifacts.OptionsFromConfig(cfg))
	if err != nil {
		slog.Error("[Main] Failed to load models",
			slog.String("manifest", cfg.ModelManifest),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := server.NewServer(cfg, p, reg)
	if err != nil {
		slog.Error("[Main] Failed to create server",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("[Main] Server stopped",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	slog.Info("[Main] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
