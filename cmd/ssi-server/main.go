package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ssicli/internal/config"
	"ssicli/internal/dataprocessing"
	"ssicli/internal/infrastructure"
	"ssicli/internal/ssi"
	transporthttp "ssicli/internal/transport/http"
)

func main() {
	configFile := flag.String("config", "config.yaml", "path to the YAML config file")
	inputFile := flag.String("input", "", "input dataset (overrides the configured path)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.NewLogger(cfg.Logging)

	if *inputFile != "" {
		cfg.Paths.InputFile = *inputFile
	}

	if err := run(logger, cfg); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *config.Config) error {
	ctx := context.Background()

	// The snapshot is computed once at startup; a restart recomputes it
	dataset, err := dataprocessing.LoadFile(ctx, logger, cfg.Paths.InputFile)
	if err != nil {
		return err
	}

	mapping, err := ssi.ResolveColumns(dataset.Columns, dataset.Samples(25))
	if err != nil {
		return err
	}

	normalizer := ssi.NewNormalizer(logger)
	records, rejected := normalizer.Normalize(ctx, dataset.Rows, mapping)
	logger.InfoContext(ctx, "normalized dataset",
		slog.Int("records", len(records)),
		slog.Int("rejected", rejected))

	params := cfg.Analysis.Params()
	analysis, err := ssi.Analyze(ctx, logger, records, params)
	if err != nil {
		return err
	}

	handler := transporthttp.NewAnalyticsHandler(analysis, records, params, logger)
	router := transporthttp.NewRouter(transporthttp.RouterConfig{
		Handler:        handler,
		Logger:         logger,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "server listening",
			slog.Int("port", cfg.Server.Port),
			slog.String("run_id", analysis.RunID))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.InfoContext(ctx, "shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}
