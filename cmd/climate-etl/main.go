package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/climate-format-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-format-etl/internal/adapter/kafka"
	"github.com/couchcryptid/climate-format-etl/internal/config"
	"github.com/couchcryptid/climate-format-etl/internal/format"
	"github.com/couchcryptid/climate-format-etl/internal/observability"
	"github.com/couchcryptid/climate-format-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	resolver := format.NewResolver(logger, metrics)
	profile, err := resolver.Resolve(cfg.FileFormat)
	if err != nil {
		os.Exit(1)
	}
	logger.Info("climate file format resolved",
		"format", profile.Format(),
		"time_step", profile.TimeStep().String(),
		"temperature_transformation", profile.TemperatureTransformation(),
		"precip_transformation", profile.PrecipTransformation(),
	)

	writer := kafkaadapter.NewWriter(cfg, logger)
	ingestor := pipeline.New(profile, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, ingestor, resolver, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Ingest the configured input file, if any.
	if cfg.InputFile == "" {
		logger.Info("no climate input file configured")
		ingestor.MarkReady()
	} else {
		go func() {
			if err := ingestFile(ctx, ingestor, cfg.InputFile); err != nil {
				logger.Error("ingest error", "file", cfg.InputFile, "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func ingestFile(ctx context.Context, ingestor *pipeline.Ingestor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = ingestor.Ingest(ctx, f)
	return err
}
