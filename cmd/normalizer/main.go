package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/unit-normalizer-service/internal/adapter/bloomsky"
	httpadapter "github.com/couchcryptid/unit-normalizer-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/unit-normalizer-service/internal/adapter/kafka"
	"github.com/couchcryptid/unit-normalizer-service/internal/adapter/unitconv"
	"github.com/couchcryptid/unit-normalizer-service/internal/config"
	"github.com/couchcryptid/unit-normalizer-service/internal/observability"
	"github.com/couchcryptid/unit-normalizer-service/internal/pipeline"
	"github.com/couchcryptid/unit-normalizer-service/internal/units"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	units.SetConverters(unitconv.Default())
	units.SetReporter(observability.NewDeprecationReporter(logger, metrics.DeprecationNotices))

	system, err := units.Get(cfg.UnitSystem)
	if err != nil {
		logger.Error("failed to resolve unit system", "error", err)
		os.Exit(1)
	}

	// Select the reading source (SOURCE=kafka|bloomsky).
	var (
		extractor pipeline.BatchExtractor
		closers   []func() error
	)

	switch cfg.Source {
	case config.SourceBloomsky:
		metrics.BloomskyEnabled.Set(1)
		client := bloomsky.NewClient(cfg.BloomskyAPIKey, cfg.BloomskyTimeout,
			system == units.MetricSystem, logger, metrics)
		extractor = bloomsky.NewPoller(client, clockwork.NewRealClock(), cfg.BloomskyPollInterval, logger)
		logger.Info("bloomsky polling enabled", "poll_interval", cfg.BloomskyPollInterval)
	default:
		reader := kafkaadapter.NewReader(cfg, logger)
		extractor = reader
		closers = append(closers, reader.Close)
		logger.Info("kafka source enabled", "topic", cfg.KafkaSourceTopic, "group", cfg.KafkaGroupID)
	}

	writer := kafkaadapter.NewWriter(cfg, logger)
	closers = append(closers, writer.Close)

	transformer := pipeline.NewTransformer(system, logger, metrics)

	p := pipeline.New(extractor, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start normalization pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	logger.Info("normalizer started", "unit_system", cfg.UnitSystem, "source", cfg.Source)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("adapter close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
