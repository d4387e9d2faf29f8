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

	"github.com/couchcryptid/ine-crime-etl/internal/adapter/blob"
	httpadapter "github.com/couchcryptid/ine-crime-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/ine-crime-etl/internal/adapter/kafka"
	"github.com/couchcryptid/ine-crime-etl/internal/adapter/ine"
	"github.com/couchcryptid/ine-crime-etl/internal/adapter/secrets"
	"github.com/couchcryptid/ine-crime-etl/internal/config"
	"github.com/couchcryptid/ine-crime-etl/internal/observability"
	"github.com/couchcryptid/ine-crime-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	// The object-store credential is required; a missing secret is fatal.
	secretKey, err := secrets.EnvStore{}.Get(cfg.BlobSecretName)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.JobTimeout)
	defer cancel()

	store, err := blob.NewStore(ctx, blob.Options{
		Endpoint:  cfg.BlobEndpoint,
		AccessKey: cfg.BlobAccessKey,
		SecretKey: secretKey,
		Bucket:    cfg.BlobBucket,
		UseSSL:    cfg.BlobSSL,
	}, logger)
	if err != nil {
		return err
	}

	client := ine.NewClient(cfg.APIBaseURL, cfg.Indicator, cfg.APITimeout, logger)

	// Summary publication is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.SummaryPublisher
	if cfg.SummaryEnabled() {
		writer := kafkaadapter.NewSummaryWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("run summary publication enabled", "topic", cfg.KafkaSummaryTopic)
	} else {
		logger.Info("run summary publication disabled")
	}

	// Optional health/metrics endpoint for the duration of the run.
	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	if cfg.PastDue {
		logger.Warn("trigger is past due")
	}

	p := pipeline.New(client, client, store, publisher, logger, metrics, clockwork.NewRealClock())

	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("extraction complete",
		"run_date", summary.RunDate,
		"raw_object", summary.RawObject,
		"clean_object", summary.CleanObject,
		"rows", summary.Rows,
		"failed_years", summary.FailedYears,
	)
	return nil
}
