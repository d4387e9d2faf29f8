// Package kafka publishes run summaries for downstream bookkeeping.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/ine-crime-etl/internal/config"
	"github.com/couchcryptid/ine-crime-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// SummaryWriter produces run summaries to the summary topic.
// It implements pipeline.SummaryPublisher.
type SummaryWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewSummaryWriter creates a Kafka producer for the configured summary topic.
func NewSummaryWriter(cfg *config.Config, logger *slog.Logger) *SummaryWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &SummaryWriter{writer: w, logger: logger}
}

// Publish serializes and produces one run summary.
func (w *SummaryWriter) Publish(ctx context.Context, summary domain.RunSummary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *SummaryWriter) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RunSummary into a Kafka message keyed by run date.
func serializeToMessage(summary domain.RunSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize run summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.RunDate),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "indicator", Value: []byte(summary.Indicator)},
			{Key: "finished_at", Value: []byte(summary.FinishedAt.Format(time.RFC3339))},
		},
	}, nil
}
