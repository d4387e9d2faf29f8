// Package pipeline orchestrates the extract-transform-load run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/couchcryptid/ine-crime-etl/internal/domain"
	"github.com/couchcryptid/ine-crime-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// RangeDiscoverer reports the last year the API holds data for.
type RangeDiscoverer interface {
	LatestYear(ctx context.Context) (int, error)
}

// YearFetcher retrieves one year's nested data object, keyed by year.
type YearFetcher interface {
	FetchYear(ctx context.Context, token string) (map[string]json.RawMessage, error)
}

// Uploader persists one artifact in the object store.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
}

// SummaryPublisher emits the run summary after a successful run.
type SummaryPublisher interface {
	Publish(ctx context.Context, summary domain.RunSummary) error
}

// Pipeline executes one extraction run: discover the year range, fetch each
// year, persist the raw mapping, flatten it, and persist the clean table.
// Per-year fetch failures are logged and surfaced in the summary; failures of
// range discovery, either upload, or the transform abort the run.
type Pipeline struct {
	discoverer RangeDiscoverer
	fetcher    YearFetcher
	uploader   Uploader
	publisher  SummaryPublisher // nil disables summary publication
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock
}

// New creates a Pipeline with the given stages and observability. The clock
// supplies the run date, so tests can pin artifact names.
func New(d RangeDiscoverer, f YearFetcher, u Uploader, p SummaryPublisher,
	logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	return &Pipeline{
		discoverer: d,
		fetcher:    f,
		uploader:   u,
		publisher:  p,
		logger:     logger,
		metrics:    metrics,
		clock:      clock,
	}
}

// Run executes one complete run and returns its summary.
func (p *Pipeline) Run(ctx context.Context) (domain.RunSummary, error) {
	start := p.clock.Now().UTC()
	runDate := start.Format("20060102")

	p.logger.Info("run started", "run_date", runDate, "indicator", domain.IndicatorCode)
	p.metrics.JobRunning.Set(1)
	defer p.metrics.JobRunning.Set(0)

	summary, err := p.run(ctx, start, runDate)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("failure").Inc()
		return domain.RunSummary{}, err
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(p.clock.Since(start).Seconds())
	p.logger.Info("run finished",
		"run_date", summary.RunDate,
		"years_fetched", summary.YearsFetched,
		"years_failed", len(summary.FailedYears),
		"rows", summary.Rows,
	)
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context, start time.Time, runDate string) (domain.RunSummary, error) {
	lastYear, err := p.discoverer.LatestYear(ctx)
	if err != nil {
		return domain.RunSummary{}, err
	}

	tokens, err := domain.YearParameters(lastYear)
	if err != nil {
		return domain.RunSummary{}, err
	}
	p.metrics.YearsRequested.Add(float64(len(tokens)))
	p.logger.Info("year range discovered",
		"first_year", domain.FirstYear, "last_year", lastYear, "years", len(tokens))

	raw, failed, err := p.fetchAll(ctx, tokens)
	if err != nil {
		return domain.RunSummary{}, err
	}

	rawKey := fmt.Sprintf("extract/extract-%s.json", runDate)
	rawJSON, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("encode raw mapping: %w", err)
	}
	if err := p.upload(ctx, "raw", rawKey, "application/json", rawJSON); err != nil {
		return domain.RunSummary{}, err
	}

	table, err := Flatten(raw)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("transform raw data: %w", err)
	}
	rows := table.Nrow()
	p.metrics.RowsTransformed.Add(float64(rows))

	csvData, err := CSVBytes(table)
	if err != nil {
		return domain.RunSummary{}, err
	}
	cleanKey := fmt.Sprintf("data/data-%s.csv", runDate)
	if err := p.upload(ctx, "clean", cleanKey, "text/csv", csvData); err != nil {
		return domain.RunSummary{}, err
	}

	summary := domain.RunSummary{
		RunDate:        runDate,
		Indicator:      domain.IndicatorCode,
		YearsRequested: len(tokens),
		YearsFetched:   raw.Len(),
		FailedYears:    failed,
		Rows:           rows,
		RawObject:      rawKey,
		CleanObject:    cleanKey,
		StartedAt:      start,
		FinishedAt:     p.clock.Now().UTC(),
	}
	p.publishSummary(ctx, summary)

	return summary, nil
}

// fetchAll queries every year token sequentially and merges the results.
// A failed year is logged and omitted; partial data beats no data here.
// Context cancellation aborts the whole run.
func (p *Pipeline) fetchAll(ctx context.Context, tokens []string) (*domain.RawMapping, []string, error) {
	raw := domain.NewRawMapping()
	var failed []string

	for _, token := range tokens {
		data, err := p.fetcher.FetchYear(ctx, token)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, err
			}
			p.logger.Warn("year fetch failed, omitting year", "token", token, "error", err)
			p.metrics.YearFetchErrors.Inc()
			failed = append(failed, token)
			continue
		}

		// Dados normally carries exactly the requested year; merge whatever
		// keys came back, in stable order.
		years := make([]string, 0, len(data))
		for year := range data {
			years = append(years, year)
		}
		sort.Strings(years)
		for _, year := range years {
			raw.Add(year, data[year])
		}

		p.metrics.YearsFetched.Inc()
		p.logger.Info("year data merged", "year", domain.YearOf(token))
	}

	return raw, failed, nil
}

func (p *Pipeline) upload(ctx context.Context, artifact, key, contentType string, data []byte) error {
	uploadStart := p.clock.Now()
	if err := p.uploader.Upload(ctx, key, contentType, data); err != nil {
		return fmt.Errorf("upload %s artifact: %w", artifact, err)
	}
	p.metrics.UploadDuration.WithLabelValues(artifact).Observe(p.clock.Since(uploadStart).Seconds())
	return nil
}

// publishSummary is best effort: the artifacts already landed, so a summary
// publication failure is logged rather than failing the run.
func (p *Pipeline) publishSummary(ctx context.Context, summary domain.RunSummary) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, summary); err != nil {
		p.logger.Warn("run summary publish failed", "error", err)
	}
}
