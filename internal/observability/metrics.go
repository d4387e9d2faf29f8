package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL job.
type Metrics struct {
	YearsRequested  prometheus.Counter
	YearsFetched    prometheus.Counter
	YearFetchErrors prometheus.Counter
	RowsTransformed prometheus.Counter

	RunsTotal      *prometheus.CounterVec // labels: outcome={success,failure}
	RunDuration    prometheus.Histogram
	UploadDuration *prometheus.HistogramVec // labels: artifact={raw,clean}

	JobRunning prometheus.Gauge
}

// NewMetrics creates and registers all job metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.YearsRequested,
		m.YearsFetched,
		m.YearFetchErrors,
		m.RowsTransformed,
		m.RunsTotal,
		m.RunDuration,
		m.UploadDuration,
		m.JobRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		YearsRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ine_etl",
			Name:      "years_requested_total",
			Help:      "Total year parameters generated for API queries.",
		}),
		YearsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ine_etl",
			Name:      "years_fetched_total",
			Help:      "Total years whose data was fetched and merged.",
		}),
		YearFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ine_etl",
			Name:      "year_fetch_errors_total",
			Help:      "Total per-year fetch failures (year omitted from the run).",
		}),
		RowsTransformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ine_etl",
			Name:      "rows_transformed_total",
			Help:      "Total observations flattened into the clean table.",
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ine_etl",
			Name:      "runs_total",
			Help:      "Job invocations by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ine_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-transform-load run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		UploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ine_etl",
			Name:      "upload_duration_seconds",
			Help:      "Object store upload duration per artifact.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"artifact"}),
		JobRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ine_etl",
			Name:      "job_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
	}
}
