package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all job settings, populated from environment variables.
type Config struct {
	// INE API.
	APIBaseURL string
	Indicator  string
	APITimeout time.Duration

	// Object store. The secret key is not part of the config; it is fetched
	// by name from the secret store at startup.
	BlobEndpoint   string
	BlobAccessKey  string
	BlobSecretName string
	BlobBucket     string
	BlobSSL        bool

	// Run-summary publication. Disabled unless brokers are set.
	KafkaBrokers      []string
	KafkaSummaryTopic string

	// Optional health/metrics endpoint, served for the duration of a run.
	HTTPAddr string

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// JobTimeout bounds a whole invocation so a hung request cannot stall
	// the run indefinitely.
	JobTimeout time.Duration

	// PastDue is set by the scheduler when the trigger fired late. Logged
	// only, never acted upon.
	PastDue bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parsePositiveDuration("API_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	jobTimeout, err := parsePositiveDuration("JOB_TIMEOUT", "10m")
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		APIBaseURL: sharedcfg.EnvOrDefault("API_BASE_URL", "https://www.ine.pt/ine/json_indicador/pindica.jsp"),
		Indicator:  sharedcfg.EnvOrDefault("INDICATOR", "0008074"),
		APITimeout: apiTimeout,

		BlobEndpoint:   sharedcfg.EnvOrDefault("BLOB_ENDPOINT", "localhost:9000"),
		BlobAccessKey:  sharedcfg.EnvOrDefault("BLOB_ACCESS_KEY", "minioadmin"),
		BlobSecretName: sharedcfg.EnvOrDefault("BLOB_SECRET_NAME", "BLOB_SECRET_KEY"),
		BlobBucket:     sharedcfg.EnvOrDefault("BLOB_BUCKET", "ineapi-blob"),
		BlobSSL:        os.Getenv("BLOB_SSL") == "true",

		KafkaBrokers:      brokers,
		KafkaSummaryTopic: sharedcfg.EnvOrDefault("KAFKA_SUMMARY_TOPIC", "etl-run-summaries"),

		HTTPAddr: os.Getenv("HTTP_ADDR"),

		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		JobTimeout:      jobTimeout,

		PastDue: os.Getenv("PAST_DUE") == "true",
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("API_BASE_URL is required")
	}
	if cfg.Indicator == "" {
		return nil, errors.New("INDICATOR is required")
	}
	if cfg.BlobEndpoint == "" {
		return nil, errors.New("BLOB_ENDPOINT is required")
	}
	if cfg.BlobAccessKey == "" {
		return nil, errors.New("BLOB_ACCESS_KEY is required")
	}
	if cfg.BlobBucket == "" {
		return nil, errors.New("BLOB_BUCKET is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_SUMMARY_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// SummaryEnabled reports whether the run summary should be published.
func (c *Config) SummaryEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(name, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return d, nil
}
