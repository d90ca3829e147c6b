package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/unit-normalizer-service/internal/units"
)

// Reading sources.
const (
	SourceKafka    = "kafka"
	SourceBloomsky = "bloomsky"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// UnitSystem is the normalized target system key ("metric" or
	// "us_customary"). Raw input is case-insensitive and the legacy
	// "imperial" spelling is accepted.
	UnitSystem string

	// Source selects where readings come from: the Kafka source topic
	// or direct BloomSky station polling.
	Source string

	// BloomSky ingest configuration.
	BloomskyAPIKey       string
	BloomskyTimeout      time.Duration
	BloomskyPollInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	unitSystem, err := units.ValidateKey(sharedcfg.EnvOrDefault("UNIT_SYSTEM", units.KeyMetric))
	if err != nil {
		return nil, fmt.Errorf("invalid UNIT_SYSTEM: %w", err)
	}

	bloomskyTimeout, err := parseDuration("BLOOMSKY_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	pollInterval, err := parseDuration("BLOOMSKY_POLL_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "transformed-weather-data"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "normalized-weather-data"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "unit-normalizer"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		UnitSystem: unitSystem,
		Source:     sharedcfg.EnvOrDefault("SOURCE", SourceKafka),

		BloomskyAPIKey:       os.Getenv("BLOOMSKY_API_KEY"),
		BloomskyTimeout:      bloomskyTimeout,
		BloomskyPollInterval: pollInterval,
	}

	switch cfg.Source {
	case SourceKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
	case SourceBloomsky:
		if cfg.BloomskyAPIKey == "" {
			return nil, errors.New("SOURCE is bloomsky but BLOOMSKY_API_KEY is not set")
		}
	default:
		return nil, fmt.Errorf("invalid SOURCE %q: must be %q or %q", cfg.Source, SourceKafka, SourceBloomsky)
	}

	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func parseDuration(envKey, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(envKey, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", envKey)
	}
	return d, nil
}
