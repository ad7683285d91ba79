package kafka_config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"studyhall/pkg/logger"
	"studyhall/pkg/sanitizer"
)

// Config is the broker, topic and client tuning used by the booking event
// producer in the API and the ledger worker's consumer.
type Config struct {
	Brokers []string

	BookingTopic    string
	BookingDLQTopic string
	LedgerGroup     string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 all replicas, 0 none, 1 leader
	ProducerCompression  string // none, gzip, snappy, lz4, zstd
	ProducerAsync        bool

	ConsumerStartOffset       int64
	ConsumerMinBytes          int
	ConsumerMaxBytes          int
	ConsumerMaxWait           time.Duration
	ConsumerCommitInterval    time.Duration
	ConsumerHeartbeatInterval time.Duration
	ConsumerSessionTimeout    time.Duration
	ConsumerRebalanceTimeout  time.Duration
	ConsumerMaxRetries        int

	EnableMiddleware bool
}

func Load() (*Config, error) {
	startOffset, err := parseOffset(getEnvStr(EnvConsumerStartOffset, ""))
	if err != nil {
		return nil, fmt.Errorf("kafka configuration: %w", err)
	}

	cfg := &Config{
		Brokers: sanitizer.SanitizeIDs(strings.Split(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers), ",")),

		BookingTopic:    strings.TrimSpace(getEnvStr(EnvBookingTopic, DefaultBookingTopic)),
		BookingDLQTopic: strings.TrimSpace(getEnvStr(EnvBookingDLQTopic, DefaultBookingDLQTopic)),
		LedgerGroup:     strings.TrimSpace(getEnvStr(EnvLedgerGroup, DefaultLedgerGroup)),

		ProducerMaxAttempts:  getEnvInt(EnvProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: getEnvDuration(EnvProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:  getEnvInt(EnvProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  strings.ToLower(getEnvStr(EnvProducerCompression, DefaultProducerCompression)),
		ProducerAsync:        getEnvBool(EnvProducerAsync, DefaultProducerAsync),

		ConsumerStartOffset:       startOffset,
		ConsumerMinBytes:          getEnvInt(EnvConsumerMinBytes, DefaultConsumerMinBytes),
		ConsumerMaxBytes:          getEnvInt(EnvConsumerMaxBytes, DefaultConsumerMaxBytes),
		ConsumerMaxWait:           getEnvDuration(EnvConsumerMaxWait, DefaultConsumerMaxWait),
		ConsumerCommitInterval:    getEnvDuration(EnvConsumerCommitInterval, DefaultConsumerCommitInterval),
		ConsumerHeartbeatInterval: getEnvDuration(EnvConsumerHeartbeatInterval, DefaultConsumerHeartbeatInterval),
		ConsumerSessionTimeout:    getEnvDuration(EnvConsumerSessionTimeout, DefaultConsumerSessionTimeout),
		ConsumerRebalanceTimeout:  getEnvDuration(EnvConsumerRebalanceTimeout, DefaultConsumerRebalanceTimeout),
		ConsumerMaxRetries:        getEnvInt(EnvConsumerMaxRetries, DefaultConsumerMaxRetries),

		EnableMiddleware: getEnvBool(EnvEnableMiddleware, DefaultEnableMiddleware),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka configuration: %w", err)
	}
	return cfg, nil
}

// parseOffset maps "oldest" and "newest" to their sentinel values; an empty
// value selects the default.
func parseOffset(value string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return DefaultConsumerStartOffset, nil
	case "oldest", "earliest":
		return OffsetOldest, nil
	case "newest", "latest":
		return OffsetNewest, nil
	}
	offset, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: want oldest, newest or a number", EnvConsumerStartOffset, value)
	}
	return offset, nil
}

var validCompressions = map[string]bool{
	"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true,
}

func (cfg *Config) Validate() error {
	var errors []string
	positive := func(name string, ok bool, value any) {
		if !ok {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %v", name, value))
		}
	}

	if len(cfg.Brokers) == 0 {
		errors = append(errors, "At least one Kafka broker is required")
	}

	if cfg.BookingTopic == "" {
		errors = append(errors, "BookingTopic cannot be empty")
	}
	if cfg.BookingDLQTopic != "" && cfg.BookingDLQTopic == cfg.BookingTopic {
		errors = append(errors, "BookingDLQTopic must differ from BookingTopic")
	}
	if cfg.LedgerGroup == "" {
		errors = append(errors, "LedgerGroup cannot be empty")
	}

	positive("ProducerMaxAttempts", cfg.ProducerMaxAttempts > 0, cfg.ProducerMaxAttempts)
	positive("ProducerBatchTimeout", cfg.ProducerBatchTimeout > 0, cfg.ProducerBatchTimeout)
	if !validCompressions[cfg.ProducerCompression] {
		errors = append(errors, fmt.Sprintf("ProducerCompression must be one of [none, gzip, snappy, lz4, zstd], got: %s", cfg.ProducerCompression))
	}
	if cfg.ProducerRequireAcks < -1 || cfg.ProducerRequireAcks > 1 {
		errors = append(errors, fmt.Sprintf("ProducerRequireAcks must be -1, 0, or 1, got: %d", cfg.ProducerRequireAcks))
	}

	if cfg.ConsumerStartOffset < OffsetOldest {
		errors = append(errors, fmt.Sprintf("ConsumerStartOffset must be oldest, newest or >= 0, got: %d", cfg.ConsumerStartOffset))
	}
	positive("ConsumerMinBytes", cfg.ConsumerMinBytes > 0, cfg.ConsumerMinBytes)
	positive("ConsumerMaxBytes", cfg.ConsumerMaxBytes > 0, cfg.ConsumerMaxBytes)
	if cfg.ConsumerMaxBytes > 0 && cfg.ConsumerMinBytes > cfg.ConsumerMaxBytes {
		errors = append(errors, "ConsumerMinBytes cannot exceed ConsumerMaxBytes")
	}
	positive("ConsumerMaxWait", cfg.ConsumerMaxWait > 0, cfg.ConsumerMaxWait)
	positive("ConsumerCommitInterval", cfg.ConsumerCommitInterval > 0, cfg.ConsumerCommitInterval)
	positive("ConsumerHeartbeatInterval", cfg.ConsumerHeartbeatInterval > 0, cfg.ConsumerHeartbeatInterval)
	positive("ConsumerSessionTimeout", cfg.ConsumerSessionTimeout > 0, cfg.ConsumerSessionTimeout)
	positive("ConsumerRebalanceTimeout", cfg.ConsumerRebalanceTimeout > 0, cfg.ConsumerRebalanceTimeout)
	if cfg.ConsumerHeartbeatInterval >= cfg.ConsumerSessionTimeout && cfg.ConsumerSessionTimeout > 0 {
		errors = append(errors, "ConsumerHeartbeatInterval must be shorter than ConsumerSessionTimeout")
	}
	if cfg.ConsumerMaxRetries < 0 {
		errors = append(errors, fmt.Sprintf("ConsumerMaxRetries cannot be negative, got: %d", cfg.ConsumerMaxRetries))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Info("Kafka configuration loaded successfully",
		"brokers", cfg.Brokers,
		"booking_topic", cfg.BookingTopic,
		"booking_dlq_topic", cfg.BookingDLQTopic,
		"ledger_group", cfg.LedgerGroup,
		"producer_max_attempts", cfg.ProducerMaxAttempts,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
		"producer_async", cfg.ProducerAsync,
		"consumer_start_offset", cfg.ConsumerStartOffset,
		"consumer_max_retries", cfg.ConsumerMaxRetries,
		"enable_middleware", cfg.EnableMiddleware,
	)
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
