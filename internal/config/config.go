package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr               string
	GRPCAddr               string
	MySQLDSN               string
	RedisAddr              string
	KafkaBrokers           []string
	KafkaTopic             string
	ChangeQueueSize        int
	ReplicationMaxAttempts int
	ShutdownTimeout        time.Duration
	LogLevel               slog.Level
}

// LoadConfig reads the environment, seeded from a .env file in the working
// directory when one exists. Variables already set win over the file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	queueSize, err := getEnvInt("CHANGE_QUEUE_SIZE", 10000)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := getEnvInt("REPLICATION_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:               getEnv("GRPC_ADDR", ":50051"),
		MySQLDSN:               os.Getenv("MYSQL_DSN"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		KafkaBrokers:           splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:             getEnv("KAFKA_TOPIC", "inventory-changes"),
		ChangeQueueSize:        queueSize,
		ReplicationMaxAttempts: maxAttempts,
		ShutdownTimeout:        shutdownTimeout,
		LogLevel:               level,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.GRPCAddr == "" {
		return fmt.Errorf("GRPC_ADDR is required")
	}
	if c.ChangeQueueSize < 1 {
		return fmt.Errorf("CHANGE_QUEUE_SIZE must be positive")
	}
	if c.ReplicationMaxAttempts < 1 {
		return fmt.Errorf("REPLICATION_MAX_ATTEMPTS must be positive")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// ReplicationEnabled reports whether any change sink is configured.
func (c *Config) ReplicationEnabled() bool {
	return c.MySQLDSN != "" || c.RedisAddr != "" || len(c.KafkaBrokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
