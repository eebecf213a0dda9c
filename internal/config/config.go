package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Lock backends for the reservation engine.
const (
	LockAdvisory = "advisory"
	LockRedis    = "redis"
	LockLocal    = "local"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration

	LogLevel  string
	LogFormat string

	ReservationLock        string
	ReservationLockTimeout time.Duration
	RedisURL               string

	KafkaBrokers            []string
	KafkaTopicConfirmed     string
	KafkaConsumerGroup      string
	KafkaConsumerMaxRetries int
	NotifyQueueSize         int
	NotifyWorkers           int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailAdmin    string
}

// Load loads the API configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	var err error

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for verifying identity tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	// Reservation exclusion backend (default: postgres advisory locks)
	cfg.ReservationLock = getEnv("RESERVATION_LOCK", LockAdvisory)
	switch cfg.ReservationLock {
	case LockAdvisory, LockLocal:
	case LockRedis:
		cfg.RedisURL = os.Getenv("REDIS_URL")
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when RESERVATION_LOCK=redis")
		}
	default:
		return nil, fmt.Errorf("invalid RESERVATION_LOCK %q", cfg.ReservationLock)
	}

	cfg.ReservationLockTimeout, err = getEnvAsDuration("RESERVATION_LOCK_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}

	if cfg.NotifyQueueSize, err = getEnvAsInt("NOTIFY_QUEUE_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.NotifyWorkers, err = getEnvAsInt("NOTIFY_WORKERS", 2); err != nil {
		return nil, err
	}

	if err := loadShared(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadNotifier loads the configuration of the mail worker. It needs Kafka
// and SMTP settings only; database and JWT keys are not read.
func LoadNotifier() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	if err := loadShared(cfg); err != nil {
		return nil, err
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is required")
	}
	return cfg, nil
}

func loadDotEnv() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}
}

// loadShared reads the logging, Kafka and SMTP keys used by both processes.
func loadShared(cfg *Config) error {
	var err error

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	// Kafka is optional for the API; without brokers confirmation events are only logged.
	cfg.KafkaBrokers = getEnvAsList("KAFKA_BROKERS")
	cfg.KafkaTopicConfirmed = getEnv("KAFKA_TOPIC_BOOKING_CONFIRMED", "booking.confirmed")
	cfg.KafkaConsumerGroup = getEnv("KAFKA_CONSUMER_GROUP", "stay-booking-notifier")
	if cfg.KafkaConsumerMaxRetries, err = getEnvAsInt("KAFKA_CONSUMER_MAX_RETRIES", 3); err != nil {
		return err
	}

	cfg.SMTPHost = getEnv("SMTP_HOST", "")
	if cfg.SMTPPort, err = getEnvAsInt("SMTP_PORT", 587); err != nil {
		return err
	}
	cfg.SMTPUsername = getEnv("SMTP_USERNAME", "")
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	cfg.MailFrom = getEnv("MAIL_FROM", "no-reply@localhost")
	cfg.MailAdmin = getEnv("MAIL_ADMIN", cfg.MailFrom)
	return nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses a time.Duration such as "3s" or "15m".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return val, nil
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
