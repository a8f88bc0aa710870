package app

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/prometheusfi/prometheus/pkg/objectstore"
)

type Config struct {
	Issuer         string        // Issuer claim for access tokens (default: prometheus-api)
	Audience       string        // Audience claim for access tokens (default: prometheus-api)
	SigningKeyFile string        // Ed25519 PEM key, created when missing; empty means an ephemeral key (default: ./signing.pem)
	TokenTTL       time.Duration // Access token lifetime (default: 7 days)
	InviteTTL      time.Duration // How long an invite code can be redeemed (default: 7 days)

	DatabaseFile string // Path to SQLite database file (default: ./prometheus.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	S3          objectstore.Config // Media bucket; uploads fail with an internal error when unset
	ChatSecret  string             // Chat provider secret used to sign chat tokens
	RabbitMQURL string             // Optional: broker for domain events; events are dropped when empty
	RedisAddr   string             // Optional: shared rate limiter backend; in-memory when empty
	RedisPass   string             // Optional: Redis password

	Env                   string        // Environment (dev, staging, prod) (default: dev)
	LogLevel              string        // Log level (debug, info, warn, error) (default: info)
	LogFormat             string        // Log format (json, text) (default: json)
	Port                  int           // HTTP server port (default: 8080)
	ShutdownGracePeriod   time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval  time.Duration // Housekeeping interval (default: 1h)
	NotificationRetention time.Duration // Notifications older than this are deleted (default: 90 days)
}

// LoadConfig reads a .env file when one is present, then the environment.
// Variables already set in the environment win over the file.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "prometheus-api"),
		Audience:       getEnvOrDefault("AUTH_AUDIENCE", "prometheus-api"),
		SigningKeyFile: getEnvOrDefault("AUTH_SIGNING_KEY_FILE", "signing.pem"),
		TokenTTL:       getEnvDurationOrDefault("AUTH_TOKEN_TTL", 7*24*time.Hour),
		InviteTTL:      getEnvDurationOrDefault("INVITE_TTL", 7*24*time.Hour),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "prometheus.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		S3: objectstore.Config{
			Region:          os.Getenv("AWS_REGION"),
			Bucket:          os.Getenv("S3_BUCKET"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			DisableSSL:      getEnvBoolOrDefault("S3_DISABLE_SSL", false),
		},
		ChatSecret:  os.Getenv("CHAT_SECRET"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),

		Env:                   getEnvOrDefault("ENV", "dev"),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:             getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                  getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:   getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval:  getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		NotificationRetention: getEnvDurationOrDefault("NOTIFICATION_RETENTION", 90*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
