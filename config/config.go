package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the operator-facing configuration surface.
type Config struct {
	HTTPAddr string
	DBPath   string

	NatsURL       string
	SubjectPrefix string

	IdentityURL     string
	IdentityTimeout time.Duration

	ProfileStaleAfter time.Duration

	OutboxMaxRetries    int
	OutboxBatchSize     int
	OutboxDispatchEvery time.Duration
	OutboxStaleAfter    time.Duration
	OutboxRetainFor     time.Duration
}

// Load reads configuration from the environment, with a .env file as an
// optional local override source. Setting IDENTITY_URL to "mock" wires the
// in-memory identity directory instead of an HTTP gateway.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DBPath:              getEnv("DB_PATH", "data/community"),
		NatsURL:             getEnv("NATS_URL", ""),
		SubjectPrefix:       getEnv("NATS_SUBJECT_PREFIX", "community.events"),
		IdentityURL:         getEnv("IDENTITY_URL", "mock"),
		IdentityTimeout:     getDuration("IDENTITY_TIMEOUT", 3*time.Second),
		ProfileStaleAfter:   getDuration("PROFILE_STALE_AFTER", 60*time.Minute),
		OutboxMaxRetries:    getInt("OUTBOX_MAX_RETRIES", 5),
		OutboxBatchSize:     getInt("OUTBOX_BATCH_SIZE", 50),
		OutboxDispatchEvery: getDuration("OUTBOX_DISPATCH_EVERY", 5*time.Second),
		OutboxStaleAfter:    getDuration("OUTBOX_STALE_AFTER", 6*time.Hour),
		OutboxRetainFor:     getDuration("OUTBOX_RETAIN_FOR", 7*24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}
