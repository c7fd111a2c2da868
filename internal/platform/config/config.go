package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration. FromEnv keeps main lean.
type Config struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  []string
	AuditTopic    string
	JWTSigningKey string
	TimelineTTL   time.Duration
}

// TimelineCacheTTL is the default retention for cached admin timelines.
// Short by design: the cache only smooths bursts on the review console.
const TimelineCacheTTL = 30 * time.Second

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("IRDESK_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("IRDESK_DATABASE_URL"),
		RedisURL:      os.Getenv("IRDESK_REDIS_URL"),
		AuditTopic:    getenv("IRDESK_AUDIT_TOPIC", "irdesk.audit"),
		JWTSigningKey: os.Getenv("IRDESK_JWT_SIGNING_KEY"),
		TimelineTTL:   TimelineCacheTTL,
	}
	if brokers := os.Getenv("IRDESK_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if cfg.JWTSigningKey == "" {
		// Development fallback; must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
