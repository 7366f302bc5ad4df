// Package config builds runtime configuration from environment variables so
// main stays lean. Every value has a development default except the signing
// key material, which must be provided explicitly.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string

	// Ed25519 JWKs for the pass envelope. Validated lazily by the signing
	// provider; absence is a fatal ConfigurationError at first use.
	SignPrivateJWK string
	SignPublicJWK  string

	// HS256 secret for API access tokens (resident/guard/admin sessions).
	APITokenSecret string
	APITokenTTL    time.Duration

	// Expo-compatible push endpoint. Empty disables push delivery.
	PushURL string

	// Kafka brokers for audit events. Empty disables the Kafka publisher.
	KafkaBrokers []string
	AuditTopic   string

	// Fixed-window rate limit for the scan and issue endpoints.
	RateLimitPerMinute int
}

// FromEnv reads configuration from the environment.
func FromEnv() Config {
	cfg := Config{
		Addr:               getEnv("NEIGHNET_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		SignPrivateJWK:     os.Getenv("SIGN_PRIVATE_JWK"),
		SignPublicJWK:      os.Getenv("SIGN_PUBLIC_JWK"),
		APITokenSecret:     getEnv("API_TOKEN_SECRET", "dev-secret-change-in-production"),
		APITokenTTL:        getDuration("API_TOKEN_TTL", 24*time.Hour),
		PushURL:            getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		AuditTopic:         getEnv("AUDIT_TOPIC", "neighnet.audit"),
		RateLimitPerMinute: 60,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
