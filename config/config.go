// Package config loads the server's runtime configuration from environment
// variables.
package config

import (
	"log"
	"os"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; optional fields fall back to sensible local
// defaults.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	BeaconOwner  string // identity allowed to upgrade the beacon
	PriceFeedURL string // default reference-rate endpoint (optional)
	RabbitURL    string // RabbitMQ URL for creation events (optional; empty disables the broker)
}

// Load reads configuration from the environment. Required variables are
// enforced by must(); missing values exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "8080"),
		BeaconOwner:  must("BEACON_OWNER"),
		PriceFeedURL: os.Getenv("PRICE_FEED_URL"),
		RabbitURL:    os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv retrieves an optional environment variable with a default.
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
