// Package config provides the configuration structure for the narration service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                   string `toml:"url"`
	NarrationSubject      string `toml:"narration_subject"`
	NarrationObjectBucket string `toml:"narration_object_bucket"`
	UseObjectStore        bool   `toml:"use_object_store"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// MongoConfig holds the configuration for the catalog document store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// MinioConfig holds the configuration for the object store.
type MinioConfig struct {
	Endpoint       string `toml:"endpoint"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	Bucket         string `toml:"bucket"`
	UseSSL         bool   `toml:"use_ssl"`
	URLExpiryHours int    `toml:"url_expiry_hours"`
}

// ElevenLabsConfig holds the configuration for the speech-synthesis vendor.
type ElevenLabsConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// IdentityConfig holds the configuration for the external identity provider.
type IdentityConfig struct {
	VerifyURL      string `toml:"verify_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// HTTPConfig holds the configuration for the public API server.
type HTTPConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS       NATSConfig       `toml:"nats"`
	Mongo      MongoConfig      `toml:"mongo"`
	Minio      MinioConfig      `toml:"minio"`
	ElevenLabs ElevenLabsConfig `toml:"elevenlabs"`
	Identity   IdentityConfig   `toml:"identity"`
	HTTP       HTTPConfig       `toml:"http"`
	Paths      PathsConfig      `toml:"paths"`
}

// Load loads the configuration for the narration service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return &cfg, nil
}
