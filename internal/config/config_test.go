// Package config_test tests the configuration loading for the narration service.
package config_test

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talesai/narration-service/internal/config"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tomlData := `
[nats]
url = "nats://127.0.0.1:4222"
narration_subject = "narration.requested"
narration_object_bucket = "NARRATION_AUDIO"
use_object_store = false
request_timeout_seconds = 120

[mongo]
uri = "mongodb://127.0.0.1:27017"
database = "talesai"

[minio]
endpoint = "127.0.0.1:9000"
access_key = "minio"
secret_key = "minio123"
bucket = "talesai-artifacts"
use_ssl = false
url_expiry_hours = 24

[elevenlabs]
base_url = "https://api.elevenlabs.io/v1"
api_key = "xi-test-key"
timeout_seconds = 60

[identity]
verify_url = "http://127.0.0.1:9099/verify"
timeout_seconds = 10

[http]
port = 8080
allowed_origins = ["*"]

[paths]
base_logs_dir = "/var/log/narration-service"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "narration.requested", cfg.NATS.NarrationSubject)
	assert.Equal(t, "NARRATION_AUDIO", cfg.NATS.NarrationObjectBucket)
	assert.False(t, cfg.NATS.UseObjectStore)
	assert.Equal(t, 120, cfg.NATS.RequestTimeoutSeconds)
	assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.Mongo.URI)
	assert.Equal(t, "talesai", cfg.Mongo.Database)
	assert.Equal(t, "127.0.0.1:9000", cfg.Minio.Endpoint)
	assert.Equal(t, "talesai-artifacts", cfg.Minio.Bucket)
	assert.Equal(t, 24, cfg.Minio.URLExpiryHours)
	assert.Equal(t, "https://api.elevenlabs.io/v1", cfg.ElevenLabs.BaseURL)
	assert.Equal(t, "xi-test-key", cfg.ElevenLabs.APIKey)
	assert.Equal(t, 60, cfg.ElevenLabs.TimeoutSeconds)
	assert.Equal(t, "http://127.0.0.1:9099/verify", cfg.Identity.VerifyURL)
	assert.Equal(t, 10, cfg.Identity.TimeoutSeconds)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "/var/log/narration-service", cfg.Paths.BaseLogsDir)
}
