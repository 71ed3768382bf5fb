package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_PROVIDER", "S3")
	t.Setenv("REVIEWER_TOKEN_TTL", "3600")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com/, ,https://b.example.com")
	t.Setenv("FRONTEND_URL", "https://site.example.com/")
	t.Setenv("RATE_LIMIT_SUBMIT_THRESHOLD", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3", cfg.StorageProvider)
	assert.Equal(t, time.Hour, cfg.ReviewerTokenTTL)
	assert.Equal(t, 5, cfg.RateLimitSubmitThreshold)
	assert.Equal(t, []string{"https://site.example.com", "https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins())
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_DURATION", "90m")
	assert.Equal(t, 90*time.Minute, getEnvDuration("X_DURATION", time.Second))

	t.Setenv("X_DURATION", "bogus")
	assert.Equal(t, time.Second, getEnvDuration("X_DURATION", time.Second))
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.Local, (&Config{}).Location())
	assert.Equal(t, time.Local, (&Config{Timezone: "Nowhere/City"}).Location())
	assert.Equal(t, "UTC", (&Config{Timezone: "UTC"}).Location().String())
}
