package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("COURSEGEN_PRIMARY.ENV", "development")
	t.Setenv("COURSEGEN_SERVER.PORT", "8080")
	t.Setenv("COURSEGEN_SERVER.CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	t.Setenv("COURSEGEN_DATABASE.HOST", "localhost")
	t.Setenv("COURSEGEN_DATABASE.PORT", "5432")
	t.Setenv("COURSEGEN_DATABASE.USER", "postgres")
	t.Setenv("COURSEGEN_DATABASE.PASSWORD", "postgres")
	t.Setenv("COURSEGEN_DATABASE.NAME", "coursegen")
	t.Setenv("COURSEGEN_REDIS.ADDRESS", "localhost:6379")
	t.Setenv("COURSEGEN_INTEGRATION.GEMINI.API_KEY", "gemini-key")
	t.Setenv("COURSEGEN_INTEGRATION.UNSPLASH.ACCESS_KEY", "unsplash-key")
	t.Setenv("COURSEGEN_INTEGRATION.YOUTUBE.API_KEY", "youtube-key")
	t.Setenv("COURSEGEN_INTEGRATION.EMAIL.FROM", "courses@example.com")
	t.Setenv("COURSEGEN_INTEGRATION.EMAIL.SMTP_USERNAME", "courses@example.com")
	t.Setenv("COURSEGEN_INTEGRATION.EMAIL.SMTP_PASSWORD", "app-password")
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "gemini-pro", cfg.Integration.Gemini.Model)
	assert.Equal(t, "gemini-1.5-flash", cfg.Integration.Gemini.ChatModel)
	assert.Equal(t, "smtp.gmail.com", cfg.Integration.Email.SMTPHost)
	assert.Equal(t, 465, cfg.Integration.Email.SMTPPort)
	assert.Equal(t, "https://via.placeholder.com/150", cfg.Integration.Unsplash.PlaceholderURL)
	assert.Equal(t, int64(5<<20), cfg.Integration.Storage.MaxFileBytes)
	assert.Equal(t, 24*time.Hour, cfg.Integration.Cache.MediaTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COURSEGEN_INTEGRATION.GEMINI.MODEL", "gemini-2.0-flash")
	t.Setenv("COURSEGEN_INTEGRATION.GEMINI.TIMEOUT", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.Integration.Gemini.Model)
	assert.Equal(t, 5*time.Second, cfg.Integration.Gemini.Timeout)
}

func TestLoadConfigFailsOnMissingProviderKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COURSEGEN_INTEGRATION.GEMINI.API_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigMongoDriverNeedsURI(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COURSEGEN_DATABASE.DRIVER", "mongo")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("COURSEGEN_DATABASE.MONGO_URI", "mongodb://localhost:27017")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
}

func TestObservabilityValidate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestHealthCheckEnabled(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HealthCheckEnabled("database"))
	assert.False(t, cfg.HealthCheckEnabled("mongo"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HealthCheckEnabled("database"))
}
