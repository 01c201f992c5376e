package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RABBITMQ_HOST", "mq")
	t.Setenv("PURGE_DELAY", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, "cache", cfg.RedisHost)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "mq", cfg.RabbitMQHost)
	assert.Equal(t, 90*time.Minute, cfg.PurgeDelay)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("PURGE_DELAY", "")
	t.Setenv("RATE_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 24*time.Hour, cfg.PurgeDelay)
	assert.Equal(t, 100, cfg.RateLimit)
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("PURGE_RETENTION", "-1h")
	t.Setenv("SWEEP_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, 72*time.Hour, cfg.PurgeRetention)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
}

func TestLoadConfig_ZeroPeriodsFallBack(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "0s")
	t.Setenv("RATE_LIMIT_WINDOW", "0")
	t.Setenv("PURGE_DELAY", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	// a zero purge delay is valid and publishes straight to the purge queue
	assert.Equal(t, time.Duration(0), cfg.PurgeDelay)

	assert.NotPanics(t, func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		ticker.Stop()
	})
}
