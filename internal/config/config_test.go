package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Pricing.QuoteTTL)
	assert.Equal(t, 24*time.Hour, cfg.Redis.RouteTTL)
	assert.Equal(t, "Asia/Colombo", cfg.Pricing.TimeZone)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RECHARGE_HTTP_ADDR", ":9090")
	t.Setenv("RECHARGE_PRICING_QUOTE_TTL", "10m")
	t.Setenv("RECHARGE_REDIS_ADDR", "localhost:6379")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Pricing.QuoteTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "gem-key", cfg.AI.GeminiKey)
}

func TestLoadRejectsBadTimeZone(t *testing.T) {
	t.Setenv("RECHARGE_PRICING_TIME_ZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("RECHARGE_PRICING_QUOTE_TTL", "0s")
	_, err := Load()
	assert.Error(t, err)
}
