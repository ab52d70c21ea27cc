package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	sum := Report(&buf, []Result{
		{Name: "estimate sedan", Status: "PASS", Latency: 1500 * time.Microsecond},
		{Name: "booking flow", Status: "FAIL", Note: "status 500"},
		{Name: "db ping", Status: "SKIP", Note: "no DSN"},
		{Name: "estimate suv", Status: "PASS"},
	})

	assert.Equal(t, Summary{Pass: 2, Fail: 1, Skip: 1}, sum)
	out := buf.String()
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "1.5ms")
	assert.Contains(t, out, "status 500")
	assert.Contains(t, out, "PASS=2 FAIL=1 SKIP=1")
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("RECHARGE_BENCH_BASE_URL", "http://env:9000")
	t.Setenv("RECHARGE_BENCH_CONCURRENCY", "4")
	t.Setenv("RECHARGE_DB_DSN", "postgres://from-env")

	cfg, err := loadConfig([]string{"-base-url", "http://flag:8080/", "-duration", "2s"})
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8080", cfg.BaseURL)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.Duration)
	assert.Equal(t, "postgres://from-env", cfg.DSN)
	assert.Equal(t, "migrations", cfg.Migrations)

	_, err = loadConfig([]string{"-concurrency", "0"})
	assert.Error(t, err)
}
