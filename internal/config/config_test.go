package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/bank")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCOUNTS_URL", "http://localhost:8081")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "NovaBank", cfg.AppName)
	require.Equal(t, ":8080", cfg.Address())
	require.Equal(t, 5, cfg.Retry.MaxAttempts)
	require.Equal(t, time.Second, cfg.Retry.InitialInterval)
	require.Equal(t, "1000", cfg.BlockerMaxAmount.String())
	require.InDelta(t, 0.05, cfg.BlockerProbability, 1e-9)
	require.False(t, cfg.BlockerFailClosed)
}

func TestLoadRequiresMandatoryVariables(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCOUNTS_URL", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ACCOUNTS_URL")
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("RETRY_MAX_ATTEMPTS", "2")
	t.Setenv("RETRY_INITIAL_INTERVAL", "250ms")
	t.Setenv("BLOCKER_MAX_AMOUNT", "2500.50")
	t.Setenv("BLOCKER_FAIL_CLOSED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Address())
	require.Equal(t, 2, cfg.Retry.MaxAttempts)
	require.Equal(t, 250*time.Millisecond, cfg.Retry.InitialInterval)
	require.Equal(t, "2500.5", cfg.BlockerMaxAmount.String())
	require.True(t, cfg.BlockerFailClosed)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RETRY_MAX_ATTEMPTS", "zero")

	_, err := Load()
	require.Error(t, err)
}
