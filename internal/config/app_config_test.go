package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, c.SlogLevel())
		})
	}
}

func TestAppConfig_Paths(t *testing.T) {
	c := &AppConfig{DataDir: "/data"}
	assert.Equal(t, "/data/logs", c.LogDir())
	assert.Equal(t, "/data/history.db", c.HistoryDBPath())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EMAIL_DATA_DIR", "/tmp/test-email-cli")
	// t.Setenv registers the restore; unset so the defaults apply.
	for _, key := range []string{"EMAIL_TEST_MODE", "EMAIL_LOG_LEVEL", "EMAIL_POLL_INTERVAL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	// Test mode must default to true: an unconfigured process never sends
	// real mail by accident.
	assert.True(t, cfg.TestMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/tmp/test-email-cli", cfg.DataDir)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EMAIL_TEST_MODE", "false")
	t.Setenv("EMAIL_LOG_LEVEL", "debug")
	t.Setenv("EMAIL_DATA_DIR", "/tmp/test-email-cli")
	t.Setenv("EMAIL_POLL_INTERVAL", "50ms")
	t.Setenv("EMAIL_GMAIL_ADDRESS", "me@gmail.com")
	t.Setenv("EMAIL_GMAIL_PASSWORD", "app-password")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.TestMode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "me@gmail.com", cfg.GmailAddress)
	assert.Equal(t, "app-password", cfg.GmailPassword)
}
