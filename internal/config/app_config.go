// Package config loads process configuration from EMAIL_-prefixed environment
// variables and provides the server-profile registry used by the real SMTP
// transport.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// TestMode selects the simulated transport. Defaults to true so that an
	// unconfigured process can never send real mail by accident.
	TestMode bool `envconfig:"EMAIL_TEST_MODE" default:"true"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"EMAIL_LOG_LEVEL" default:"info"`

	// DataDir is the root data directory. Defaults to ~/.email-cli-app.
	DataDir string `envconfig:"EMAIL_DATA_DIR"`

	// PollInterval is the dispatcher's idle interval between queue scans.
	PollInterval time.Duration `envconfig:"EMAIL_POLL_INTERVAL" default:"500ms"`

	// ProfilesFile is an optional YAML file overlaying the built-in server
	// profiles with user-defined ones.
	ProfilesFile string `envconfig:"EMAIL_PROFILES_FILE"`

	// Per-profile sender credentials. Unset is the valid "not configured"
	// state: the profile is listed but real sends through it fail.
	GmailAddress    string `envconfig:"EMAIL_GMAIL_ADDRESS"`
	GmailPassword   string `envconfig:"EMAIL_GMAIL_PASSWORD"`
	YandexAddress   string `envconfig:"EMAIL_YANDEX_ADDRESS"`
	YandexPassword  string `envconfig:"EMAIL_YANDEX_PASSWORD"`
	OutlookAddress  string `envconfig:"EMAIL_OUTLOOK_ADDRESS"`
	OutlookPassword string `envconfig:"EMAIL_OUTLOOK_PASSWORD"`
}

// Load reads AppConfig from environment variables using envconfig.
// DataDir defaults to ~/.email-cli-app if not set.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".email-cli-app")
	}
	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDir returns the path to the log directory.
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// HistoryDBPath returns the path to the send-history SQLite database.
func (c *AppConfig) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}
