package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the laundrydesk console.
//
// Fields:
//   - APIBaseURL: root URL of the laundry REST API.
//   - SessionCheckInterval: how often the session monitor re-validates the token.
//   - RequestTimeout: per-request timeout for API calls.
//   - DatabasePath: SQLite file holding persisted credentials.
//   - DefaultCallingCode: calling code preselected in the phone login form.
//   - LogBackend: "slog" or "zap".
type Config struct {
	APIBaseURL           string
	SessionCheckInterval time.Duration
	RequestTimeout       time.Duration
	DatabasePath         string
	DefaultCallingCode   string
	LogBackend           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.SessionCheckInterval = 5 * time.Minute
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "laundrydesk.db"
	c.DefaultCallingCode = "+965"
	c.LogBackend = "slog"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
