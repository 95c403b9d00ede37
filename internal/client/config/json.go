package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/laundrydesk/internal/flagx"
	"github.com/dmitrijs2005/laundrydesk/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Empty fields leave the
// current value untouched.
type JsonConfig struct {
	APIBaseURL           string         `json:"api_base_url"`
	SessionCheckInterval timex.Duration `json:"session_check_interval"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	DatabasePath         string         `json:"database_path"`
	DefaultCallingCode   string         `json:"default_calling_code"`
	LogBackend           string         `json:"log_backend"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on read
// or decode errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.SessionCheckInterval.Duration > 0 {
		cfg.SessionCheckInterval = jc.SessionCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.DefaultCallingCode != "" {
		cfg.DefaultCallingCode = jc.DefaultCallingCode
	}
	if jc.LogBackend != "" {
		cfg.LogBackend = jc.LogBackend
	}
}
