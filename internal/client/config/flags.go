package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/laundrydesk/internal/flagx"
)

// parseFlags populates Config fields from command-line flags:
//
//	-a string   API base URL
//	-i int      session check interval (seconds)
//	-d string   SQLite database path
//	-l string   log backend (slog|zap)
//
// Arguments not listed above are filtered out first so the -c/-config flag
// handled by parseJson does not trip this flag set.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "laundry API base URL")
	checkInterval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local credential database")
	fs.StringVar(&cfg.LogBackend, "l", cfg.LogBackend, "log backend: slog or zap")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionCheckInterval = time.Duration(*checkInterval) * time.Second
}
