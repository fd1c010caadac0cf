package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/retropoll/history"
)

type Config struct {
	Port       int
	HistoryDSN string
	RetryDelay time.Duration
}

// ParseFlags validates flags, falling back to a .env file and then the
// process environment for anything not given on the command line.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("retropoll", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.HistoryDSN, "history-dsn", "", "History archive DSN (in-memory by default)")
	fs.DurationVar(&cfg.RetryDelay, "retry-delay", 0, "Client reconnect delay")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8666 // default
		}
	}

	if cfg.HistoryDSN == "" {
		cfg.HistoryDSN = os.Getenv("HISTORY_DSN")
	}
	if cfg.HistoryDSN == "" {
		cfg.HistoryDSN = history.DefaultDSN
	}

	if cfg.RetryDelay == 0 {
		if delayStr := os.Getenv("RETRY_DELAY"); delayStr != "" {
			delay, err := time.ParseDuration(delayStr)
			if err != nil {
				return Config{}, errors.New("invalid RETRY_DELAY env variable")
			}
			cfg.RetryDelay = delay
		} else {
			cfg.RetryDelay = time.Second
		}
	}
	if cfg.RetryDelay < 0 {
		return Config{}, errors.New("retry delay must be positive")
	}

	return cfg, nil
}
