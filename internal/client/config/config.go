package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophtracker/internal/netx"
)

// Config holds runtime settings for the tracker CLI.
type Config struct {
	// ServerBaseURL is the root of the REST API, e.g. http://127.0.0.1:8000.
	ServerBaseURL string
	// DBPath is the SQLite file that keeps the session between runs.
	DBPath         string
	RequestTimeout time.Duration
	PageSize       int
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.DBPath = "tracker.db"
	c.RequestTimeout = 10 * time.Second
	c.PageSize = 10
	c.LogLevel = "info"
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := netx.JoinURL(c.ServerBaseURL, "/"); err != nil {
		errs = append(errs, fmt.Errorf("server base url: %w", err))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d", c.PageSize))
	}
	return errors.Join(errs...)
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// command-line flags. Later sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
