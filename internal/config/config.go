// Package config defines pipeline configuration and its loading order:
// defaults, then an optional YAML file (FPL_CONFIG), then FPL_-prefixed
// environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var ErrLeagueIDRequired = errors.New("league_id is required")

// Config holds everything both binaries need.
type Config struct {
	// LeagueID is the single configured draft league.
	LeagueID int `koanf:"league_id"`

	// DraftBaseURL serves league, entry, game and live endpoints.
	DraftBaseURL string `koanf:"draft_base_url"`

	// PublicBaseURL serves the public bootstrap-static and fixtures
	// endpoints used for deadlines and kickoff times.
	PublicBaseURL string `koanf:"public_base_url"`

	// DataDir is the root for reference CSVs, snapshots and the master file.
	DataDir string `koanf:"data_dir"`

	// RequestTimeout bounds each HTTP fetch.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// FetchConcurrency caps concurrent manager-pick fetches per gameweek.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ServerAddr is the dashboard MCP server listen address.
	ServerAddr string `koanf:"server_addr"`
}

// New returns the defaults every load starts from.
func New() *Config {
	return &Config{
		DraftBaseURL:     "https://draft.premierleague.com/api",
		PublicBaseURL:    "https://fantasy.premierleague.com/api",
		DataDir:          "data",
		RequestTimeout:   20 * time.Second,
		FetchConcurrency: 4,
		LogLevel:         "info",
		ServerAddr:       ":8080",
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FPL_CONFIG is set
//  3. env (prefix FPL_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FPL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// FPL_LEAGUE_ID -> league_id, FPL_DATA_DIR -> data_dir, ...
	envProvider := env.Provider("FPL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "fpl_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields callers cannot default. It runs after
// command-line overrides, not inside Load, so flags can still supply the
// league ID.
func (c *Config) Validate() error {
	if c.LeagueID == 0 {
		return ErrLeagueIDRequired
	}
	return nil
}
