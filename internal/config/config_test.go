package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DraftBaseURL != "https://draft.premierleague.com/api" {
		t.Errorf("DraftBaseURL = %q", cfg.DraftBaseURL)
	}
	if cfg.PublicBaseURL != "https://fantasy.premierleague.com/api" {
		t.Errorf("PublicBaseURL = %q", cfg.PublicBaseURL)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q, want data", cfg.DataDir)
	}
	if cfg.RequestTimeout != 20*time.Second {
		t.Errorf("RequestTimeout = %v, want 20s", cfg.RequestTimeout)
	}
	if cfg.FetchConcurrency != 4 {
		t.Errorf("FetchConcurrency = %d, want 4", cfg.FetchConcurrency)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("FPL_LEAGUE_ID", "12345")
	t.Setenv("FPL_DATA_DIR", "/tmp/fpl")
	t.Setenv("FPL_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LeagueID != 12345 {
		t.Errorf("LeagueID = %d, want 12345", cfg.LeagueID)
	}
	if cfg.DataDir != "/tmp/fpl" {
		t.Errorf("DataDir = %q, want /tmp/fpl", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "league_id: 111\ndata_dir: from-file\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FPL_CONFIG", path)
	t.Setenv("FPL_LEAGUE_ID", "222")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Env wins over file, file wins over defaults.
	if cfg.LeagueID != 222 {
		t.Errorf("LeagueID = %d, want 222 (env over file)", cfg.LeagueID)
	}
	if cfg.DataDir != "from-file" {
		t.Errorf("DataDir = %q, want from-file", cfg.DataDir)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("FPL_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Error("Load = nil error, want failure for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); !errors.Is(err, ErrLeagueIDRequired) {
		t.Errorf("err = %v, want ErrLeagueIDRequired", err)
	}

	cfg.LeagueID = 42
	if err := cfg.Validate(); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}
