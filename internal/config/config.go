package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pable/go-cricket-metrics/internal/export"
	"github.com/pable/go-cricket-metrics/internal/logging"
)

// Environment variables read by ApplyEnv.
const (
	EnvArchive   = "CRICMETRICS_ARCHIVE"
	EnvProfiles  = "CRICMETRICS_PROFILES"
	EnvOut       = "CRICMETRICS_OUT"
	EnvFormat    = "CRICMETRICS_FORMAT"
	EnvWorkers   = "CRICMETRICS_WORKERS"
	EnvDB        = "CRICMETRICS_DB"
	EnvLogLevel  = "CRICMETRICS_LOG_LEVEL"
	EnvLogFormat = "CRICMETRICS_LOG_FORMAT"
)

// Config holds the settings of one aggregation run.
type Config struct {
	Archive       string // zip file or directory of match JSON
	Profiles      string // optional profile CSV; empty disables the join
	Output        string
	Format        string // csv or json
	Workers       int    // 1 = sequential reference pass
	DBPath        string // empty disables persistence
	Store         bool
	MetricsOut    string
	ProgressEvery int
	LogLevel      string
	LogFormat     string
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() *Config {
	return &Config{
		Archive:       "Archive.zip",
		Output:        "season_data.csv",
		Format:        export.FormatCSV,
		Workers:       runtime.GOMAXPROCS(0),
		DBPath:        filepath.Join(userHome(), ".cricmetrics", "metrics.db"),
		Store:         true,
		ProgressEvery: 100,
		LogLevel:      "info",
		LogFormat:     logging.FormatConsole,
	}
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// ApplyEnv overrides fields from environment variables that are set. lookup is
// normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvArchive, &c.Archive)
	str(EnvProfiles, &c.Profiles)
	str(EnvOut, &c.Output)
	str(EnvFormat, &c.Format)
	str(EnvDB, &c.DBPath)
	str(EnvLogLevel, &c.LogLevel)
	str(EnvLogFormat, &c.LogFormat)

	if v, ok := lookup(EnvWorkers); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate ensures all values are coherent.
func (c *Config) Validate() error {
	if c.Archive == "" {
		return fmt.Errorf("archive path cannot be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	switch c.Format {
	case export.FormatCSV, export.FormatJSON:
	default:
		return fmt.Errorf("output format must be csv or json, got %q", c.Format)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("progress interval cannot be negative")
	}
	if c.Store && c.DBPath == "" {
		return fmt.Errorf("database path cannot be empty when storing results")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.LogFormat)
	}
	return nil
}
