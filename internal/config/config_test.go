package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "season_data.csv", cfg.Output)
	assert.Equal(t, 100, cfg.ProgressEvery)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envOf(map[string]string{
		EnvArchive:  "/data/ipl_json.zip",
		EnvProfiles: "people.csv",
		EnvFormat:   "json",
		EnvWorkers:  " 4 ",
		EnvOut:      "  ",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/data/ipl_json.zip", cfg.Archive)
	assert.Equal(t, "people.csv", cfg.Profiles)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "season_data.csv", cfg.Output, "blank values are ignored")
}

func TestApplyEnv_BadWorkers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyEnv(envOf(map[string]string{EnvWorkers: "many"})))
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty archive":  func(c *Config) { c.Archive = "" },
		"empty output":   func(c *Config) { c.Output = "" },
		"bad format":     func(c *Config) { c.Format = "xlsx" },
		"zero workers":   func(c *Config) { c.Workers = 0 },
		"neg progress":   func(c *Config) { c.ProgressEvery = -1 },
		"store no db":    func(c *Config) { c.DBPath = "" },
		"bad log level":  func(c *Config) { c.LogLevel = "chatty" },
		"bad log format": func(c *Config) { c.LogFormat = "logfmt" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}

	cfg := DefaultConfig()
	cfg.Store, cfg.DBPath = false, ""
	assert.NoError(t, cfg.Validate())
}
