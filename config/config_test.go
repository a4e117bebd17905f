package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
qbittorrent:
  url: http://localhost:8080
  username: admin
  password: secret

policy:
  default:
    ratio: 2.0
    seeding_minutes: 720
    action: pause
    exclude_tags:
      - keep
  trackers:
    tracker.example.org:
      ratio: 5.0
    archive.tld:
      idle_minutes: 120
      action: remove_data

runtime:
  interval_seconds: 120
  dry_run: false

filter:
  expression: 'Category == "managed"'

logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Qbittorrent.URL)
	assert.Equal(t, "admin", cfg.Qbittorrent.Username)

	require.NotNil(t, cfg.Policy.Default.Ratio)
	assert.Equal(t, 2.0, *cfg.Policy.Default.Ratio)
	require.NotNil(t, cfg.Policy.Default.SeedingMinutes)
	assert.Equal(t, 720, *cfg.Policy.Default.SeedingMinutes)
	assert.Nil(t, cfg.Policy.Default.IdleMinutes)
	assert.Equal(t, []string{"keep"}, cfg.Policy.Default.ExcludeTags)

	require.Contains(t, cfg.Policy.Trackers, "tracker.example.org")
	entry := cfg.Policy.Trackers["tracker.example.org"]
	require.NotNil(t, entry.Ratio)
	assert.Equal(t, 5.0, *entry.Ratio)
	// Field left out of a tracker entry stays unset; the policy layer
	// merges it against the default at resolution time.
	assert.Nil(t, entry.SeedingMinutes)
	assert.Nil(t, entry.Action)

	assert.Equal(t, 120, cfg.Runtime.IntervalSeconds)
	assert.False(t, cfg.Runtime.DryRun)
	assert.Equal(t, `Category == "managed"`, cfg.Filter.Expression)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
qbittorrent:
  url: http://localhost:8080
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Runtime.IntervalSeconds)
	assert.True(t, cfg.Runtime.DryRun, "dry run must default to on")
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Qbittorrent: QbittorrentConfig{URL: "http://localhost:8080"},
			Runtime:     RuntimeConfig{IntervalSeconds: 60},
			Logging:     LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.Qbittorrent.URL = "" },
			wantErr: "qbittorrent.url is required",
		},
		{
			name:    "zero interval",
			mutate:  func(c *Config) { c.Runtime.IntervalSeconds = 0 },
			wantErr: "runtime.interval_seconds must be positive",
		},
		{
			name: "bad action",
			mutate: func(c *Config) {
				action := "stop"
				c.Policy.Default.Action = &action
			},
			wantErr: "invalid policy.default.action",
		},
		{
			name: "bad tracker ratio",
			mutate: func(c *Config) {
				ratio := -1.0
				c.Policy.Trackers = map[string]PolicyEntry{"x.tld": {Ratio: &ratio}}
			},
			wantErr: "policy.trackers.x.tld.ratio must be positive",
		},
		{
			name: "negative idle minutes",
			mutate: func(c *Config) {
				idle := -5
				c.Policy.Default.IdleMinutes = &idle
			},
			wantErr: "policy.default.idle_minutes must not be negative",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "invalid logging level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
