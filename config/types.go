package config

// Config represents the complete configuration structure
type Config struct {
	Qbittorrent QbittorrentConfig `mapstructure:"qbittorrent"`
	Policy      PolicyConfig      `mapstructure:"policy"`
	Runtime     RuntimeConfig     `mapstructure:"runtime"`
	Filter      FilterConfig      `mapstructure:"filter"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// QbittorrentConfig holds qBittorrent Web API connection details
type QbittorrentConfig struct {
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	BasicUser     string `mapstructure:"basic_user"`
	BasicPass     string `mapstructure:"basic_pass"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
	Timeout       int    `mapstructure:"timeout"`
}

// PolicyConfig contains the default policy plus per-tracker overrides.
// Tracker keys are announce hostnames, optionally host:port.
type PolicyConfig struct {
	Default  PolicyEntry            `mapstructure:"default"`
	Trackers map[string]PolicyEntry `mapstructure:"trackers"`
}

// PolicyEntry is a partial policy as written in the config file. Nil
// fields on a tracker entry inherit from the default entry.
type PolicyEntry struct {
	Ratio          *float64 `mapstructure:"ratio"`
	SeedingMinutes *int     `mapstructure:"seeding_minutes"`
	IdleMinutes    *int     `mapstructure:"idle_minutes"`
	Action         *string  `mapstructure:"action"`
	IncludeTags    []string `mapstructure:"include_tags"`
	ExcludeTags    []string `mapstructure:"exclude_tags"`
}

// RuntimeConfig contains loop behavior settings
type RuntimeConfig struct {
	IntervalSeconds int  `mapstructure:"interval_seconds"`
	DryRun          bool `mapstructure:"dry_run"`
}

// FilterConfig contains the optional torrent pre-filter
type FilterConfig struct {
	Expression string `mapstructure:"expression"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
