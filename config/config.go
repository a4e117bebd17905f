package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	// Tracker policy keys are hostnames and contain dots, so the default
	// "." key delimiter would split them apart during unmarshaling.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sentinelarr"))
		}

		// Check /etc
		v.AddConfigPath("/etc/sentinelarr/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// qBittorrent defaults
	v.SetDefault("qbittorrent::url", "http://localhost:8080")

	// Runtime defaults
	v.SetDefault("runtime::interval_seconds", 300)
	v.SetDefault("runtime::dry_run", true)

	// Logging defaults
	v.SetDefault("logging::level", "info")
	v.SetDefault("logging::format", "console")
	v.SetDefault("logging::color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Qbittorrent.URL == "" {
		return fmt.Errorf("qbittorrent.url is required")
	}

	if cfg.Runtime.IntervalSeconds <= 0 {
		return fmt.Errorf("runtime.interval_seconds must be positive, got %d", cfg.Runtime.IntervalSeconds)
	}

	if err := validateEntry("policy.default", cfg.Policy.Default); err != nil {
		return err
	}
	for host, entry := range cfg.Policy.Trackers {
		if err := validateEntry("policy.trackers."+host, entry); err != nil {
			return err
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// validateEntry checks a single policy entry
func validateEntry(key string, entry PolicyEntry) error {
	if entry.Ratio != nil && *entry.Ratio <= 0 {
		return fmt.Errorf("%s.ratio must be positive, got %g", key, *entry.Ratio)
	}
	if entry.SeedingMinutes != nil && *entry.SeedingMinutes < 0 {
		return fmt.Errorf("%s.seeding_minutes must not be negative, got %d", key, *entry.SeedingMinutes)
	}
	if entry.IdleMinutes != nil && *entry.IdleMinutes < 0 {
		return fmt.Errorf("%s.idle_minutes must not be negative, got %d", key, *entry.IdleMinutes)
	}
	if entry.Action != nil {
		validActions := map[string]bool{
			"pause":       true,
			"remove":      true,
			"remove_data": true,
		}
		if !validActions[*entry.Action] {
			return fmt.Errorf("invalid %s.action: %s (must be 'pause', 'remove' or 'remove_data')", key, *entry.Action)
		}
	}
	return nil
}
