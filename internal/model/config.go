package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BlockingConfig holds the website-blocking settings.
type BlockingConfig struct {
	// Sites lists the hostnames blocked while focus blocking is active.
	Sites []string `mapstructure:"sites" yaml:"sites"`

	// RedirectIP is the address blocked hostnames resolve to.
	RedirectIP string `mapstructure:"redirect_ip" yaml:"redirect_ip"`
}

// NotifierConfig holds settings for the standalone background notifier.
type NotifierConfig struct {
	// PollIntervalSec is how often the notifier re-reads the store.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// RetentionHours is how long emitted notifications are kept before
	// pruning.
	RetentionHours int `mapstructure:"retention_hours" yaml:"retention_hours"`
}

// EvaluatorConfig holds settings for the in-dashboard evaluation cycle.
type EvaluatorConfig struct {
	// RecheckIntervalSec bounds how often a full evaluation pass runs.
	RecheckIntervalSec int `mapstructure:"recheck_interval_sec" yaml:"recheck_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DBPath    string          `mapstructure:"db_path" yaml:"db_path"`
	Blocking  BlockingConfig  `mapstructure:"blocking" yaml:"blocking"`
	Notifier  NotifierConfig  `mapstructure:"notifier" yaml:"notifier"`
	Evaluator EvaluatorConfig `mapstructure:"evaluator" yaml:"evaluator"`
}

// defaultBlockedSites is the out-of-the-box distraction list, with www
// variants so both forms of each hostname resolve to the redirect.
var defaultBlockedSites = []string{
	"youtube.com", "www.youtube.com",
	"instagram.com", "www.instagram.com",
	"facebook.com", "www.facebook.com",
	"twitter.com", "www.twitter.com", "x.com", "www.x.com",
	"reddit.com", "www.reddit.com",
	"netflix.com", "www.netflix.com",
	"twitch.tv", "www.twitch.tv",
	"tiktok.com", "www.tiktok.com",
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/focusdeck/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "focusdeck", "config.yaml")
}

// DefaultDBPath returns the default SQLite database location under the
// user's home directory.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "focusdeck.db")
	}
	return filepath.Join(home, ".local", "share", "focusdeck", "focusdeck.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DBPath: DefaultDBPath(),
		Blocking: BlockingConfig{
			Sites:      append([]string(nil), defaultBlockedSites...),
			RedirectIP: "127.0.0.1",
		},
		Notifier: NotifierConfig{
			PollIntervalSec: 5,
			RetentionHours:  24,
		},
		Evaluator: EvaluatorConfig{
			RecheckIntervalSec: 30,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("blocking.redirect_ip", "127.0.0.1")
	v.SetDefault("notifier.poll_interval_sec", 5)
	v.SetDefault("notifier.retention_hours", 24)
	v.SetDefault("evaluator.recheck_interval_sec", 30)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(cfg.Blocking.Sites) == 0 {
		cfg.Blocking.Sites = append([]string(nil), defaultBlockedSites...)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("blocking", cfg.Blocking)
	v.Set("notifier", cfg.Notifier)
	v.Set("evaluator", cfg.Evaluator)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
