// Package config loads MotoDash settings from environment defaults with an
// optional user-edited overrides file on top. The sync controller never
// watches this configuration; a change takes effect only through an explicit
// re-initialization call.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// SettingsFile is the name of the overrides file inside the data directory.
// It is what the settings screen writes.
const SettingsFile = "settings.json"

// DefaultPollInterval is how often the controller silently re-fetches remote
// state to pick up edits from other devices.
const DefaultPollInterval = 40 * time.Second

// Config holds the application configuration.
type Config struct {
	// SupabaseURL is the remote store project URL.
	// Environment variable: SUPABASE_URL
	SupabaseURL string `koanf:"SUPABASE_URL" json:"supabaseUrl"`

	// SupabaseKey is the remote store anon key.
	// Environment variable: SUPABASE_ANON_KEY
	SupabaseKey string `koanf:"SUPABASE_ANON_KEY" json:"supabaseKey"`

	// GeminiAPIKey enables the optional AI insights summary.
	// Environment variable: GEMINI_API_KEY
	GeminiAPIKey string `koanf:"GEMINI_API_KEY" json:"-"`

	// DataDir is where cache snapshots and the settings file live.
	// Environment variable: MOTODASH_DATA_DIR
	DataDir string `koanf:"MOTODASH_DATA_DIR" json:"-"`

	// PollInterval is the silent-refresh cadence, from the
	// MOTODASH_POLL_INTERVAL environment variable (Go duration string).
	PollInterval time.Duration `koanf:"-" json:"-"`
}

// Load reads environment defaults, then layers the overrides file from the
// data directory on top when it exists. A missing overrides file is normal.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("load environment config: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".motodash")
	}
	cfg.PollInterval = DefaultPollInterval
	if raw := k.String("MOTODASH_POLL_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse MOTODASH_POLL_INTERVAL %q: %w", raw, err)
		}
		cfg.PollInterval = interval
	}

	if err := cfg.applyOverrides(k); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyOverrides layers the user-edited settings file over the environment
// values. Only the remote credentials are user-editable.
func (c *Config) applyOverrides(k *koanf.Koanf) error {
	path := filepath.Join(c.DataDir, SettingsFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
		return fmt.Errorf("load settings overrides %q: %w", path, err)
	}

	if v := k.String("supabaseUrl"); v != "" {
		c.SupabaseURL = v
	}
	if v := k.String("supabaseKey"); v != "" {
		c.SupabaseKey = v
	}

	return nil
}

// RemoteConfigured reports whether the remote credentials look usable. The
// thresholds mirror the original client: anything shorter is treated as
// unconfigured, which is a valid mode, not an error.
func (c *Config) RemoteConfigured() bool {
	return len(c.SupabaseURL) > 5 && len(c.SupabaseKey) > 10
}

// SaveOverrides persists user-entered remote credentials to the settings
// file in the data directory.
func SaveOverrides(dataDir, supabaseURL, supabaseKey string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %q: %w", dataDir, err)
	}

	data, err := json.MarshalIndent(map[string]string{
		"supabaseUrl": supabaseURL,
		"supabaseKey": supabaseKey,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	path := filepath.Join(dataDir, SettingsFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write settings %q: %w", path, err)
	}

	return nil
}
