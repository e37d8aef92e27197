package config

import (
	"testing"
	"time"
)

func TestRemoteConfigured(t *testing.T) {
	tests := []struct {
		name string
		url  string
		key  string
		want bool
	}{
		{"both present", "https://xyz.supabase.co", "anon-key-long-enough", true},
		{"empty", "", "", false},
		{"url too short", "https", "anon-key-long-enough", false},
		{"key too short", "https://xyz.supabase.co", "short", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{SupabaseURL: tt.url, SupabaseKey: tt.key}
			if got := cfg.RemoteConfigured(); got != tt.want {
				t.Errorf("RemoteConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "env-anon-key-value")
	t.Setenv("MOTODASH_DATA_DIR", t.TempDir())
	t.Setenv("MOTODASH_POLL_INTERVAL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SupabaseURL != "https://env.supabase.co" {
		t.Errorf("SupabaseURL = %q", cfg.SupabaseURL)
	}
	if cfg.PollInterval != 90*time.Second {
		t.Errorf("PollInterval = %v, want 90s", cfg.PollInterval)
	}
	if !cfg.RemoteConfigured() {
		t.Error("expected remote to be configured from env")
	}
}

func TestLoadDefaultsWithoutEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	t.Setenv("MOTODASH_DATA_DIR", t.TempDir())
	t.Setenv("MOTODASH_POLL_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want default %v", cfg.PollInterval, DefaultPollInterval)
	}
	if cfg.RemoteConfigured() {
		t.Error("expected unconfigured remote with empty env")
	}
}

func TestOverridesFileWinsOverEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "env-anon-key-value")
	t.Setenv("MOTODASH_DATA_DIR", dir)

	if err := SaveOverrides(dir, "https://user.supabase.co", "user-entered-key"); err != nil {
		t.Fatalf("SaveOverrides failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SupabaseURL != "https://user.supabase.co" {
		t.Errorf("SupabaseURL = %q, want user override", cfg.SupabaseURL)
	}
	if cfg.SupabaseKey != "user-entered-key" {
		t.Errorf("SupabaseKey = %q, want user override", cfg.SupabaseKey)
	}
}
