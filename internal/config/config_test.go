package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate keeps Load from reading the developer's real config and .env.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(Options{DotEnv: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != ThemeDark || cfg.Transport.Kind != TransportLoopback {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !cfg.Notify.Enabled || cfg.Log.Level != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if filepath.Base(cfg.Storage.Path) != "meshchat.db" {
		t.Fatalf("storage path = %s", cfg.Storage.Path)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "meshchat.toml")
	writeFile(t, path, `
nickname = "neo"
theme = "light"

[transport]
kind = "relay"
relay_url = "ws://localhost:9000/mesh"

[notify]
enabled = false
`)
	t.Setenv("MESHCHAT_NICKNAME", "trinity")
	t.Setenv("MESHCHAT_LOG__LEVEL", "debug")

	cfg, err := Load(Options{Path: path, DotEnv: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Nickname != "trinity" {
		t.Fatalf("env should override file, got %q", cfg.Nickname)
	}
	if cfg.Theme != ThemeLight || cfg.Transport.Kind != TransportRelay || cfg.Transport.RelayURL != "ws://localhost:9000/mesh" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Notify.Enabled {
		t.Fatal("notify should be disabled")
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %s", cfg.Log.Level)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := isolate(t)
	writeFile(t, DefaultPath(), `nickname = "from-home"`)
	cfg, err := Load(Options{DotEnv: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Nickname != "from-home" {
		t.Fatalf("nickname = %q", cfg.Nickname)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	dotenv := filepath.Join(dir, ".env")
	writeFile(t, dotenv, "MESHCHAT_THEME=light\n")
	t.Cleanup(func() { os.Unsetenv("MESHCHAT_THEME") })

	cfg, err := Load(Options{DotEnv: dotenv})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != ThemeLight {
		t.Fatalf("theme = %s", cfg.Theme)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(Options{Path: filepath.Join(dir, "nope.toml")}); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{Theme: ThemeDark}
		cfg.Transport.Kind = TransportLoopback
		cfg.Storage.Path = "/tmp/x.db"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad theme", func(c *Config) { c.Theme = "solarized" }, "unknown theme"},
		{"bad transport", func(c *Config) { c.Transport.Kind = "ble" }, "unknown transport"},
		{"relay without url", func(c *Config) { c.Transport.Kind = TransportRelay }, "relay_url is required"},
		{"relay with http url", func(c *Config) {
			c.Transport.Kind = TransportRelay
			c.Transport.RelayURL = "http://x"
		}, "ws://"},
		{"relay ok", func(c *Config) {
			c.Transport.Kind = TransportRelay
			c.Transport.RelayURL = "wss://relay.example/mesh"
		}, ""},
		{"no storage", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "sub", "config.toml")
	if err := Init(path); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := Load(Options{Path: path, DotEnv: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("sample should validate: %v", err)
	}
	if err := Init(path); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
}

func TestEnvKey(t *testing.T) {
	for in, want := range map[string]string{
		"MESHCHAT_NICKNAME":             "nickname",
		"MESHCHAT_TRANSPORT__RELAY_URL": "transport.relay_url",
		"MESHCHAT_NOTIFY__ENABLED":      "notify.enabled",
	} {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
