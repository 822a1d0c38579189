// Package config loads client settings from defaults, a TOML file, a .env
// file, and MESHCHAT_ environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates sections: MESHCHAT_TRANSPORT__RELAY_URL sets transport.relay_url.
const EnvPrefix = "MESHCHAT_"

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	TransportLoopback = "loopback"
	TransportRelay    = "relay"
)

// ErrConfigExists is returned by Init when the target file is present.
var ErrConfigExists = errors.New("configuration file already exists")

// Config is the resolved client configuration.
type Config struct {
	Nickname string `koanf:"nickname"`
	Theme    string `koanf:"theme"`

	Transport struct {
		Kind     string `koanf:"kind"`
		RelayURL string `koanf:"relay_url"`
		PeerID   string `koanf:"peer_id"`
	} `koanf:"transport"`

	Storage struct {
		Path string `koanf:"path"`
	} `koanf:"storage"`

	Log struct {
		Path  string `koanf:"path"`
		Level string `koanf:"level"`
	} `koanf:"log"`

	Notify struct {
		Enabled bool `koanf:"enabled"`
	} `koanf:"notify"`
}

// Options control where Load looks.
type Options struct {
	// Path is an explicit config file. When set it must exist.
	Path string
	// DotEnv is a .env file to load. Missing files are ignored.
	DotEnv string
}

// DefaultPath returns ~/.config/meshchat/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "meshchat", "config.toml")
}

func defaults() map[string]any {
	dataDir := filepath.Join(os.TempDir(), "meshchat")
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "meshchat")
	}
	return map[string]any{
		"theme":               ThemeDark,
		"transport.kind":      TransportLoopback,
		"transport.relay_url": "",
		"storage.path":        filepath.Join(dataDir, "meshchat.db"),
		"log.path":            filepath.Join(os.TempDir(), "meshchat.log"),
		"log.level":           "info",
		"notify.enabled":      true,
	}
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if opts.Path != "" {
		if err := k.Load(file.Provider(opts.Path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else if path := DefaultPath(); fileExists(path) {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", path, err)
		}
	}

	dotenv := opts.DotEnv
	if dotenv == "" {
		dotenv = ".env"
	}
	if fileExists(dotenv) {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(dotenv); err != nil {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func envKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "__", ".")
}

// Validate checks that the configuration is usable.
func Validate(cfg *Config) error {
	switch cfg.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("unknown theme %q (want dark or light)", cfg.Theme)
	}

	switch cfg.Transport.Kind {
	case TransportLoopback:
	case TransportRelay:
		if cfg.Transport.RelayURL == "" {
			return fmt.Errorf("transport.relay_url is required for the relay transport")
		}
		if !strings.HasPrefix(cfg.Transport.RelayURL, "ws://") && !strings.HasPrefix(cfg.Transport.RelayURL, "wss://") {
			return fmt.Errorf("transport.relay_url must be a ws:// or wss:// url")
		}
	default:
		return fmt.Errorf("unknown transport %q (want loopback or relay)", cfg.Transport.Kind)
	}

	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	return nil
}

// Init writes a sample configuration file.
func Init(path string) error {
	if fileExists(path) {
		return fmt.Errorf("%w at %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	sample := `# meshchat configuration

nickname = ""
theme = "dark"          # dark | light

[transport]
kind = "loopback"       # loopback | relay
relay_url = ""          # ws://host:port/mesh when kind = "relay"
peer_id = ""            # generated and stored on first run when empty

[storage]
# path = "~/.config/meshchat/meshchat.db"

[log]
level = "info"          # debug | info | warn | error

[notify]
enabled = true
`
	return os.WriteFile(path, []byte(sample), 0o644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
