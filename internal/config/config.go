// Package config handles configuration loading and config path resolution.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides the config location.
const EnvConfigPath = "FRONTDESK_CONFIG"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// HotelConfig describes the property.
type HotelConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
	Timezone string `yaml:"timezone"` // IANA name or "Local"
}

// SessionConfig controls how a session is populated at start.
type SessionConfig struct {
	SeedFile string `yaml:"seed_file"` // empty uses the built-in seed
	Username string `yaml:"username"`  // signed in automatically when set
	Password string `yaml:"password"`  // #nosec G117 -- local desk credential, never logged
}

// AuthConfig tunes staff password hashing.
type AuthConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

// LogConfig controls the stderr slog handler.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Format string `yaml:"format"` // table | json | yaml
}

// Config is the root configuration.
type Config struct {
	Hotel   HotelConfig   `yaml:"hotel"`
	Session SessionConfig `yaml:"session"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Hotel: HotelConfig{
			Name:     "Front Desk",
			Currency: "SAR",
			Timezone: "Local",
		},
		Auth:   AuthConfig{BcryptCost: bcrypt.DefaultCost},
		Log:    LogConfig{Level: "warn"},
		Output: OutputConfig{Format: "table"},
	}
}

// Load reads a config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if hotel, ok := raw["hotel"].(map[string]any); ok {
		if v, ok := hotel["name"].(string); ok && v != "" {
			cfg.Hotel.Name = v
		}
		if v, ok := hotel["currency"].(string); ok {
			cfg.Hotel.Currency = v
		}
		if v, ok := hotel["timezone"].(string); ok && v != "" {
			cfg.Hotel.Timezone = v
		}
	}

	if sess, ok := raw["session"].(map[string]any); ok {
		if v, ok := sess["seed_file"].(string); ok {
			cfg.Session.SeedFile = v
		}
		if v, ok := sess["username"].(string); ok {
			cfg.Session.Username = v
		}
		if v, ok := sess["password"].(string); ok {
			cfg.Session.Password = v
		}
	}

	if auth, ok := raw["auth"].(map[string]any); ok {
		if v, ok := auth["bcrypt_cost"].(int); ok && v > 0 {
			cfg.Auth.BcryptCost = v
		}
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v, ok := lg["level"].(string); ok && v != "" {
			cfg.Log.Level = v
		}
	}

	if out, ok := raw["output"].(map[string]any); ok {
		if v, ok := out["format"].(string); ok && v != "" {
			cfg.Output.Format = v
		}
	}

	return cfg, nil
}

// Location resolves Hotel.Timezone. "Local" and "" map to time.Local.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Hotel.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", tz, err)
	}
	return loc, nil
}

// LogLevel maps Log.Level to a slog level, defaulting to warn.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ---------------------------------------------------------------------------
// Config path resolution
// ---------------------------------------------------------------------------

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolvePath returns the config file path and the source of the resolution.
// Priority: flag → FRONTDESK_CONFIG env → ~/.config/frontdesk/config.yaml.
// source is one of "flag", "env", or "default".
func ResolvePath(flag string) (path, source string) {
	if flag != "" {
		if p, err := normalizePath(flag); err == nil {
			return p, "flag"
		}
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		if p, err := normalizePath(env); err == nil {
			return p, "env"
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "frontdesk", "config.yaml"), "default"
}

// Template is the starter config written by `frontdesk config init`.
const Template = `# frontdesk configuration

hotel:
  name: Front Desk
  currency: SAR                 # printed after amounts
  timezone: Local               # IANA zone used for daily/weekly/monthly windows

# Every run starts a fresh in-memory session populated from the seed.
session:
  seed_file: ""                 # YAML seed; empty uses the built-in data
  # username: admin             # sign in automatically
  # password: admin

auth:
  bcrypt_cost: 10

log:
  level: warn                   # debug | info | warn | error

output:
  format: table                 # table | json | yaml
`
