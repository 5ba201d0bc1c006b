// Package config handles XDG configuration directory, file paths and settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // zone names in TZEnv resolve without a system zoneinfo

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// SessionFile is the stored session (token and username) filename.
	SessionFile = "session.json"

	// SettingsFile is the user settings filename.
	SettingsFile = "settings.yaml"

	// DefaultAPIURL is used when neither settings, env nor flags name a server.
	DefaultAPIURL = "http://localhost:8000/api"

	// EnvFile holds optional KEY=value overrides. It is read into the
	// config only; the process environment is left alone.
	EnvFile = ".env"

	// APIURLEnv overrides the API URL from settings.
	APIURLEnv = "TODO_API_URL"

	// TZEnv names the IANA time zone used for deadlines.
	TZEnv = "TODO_TZ"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Settings is the persisted, user-editable part of the configuration.
type Settings struct {
	APIURL string `yaml:"api_url"`
	Theme  string `yaml:"theme"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Settings are loaded from settings.yaml, with defaults applied.
	Settings Settings

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// NoColor disables colored output.
	NoColor bool

	// Stdin is used for password prompts. May be nil.
	Stdin io.Reader

	// Logger receives debug logs. Nil discards.
	Logger *slog.Logger

	// TZ is used to read and display deadlines. Nil means local time.
	TZ *time.Location
}

// New creates a new Config with the default or specified config directory
// and loads settings.yaml if it exists.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		NoColor: os.Getenv("NO_COLOR") != "",
	}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	env, err := cfg.loadEnv()
	if err != nil {
		return nil, err
	}
	if v := env(APIURLEnv); v != "" {
		cfg.Settings.APIURL = v
	}
	if v := env(TZEnv); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", TZEnv, err)
		}
		cfg.TZ = loc
	}
	return cfg, nil
}

// loadEnv returns a lookup that prefers the process environment over
// the config dir's .env file.
func (c *Config) loadEnv() (func(string) string, error) {
	file, err := godotenv.Read(filepath.Join(c.Dir, EnvFile))
	if errors.Is(err, os.ErrNotExist) {
		file = nil
	} else if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}
	return func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(file[key])
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// APIURL returns the API base URL without a trailing slash.
func (c *Config) APIURL() string {
	u := strings.TrimSpace(c.Settings.APIURL)
	if u == "" {
		u = DefaultAPIURL
	}
	return strings.TrimRight(u, "/")
}

// Theme returns the normalized theme, light unless dark is stored.
func (c *Config) Theme() string {
	if strings.EqualFold(strings.TrimSpace(c.Settings.Theme), ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

// Location returns the time zone for deadlines.
func (c *Config) Location() *time.Location {
	if c.TZ == nil {
		return time.Local
	}
	return c.TZ
}

// Log returns the configured logger or one that discards everything.
func (c *Config) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// SaveSettings writes settings.yaml, creating the config dir if needed.
func (c *Config) SaveSettings() error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&c.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(c.SettingsPath(), data, 0600)
}

func (c *Config) loadSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}
	if err := yaml.Unmarshal(data, &c.Settings); err != nil {
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	return nil
}
