package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendURLEnv overrides backend_url from the file.
const BackendURLEnv = "SAUL_BACKEND_URL"

// Config is the contents of config.yaml.
type Config struct {
	BackendURL     string        `yaml:"backend_url"`
	UserName       string        `yaml:"user_name,omitempty"`
	CaseID         int64         `yaml:"case_id,omitempty"`
	Theme          string        `yaml:"theme,omitempty"`
	Layout         LayoutConfig  `yaml:"layout"`
	Log            LogConfig     `yaml:"log"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LayoutConfig is measured in terminal cells.
type LayoutConfig struct {
	SidebarWidth int  `yaml:"sidebar_width"`
	SidebarMin   int  `yaml:"sidebar_min"`
	SidebarMax   int  `yaml:"sidebar_max"`
	ChatMin      int  `yaml:"chat_min"`
	Resizable    bool `yaml:"resizable"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func Default() Config {
	return Config{
		BackendURL: "http://localhost:8000/api",
		Theme:      "dark",
		Layout: LayoutConfig{
			SidebarWidth: 32,
			SidebarMin:   20,
			SidebarMax:   52,
			ChatMin:      42,
			Resizable:    true,
		},
		Log:            LogConfig{Level: "info"},
		RequestTimeout: 60 * time.Second,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(BackendURLEnv)); v != "" {
		cfg.BackendURL = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDefault loads the config file under the config directory.
func LoadDefault() (Config, error) {
	path, err := GetConfigFile()
	if err != nil {
		return Default(), err
	}
	return Load(path)
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("backend_url must be an http(s) URL, got %q", c.BackendURL)
	}
	switch strings.ToLower(c.Theme) {
	case "", "dark", "light":
	default:
		return fmt.Errorf("theme must be dark or light, got %q", c.Theme)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative")
	}
	l := c.Layout
	if l.SidebarWidth < 0 || l.SidebarMin < 0 || l.SidebarMax < 0 || l.ChatMin < 0 {
		return fmt.Errorf("layout widths cannot be negative")
	}
	return nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
