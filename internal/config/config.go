package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	EnvBaseURL = "NEWSDASH_BASE_URL"
	EnvSession = "NEWSDASH_SESSION"
)

type Config struct {
	BaseURL         string   `yaml:"base_url"`
	DefaultCategory string   `yaml:"default_category"`
	Categories      []string `yaml:"categories"`
	Username        string   `yaml:"username,omitempty"`
	RequestTimeout  string   `yaml:"request_timeout,omitempty"`
	Session         string   `yaml:"session,omitempty"`
}

// Backend returns the backend origin, preferring the environment.
func (c *Config) Backend() string {
	if v := os.Getenv(EnvBaseURL); v != "" {
		return v
	}
	return c.BaseURL
}

// SessionCookie returns a pre-issued session cookie value (env over file).
func (c *Config) SessionCookie() string {
	if v := os.Getenv(EnvSession); v != "" {
		return v
	}
	return c.Session
}

func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// HasCategory reports whether name is one of the configured categories.
func (c *Config) HasCategory(name string) bool {
	return slices.Contains(c.Categories, name)
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsdash", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (DefaultConfigPath when empty). A missing
// file yields the embedded defaults, which are also written out for the
// user to edit. Fields left out of the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: the embedded defaults still apply.
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url scheme must be http or https, got %q", u.Scheme)
	}
	if len(cfg.Categories) == 0 {
		return fmt.Errorf("categories: at least one category is required")
	}
	if !cfg.HasCategory(cfg.DefaultCategory) {
		return fmt.Errorf("default_category %q is not in categories", cfg.DefaultCategory)
	}
	if cfg.RequestTimeout != "" {
		if _, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
	}
	return nil
}
