package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBackendURL     = "http://localhost:8007"
	DefaultPollInterval   = time.Second
	DefaultNavigateDelay  = 2 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	DefaultStallThreshold = 5
	DefaultLogLevel       = "info"

	fileName = "config.yaml"
)

type Config struct {
	StateDir   string `yaml:"-"`
	DBPath     string `yaml:"-"`
	ReportsDir string `yaml:"-"`
	LogPath    string `yaml:"-"`

	BackendURL     string        `yaml:"backend_url"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	NavigateDelay  time.Duration `yaml:"navigate_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	StallThreshold int           `yaml:"stall_threshold"`
	LogLevel       string        `yaml:"log_level"`
}

// New builds the configuration for stateDir: defaults, then <stateDir>/config.yaml when present.
func New(stateDir string) (Config, error) {
	if strings.TrimSpace(stateDir) == "" {
		return Config{}, fmt.Errorf("state dir is required")
	}
	cfg := Config{
		StateDir:       stateDir,
		DBPath:         filepath.Join(stateDir, "solve.db"),
		ReportsDir:     filepath.Join(stateDir, "reports"),
		LogPath:        filepath.Join(stateDir, "solve.log"),
		BackendURL:     DefaultBackendURL,
		PollInterval:   DefaultPollInterval,
		NavigateDelay:  DefaultNavigateDelay,
		RequestTimeout: DefaultRequestTimeout,
		StallThreshold: DefaultStallThreshold,
		LogLevel:       DefaultLogLevel,
	}

	raw, err := os.ReadFile(filepath.Join(stateDir, fileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend url %q must be absolute", c.BackendURL)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.NavigateDelay < 0 {
		return fmt.Errorf("navigate delay must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.StallThreshold < 1 {
		return fmt.Errorf("stall threshold must be at least 1")
	}
	return nil
}
