// Package config loads client settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	envAPIURL    = "PLANHUB_API_URL"
	envTimeout   = "PLANHUB_TIMEOUT"
	envDebugAddr = "PLANHUB_DEBUG_ADDR"
	envCredsPath = "PLANHUB_CREDENTIALS"
)

// Config holds client settings.
type Config struct {
	// APIURL is the backend root, e.g. https://planhub.example.com.
	APIURL string `yaml:"api_url"`

	// Timeout bounds each outbound request.
	Timeout time.Duration `yaml:"timeout"`

	// RatePerSecond / RateBurst throttle outbound calls. Zero disables
	// the limiter.
	RatePerSecond float64 `yaml:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst"`

	// DebugAddr, when set, serves /metrics and /healthz locally during
	// long-running commands.
	DebugAddr string `yaml:"debug_addr"`

	// CredentialsPath overrides the default token file location.
	CredentialsPath string `yaml:"credentials_path"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		APIURL:        "http://localhost:8000",
		Timeout:       15 * time.Second,
		RatePerSecond: 10,
		RateBurst:     20,
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "planhub", "config.yaml"), nil
}

// Load reads the config file at path (missing file is fine) and applies
// environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults apply
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv(envAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(envTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", envTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv(envDebugAddr); v != "" {
		cfg.DebugAddr = v
	}
	if v := os.Getenv(envCredsPath); v != "" {
		cfg.CredentialsPath = v
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.RatePerSecond < 0 || c.RateBurst < 0 {
		return errors.New("rate limits must not be negative")
	}
	if c.RatePerSecond > 0 && c.RateBurst == 0 {
		return errors.New("rate_burst is required when rate_per_second is set")
	}
	return nil
}

// String renders the effective settings for `planhub config`.
func (c Config) String() string {
	return "api_url: " + c.APIURL +
		"\ntimeout: " + c.Timeout.String() +
		"\nrate_per_second: " + strconv.FormatFloat(c.RatePerSecond, 'f', -1, 64) +
		"\nrate_burst: " + strconv.Itoa(c.RateBurst) +
		"\ndebug_addr: " + c.DebugAddr
}
