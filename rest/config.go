package rest

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smnsjas/go-restauth/auth"
)

// Config holds configuration for a REST client.
type Config struct {
	// BaseURL is the root of the REST API (e.g. https://server:8443/rest/v1.0).
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `yaml:"timeout"`

	// InsecureSkipVerify skips TLS certificate verification.
	// WARNING: Only use for testing.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// Auth selects the credentials strategy ("basic" or "header").
	Auth auth.Kind `yaml:"auth"`

	// Username for authentication.
	Username string `yaml:"username"`

	// Password for authentication. Nil means no password was supplied.
	Password *string `yaml:"password"`

	// Negotiate answers server challenges instead of sending credentials
	// up front. Only the basic strategy supports it.
	Negotiate bool `yaml:"negotiate"`

	// Headers are added to every request.
	Headers map[string]string `yaml:"headers"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
		Auth:    auth.KindBasic,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL scheme %q (want http or https)", u.Scheme)
	}
	if c.Username == "" {
		return errors.New("username is required")
	}
	kind, err := auth.ParseKind(string(c.Auth))
	if err != nil {
		return err
	}
	if c.Negotiate && kind != auth.KindBasic {
		return fmt.Errorf("negotiation requires %q credentials, got %q", auth.KindBasic, kind)
	}
	return nil
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// Environment variables in the format ${VAR_NAME} are expanded before parsing.
func LoadConfig(path string) (cfg *Config, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", cerr)
		}
	}()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader reads YAML configuration from r on top of DefaultConfig.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := os.ExpandEnv(string(content))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return &cfg, nil
}
