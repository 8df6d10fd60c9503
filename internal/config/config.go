// ABOUTME: Configuration loading and parsing for propresenter-mcp
// ABOUTME: Supports YAML files with environment variable expansion and env overrides

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport values for ServerConfig.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// DefaultTimeout is the default per-request timeout for ProPresenter calls.
const DefaultTimeout = 5 * time.Second

// Config represents the complete propresenter-mcp configuration
type Config struct {
	ProPresenter ProPresenterConfig `yaml:"propresenter"`
	Server       ServerConfig       `yaml:"server"`
	Auth         AuthConfig         `yaml:"auth"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ProPresenterConfig holds the upstream ProPresenter connection settings
type ProPresenterConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// ServerConfig holds the MCP server transport configuration
type ServerConfig struct {
	// Transport selects how the MCP server is exposed: "stdio" or "http"
	Transport string `yaml:"transport"`
	// HTTPAddr is the listen address for the http transport
	HTTPAddr string `yaml:"http_addr"`
}

// AuthConfig holds inbound authentication configuration for the http transport
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	RequireAuth bool   `yaml:"require_auth"`
	// AccessTokens are preconfigured opaque tokens for the /mcp/<token>
	// and ?token= access patterns.
	AccessTokens []AccessTokenConfig `yaml:"access_tokens"`
}

// AccessTokenConfig maps one opaque access token to its capabilities.
type AccessTokenConfig struct {
	Token        string   `yaml:"token"`
	Capabilities []string `yaml:"capabilities"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file exists.
// Matches the behavior of running against a local ProPresenter instance.
func Default() *Config {
	return &Config{
		ProPresenter: ProPresenterConfig{
			Host:    "localhost",
			Port:    50001,
			Timeout: DefaultTimeout,
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			HTTPAddr:  "localhost:8085",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// A missing file is not an error: defaults plus environment overrides apply.
// Environment variables in the format ${VAR_NAME} are expanded inside the YAML.
// PROPRESENTER_HOST and PROPRESENTER_PORT always take precedence over file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			expanded := expandEnvVars(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnvOverrides applies the launcher contract: PROPRESENTER_HOST and
// PROPRESENTER_PORT always win over file values.
func applyEnvOverrides(cfg *Config) error {
	if host := os.Getenv("PROPRESENTER_HOST"); host != "" {
		cfg.ProPresenter.Host = host
	}
	if port := os.Getenv("PROPRESENTER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("parsing PROPRESENTER_PORT %q: %w", port, err)
		}
		cfg.ProPresenter.Port = p
	}
	return nil
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.ProPresenter.Host == "" {
		return fmt.Errorf("propresenter.host is required")
	}
	if c.ProPresenter.Port <= 0 || c.ProPresenter.Port > 65535 {
		return fmt.Errorf("propresenter.port must be between 1 and 65535, got %d", c.ProPresenter.Port)
	}

	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("server.transport must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Server.Transport)
	}

	if c.Server.Transport == TransportHTTP && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required for the http transport")
	}

	if c.Auth.RequireAuth && c.Auth.JWTSecret == "" && len(c.Auth.AccessTokens) == 0 {
		return fmt.Errorf("auth.jwt_secret or auth.access_tokens required when auth.require_auth is enabled")
	}
	for i, at := range c.Auth.AccessTokens {
		if at.Token == "" {
			return fmt.Errorf("auth.access_tokens[%d].token must not be empty", i)
		}
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.ProPresenter.TimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.ProPresenter.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing propresenter.timeout %q: %w", cfg.ProPresenter.TimeoutRaw, err)
		}
		cfg.ProPresenter.Timeout = d
	}
	if cfg.ProPresenter.Timeout == 0 {
		cfg.ProPresenter.Timeout = DefaultTimeout
	}
	return nil
}
