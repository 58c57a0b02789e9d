// Package config handles configuration loading for the gateway.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider names accepted in provider.name.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderFMP          = "fmp"
)

// Config represents the complete application configuration.
type Config struct {
	Provider  ProviderConfig  `mapstructure:"provider"  yaml:"provider"`
	Anthropic AnthropicConfig `mapstructure:"anthropic" yaml:"anthropic"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"  yaml:"upstream"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Tracing   TracingConfig   `mapstructure:"tracing"   yaml:"tracing"`
}

// ProviderConfig selects the statement provider and holds its credentials.
type ProviderConfig struct {
	Name            string `mapstructure:"name"              yaml:"name"` // "alphavantage" or "fmp"
	AlphaVantageKey string `mapstructure:"alpha_vantage_key" yaml:"alpha_vantage_key"`
	AlphaVantageURL string `mapstructure:"alpha_vantage_url" yaml:"alpha_vantage_url"`
	FMPKey          string `mapstructure:"fmp_key"           yaml:"fmp_key"`
	FMPURL          string `mapstructure:"fmp_url"           yaml:"fmp_url"`
}

// AnthropicConfig holds the chat-completion proxy settings.
type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"  yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Version string `mapstructure:"version"  yaml:"version"` // anthropic-version header
}

// UpstreamConfig holds outbound HTTP settings.
type UpstreamConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"` // 0 = no client timeout
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"      yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// Addr returns the listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.fingateway/config.yaml (home directory)
//  3. /etc/fingateway/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINGATEWAY_<SECTION>_<KEY>, e.g., FINGATEWAY_PROVIDER_NAME
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".fingateway"))
	v.AddConfigPath("/etc/fingateway")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FINGATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Provider defaults
	v.SetDefault("provider.name", ProviderAlphaVantage)
	v.SetDefault("provider.alpha_vantage_key", "")
	v.SetDefault("provider.alpha_vantage_url", "https://www.alphavantage.co")
	v.SetDefault("provider.fmp_key", "")
	v.SetDefault("provider.fmp_url", "https://financialmodelingprep.com/api/v3")

	// Anthropic defaults
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.base_url", "https://api.anthropic.com/v1")
	v.SetDefault("anthropic.version", "2023-06-01")

	// Upstream defaults
	v.SetDefault("upstream.timeout", 0)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 3001)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "fingateway")
}

// overrideFromEnv reads the plain variable names the gateway has always
// used. They win over config file and prefixed values.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("ALPHA_VANTAGE_API_KEY"); key != "" {
		cfg.Provider.AlphaVantageKey = key
	}
	if key := os.Getenv("FMP_API_KEY"); key != "" {
		cfg.Provider.FMPKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.Anthropic.APIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.API.Port = p
		}
	}
}

// Validate checks values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case ProviderAlphaVantage, ProviderFMP:
	default:
		return fmt.Errorf("provider.name: unknown provider %q (want %q or %q)",
			c.Provider.Name, ProviderAlphaVantage, ProviderFMP)
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port: %d out of range", c.API.Port)
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream.timeout: must not be negative")
	}
	return nil
}

// ProviderKey returns the API key of the configured statement provider.
func (c *Config) ProviderKey() string {
	if c.Provider.Name == ProviderFMP {
		return c.Provider.FMPKey
	}
	return c.Provider.AlphaVantageKey
}

// ProviderURL returns the base URL of the configured statement provider.
func (c *Config) ProviderURL() string {
	if c.Provider.Name == ProviderFMP {
		return c.Provider.FMPURL
	}
	return c.Provider.AlphaVantageURL
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
