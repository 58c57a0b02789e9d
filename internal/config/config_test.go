package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable that feeds the config for the duration of t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, e := range []string{
		"ALPHA_VANTAGE_API_KEY", "FMP_API_KEY", "ANTHROPIC_API_KEY", "PORT",
		"FINGATEWAY_PROVIDER_NAME", "FINGATEWAY_PROVIDER_ALPHA_VANTAGE_KEY",
		"FINGATEWAY_PROVIDER_FMP_KEY", "FINGATEWAY_ANTHROPIC_API_KEY",
		"FINGATEWAY_API_PORT", "FINGATEWAY_UPSTREAM_TIMEOUT",
	} {
		t.Setenv(e, "")
		os.Unsetenv(e)
	}
}

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Provider.Name != ProviderAlphaVantage {
		t.Errorf("Provider.Name: got %q, want %q", cfg.Provider.Name, ProviderAlphaVantage)
	}
	if cfg.Provider.AlphaVantageURL != "https://www.alphavantage.co" {
		t.Errorf("Provider.AlphaVantageURL: got %q", cfg.Provider.AlphaVantageURL)
	}
	if cfg.Provider.FMPURL != "https://financialmodelingprep.com/api/v3" {
		t.Errorf("Provider.FMPURL: got %q", cfg.Provider.FMPURL)
	}
	if cfg.Anthropic.BaseURL != "https://api.anthropic.com/v1" {
		t.Errorf("Anthropic.BaseURL: got %q", cfg.Anthropic.BaseURL)
	}
	if cfg.Anthropic.Version != "2023-06-01" {
		t.Errorf("Anthropic.Version: got %q", cfg.Anthropic.Version)
	}
	if cfg.Upstream.Timeout != 0 {
		t.Errorf("Upstream.Timeout: got %v, want 0", cfg.Upstream.Timeout)
	}
	if cfg.API.Port != 3001 {
		t.Errorf("API.Port: got %d, want 3001", cfg.API.Port)
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q", cfg.API.Host)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "*" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
	if cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled: want false by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	content := []byte(`
provider:
  name: fmp
  fmp_key: file-fmp-key
anthropic:
  api_key: file-anthropic-key
upstream:
  timeout: 15s
api:
  host: 127.0.0.1
  port: 9090
  cors_origins:
    - http://localhost:5173
logging:
  level: debug
  format: text
tracing:
  enabled: true
`)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Provider.Name != ProviderFMP {
		t.Errorf("Provider.Name: got %q", cfg.Provider.Name)
	}
	if cfg.ProviderKey() != "file-fmp-key" {
		t.Errorf("ProviderKey: got %q", cfg.ProviderKey())
	}
	if cfg.ProviderURL() != "https://financialmodelingprep.com/api/v3" {
		t.Errorf("ProviderURL: got %q", cfg.ProviderURL())
	}
	if cfg.Anthropic.APIKey != "file-anthropic-key" {
		t.Errorf("Anthropic.APIKey: got %q", cfg.Anthropic.APIKey)
	}
	if cfg.Upstream.Timeout != 15*time.Second {
		t.Errorf("Upstream.Timeout: got %v", cfg.Upstream.Timeout)
	}
	if cfg.API.Addr() != "127.0.0.1:9090" {
		t.Errorf("API.Addr: got %q", cfg.API.Addr())
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
	if !cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled: want true")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent config file")
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("FINGATEWAY_PROVIDER_NAME", "yahoo")

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestPrefixedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FINGATEWAY_PROVIDER_NAME", "fmp")
	t.Setenv("FINGATEWAY_UPSTREAM_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider.Name != ProviderFMP {
		t.Errorf("Provider.Name: got %q", cfg.Provider.Name)
	}
	if cfg.Upstream.Timeout != 2*time.Second {
		t.Errorf("Upstream.Timeout: got %v", cfg.Upstream.Timeout)
	}
}

// ── Environment overrides ──

func TestOverrideFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALPHA_VANTAGE_API_KEY", "av-env-key")
	t.Setenv("FMP_API_KEY", "fmp-env-key")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
	t.Setenv("PORT", "4000")

	cfg := &Config{}
	cfg.Provider.AlphaVantageKey = "from-file"
	overrideFromEnv(cfg)

	if cfg.Provider.AlphaVantageKey != "av-env-key" {
		t.Errorf("AlphaVantageKey: got %q", cfg.Provider.AlphaVantageKey)
	}
	if cfg.Provider.FMPKey != "fmp-env-key" {
		t.Errorf("FMPKey: got %q", cfg.Provider.FMPKey)
	}
	if cfg.Anthropic.APIKey != "sk-ant-env" {
		t.Errorf("Anthropic.APIKey: got %q", cfg.Anthropic.APIKey)
	}
	if cfg.API.Port != 4000 {
		t.Errorf("API.Port: got %d", cfg.API.Port)
	}
}

func TestOverrideFromEnvIgnoresBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")

	cfg := &Config{API: APIConfig{Port: 3001}}
	overrideFromEnv(cfg)
	if cfg.API.Port != 3001 {
		t.Errorf("API.Port: got %d, want 3001", cfg.API.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"alphavantage", Config{Provider: ProviderConfig{Name: "alphavantage"}, API: APIConfig{Port: 3001}}, false},
		{"fmp", Config{Provider: ProviderConfig{Name: "fmp"}}, false},
		{"empty provider", Config{}, true},
		{"bad port", Config{Provider: ProviderConfig{Name: "fmp"}, API: APIConfig{Port: 70000}}, true},
		{"negative timeout", Config{Provider: ProviderConfig{Name: "fmp"}, Upstream: UpstreamConfig{Timeout: -time.Second}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ── Key status ──

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"", "***"},
		{"short", "***"},
		{"12345678", "***"},
		{"sk-ant-api03-abcdef", "sk-...def"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.key); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestCheckAPIKeysAlphaVantage(t *testing.T) {
	clearEnv(t)

	cfg := &Config{}
	cfg.Provider.Name = ProviderAlphaVantage
	cfg.Provider.AlphaVantageKey = "DEMOKEY123456"

	keys := CheckAPIKeys(cfg)
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if keys[0].Prefix != "alpha_vantage" || !keys[0].IsSet || keys[0].Length != 13 {
		t.Errorf("provider key: got %+v", keys[0])
	}
	if keys[0].Source != KeySourceConfig {
		t.Errorf("provider key source: got %q", keys[0].Source)
	}
	if keys[1].Prefix != "anthropic" || keys[1].IsSet || keys[1].Length != 0 {
		t.Errorf("anthropic key: got %+v", keys[1])
	}
	if keys[1].Source != KeySourceNone || keys[1].Masked != "" {
		t.Errorf("unset key should have no source or mask: got %+v", keys[1])
	}
}

func TestCheckAPIKeysFMPFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FMP_API_KEY", "fmp-env-key-abcdef")

	cfg := &Config{}
	cfg.Provider.Name = ProviderFMP
	overrideFromEnv(cfg)

	keys := CheckAPIKeys(cfg)
	if keys[0].Prefix != "fmp" {
		t.Errorf("prefix: got %q", keys[0].Prefix)
	}
	if keys[0].Source != KeySourceEnv {
		t.Errorf("source: got %q, want env", keys[0].Source)
	}
	if keys[0].Masked != "fmp...def" {
		t.Errorf("masked: got %q", keys[0].Masked)
	}
}

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() returned empty string")
	}
}
