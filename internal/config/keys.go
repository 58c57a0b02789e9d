package config

import "os"

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key. It never carries the key.
type KeyStatus struct {
	Name   string       `json:"name"`
	Prefix string       `json:"prefix"` // diagnostic field prefix, e.g. "alpha_vantage"
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Length int          `json:"length"`
	Masked string       `json:"masked,omitempty"` // e.g., "sk-...abc"
}

// CheckAPIKeys returns the status of the keys the running variant uses:
// the configured statement provider's key, then the Anthropic key.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	var provider KeyStatus
	if cfg.Provider.Name == ProviderFMP {
		provider = checkKey("FMP API Key", "fmp", cfg.Provider.FMPKey,
			"FMP_API_KEY", "FINGATEWAY_PROVIDER_FMP_KEY")
	} else {
		provider = checkKey("Alpha Vantage API Key", "alpha_vantage", cfg.Provider.AlphaVantageKey,
			"ALPHA_VANTAGE_API_KEY", "FINGATEWAY_PROVIDER_ALPHA_VANTAGE_KEY")
	}

	return []KeyStatus{
		provider,
		checkKey("Anthropic API Key", "anthropic", cfg.Anthropic.APIKey,
			"ANTHROPIC_API_KEY", "FINGATEWAY_ANTHROPIC_API_KEY"),
	}
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, prefix, value string, envVars ...string) KeyStatus {
	status := KeyStatus{
		Name:   name,
		Prefix: prefix,
		IsSet:  value != "",
		Length: len(value),
		Source: KeySourceNone,
	}

	if value != "" {
		status.Source = KeySourceConfig
		for _, env := range envVars {
			if os.Getenv(env) != "" {
				status.Source = KeySourceEnv
				break
			}
		}
		status.Masked = maskKey(value)
	}

	return status
}

// maskKey masks an API key for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
