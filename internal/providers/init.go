// Package providers registers the concrete statement providers and builds
// the one selected by configuration.
package providers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/seenimoa/fingateway/internal/config"
	"github.com/seenimoa/fingateway/internal/provider"
	"github.com/seenimoa/fingateway/internal/providers/alphavantage"
	"github.com/seenimoa/fingateway/internal/providers/fmp"
)

// RegisterAll registers all available providers with the global registry.
func RegisterAll() error {
	return RegisterAllTo(provider.Global())
}

// RegisterAllTo registers all available providers to the given registry.
func RegisterAllTo(reg *provider.Registry) error {
	// --- Alpha Vantage (normalized) ---
	if err := reg.Register(alphavantage.Name, alphavantage.Factory); err != nil {
		return err
	}

	// --- FMP (passthrough) ---
	if err := reg.Register(fmp.Name, fmp.Factory); err != nil {
		return err
	}

	return nil
}

// New builds and initializes the provider named in cfg.Provider.Name from
// the global registry. RegisterAll must have been called.
//
// A missing API key is logged and tolerated so the server can still come up
// and report the problem on /test-keys; upstream calls will fail until the
// key is supplied.
func New(cfg *config.Config, hc *http.Client, log *zap.Logger) (provider.StatementProvider, error) {
	return NewFrom(provider.Global(), cfg, hc, log)
}

// NewFrom is New against an explicit registry.
func NewFrom(reg *provider.Registry, cfg *config.Config, hc *http.Client, log *zap.Logger) (provider.StatementProvider, error) {
	if log == nil {
		log = zap.NewNop()
	}

	p, err := reg.New(cfg.Provider.Name, provider.Options{
		BaseURL:    cfg.ProviderURL(),
		HTTPClient: hc,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	err = p.Init(map[string]string{"api_key": cfg.ProviderKey()})
	var badCreds *provider.ErrInvalidCredentials
	switch {
	case err == nil:
	case errors.As(err, &badCreds):
		log.Warn("provider credentials incomplete",
			zap.String("provider", cfg.Provider.Name),
			zap.Error(err))
	default:
		return nil, fmt.Errorf("init provider %s: %w", cfg.Provider.Name, err)
	}

	log.Info("statement provider ready",
		zap.String("provider", p.Info().Name),
		zap.String("base_url", cfg.ProviderURL()))
	return p, nil
}
