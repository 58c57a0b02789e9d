// Package fmp implements the Financial Modeling Prep (FMP) statement provider.
// FMP's native statement and profile schemas are the canonical contract the
// frontend was built against, so responses pass through unmodified.
//
// Docs: https://financialmodelingprep.com/developer/docs
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/seenimoa/fingateway/internal/infra"
	"github.com/seenimoa/fingateway/internal/provider"
	"github.com/seenimoa/fingateway/pkg/models"
)

const (
	// Name is the registry name of this provider.
	Name = "fmp"

	defaultBaseURL = "https://financialmodelingprep.com/api/v3"
	credAPIKey     = "api_key"
)

// Provider implements provider.StatementProvider for FMP.
type Provider struct {
	provider.BaseProvider
}

// New creates a new FMP provider.
func New(opts provider.Options) *Provider {
	return &Provider{
		BaseProvider: provider.NewBaseProvider(provider.ProviderInfo{
			Name:        Name,
			Description: "Financial Modeling Prep - native schema, served as-is",
			Website:     "https://financialmodelingprep.com",
			KeyPrefix:   "fmp",
			Credentials: []provider.ProviderCredential{
				{
					Name:        credAPIKey,
					Description: "FMP API key from financialmodelingprep.com",
					Required:    true,
					EnvVar:      "FMP_API_KEY",
				},
			},
			Kinds: models.AllKinds(),
		}, defaultBaseURL, opts),
	}
}

// Factory adapts New to provider.Factory.
func Factory(opts provider.Options) provider.StatementProvider {
	return New(opts)
}

// APIKey returns the stored API key.
func (p *Provider) APIKey() string {
	return p.Credential(credAPIKey)
}

// FetchRaw issues one call for the statement kind.
func (p *Provider) FetchRaw(ctx context.Context, kind models.StatementKind, ticker string) ([]byte, error) {
	path, err := statementPath(kind, ticker)
	if err != nil {
		return nil, err
	}
	body, status, err := p.Client().GetBytes(ctx, p.fmpURL(path), jsonHeaders())
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		// Passed through as-is; the frontend inspects the body.
		p.Logger().Debug("upstream error status passed through",
			zap.String("statement", string(kind)),
			zap.Int("status", status),
		)
	}
	return body, nil
}

// Classify only checks that the body parses. FMP error objects are not
// inspected and reach the caller with status 200.
func (p *Provider) Classify(raw []byte) error {
	if !json.Valid(raw) {
		return &provider.ErrMalformedResponse{Provider: Name, Detail: "invalid JSON"}
	}
	return nil
}

// Normalize returns the body unchanged.
func (p *Provider) Normalize(kind models.StatementKind, raw []byte) (any, error) {
	if !p.Supports(kind) {
		return nil, &provider.ErrUnsupportedStatement{Provider: Name, Kind: kind}
	}
	return json.RawMessage(raw), nil
}

// Ping checks connectivity to FMP.
func (p *Provider) Ping(ctx context.Context) error {
	body, status, err := p.Client().GetBytes(ctx, p.fmpURL("/profile/AAPL"), jsonHeaders())
	if err != nil {
		return fmt.Errorf("fmp ping: %w", err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("fmp ping: %w", &infra.ErrHTTPStatus{
			URL:        p.BaseURL() + "/profile/AAPL",
			StatusCode: status,
			Body:       truncate(string(body), 256),
		})
	}
	return nil
}

// --- Shared helpers ---

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

// fmpURL builds a full FMP API URL with the API key appended.
func (p *Provider) fmpURL(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return p.BaseURL() + path + sep + "apikey=" + url.QueryEscape(p.APIKey())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
