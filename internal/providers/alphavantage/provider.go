// Package alphavantage implements the Alpha Vantage statement provider.
// Alpha Vantage serves fundamentals under its own field names and reports
// quota exhaustion and unknown symbols in-band, inside HTTP 200 bodies, so
// every response is classified before it is mapped to the canonical shape.
//
// Free tier: 25 requests/day, 5 requests/minute.
// Docs: https://www.alphavantage.co/documentation/#fundamentals
package alphavantage

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/seenimoa/fingateway/internal/infra"
	"github.com/seenimoa/fingateway/internal/provider"
	"github.com/seenimoa/fingateway/pkg/models"
	"github.com/seenimoa/fingateway/pkg/utils"
)

const (
	// Name is the registry name of this provider.
	Name = "alphavantage"

	defaultBaseURL = "https://www.alphavantage.co"
	credAPIKey     = "api_key"
	pingSymbol     = "IBM"
)

// functions maps statement kinds to Alpha Vantage query functions.
var functions = map[models.StatementKind]string{
	models.KindIncomeStatement: "INCOME_STATEMENT",
	models.KindBalanceSheet:    "BALANCE_SHEET",
	models.KindCashFlow:        "CASH_FLOW",
	models.KindProfile:         "OVERVIEW",
}

// Provider implements provider.StatementProvider for Alpha Vantage.
type Provider struct {
	provider.BaseProvider
}

// New creates an Alpha Vantage provider.
func New(opts provider.Options) *Provider {
	return &Provider{
		BaseProvider: provider.NewBaseProvider(provider.ProviderInfo{
			Name:        Name,
			Description: "Alpha Vantage - free-tier fundamentals, normalized to the canonical schema",
			Website:     "https://www.alphavantage.co",
			KeyPrefix:   "alpha_vantage",
			Credentials: []provider.ProviderCredential{
				{
					Name:        credAPIKey,
					Description: "Alpha Vantage API key from alphavantage.co",
					Required:    true,
					EnvVar:      "ALPHA_VANTAGE_API_KEY",
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

// FetchRaw issues one query call for the statement kind.
func (p *Provider) FetchRaw(ctx context.Context, kind models.StatementKind, ticker string) ([]byte, error) {
	fn, ok := functions[kind]
	if !ok {
		return nil, &provider.ErrUnsupportedStatement{Provider: Name, Kind: kind}
	}

	// Alpha Vantage answers errors with 200 and an in-band marker; the status
	// is not interpreted here.
	body, _, err := p.Client().GetBytes(ctx, p.queryURL(fn, ticker), jsonHeaders())
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Classify rejects unparseable bodies and in-band error documents.
func (p *Provider) Classify(raw []byte) error {
	err := Classify(raw)
	if err != nil {
		p.Logger().Warn("upstream response rejected", zap.Error(err))
	}
	return err
}

// Normalize maps a classified-good body to canonical records.
func (p *Provider) Normalize(kind models.StatementKind, raw []byte) (any, error) {
	return Normalize(kind, raw)
}

// Ping fetches a well-known company overview and classifies it, which
// surfaces both an invalid key and an exhausted quota.
func (p *Provider) Ping(ctx context.Context) error {
	target := p.queryURL(functions[models.KindProfile], pingSymbol)
	body, status, err := p.Client().GetBytes(ctx, target, jsonHeaders())
	if err != nil {
		return fmt.Errorf("alphavantage ping: %w", err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("alphavantage ping: %w", &infra.ErrHTTPStatus{
			URL:        p.BaseURL() + "/query",
			StatusCode: status,
			Body:       truncate(string(body), 256),
		})
	}
	if err := Classify(body); err != nil {
		return fmt.Errorf("alphavantage ping: %w", err)
	}
	return nil
}

func (p *Provider) queryURL(function, ticker string) string {
	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", utils.NormalizeTicker(ticker))
	q.Set("apikey", p.APIKey())
	return p.BaseURL() + "/query?" + q.Encode()
}

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
