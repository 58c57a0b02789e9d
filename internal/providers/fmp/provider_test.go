package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/fingateway/internal/infra"
	"github.com/seenimoa/fingateway/internal/provider"
	"github.com/seenimoa/fingateway/pkg/models"
)

func TestProviderInfo(t *testing.T) {
	p := New(provider.Options{})
	info := p.Info()
	if info.Name != "fmp" {
		t.Errorf("expected name fmp, got %s", info.Name)
	}
	if info.KeyPrefix != "fmp" {
		t.Errorf("expected key prefix fmp, got %s", info.KeyPrefix)
	}
	if len(info.Credentials) != 1 {
		t.Fatalf("expected 1 credential, got %d", len(info.Credentials))
	}
	if info.Credentials[0].Name != "api_key" {
		t.Errorf("expected credential name api_key, got %s", info.Credentials[0].Name)
	}
	if !info.Credentials[0].Required {
		t.Error("api_key should be required")
	}
}

func TestProviderInitSuccess(t *testing.T) {
	p := New(provider.Options{})
	if err := p.Init(map[string]string{"api_key": "test_key_123"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if p.APIKey() != "test_key_123" {
		t.Errorf("expected api key test_key_123, got %s", p.APIKey())
	}
}

func TestProviderInitMissingKey(t *testing.T) {
	p := New(provider.Options{})
	if err := p.Init(map[string]string{}); err == nil {
		t.Error("expected error for missing api_key")
	}
}

func TestStatementPath(t *testing.T) {
	tests := []struct {
		kind models.StatementKind
		want string
	}{
		{models.KindIncomeStatement, "/income-statement/AAPL?limit=5"},
		{models.KindBalanceSheet, "/balance-sheet-statement/AAPL?limit=5"},
		{models.KindCashFlow, "/cash-flow-statement/AAPL?limit=5"},
		{models.KindProfile, "/profile/AAPL"},
	}

	for _, tt := range tests {
		got, err := statementPath(tt.kind, "aapl")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := statementPath(models.KindProfile, "  ")
	assert.Error(t, err)

	_, err = statementPath(models.StatementKind("earnings"), "AAPL")
	var us *provider.ErrUnsupportedStatement
	assert.True(t, errors.As(err, &us))
}

func TestHelperFmpURL(t *testing.T) {
	p := New(provider.Options{})
	_ = p.Init(map[string]string{"api_key": "abc"})

	tests := []struct {
		path, want string
	}{
		{"/profile/AAPL", "https://financialmodelingprep.com/api/v3/profile/AAPL?apikey=abc"},
		{"/income-statement/AAPL?limit=5", "https://financialmodelingprep.com/api/v3/income-statement/AAPL?limit=5&apikey=abc"},
	}

	for _, tt := range tests {
		if got := p.fmpURL(tt.path); got != tt.want {
			t.Errorf("fmpURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := New(provider.Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, p.Init(map[string]string{"api_key": "secret"}))
	return p
}

func TestRunPassesThroughVerbatim(t *testing.T) {
	native := `[{"date":"2024-09-28","symbol":"AAPL","revenue":391035000000,"costOfRevenue":210352000000,"grossProfitRatio":0.46206}]`

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/income-statement/AAPL", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(native))
	})

	out, err := provider.Run(context.Background(), p, models.KindIncomeStatement, "AAPL")
	require.NoError(t, err)

	raw, ok := out.(json.RawMessage)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, native, string(raw))
}

func TestRunPassesThroughErrorObject(t *testing.T) {
	errBody := `{"Error Message":"Invalid API KEY. Please retry or visit our documentation."}`

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(errBody))
	})

	out, err := provider.Run(context.Background(), p, models.KindProfile, "AAPL")
	require.NoError(t, err, "FMP error bodies are not classified")
	assert.Equal(t, errBody, string(out.(json.RawMessage)))
}

func TestRunInvalidJSON(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := provider.Run(context.Background(), p, models.KindBalanceSheet, "AAPL")
	var malformed *provider.ErrMalformedResponse
	assert.True(t, errors.As(err, &malformed), "got %v", err)
}

func TestPing(t *testing.T) {
	ok := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile/AAPL", r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	})
	assert.NoError(t, ok.Ping(context.Background()))

	down := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	var se *infra.ErrHTTPStatus
	assert.True(t, errors.As(down.Ping(context.Background()), &se))
}
