package alphavantage

import (
	"context"
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

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := New(provider.Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, p.Init(map[string]string{"api_key": "demo"}))
	return p
}

func TestProviderInfo(t *testing.T) {
	info := New(provider.Options{}).Info()
	assert.Equal(t, "alphavantage", info.Name)
	assert.Equal(t, "alpha_vantage", info.KeyPrefix)
	require.Len(t, info.Credentials, 1)
	assert.Equal(t, "ALPHA_VANTAGE_API_KEY", info.Credentials[0].EnvVar)
	assert.ElementsMatch(t, models.AllKinds(), info.Kinds)
}

func TestProviderInitMissingKey(t *testing.T) {
	p := New(provider.Options{})
	var ic *provider.ErrInvalidCredentials
	assert.True(t, errors.As(p.Init(map[string]string{}), &ic))
}

func TestFetchRawQuery(t *testing.T) {
	tests := []struct {
		kind     models.StatementKind
		function string
	}{
		{models.KindIncomeStatement, "INCOME_STATEMENT"},
		{models.KindBalanceSheet, "BALANCE_SHEET"},
		{models.KindCashFlow, "CASH_FLOW"},
		{models.KindProfile, "OVERVIEW"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/query", r.URL.Path)
				q := r.URL.Query()
				assert.Equal(t, tt.function, q.Get("function"))
				assert.Equal(t, "IBM", q.Get("symbol"))
				assert.Equal(t, "demo", q.Get("apikey"))
				_, _ = w.Write([]byte(`{"ok":true}`))
			})

			raw, err := p.FetchRaw(context.Background(), tt.kind, "ibm")
			require.NoError(t, err)
			assert.JSONEq(t, `{"ok":true}`, string(raw))
		})
	}
}

func TestRunIncomeStatement(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(incomeDoc))
	})

	out, err := provider.Run(context.Background(), p, models.KindIncomeStatement, "IBM")
	require.NoError(t, err)

	records, ok := out.([]models.IncomeStatementRecord)
	require.True(t, ok, "got %T", out)
	require.Len(t, records, 2)
	assert.Equal(t, int64(62753000000), records[0].Revenue)
}

func TestRunRateLimited(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Note":"Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	})

	_, err := provider.Run(context.Background(), p, models.KindCashFlow, "IBM")
	var rejected *provider.ErrUpstreamRejected
	require.True(t, errors.As(err, &rejected), "got %v", err)
	assert.Contains(t, rejected.Message, "rate limit")
}

func TestRunNonJSONBody(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := provider.Run(context.Background(), p, models.KindProfile, "IBM")
	var malformed *provider.ErrMalformedResponse
	assert.True(t, errors.As(err, &malformed), "got %v", err)
}

func TestPing(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
			_, _ = w.Write([]byte(`{"Symbol":"IBM"}`))
		})
		assert.NoError(t, p.Ping(context.Background()))
	})

	t.Run("rejected", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Error Message":"the parameter apikey is invalid or missing"}`))
		})
		var rejected *provider.ErrUpstreamRejected
		assert.True(t, errors.As(p.Ping(context.Background()), &rejected))
	})

	t.Run("status", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		var se *infra.ErrHTTPStatus
		require.True(t, errors.As(p.Ping(context.Background()), &se))
		assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	})
}
