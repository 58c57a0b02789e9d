// Package provider defines the statement-provider abstraction: a provider
// fetches a raw upstream document, classifies in-band errors, and normalizes
// the document into the canonical record shape. A registry maps provider
// names to constructors so the deployment variant is chosen at startup.
package provider

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/seenimoa/fingateway/pkg/models"
)

// ProviderCredential describes a credential a provider needs upstream.
type ProviderCredential struct {
	Name        string `json:"name"`        // e.g., "api_key"
	Description string `json:"description"` // e.g., "Alpha Vantage API key"
	Required    bool   `json:"required"`
	EnvVar      string `json:"env_var"` // e.g., "ALPHA_VANTAGE_API_KEY"
}

// ProviderInfo holds metadata about a provider.
type ProviderInfo struct {
	Name        string                 `json:"name"` // e.g., "alphavantage", "fmp"
	Description string                 `json:"description"`
	Website     string                 `json:"website"`
	KeyPrefix   string                 `json:"key_prefix"` // field prefix on /test-keys, e.g. "alpha_vantage"
	Credentials []ProviderCredential   `json:"credentials"`
	Kinds       []models.StatementKind `json:"kinds"`
}

// StatementProvider is implemented by every upstream statement source.
//
// A request flows FetchRaw → Classify → Normalize. Classify must reject
// in-band error documents before Normalize sees them, because an error
// document normalizes silently into zero-valued records.
type StatementProvider interface {
	// Info returns metadata about this provider.
	Info() ProviderInfo

	// Init stores credentials. It returns *ErrInvalidCredentials when a
	// required one is missing; the credentials are stored regardless.
	Init(credentials map[string]string) error

	// Supports reports whether the provider serves the statement kind.
	Supports(kind models.StatementKind) bool

	// FetchRaw issues exactly one upstream call and returns the body.
	FetchRaw(ctx context.Context, kind models.StatementKind, ticker string) ([]byte, error)

	// Classify inspects a raw body for parse failures and in-band errors.
	Classify(raw []byte) error

	// Normalize converts a classified-good body into the response value.
	Normalize(kind models.StatementKind, raw []byte) (any, error)

	// Ping verifies connectivity and credentials.
	Ping(ctx context.Context) error
}

// Options carries the dependencies a provider constructor receives.
type Options struct {
	BaseURL    string       // overrides the provider's default endpoint
	HTTPClient *http.Client // nil means a client with no timeout
	Logger     *zap.Logger  // nil discards output
}

// ErrProviderNotFound is returned when a requested provider is not registered.
type ErrProviderNotFound struct {
	Name  string
	Known []string
}

func (e *ErrProviderNotFound) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("provider %q not found", e.Name)
	}
	return fmt.Sprintf("provider %q not found (known: %v)", e.Name, e.Known)
}

// ErrUnsupportedStatement is returned when a provider doesn't serve a kind.
type ErrUnsupportedStatement struct {
	Provider string
	Kind     models.StatementKind
}

func (e *ErrUnsupportedStatement) Error() string {
	return fmt.Sprintf("provider %q does not support statement %q", e.Provider, e.Kind)
}

// ErrInvalidCredentials is returned when provider credentials are missing.
type ErrInvalidCredentials struct {
	Provider string
	Detail   string
}

func (e *ErrInvalidCredentials) Error() string {
	return fmt.Sprintf("invalid credentials for provider %q: %s", e.Provider, e.Detail)
}

// ErrUpstreamRejected is an in-band rejection (quota exhausted, unknown
// symbol) carried in an otherwise successful upstream response. Message is
// the provider's own text and is surfaced to callers untouched.
type ErrUpstreamRejected struct {
	Provider string
	Message  string
}

func (e *ErrUpstreamRejected) Error() string {
	return e.Message
}

// ErrMalformedResponse is returned when an upstream body cannot be parsed.
type ErrMalformedResponse struct {
	Provider string
	Detail   string
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("%s: malformed upstream response: %s", e.Provider, e.Detail)
}
