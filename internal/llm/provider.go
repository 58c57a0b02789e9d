// Package llm proxies chat-completion requests to Anthropic's Messages API.
// The gateway does not build prompts or interpret completions; request and
// response bodies pass through as opaque JSON.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// Provider names for configuration and diagnostics.
const (
	ProviderAnthropic = "anthropic"
)

// Common errors returned by the proxy.
var (
	ErrNoAPIKey          = errors.New("llm: API key not configured")
	ErrProviderDown      = errors.New("llm: provider unavailable")
	ErrInvalidRequest    = errors.New("llm: request body is not valid JSON")
	ErrMalformedResponse = errors.New("llm: response body is not valid JSON")
)

// Forwarder relays a chat-completion request body upstream and returns the
// upstream response body.
type Forwarder interface {
	// Name returns the upstream identifier (e.g. "anthropic").
	Name() string

	// Forward sends body upstream unchanged. The upstream HTTP status is not
	// interpreted; a non-nil error means no JSON response was obtained.
	Forward(ctx context.Context, body []byte) (json.RawMessage, error)

	// Ping checks that the upstream is reachable and the key is accepted.
	Ping(ctx context.Context) error
}

// PrepareBody checks an inbound request body. An empty body is forwarded as
// an empty JSON object.
func PrepareBody(body []byte) ([]byte, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidRequest
	}
	return body, nil
}

