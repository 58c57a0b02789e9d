package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/seenimoa/fingateway/internal/infra"
)

const (
	defaultAnthropicURL     = "https://api.anthropic.com/v1"
	defaultAnthropicVersion = "2023-06-01"
	defaultPingModel        = "claude-3-5-haiku-20241022"
)

// AnthropicProxy implements Forwarder for Anthropic's Messages API.
type AnthropicProxy struct {
	apiKey    string
	baseURL   string
	version   string
	pingModel string
	hc        *http.Client
	logger    *zap.Logger
	client    *infra.Client
}

// AnthropicOption configures the Anthropic proxy.
type AnthropicOption func(*AnthropicProxy)

// WithAnthropicBaseURL sets a custom base URL.
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(p *AnthropicProxy) {
		if url != "" {
			p.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithAnthropicVersion sets the anthropic-version header value.
func WithAnthropicVersion(version string) AnthropicOption {
	return func(p *AnthropicProxy) {
		if version != "" {
			p.version = version
		}
	}
}

// WithAnthropicHTTPClient sets a custom HTTP client.
func WithAnthropicHTTPClient(client *http.Client) AnthropicOption {
	return func(p *AnthropicProxy) { p.hc = client }
}

// WithAnthropicLogger sets the logger.
func WithAnthropicLogger(logger *zap.Logger) AnthropicOption {
	return func(p *AnthropicProxy) { p.logger = logger }
}

// WithAnthropicPingModel sets the model used by Ping.
func WithAnthropicPingModel(model string) AnthropicOption {
	return func(p *AnthropicProxy) { p.pingModel = model }
}

// NewAnthropicProxy creates an Anthropic proxy. An empty apiKey is accepted;
// requests are still forwarded and the upstream rejection is relayed.
func NewAnthropicProxy(apiKey string, opts ...AnthropicOption) *AnthropicProxy {
	p := &AnthropicProxy{
		apiKey:    apiKey,
		baseURL:   defaultAnthropicURL,
		version:   defaultAnthropicVersion,
		pingModel: defaultPingModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	p.logger = p.logger.With(zap.String("upstream", ProviderAnthropic))
	p.client = infra.NewClient(p.hc, p.logger)
	return p
}

func (p *AnthropicProxy) Name() string { return ProviderAnthropic }

// Forward posts body to /messages and returns the upstream JSON, whatever
// its status.
func (p *AnthropicProxy) Forward(ctx context.Context, body []byte) (json.RawMessage, error) {
	data, status, err := p.client.PostBytes(ctx, p.baseURL+"/messages", p.headers(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	if status != http.StatusOK {
		p.logger.Warn("upstream rejected completion request",
			zap.Int("status", status),
			zap.String("error_type", gjson.GetBytes(data, "error.type").String()))
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w (status %d)", ErrMalformedResponse, status)
	}
	return json.RawMessage(data), nil
}

type pingRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []pingMessage `json:"messages"`
}

type pingMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Ping verifies the API key is valid.
func (p *AnthropicProxy) Ping(ctx context.Context) error {
	if p.apiKey == "" {
		return ErrNoAPIKey
	}

	// Anthropic doesn't have a lightweight ping endpoint;
	// send a minimal messages request to verify the key.
	body, err := json.Marshal(pingRequest{
		Model:     p.pingModel,
		MaxTokens: 1,
		Messages:  []pingMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		return err
	}

	data, status, err := p.client.PostBytes(ctx, p.baseURL+"/messages", p.headers(), body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	return checkStatus(status, data)
}

func (p *AnthropicProxy) headers() map[string]string {
	return map[string]string{
		"Content-Type":      "application/json",
		"x-api-key":         p.apiKey,
		"anthropic-version": p.version,
	}
}

func checkStatus(status int, body []byte) error {
	if status == http.StatusOK {
		return nil
	}
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		msg = string(body)
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrNoAPIKey, msg)
	}
	return fmt.Errorf("%w: status %d: %s", ErrProviderDown, status, msg)
}

