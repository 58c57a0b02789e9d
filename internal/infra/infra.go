// Package infra provides the shared outbound HTTP plumbing used by the
// statement providers and the AI proxy.
package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/seenimoa/fingateway/internal/trace"
)

// ErrHTTPStatus is returned by callers that treat a non-2xx upstream status
// as a failure.
type ErrHTTPStatus struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *ErrHTTPStatus) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client issues single, un-retried upstream requests. It is safe for
// concurrent use.
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// NewClient wraps hc. A nil hc uses a client with no timeout; a nil logger
// discards output.
func NewClient(hc *http.Client, logger *zap.Logger) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{http: hc, logger: logger}
}

// DoGet performs a GET request. The caller owns the returned body.
func (c *Client) DoGet(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, int, error) {
	return c.do(ctx, http.MethodGet, url, headers, nil)
}

// DoPost performs a POST request with the given body.
func (c *Client) DoPost(ctx context.Context, url string, headers map[string]string, body []byte) (io.ReadCloser, int, error) {
	return c.do(ctx, http.MethodPost, url, headers, body)
}

// GetBytes performs a GET request and reads the whole body. The upstream
// status is returned but not interpreted.
func (c *Client) GetBytes(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
	body, status, err := c.DoGet(ctx, url, headers)
	if err != nil {
		return nil, 0, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, status, fmt.Errorf("read response: %w", err)
	}
	return data, status, nil
}

// PostBytes performs a POST request and reads the whole body.
func (c *Client) PostBytes(ctx context.Context, url string, headers map[string]string, payload []byte) ([]byte, int, error) {
	body, status, err := c.DoPost(ctx, url, headers, payload)
	if err != nil {
		return nil, 0, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, status, fmt.Errorf("read response: %w", err)
	}
	return data, status, nil
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, payload []byte) (io.ReadCloser, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	// Query strings carry API keys; never log or trace them.
	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	ctx, span := trace.StartSpan(ctx, "upstream "+method)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", target),
	)

	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		// *url.Error carries the full URL; strip the query before it surfaces.
		var uerr *neturl.Error
		if errors.As(err, &uerr) {
			uerr.URL = target
		}
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err),
		)
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("upstream response",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
	)
	return resp.Body, resp.StatusCode, nil
}
