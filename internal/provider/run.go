package provider

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/seenimoa/fingateway/internal/trace"
	"github.com/seenimoa/fingateway/pkg/models"
)

// Run executes one statement request: a single upstream fetch, in-band error
// classification, then normalization. Errors from Classify are returned
// unwrapped so callers can match *ErrUpstreamRejected directly.
func Run(ctx context.Context, p StatementProvider, kind models.StatementKind, ticker string) (any, error) {
	name := p.Info().Name

	ctx, span := trace.StartSpan(ctx, "statement "+string(kind))
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", name),
		attribute.String("statement", string(kind)),
		attribute.String("ticker", ticker),
	)

	if !p.Supports(kind) {
		return nil, &ErrUnsupportedStatement{Provider: name, Kind: kind}
	}

	raw, err := p.FetchRaw(ctx, kind, ticker)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s %s %s: %w", name, kind, ticker, err)
	}

	if err := p.Classify(raw); err != nil {
		var rejected *ErrUpstreamRejected
		if errors.As(err, &rejected) {
			span.SetAttributes(attribute.Bool("upstream.rejected", true))
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out, err := p.Normalize(kind, raw)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s %s %s: %w", name, kind, ticker, err)
	}
	return out, nil
}
