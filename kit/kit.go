// CLAUDE:SUMMARY Transport-agnostic Endpoint/Middleware types with chaining and a slog logging middleware.
// Package kit defines the endpoint shape shared by every tool the notebook
// exposes, so the same handler can be mounted on MCP or called directly.
package kit

import (
	"context"
	"log/slog"
	"time"
)

// Endpoint handles one decoded request.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares; the first one is the outermost.
func Chain(outer Middleware, others ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(others) - 1; i >= 0; i-- {
			next = others[i](next)
		}
		return outer(next)
	}
}

// RequestID gives calls that arrive without a request id one from gen.
func RequestID(gen func() string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			if GetRequestID(ctx) == "" {
				ctx = WithRequestID(ctx, gen())
			}
			return next(ctx, req)
		}
	}
}

// Logging logs each call of the endpoint named name with its duration.
// Failures are logged at warn level.
func Logging(logger *slog.Logger, name string) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			log := logger.With("endpoint", name, "transport", GetTransport(ctx))
			if id := GetRequestID(ctx); id != "" {
				log = log.With("request_id", id)
			}
			if err != nil {
				log.Warn("kit: call failed", "duration", time.Since(start), "error", err)
			} else {
				log.Debug("kit: call", "duration", time.Since(start))
			}
			return resp, err
		}
	}
}
