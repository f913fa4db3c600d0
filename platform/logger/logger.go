// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	// RequestIDKey carries the X-Request-ID of the current request.
	RequestIDKey contextKey = "request_id"
	// OperatorKey carries the subject of the operator's access token.
	OperatorKey contextKey = "operator"
)

// contextFields lists the context values copied onto request-scoped loggers.
var contextFields = []contextKey{RequestIDKey, OperatorKey}

// Logger wraps slog.Logger with the event helpers used across the service.
type Logger struct {
	*slog.Logger
}

// New picks a text handler at debug level for development and JSON at info
// level everywhere else.
func New(env string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stdout, opts))}
	}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stdout, opts))}
}

// WithContext returns a logger annotated with the request id and operator
// found in ctx, or l itself when there are none.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	var attrs []any
	for _, key := range contextFields {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{Logger: l.With(attrs...)}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// HTTPError logs an HTTP error
func (l *Logger) HTTPError(method, path string, status int, err error, clientIP string) {
	l.Error("http_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
		slog.String("client_ip", clientIP),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}

// LifecycleTransition logs a lead state change performed by the lifecycle controller.
func (l *Logger) LifecycleTransition(leadID, from, to, action string) {
	l.Info("lead_lifecycle",
		slog.String("lead_id", leadID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("action", action),
	)
}

// DispatchFailed logs a fire-and-forget delivery that did not reach its target.
func (l *Logger) DispatchFailed(target, leadID string, err error) {
	l.Warn("dispatch_failed",
		slog.String("target", target),
		slog.String("lead_id", leadID),
		slog.String("error", err.Error()),
	)
}
