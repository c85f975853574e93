package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"

	"tinyserve/internal/auth"
	serveerrors "tinyserve/internal/errors"
	"tinyserve/internal/reqlog"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	requestIDKey contextKey = "requestID"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogMiddleware records one reqlog.Entry per request, after the
// response has been produced.
func RequestLogMiddleware(recorder reqlog.Recorder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			entry := reqlog.Entry{
				Method:    r.Method,
				Path:      r.URL.RequestURI(),
				Status:    wrapped.Status(),
				RequestID: GetRequestID(r.Context()),
				Duration:  duration,
				Time:      start,
			}
			recorder.Record(r.Context(), entry)

			logger.Debug("HTTP response",
				"method", entry.Method,
				"path", entry.Path,
				"status", entry.Status,
				"durationMs", duration.Milliseconds(),
				"remoteAddr", r.RemoteAddr,
				"requestID", entry.RequestID,
			)
		})
	}
}

// RecoveryMiddleware recovers from panics and logs them
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.Error("Panic recovered",
						"error", fmt.Sprintf("%v", p),
						"stack", string(debug.Stack()),
						"requestID", GetRequestID(r.Context()),
					)

					WriteError(w, serveerrors.NewServeError(serveerrors.InternalError, "Internal server error", fmt.Errorf("%v", p)))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), requestIDKey, reqID)
			r = r.WithContext(ctx)

			w.Header().Set(RequestIDHeader, reqID)

			next.ServeHTTP(w, r)
		})
	}
}

// BasicAuthMiddleware rejects requests without valid Basic credentials.
// A nil limiter disables lockout.
func BasicAuthMiddleware(verifier *auth.Verifier, limiter *auth.FailureLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r)

			if limiter != nil {
				if ok, retryAfter := limiter.Check(client); !ok {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
					WriteError(w, serveerrors.NewServeError(serveerrors.RateLimited, "too many failed login attempts", nil))
					return
				}
			}

			if err := verifier.Authenticate(r); err != nil {
				if limiter != nil {
					limiter.Fail(client)
				}
				logger.Debug("Rejected credentials",
					"client", client,
					"error", err.Error(),
					"requestID", GetRequestID(r.Context()),
				)
				w.Header().Set("WWW-Authenticate", auth.Challenge())
				WriteError(w, serveerrors.NewServeError(serveerrors.Unauthorized, "authentication required", err))
				return
			}

			if limiter != nil {
				limiter.Reset(client)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the remote host, ignoring its port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.statusCode == 0 {
		rw.statusCode = statusCode
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write ensures status code is set if WriteHeader wasn't called
func (rw *responseWriter) Write(data []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(data)
}

// Status returns the status sent, defaulting to 200 when the handler wrote nothing.
func (rw *responseWriter) Status() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
