package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/example/bookme/internal/application"
)

// Authenticator verifies HTTP Basic credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (application.Principal, error)
}

// RequireUser enforces HTTP Basic authentication and attaches the resulting
// principal to the request context.
func RequireUser(auth Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="bookme"`)
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
				return
			}

			principal, err := auth.Authenticate(r.Context(), username, password)
			if err != nil {
				if errors.Is(err, application.ErrInvalidCredentials) {
					w.Header().Set("WWW-Authenticate", `Basic realm="bookme"`)
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Message: "Invalid username or password"})
					return
				}
				responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "Authentication failed"})
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger assigns each request an id and logs its start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
