package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/bookme/internal/application"
)

var (
	errBadRequestBody   = errors.New("Invalid request body")
	errInvalidBookingID = errors.New("Invalid booking ID")
	errInvalidRoomID    = errors.New("Invalid meeting room ID")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application errors to the HTTP status taxonomy.
// Validation failures are 400, authorization failures 401, missing resources
// 404, and collisions 409. Anything else surfaces as 400 with the underlying
// message.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeError(ctx, w, http.StatusUnauthorized, err)
		return
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeError(ctx, w, http.StatusUnauthorized, err)
		return
	case errors.Is(err, application.ErrNotFound):
		r.writeError(ctx, w, http.StatusNotFound, err)
		return
	}

	var conflictErr *application.ConflictError
	if errors.As(err, &conflictErr) {
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: conflictErr.Message})
		return
	}

	var invalidErr *application.InvalidInputError
	if errors.As(err, &invalidErr) {
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: invalidErr.Message})
		return
	}

	r.writeError(ctx, w, http.StatusBadRequest, err)
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type errorResponse struct {
	Message string `json:"message"`
}
