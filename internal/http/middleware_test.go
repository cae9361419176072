package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/bookme/internal/application"
)

type stubAuthenticator struct {
	principal application.Principal
	err       error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, username, password string) (application.Principal, error) {
	if s.err != nil {
		return application.Principal{}, s.err
	}
	return s.principal, nil
}

func TestRequireUserMissingCredentials(t *testing.T) {
	handler := RequireUser(&stubAuthenticator{}, nil)(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(nethttp.MethodGet, "/bookings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate header")
	}
}

func TestRequireUserInvalidCredentials(t *testing.T) {
	auth := &stubAuthenticator{err: application.ErrInvalidCredentials}
	handler := RequireUser(auth, nil)(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(nethttp.MethodGet, "/bookings", nil)
	req.SetBasicAuth("alice", "wrong")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Invalid username or password" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestRequireUserAttachesPrincipal(t *testing.T) {
	auth := &stubAuthenticator{principal: application.Principal{Username: "alice"}}

	var seen application.Principal
	handler := RequireUser(auth, nil)(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		seen, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(nethttp.StatusNoContent)
	}))

	req := httptest.NewRequest(nethttp.MethodGet, "/bookings", nil)
	req.SetBasicAuth("alice", "secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if seen.Username != "alice" {
		t.Errorf("expected principal alice, got %q", seen.Username)
	}
}
