package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSessionContextMintsIDWhenAbsent(t *testing.T) {
	var captured string
	handler := SessionContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured == "" {
		t.Fatal("expected a minted session id in context")
	}
	if echoed := resp.Header().Get("X-Session-Id"); echoed != captured {
		t.Fatalf("expected header echo %q, got %q", captured, echoed)
	}
}

func TestSessionContextReusesProvidedID(t *testing.T) {
	var captured string
	handler := SessionContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "caller-session")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured != "caller-session" {
		t.Fatalf("expected caller session id, got %q", captured)
	}
	if echoed := resp.Header().Get("X-Session-Id"); echoed != "caller-session" {
		t.Fatalf("expected header echo, got %q", echoed)
	}
}

func TestSessionIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := SessionIDFromContext(req.Context()); id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}
