package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTracingPassesThrough(t *testing.T) {
	called := false
	handler := Tracing()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items", nil))

	if !called {
		t.Fatal("handler not reached")
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestTracingFilter(t *testing.T) {
	handler := Tracing(
		WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz"
		}),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// Filtered requests still reach the handler, just without a span.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestTracingSpanRoute(t *testing.T) {
	var got string
	handler := Tracing(
		WithSpanRoute(func(r *http.Request) string {
			got = r.URL.Path
			return "/items/:id"
		}),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if got != "/items/42" {
		t.Errorf("resolver saw %q", got)
	}
}
