package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func TestRecoveryMiddlewareReturns500(t *testing.T) {
	router := mux.NewRouter()
	RegisterMiddlewares(router, MiddlewareConfig{EnableRecovery: true})
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("something broke")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Internal server error") {
		t.Fatalf("expected error envelope, got %q", rec.Body.String())
	}
}

func TestTimeoutMiddlewareCutsOffSlowHandlers(t *testing.T) {
	router := mux.NewRouter()
	RegisterMiddlewares(router, MiddlewareConfig{
		EnableTimeout:   true,
		TimeoutDuration: 20 * time.Millisecond,
	})
	router.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/slow", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router := mux.NewRouter()
	RegisterMiddlewares(router, MiddlewareConfig{})
	router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a generated request id")
	}

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "caller-supplied" {
		t.Fatalf("expected the caller's request id to be kept, got %q", got)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := mux.NewRouter()
	RegisterMiddlewares(router, MiddlewareConfig{})
	router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))

	expected := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Fatalf("header %s: expected %q, got %q", header, want, got)
		}
	}
}
