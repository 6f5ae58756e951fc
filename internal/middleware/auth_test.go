package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedHandler(t *testing.T, tokens map[string]string) (http.Handler, *string) {
	t.Helper()
	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return TokenAuth(tokens)(next), &seenUser
}

func TestTokenAuthValid(t *testing.T) {
	h, seenUser := authedHandler(t, map[string]string{"alice": "tok-a"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ethics/guidelines", nil)
	req.Header.Set("Authorization", "Bearer tok-a")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *seenUser != "alice" {
		t.Errorf("expected user alice in context, got %q", *seenUser)
	}
}

func TestTokenAuthBareToken(t *testing.T) {
	h, _ := authedHandler(t, map[string]string{"alice": "tok-a"})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "tok-a")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected bare token accepted, got %d", rec.Code)
	}
}

func TestTokenAuthRejects(t *testing.T) {
	h, _ := authedHandler(t, map[string]string{"alice": "tok-a"})

	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing header", func(r *http.Request) {}},
		{"wrong token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }},
		{"empty bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") }},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		tc.setup(req)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tc.name, rec.Code)
		}
	}
}

func TestTokenAuthSkipsHealthAndMetrics(t *testing.T) {
	h, _ := authedHandler(t, map[string]string{"alice": "tok-a"})

	for _, path := range []string{"/health", "/health/live", "/health/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s must bypass auth, got %d", path, rec.Code)
		}
	}
}
