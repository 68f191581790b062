package service

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/mmynk/hecovacka/internal/middleware"
)

func TestInfoEndpoints(t *testing.T) {
	env := setupTestServer(t)

	for _, path := range []string{"/", "/health", "/api"} {
		status, resp := env.do(t, http.MethodGet, path, nil, "")
		if status != http.StatusOK || !resp.Success {
			t.Errorf("%s: status = %d, success = %v", path, status, resp.Success)
		}
		if resp.Timestamp == "" {
			t.Errorf("%s: missing timestamp", path)
		}
	}
}

func TestHealthReportsEnvironment(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Get(env.server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Environment != "test" || body.Port != 3000 || body.Uptime < 0 {
		t.Errorf("unexpected health: %+v", body)
	}
}

func TestNotFoundFallback(t *testing.T) {
	env := setupTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/nope"},
		{http.MethodGet, "/api/groups/"},
		{http.MethodDelete, "/api/goals"},
		{http.MethodGet, "/favicon.ico"},
	} {
		status, resp := env.do(t, tc.method, tc.path, nil, "")
		if status != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tc.method, tc.path, status)
			continue
		}
		if !strings.Contains(resp.Message, tc.path) || len(resp.AvailableEndpoints) == 0 {
			t.Errorf("%s %s: unexpected envelope %+v", tc.method, tc.path, resp)
		}
	}
}

func TestAPIRateLimit(t *testing.T) {
	env := setupTestServer(t, func(cfg *RouterConfig) {
		cfg.APILimiter = middleware.NewRateLimiter(0.001, 2, "Too many requests from this IP, please try again later.")
	})

	for i := 0; i < 2; i++ {
		if status, _ := env.do(t, http.MethodGet, "/api/goals", nil, ""); status != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, status)
		}
	}
	status, resp := env.do(t, http.MethodGet, "/api/groups", nil, "")
	if status != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", status)
	}
	if resp.Success {
		t.Error("expected failure envelope")
	}

	// Routes outside /api/ are not limited.
	if status, _ := env.do(t, http.MethodGet, "/health", nil, ""); status != http.StatusOK {
		t.Errorf("/health: status = %d", status)
	}
}

func TestAuthRateLimit(t *testing.T) {
	env := setupTestServer(t, func(cfg *RouterConfig) {
		cfg.AuthLimiter = middleware.NewRateLimiter(0.001, 1, "Too many authentication attempts, please try again later.")
	})

	body := map[string]string{"email": "x@example.com", "password": "x"}
	env.do(t, http.MethodPost, "/api/auth/login", body, "")
	status, resp := env.do(t, http.MethodPost, "/api/auth/login", body, "")
	if status != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", status)
	}
	if resp.Message != "Too many authentication attempts, please try again later." {
		t.Errorf("message = %q", resp.Message)
	}

	if status, _ := env.do(t, http.MethodGet, "/api/goals", nil, ""); status != http.StatusOK {
		t.Errorf("non-auth route: status = %d", status)
	}
}
