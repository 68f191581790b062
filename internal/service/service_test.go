package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/hecovacka/internal/auth"
	"github.com/mmynk/hecovacka/internal/storage"
	"github.com/mmynk/hecovacka/internal/storage/memory"
)

type testEnv struct {
	server *httptest.Server
	jwt    *auth.JWTManager
	store  storage.Store
}

type envelope struct {
	Success            bool            `json:"success"`
	Message            string          `json:"message"`
	Data               json.RawMessage `json:"data"`
	Error              string          `json:"error"`
	AvailableEndpoints []string        `json:"availableEndpoints"`
	Timestamp          string          `json:"timestamp"`
}

// setupTestServer serves the full router over a seeded in-memory store.
func setupTestServer(t *testing.T, configure ...func(*RouterConfig)) *testEnv {
	t.Helper()

	store := memory.New()
	if _, err := storage.Seed(context.Background(), store, time.Now()); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	cfg := RouterConfig{
		Store:         store,
		Authenticator: auth.NewPasswordAuthenticatorWithCost(store, bcrypt.MinCost),
		JWTManager:    jwtManager,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Env:           "test",
		Port:          3000,
	}
	for _, fn := range configure {
		fn(&cfg)
	}

	server := httptest.NewServer(NewRouter(cfg))
	t.Cleanup(server.Close)

	return &testEnv{server: server, jwt: jwtManager, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: response is not a JSON envelope: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
	return out
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServicesLogThroughConfiguredLogger(t *testing.T) {
	var logs syncBuffer
	env := setupTestServer(t, func(cfg *RouterConfig) {
		cfg.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	})

	requests := []struct {
		path string
		body map[string]any
		want string
	}{
		{"/api/groups", map[string]any{"name": "Plávanie"}, "Group created"},
		{"/api/goals", map[string]any{"activity": "drepy", "target": 20}, "Goal created"},
		{"/api/progress/update", map[string]any{"goalId": "goal1", "completed": 5, "target": 100}, "Progress recorded"},
	}

	for _, req := range requests {
		if status, resp := env.do(t, http.MethodPost, req.path, req.body, ""); status != http.StatusOK {
			t.Fatalf("POST %s: status = %d, resp = %+v", req.path, status, resp)
		}
		if !strings.Contains(logs.String(), req.want) {
			t.Errorf("POST %s: log output missing %q:\n%s", req.path, req.want, logs.String())
		}
	}
}
