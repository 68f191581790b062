package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("reading scrape: %v", err)
	}
	return string(body)
}

func TestMetricsExposition(t *testing.T) {
	m := New()

	m.ObserveRequest("GET", "/api/groups", 200, 15*time.Millisecond)
	m.ClientConnected()
	m.ClientConnected()
	m.ClientDisconnected()
	m.EventReceived("join-groups")
	m.Delivered(3)
	m.Dropped()

	out := scrape(t, m)
	for _, want := range []string{
		`hecovacka_http_requests_total{method="GET",route="/api/groups",status="200"} 1`,
		`hecovacka_ws_connected_clients 1`,
		`hecovacka_ws_events_received_total{event="join-groups"} 1`,
		`hecovacka_ws_deliveries_total 3`,
		`hecovacka_ws_dropped_deliveries_total 1`,
		`go_goroutines`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
	m.ClientConnected()
	m.ClientDisconnected()
	m.EventReceived("x")
	m.Delivered(1)
	m.Dropped()
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Dropped()

	if strings.Contains(scrape(t, b), "hecovacka_ws_dropped_deliveries_total 1") {
		t.Error("metrics leaked between instances")
	}
}
