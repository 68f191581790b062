package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mmynk/hecovacka/internal/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startHub(t *testing.T, opts Options) *Hub {
	t.Helper()
	h := NewHub(opts, metrics.New(), testLogger())
	go h.Run()
	t.Cleanup(func() { h.Shutdown(time.Second) })
	return h
}

// fakeClient is a registered client without a network connection; tests
// read its send channel directly.
func fakeClient(t *testing.T, h *Hub) *Client {
	t.Helper()
	c := newClient(h, nil, "test", "")
	if !h.Register(c) {
		t.Fatal("Register failed")
	}
	return c
}

func expectFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func expectNoFrame(t *testing.T, h *Hub, c *Client) {
	t.Helper()
	h.Stats() // round-trip through Run so earlier requests are processed
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected frame: %s", msg)
	default:
	}
}

func TestHubDeliversToGroupMembersExceptSender(t *testing.T) {
	h := startHub(t, Options{})
	a, b, outsider := fakeClient(t, h), fakeClient(t, h), fakeClient(t, h)

	h.Join(a, []string{"g1"})
	h.Join(b, []string{"g1", "g2"})
	h.Join(outsider, []string{"g2"})

	h.Broadcast(b, "g1", []byte("hello"))

	if got := expectFrame(t, a); string(got) != "hello" {
		t.Errorf("a received %q, want hello", got)
	}
	expectNoFrame(t, h, b)
	expectNoFrame(t, h, outsider)
}

func TestHubNilSenderReachesEveryMember(t *testing.T) {
	h := startHub(t, Options{})
	a, b := fakeClient(t, h), fakeClient(t, h)
	h.Join(a, []string{"g"})
	h.Join(b, []string{"g"})

	h.Broadcast(nil, "g", []byte("x"))

	expectFrame(t, a)
	expectFrame(t, b)
}

func TestHubJoinIsIdempotent(t *testing.T) {
	h := startHub(t, Options{})
	a, b := fakeClient(t, h), fakeClient(t, h)

	h.Join(a, []string{"g", "g"})
	h.Join(a, []string{"g"})

	if n := h.GroupSize("g"); n != 1 {
		t.Fatalf("GroupSize = %d, want 1", n)
	}

	h.Broadcast(b, "g", []byte("once"))
	expectFrame(t, a)
	expectNoFrame(t, h, a)
}

func TestHubUnregisterRemovesMemberships(t *testing.T) {
	h := startHub(t, Options{})
	a, b := fakeClient(t, h), fakeClient(t, h)
	h.Join(a, []string{"g1", "g2"})
	h.Join(b, []string{"g1"})

	h.Unregister(a)

	if n := h.GroupSize("g1"); n != 1 {
		t.Errorf("GroupSize(g1) = %d, want 1", n)
	}
	if n := h.GroupSize("g2"); n != 0 {
		t.Errorf("GroupSize(g2) = %d, want 0", n)
	}
	if s := h.Stats(); s.Clients != 1 || s.Groups != 1 {
		t.Errorf("Stats = %+v, want 1 client in 1 group", s)
	}

	if _, ok := <-a.send; ok {
		t.Error("expected unregistered client's send channel to be closed")
	}

	// Broadcasting to a group whose members all left is a no-op.
	h.Broadcast(b, "g2", []byte("nobody"))
	h.Unregister(a)
	h.Stats()
}

func TestHubDropsSlowClient(t *testing.T) {
	h := startHub(t, Options{SendBuffer: 1})
	slow, sender := fakeClient(t, h), fakeClient(t, h)
	h.Join(slow, []string{"g"})

	h.Broadcast(sender, "g", []byte("1"))
	h.Broadcast(sender, "g", []byte("2"))

	if got := expectFrame(t, slow); string(got) != "1" {
		t.Errorf("first frame = %q, want 1", got)
	}
	if _, ok := <-slow.send; ok {
		t.Error("expected slow client to be dropped")
	}
	if n := h.GroupSize("g"); n != 0 {
		t.Errorf("GroupSize = %d, want 0 after drop", n)
	}
}

func TestHubJoinBeforeRegisterIsIgnored(t *testing.T) {
	h := startHub(t, Options{})
	stray := newClient(h, nil, "test", "")

	h.Join(stray, []string{"g"})

	if n := h.GroupSize("g"); n != 0 {
		t.Errorf("GroupSize = %d, want 0", n)
	}
}

func TestHubShutdown(t *testing.T) {
	h := NewHub(Options{}, nil, testLogger())
	go h.Run()
	c := fakeClient(t, h)

	if err := h.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if _, ok := <-c.send; ok {
		t.Error("expected client send channel closed on shutdown")
	}

	// Calls after shutdown must not block.
	if h.Register(newClient(h, nil, "late", "")) {
		t.Error("Register after shutdown should fail")
	}
	h.Broadcast(nil, "g", []byte("x"))
	if s := h.Stats(); s != (Stats{}) {
		t.Errorf("Stats after shutdown = %+v", s)
	}
}

func TestHubShutdownWaitsForRegisteredPumps(t *testing.T) {
	h := NewHub(Options{}, nil, testLogger())
	go h.Run()

	if !h.registerWithPumps(newClient(h, nil, "pump", ""), 1) {
		t.Fatal("registerWithPumps failed")
	}

	if err := h.Shutdown(50 * time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Shutdown = %v, want deadline exceeded while a pump is running", err)
	}
	h.wg.Done()
}

func TestHubRegisterAfterShutdownAddsNoPumps(t *testing.T) {
	h := NewHub(Options{}, nil, testLogger())
	go h.Run()
	if err := h.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if h.registerWithPumps(newClient(h, nil, "late", ""), 2) {
		t.Fatal("registration after shutdown should be refused")
	}

	waited := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("refused registration left the wait group non-zero")
	}
}

func TestHandleFrameRelaysProgressUpdate(t *testing.T) {
	h := startHub(t, Options{})
	fixed := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	sender, member := fakeClient(t, h), fakeClient(t, h)
	h.Join(member, []string{"demo-group"})
	h.Join(sender, []string{"demo-group"})

	sender.handleFrame([]byte(`{"event":"progress-update","data":{"groupId":"demo-group","userId":"user1","userName":"Ty","progress":{"current":70},"goal":"kliky"}}`))

	var frame struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	if err := json.Unmarshal(expectFrame(t, member), &frame); err != nil {
		t.Fatalf("invalid frame: %v", err)
	}
	if frame.Event != EventMemberProgressUpdate {
		t.Errorf("event = %q", frame.Event)
	}
	if frame.Data["userId"] != "user1" || frame.Data["userName"] != "Ty" || frame.Data["goal"] != "kliky" {
		t.Errorf("unexpected data: %v", frame.Data)
	}
	if p, _ := frame.Data["progress"].(map[string]any); p["current"] != float64(70) {
		t.Errorf("progress = %v", frame.Data["progress"])
	}
	if frame.Data["timestamp"] != "2025-05-01T08:00:00Z" {
		t.Errorf("timestamp = %v", frame.Data["timestamp"])
	}
	expectNoFrame(t, h, sender)
}

func TestHandleFrameRelaysHecovacka(t *testing.T) {
	h := startHub(t, Options{})
	sender, member := fakeClient(t, h), fakeClient(t, h)
	h.Join(member, []string{"7"})

	// Numeric group ids address the same group as their string form.
	sender.handleFrame([]byte(`{"event":"send-hecovacka","data":{"groupId":7,"fromUserId":"u1","fromUserName":"Janko","toUserId":"u2","toUserName":"Michal","message":"Poď!","type":"vtipné"}}`))

	var frame struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	if err := json.Unmarshal(expectFrame(t, member), &frame); err != nil {
		t.Fatalf("invalid frame: %v", err)
	}
	if frame.Event != EventNewHecovacka {
		t.Errorf("event = %q", frame.Event)
	}
	for key, want := range map[string]string{
		"fromUserId": "u1", "fromUserName": "Janko", "toUserId": "u2",
		"toUserName": "Michal", "message": "Poď!", "type": "vtipné",
	} {
		if frame.Data[key] != want {
			t.Errorf("%s = %q, want %q", key, frame.Data[key], want)
		}
	}
}

func TestHandleFrameIgnoresBadInput(t *testing.T) {
	h := startHub(t, Options{})
	c, member := fakeClient(t, h), fakeClient(t, h)
	h.Join(member, []string{"g"})

	for _, raw := range []string{
		`not json`,
		`{"event":"join-groups","data":"g"}`,
		`{"event":"join-groups","data":{"0":"g"}}`,
		`{"event":"progress-update","data":{"userId":"u1"}}`,
		`{"event":"progress-update","data":{"groupId":{"id":"g"}}}`,
		`{"event":"unknown","data":{}}`,
	} {
		c.handleFrame([]byte(raw))
	}

	if s := h.Stats(); s.Groups != 1 {
		t.Errorf("Groups = %d, want only the member's group", s.Groups)
	}
	expectNoFrame(t, h, member)
}

func TestGroupKeys(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`["a","b"]`, []string{"a", "b"}},
		{`[1, 2.5, -3]`, []string{"1", "2.5", "-3"}},
		{`["", null, true, {}, [], "x"]`, []string{"x"}},
		{`[]`, []string{}},
		{`"demo-group"`, nil},
		{`{"groups":["a"]}`, nil},
		{``, nil},
	}

	for _, tt := range tests {
		got := groupKeys(json.RawMessage(tt.in))
		if (got == nil) != (tt.want == nil) || len(got) != len(tt.want) {
			t.Errorf("groupKeys(%s) = %#v, want %#v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("groupKeys(%s)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
