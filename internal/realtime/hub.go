// Package realtime fans group-scoped events out to WebSocket clients.
//
// A Hub owns two tables: the groups each connection has joined and the
// connections subscribed to each group. Both are touched only by the hub's
// Run goroutine, which also computes every broadcast's recipients, so a join
// and a broadcast can never interleave.
package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/hecovacka/internal/metrics"
)

// Options tune per-connection limits.
type Options struct {
	// SendBuffer is the number of outbound frames queued per connection
	// before the connection is considered too slow and dropped.
	SendBuffer int

	// MaxMessageSize bounds inbound frames in bytes.
	MaxMessageSize int64

	// RateRPS and RateBurst bound inbound events per connection.
	RateRPS   float64
	RateBurst int
}

// DefaultOptions returns the limits used when none are configured.
func DefaultOptions() Options {
	return Options{
		SendBuffer:     256,
		MaxMessageSize: 4096,
		RateRPS:        10,
		RateBurst:      20,
	}
}

// Stats is a point-in-time view of the hub's tables.
type Stats struct {
	Clients int `json:"clients"`
	Groups  int `json:"groups"`
}

type registerRequest struct {
	client *Client

	// pumps is the number of connection goroutines the caller starts once
	// the registration is accepted.
	pumps int
}

type joinRequest struct {
	client *Client
	groups []string
}

type broadcastRequest struct {
	sender  *Client
	group   string
	payload []byte
}

// Hub manages client connections and their group memberships.
type Hub struct {
	opts    Options
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time

	register   chan registerRequest
	unregister chan *Client
	join       chan joinRequest
	broadcast  chan broadcastRequest
	calls      chan func()

	// Owned by Run.
	clients map[*Client]map[string]struct{}
	groups  map[string]map[*Client]struct{}

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a hub. Call Run in its own goroutine before serving clients.
func NewHub(opts Options, m *metrics.Metrics, logger *slog.Logger) *Hub {
	def := DefaultOptions()
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = def.SendBuffer
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = def.MaxMessageSize
	}
	if opts.RateRPS <= 0 {
		opts.RateRPS = def.RateRPS
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = def.RateBurst
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		opts:       opts,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
		register:   make(chan registerRequest),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		broadcast:  make(chan broadcastRequest),
		calls:      make(chan func()),
		clients:    make(map[*Client]map[string]struct{}),
		groups:     make(map[string]map[*Client]struct{}),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It returns after Shutdown.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return

		case req := <-h.register:
			c := req.client
			// wg grows only on this goroutine, before Shutdown reaches Wait.
			h.wg.Add(req.pumps)
			h.clients[c] = make(map[string]struct{})
			h.metrics.ClientConnected()
			h.logger.Info("Client connected", "conn_id", c.id, "user_id", c.userID, "clients", len(h.clients))

		case c := <-h.unregister:
			if h.remove(c) {
				h.logger.Info("Client disconnected", "conn_id", c.id, "clients", len(h.clients))
			}

		case req := <-h.join:
			h.handleJoin(req)

		case req := <-h.broadcast:
			h.handleBroadcast(req)

		case fn := <-h.calls:
			fn()
		}
	}
}

func (h *Hub) handleJoin(req joinRequest) {
	joined, ok := h.clients[req.client]
	if !ok {
		return
	}
	for _, g := range req.groups {
		if _, already := joined[g]; already {
			continue
		}
		joined[g] = struct{}{}

		members := h.groups[g]
		if members == nil {
			members = make(map[*Client]struct{})
			h.groups[g] = members
		}
		members[req.client] = struct{}{}
		h.logger.Debug("Client joined group", "conn_id", req.client.id, "group_id", g)
	}
}

// handleBroadcast queues the payload for every member of the group except
// the sender. A member whose buffer is full is dropped.
func (h *Hub) handleBroadcast(req broadcastRequest) {
	var slow []*Client
	delivered := 0

	for c := range h.groups[req.group] {
		if c == req.sender {
			continue
		}
		select {
		case c.send <- req.payload:
			delivered++
		default:
			slow = append(slow, c)
		}
	}

	h.metrics.Delivered(delivered)
	for _, c := range slow {
		h.metrics.Dropped()
		h.logger.Warn("Dropping slow client", "conn_id", c.id, "group_id", req.group)
		h.remove(c)
	}
}

// remove deletes c from both tables and closes its send channel, which makes
// the write pump close the connection. It reports whether c was registered.
func (h *Hub) remove(c *Client) bool {
	joined, ok := h.clients[c]
	if !ok {
		return false
	}
	for g := range joined {
		members := h.groups[g]
		delete(members, c)
		if len(members) == 0 {
			delete(h.groups, g)
		}
	}
	delete(h.clients, c)
	close(c.send)
	h.metrics.ClientDisconnected()
	return true
}

func (h *Hub) closeAll() {
	for c := range h.clients {
		h.remove(c)
		if c.conn != nil {
			c.conn.Close()
		}
	}
}

// submit hands v to the Run loop unless the hub is shutting down.
func submit[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Register adds a client with no group memberships.
func (h *Hub) Register(c *Client) bool {
	return h.registerWithPumps(c, 0)
}

// registerWithPumps registers c and accounts for pumps goroutines that the
// caller must start, each calling wg.Done when it exits. It reports false
// once the hub is shutting down, in which case nothing was added.
func (h *Hub) registerWithPumps(c *Client, pumps int) bool {
	return submit(h, h.register, registerRequest{client: c, pumps: pumps})
}

// Unregister removes a client from every group. Unknown clients are ignored.
func (h *Hub) Unregister(c *Client) {
	submit(h, h.unregister, c)
}

// Join subscribes c to groups. Joining a group twice is a no-op.
func (h *Hub) Join(c *Client, groups []string) {
	if len(groups) == 0 {
		return
	}
	submit(h, h.join, joinRequest{client: c, groups: groups})
}

// Broadcast queues payload for every member of group other than sender.
// A nil sender reaches every member. Broadcasting to a group with no
// members does nothing.
func (h *Hub) Broadcast(sender *Client, group string, payload []byte) {
	submit(h, h.broadcast, broadcastRequest{sender: sender, group: group, payload: payload})
}

// call runs fn on the Run goroutine and waits for it.
func (h *Hub) call(fn func()) bool {
	done := make(chan struct{})
	if !submit(h, h.calls, func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	<-done
	return true
}

// Stats reports the number of connected clients and non-empty groups.
func (h *Hub) Stats() Stats {
	var s Stats
	h.call(func() {
		s = Stats{Clients: len(h.clients), Groups: len(h.groups)}
	})
	return s
}

// GroupSize reports how many connections have joined group.
func (h *Hub) GroupSize(group string) int {
	var n int
	h.call(func() {
		n = len(h.groups[group])
	})
	return n
}

// Shutdown stops the hub, closes every connection and waits up to timeout
// for the connection goroutines to exit.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.logger.Info("Shutting down realtime hub")
	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		h.logger.Info("Realtime hub stopped")
		return nil
	case <-time.After(timeout):
		h.logger.Warn("Realtime hub shutdown timed out")
		return context.DeadlineExceeded
	}
}
