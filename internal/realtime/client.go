package realtime

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one WebSocket connection.
type Client struct {
	id     string
	userID string
	addr   string

	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	limiter *rate.Limiter
	logger  *slog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, addr, userID string) *Client {
	id := uuid.NewString()
	return &Client{
		id:      id,
		userID:  userID,
		addr:    addr,
		conn:    conn,
		send:    make(chan []byte, hub.opts.SendBuffer),
		hub:     hub,
		limiter: rate.NewLimiter(rate.Limit(hub.opts.RateRPS), hub.opts.RateBurst),
		logger:  hub.logger.With("conn_id", id, "remote_addr", addr),
	}
}

// ID returns the connection's unique identifier.
func (c *Client) ID() string {
	return c.id
}

// ServeConn registers a freshly upgraded connection and starts its pumps.
// userID may be empty for anonymous connections.
func (h *Hub) ServeConn(conn *websocket.Conn, addr, userID string) {
	c := newClient(h, conn, addr, userID)
	if !h.registerWithPumps(c, 2) {
		conn.Close()
		return
	}

	go func() {
		defer h.wg.Done()
		c.writePump()
	}()
	go func() {
		defer h.wg.Done()
		c.readPump()
	}()
}

func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Recovered from panic in read pump", "panic", r)
		}
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}

		if !c.limiter.Allow() {
			c.logger.Warn("Rate limit exceeded; discarding event")
			continue
		}

		c.handleFrame(raw)
	}
}

func (c *Client) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.logger.Warn("Frame exceeded maximum size", "limit", c.hub.opts.MaxMessageSize)
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		c.logger.Debug("Client closed connection")
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		c.logger.Debug("Connection closed", "error", err)
	default:
		c.logger.Info("WebSocket read error", "error", err)
	}
}

// handleFrame decodes one inbound frame and dispatches it. Malformed frames
// and unknown events are logged and dropped.
func (c *Client) handleFrame(raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.logger.Warn("Invalid frame", "error", err)
		return
	}
	c.hub.metrics.EventReceived(frame.Event)

	switch frame.Event {
	case EventJoinGroups:
		groups := groupKeys(frame.Data)
		if groups == nil {
			c.logger.Debug("Ignoring join-groups without an array payload")
			return
		}
		c.hub.Join(c, groups)

	case EventProgressUpdate:
		var in ProgressUpdate
		if err := json.Unmarshal(frame.Data, &in); err != nil {
			c.logger.Warn("Invalid progress-update payload", "error", err)
			return
		}
		c.relay(in.GroupID, EventMemberProgressUpdate, MemberProgressUpdate{
			UserID:    in.UserID,
			UserName:  in.UserName,
			Progress:  in.Progress,
			Goal:      in.Goal,
			Timestamp: c.hub.now().UTC(),
		})

	case EventSendHecovacka:
		var in SendHecovacka
		if err := json.Unmarshal(frame.Data, &in); err != nil {
			c.logger.Warn("Invalid send-hecovacka payload", "error", err)
			return
		}
		c.relay(in.GroupID, EventNewHecovacka, NewHecovacka{
			FromUserID:   in.FromUserID,
			FromUserName: in.FromUserName,
			ToUserID:     in.ToUserID,
			ToUserName:   in.ToUserName,
			Message:      in.Message,
			Type:         in.Type,
			Timestamp:    c.hub.now().UTC(),
		})

	default:
		c.logger.Debug("Ignoring unknown event", "event", frame.Event)
	}
}

func (c *Client) relay(rawGroup json.RawMessage, event string, data any) {
	group, ok := groupKey(rawGroup)
	if !ok {
		c.logger.Debug("Dropping event without a group", "event", event)
		return
	}

	payload, err := encodeFrame(event, data)
	if err != nil {
		c.logger.Error("Failed to encode event", "event", event, "error", err)
		return
	}
	c.hub.Broadcast(c, group, payload)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Recovered from panic in write pump", "panic", r)
		}
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("Write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("Ping failed", "error", err)
				return
			}
		}
	}
}
