package realtime

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mmynk/hecovacka/internal/auth"
)

// Handler upgrades HTTP requests on /ws to realtime connections.
type Handler struct {
	hub        *Hub
	jwtManager *auth.JWTManager
	upgrader   websocket.Upgrader
}

// NewHandler creates the upgrade handler. A valid ?token= query parameter
// tags the connection with its user; missing or invalid tokens still connect.
func NewHandler(hub *Hub, jwtManager *auth.JWTManager, allowedOrigins []string) *Handler {
	policy := newOriginPolicy(allowedOrigins)
	return &Handler{
		hub:        hub,
		jwtManager: jwtManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     policy.check,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var userID string
	if token := r.URL.Query().Get("token"); token != "" && h.jwtManager != nil {
		if claims, err := h.jwtManager.Validate(token); err == nil {
			userID = claims.UserID
		} else {
			h.hub.logger.Debug("Ignoring invalid realtime token", "error", err)
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an HTTP error.
		h.hub.logger.Warn("WebSocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	h.hub.ServeConn(conn, r.RemoteAddr, userID)
}
