package service

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmynk/hecovacka/internal/middleware"
	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/respond"
	"github.com/mmynk/hecovacka/internal/storage"
)

const groupedPrefix = "grouped-"

// HecovackaService serves the messages posted to groups.
type HecovackaService struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHecovackaService creates a new HecovackaService with the given storage backend.
func NewHecovackaService(store storage.Store, logger *slog.Logger) *HecovackaService {
	return &HecovackaService{store: store, logger: logger, now: time.Now}
}

type sendHecovackaRequest struct {
	GroupID  string `json:"groupId"`
	ToUserID string `json:"toUserId"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

// ListGrouped serves GET /api/hecovacky/grouped-{groupId}, newest first.
// Unknown groups yield an empty list rather than a 404; keys without the
// grouped- prefix are not a route at all.
func (s *HecovackaService) ListGrouped(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	groupID, ok := strings.CutPrefix(key, groupedPrefix)
	if !ok {
		NotFound(w, r)
		return
	}

	msgs, err := s.store.ListHecovackyByGroup(r.Context(), groupID)
	if err != nil {
		s.logger.Error("ListHecovackyByGroup failed", "group_id", groupID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	respond.OK(w, "", map[string]any{"messages": msgs})
}

// Send posts a message to a group. The sender is the authenticated user's
// name, or "Ty" for anonymous requests.
func (s *HecovackaService) Send(w http.ResponseWriter, r *http.Request) {
	var req sendHecovackaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Neplatné dáta požiadavky")
		return
	}

	if trim(req.Message) == "" {
		respond.Error(w, http.StatusBadRequest, "Správa je povinná")
		return
	}

	kind := trim(req.Type)
	if kind == "" {
		kind = models.DefaultHecovackaType
	}

	msg := &models.Hecovacka{
		SenderName: s.senderName(r),
		Message:    req.Message,
		Timestamp:  s.now().UTC(),
		Type:       kind,
		GroupID:    trim(req.GroupID),
		ToUserID:   trim(req.ToUserID),
	}
	if err := s.store.CreateHecovacka(r.Context(), msg); err != nil {
		s.logger.Error("CreateHecovacka failed", "group_id", msg.GroupID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	s.logger.Info("Hecovacka sent",
		"hecovacka_id", msg.ID,
		"group_id", msg.GroupID,
		"to_user_id", msg.ToUserID,
		"user_id", middleware.GetUserID(r.Context()),
	)
	respond.OK(w, "Hecovačka úspešne poslaná", map[string]any{"hecovacka": msg})
}

func (s *HecovackaService) senderName(r *http.Request) string {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		return anonymousSenderName
	}
	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		s.logger.Warn("Sender lookup failed; sending anonymously", "user_id", userID, "error", err)
		return anonymousSenderName
	}
	return user.Name
}
