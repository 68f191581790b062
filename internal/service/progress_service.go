package service

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mmynk/hecovacka/internal/calculator"
	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/respond"
	"github.com/mmynk/hecovacka/internal/storage"
)

// ProgressService serves daily progress entries.
type ProgressService struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewProgressService creates a new ProgressService with the given storage backend.
func NewProgressService(store storage.Store, logger *slog.Logger) *ProgressService {
	return &ProgressService{store: store, logger: logger, now: time.Now}
}

type updateProgressRequest struct {
	GoalID    string `json:"goalId"`
	Completed count  `json:"completed"`
	Target    count  `json:"target"`
	Comment   string `json:"comment"`
}

// ListByGoal returns the entries logged for a goal. Unknown goals yield an
// empty list.
func (s *ProgressService) ListByGoal(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalId")

	entries, err := s.store.ListProgressByGoal(r.Context(), goalID)
	if err != nil {
		s.logger.Error("ListProgressByGoal failed", "goal_id", goalID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	respond.OK(w, "", map[string]any{"progress": entries})
}

// Update records today's progress toward a goal.
func (s *ProgressService) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProgressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Neplatné dáta požiadavky")
		return
	}

	if trim(req.GoalID) == "" {
		respond.Error(w, http.StatusBadRequest, "ID cieľa je povinné")
		return
	}
	completed, err := req.Completed.value()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Splnené množstvo musí byť číslo")
		return
	}
	target, err := req.Target.value()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Cieľ musí byť číslo")
		return
	}

	now := s.now().UTC()
	entry := &models.ProgressEntry{
		GoalID:     trim(req.GoalID),
		UserID:     requestUserID(r),
		Date:       now.Format(models.DateLayout),
		Completed:  completed,
		Target:     target,
		Percentage: calculator.Percentage(completed, target),
		Comment:    req.Comment,
		Timestamp:  now,
	}
	if err := s.store.CreateProgress(r.Context(), entry); err != nil {
		s.logger.Error("CreateProgress failed", "goal_id", entry.GoalID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	s.logger.Info("Progress recorded",
		"progress_id", entry.ID,
		"goal_id", entry.GoalID,
		"user_id", entry.UserID,
		"percentage", entry.Percentage,
	)
	respond.OK(w, "Pokrok úspešne aktualizovaný", map[string]any{"progress": entry})
}
