package service

import (
	"log/slog"
	"net/http"

	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/respond"
	"github.com/mmynk/hecovacka/internal/storage"
)

// GoalService serves personal goals.
type GoalService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGoalService creates a new GoalService with the given storage backend.
func NewGoalService(store storage.Store, logger *slog.Logger) *GoalService {
	return &GoalService{store: store, logger: logger}
}

type createGoalRequest struct {
	Activity    string `json:"activity"`
	Target      count  `json:"target"`
	Unit        string `json:"unit"`
	Frequency   string `json:"frequency"`
	Deadline    string `json:"deadline"`
	Description string `json:"description"`
}

// ListGoals retrieves all goals.
func (s *GoalService) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context())
	if err != nil {
		s.logger.Error("ListGoals failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	respond.OK(w, "", map[string]any{"goals": goals})
}

// CreateGoal creates a goal owned by the requesting user. The target may be
// sent as a number or a numeric string.
func (s *GoalService) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Neplatné dáta požiadavky")
		return
	}

	if trim(req.Activity) == "" {
		respond.Error(w, http.StatusBadRequest, "Aktivita je povinná")
		return
	}
	target, err := req.Target.value()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Cieľ musí byť číslo")
		return
	}

	goal := &models.Goal{
		UserID:      requestUserID(r),
		Activity:    trim(req.Activity),
		Target:      target,
		Unit:        req.Unit,
		Frequency:   req.Frequency,
		Deadline:    req.Deadline,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.store.CreateGoal(r.Context(), goal); err != nil {
		s.logger.Error("CreateGoal failed", "user_id", goal.UserID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	s.logger.Info("Goal created", "goal_id", goal.ID, "user_id", goal.UserID, "activity", goal.Activity)
	respond.OK(w, "Cieľ úspešne vytvorený", map[string]any{"goal": goal})
}
