package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/hecovacka/internal/calculator"
	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/respond"
	"github.com/mmynk/hecovacka/internal/storage"
)

// GroupService serves accountability groups and their member snapshots.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

type memberRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CurrentGoal string `json:"currentGoal"`
	Progress    struct {
		Current count `json:"current"`
		Target  count `json:"target"`
	} `json:"progress"`
}

type createGroupRequest struct {
	Name    string          `json:"name"`
	Members []memberRequest `json:"members"`
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("ListGroups request received")

	groups, err := s.store.ListGroups(r.Context())
	if err != nil {
		s.logger.Error("ListGroups failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	s.logger.Info("ListGroups successful", "count", len(groups))
	respond.OK(w, "", map[string]any{"groups": groups})
}

// CreateGroup creates a new group. Member progress percentages and statuses
// are derived from the submitted counts.
func (s *GroupService) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Neplatné dáta požiadavky")
		return
	}
	s.logger.Info("CreateGroup request received",
		"name", req.Name,
		"members_count", len(req.Members),
	)

	if trim(req.Name) == "" {
		respond.Error(w, http.StatusBadRequest, "Názov skupiny je povinný")
		return
	}

	group := &models.Group{
		Name:    trim(req.Name),
		Members: make([]models.Member, 0, len(req.Members)),
	}
	for _, m := range req.Members {
		member, err := buildMember(m)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Pokrok člena musí byť číslo")
			return
		}
		group.Members = append(group.Members, member)
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(r.Context(), group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	s.logger.Info("Group created", "group_id", group.ID)
	respond.OK(w, "Skupina úspešne vytvorená", map[string]any{"group": group})
}

func buildMember(m memberRequest) (models.Member, error) {
	var current, target int
	var err error
	if m.Progress.Current.present() {
		if current, err = m.Progress.Current.value(); err != nil {
			return models.Member{}, err
		}
	}
	if m.Progress.Target.present() {
		if target, err = m.Progress.Target.value(); err != nil {
			return models.Member{}, err
		}
	}

	id := trim(m.ID)
	if id == "" {
		id = newID()
	}
	progress := calculator.Snapshot(current, target)
	return models.Member{
		ID:          id,
		Name:        trim(m.Name),
		CurrentGoal: m.CurrentGoal,
		Progress:    progress,
		Status:      calculator.MemberStatus(progress.Percentage),
	}, nil
}

// GetMembers returns a group's members. Unknown groups are a 404, unlike
// the message lookup which answers with an empty list.
func (s *GroupService) GetMembers(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupId")
	s.logger.Info("GetMembers request received", "group_id", groupID)

	group, err := s.store.GetGroup(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("GetMembers for unknown group", "group_id", groupID)
			respond.Error(w, http.StatusNotFound, "Skupina nenájdená")
			return
		}
		s.logger.Error("GetMembers failed", "group_id", groupID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	respond.OK(w, "", map[string]any{"members": group.Members})
}
