// Package memory provides an in-process implementation of storage.Store.
// Everything is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps each domain collection in memory.
type Store struct {
	users     *collection[models.User]
	goals     *collection[models.Goal]
	groups    *collection[models.Group]
	progress  *collection[models.ProgressEntry]
	hecovacky *collection[models.Hecovacka]
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:     newCollection("user", func(u *models.User) string { return u.ID }),
		goals:     newCollection("goal", func(g *models.Goal) string { return g.ID }),
		groups:    newCollection("group", func(g *models.Group) string { return g.ID }),
		progress:  newCollection("progress", func(p *models.ProgressEntry) string { return p.ID }),
		hecovacky: newCollection("hecovacka", func(h *models.Hecovacka) string { return h.ID }),
	}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// CreateUser stores a user. Emails are compared case-insensitively.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	// The email check and the insert must happen under one lock.
	s.users.mu.Lock()
	defer s.users.mu.Unlock()
	for _, existing := range s.users.items {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("user %s: %w", user.Email, storage.ErrDuplicate)
		}
	}
	return s.users.insertLocked(user)
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.findOne(func(u *models.User) bool {
		return strings.EqualFold(u.Email, email)
	}, email)
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.findByID(id)
}

// CreateGoal stores a goal.
func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now().UTC()
	}
	return s.goals.insert(goal)
}

// ListGoals returns all goals.
func (s *Store) ListGoals(ctx context.Context) ([]*models.Goal, error) {
	return s.goals.findAll(), nil
}

// CreateGroup stores a group and its members.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	stored := *group
	stored.Members = slices.Clone(group.Members)
	return s.groups.insert(&stored)
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group, err := s.groups.findByID(id)
	if err != nil {
		return nil, err
	}
	group.Members = slices.Clone(group.Members)
	return group, nil
}

// ListGroups returns all groups.
func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups := s.groups.findAll()
	for _, g := range groups {
		g.Members = slices.Clone(g.Members)
	}
	return groups, nil
}

// CreateProgress stores a progress entry.
func (s *Store) CreateProgress(ctx context.Context, entry *models.ProgressEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return s.progress.insert(entry)
}

// ListProgressByGoal returns the entries logged against goalID, oldest first.
func (s *Store) ListProgressByGoal(ctx context.Context, goalID string) ([]*models.ProgressEntry, error) {
	entries := s.progress.findBy(func(p *models.ProgressEntry) bool {
		return p.GoalID == goalID
	})
	slices.SortStableFunc(entries, func(a, b *models.ProgressEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return entries, nil
}

// CreateHecovacka stores a message.
func (s *Store) CreateHecovacka(ctx context.Context, msg *models.Hecovacka) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	return s.hecovacky.insert(msg)
}

// ListHecovackyByGroup returns a group's messages, newest first. Messages
// with equal timestamps keep reverse insertion order.
func (s *Store) ListHecovackyByGroup(ctx context.Context, groupID string) ([]*models.Hecovacka, error) {
	msgs := s.hecovacky.findBy(func(h *models.Hecovacka) bool {
		return h.GroupID == groupID
	})
	slices.Reverse(msgs)
	slices.SortStableFunc(msgs, func(a, b *models.Hecovacka) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return msgs, nil
}
