// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/hecovacka/internal/models"
)

var (
	// ErrNotFound is wrapped by every lookup that finds no record.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is wrapped when a unique key (user email, record ID) is taken.
	ErrDuplicate = errors.New("already exists")
)

// Store defines the storage operations of every domain collection.
// Backends (in-memory, SQLite, PostgreSQL) are interchangeable behind it.
type Store interface {
	// CreateUser persists a new user. Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns the user with the given email or ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns the user with the given ID or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGoal persists a goal. ID and CreatedAt are filled in when empty.
	CreateGoal(ctx context.Context, goal *models.Goal) error

	// ListGoals returns every goal in creation order.
	ListGoals(ctx context.Context) ([]*models.Goal, error)

	// CreateGroup persists a group with its member snapshots.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with the given ID or ErrNotFound.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroups returns every group in creation order.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// CreateProgress persists a progress entry.
	CreateProgress(ctx context.Context, entry *models.ProgressEntry) error

	// ListProgressByGoal returns the entries for a goal in creation order.
	// An unknown goal yields an empty slice, not an error.
	ListProgressByGoal(ctx context.Context, goalID string) ([]*models.ProgressEntry, error)

	// CreateHecovacka persists a message.
	CreateHecovacka(ctx context.Context, msg *models.Hecovacka) error

	// ListHecovackyByGroup returns a group's messages, newest first.
	// An unknown group yields an empty slice, not an error.
	ListHecovackyByGroup(ctx context.Context, groupID string) ([]*models.Hecovacka, error)

	// Close releases any resources held by the store.
	Close() error
}
