package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/storage"
)

const memberColumns = `group_id, member_id, name, current_goal,
	progress_current, progress_target, progress_percentage, status`

// CreateGroup persists a group and its member snapshots in one transaction.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		s.rebind("INSERT INTO accountability_groups (id, name, created_at) VALUES (?, ?, ?)"),
		group.ID, group.Name, toNanos(group.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, m := range group.Members {
		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO group_members (group_id, position, member_id, name, current_goal,
				progress_current, progress_target, progress_percentage, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			group.ID, i, m.ID, m.Name, m.CurrentGoal,
			m.Progress.Current, m.Progress.Target, m.Progress.Percentage, m.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *Store) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group := &models.Group{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, name, created_at FROM accountability_groups WHERE id = ?"),
		id,
	).Scan(&group.ID, &group.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.CreatedAt = fromNanos(createdAt)

	members, err := s.queryMembers(ctx,
		s.rebind("SELECT "+memberColumns+" FROM group_members WHERE group_id = ? ORDER BY position"),
		id,
	)
	if err != nil {
		return nil, err
	}
	group.Members = members[id]
	if group.Members == nil {
		group.Members = []models.Member{}
	}

	return group, nil
}

// ListGroups retrieves all groups with their members in creation order.
func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM accountability_groups ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		group := &models.Group{}
		var createdAt int64
		if err := rows.Scan(&group.ID, &group.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.CreatedAt = fromNanos(createdAt)
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	members, err := s.queryMembers(ctx,
		"SELECT "+memberColumns+" FROM group_members ORDER BY group_id, position")
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		g.Members = members[g.ID]
		if g.Members == nil {
			g.Members = []models.Member{}
		}
	}

	return groups, nil
}

// queryMembers runs a member query and buckets the rows by group ID.
func (s *Store) queryMembers(ctx context.Context, query string, args ...any) (map[string][]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Member)
	for rows.Next() {
		var groupID string
		var m models.Member
		if err := rows.Scan(&groupID, &m.ID, &m.Name, &m.CurrentGoal,
			&m.Progress.Current, &m.Progress.Target, &m.Progress.Percentage, &m.Status); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		out[groupID] = append(out[groupID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return out, nil
}
