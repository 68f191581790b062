package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/storage"
)

// CreateProgress persists a progress entry.
func (s *Store) CreateProgress(ctx context.Context, entry *models.ProgressEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO progress_entries (id, goal_id, user_id, entry_date, completed, target, percentage, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		entry.ID, entry.GoalID, entry.UserID, entry.Date, entry.Completed,
		entry.Target, entry.Percentage, entry.Comment, toNanos(entry.Timestamp),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("progress %s: %w", entry.ID, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert progress entry: %w", err)
	}

	return nil
}

// ListProgressByGoal retrieves all entries logged against a goal, oldest first.
func (s *Store) ListProgressByGoal(ctx context.Context, goalID string) ([]*models.ProgressEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, goal_id, user_id, entry_date, completed, target, percentage, comment, created_at
		FROM progress_entries WHERE goal_id = ? ORDER BY created_at, id`),
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress by goal: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.ProgressEntry, 0)
	for rows.Next() {
		e := &models.ProgressEntry{}
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.GoalID, &e.UserID, &e.Date, &e.Completed,
			&e.Target, &e.Percentage, &e.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		e.Timestamp = fromNanos(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress entries: %w", err)
	}

	return entries, nil
}
