package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/storage"
)

// CreateGoal persists a new goal.
func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO goals (id, user_id, activity, target, unit, frequency, deadline, description, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		goal.ID, goal.UserID, goal.Activity, goal.Target, goal.Unit,
		goal.Frequency, goal.Deadline, goal.Description, goal.IsActive, toNanos(goal.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("goal %s: %w", goal.ID, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	return nil
}

// ListGoals retrieves all goals in creation order.
func (s *Store) ListGoals(ctx context.Context) ([]*models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, activity, target, unit, frequency, deadline, description, is_active, created_at
		FROM goals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]*models.Goal, 0)
	for rows.Next() {
		goal := &models.Goal{}
		var createdAt int64
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Activity, &goal.Target, &goal.Unit,
			&goal.Frequency, &goal.Deadline, &goal.Description, &goal.IsActive, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goal.CreatedAt = fromNanos(createdAt)
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return goals, nil
}
