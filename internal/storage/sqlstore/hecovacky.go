package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/storage"
)

// CreateHecovacka persists a new message.
func (s *Store) CreateHecovacka(ctx context.Context, msg *models.Hecovacka) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO hecovacky (id, group_id, to_user_id, sender_name, message, kind, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		msg.ID, msg.GroupID, msg.ToUserID, msg.SenderName, msg.Message, msg.Type, toNanos(msg.Timestamp),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("hecovacka %s: %w", msg.ID, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert hecovacka: %w", err)
	}

	return nil
}

// ListHecovackyByGroup retrieves a group's messages, newest first. Messages
// sent at the same instant are listed latest insert first.
func (s *Store) ListHecovackyByGroup(ctx context.Context, groupID string) ([]*models.Hecovacka, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, group_id, to_user_id, sender_name, message, kind, sent_at
		FROM hecovacky WHERE group_id = ? ORDER BY sent_at DESC, `+s.insertSeq()+` DESC`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list hecovacky by group: %w", err)
	}
	defer rows.Close()

	msgs := make([]*models.Hecovacka, 0)
	for rows.Next() {
		m := &models.Hecovacka{}
		var sentAt int64
		if err := rows.Scan(&m.ID, &m.GroupID, &m.ToUserID, &m.SenderName, &m.Message, &m.Type, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan hecovacka: %w", err)
		}
		m.Timestamp = fromNanos(sentAt)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hecovacky: %w", err)
	}

	return msgs, nil
}
