package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/storage"
)

// CreateUser inserts a new user. Emails are unique case-insensitively.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.users.InsertOne(ctx, userDoc{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		EmailKey:     emailKey(user.Email),
		PasswordHash: user.PasswordHash,
		CreatedAt:    toNanos(user.CreatedAt),
	})
	return insertErr(err, "user", user.Email)
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.D{{Key: "emailKey", Value: emailKey(email)}}, email)
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.D{{Key: "_id", Value: id}}, id)
}

func (s *Store) findUser(ctx context.Context, filter bson.D, key string) (*models.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.model(), nil
}

// CreateGoal persists a new goal.
func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now().UTC()
	}

	_, err := s.goals.InsertOne(ctx, goalDoc{
		ID:          goal.ID,
		Seq:         primitive.NewObjectID(),
		UserID:      goal.UserID,
		Activity:    goal.Activity,
		Target:      goal.Target,
		Unit:        goal.Unit,
		Frequency:   goal.Frequency,
		Deadline:    goal.Deadline,
		Description: goal.Description,
		IsActive:    goal.IsActive,
		CreatedAt:   toNanos(goal.CreatedAt),
	})
	return insertErr(err, "goal", goal.ID)
}

// ListGoals retrieves all goals in creation order.
func (s *Store) ListGoals(ctx context.Context) ([]*models.Goal, error) {
	docs, err := findAll[goalDoc](ctx, s.goals, bson.D{},
		bson.D{{Key: "createdAt", Value: 1}, {Key: "seq", Value: 1}})
	if err != nil {
		return nil, err
	}
	goals := make([]*models.Goal, 0, len(docs))
	for _, d := range docs {
		goals = append(goals, d.model())
	}
	return goals, nil
}

// CreateGroup persists a group with its members embedded.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	_, err := s.groups.InsertOne(ctx, newGroupDoc(group))
	return insertErr(err, "group", group.ID)
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	var doc groupDoc
	err := s.groups.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return doc.model(), nil
}

// ListGroups retrieves all groups in creation order.
func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	docs, err := findAll[groupDoc](ctx, s.groups, bson.D{},
		bson.D{{Key: "createdAt", Value: 1}, {Key: "seq", Value: 1}})
	if err != nil {
		return nil, err
	}
	groups := make([]*models.Group, 0, len(docs))
	for _, d := range docs {
		groups = append(groups, d.model())
	}
	return groups, nil
}

// CreateProgress persists a progress entry.
func (s *Store) CreateProgress(ctx context.Context, entry *models.ProgressEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := s.progress.InsertOne(ctx, progressDoc{
		ID:         entry.ID,
		Seq:        primitive.NewObjectID(),
		GoalID:     entry.GoalID,
		UserID:     entry.UserID,
		Date:       entry.Date,
		Completed:  entry.Completed,
		Target:     entry.Target,
		Percentage: entry.Percentage,
		Comment:    entry.Comment,
		Timestamp:  toNanos(entry.Timestamp),
	})
	return insertErr(err, "progress entry", entry.ID)
}

// ListProgressByGoal retrieves the entries for a goal, oldest first.
func (s *Store) ListProgressByGoal(ctx context.Context, goalID string) ([]*models.ProgressEntry, error) {
	docs, err := findAll[progressDoc](ctx, s.progress,
		bson.D{{Key: "goalId", Value: goalID}},
		bson.D{{Key: "timestamp", Value: 1}, {Key: "seq", Value: 1}})
	if err != nil {
		return nil, err
	}
	entries := make([]*models.ProgressEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.model())
	}
	return entries, nil
}

// CreateHecovacka persists a new message.
func (s *Store) CreateHecovacka(ctx context.Context, msg *models.Hecovacka) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	_, err := s.hecovacky.InsertOne(ctx, hecovackaDoc{
		ID:         msg.ID,
		Seq:        primitive.NewObjectID(),
		GroupID:    msg.GroupID,
		ToUserID:   msg.ToUserID,
		SenderName: msg.SenderName,
		Message:    msg.Message,
		Type:       msg.Type,
		SentAt:     toNanos(msg.Timestamp),
	})
	return insertErr(err, "hecovacka", msg.ID)
}

// ListHecovackyByGroup retrieves a group's messages, newest first. Messages
// sent at the same instant are listed latest insert first.
func (s *Store) ListHecovackyByGroup(ctx context.Context, groupID string) ([]*models.Hecovacka, error) {
	docs, err := findAll[hecovackaDoc](ctx, s.hecovacky,
		bson.D{{Key: "groupId", Value: groupID}},
		bson.D{{Key: "sentAt", Value: -1}, {Key: "seq", Value: -1}})
	if err != nil {
		return nil, err
	}
	msgs := make([]*models.Hecovacka, 0, len(docs))
	for _, d := range docs {
		msgs = append(msgs, d.model())
	}
	return msgs, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
