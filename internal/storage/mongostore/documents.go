package mongostore

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/hecovacka/internal/models"
)

type userDoc struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	EmailKey     string `bson:"emailKey"`
	PasswordHash string `bson:"passwordHash"`
	CreatedAt    int64  `bson:"createdAt"`
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    fromNanos(d.CreatedAt),
	}
}

type goalDoc struct {
	ID          string             `bson:"_id"`
	Seq         primitive.ObjectID `bson:"seq"`
	UserID      string             `bson:"userId"`
	Activity    string             `bson:"activity"`
	Target      int                `bson:"target"`
	Unit        string             `bson:"unit"`
	Frequency   string             `bson:"frequency"`
	Deadline    string             `bson:"deadline"`
	Description string             `bson:"description"`
	IsActive    bool               `bson:"isActive"`
	CreatedAt   int64              `bson:"createdAt"`
}

func (d goalDoc) model() *models.Goal {
	return &models.Goal{
		ID:          d.ID,
		UserID:      d.UserID,
		Activity:    d.Activity,
		Target:      d.Target,
		Unit:        d.Unit,
		Frequency:   d.Frequency,
		Deadline:    d.Deadline,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   fromNanos(d.CreatedAt),
	}
}

// memberDoc is embedded in its group; members have no collection of their own.
type memberDoc struct {
	ID          string `bson:"id"`
	Name        string `bson:"name"`
	CurrentGoal string `bson:"currentGoal"`
	Current     int    `bson:"current"`
	Target      int    `bson:"target"`
	Percentage  int    `bson:"percentage"`
	Status      string `bson:"status"`
}

type groupDoc struct {
	ID        string             `bson:"_id"`
	Seq       primitive.ObjectID `bson:"seq"`
	Name      string             `bson:"name"`
	Members   []memberDoc        `bson:"members"`
	CreatedAt int64              `bson:"createdAt"`
}

func newGroupDoc(g *models.Group) groupDoc {
	members := make([]memberDoc, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, memberDoc{
			ID:          m.ID,
			Name:        m.Name,
			CurrentGoal: m.CurrentGoal,
			Current:     m.Progress.Current,
			Target:      m.Progress.Target,
			Percentage:  m.Progress.Percentage,
			Status:      m.Status,
		})
	}
	return groupDoc{
		ID:        g.ID,
		Seq:       primitive.NewObjectID(),
		Name:      g.Name,
		Members:   members,
		CreatedAt: toNanos(g.CreatedAt),
	}
}

func (d groupDoc) model() *models.Group {
	members := make([]models.Member, 0, len(d.Members))
	for _, m := range d.Members {
		members = append(members, models.Member{
			ID:          m.ID,
			Name:        m.Name,
			CurrentGoal: m.CurrentGoal,
			Progress: models.MemberProgress{
				Current:    m.Current,
				Target:     m.Target,
				Percentage: m.Percentage,
			},
			Status: m.Status,
		})
	}
	return &models.Group{
		ID:        d.ID,
		Name:      d.Name,
		Members:   members,
		CreatedAt: fromNanos(d.CreatedAt),
	}
}

type progressDoc struct {
	ID         string             `bson:"_id"`
	Seq        primitive.ObjectID `bson:"seq"`
	GoalID     string             `bson:"goalId"`
	UserID     string             `bson:"userId"`
	Date       string             `bson:"date"`
	Completed  int                `bson:"completed"`
	Target     int                `bson:"target"`
	Percentage int                `bson:"percentage"`
	Comment    string             `bson:"comment"`
	Timestamp  int64              `bson:"timestamp"`
}

func (d progressDoc) model() *models.ProgressEntry {
	return &models.ProgressEntry{
		ID:         d.ID,
		GoalID:     d.GoalID,
		UserID:     d.UserID,
		Date:       d.Date,
		Completed:  d.Completed,
		Target:     d.Target,
		Percentage: d.Percentage,
		Comment:    d.Comment,
		Timestamp:  fromNanos(d.Timestamp),
	}
}

type hecovackaDoc struct {
	ID         string             `bson:"_id"`
	Seq        primitive.ObjectID `bson:"seq"`
	GroupID    string             `bson:"groupId"`
	ToUserID   string             `bson:"toUserId"`
	SenderName string             `bson:"senderName"`
	Message    string             `bson:"message"`
	Type       string             `bson:"type"`
	SentAt     int64              `bson:"sentAt"`
}

func (d hecovackaDoc) model() *models.Hecovacka {
	return &models.Hecovacka{
		ID:         d.ID,
		SenderName: d.SenderName,
		Message:    d.Message,
		Timestamp:  fromNanos(d.SentAt),
		Type:       d.Type,
		GroupID:    d.GroupID,
		ToUserID:   d.ToUserID,
	}
}
