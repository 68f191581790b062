package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/hecovacka/internal/models"
)

// DemoGroupID is the seeded group every new client sees.
const DemoGroupID = "demo-group"

// DemoGoalID is the seeded goal with two days of logged progress.
const DemoGoalID = "goal1"

// Seed inserts the demo dataset unless the demo group already exists.
// It reports whether anything was inserted.
func Seed(ctx context.Context, store Store, now time.Time) (bool, error) {
	_, err := store.GetGroup(ctx, DemoGroupID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("failed to check demo group: %w", err)
	}

	now = now.UTC()
	yesterday := now.Add(-24 * time.Hour)

	group := &models.Group{
		ID:        DemoGroupID,
		Name:      "Demo Skupina",
		CreatedAt: now,
		Members: []models.Member{
			{ID: "user1", Name: "Ty", CurrentGoal: "100 klikov denne", Progress: models.MemberProgress{Current: 60, Target: 100, Percentage: 60}, Status: models.MemberStatusActive},
			{ID: "user2", Name: "Michal", CurrentGoal: "5km behanie denne", Progress: models.MemberProgress{Current: 0, Target: 5, Percentage: 0}, Status: models.MemberStatusBehind},
			{ID: "user3", Name: "Janko", CurrentGoal: "50 drepov denne", Progress: models.MemberProgress{Current: 45, Target: 50, Percentage: 90}, Status: models.MemberStatusActive},
		},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		return false, fmt.Errorf("failed to seed group: %w", err)
	}

	goal := &models.Goal{
		ID:          DemoGoalID,
		UserID:      "user1",
		Activity:    "kliky",
		Target:      100,
		Unit:        "krát",
		Frequency:   "denne",
		Deadline:    "22:00",
		Description: "Denný tréning pre lepšiu kondíciu",
		CreatedAt:   now,
		IsActive:    true,
	}
	if err := store.CreateGoal(ctx, goal); err != nil {
		return false, fmt.Errorf("failed to seed goal: %w", err)
	}

	progress := []*models.ProgressEntry{
		{ID: "progress1", GoalID: DemoGoalID, UserID: "user1", Date: now.Format(models.DateLayout), Completed: 60, Target: 100, Percentage: 60, Comment: "Dobré ráno, urobil som 60 klikov!", Timestamp: now},
		{ID: "progress2", GoalID: DemoGoalID, UserID: "user1", Date: yesterday.Format(models.DateLayout), Completed: 100, Target: 100, Percentage: 100, Comment: "Perfektný deň! Všetko splnené! 💪", Timestamp: yesterday},
	}
	for _, entry := range progress {
		if err := store.CreateProgress(ctx, entry); err != nil {
			return false, fmt.Errorf("failed to seed progress: %w", err)
		}
	}

	messages := []*models.Hecovacka{
		{ID: "msg3", SenderName: "Ty", Message: "Poď na to, šampión! Vieš na to! 💪", Timestamp: now.Add(-2 * time.Hour), Type: "motivačné", GroupID: DemoGroupID},
		{ID: "msg2", SenderName: "Al", Message: "Žbun! To je len rozvinčiek! Tvoja kondička je slabšia ako wifi v tuneli!", Timestamp: now.Add(-time.Hour), Type: "vtipné", GroupID: DemoGroupID},
		{ID: "msg1", SenderName: "Janko", Message: "Michal, tvoje nohy už zabúdli na existenciu! Poď! Nebo budeš grúľ!", Timestamp: now.Add(-30 * time.Minute), Type: "vtipné", GroupID: DemoGroupID},
	}
	for _, msg := range messages {
		if err := store.CreateHecovacka(ctx, msg); err != nil {
			return false, fmt.Errorf("failed to seed hecovacka: %w", err)
		}
	}

	return true, nil
}
