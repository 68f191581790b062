// Package storetest holds the behaviour every storage.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/storage"
)

// Run exercises newStore against the storage.Store contract. newStore must
// return an empty store; it is called once per subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("CreateUser and lookups", func(t *testing.T) {
		store := newStore(t)
		user := models.NewUser("eva@example.com", "Eva", "hash")

		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		byEmail, err := store.GetUserByEmail(ctx, "eva@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != user.ID || byEmail.Name != "Eva" || byEmail.PasswordHash != "hash" {
			t.Errorf("GetUserByEmail = %+v, want %+v", byEmail, user)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != "eva@example.com" {
			t.Errorf("GetUserByID email = %q", byID.Email)
		}
	})

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		store := newStore(t)
		if err := store.CreateUser(ctx, models.NewUser("dup@example.com", "A", "h")); err != nil {
			t.Fatalf("first CreateUser failed: %v", err)
		}
		err := store.CreateUser(ctx, models.NewUser("dup@example.com", "B", "h"))
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("second CreateUser error = %v, want ErrDuplicate", err)
		}
	})

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByEmail error = %v, want ErrNotFound", err)
		}
		if _, err := store.GetUserByID(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByID error = %v, want ErrNotFound", err)
		}
	})

	t.Run("CreateGoal fills ID and keeps fields", func(t *testing.T) {
		store := newStore(t)
		goal := &models.Goal{
			UserID:    "current-user",
			Activity:  "drepy",
			Target:    50,
			Unit:      "krát",
			Frequency: "denne",
			Deadline:  "20:00",
			IsActive:  true,
		}
		if err := store.CreateGoal(ctx, goal); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		if goal.ID == "" {
			t.Error("expected goal ID to be generated")
		}
		if goal.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}

		goals, err := store.ListGoals(ctx)
		if err != nil {
			t.Fatalf("ListGoals failed: %v", err)
		}
		if len(goals) != 1 {
			t.Fatalf("ListGoals returned %d goals, want 1", len(goals))
		}
		got := goals[0]
		if got.ID != goal.ID || got.Activity != "drepy" || got.Target != 50 || !got.IsActive {
			t.Errorf("ListGoals()[0] = %+v", got)
		}
	})

	t.Run("IDs are unique across rapid creates", func(t *testing.T) {
		store := newStore(t)
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			goal := &models.Goal{Activity: "kliky", Target: i}
			if err := store.CreateGoal(ctx, goal); err != nil {
				t.Fatalf("CreateGoal %d failed: %v", i, err)
			}
			if seen[goal.ID] {
				t.Fatalf("duplicate goal ID %s", goal.ID)
			}
			seen[goal.ID] = true
		}
	})

	t.Run("groups round-trip members in order", func(t *testing.T) {
		store := newStore(t)
		group := &models.Group{
			Name: "Bežci",
			Members: []models.Member{
				{ID: "a", Name: "Anna", CurrentGoal: "5km", Progress: models.MemberProgress{Current: 1, Target: 5, Percentage: 20}, Status: models.MemberStatusBehind},
				{ID: "b", Name: "Boris", CurrentGoal: "10km", Progress: models.MemberProgress{Current: 10, Target: 10, Percentage: 100}, Status: models.MemberStatusActive},
			},
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Bežci" || len(got.Members) != 2 {
			t.Fatalf("GetGroup = %+v", got)
		}
		if got.Members[0] != group.Members[0] || got.Members[1] != group.Members[1] {
			t.Errorf("members = %+v, want %+v", got.Members, group.Members)
		}

		groups, err := store.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(groups) != 1 || len(groups[0].Members) != 2 {
			t.Errorf("ListGroups = %+v", groups)
		}
	})

	t.Run("returned groups are copies", func(t *testing.T) {
		store := newStore(t)
		group := &models.Group{Name: "G", Members: []models.Member{{ID: "m", Name: "M"}}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		group.Members[0].Name = "changed after create"

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		got.Members[0].Name = "changed after read"

		again, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if again.Members[0].Name != "M" {
			t.Errorf("stored member name = %q, want M", again.Members[0].Name)
		}
	})

	t.Run("unknown group returns ErrNotFound", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.GetGroup(ctx, "unknown-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetGroup error = %v, want ErrNotFound", err)
		}
	})

	t.Run("progress is filtered by goal", func(t *testing.T) {
		store := newStore(t)
		entries := []*models.ProgressEntry{
			{GoalID: "g1", UserID: "u", Date: "2026-10-18", Completed: 50, Target: 100, Percentage: 50, Comment: "first"},
			{GoalID: "g2", UserID: "u", Date: "2026-10-18", Completed: 1, Target: 1, Percentage: 100},
			{GoalID: "g1", UserID: "u", Date: "2026-10-19", Completed: 100, Target: 100, Percentage: 100, Comment: "second"},
		}
		for i, e := range entries {
			e.Timestamp = time.Date(2026, 10, 18, 8, i, 0, 0, time.UTC)
			if err := store.CreateProgress(ctx, e); err != nil {
				t.Fatalf("CreateProgress failed: %v", err)
			}
		}

		got, err := store.ListProgressByGoal(ctx, "g1")
		if err != nil {
			t.Fatalf("ListProgressByGoal failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d entries, want 2", len(got))
		}
		if got[0].Comment != "first" || got[1].Comment != "second" {
			t.Errorf("order = [%q %q], want [first second]", got[0].Comment, got[1].Comment)
		}
		if got[1].Percentage != 100 || got[1].Date != "2026-10-19" {
			t.Errorf("entry = %+v", got[1])
		}

		none, err := store.ListProgressByGoal(ctx, "missing")
		if err != nil {
			t.Fatalf("ListProgressByGoal(missing) failed: %v", err)
		}
		if none == nil || len(none) != 0 {
			t.Errorf("ListProgressByGoal(missing) = %v, want empty non-nil slice", none)
		}
	})

	t.Run("hecovacky are newest first per group", func(t *testing.T) {
		store := newStore(t)
		base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
		msgs := []*models.Hecovacka{
			{SenderName: "A", Message: "old", Type: "vtipné", GroupID: "g", Timestamp: base.Add(-2 * time.Hour)},
			{SenderName: "B", Message: "new", Type: "motivačné", GroupID: "g", ToUserID: "u2", Timestamp: base},
			{SenderName: "C", Message: "other group", Type: "motivačné", GroupID: "h", Timestamp: base},
			{SenderName: "D", Message: "middle", Type: "motivačné", GroupID: "g", Timestamp: base.Add(-time.Hour)},
		}
		for _, m := range msgs {
			if err := store.CreateHecovacka(ctx, m); err != nil {
				t.Fatalf("CreateHecovacka failed: %v", err)
			}
		}

		got, err := store.ListHecovackyByGroup(ctx, "g")
		if err != nil {
			t.Fatalf("ListHecovackyByGroup failed: %v", err)
		}
		want := []string{"new", "middle", "old"}
		if len(got) != len(want) {
			t.Fatalf("got %d messages, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].Message != want[i] {
				t.Errorf("got[%d] = %q, want %q", i, got[i].Message, want[i])
			}
		}
		if got[0].ToUserID != "u2" {
			t.Errorf("ToUserID = %q, want u2", got[0].ToUserID)
		}

		none, err := store.ListHecovackyByGroup(ctx, "unknown-id")
		if err != nil {
			t.Fatalf("ListHecovackyByGroup(unknown) failed: %v", err)
		}
		if none == nil || len(none) != 0 {
			t.Errorf("ListHecovackyByGroup(unknown) = %v, want empty non-nil slice", none)
		}
	})

	t.Run("hecovacky sent at the same instant list latest insert first", func(t *testing.T) {
		store := newStore(t)
		sentAt := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
		// IDs sort differently from insertion order.
		for _, id := range []string{"m-b", "m-c", "m-a"} {
			msg := &models.Hecovacka{ID: id, SenderName: "A", Message: id, Type: "vtipné", GroupID: "g", Timestamp: sentAt}
			if err := store.CreateHecovacka(ctx, msg); err != nil {
				t.Fatalf("CreateHecovacka(%s) failed: %v", id, err)
			}
		}

		got, err := store.ListHecovackyByGroup(ctx, "g")
		if err != nil {
			t.Fatalf("ListHecovackyByGroup failed: %v", err)
		}
		want := []string{"m-a", "m-c", "m-b"}
		if len(got) != len(want) {
			t.Fatalf("got %d messages, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Errorf("got[%d] = %s, want %s", i, got[i].ID, want[i])
			}
		}
	})

	t.Run("Seed loads the demo dataset once", func(t *testing.T) {
		store := newStore(t)
		now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

		inserted, err := storage.Seed(ctx, store, now)
		if err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		if !inserted {
			t.Fatal("expected first Seed to insert")
		}

		inserted, err = storage.Seed(ctx, store, now)
		if err != nil {
			t.Fatalf("second Seed failed: %v", err)
		}
		if inserted {
			t.Error("expected second Seed to be a no-op")
		}

		group, err := store.GetGroup(ctx, storage.DemoGroupID)
		if err != nil {
			t.Fatalf("GetGroup(demo) failed: %v", err)
		}
		if len(group.Members) != 3 || group.Members[1].Name != "Michal" {
			t.Errorf("demo members = %+v", group.Members)
		}

		progress, err := store.ListProgressByGoal(ctx, storage.DemoGoalID)
		if err != nil {
			t.Fatalf("ListProgressByGoal(demo) failed: %v", err)
		}
		if len(progress) != 2 {
			t.Errorf("demo progress entries = %d, want 2", len(progress))
		}

		msgs, err := store.ListHecovackyByGroup(ctx, storage.DemoGroupID)
		if err != nil {
			t.Fatalf("ListHecovackyByGroup(demo) failed: %v", err)
		}
		if len(msgs) != 3 || msgs[0].SenderName != "Janko" {
			t.Errorf("demo messages = %+v", msgs)
		}
	})
}
