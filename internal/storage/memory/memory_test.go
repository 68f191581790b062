package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/storage"
	"github.com/mmynk/hecovacka/internal/storage/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		return New()
	})
}

func TestCreateUserEmailIsCaseInsensitive(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.CreateUser(ctx, models.NewUser("Eva@Example.com", "Eva", "h")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := store.CreateUser(ctx, models.NewUser("eva@example.com", "Eva 2", "h")); err == nil {
		t.Error("expected duplicate error for differently-cased email")
	}
	if _, err := store.GetUserByEmail(ctx, "EVA@EXAMPLE.COM"); err != nil {
		t.Errorf("GetUserByEmail with other casing failed: %v", err)
	}
}

func TestConcurrentRegistrationAdmitsOne(t *testing.T) {
	store := New()
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.CreateUser(ctx, models.NewUser("race@example.com", "R", "h"))
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	if ok != 1 {
		t.Errorf("%d registrations succeeded, want 1", ok)
	}
	if n := store.users.len(); n != 1 {
		t.Errorf("stored users = %d, want 1", n)
	}
}

func TestCollectionFindBy(t *testing.T) {
	c := newCollection("goal", func(g *models.Goal) string { return g.ID })
	for _, g := range []*models.Goal{
		{ID: "1", Activity: "kliky", IsActive: true},
		{ID: "2", Activity: "beh", IsActive: false},
		{ID: "3", Activity: "drepy", IsActive: true},
	} {
		if err := c.insert(g); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	active := c.findBy(func(g *models.Goal) bool { return g.IsActive })
	if len(active) != 2 || active[0].ID != "1" || active[1].ID != "3" {
		t.Errorf("findBy(active) = %+v", active)
	}

	if err := c.insert(&models.Goal{ID: "2"}); err == nil {
		t.Error("expected duplicate ID to be rejected")
	}

	found, err := c.findByID("2")
	if err != nil {
		t.Fatalf("findByID failed: %v", err)
	}
	found.Activity = "mutated"
	again, _ := c.findByID("2")
	if again.Activity != "beh" {
		t.Errorf("stored record mutated through returned copy: %q", again.Activity)
	}
}
