package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

func newInteraction() *models.InteractionRecord {
	return &models.InteractionRecord{
		PageKey:   models.PageHome,
		AgentID:   "agent_home_welcome",
		AgentName: "Flo",
		UserInput: "hello",
		UserEmail: models.AnonymousEmail,
		UserName:  models.AnonymousName,
		Status:    models.InteractionInitiated,
	}
}

func TestMemoryStoreCommitsTx(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	var id string
	err := m.WithTx(ctx, func(tx Tx) error {
		rec := newInteraction()
		if err := tx.CreateInteraction(ctx, rec); err != nil {
			return err
		}
		id = rec.ID
		if err := tx.CreateLead(ctx, &models.LeadRecord{Name: "Ana", Email: "a@b.c", Status: models.LeadStatusNew}); err != nil {
			return err
		}
		return tx.CompleteInteraction(ctx, rec.ID, models.ResponsePayload{Type: "welcome", Message: "hi"})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	got, err := m.GetInteraction(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.InteractionCompleted || got.Response == nil || got.Response.Message != "hi" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(m.Leads()) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(m.Leads()))
	}
}

func TestMemoryStoreRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	boom := errors.New("boom")

	err := m.WithTx(ctx, func(tx Tx) error {
		if err := tx.CreateInteraction(ctx, newInteraction()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	all, _ := m.ListInteractionsSince(ctx, time.Time{})
	if len(all) != 0 {
		t.Fatalf("expected no committed interactions, got %d", len(all))
	}
}

func TestMemoryStoreCompleteIsOneWay(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	var id string
	_ = m.WithTx(ctx, func(tx Tx) error {
		rec := newInteraction()
		_ = tx.CreateInteraction(ctx, rec)
		id = rec.ID
		return tx.CompleteInteraction(ctx, id, models.ResponsePayload{Type: "welcome"})
	})

	err := m.WithTx(ctx, func(tx Tx) error {
		return tx.CompleteInteraction(ctx, id, models.ResponsePayload{Type: "again"})
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	err = m.WithTx(ctx, func(tx Tx) error {
		return tx.CompleteInteraction(ctx, "missing", models.ResponsePayload{})
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreListSince(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	m.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		clock = base.Add(time.Duration(i) * 24 * time.Hour)
		_ = m.WithTx(ctx, func(tx Tx) error { return tx.CreateInteraction(ctx, newInteraction()) })
	}

	recent, err := m.ListInteractionsSince(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 interactions, got %d", len(recent))
	}
	if !recent[0].CreatedAt.Before(recent[1].CreatedAt) {
		t.Fatalf("expected ascending order")
	}
}

func TestStoreIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := New(ctx, url)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	start := time.Now().Add(-time.Minute)
	var id string
	err = store.WithTx(ctx, func(tx Tx) error {
		rec := newInteraction()
		if err := tx.CreateInteraction(ctx, rec); err != nil {
			return err
		}
		id = rec.ID
		return tx.CompleteInteraction(ctx, id, models.ResponsePayload{Type: "welcome", Message: "hi"})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	got, err := store.GetInteraction(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.InteractionCompleted || got.Response == nil {
		t.Fatalf("unexpected record: %+v", got)
	}

	recent, err := store.ListInteractionsSince(ctx, start)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) == 0 {
		t.Fatalf("expected at least one interaction")
	}
}
