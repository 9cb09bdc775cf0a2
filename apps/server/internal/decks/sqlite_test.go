package decks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mandat-lite/card"
)

func legalPool() []string {
	return []string{
		"char_borough_mayor", "char_borough_mayor", "char_borough_mayor",
		"char_precinct_captain", "char_precinct_captain", "char_precinct_captain",
		"char_council_veteran", "char_council_veteran", "char_council_veteran",
		"char_school_board_chair",
		"spec_town_hall", "spec_town_hall", "spec_town_hall",
		"spec_policy_paper", "spec_policy_paper",
		"bonus_volunteer_surge", "bonus_volunteer_surge", "bonus_volunteer_surge",
		"trap_audit_demand", "trap_audit_demand",
	}
}

func newTestService(t *testing.T) *SQLiteService {
	t.Helper()
	svc, err := NewSQLiteService(":memory:", card.BaseCatalog())
	if err != nil {
		t.Fatalf("NewSQLiteService err: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestSaveAndGetDeck(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveDeck(ctx, "alice", "campaign one", legalPool()); err != nil {
		t.Fatalf("SaveDeck err: %v", err)
	}

	deck, err := svc.GetDeck(ctx, "alice", "campaign one")
	if err != nil {
		t.Fatalf("GetDeck err: %v", err)
	}
	if deck.OwnerID != "alice" || deck.Name != "campaign one" {
		t.Fatalf("unexpected deck header %+v", deck)
	}
	if len(deck.Pool) != len(legalPool()) {
		t.Fatalf("pool lost cards: %d of %d", len(deck.Pool), len(legalPool()))
	}
	if deck.UpdatedAt.IsZero() {
		t.Fatal("expected a non-zero update time")
	}

	// Same name, different owner: not visible.
	if _, err := svc.GetDeck(ctx, "bob", "campaign one"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bob, got %v", err)
	}
}

func TestSaveDeckOverwritesByName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveDeck(ctx, "alice", "main", legalPool()); err != nil {
		t.Fatal(err)
	}

	changed := legalPool()
	changed[9] = "char_harbor_commissioner" // swap the single school board chair
	if err := svc.SaveDeck(ctx, "alice", "main", changed); err != nil {
		t.Fatalf("overwrite err: %v", err)
	}

	deck, err := svc.GetDeck(ctx, "alice", "main")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, id := range deck.Pool {
		if id == "char_harbor_commissioner" {
			found = true
		}
	}
	if !found {
		t.Fatal("overwrite did not persist the new pool")
	}

	decks, err := svc.ListDecks(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(decks) != 1 {
		t.Fatalf("expected 1 deck after overwrite, got %d", len(decks))
	}
}

func TestSaveDeckRejectsIllegalPool(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.SaveDeck(ctx, "alice", "short", legalPool()[:10])
	if err == nil {
		t.Fatal("expected an illegal pool to be rejected")
	}
	if !strings.Contains(err.Error(), "20 cards") {
		t.Fatalf("error does not name the violation: %v", err)
	}
	if _, err := svc.GetDeck(ctx, "alice", "short"); !errors.Is(err, ErrNotFound) {
		t.Fatal("rejected deck must not be stored")
	}
}

func TestSaveDeckValidatesName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"", "   ", strings.Repeat("x", 100)} {
		if err := svc.SaveDeck(ctx, "alice", name, legalPool()); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("name %q: expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestListDecksNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		if err := svc.SaveDeck(ctx, "alice", name, legalPool()); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.SaveDeck(ctx, "bob", "intruder", legalPool()); err != nil {
		t.Fatal(err)
	}

	decks, err := svc.ListDecks(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(decks) != 3 {
		t.Fatalf("expected 3 decks for alice, got %d", len(decks))
	}
	for _, d := range decks {
		if d.OwnerID != "alice" {
			t.Fatalf("listing leaked %s's deck", d.OwnerID)
		}
	}
	for i := 1; i < len(decks); i++ {
		if decks[i-1].UpdatedAt.Before(decks[i].UpdatedAt) {
			t.Fatal("listing not ordered newest first")
		}
	}
}

func TestDeleteDeck(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveDeck(ctx, "alice", "gone", legalPool()); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteDeck(ctx, "alice", "gone"); err != nil {
		t.Fatalf("DeleteDeck err: %v", err)
	}
	if _, err := svc.GetDeck(ctx, "alice", "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatal("deleted deck still readable")
	}
	if err := svc.DeleteDeck(ctx, "alice", "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
