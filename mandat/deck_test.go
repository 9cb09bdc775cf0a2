package mandat

import (
	"math/rand"
	"strings"
	"testing"

	"mandat-lite/card"
)

func TestDrawReshufflesDiscardIntoDrawPile(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := NewDeck([]string{"a", "b", "c", "d"})
	d.DrawPile = []string{"a"}
	d.DiscardPile = []string{"b", "c", "d"}

	got := d.Draw(rng, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(got))
	}
	if d.PileSize() != 1 {
		t.Fatalf("expected 1 card left across piles, got %d", d.PileSize())
	}

	// Both piles empty: the draw comes up short instead of failing.
	d.Draw(rng, 10)
	if got := d.Draw(rng, 2); len(got) != 0 {
		t.Fatalf("expected empty draw from exhausted deck, got %v", got)
	}
}

func TestPeekAndPutOnTop(t *testing.T) {
	d := NewDeck(nil)
	d.DrawPile = []string{"x", "y"}

	d.PutOnTop("a", "b")
	if top := d.PeekTop(3); len(top) != 3 || top[0] != "a" || top[1] != "b" || top[2] != "x" {
		t.Fatalf("unexpected top of pile %v", top)
	}
	// Peek must not consume.
	if len(d.DrawPile) != 4 {
		t.Fatalf("peek consumed cards, pile now %v", d.DrawPile)
	}
}

func TestValidateDeckAcceptsLegalPool(t *testing.T) {
	catalog := card.BaseCatalog()
	report := ValidateDeck(catalog, testPool())
	if !report.OK {
		t.Fatalf("legal pool rejected: %v", report.Violations)
	}
	if report.BudgetCeiling != BudgetCeilingLocal {
		t.Fatalf("all-local pool should get the local ceiling, got %d", report.BudgetCeiling)
	}
}

func TestValidateDeckReportsAllViolations(t *testing.T) {
	catalog := card.BaseCatalog()

	// Wrong size, wrong composition, over the copy limit, unknown id.
	pool := []string{
		"char_borough_mayor", "char_borough_mayor", "char_borough_mayor", "char_borough_mayor",
		"char_chancellor", "char_chancellor",
		"no_such_card",
	}
	report := ValidateDeck(catalog, pool)
	if report.OK {
		t.Fatal("expected violations")
	}

	joined := strings.Join(report.Violations, "; ")
	for _, want := range []string{"exactly 20 cards", "unknown card id", "copy limit"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing violation %q in %q", want, joined)
		}
	}
	// A global character bumps the ceiling to the top tier.
	if report.BudgetCeiling != BudgetCeilingGlobal {
		t.Fatalf("expected global ceiling, got %d", report.BudgetCeiling)
	}
}

func TestValidateDeckEnforcesBudgetCeiling(t *testing.T) {
	catalog := card.BaseCatalog()

	// A maxed-out global roster blows through even the top ceiling.
	pool := []string{
		"char_chancellor", "char_trade_commissioner", "char_media_mogul",
		"char_un_envoy", "char_un_envoy",
		"char_central_banker", "char_central_banker",
		"char_ngo_director", "char_ngo_director",
		"char_defense_minister",
		"spec_war_chest", "spec_war_chest", "spec_rally", "spec_rally", "spec_coalition_summit",
		"trap_scandal_story", "trap_scandal_story", "trap_smear_campaign", "trap_smear_campaign", "trap_leaked_memo",
	}
	report := ValidateDeck(catalog, pool)
	if report.TotalValue <= report.BudgetCeiling {
		t.Fatalf("test pool no longer exceeds the ceiling (%d <= %d)", report.TotalValue, report.BudgetCeiling)
	}
	if report.OK {
		t.Fatal("expected the over-budget pool to be rejected")
	}
	joined := strings.Join(report.Violations, "; ")
	if !strings.Contains(joined, "budget ceiling") {
		t.Fatalf("missing budget violation in %q", joined)
	}
}

func TestNationalCharacterRaisesCeiling(t *testing.T) {
	catalog := card.BaseCatalog()
	pool := append(testPool()[:9], "char_senator") // swap one local for a national
	report := ValidateDeck(catalog, append(pool, testPool()[10:]...))
	if report.BudgetCeiling != BudgetCeilingNational {
		t.Fatalf("expected national ceiling, got %d", report.BudgetCeiling)
	}
}

func TestStarterPoolIsLegal(t *testing.T) {
	catalog := card.BaseCatalog()
	for seed := int64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewSource(seed))
		pool := StarterPool(catalog, rng)
		report := ValidateDeck(catalog, pool)
		if !report.OK {
			t.Fatalf("seed %d starter pool illegal: %v", seed, report.Violations)
		}
	}
}
