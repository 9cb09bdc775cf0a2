package mandat

import (
	"fmt"
	"math/rand"
	"sort"

	"mandat-lite/card"
)

// Deck composition constants. A legal deck always carries exactly DeckSize
// cards split 10 character / 5 special / 5 trap-or-bonus.
const (
	DeckSize           = 20
	DeckCharacterCount = 10
	DeckSpecialCount   = 5
	DeckSupportCount   = 5
)

// Budget ceilings by political reach tier. The ceiling is the LOWEST tier
// whose membership condition the deck's characters satisfy: an all-local
// roster plays under the tight budget, broader reach buys headroom.
const (
	BudgetCeilingLocal    int64 = 180000
	BudgetCeilingNational int64 = 250000
	BudgetCeilingGlobal   int64 = 320000
)

// Deck holds one player's card pool plus the draw/discard piles. Card
// identity is conserved across draw/discard/reshuffle; only pile order is
// destroyed by a reshuffle.
type Deck struct {
	DrawPile    []string `json:"drawPile"`
	DiscardPile []string `json:"discardPile"`
	Pool        []string `json:"pool"`
}

// NewDeck creates a deck over the given pool. The draw pile starts empty;
// the engine fills it with a shuffle when the session starts.
func NewDeck(pool []string) *Deck {
	return &Deck{
		Pool: append([]string(nil), pool...),
	}
}

func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	return &Deck{
		DrawPile:    append([]string(nil), d.DrawPile...),
		DiscardPile: append([]string(nil), d.DiscardPile...),
		Pool:        append([]string(nil), d.Pool...),
	}
}

// Draw removes up to n ids from the front of the draw pile. When the draw
// pile runs dry mid-draw and the discard pile is non-empty, the discard is
// reshuffled into the draw pile before continuing. If both piles are
// exhausted fewer cards than requested are returned; callers must check
// the returned count.
func (d *Deck) Draw(rng *rand.Rand, n int) []string {
	out := make([]string, 0, n)
	for len(out) < n {
		if len(d.DrawPile) == 0 {
			if len(d.DiscardPile) == 0 {
				break
			}
			d.Reshuffle(rng)
		}
		out = append(out, d.DrawPile[0])
		d.DrawPile = d.DrawPile[1:]
	}
	return out
}

// Discard appends ids to the discard pile.
func (d *Deck) Discard(ids ...string) {
	d.DiscardPile = append(d.DiscardPile, ids...)
}

// PeekTop returns up to n ids from the top of the draw pile without
// removing them.
func (d *Deck) PeekTop(n int) []string {
	if n > len(d.DrawPile) {
		n = len(d.DrawPile)
	}
	return append([]string(nil), d.DrawPile[:n]...)
}

// PutOnTop places ids on top of the draw pile, first id drawn first.
func (d *Deck) PutOnTop(ids ...string) {
	d.DrawPile = append(append([]string(nil), ids...), d.DrawPile...)
}

// Reshuffle folds the discard pile into the draw pile with a uniform
// permutation. Destroys pile order; conserves card identity.
func (d *Deck) Reshuffle(rng *rand.Rand) {
	d.DrawPile = append(d.DrawPile, d.DiscardPile...)
	d.DiscardPile = d.DiscardPile[:0]
	rng.Shuffle(len(d.DrawPile), func(i, j int) {
		d.DrawPile[i], d.DrawPile[j] = d.DrawPile[j], d.DrawPile[i]
	})
}

// PileSize is |drawPile| + |discardPile|, used by the conservation checks.
func (d *Deck) PileSize() int {
	return len(d.DrawPile) + len(d.DiscardPile)
}

// DeckReport is the structured result of deck validation. Violations are
// checked independently so one pass reports all of them; Validate never
// fails outright.
type DeckReport struct {
	OK            bool     `json:"ok"`
	Violations    []string `json:"violations,omitempty"`
	TotalValue    int64    `json:"totalValue"`
	BudgetCeiling int64    `json:"budgetCeiling"`
}

// ValidateDeck checks composition counts, copy limits and the budget ceiling
// of a card pool against the catalog.
func ValidateDeck(catalog *card.Catalog, pool []string) DeckReport {
	report := DeckReport{}

	var characters, specials, supports, unknown int
	copies := make(map[string]int, len(pool))
	categories := make(map[card.Category]int)

	for _, id := range pool {
		c := catalog.Get(id)
		if c == nil {
			unknown++
			report.Violations = append(report.Violations, fmt.Sprintf("unknown card id %q", id))
			continue
		}
		copies[id]++
		report.TotalValue += c.CampaignValue
		switch c.Type {
		case card.TypeCharacter:
			characters++
			categories[c.Category]++
		case card.TypeSpecial:
			specials++
		case card.TypeTrap, card.TypeBonus:
			supports++
		}
	}

	if len(pool) != DeckSize {
		report.Violations = append(report.Violations, fmt.Sprintf("deck must hold exactly %d cards, has %d", DeckSize, len(pool)))
	}
	if characters != DeckCharacterCount {
		report.Violations = append(report.Violations, fmt.Sprintf("deck must hold exactly %d character cards, has %d", DeckCharacterCount, characters))
	}
	if specials != DeckSpecialCount {
		report.Violations = append(report.Violations, fmt.Sprintf("deck must hold exactly %d special cards, has %d", DeckSpecialCount, specials))
	}
	if supports != DeckSupportCount {
		report.Violations = append(report.Violations, fmt.Sprintf("deck must hold exactly %d trap/bonus cards, has %d", DeckSupportCount, supports))
	}

	ids := make([]string, 0, len(copies))
	for id := range copies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		limit := catalog.Get(id).Rarity.MaxCopies()
		if copies[id] > limit {
			report.Violations = append(report.Violations, fmt.Sprintf("card %q exceeds copy limit: %d > %d", id, copies[id], limit))
		}
	}

	report.BudgetCeiling = budgetCeiling(categories)
	if report.TotalValue > report.BudgetCeiling {
		report.Violations = append(report.Violations, fmt.Sprintf("total campaign value %d exceeds budget ceiling %d", report.TotalValue, report.BudgetCeiling))
	}

	report.OK = len(report.Violations) == 0
	return report
}

// budgetCeiling picks the lowest tier whose membership condition holds.
func budgetCeiling(categories map[card.Category]int) int64 {
	if categories[card.CategoryGlobal] > 0 {
		return BudgetCeilingGlobal
	}
	if categories[card.CategoryNational] > 0 {
		return BudgetCeilingNational
	}
	return BudgetCeilingLocal
}

// StarterPool builds a legal pool from the catalog: cheapest cards first,
// shuffled within the copy limits so two starter decks are not identical.
func StarterPool(catalog *card.Catalog, rng *rand.Rand) []string {
	pool := make([]string, 0, DeckSize)
	pool = append(pool, pickCheapest(catalog, rng, DeckCharacterCount, func(c *card.Card) bool {
		return c.Type == card.TypeCharacter
	})...)
	pool = append(pool, pickCheapest(catalog, rng, DeckSpecialCount, func(c *card.Card) bool {
		return c.Type == card.TypeSpecial
	})...)
	pool = append(pool, pickCheapest(catalog, rng, DeckSupportCount, func(c *card.Card) bool {
		return c.Type == card.TypeTrap || c.Type == card.TypeBonus
	})...)
	return pool
}

func pickCheapest(catalog *card.Catalog, rng *rand.Rand, n int, match func(*card.Card) bool) []string {
	ids := make([]string, 0, 16)
	for _, id := range catalog.IDs() {
		if match(catalog.Get(id)) {
			ids = append(ids, id)
		}
	}
	// Shuffle first so ties in campaign value resolve differently per deck.
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	sort.SliceStable(ids, func(i, j int) bool {
		return catalog.Get(ids[i]).CampaignValue < catalog.Get(ids[j]).CampaignValue
	})

	out := make([]string, 0, n)
	copies := make(map[string]int, len(ids))
	for len(out) < n {
		added := false
		for _, id := range ids {
			if len(out) >= n {
				break
			}
			if copies[id] >= catalog.Get(id).Rarity.MaxCopies() {
				continue
			}
			copies[id]++
			out = append(out, id)
			added = true
		}
		if !added {
			break
		}
	}
	return out
}
