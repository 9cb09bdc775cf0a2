package ai

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"mandat-lite/card"
	"mandat-lite/mandat"
)

// Tier selects the scripted difficulty of a policy.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

func ParseTier(raw string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierEasy:
		return TierEasy, nil
	case TierMedium:
		return TierMedium, nil
	case TierHard, "":
		if raw == "" {
			return TierMedium, nil
		}
		return TierHard, nil
	}
	return "", fmt.Errorf("unknown AI tier %q", raw)
}

// ThinkDelay is the cosmetic pacing delay before an AI action is submitted:
// harder tiers answer faster. The delay is applied by the scheduler, never
// inside the engine, so it cannot block other players.
func (t Tier) ThinkDelay() time.Duration {
	switch t {
	case TierEasy:
		return 1500 * time.Millisecond
	case TierHard:
		return 400 * time.Millisecond
	default:
		return 900 * time.Millisecond
	}
}

// Decider is the core interface all policy tiers implement.
type Decider interface {
	// Decide returns the next action the player would take, or ok=false
	// when the player owes no decision in the current state. The returned
	// action flows through the same engine validation as a human action.
	Decide(s *mandat.SessionState, playerID string) (mandat.Action, bool)
	// Name returns a human-readable identifier for debugging.
	Name() string
}

// RulePolicy is the scripted decision policy. It never mutates the session
// state; randomness comes from its own seeded source.
type RulePolicy struct {
	tier    Tier
	catalog *card.Catalog
	rng     *rand.Rand
}

func NewRulePolicy(tier Tier, catalog *card.Catalog, seed int64) *RulePolicy {
	return &RulePolicy{
		tier:    tier,
		catalog: catalog,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (p *RulePolicy) Name() string { return "rule-" + string(p.tier) }

func (p *RulePolicy) Decide(s *mandat.SessionState, playerID string) (mandat.Action, bool) {
	me := s.PlayerByID(playerID)
	if me == nil || s.Status != mandat.StatusActive || me.SkipRound {
		return mandat.Action{}, false
	}

	switch s.Phase {
	case mandat.PhaseTypeMomentum:
		return p.decideMomentum(s, me)
	case mandat.PhaseTypeCoalition:
		return p.decideCoalition(s, me)
	case mandat.PhaseTypeCharacter:
		return p.decideCharacter(s, me)
	case mandat.PhaseTypeSpecial:
		return p.decideSpecial(s, me)
	}
	return mandat.Action{}, false
}

func (p *RulePolicy) decideMomentum(s *mandat.SessionState, me *mandat.Player) (mandat.Action, bool) {
	for _, id := range s.PendingDeciders() {
		if id == me.ID {
			return mandat.Action{Type: mandat.ActionTypeRollMomentum, PlayerID: me.ID}, true
		}
	}
	return mandat.Action{}, false
}

func (p *RulePolicy) decideCoalition(s *mandat.SessionState, me *mandat.Player) (mandat.Action, bool) {
	if me.CoalitionPassed || mandat.ActiveCoalitionOf(s, me.ID) != nil {
		return mandat.Action{}, false
	}

	// Answer an incoming offer first. Every tier accepts: pooled influence
	// is rarely worse than standing alone.
	for _, pr := range s.Proposals {
		if pr.Status == mandat.ProposalPending && pr.Round == s.Round && pr.ToID == me.ID {
			return mandat.Action{Type: mandat.ActionTypeAcceptCoalition, PlayerID: me.ID, TargetID: pr.FromID}, true
		}
	}

	// Only the hard tier initiates, and only once per round: it courts the
	// current mandate leader.
	if p.tier == TierHard && !p.proposedThisRound(s, me.ID) {
		if target := p.bestCoalitionTarget(s, me); target != "" {
			return mandat.Action{Type: mandat.ActionTypeProposeCoalition, PlayerID: me.ID, TargetID: target}, true
		}
	}

	return mandat.Action{Type: mandat.ActionTypeEndTurn, PlayerID: me.ID}, true
}

func (p *RulePolicy) proposedThisRound(s *mandat.SessionState, playerID string) bool {
	for _, pr := range s.Proposals {
		if pr.Round == s.Round && pr.FromID == playerID {
			return true
		}
	}
	return false
}

func (p *RulePolicy) bestCoalitionTarget(s *mandat.SessionState, me *mandat.Player) string {
	var best *mandat.Player
	for _, other := range s.Players {
		if other.ID == me.ID || other.SkipRound {
			continue
		}
		if mandat.ActiveCoalitionOf(s, other.ID) != nil {
			continue
		}
		if best == nil || other.Mandates > best.Mandates {
			best = other
		}
	}
	if best == nil {
		return ""
	}
	return best.ID
}

func (p *RulePolicy) decideCharacter(s *mandat.SessionState, me *mandat.Player) (mandat.Action, bool) {
	if me.PlayedCharacter != "" {
		return mandat.Action{}, false
	}

	characters := p.handOfType(me, func(c *card.Card) bool { return c.Type == card.TypeCharacter })
	canDraw := !me.DrewThisRound && me.Deck.PileSize() > 0

	if len(characters) == 0 {
		if canDraw {
			return mandat.Action{Type: mandat.ActionTypeDrawCard, PlayerID: me.ID}, true
		}
		// The engine sits this seat out on the next transition.
		return mandat.Action{}, false
	}

	play := func(id string) (mandat.Action, bool) {
		return mandat.Action{Type: mandat.ActionTypePlayCharacter, PlayerID: me.ID, CardID: id}, true
	}

	switch p.tier {
	case TierEasy:
		if p.rng.Float64() < 0.7 || !canDraw {
			return play(characters[p.rng.Intn(len(characters))])
		}
		return mandat.Action{Type: mandat.ActionTypeDrawCard, PlayerID: me.ID}, true

	case TierHard:
		best := p.bestByValue(characters)
		if p.pressing(s, me) || p.cardValue(best) >= 2 {
			return play(best)
		}
		if canDraw {
			return mandat.Action{Type: mandat.ActionTypeDrawCard, PlayerID: me.ID}, true
		}
		return play(best)

	default: // medium
		best := p.bestByValue(characters)
		if p.cardValue(best) >= 3 {
			return play(best)
		}
		if canDraw {
			return mandat.Action{Type: mandat.ActionTypeDrawCard, PlayerID: me.ID}, true
		}
		// A character is mandatory; the weak card beats sitting out.
		return play(best)
	}
}

func (p *RulePolicy) decideSpecial(s *mandat.SessionState, me *mandat.Player) (mandat.Action, bool) {
	if me.SupportDecided {
		return mandat.Action{}, false
	}
	skip := mandat.Action{Type: mandat.ActionTypeSkipSpecial, PlayerID: me.ID}
	if !me.CanPlaySpecial {
		return skip, true
	}

	supports := p.handOfType(me, func(c *card.Card) bool { return c.Type.IsSupport() })
	if len(supports) == 0 {
		return skip, true
	}

	play := func(id string) (mandat.Action, bool) {
		return mandat.Action{
			Type:     mandat.ActionTypePlaySpecial,
			PlayerID: me.ID,
			CardID:   id,
			OpenFace: p.pickOpenFace(id),
		}, true
	}

	switch p.tier {
	case TierEasy:
		if p.rng.Float64() < 0.7 {
			return play(supports[p.rng.Intn(len(supports))])
		}
		return skip, true

	case TierHard:
		best := p.bestByValue(supports)
		if p.pressing(s, me) || p.cardValue(best) >= 2 {
			return play(best)
		}
		return skip, true

	default: // medium
		best := p.bestByValue(supports)
		if p.cardValue(best) >= 3 {
			return play(best)
		}
		return skip, true
	}
}

// pressing reports the hard tier's end-game mode: current influence within
// 80% of the mandate threshold.
func (p *RulePolicy) pressing(s *mandat.SessionState, me *mandat.Player) bool {
	return float64(p.currentInfluence(me)) >= 0.8*float64(s.MandateThreshold)
}

// currentInfluence estimates the influence already committed this round.
func (p *RulePolicy) currentInfluence(me *mandat.Player) int {
	total := 0
	if me.PlayedCharacter != "" {
		total += p.cardValue(me.PlayedCharacter)
	}
	if me.PlayedSupport != "" {
		total += p.cardValue(me.PlayedSupport)
	}
	return total
}

// cardValue scores a card for ranking: base influence, or the effect
// amount for support cards.
func (p *RulePolicy) cardValue(id string) int {
	c := p.catalog.Get(id)
	if c == nil {
		return 0
	}
	v := c.Influence
	if c.Effect.Amount > v {
		v = c.Effect.Amount
	}
	return v
}

func (p *RulePolicy) bestByValue(ids []string) string {
	best := ids[0]
	for _, id := range ids[1:] {
		if p.cardValue(id) > p.cardValue(best) {
			best = id
		}
	}
	return best
}

// pickOpenFace keeps traps hidden; everything else is shown when the tier
// is confident.
func (p *RulePolicy) pickOpenFace(id string) bool {
	c := p.catalog.Get(id)
	if c == nil || c.Type == card.TypeTrap {
		return false
	}
	if p.tier == TierEasy {
		return p.rng.Intn(2) == 0
	}
	return true
}

func (p *RulePolicy) handOfType(me *mandat.Player, match func(*card.Card) bool) []string {
	out := make([]string, 0, len(me.Hand))
	for _, id := range me.Hand {
		if c := p.catalog.Get(id); c != nil && match(c) {
			out = append(out, id)
		}
	}
	return out
}
