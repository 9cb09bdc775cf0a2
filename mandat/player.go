package mandat

// Player is one seat in the session. The record persists for the whole
// session; leaving an active game only clears Connected.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	AI     bool   `json:"ai"`
	AITier string `json:"aiTier,omitempty"`

	Deck *Deck    `json:"deck"`
	Hand []string `json:"hand"`

	// Per-round slots, at most one of each, cleared at SETUP.
	PlayedCharacter string `json:"playedCharacter,omitempty"`
	PlayedSupport   string `json:"playedSupport,omitempty"`
	SupportOpenFace bool   `json:"supportOpenFace,omitempty"`
	SupportDecided  bool   `json:"supportDecided,omitempty"`
	DrewThisRound   bool   `json:"drewThisRound,omitempty"`
	CoalitionPassed bool   `json:"coalitionPassed,omitempty"`

	// Victory resources.
	Mandates          int `json:"mandates"`
	Influence         int `json:"influence"`
	InfluenceModifier int `json:"influenceModifier"`

	// Symmetric cross-reference to the coalition partner, resolved by id
	// lookup; never an ownership pointer.
	PartnerID string `json:"partnerId,omitempty"`

	// Per-round capability flags.
	CanPlaySpecial    bool `json:"canPlaySpecial"`
	SkipRound         bool `json:"skipRound"`
	WonLastRound      bool `json:"wonLastRound"`
	NoMomentumBenefit bool `json:"noMomentumBenefit,omitempty"`

	// Backfire penalties carried into the next round's SETUP.
	PenaltyBlockSpecial  bool `json:"penaltyBlockSpecial,omitempty"`
	PenaltyBlockMomentum bool `json:"penaltyBlockMomentum,omitempty"`

	Connected bool `json:"connected"`
	Ready     bool `json:"ready"`
}

func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Deck = p.Deck.Clone()
	cp.Hand = append([]string(nil), p.Hand...)
	return &cp
}

// EffectiveInfluence is the player's own influence for the round before
// coalition pooling.
func (p *Player) EffectiveInfluence() int {
	return p.Influence + p.InfluenceModifier
}

// HasCard reports whether the card id is currently in hand.
func (p *Player) HasCard(id string) bool {
	for _, c := range p.Hand {
		if c == id {
			return true
		}
	}
	return false
}

// removeFromHand removes one copy of id; reports whether it was held.
func (p *Player) removeFromHand(id string) bool {
	for i, c := range p.Hand {
		if c == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// resetForRound clears the per-round slots and flags at SETUP. Played cards
// go back to the discard pile so the pool stays conserved.
func (p *Player) resetForRound() {
	if p.PlayedCharacter != "" {
		p.Deck.Discard(p.PlayedCharacter)
		p.PlayedCharacter = ""
	}
	if p.PlayedSupport != "" {
		p.Deck.Discard(p.PlayedSupport)
		p.PlayedSupport = ""
	}
	p.SupportOpenFace = false
	p.SupportDecided = false
	p.DrewThisRound = false
	p.CoalitionPassed = false
	p.Influence = 0
	p.InfluenceModifier = 0
	p.PartnerID = ""

	p.CanPlaySpecial = !p.PenaltyBlockSpecial
	p.NoMomentumBenefit = p.PenaltyBlockMomentum
	p.PenaltyBlockSpecial = false
	p.PenaltyBlockMomentum = false

	// Disconnected seats sit the round out rather than stalling the phase
	// auto-advance checks.
	p.SkipRound = !p.Connected
}
