package card

// EffectKind selects the structured effect variant. Effects used to be free
// text matched by substring; the tagged form is resolved by switch dispatch
// in the rules engine, so a wording change can no longer turn a card into a
// silent no-op.
type EffectKind string

const (
	// EffectNone marks a card with no rule effect beyond its base influence.
	EffectNone EffectKind = "none"
	// EffectMomentumBonus grants Amount influence while the round momentum
	// level is within [MinMomentum, MaxMomentum].
	EffectMomentumBonus EffectKind = "momentum_bonus"
	// EffectCoalitionBonus grants Amount influence while the owner is in an
	// active coalition.
	EffectCoalitionBonus EffectKind = "coalition_bonus"
	// EffectInfluenceDelta adds Amount (may be negative) to the owner's
	// influence for the round.
	EffectInfluenceDelta EffectKind = "influence_delta"
	// EffectSabotage subtracts Amount influence from every opponent for the
	// round. Trap cards use this.
	EffectSabotage EffectKind = "sabotage"
)

// Effect is a flat tagged descriptor. Fields not used by the Kind are zero
// and omitted from JSON, so persisted records round-trip losslessly.
type Effect struct {
	Kind        EffectKind `json:"kind"`
	Amount      int        `json:"amount,omitempty"`
	MinMomentum int        `json:"minMomentum,omitempty"`
	MaxMomentum int        `json:"maxMomentum,omitempty"`
}

// Valid reports whether the descriptor is well formed. Unknown kinds are
// invalid; the engine treats such cards as no-ops after logging a warning.
func (e Effect) Valid() bool {
	switch e.Kind {
	case EffectNone:
		return true
	case EffectMomentumBonus:
		return e.Amount != 0 && e.MinMomentum >= 1 && e.MaxMomentum <= 6 && e.MinMomentum <= e.MaxMomentum
	case EffectCoalitionBonus, EffectInfluenceDelta, EffectSabotage:
		return e.Amount != 0
	}
	return false
}

// NoEffect is the zero effect shared by plain cards.
var NoEffect = Effect{Kind: EffectNone}
