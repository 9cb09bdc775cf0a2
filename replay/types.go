package replay

// Transcript is the portable record of a session: the configuration that
// seeded the engine plus every accepted action in order. Re-running a
// transcript through a fresh engine reproduces the final state.
type Transcript struct {
	Version   int        `json:"version"`
	SessionID string     `json:"session_id"`
	Config    ConfigSpec `json:"config"`
	Steps     []StepSpec `json:"steps"`
}

// ConfigSpec mirrors the engine configuration fields that affect outcomes.
// A zero field falls back to the engine default. Seed must be non-zero for
// a transcript to be reproducible.
type ConfigSpec struct {
	MaxPlayers                  int   `json:"max_players,omitempty"`
	MinPlayers                  int   `json:"min_players,omitempty"`
	MaxRounds                   int   `json:"max_rounds,omitempty"`
	MandateThreshold            int   `json:"mandate_threshold,omitempty"`
	AlternateInfluenceThreshold int   `json:"alternate_influence_threshold,omitempty"`
	InitialHandSize             int   `json:"initial_hand_size,omitempty"`
	CoalitionsBlocked           bool  `json:"coalitions_blocked,omitempty"`
	Seed                        int64 `json:"seed"`
}

// StepSpec is one recorded action, with the type spelled out as its wire
// name so transcripts stay readable and diffable.
type StepSpec struct {
	Type     string   `json:"type"`
	PlayerID string   `json:"player_id"`
	TargetID string   `json:"target_id,omitempty"`
	CardID   string   `json:"card_id,omitempty"`
	OpenFace bool     `json:"open_face,omitempty"`
	Name     string   `json:"name,omitempty"`
	AI       bool     `json:"ai,omitempty"`
	AITier   string   `json:"ai_tier,omitempty"`
	DeckPool []string `json:"deck_pool,omitempty"`
	Ready    bool     `json:"ready,omitempty"`
}

const TranscriptVersion = 1
