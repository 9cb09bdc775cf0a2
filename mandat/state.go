package mandat

import "time"

// LogEntry is one line of the append-only session log.
type LogEntry struct {
	Seq      uint64    `json:"seq"`
	Round    int       `json:"round"`
	Phase    Phase     `json:"phase"`
	Kind     string    `json:"kind"` // phase | action | momentum | resolution | backfire | warning | victory
	PlayerID string    `json:"playerId,omitempty"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// PlayRecord remembers the order cards hit the table so RESOLUTION can
// reveal them in play order.
type PlayRecord struct {
	PlayerID string `json:"playerId"`
	CardID   string `json:"cardId"`
	Phase    Phase  `json:"phase"`
	OpenFace bool   `json:"openFace"`
}

// SessionState is the canonical aggregate and single source of truth. The
// engine is its only writer and always produces a new value; callers holding
// an older snapshot never observe partial mutation.
type SessionState struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
	Phase  Phase  `json:"phase"`

	Round         int `json:"round"`
	MaxRounds     int `json:"maxRounds"`
	MomentumLevel int `json:"momentumLevel"`

	MandateThreshold            int  `json:"mandateThreshold"`
	AlternateInfluenceThreshold int  `json:"alternateInfluenceThreshold"`
	CoalitionsBlocked           bool `json:"coalitionsBlocked"`

	// The player currently owing a decision. In the simultaneous phases
	// (coalition/character/special) this is the first player still undecided,
	// kept as a pacing hint for clients and the AI scheduler.
	ActivePlayerID string `json:"activePlayerId,omitempty"`

	// Insertion order is turn order.
	Players []*Player `json:"players"`

	Coalitions []*Coalition `json:"coalitions,omitempty"`
	Proposals  []*Proposal  `json:"proposals,omitempty"`

	Plays []PlayRecord `json:"plays,omitempty"`
	Log   []LogEntry   `json:"log"`

	// VictorID is set when a threshold victory fires during RESOLUTION.
	VictorID  string   `json:"victorId,omitempty"`
	WinnerIDs []string `json:"winnerIds,omitempty"`

	// Seq increments once per applied action.
	Seq uint64 `json:"seq"`
}

// Clone deep-copies the aggregate. Apply always mutates a clone so a failed
// validation leaves the original byte-identical.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp.Players[i] = p.Clone()
	}
	cp.Coalitions = make([]*Coalition, len(s.Coalitions))
	for i, c := range s.Coalitions {
		cp.Coalitions[i] = c.Clone()
	}
	cp.Proposals = make([]*Proposal, len(s.Proposals))
	for i, p := range s.Proposals {
		cp.Proposals[i] = p.Clone()
	}
	cp.Plays = append([]PlayRecord(nil), s.Plays...)
	cp.Log = append([]LogEntry(nil), s.Log...)
	cp.WinnerIDs = append([]string(nil), s.WinnerIDs...)
	return &cp
}

// PlayerByID resolves a player record, or nil.
func (s *SessionState) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerIndex returns the table-order index of a player, or -1.
func (s *SessionState) PlayerIndex(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ConnectedCount counts players still attached to the session.
func (s *SessionState) ConnectedCount() int {
	n := 0
	for _, p := range s.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// activePlayers are the seats participating in the current round.
func (s *SessionState) activePlayers() []*Player {
	out := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if !p.SkipRound {
			out = append(out, p)
		}
	}
	return out
}

// participants are the players who committed a character this round; only
// they can win or lose the round.
func (s *SessionState) participants() []*Player {
	out := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.PlayedCharacter != "" {
			out = append(out, p)
		}
	}
	return out
}

// roundWinners returns the players flagged as winners of the last resolved
// round.
func (s *SessionState) roundWinners() []*Player {
	out := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.WonLastRound {
			out = append(out, p)
		}
	}
	return out
}

// momentumRoller is the seat allowed to roll: fewest mandates, ties broken
// by table order.
func (s *SessionState) momentumRoller() *Player {
	var roller *Player
	for _, p := range s.Players {
		if p.SkipRound {
			continue
		}
		if roller == nil || p.Mandates < roller.Mandates {
			roller = p
		}
	}
	return roller
}
