package mandat

import "log"

// Coalition is a declared alliance, normally a pair; momentum >= 5 permits
// a third member. Dissolved coalitions are flagged inactive, never deleted.
type Coalition struct {
	MemberIDs         []string `json:"memberIds"`
	RoundFormed       int      `json:"roundFormed"`
	LastActiveRound   int      `json:"lastActiveRound"`
	ConsecutiveRounds int      `json:"consecutiveRounds"`
	Active            bool     `json:"active"`
}

func (c *Coalition) Clone() *Coalition {
	if c == nil {
		return nil
	}
	cp := *c
	cp.MemberIDs = append([]string(nil), c.MemberIDs...)
	return &cp
}

// HasMember reports membership by id.
func (c *Coalition) HasMember(id string) bool {
	for _, m := range c.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// samePair reports whether the coalition is exactly the unordered pair a,b.
func (c *Coalition) samePair(a, b string) bool {
	if len(c.MemberIDs) != 2 {
		return false
	}
	return (c.MemberIDs[0] == a && c.MemberIDs[1] == b) ||
		(c.MemberIDs[0] == b && c.MemberIDs[1] == a)
}

// Proposal is a pending coalition offer from one player to another.
type Proposal struct {
	FromID string         `json:"fromId"`
	ToID   string         `json:"toId"`
	Round  int            `json:"round"`
	Status ProposalStatus `json:"status"`
}

func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// validCoalition screens a persisted record before the engine trusts it.
// Malformed entries (nil, too few members, unknown ids) are skipped with a
// logged warning: a corrupt optional record must never halt a session.
func validCoalition(s *SessionState, c *Coalition) bool {
	if c == nil || len(c.MemberIDs) < 2 {
		log.Printf("[Engine %s] skipping malformed coalition record %+v", s.ID, c)
		return false
	}
	for _, id := range c.MemberIDs {
		if s.PlayerByID(id) == nil {
			log.Printf("[Engine %s] skipping coalition with unknown member %q", s.ID, id)
			return false
		}
	}
	return true
}

// ActiveCoalitionOf returns the active coalition containing the player, or
// nil. Malformed records are skipped defensively.
func ActiveCoalitionOf(s *SessionState, playerID string) *Coalition {
	for _, c := range s.Coalitions {
		if !validCoalition(s, c) || !c.Active {
			continue
		}
		if c.HasMember(playerID) {
			return c
		}
	}
	return nil
}

// pendingProposal finds the pending offer from -> to for the current round.
func pendingProposal(s *SessionState, from, to string) *Proposal {
	for _, p := range s.Proposals {
		if p == nil || p.Status != ProposalPending {
			continue
		}
		if p.FromID == from && p.ToID == to && p.Round == s.Round {
			return p
		}
	}
	return nil
}
