package mandat

// runBackfire punishes front-runners who lost despite a big mandate lead and
// coalitions that lost unanimously. All rolls consume engine randomness in
// table order so a fixed seed replays identically.
func (e *Engine) runBackfire(s *SessionState) {
	winners := s.roundWinners()
	if len(winners) == 0 {
		return
	}

	maxWinnerMandates := winners[0].Mandates
	for _, w := range winners[1:] {
		if w.Mandates > maxWinnerMandates {
			maxWinnerMandates = w.Mandates
		}
	}

	// Pressure roll for every leading loser: 3+ mandates over every winner.
	for _, p := range s.participants() {
		if p.WonLastRound {
			continue
		}
		if p.Mandates < maxWinnerMandates+backfireLeadThreshold {
			continue
		}
		roll := e.rollDie()
		switch roll {
		case 1:
			if p.Mandates > 0 {
				p.Mandates--
			}
			e.log(s, "backfire", p.ID, "%s buckles under pressure (roll 1, -1 mandate)", p.Name)
		case MomentumMax:
			victim := winners[e.rng.Intn(len(winners))]
			if victim.Mandates > 0 {
				victim.Mandates--
			}
			e.log(s, "backfire", victim.ID, "%s's pressure roll hits %s (-1 mandate)", p.Name, victim.Name)
		default:
			e.log(s, "backfire", p.ID, "%s withstands the pressure (roll %d)", p.Name, roll)
		}
	}

	// Coalitions whose members all lost take per-member penalties.
	for _, c := range s.Coalitions {
		if !validCoalition(s, c) || !c.Active {
			continue
		}
		if !coalitionLostUnanimously(s, c) {
			continue
		}
		e.log(s, "backfire", "", "coalition %v lost unanimously and backfires", c.MemberIDs)
		for _, id := range c.MemberIDs {
			member := s.PlayerByID(id)
			if member == nil {
				continue
			}
			e.applyCoalitionPenalty(s, member)
		}
	}
}

// coalitionLostUnanimously requires every member to have participated and
// none to have won.
func coalitionLostUnanimously(s *SessionState, c *Coalition) bool {
	for _, id := range c.MemberIDs {
		member := s.PlayerByID(id)
		if member == nil || member.PlayedCharacter == "" || member.WonLastRound {
			return false
		}
	}
	return true
}

// applyCoalitionPenalty picks one of three penalties at random, per member.
func (e *Engine) applyCoalitionPenalty(s *SessionState, p *Player) {
	switch e.rng.Intn(3) {
	case 0:
		if len(p.Hand) == 0 {
			e.log(s, "backfire", p.ID, "%s has no cards left to discard", p.Name)
			return
		}
		idx := e.rng.Intn(len(p.Hand))
		id := p.Hand[idx]
		p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
		p.Deck.Discard(id)
		e.log(s, "backfire", p.ID, "%s discards a card from hand", p.Name)
	case 1:
		p.PenaltyBlockMomentum = true
		e.log(s, "backfire", p.ID, "%s forfeits momentum benefits next round", p.Name)
	default:
		p.PenaltyBlockSpecial = true
		e.log(s, "backfire", p.ID, "%s forfeits special-card play next round", p.Name)
	}
}
