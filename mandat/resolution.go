package mandat

import (
	"mandat-lite/card"
)

// runResolution reveals the round's cards, computes influence, awards and
// deducts mandates per the momentum table, and checks the victory
// thresholds. Runs automatically once the SPECIAL phase closes.
func (e *Engine) runResolution(s *SessionState) {
	e.log(s, "phase", "", "round %d resolution", s.Round)

	// Reveal face-down cards in play order.
	for _, rec := range s.Plays {
		if rec.OpenFace {
			continue
		}
		p := s.PlayerByID(rec.PlayerID)
		c := e.catalog.Get(rec.CardID)
		if p == nil || c == nil {
			e.log(s, "warning", rec.PlayerID, "skipping reveal of malformed play record %+v", rec)
			continue
		}
		e.log(s, "resolution", rec.PlayerID, "%s reveals %s", p.Name, c.Name)
	}

	participants := s.participants()
	if len(participants) == 0 {
		e.log(s, "warning", "", "round %d had no participants", s.Round)
		return
	}

	// Base influence plus card effects. Sabotage lands on opponents'
	// modifiers; everything else on the owner.
	for _, p := range participants {
		p.Influence = 0
		p.InfluenceModifier = 0
	}
	for _, p := range participants {
		c := e.catalog.Get(p.PlayedCharacter)
		if c == nil {
			e.log(s, "warning", p.ID, "played character %q missing from catalog", p.PlayedCharacter)
			continue
		}
		p.Influence += c.Influence
		e.applyEffect(s, p, c)
		if p.PlayedSupport != "" {
			if sc := e.catalog.Get(p.PlayedSupport); sc != nil {
				e.applyEffect(s, p, sc)
			} else {
				e.log(s, "warning", p.ID, "played card %q missing from catalog", p.PlayedSupport)
			}
		}
	}

	// Coalition pooling: each member competes with the pooled total, added
	// once per coalition.
	score := make(map[string]int, len(participants))
	for _, p := range participants {
		score[p.ID] = p.EffectiveInfluence()
	}
	for _, c := range s.Coalitions {
		if !validCoalition(s, c) || !c.Active {
			continue
		}
		total := 0
		for _, id := range c.MemberIDs {
			if _, ok := score[id]; ok {
				total += s.PlayerByID(id).EffectiveInfluence()
			}
		}
		for _, id := range c.MemberIDs {
			if _, ok := score[id]; ok {
				score[id] = total
			}
		}
	}

	// Rank descending; winners are everyone holding the top value.
	top := score[participants[0].ID]
	for _, p := range participants[1:] {
		if score[p.ID] > top {
			top = score[p.ID]
		}
	}
	winners := make([]*Player, 0, 2)
	for _, p := range participants {
		if score[p.ID] == top {
			winners = append(winners, p)
			p.WonLastRound = true
		}
	}

	// Level 5 uses one fresh roll for both the award and the penalty.
	levelRoll := 0
	if s.MomentumLevel == 5 {
		levelRoll = e.rollDie()
		e.log(s, "resolution", "", "momentum level 5 roll: %d", levelRoll)
	}

	for _, w := range winners {
		award := e.mandateAward(s, w, levelRoll)
		w.Mandates += award
		e.log(s, "resolution", w.ID, "%s wins the round with influence %d (+%d mandates)", w.Name, score[w.ID], award)
	}

	for _, p := range participants {
		if p.WonLastRound {
			continue
		}
		if s.MomentumLevel == 6 {
			// Landslide: losing participants forfeit everything.
			if p.Mandates != 0 {
				e.log(s, "resolution", p.ID, "%s loses all %d mandates in the landslide", p.Name, p.Mandates)
			}
			p.Mandates = 0
			continue
		}
		penalty := momentumPenaltyTable[s.MomentumLevel]
		if s.MomentumLevel == 5 {
			penalty = levelRoll
		}
		if penalty == 0 {
			continue
		}
		p.Mandates -= penalty
		if p.Mandates < 0 {
			p.Mandates = 0
		}
		e.log(s, "resolution", p.ID, "%s loses the round (-%d mandates, now %d)", p.Name, penalty, p.Mandates)
	}

	e.checkVictory(s, score)
}

// mandateAward computes one winner's mandate gain. A player serving a
// momentum-forfeit penalty is paid out at level 1 regardless of the round's
// actual momentum.
func (e *Engine) mandateAward(s *SessionState, w *Player, levelRoll int) int {
	level := s.MomentumLevel
	if w.NoMomentumBenefit && level > 1 {
		level = 1
		e.log(s, "backfire", w.ID, "%s forfeits momentum benefits this round", w.Name)
	}

	base := momentumAwardTable[level]
	if level == 5 {
		base = levelRoll
	}

	if ActiveCoalitionOf(s, w.ID) != nil {
		award := base - 1
		if award < 1 {
			award = 1
		}
		return award
	}
	return base + soloWinnerBonus
}

// checkVictory ends the game when a player reaches the mandate threshold or
// the alternate influence threshold. Ties resolve by highest influence this
// round, then by table order, so the outcome is deterministic.
func (e *Engine) checkVictory(s *SessionState, score map[string]int) {
	var victor *Player
	for _, p := range s.Players {
		reached := p.Mandates >= s.MandateThreshold || score[p.ID] >= s.AlternateInfluenceThreshold
		if !reached {
			continue
		}
		if victor == nil || score[p.ID] > score[victor.ID] {
			victor = p
		}
	}
	if victor == nil {
		return
	}
	s.VictorID = victor.ID
	e.log(s, "victory", victor.ID, "%s reaches a victory threshold (mandates %d, influence %d)",
		victor.Name, victor.Mandates, score[victor.ID])
}

// applyEffect dispatches one structured card effect for the round.
func (e *Engine) applyEffect(s *SessionState, owner *Player, c *card.Card) {
	eff := c.Effect
	switch eff.Kind {
	case card.EffectNone, "":
		return
	case card.EffectMomentumBonus:
		if owner.NoMomentumBenefit {
			return
		}
		if s.MomentumLevel >= eff.MinMomentum && s.MomentumLevel <= eff.MaxMomentum {
			owner.Influence += eff.Amount
			e.log(s, "resolution", owner.ID, "%s gains %d influence from %s (momentum %d)", owner.Name, eff.Amount, c.Name, s.MomentumLevel)
		}
	case card.EffectCoalitionBonus:
		if ActiveCoalitionOf(s, owner.ID) != nil {
			owner.Influence += eff.Amount
			e.log(s, "resolution", owner.ID, "%s gains %d influence from %s (coalition)", owner.Name, eff.Amount, c.Name)
		}
	case card.EffectInfluenceDelta:
		owner.Influence += eff.Amount
		e.log(s, "resolution", owner.ID, "%s gains %d influence from %s", owner.Name, eff.Amount, c.Name)
	case card.EffectSabotage:
		for _, p := range s.participants() {
			if p.ID == owner.ID {
				continue
			}
			p.InfluenceModifier -= eff.Amount
		}
		e.log(s, "resolution", owner.ID, "%s hits every opponent for %d influence with %s", owner.Name, eff.Amount, c.Name)
	default:
		// Unknown descriptor kinds are non-fatal: skip with a warning.
		e.log(s, "warning", owner.ID, "card %s carries unknown effect kind %q", c.Name, eff.Kind)
	}
}

// runFinal scores the session and records the winner set. Threshold
// victories carry the already-decided victor; round-limit endings report the
// max-mandate set, shared ties included.
func (e *Engine) runFinal(s *SessionState) {
	e.log(s, "phase", "", "final scoring after round %d", s.Round)

	if s.VictorID != "" {
		s.WinnerIDs = []string{s.VictorID}
		if p := s.PlayerByID(s.VictorID); p != nil {
			e.log(s, "victory", p.ID, "%s wins the session with %d mandates", p.Name, p.Mandates)
		}
		return
	}

	best := 0
	for _, p := range s.Players {
		if p.Mandates > best {
			best = p.Mandates
		}
	}
	s.WinnerIDs = nil
	for _, p := range s.Players {
		if p.Mandates == best {
			s.WinnerIDs = append(s.WinnerIDs, p.ID)
		}
	}
	if len(s.WinnerIDs) == 1 {
		p := s.PlayerByID(s.WinnerIDs[0])
		e.log(s, "victory", p.ID, "%s wins the session with %d mandates", p.Name, p.Mandates)
	} else {
		e.log(s, "victory", "", "session ends in a %d-way tie at %d mandates", len(s.WinnerIDs), best)
	}
}
