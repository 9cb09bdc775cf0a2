package mandat

import (
	"fmt"
	"math/rand"
	"time"

	"mandat-lite/card"
)

// Engine is the rules engine for one session. All randomness (die rolls,
// shuffles) lives here and is seedable; the engine never blocks on I/O.
//
// Apply is a pure transform over SessionState: it clones, mutates the clone,
// and returns it. Correctness requires callers to serialize actions per
// session, with exactly one Apply in flight against a given snapshot.
type Engine struct {
	cfg     Config
	catalog *card.Catalog
	rng     *rand.Rand
	now     func() time.Time
}

func NewEngine(cfg Config, catalog *card.Catalog) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if catalog == nil || catalog.Len() == 0 {
		return nil, fmt.Errorf("empty card catalog")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:     cfg,
		catalog: catalog,
		rng:     rand.New(rand.NewSource(seed)),
		now:     now,
	}, nil
}

func (e *Engine) Config() Config        { return e.cfg }
func (e *Engine) Catalog() *card.Catalog { return e.catalog }

// NewSession creates an empty lobby-state session aggregate.
func (e *Engine) NewSession(id string) *SessionState {
	return &SessionState{
		ID:                          id,
		Status:                      StatusLobby,
		Phase:                       PhaseTypeSetup,
		MaxRounds:                   e.cfg.MaxRounds,
		MandateThreshold:            e.cfg.MandateThreshold,
		AlternateInfluenceThreshold: e.cfg.AlternateInfluenceThreshold,
		CoalitionsBlocked:           e.cfg.CoalitionsBlocked,
	}
}

// Apply validates the action against the current state and returns the next
// state. On any error the input state is untouched (the clone is discarded),
// so a rejected action has no effect.
func (e *Engine) Apply(s *SessionState, a Action) (*SessionState, error) {
	if s == nil {
		return nil, fmt.Errorf("nil session state")
	}
	if s.Status == StatusCompleted {
		return nil, ErrSessionEnded
	}

	next := s.Clone()

	var err error
	switch a.Type {
	case ActionTypeJoin:
		err = e.applyJoin(next, a)
	case ActionTypeLeave:
		err = e.applyLeave(next, a)
	case ActionTypeReady:
		err = e.applyReady(next, a)
	case ActionTypeStart:
		err = e.applyStart(next, a)
	default:
		if next.Status != StatusActive {
			return nil, ErrSessionNotStarted
		}
		switch a.Type {
		case ActionTypeRollMomentum:
			err = e.applyRollMomentum(next, a)
		case ActionTypeProposeCoalition:
			err = e.applyProposeCoalition(next, a)
		case ActionTypeAcceptCoalition:
			err = e.applyAcceptCoalition(next, a)
		case ActionTypeDeclineCoalition:
			err = e.applyDeclineCoalition(next, a)
		case ActionTypePlayCharacter:
			err = e.applyPlayCharacter(next, a)
		case ActionTypePlaySpecial:
			err = e.applyPlaySpecial(next, a)
		case ActionTypeSkipSpecial:
			err = e.applySkipSpecial(next, a)
		case ActionTypeDrawCard:
			err = e.applyDrawCard(next, a)
		case ActionTypeEndTurn:
			err = e.applyEndTurn(next, a)
		default:
			err = errValidation("unknown action type %d", a.Type)
		}
	}
	if err != nil {
		return nil, err
	}

	e.advance(next)
	next.Seq++
	return next, nil
}

// ---- lobby actions ----

func (e *Engine) applyJoin(s *SessionState, a Action) error {
	if a.PlayerID == "" {
		return errValidation("join requires a player id")
	}
	if p := s.PlayerByID(a.PlayerID); p != nil {
		// Rejoin after a disconnect. SkipRound stays set until the next
		// round starts.
		if s.Status == StatusActive && !p.Connected {
			p.Connected = true
			e.log(s, "action", p.ID, "%s reconnected", p.Name)
			return nil
		}
		return errValidation("player %q already joined", a.PlayerID)
	}
	if s.Status != StatusLobby {
		return errValidation("cannot join a session in status %s", s.Status)
	}
	if len(s.Players) >= e.cfg.MaxPlayers {
		return errValidation("session is full (%d players)", e.cfg.MaxPlayers)
	}

	pool := a.DeckPool
	if len(pool) > 0 {
		report := ValidateDeck(e.catalog, pool)
		if !report.OK {
			return errValidation("illegal deck: %v", report.Violations)
		}
	}

	name := a.Name
	if name == "" {
		name = a.PlayerID
	}

	p := &Player{
		ID:             a.PlayerID,
		Name:           name,
		AI:             a.AI,
		AITier:         a.AITier,
		Connected:      true,
		Ready:          a.AI, // AI seats are always ready
		CanPlaySpecial: true,
	}
	if len(pool) == 0 {
		pool = StarterPool(e.catalog, e.rng)
	}
	p.Deck = NewDeck(pool)
	s.Players = append(s.Players, p)
	e.log(s, "action", p.ID, "%s joined the session", p.Name)
	return nil
}

func (e *Engine) applyLeave(s *SessionState, a Action) error {
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return errValidation("player %q not in session", a.PlayerID)
	}

	if s.Status == StatusLobby {
		idx := s.PlayerIndex(a.PlayerID)
		s.Players = append(s.Players[:idx], s.Players[idx+1:]...)
		e.log(s, "action", a.PlayerID, "%s left the lobby", p.Name)
		return nil
	}

	// Active game: mark disconnected, sit out the rest of the round. The
	// record stays so mandates and coalition references remain valid.
	p.Connected = false
	p.SkipRound = true
	e.log(s, "action", p.ID, "%s disconnected", p.Name)
	return nil
}

func (e *Engine) applyReady(s *SessionState, a Action) error {
	if s.Status != StatusLobby {
		return errValidation("ready flag only changes in the lobby")
	}
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return errValidation("player %q not in session", a.PlayerID)
	}
	p.Ready = a.Ready
	return nil
}

func (e *Engine) applyStart(s *SessionState, a Action) error {
	if s.Status != StatusLobby {
		return errValidation("session already started")
	}
	if s.PlayerByID(a.PlayerID) == nil {
		return errValidation("player %q not in session", a.PlayerID)
	}
	if len(s.Players) < e.cfg.MinPlayers {
		return errValidation("need at least %d players, have %d", e.cfg.MinPlayers, len(s.Players))
	}
	for _, p := range s.Players {
		if !p.Ready {
			return errValidation("player %s is not ready", p.Name)
		}
	}

	// Seed the draw piles. Shuffles run in table order so a fixed engine
	// seed reproduces identical piles.
	for _, p := range s.Players {
		p.Deck.DrawPile = append([]string(nil), p.Deck.Pool...)
		p.Deck.DiscardPile = nil
		e.rng.Shuffle(len(p.Deck.DrawPile), func(i, j int) {
			p.Deck.DrawPile[i], p.Deck.DrawPile[j] = p.Deck.DrawPile[j], p.Deck.DrawPile[i]
		})
		p.Hand = nil
	}

	s.Status = StatusActive
	s.Round = 1
	s.Phase = PhaseTypeSetup
	e.log(s, "phase", "", "session started with %d players", len(s.Players))
	return nil
}

// ---- gameplay actions ----

func (e *Engine) applyRollMomentum(s *SessionState, a Action) error {
	if s.Phase != PhaseTypeMomentum {
		return errValidation("roll-momentum not allowed in phase %s", s.Phase)
	}
	roller := s.momentumRoller()
	if roller == nil || roller.ID != a.PlayerID {
		return errValidation("only the player with the fewest mandates may roll momentum")
	}

	roll := e.rollDie()
	s.MomentumLevel = roll
	e.log(s, "momentum", a.PlayerID, "%s rolls momentum: level %d", roller.Name, roll)
	s.Phase = PhaseTypeCoalition
	return nil
}

func (e *Engine) applyProposeCoalition(s *SessionState, a Action) error {
	if s.Phase != PhaseTypeCoalition {
		return errValidation("propose-coalition not allowed in phase %s", s.Phase)
	}
	from := s.PlayerByID(a.PlayerID)
	to := s.PlayerByID(a.TargetID)
	if from == nil {
		return errValidation("player %q not in session", a.PlayerID)
	}
	if to == nil {
		return errValidation("coalition target %q not in session", a.TargetID)
	}
	if from.ID == to.ID {
		return errValidation("cannot propose a coalition to yourself")
	}
	if from.SkipRound || to.SkipRound {
		return errValidation("coalition members must be active this round")
	}

	fromCoal := ActiveCoalitionOf(s, from.ID)
	toCoal := ActiveCoalitionOf(s, to.ID)
	if fromCoal != nil && toCoal != nil {
		return errValidation("both players already belong to coalitions")
	}
	if (fromCoal != nil || toCoal != nil) && s.MomentumLevel < MomentumTrioLevel {
		return errValidation("already in a coalition; a third member needs momentum %d+", MomentumTrioLevel)
	}
	if joined := firstNonNil(fromCoal, toCoal); joined != nil && len(joined.MemberIDs) >= 3 {
		return errValidation("coalition already has three members")
	}

	for _, pr := range s.Proposals {
		if pr.Status == ProposalPending && pr.Round == s.Round && pr.FromID == from.ID {
			return errValidation("you already have a pending proposal")
		}
	}

	s.Proposals = append(s.Proposals, &Proposal{
		FromID: from.ID,
		ToID:   to.ID,
		Round:  s.Round,
		Status: ProposalPending,
	})
	from.CoalitionPassed = false
	e.log(s, "action", from.ID, "%s proposes a coalition to %s", from.Name, to.Name)
	return nil
}

func (e *Engine) applyAcceptCoalition(s *SessionState, a Action) error {
	if s.Phase != PhaseTypeCoalition {
		return errValidation("accept-coalition not allowed in phase %s", s.Phase)
	}
	to := s.PlayerByID(a.PlayerID)
	from := s.PlayerByID(a.TargetID)
	if to == nil || from == nil {
		return errValidation("unknown player in coalition accept")
	}
	pr := pendingProposal(s, from.ID, to.ID)
	if pr == nil {
		return errValidation("no pending coalition proposal from %s", from.Name)
	}

	fromCoal := ActiveCoalitionOf(s, from.ID)
	toCoal := ActiveCoalitionOf(s, to.ID)
	if fromCoal != nil && toCoal != nil {
		return errValidation("both players already belong to coalitions")
	}
	if (fromCoal != nil || toCoal != nil) && s.MomentumLevel < MomentumTrioLevel {
		return errValidation("already in a coalition; a third member needs momentum %d+", MomentumTrioLevel)
	}

	pr.Status = ProposalAccepted

	// Third member joins an existing coalition at high momentum.
	if joined := firstNonNil(fromCoal, toCoal); joined != nil {
		if len(joined.MemberIDs) >= 3 {
			return errValidation("coalition already has three members")
		}
		newcomer := from
		if toCoal == nil {
			newcomer = to
		}
		joined.MemberIDs = append(joined.MemberIDs, newcomer.ID)
		newcomer.PartnerID = otherMember(joined, newcomer.ID)
		e.log(s, "action", to.ID, "%s joins the coalition as third member", newcomer.Name)
		return nil
	}

	// Re-forming the same pair in consecutive rounds continues its streak;
	// otherwise a fresh record is created.
	var coal *Coalition
	for _, c := range s.Coalitions {
		if !validCoalition(s, c) || c.Active {
			continue
		}
		if c.samePair(from.ID, to.ID) && c.LastActiveRound == s.Round-1 {
			coal = c
			break
		}
	}
	if coal != nil {
		coal.Active = true
		coal.LastActiveRound = s.Round
		coal.ConsecutiveRounds++
	} else {
		coal = &Coalition{
			MemberIDs:         []string{from.ID, to.ID},
			RoundFormed:       s.Round,
			LastActiveRound:   s.Round,
			ConsecutiveRounds: 1,
			Active:            true,
		}
		s.Coalitions = append(s.Coalitions, coal)
	}
	from.PartnerID = to.ID
	to.PartnerID = from.ID
	e.log(s, "action", to.ID, "%s and %s form a coalition (round %d streak %d)",
		from.Name, to.Name, s.Round, coal.ConsecutiveRounds)
	return nil
}

func (e *Engine) applyDeclineCoalition(s *SessionState, a Action) error {
	if s.Phase != PhaseTypeCoalition {
		return errValidation("decline-coalition not allowed in phase %s", s.Phase)
	}
	to := s.PlayerByID(a.PlayerID)
	from := s.PlayerByID(a.TargetID)
	if to == nil || from == nil {
		return errValidation("unknown player in coalition decline")
	}
	pr := pendingProposal(s, from.ID, to.ID)
	if pr == nil {
		return errValidation("no pending coalition proposal from %s", from.Name)
	}
	pr.Status = ProposalDeclined
	e.log(s, "action", to.ID, "%s declines the coalition proposal from %s", to.Name, from.Name)
	return nil
}

func (e *Engine) applyPlayCharacter(s *SessionState, a Action) error {
	if s.Phase != PhaseTypeCharacter {
		return errValidation("play-character not allowed in phase %s", s.Phase)
	}
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return errValidation("player %q not in session", a.PlayerID)
	}
	if p.SkipRound {
		return errValidation("%s is skipping this round", p.Name)
	}
	if p.PlayedCharacter != "" {
		return errValidation("character slot already filled this round")
	}
	c := e.catalog.Get(a.CardID)
	if c == nil {
		return errValidation("unknown card id %q", a.CardID)
	}
	if !p.HasCard(a.CardID) {
		return errValidation("card %q is not in your hand", a.CardID)
	}
	if c.Type != card.TypeCharacter {
		return errValidation("card %q is not a character card", a.CardID)
	}

	p.removeFromHand(a.CardID)
	p.PlayedCharacter = a.CardID
	s.Plays = append(s.Plays, PlayRecord{PlayerID: p.ID, CardID: a.CardID, Phase: PhaseTypeCharacter})
	// Face-down: the log does not leak the card until RESOLUTION reveals it.
	e.log(s, "action", p.ID, "%s plays a character face-down", p.Name)
	return nil
}

func (e *Engine) applyPlaySpecial(s *SessionState, a Action) error {
	if s.Phase != PhaseTypeSpecial {
		return errValidation("play-special not allowed in phase %s", s.Phase)
	}
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return errValidation("player %q not in session", a.PlayerID)
	}
	if p.SkipRound {
		return errValidation("%s is skipping this round", p.Name)
	}
	if p.SupportDecided {
		return errValidation("special slot already decided this round")
	}
	if !p.CanPlaySpecial {
		return errValidation("special play is blocked for %s this round", p.Name)
	}
	c := e.catalog.Get(a.CardID)
	if c == nil {
		return errValidation("unknown card id %q", a.CardID)
	}
	if !p.HasCard(a.CardID) {
		return errValidation("card %q is not in your hand", a.CardID)
	}
	if !c.Type.IsSupport() {
		return errValidation("card %q cannot be played in the special phase", a.CardID)
	}

	p.removeFromHand(a.CardID)
	p.PlayedSupport = a.CardID
	p.SupportOpenFace = a.OpenFace
	p.SupportDecided = true
	s.Plays = append(s.Plays, PlayRecord{PlayerID: p.ID, CardID: a.CardID, Phase: PhaseTypeSpecial, OpenFace: a.OpenFace})
	if a.OpenFace {
		e.log(s, "action", p.ID, "%s plays %s open-face", p.Name, c.Name)
	} else {
		e.log(s, "action", p.ID, "%s plays a card face-down", p.Name)
	}
	return nil
}

func (e *Engine) applySkipSpecial(s *SessionState, a Action) error {
	if s.Phase != PhaseTypeSpecial {
		return errValidation("skip-special not allowed in phase %s", s.Phase)
	}
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return errValidation("player %q not in session", a.PlayerID)
	}
	if p.SkipRound {
		return errValidation("%s is skipping this round", p.Name)
	}
	if p.SupportDecided {
		return errValidation("special slot already decided this round")
	}
	p.SupportDecided = true
	e.log(s, "action", p.ID, "%s passes the special phase", p.Name)
	return nil
}

func (e *Engine) applyDrawCard(s *SessionState, a Action) error {
	if s.Phase != PhaseTypeCharacter && s.Phase != PhaseTypeSpecial {
		return errValidation("draw-card not allowed in phase %s", s.Phase)
	}
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return errValidation("player %q not in session", a.PlayerID)
	}
	if p.SkipRound {
		return errValidation("%s is skipping this round", p.Name)
	}
	if p.DrewThisRound {
		return errValidation("already drew a card this round")
	}

	p.DrewThisRound = true
	drawn := p.Deck.Draw(e.rng, 1)
	if len(drawn) == 0 {
		e.log(s, "warning", p.ID, "%s tried to draw from an exhausted deck", p.Name)
		return nil
	}
	p.Hand = append(p.Hand, drawn...)
	e.log(s, "action", p.ID, "%s draws a card", p.Name)
	return nil
}

func (e *Engine) applyEndTurn(s *SessionState, a Action) error {
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return errValidation("player %q not in session", a.PlayerID)
	}
	switch s.Phase {
	case PhaseTypeCoalition:
		if p.SkipRound {
			return errValidation("%s is skipping this round", p.Name)
		}
		p.CoalitionPassed = true
		e.log(s, "action", p.ID, "%s passes on coalitions", p.Name)
		return nil
	case PhaseTypeSpecial:
		return e.applySkipSpecial(s, a)
	default:
		return errValidation("end-turn not allowed in phase %s", s.Phase)
	}
}

// ---- phase machine ----

// advance runs the automatic phases until the session needs player input or
// reaches a terminal state.
func (e *Engine) advance(s *SessionState) {
	if s.Status != StatusActive {
		return
	}
	for {
		switch s.Phase {
		case PhaseTypeSetup:
			e.runSetup(s)
			s.Phase = PhaseTypeMomentum

		case PhaseTypeMomentum:
			if s.Round == 1 {
				// Fixed level, no randomness consumed.
				s.MomentumLevel = 1
				e.log(s, "momentum", "", "round 1 momentum fixed at level 1")
				s.Phase = PhaseTypeCoalition
				continue
			}
			roller := s.momentumRoller()
			if roller == nil {
				s.MomentumLevel = 1
				e.log(s, "warning", "", "no eligible momentum roller, defaulting to level 1")
				s.Phase = PhaseTypeCoalition
				continue
			}
			s.ActivePlayerID = roller.ID
			return

		case PhaseTypeCoalition:
			if s.CoalitionsBlocked || len(s.activePlayers()) < 3 {
				s.Phase = PhaseTypeCharacter
				continue
			}
			if e.coalitionPhaseDone(s) {
				e.expireProposals(s)
				s.Phase = PhaseTypeCharacter
				e.log(s, "phase", "", "coalition phase closed")
				continue
			}
			s.ActivePlayerID = firstUndecidedCoalition(s)
			return

		case PhaseTypeCharacter:
			e.autoSkipWithoutCharacter(s)
			if next := firstUndecidedCharacter(s); next != "" {
				s.ActivePlayerID = next
				return
			}
			s.Phase = PhaseTypeSpecial

		case PhaseTypeSpecial:
			e.autoDecideBlockedSpecial(s)
			if next := firstUndecidedSpecial(s); next != "" {
				s.ActivePlayerID = next
				return
			}
			s.Phase = PhaseTypeResolution

		case PhaseTypeResolution:
			e.runResolution(s)
			s.Phase = PhaseTypeBackfire

		case PhaseTypeBackfire:
			e.runBackfire(s)
			if s.VictorID != "" || s.Round >= s.MaxRounds {
				s.Phase = PhaseTypeFinal
			} else {
				s.Round++
				s.Phase = PhaseTypeSetup
			}

		case PhaseTypeFinal:
			e.runFinal(s)
			s.Phase = PhaseTypeFinished
			s.Status = StatusCompleted
			s.ActivePlayerID = ""
			return

		default: // PhaseTypeFinished
			return
		}
	}
}

func (e *Engine) runSetup(s *SessionState) {
	e.log(s, "phase", "", "round %d setup", s.Round)

	for _, p := range s.Players {
		p.resetForRound()
		p.WonLastRound = false
	}
	s.Plays = nil

	// Round relations reset: coalitions must be re-formed each round.
	for _, c := range s.Coalitions {
		if c != nil && c.Active {
			c.Active = false
		}
	}

	if s.Round == 1 {
		for _, p := range s.Players {
			if len(p.Hand) > 0 {
				continue
			}
			drawn := p.Deck.Draw(e.rng, e.cfg.InitialHandSize)
			p.Hand = append(p.Hand, drawn...)
			if len(drawn) < e.cfg.InitialHandSize {
				e.log(s, "warning", p.ID, "%s dealt a short hand (%d of %d)", p.Name, len(drawn), e.cfg.InitialHandSize)
			}
		}
	}

	if len(s.Players) > 0 {
		s.ActivePlayerID = s.Players[0].ID
	}
}

// autoSkipWithoutCharacter sits out players who cannot legally fill the
// character slot, so the phase auto-advance never deadlocks. Idempotent.
func (e *Engine) autoSkipWithoutCharacter(s *SessionState) {
	for _, p := range s.Players {
		if p.SkipRound || p.PlayedCharacter != "" {
			continue
		}
		if e.holdsCharacter(p) {
			continue
		}
		// One draw may still save the seat.
		if !p.DrewThisRound && p.Deck.PileSize() > 0 {
			continue
		}
		p.SkipRound = true
		e.log(s, "warning", p.ID, "%s has no character card available and sits out the round", p.Name)
	}
}

func (e *Engine) holdsCharacter(p *Player) bool {
	for _, id := range p.Hand {
		if c := e.catalog.Get(id); c != nil && c.Type == card.TypeCharacter {
			return true
		}
	}
	return false
}

// autoDecideBlockedSpecial marks seats that cannot act in the special phase
// as decided. Idempotent.
func (e *Engine) autoDecideBlockedSpecial(s *SessionState) {
	for _, p := range s.Players {
		if p.SkipRound || p.SupportDecided {
			continue
		}
		if !p.CanPlaySpecial {
			p.SupportDecided = true
			e.log(s, "backfire", p.ID, "%s forfeits the special phase", p.Name)
		}
	}
}

func (e *Engine) coalitionPhaseDone(s *SessionState) bool {
	for _, p := range s.activePlayers() {
		if p.CoalitionPassed {
			continue
		}
		if ActiveCoalitionOf(s, p.ID) != nil {
			continue
		}
		return false
	}
	return true
}

func (e *Engine) expireProposals(s *SessionState) {
	for _, pr := range s.Proposals {
		if pr.Status == ProposalPending && pr.Round == s.Round {
			pr.Status = ProposalDeclined
		}
	}
}

func firstUndecidedCoalition(s *SessionState) string {
	for _, p := range s.activePlayers() {
		if !p.CoalitionPassed && ActiveCoalitionOf(s, p.ID) == nil {
			return p.ID
		}
	}
	return ""
}

func firstUndecidedCharacter(s *SessionState) string {
	for _, p := range s.activePlayers() {
		if p.PlayedCharacter == "" {
			return p.ID
		}
	}
	return ""
}

func firstUndecidedSpecial(s *SessionState) string {
	for _, p := range s.activePlayers() {
		if !p.SupportDecided {
			return p.ID
		}
	}
	return ""
}

// PendingDeciders lists every player currently owing a decision. The AI
// scheduler uses this after each transition; clients use it for prompts.
func (s *SessionState) PendingDeciders() []string {
	if s.Status != StatusActive {
		return nil
	}
	switch s.Phase {
	case PhaseTypeMomentum:
		if r := s.momentumRoller(); r != nil {
			return []string{r.ID}
		}
	case PhaseTypeCoalition:
		out := []string{}
		for _, p := range s.activePlayers() {
			if !p.CoalitionPassed && ActiveCoalitionOf(s, p.ID) == nil {
				out = append(out, p.ID)
			}
		}
		return out
	case PhaseTypeCharacter:
		out := []string{}
		for _, p := range s.activePlayers() {
			if p.PlayedCharacter == "" {
				out = append(out, p.ID)
			}
		}
		return out
	case PhaseTypeSpecial:
		out := []string{}
		for _, p := range s.activePlayers() {
			if !p.SupportDecided {
				out = append(out, p.ID)
			}
		}
		return out
	}
	return nil
}

// ---- helpers ----

func (e *Engine) rollDie() int {
	return e.rng.Intn(MomentumMax) + 1
}

func (e *Engine) log(s *SessionState, kind, playerID, format string, args ...any) {
	s.Log = append(s.Log, LogEntry{
		Seq:      uint64(len(s.Log) + 1),
		Round:    s.Round,
		Phase:    s.Phase,
		Kind:     kind,
		PlayerID: playerID,
		Message:  fmt.Sprintf(format, args...),
		At:       e.now(),
	})
}

func firstNonNil(coals ...*Coalition) *Coalition {
	for _, c := range coals {
		if c != nil {
			return c
		}
	}
	return nil
}

func otherMember(c *Coalition, id string) string {
	for _, m := range c.MemberIDs {
		if m != id {
			return m
		}
	}
	return ""
}
