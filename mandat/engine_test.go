package mandat

import (
	"encoding/json"
	"testing"
	"time"

	"mandat-lite/card"
)

// testConfig keeps games short and fully deterministic: fixed seed plus a
// counting clock so log timestamps are reproducible.
func testConfig(seed int64) Config {
	n := 0
	return Config{
		MaxPlayers:                  4,
		MinPlayers:                  2,
		MaxRounds:                   3,
		MandateThreshold:            12,
		AlternateInfluenceThreshold: 25,
		InitialHandSize:             6,
		Seed:                        seed,
		Clock: func() time.Time {
			n++
			return time.Unix(int64(n), 0).UTC()
		},
	}
}

// testPool is a legal all-local deck: 20 cards, 10/5/5 split, every copy
// within its rarity limit and well under the local budget ceiling.
func testPool() []string {
	return []string{
		"char_borough_mayor", "char_borough_mayor", "char_borough_mayor",
		"char_precinct_captain", "char_precinct_captain", "char_precinct_captain",
		"char_council_veteran", "char_council_veteran", "char_council_veteran",
		"char_school_board_chair",
		"spec_town_hall", "spec_town_hall", "spec_town_hall",
		"spec_policy_paper", "spec_policy_paper",
		"bonus_volunteer_surge", "bonus_volunteer_surge", "bonus_volunteer_surge",
		"trap_audit_demand", "trap_audit_demand",
	}
}

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e, err := NewEngine(testConfig(seed), card.BaseCatalog())
	if err != nil {
		t.Fatalf("NewEngine err: %v", err)
	}
	return e
}

func mustApply(t *testing.T, e *Engine, s *SessionState, a Action) *SessionState {
	t.Helper()
	next, err := e.Apply(s, a)
	if err != nil {
		t.Fatalf("apply %s for %s err: %v", a.Type, a.PlayerID, err)
	}
	return next
}

// startedSession joins n players with the test pool, readies them and
// starts the game.
func startedSession(t *testing.T, e *Engine, ids ...string) *SessionState {
	t.Helper()
	s := e.NewSession("test_session")
	for _, id := range ids {
		s = mustApply(t, e, s, Action{Type: ActionTypeJoin, PlayerID: id, DeckPool: testPool()})
	}
	for _, id := range ids {
		s = mustApply(t, e, s, Action{Type: ActionTypeReady, PlayerID: id, Ready: true})
	}
	return mustApply(t, e, s, Action{Type: ActionTypeStart, PlayerID: ids[0]})
}

// stepOnce makes the least committal legal decision for one pending player
// and applies it.
func stepOnce(t *testing.T, e *Engine, s *SessionState, playerID string) *SessionState {
	t.Helper()
	p := s.PlayerByID(playerID)
	switch s.Phase {
	case PhaseTypeMomentum:
		return mustApply(t, e, s, Action{Type: ActionTypeRollMomentum, PlayerID: playerID})
	case PhaseTypeCoalition:
		return mustApply(t, e, s, Action{Type: ActionTypeEndTurn, PlayerID: playerID})
	case PhaseTypeCharacter:
		for _, id := range p.Hand {
			if c := e.Catalog().Get(id); c != nil && c.Type == card.TypeCharacter {
				return mustApply(t, e, s, Action{Type: ActionTypePlayCharacter, PlayerID: playerID, CardID: id})
			}
		}
		return mustApply(t, e, s, Action{Type: ActionTypeDrawCard, PlayerID: playerID})
	case PhaseTypeSpecial:
		return mustApply(t, e, s, Action{Type: ActionTypeSkipSpecial, PlayerID: playerID})
	}
	t.Fatalf("no decision available in phase %s", s.Phase)
	return nil
}

// autoplay drives the session to completion with stepOnce decisions.
func autoplay(t *testing.T, e *Engine, s *SessionState) *SessionState {
	t.Helper()
	for steps := 0; s.Status != StatusCompleted; steps++ {
		if steps > 500 {
			t.Fatalf("session did not complete within 500 steps (phase %s round %d)", s.Phase, s.Round)
		}
		pending := s.PendingDeciders()
		if len(pending) == 0 {
			t.Fatalf("active session with no pending deciders (phase %s round %d)", s.Phase, s.Round)
		}
		s = stepOnce(t, e, s, pending[0])
	}
	return s
}

func TestLobbyJoinReadyStart(t *testing.T) {
	e := newTestEngine(t, 1)
	s := e.NewSession("s1")

	s = mustApply(t, e, s, Action{Type: ActionTypeJoin, PlayerID: "alice", Name: "Alice", DeckPool: testPool()})
	s = mustApply(t, e, s, Action{Type: ActionTypeJoin, PlayerID: "bob", DeckPool: testPool()})

	if _, err := e.Apply(s, Action{Type: ActionTypeJoin, PlayerID: "alice"}); err == nil {
		t.Fatal("expected duplicate join to be rejected")
	}
	if s.PlayerByID("bob").Name != "bob" {
		t.Fatalf("expected join without a name to fall back to the id, got %q", s.PlayerByID("bob").Name)
	}

	// Start before everyone is ready must fail.
	s = mustApply(t, e, s, Action{Type: ActionTypeReady, PlayerID: "alice", Ready: true})
	if _, err := e.Apply(s, Action{Type: ActionTypeStart, PlayerID: "alice"}); err == nil {
		t.Fatal("expected start with an unready player to be rejected")
	}

	s = mustApply(t, e, s, Action{Type: ActionTypeReady, PlayerID: "bob", Ready: true})
	s = mustApply(t, e, s, Action{Type: ActionTypeStart, PlayerID: "alice"})

	if s.Status != StatusActive {
		t.Fatalf("expected active status, got %s", s.Status)
	}
	if s.Round != 1 {
		t.Fatalf("expected round 1, got %d", s.Round)
	}
	// Round 1 momentum is fixed at level 1 without a roll, and with only
	// two players the coalition phase is skipped entirely.
	if s.MomentumLevel != 1 {
		t.Fatalf("expected round 1 momentum level 1, got %d", s.MomentumLevel)
	}
	if s.Phase != PhaseTypeCharacter {
		t.Fatalf("expected character phase after start with 2 players, got %s", s.Phase)
	}
	for _, p := range s.Players {
		if len(p.Hand) != e.Config().InitialHandSize {
			t.Fatalf("expected %d cards in %s's opening hand, got %d", e.Config().InitialHandSize, p.ID, len(p.Hand))
		}
	}
}

func TestJoinRejectsIllegalDeck(t *testing.T) {
	e := newTestEngine(t, 1)
	s := e.NewSession("s1")

	short := testPool()[:10]
	if _, err := e.Apply(s, Action{Type: ActionTypeJoin, PlayerID: "alice", DeckPool: short}); err == nil {
		t.Fatal("expected short deck to be rejected")
	}

	// An empty pool is allowed: the engine assigns a starter deck.
	s = mustApply(t, e, s, Action{Type: ActionTypeJoin, PlayerID: "bob"})
	report := ValidateDeck(e.Catalog(), s.PlayerByID("bob").Deck.Pool)
	if !report.OK {
		t.Fatalf("starter deck is illegal: %v", report.Violations)
	}
}

func TestJoinRejectedWhenFull(t *testing.T) {
	e := newTestEngine(t, 1)
	s := e.NewSession("s1")
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		s = mustApply(t, e, s, Action{Type: ActionTypeJoin, PlayerID: id, DeckPool: testPool()})
	}
	if _, err := e.Apply(s, Action{Type: ActionTypeJoin, PlayerID: "p5", DeckPool: testPool()}); err == nil {
		t.Fatal("expected join into a full session to be rejected")
	}
}

func TestRejectedActionLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t, 3)
	s := startedSession(t, e, "alice", "bob")

	before, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	// roll-momentum is illegal in the character phase.
	next, applyErr := e.Apply(s, Action{Type: ActionTypeRollMomentum, PlayerID: "alice"})
	if applyErr == nil {
		t.Fatal("expected out-of-phase action to be rejected")
	}
	if next != nil {
		t.Fatal("expected nil next state on rejection")
	}
	if !IsValidation(applyErr) {
		t.Fatalf("expected a validation error, got %v", applyErr)
	}

	after, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatal("rejected action mutated the session state")
	}
}

func TestLeaveInLobbyRemovesSeat(t *testing.T) {
	e := newTestEngine(t, 1)
	s := e.NewSession("s1")
	s = mustApply(t, e, s, Action{Type: ActionTypeJoin, PlayerID: "alice", DeckPool: testPool()})
	s = mustApply(t, e, s, Action{Type: ActionTypeJoin, PlayerID: "bob", DeckPool: testPool()})

	s = mustApply(t, e, s, Action{Type: ActionTypeLeave, PlayerID: "alice"})
	if len(s.Players) != 1 {
		t.Fatalf("expected 1 player after lobby leave, got %d", len(s.Players))
	}
	if s.PlayerByID("alice") != nil {
		t.Fatal("expected alice's seat to be removed")
	}
}

func TestDisconnectAndReconnectMidGame(t *testing.T) {
	e := newTestEngine(t, 5)
	s := startedSession(t, e, "alice", "bob", "carol")

	s = mustApply(t, e, s, Action{Type: ActionTypeLeave, PlayerID: "bob"})
	bob := s.PlayerByID("bob")
	if bob == nil {
		t.Fatal("expected bob's record to survive an in-game leave")
	}
	if bob.Connected || !bob.SkipRound {
		t.Fatalf("expected bob disconnected and skipping, got connected=%v skip=%v", bob.Connected, bob.SkipRound)
	}

	// A fresh player cannot join a running game.
	if _, err := e.Apply(s, Action{Type: ActionTypeJoin, PlayerID: "dave", DeckPool: testPool()}); err == nil {
		t.Fatal("expected join into an active session to be rejected")
	}

	// The disconnected player can rejoin; SkipRound stays until next round.
	s = mustApply(t, e, s, Action{Type: ActionTypeJoin, PlayerID: "bob"})
	bob = s.PlayerByID("bob")
	if !bob.Connected {
		t.Fatal("expected bob reconnected")
	}
	if !bob.SkipRound {
		t.Fatal("expected bob to keep sitting out the current round")
	}
}

func TestDrawOncePerRound(t *testing.T) {
	e := newTestEngine(t, 7)
	s := startedSession(t, e, "alice", "bob")

	pending := s.PendingDeciders()
	if len(pending) == 0 {
		t.Fatal("expected pending deciders in the character phase")
	}
	id := pending[0]
	s = mustApply(t, e, s, Action{Type: ActionTypeDrawCard, PlayerID: id})
	if !s.PlayerByID(id).DrewThisRound {
		t.Fatal("expected DrewThisRound to be set")
	}
	if _, err := e.Apply(s, Action{Type: ActionTypeDrawCard, PlayerID: id}); err == nil {
		t.Fatal("expected second draw in the same round to be rejected")
	}
}

func TestMomentumRollOnlyByTrailingPlayer(t *testing.T) {
	e := newTestEngine(t, 11)
	s := startedSession(t, e, "alice", "bob")

	// Drive round 1 to completion; round 2 opens with a momentum roll owed
	// by the player with the fewest mandates.
	for s.Round == 1 && s.Status == StatusActive {
		s = stepOnce(t, e, s, s.PendingDeciders()[0])
	}
	if s.Status != StatusActive {
		t.Skip("session ended in round 1")
	}
	if s.Phase != PhaseTypeMomentum {
		t.Fatalf("expected momentum phase at round 2, got %s", s.Phase)
	}

	roller := s.PendingDeciders()
	if len(roller) != 1 {
		t.Fatalf("expected exactly one momentum roller, got %v", roller)
	}
	for _, p := range s.Players {
		if p.ID == roller[0] {
			continue
		}
		if p.Mandates < s.PlayerByID(roller[0]).Mandates {
			t.Fatalf("roller %s does not have the fewest mandates", roller[0])
		}
		if _, err := e.Apply(s, Action{Type: ActionTypeRollMomentum, PlayerID: p.ID}); err == nil {
			t.Fatalf("expected roll by %s to be rejected", p.ID)
		}
	}

	s = mustApply(t, e, s, Action{Type: ActionTypeRollMomentum, PlayerID: roller[0]})
	if s.MomentumLevel < MomentumMin || s.MomentumLevel > MomentumMax {
		t.Fatalf("momentum level %d out of range", s.MomentumLevel)
	}
}

func TestActionsAgainstCompletedSessionFail(t *testing.T) {
	e := newTestEngine(t, 13)
	s := autoplay(t, e, startedSession(t, e, "alice", "bob"))

	if s.Status != StatusCompleted {
		t.Fatalf("expected completed session, got %s", s.Status)
	}
	if _, err := e.Apply(s, Action{Type: ActionTypeEndTurn, PlayerID: "alice"}); err != ErrSessionEnded {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
}

func TestGameplayActionBeforeStartFails(t *testing.T) {
	e := newTestEngine(t, 1)
	s := e.NewSession("s1")
	s = mustApply(t, e, s, Action{Type: ActionTypeJoin, PlayerID: "alice", DeckPool: testPool()})

	if _, err := e.Apply(s, Action{Type: ActionTypeDrawCard, PlayerID: "alice"}); err != ErrSessionNotStarted {
		t.Fatalf("expected ErrSessionNotStarted, got %v", err)
	}
}
