package mandat

import (
	"testing"

	"mandat-lite/card"
)

// coalitionPhase returns a freshly started 3-player session, which opens in
// the coalition phase (round 1 momentum is fixed).
func coalitionPhase(t *testing.T, seed int64) (*Engine, *SessionState) {
	t.Helper()
	e := newTestEngine(t, seed)
	s := startedSession(t, e, "alice", "bob", "carol")
	if s.Phase != PhaseTypeCoalition {
		t.Fatalf("expected coalition phase with 3 players, got %s", s.Phase)
	}
	return e, s
}

func TestProposeCoalitionValidation(t *testing.T) {
	e, s := coalitionPhase(t, 41)

	if _, err := e.Apply(s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "alice"}); err == nil {
		t.Fatal("expected self-proposal to be rejected")
	}
	if _, err := e.Apply(s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "mallory"}); err == nil {
		t.Fatal("expected proposal to an unknown player to be rejected")
	}

	s = mustApply(t, e, s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "bob"})
	if _, err := e.Apply(s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "carol"}); err == nil {
		t.Fatal("expected second proposal in the same round to be rejected")
	}
}

func TestAcceptCoalitionFormsPair(t *testing.T) {
	e, s := coalitionPhase(t, 43)

	s = mustApply(t, e, s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "bob"})
	s = mustApply(t, e, s, Action{Type: ActionTypeAcceptCoalition, PlayerID: "bob", TargetID: "alice"})

	coal := ActiveCoalitionOf(s, "alice")
	if coal == nil || !coal.HasMember("bob") {
		t.Fatal("expected an active alice/bob coalition")
	}
	if coal.ConsecutiveRounds != 1 || coal.RoundFormed != 1 {
		t.Fatalf("unexpected coalition record %+v", coal)
	}
	if s.PlayerByID("alice").PartnerID != "bob" || s.PlayerByID("bob").PartnerID != "alice" {
		t.Fatal("expected symmetric partner references")
	}

	// At momentum level 1 an allied player cannot even be courted.
	if _, err := e.Apply(s, Action{Type: ActionTypeProposeCoalition, PlayerID: "carol", TargetID: "alice"}); err == nil {
		t.Fatal("expected a proposal to an allied player to be rejected below the trio momentum level")
	}
}

func TestThirdMemberJoinsAtHighMomentum(t *testing.T) {
	e, s := coalitionPhase(t, 43)

	s = mustApply(t, e, s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "bob"})
	s = mustApply(t, e, s, Action{Type: ActionTypeAcceptCoalition, PlayerID: "bob", TargetID: "alice"})

	s.MomentumLevel = MomentumTrioLevel
	s = mustApply(t, e, s, Action{Type: ActionTypeProposeCoalition, PlayerID: "carol", TargetID: "alice"})
	s = mustApply(t, e, s, Action{Type: ActionTypeAcceptCoalition, PlayerID: "alice", TargetID: "carol"})

	coal := ActiveCoalitionOf(s, "carol")
	if coal == nil || len(coal.MemberIDs) != 3 || !coal.HasMember("alice") || !coal.HasMember("bob") {
		t.Fatalf("expected a three-member coalition, got %+v", coal)
	}
	// With every seat allied the phase has nothing left to wait for.
	if s.Phase != PhaseTypeCharacter {
		t.Fatalf("expected the coalition phase to close, still in %s", s.Phase)
	}
}

func TestDeclineCoalitionLeavesNoAlliance(t *testing.T) {
	e, s := coalitionPhase(t, 47)

	s = mustApply(t, e, s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "bob"})
	s = mustApply(t, e, s, Action{Type: ActionTypeDeclineCoalition, PlayerID: "bob", TargetID: "alice"})

	if ActiveCoalitionOf(s, "alice") != nil || ActiveCoalitionOf(s, "bob") != nil {
		t.Fatal("expected no coalition after a decline")
	}
	if len(s.Proposals) != 1 || s.Proposals[0].Status != ProposalDeclined {
		t.Fatalf("unexpected proposal records %+v", s.Proposals)
	}
	if _, err := e.Apply(s, Action{Type: ActionTypeAcceptCoalition, PlayerID: "bob", TargetID: "alice"}); err == nil {
		t.Fatal("expected accept of a declined proposal to fail")
	}
}

func TestCoalitionPhaseClosesWhenAllDecided(t *testing.T) {
	e, s := coalitionPhase(t, 53)

	s = mustApply(t, e, s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "bob"})
	s = mustApply(t, e, s, Action{Type: ActionTypeAcceptCoalition, PlayerID: "bob", TargetID: "alice"})
	if s.Phase != PhaseTypeCoalition {
		t.Fatalf("phase moved early to %s", s.Phase)
	}

	// The last undecided player passes; pending proposals expire and the
	// phase closes.
	s = mustApply(t, e, s, Action{Type: ActionTypeEndTurn, PlayerID: "carol"})
	if s.Phase != PhaseTypeCharacter {
		t.Fatalf("expected character phase, got %s", s.Phase)
	}
}

func TestCoalitionsResetEachRound(t *testing.T) {
	e, s := coalitionPhase(t, 59)

	s = mustApply(t, e, s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "bob"})
	s = mustApply(t, e, s, Action{Type: ActionTypeAcceptCoalition, PlayerID: "bob", TargetID: "alice"})

	for s.Round == 1 && s.Status == StatusActive {
		s = stepOnce(t, e, s, s.PendingDeciders()[0])
	}
	if s.Status != StatusActive {
		t.Skip("session ended in round 1")
	}

	// The record survives but is inactive until re-formed.
	if ActiveCoalitionOf(s, "alice") != nil {
		t.Fatal("expected the coalition to deactivate at round setup")
	}
	if len(s.Coalitions) != 1 {
		t.Fatalf("expected the coalition record to persist, have %d", len(s.Coalitions))
	}
}

func TestCoalitionsBlockedSkipsPhase(t *testing.T) {
	cfg := testConfig(61)
	cfg.CoalitionsBlocked = true
	e, err := NewEngine(cfg, card.BaseCatalog())
	if err != nil {
		t.Fatalf("NewEngine err: %v", err)
	}
	s := startedSession(t, e, "alice", "bob", "carol")
	if s.Phase != PhaseTypeCharacter {
		t.Fatalf("expected coalition phase to be skipped, got %s", s.Phase)
	}
	if _, err := e.Apply(s, Action{Type: ActionTypeProposeCoalition, PlayerID: "alice", TargetID: "bob"}); err == nil {
		t.Fatal("expected proposals to be rejected outside the coalition phase")
	}
}
