package replay

import (
	"encoding/json"
	"errors"
	"testing"

	"mandat-lite/card"
	"mandat-lite/mandat"
)

func testSpec(seed int64) ConfigSpec {
	return ConfigSpec{
		MaxPlayers:      4,
		MinPlayers:      2,
		MaxRounds:       3,
		InitialHandSize: 6,
		Seed:            seed,
	}
}

func TestRunRequiresSeed(t *testing.T) {
	_, err := Run(&Transcript{Version: TranscriptVersion}, card.BaseCatalog())
	var terr *TranscriptError
	if !errors.As(err, &terr) || terr.Reason != "missing_seed" {
		t.Fatalf("expected missing_seed transcript error, got %v", err)
	}

	if _, err := Run(nil, card.BaseCatalog()); err == nil {
		t.Fatal("expected nil transcript to be rejected")
	}
}

func TestRunRejectsUnknownStepType(t *testing.T) {
	tr := &Transcript{
		Version: TranscriptVersion,
		Config:  testSpec(5),
		Steps: []StepSpec{
			{Type: "join-session", PlayerID: "alice"},
			{Type: "teleport", PlayerID: "alice"},
		},
	}
	_, err := Run(tr, card.BaseCatalog())
	var terr *TranscriptError
	if !errors.As(err, &terr) {
		t.Fatalf("expected transcript error, got %v", err)
	}
	if terr.StepIndex != 1 || terr.Reason != "bad_step" {
		t.Fatalf("unexpected error detail %+v", terr)
	}
}

func TestRunReportsDriftedStep(t *testing.T) {
	tr := &Transcript{
		Version: TranscriptVersion,
		Config:  testSpec(5),
		Steps: []StepSpec{
			{Type: "join-session", PlayerID: "alice"},
			{Type: "join-session", PlayerID: "alice"}, // duplicate join cannot apply
		},
	}
	_, err := Run(tr, card.BaseCatalog())
	var terr *TranscriptError
	if !errors.As(err, &terr) {
		t.Fatalf("expected transcript error, got %v", err)
	}
	if terr.StepIndex != 1 || terr.Reason != "action_apply_failed" {
		t.Fatalf("unexpected error detail %+v", terr)
	}
	if terr.Expected == nil || terr.Expected.Phase == "" {
		t.Fatalf("expected engine state context on the failing step, got %+v", terr.Expected)
	}
}

func TestTranscriptEncodeDecodeRoundTrip(t *testing.T) {
	rec := NewRecorder("s1", buildConfig(testSpec(9)))
	rec.Append(mandat.Action{Type: mandat.ActionTypeJoin, PlayerID: "alice", Name: "Alice"})
	rec.Append(mandat.Action{Type: mandat.ActionTypeReady, PlayerID: "alice", Ready: true})

	data, err := Encode(rec.Transcript())
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if decoded.SessionID != "s1" || decoded.Config.Seed != 9 {
		t.Fatalf("round trip lost header fields: %+v", decoded)
	}
	if len(decoded.Steps) != 2 || decoded.Steps[0].Type != "join-session" || !decoded.Steps[1].Ready {
		t.Fatalf("round trip lost steps: %+v", decoded.Steps)
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	if _, err := Decode([]byte(`{"version": 99}`)); err == nil {
		t.Fatal("expected unknown transcript version to be rejected")
	}
}

// A session recorded live replays to a byte-identical final state: same
// hands, same mandates, same log.
func TestRecordedSessionReplaysIdentically(t *testing.T) {
	catalog := card.BaseCatalog()
	spec := testSpec(101)
	cfg := buildConfig(spec)

	engine, err := mandat.NewEngine(cfg, catalog)
	if err != nil {
		t.Fatalf("NewEngine err: %v", err)
	}
	rec := NewRecorder("live_session", cfg)
	state := engine.NewSession("live_session")

	submit := func(a mandat.Action) {
		t.Helper()
		next, err := engine.Apply(state, a)
		if err != nil {
			t.Fatalf("apply %s err: %v", a.Type, err)
		}
		state = next
		rec.Append(a)
	}

	submit(mandat.Action{Type: mandat.ActionTypeJoin, PlayerID: "alice"})
	submit(mandat.Action{Type: mandat.ActionTypeJoin, PlayerID: "bob"})
	submit(mandat.Action{Type: mandat.ActionTypeReady, PlayerID: "alice", Ready: true})
	submit(mandat.Action{Type: mandat.ActionTypeReady, PlayerID: "bob", Ready: true})
	submit(mandat.Action{Type: mandat.ActionTypeStart, PlayerID: "alice"})

	for steps := 0; state.Status != mandat.StatusCompleted; steps++ {
		if steps > 500 {
			t.Fatalf("session did not complete (phase %s round %d)", state.Phase, state.Round)
		}
		pending := state.PendingDeciders()
		if len(pending) == 0 {
			t.Fatal("active session with no pending deciders")
		}
		submit(nextDecision(t, engine, state, pending[0]))
	}

	replayed, err := Run(rec.Transcript(), catalog)
	if err != nil {
		t.Fatalf("replay err: %v", err)
	}

	// The transcript stores the live session id, so the states must match
	// byte for byte.
	liveJSON, err := json.Marshal(state)
	if err != nil {
		t.Fatal(err)
	}
	replayJSON, err := json.Marshal(replayed)
	if err != nil {
		t.Fatal(err)
	}
	if string(liveJSON) != string(replayJSON) {
		t.Fatal("replayed state diverges from the live session")
	}
}

// nextDecision mirrors the simplest legal choice for a pending player.
func nextDecision(t *testing.T, e *mandat.Engine, s *mandat.SessionState, playerID string) mandat.Action {
	t.Helper()
	p := s.PlayerByID(playerID)
	switch s.Phase {
	case mandat.PhaseTypeMomentum:
		return mandat.Action{Type: mandat.ActionTypeRollMomentum, PlayerID: playerID}
	case mandat.PhaseTypeCoalition:
		return mandat.Action{Type: mandat.ActionTypeEndTurn, PlayerID: playerID}
	case mandat.PhaseTypeCharacter:
		for _, id := range p.Hand {
			if c := e.Catalog().Get(id); c != nil && c.Type == card.TypeCharacter {
				return mandat.Action{Type: mandat.ActionTypePlayCharacter, PlayerID: playerID, CardID: id}
			}
		}
		return mandat.Action{Type: mandat.ActionTypeDrawCard, PlayerID: playerID}
	case mandat.PhaseTypeSpecial:
		return mandat.Action{Type: mandat.ActionTypeSkipSpecial, PlayerID: playerID}
	}
	t.Fatalf("no decision available in phase %s", s.Phase)
	return mandat.Action{}
}
