package codec

import (
	"testing"
	"time"

	"mandat-lite/card"
	"mandat-lite/mandat"
)

func TestDecodeClientRequiresType(t *testing.T) {
	if _, err := DecodeClient([]byte(`{"sessionId": "s1"}`)); err == nil {
		t.Fatal("expected envelope without type to be rejected")
	}
	if _, err := DecodeClient([]byte(`not json`)); err == nil {
		t.Fatal("expected malformed JSON to be rejected")
	}

	env, err := DecodeClient([]byte(`{"type": "join-session", "sessionId": "s1", "name": "Alice"}`))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if env.Type != "join-session" || env.SessionID != "s1" || env.Name != "Alice" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestActionFromEnvelope(t *testing.T) {
	env := &ClientEnvelope{
		Type:     "play-special",
		CardID:   "spec_rally",
		OpenFace: true,
	}
	action, ok := ActionFromEnvelope(env, "alice")
	if !ok {
		t.Fatal("expected a gameplay action")
	}
	if action.Type != mandat.ActionTypePlaySpecial || action.PlayerID != "alice" ||
		action.CardID != "spec_rally" || !action.OpenFace {
		t.Fatalf("unexpected action %+v", action)
	}

	// The authenticated player id always wins; the envelope cannot act for
	// someone else.
	if action.PlayerID != "alice" {
		t.Fatalf("action attributed to %q", action.PlayerID)
	}

	for _, nonAction := range []string{ClientTypeCreateSession, ClientTypeListSessions, ClientTypeAddAI, "bogus"} {
		if _, ok := ActionFromEnvelope(&ClientEnvelope{Type: nonAction}, "alice"); ok {
			t.Fatalf("%q must not map to an engine action", nonAction)
		}
	}
}

func newCharacterPhaseState(t *testing.T) (*mandat.Engine, *mandat.SessionState) {
	t.Helper()
	n := 0
	cfg := mandat.DefaultConfig()
	cfg.InitialHandSize = 6
	cfg.Seed = 15
	cfg.Clock = func() time.Time {
		n++
		return time.Unix(int64(n), 0).UTC()
	}
	e, err := mandat.NewEngine(cfg, card.BaseCatalog())
	if err != nil {
		t.Fatalf("NewEngine err: %v", err)
	}

	s := e.NewSession("view_test")
	for _, id := range []string{"alice", "bob"} {
		s, err = e.Apply(s, mandat.Action{Type: mandat.ActionTypeJoin, PlayerID: id})
		if err != nil {
			t.Fatal(err)
		}
		s, err = e.Apply(s, mandat.Action{Type: mandat.ActionTypeReady, PlayerID: id, Ready: true})
		if err != nil {
			t.Fatal(err)
		}
	}
	s, err = e.Apply(s, mandat.Action{Type: mandat.ActionTypeStart, PlayerID: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != mandat.PhaseTypeCharacter {
		t.Fatalf("expected character phase, got %s", s.Phase)
	}
	return e, s
}

func TestSessionViewHidesOtherHands(t *testing.T) {
	_, s := newCharacterPhaseState(t)

	view := BuildSessionView(s, "alice")
	for _, pv := range view.Players {
		state := s.PlayerByID(pv.ID)
		if pv.HandCount != len(state.Hand) {
			t.Fatalf("%s hand count %d, want %d", pv.ID, pv.HandCount, len(state.Hand))
		}
		if pv.ID == "alice" {
			if len(pv.Hand) != len(state.Hand) {
				t.Fatalf("viewer's own hand redacted: %v", pv.Hand)
			}
		} else if pv.Hand != nil {
			t.Fatalf("%s's hand leaked to alice: %v", pv.ID, pv.Hand)
		}
	}

	// A spectator projection carries no hands at all.
	spectator := BuildSessionView(s, "")
	for _, pv := range spectator.Players {
		if pv.Hand != nil {
			t.Fatalf("%s's hand leaked to a spectator", pv.ID)
		}
	}
}

func TestSessionViewHidesFaceDownPlays(t *testing.T) {
	e, s := newCharacterPhaseState(t)

	// Alice commits a character face-down.
	var charID string
	for _, id := range s.PlayerByID("alice").Hand {
		if c := e.Catalog().Get(id); c != nil && c.Type == card.TypeCharacter {
			charID = id
			break
		}
	}
	if charID == "" {
		t.Skip("alice drew no characters with this seed")
	}
	s, err := e.Apply(s, mandat.Action{Type: mandat.ActionTypePlayCharacter, PlayerID: "alice", CardID: charID})
	if err != nil {
		t.Fatalf("play character err: %v", err)
	}

	findAlice := func(v *SessionView) PlayerView {
		for _, pv := range v.Players {
			if pv.ID == "alice" {
				return pv
			}
		}
		t.Fatal("alice missing from view")
		return PlayerView{}
	}

	own := findAlice(BuildSessionView(s, "alice"))
	if !own.CharacterCommitted || own.PlayedCharacter != charID {
		t.Fatalf("owner cannot see their own play: %+v", own)
	}

	other := findAlice(BuildSessionView(s, "bob"))
	if !other.CharacterCommitted {
		t.Fatal("commitment flag hidden from opponent")
	}
	if other.PlayedCharacter != "" {
		t.Fatalf("face-down character %q leaked to opponent", other.PlayedCharacter)
	}
}

func TestWrapStampsEnvelope(t *testing.T) {
	restore := nowMs
	nowMs = func() int64 { return 12345 }
	defer func() { nowMs = restore }()

	env := Wrap("s1", 7, &SessionView{ID: "s1"})
	if env.Type != ServerTypeSessionState || env.SessionID != "s1" || env.ServerSeq != 7 || env.ServerTsMs != 12345 {
		t.Fatalf("unexpected envelope %+v", env)
	}
}
