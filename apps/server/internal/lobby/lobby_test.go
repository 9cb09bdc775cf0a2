package lobby

import (
	"testing"

	"mandat-lite/apps/server/internal/archive"
	"mandat-lite/apps/server/internal/config"
	"mandat-lite/card"
	"mandat-lite/mandat"
)

func newTestLobby(t *testing.T) *Lobby {
	t.Helper()
	cfg := config.Config{
		SessionSeed: 99,
		MaxRounds:   2,
	}
	l, err := New(cfg, card.BaseCatalog(), archive.NewMemoryService())
	if err != nil {
		t.Fatalf("New lobby err: %v", err)
	}
	t.Cleanup(l.Close)
	return l
}

func discard(string, []byte) {}

func TestCreateAndLookup(t *testing.T) {
	l := newTestLobby(t)

	s, err := l.Create(discard, Overrides{})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if got := l.Get(s.ID); got != s {
		t.Fatalf("Get(%s) returned %v", s.ID, got)
	}
	if l.Get("session_missing") != nil {
		t.Fatal("expected nil for an unknown session id")
	}

	list := l.List()
	if len(list) != 1 || list[0].ID != s.ID {
		t.Fatalf("unexpected listing %+v", list)
	}
	if list[0].Status != mandat.StatusLobby.String() {
		t.Fatalf("fresh session listed as %s", list[0].Status)
	}
	if len(l.Recent()) != 0 {
		t.Fatal("expected no recent results yet")
	}
}

func TestConfigOverridesApply(t *testing.T) {
	l := newTestLobby(t)
	s, err := l.Create(discard, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.MaxRounds != 2 {
		t.Fatalf("expected the configured round limit, got %d", snap.MaxRounds)
	}
}

func TestCreatorOverridesWinOverServerConfig(t *testing.T) {
	l := newTestLobby(t)
	s, err := l.Create(discard, Overrides{MaxRounds: 7, MandateThreshold: 20})
	if err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.MaxRounds != 7 || snap.MandateThreshold != 20 {
		t.Fatalf("creator overrides not applied: rounds=%d threshold=%d",
			snap.MaxRounds, snap.MandateThreshold)
	}

	if _, err := l.Create(discard, Overrides{MaxPlayers: 1}); err == nil {
		t.Fatal("expected an unplayable seat count to be rejected")
	}
}

func TestFindSessionOf(t *testing.T) {
	l := newTestLobby(t)
	s, err := l.Create(discard, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Submit(mandat.Action{Type: mandat.ActionTypeJoin, PlayerID: "alice"}); err != nil {
		t.Fatal(err)
	}

	if got := l.FindSessionOf("alice"); got != s {
		t.Fatalf("FindSessionOf returned %v", got)
	}
	if l.FindSessionOf("bob") != nil {
		t.Fatal("expected nil for a player without a seat")
	}
}

func TestReapRemovesStoppedSessions(t *testing.T) {
	l := newTestLobby(t)
	s, err := l.Create(discard, Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	// A stopped session is immediately idle regardless of TTL.
	s.Stop()
	l.reap()

	if l.Get(s.ID) != nil {
		t.Fatal("expected the stopped session to be reaped")
	}
	if len(l.List()) != 0 {
		t.Fatal("expected an empty listing after the reap")
	}
}

func TestCloseStopsEverySession(t *testing.T) {
	l := newTestLobby(t)
	a, err := l.Create(discard, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := l.Create(discard, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatal("expected distinct session ids")
	}

	l.Close()
	if !a.IsClosed() || !b.IsClosed() {
		t.Fatal("expected every session stopped after Close")
	}
	if len(l.List()) != 0 {
		t.Fatal("expected the registry to be emptied")
	}
}
