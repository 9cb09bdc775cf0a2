package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"mandat-lite/replay"
)

func sampleRecord(id string, finished time.Time, players ...string) SessionRecord {
	rec := SessionRecord{
		SessionID:  id,
		FinishedAt: finished,
		Rounds:     3,
		WinnerIDs:  []string{players[0]},
		Transcript: &replay.Transcript{
			Version:   replay.TranscriptVersion,
			SessionID: id,
			Config:    replay.ConfigSpec{Seed: 7},
			Steps: []replay.StepSpec{
				{Type: "join-session", PlayerID: players[0]},
			},
		},
	}
	for i, p := range players {
		rec.Standings = append(rec.Standings, Standing{
			PlayerID: p,
			Name:     p,
			Mandates: len(players) - i,
		})
	}
	return rec
}

// backend runs the same contract checks against any archive implementation.
func backend(t *testing.T, svc Service) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := svc.SaveSession(ctx, sampleRecord("s_old", base, "alice", "bob")); err != nil {
		t.Fatalf("save err: %v", err)
	}
	if err := svc.SaveSession(ctx, sampleRecord("s_new", base.Add(time.Hour), "carol", "bob")); err != nil {
		t.Fatalf("save err: %v", err)
	}

	rec, err := svc.GetSession(ctx, "s_old")
	if err != nil {
		t.Fatalf("get err: %v", err)
	}
	if rec.Rounds != 3 || len(rec.Standings) != 2 || rec.WinnerIDs[0] != "alice" {
		t.Fatalf("record lost fields: %+v", rec)
	}
	if _, err := svc.GetSession(ctx, "s_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Listing: newest first, transcripts stripped, player filter applied.
	all, err := svc.ListRecent(ctx, "", 10)
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if len(all) != 2 || all[0].SessionID != "s_new" {
		t.Fatalf("unexpected listing %+v", all)
	}
	for _, r := range all {
		if r.Transcript != nil {
			t.Fatalf("listing leaked the transcript of %s", r.SessionID)
		}
	}

	bobOnly, err := svc.ListRecent(ctx, "bob", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(bobOnly) != 2 {
		t.Fatalf("bob played both sessions, listing has %d", len(bobOnly))
	}
	aliceOnly, err := svc.ListRecent(ctx, "alice", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(aliceOnly) != 1 || aliceOnly[0].SessionID != "s_old" {
		t.Fatalf("unexpected filtered listing %+v", aliceOnly)
	}

	tr, err := svc.GetTranscript(ctx, "s_new")
	if err != nil {
		t.Fatalf("transcript err: %v", err)
	}
	if tr.SessionID != "s_new" || len(tr.Steps) != 1 {
		t.Fatalf("transcript lost fields: %+v", tr)
	}
	if _, err := svc.GetTranscript(ctx, "s_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryServiceContract(t *testing.T) {
	svc := NewMemoryService()
	t.Cleanup(func() { _ = svc.Close() })
	backend(t, svc)
}

func TestSQLiteServiceContract(t *testing.T) {
	svc, err := NewSQLiteService(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteService err: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	backend(t, svc)
}

func TestSaveSessionRejectsEmptyID(t *testing.T) {
	svc := NewMemoryService()
	if err := svc.SaveSession(context.Background(), SessionRecord{}); err == nil {
		t.Fatal("expected empty session id to be rejected")
	}
}

func TestSaveSessionOverwrites(t *testing.T) {
	svc := NewMemoryService()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := svc.SaveSession(ctx, sampleRecord("s1", base, "alice")); err != nil {
		t.Fatal(err)
	}
	updated := sampleRecord("s1", base, "alice")
	updated.Rounds = 9
	if err := svc.SaveSession(ctx, updated); err != nil {
		t.Fatal(err)
	}

	rec, err := svc.GetSession(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Rounds != 9 {
		t.Fatalf("overwrite lost the update, rounds=%d", rec.Rounds)
	}
}
