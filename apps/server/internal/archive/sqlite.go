package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mandat-lite/replay"
)

type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteArchiveSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{db: db}, nil
}

func ensureSQLiteArchiveSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS archive_session (
    session_id       TEXT PRIMARY KEY,
    finished_at_ms   INTEGER NOT NULL,
    rounds           INTEGER NOT NULL,
    victor_id        TEXT NOT NULL DEFAULT '',
    winner_ids_json  TEXT NOT NULL DEFAULT '[]',
    standings_json   TEXT NOT NULL DEFAULT '[]',
    transcript_json  TEXT
);
CREATE TABLE IF NOT EXISTS archive_session_player (
    session_id TEXT NOT NULL,
    player_id  TEXT NOT NULL,
    PRIMARY KEY (session_id, player_id),
    FOREIGN KEY (session_id) REFERENCES archive_session(session_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_archive_session_finished
    ON archive_session (finished_at_ms DESC);
`)
	return err
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) SaveSession(ctx context.Context, rec SessionRecord) error {
	if strings.TrimSpace(rec.SessionID) == "" {
		return errors.New("empty session id")
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}

	winnersRaw, err := json.Marshal(rec.WinnerIDs)
	if err != nil {
		return err
	}
	standingsRaw, err := json.Marshal(rec.Standings)
	if err != nil {
		return err
	}
	var transcriptRaw any
	if rec.Transcript != nil {
		raw, err := json.Marshal(rec.Transcript)
		if err != nil {
			return err
		}
		transcriptRaw = string(raw)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO archive_session (
    session_id, finished_at_ms, rounds, victor_id, winner_ids_json, standings_json, transcript_json
)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (session_id) DO UPDATE
SET
    finished_at_ms = excluded.finished_at_ms,
    rounds = excluded.rounds,
    victor_id = excluded.victor_id,
    winner_ids_json = excluded.winner_ids_json,
    standings_json = excluded.standings_json,
    transcript_json = COALESCE(excluded.transcript_json, archive_session.transcript_json)
`, rec.SessionID, rec.FinishedAt.UnixMilli(), rec.Rounds, rec.VictorID,
		string(winnersRaw), string(standingsRaw), transcriptRaw); err != nil {
		return err
	}

	for _, st := range rec.Standings {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO archive_session_player (session_id, player_id)
VALUES (?, ?)
ON CONFLICT (session_id, player_id) DO NOTHING
`, rec.SessionID, st.PlayerID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteService) GetSession(ctx context.Context, sessionID string) (SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT session_id, finished_at_ms, rounds, victor_id, winner_ids_json, standings_json
FROM archive_session
WHERE session_id = ?
`, sessionID)
	return scanRecord(row)
}

func (s *SQLiteService) ListRecent(ctx context.Context, playerID string, limit int) ([]SessionRecord, error) {
	limit = clampLimit(limit)

	query := `
SELECT s.session_id, s.finished_at_ms, s.rounds, s.victor_id, s.winner_ids_json, s.standings_json
FROM archive_session s
ORDER BY s.finished_at_ms DESC
LIMIT ?
`
	args := []any{limit}
	if playerID != "" {
		query = `
SELECT s.session_id, s.finished_at_ms, s.rounds, s.victor_id, s.winner_ids_json, s.standings_json
FROM archive_session s
JOIN archive_session_player p ON p.session_id = s.session_id
WHERE p.player_id = ?
ORDER BY s.finished_at_ms DESC
LIMIT ?
`
		args = []any{playerID, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]SessionRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteService) GetTranscript(ctx context.Context, sessionID string) (*replay.Transcript, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `
SELECT transcript_json
FROM archive_session
WHERE session_id = ?
`, sessionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !raw.Valid || raw.String == "" {
		return nil, ErrNotFound
	}
	return replay.Decode([]byte(raw.String))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (SessionRecord, error) {
	var rec SessionRecord
	var finishedMs int64
	var winnersRaw, standingsRaw string
	err := row.Scan(&rec.SessionID, &finishedMs, &rec.Rounds, &rec.VictorID, &winnersRaw, &standingsRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, ErrNotFound
	}
	if err != nil {
		return SessionRecord{}, err
	}
	rec.FinishedAt = time.UnixMilli(finishedMs).UTC()
	if err := json.Unmarshal([]byte(winnersRaw), &rec.WinnerIDs); err != nil {
		return SessionRecord{}, err
	}
	if err := json.Unmarshal([]byte(standingsRaw), &rec.Standings); err != nil {
		return SessionRecord{}, err
	}
	return rec, nil
}
