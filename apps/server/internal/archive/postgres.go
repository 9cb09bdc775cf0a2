package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"mandat-lite/replay"
)

type PostgresService struct {
	db *sql.DB
}

func NewPostgresService(dsn string) (*PostgresService, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensurePostgresArchiveSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PostgresService{db: db}, nil
}

func ensurePostgresArchiveSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS archive_session (
    session_id       TEXT PRIMARY KEY,
    finished_at      TIMESTAMPTZ NOT NULL,
    rounds           INTEGER NOT NULL,
    victor_id        TEXT NOT NULL DEFAULT '',
    winner_ids_json  JSONB NOT NULL DEFAULT '[]',
    standings_json   JSONB NOT NULL DEFAULT '[]',
    transcript_json  JSONB
);
CREATE TABLE IF NOT EXISTS archive_session_player (
    session_id TEXT NOT NULL REFERENCES archive_session(session_id) ON DELETE CASCADE,
    player_id  TEXT NOT NULL,
    PRIMARY KEY (session_id, player_id)
);
CREATE INDEX IF NOT EXISTS idx_archive_session_finished
    ON archive_session (finished_at DESC);
`)
	return err
}

func (s *PostgresService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresService) SaveSession(ctx context.Context, rec SessionRecord) error {
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
    session_id, finished_at, rounds, victor_id, winner_ids_json, standings_json, transcript_json
)
VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7::jsonb)
ON CONFLICT (session_id) DO UPDATE
SET
    finished_at = EXCLUDED.finished_at,
    rounds = EXCLUDED.rounds,
    victor_id = EXCLUDED.victor_id,
    winner_ids_json = EXCLUDED.winner_ids_json,
    standings_json = EXCLUDED.standings_json,
    transcript_json = COALESCE(EXCLUDED.transcript_json, archive_session.transcript_json)
`, rec.SessionID, rec.FinishedAt, rec.Rounds, rec.VictorID,
		string(winnersRaw), string(standingsRaw), transcriptRaw); err != nil {
		return err
	}

	for _, st := range rec.Standings {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO archive_session_player (session_id, player_id)
VALUES ($1, $2)
ON CONFLICT (session_id, player_id) DO NOTHING
`, rec.SessionID, st.PlayerID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresService) GetSession(ctx context.Context, sessionID string) (SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT session_id, finished_at, rounds, victor_id, winner_ids_json::text, standings_json::text
FROM archive_session
WHERE session_id = $1
`, sessionID)
	return scanPostgresRecord(row)
}

func (s *PostgresService) ListRecent(ctx context.Context, playerID string, limit int) ([]SessionRecord, error) {
	limit = clampLimit(limit)

	query := `
SELECT s.session_id, s.finished_at, s.rounds, s.victor_id, s.winner_ids_json::text, s.standings_json::text
FROM archive_session s
ORDER BY s.finished_at DESC
LIMIT $1
`
	args := []any{limit}
	if playerID != "" {
		query = `
SELECT s.session_id, s.finished_at, s.rounds, s.victor_id, s.winner_ids_json::text, s.standings_json::text
FROM archive_session s
JOIN archive_session_player p ON p.session_id = s.session_id
WHERE p.player_id = $1
ORDER BY s.finished_at DESC
LIMIT $2
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
		rec, err := scanPostgresRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresService) GetTranscript(ctx context.Context, sessionID string) (*replay.Transcript, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `
SELECT transcript_json::text
FROM archive_session
WHERE session_id = $1
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

func scanPostgresRecord(row rowScanner) (SessionRecord, error) {
	var rec SessionRecord
	var winnersRaw, standingsRaw string
	err := row.Scan(&rec.SessionID, &rec.FinishedAt, &rec.Rounds, &rec.VictorID, &winnersRaw, &standingsRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, ErrNotFound
	}
	if err != nil {
		return SessionRecord{}, err
	}
	rec.FinishedAt = rec.FinishedAt.UTC()
	if err := json.Unmarshal([]byte(winnersRaw), &rec.WinnerIDs); err != nil {
		return SessionRecord{}, err
	}
	if err := json.Unmarshal([]byte(standingsRaw), &rec.Standings); err != nil {
		return SessionRecord{}, err
	}
	return rec, nil
}
