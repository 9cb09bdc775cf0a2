package decks

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

	"mandat-lite/card"
	"mandat-lite/mandat"
)

// SQLiteService persists decks in a local sqlite file.
type SQLiteService struct {
	db      *sql.DB
	catalog *card.Catalog
}

func NewSQLiteService(dbPath string, catalog *card.Catalog) (*SQLiteService, error) {
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
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS saved_deck (
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    pool_json TEXT NOT NULL,
    updated_at_ms INTEGER NOT NULL,
    PRIMARY KEY (owner_id, name)
)`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{db: db, catalog: catalog}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) SaveDeck(ctx context.Context, ownerID, name string, pool []string) error {
	if err := validateName(name); err != nil {
		return err
	}
	report := mandat.ValidateDeck(s.catalog, pool)
	if !report.OK {
		return fmt.Errorf("illegal deck: %s", strings.Join(report.Violations, "; "))
	}

	poolJSON, err := json.Marshal(pool)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO saved_deck (owner_id, name, pool_json, updated_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT(owner_id, name) DO UPDATE SET
    pool_json = excluded.pool_json,
    updated_at_ms = excluded.updated_at_ms
`, ownerID, name, string(poolJSON), time.Now().UTC().UnixMilli())
	return err
}

func (s *SQLiteService) GetDeck(ctx context.Context, ownerID, name string) (SavedDeck, error) {
	var (
		poolJSON    string
		updatedAtMs int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT pool_json, updated_at_ms
FROM saved_deck
WHERE owner_id = ? AND name = ?
`, ownerID, name).Scan(&poolJSON, &updatedAtMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedDeck{}, ErrNotFound
		}
		return SavedDeck{}, err
	}
	return decodeDeck(ownerID, name, poolJSON, updatedAtMs)
}

func (s *SQLiteService) ListDecks(ctx context.Context, ownerID string) ([]SavedDeck, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT name, pool_json, updated_at_ms
FROM saved_deck
WHERE owner_id = ?
ORDER BY updated_at_ms DESC
`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedDeck
	for rows.Next() {
		var (
			name        string
			poolJSON    string
			updatedAtMs int64
		)
		if err := rows.Scan(&name, &poolJSON, &updatedAtMs); err != nil {
			return nil, err
		}
		deck, err := decodeDeck(ownerID, name, poolJSON, updatedAtMs)
		if err != nil {
			return nil, err
		}
		out = append(out, deck)
	}
	return out, rows.Err()
}

func (s *SQLiteService) DeleteDeck(ctx context.Context, ownerID, name string) error {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM saved_deck
WHERE owner_id = ? AND name = ?
`, ownerID, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeDeck(ownerID, name, poolJSON string, updatedAtMs int64) (SavedDeck, error) {
	var pool []string
	if err := json.Unmarshal([]byte(poolJSON), &pool); err != nil {
		return SavedDeck{}, fmt.Errorf("corrupt deck record %s/%s: %w", ownerID, name, err)
	}
	return SavedDeck{
		OwnerID:   ownerID,
		Name:      name,
		Pool:      pool,
		UpdatedAt: time.UnixMilli(updatedAtMs).UTC(),
	}, nil
}
