package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

func newSQLiteStore(dbPath string) (*sqliteStore, error) {
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
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteAuthSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) CreateAccount(username, passwordHash string, now time.Time) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nowMs := now.UnixMilli()
	res, err := s.db.ExecContext(ctx, `
INSERT INTO accounts (
    username, password_hash, created_at_ms, updated_at_ms, last_login_at_ms
)
VALUES (?, ?, ?, ?, ?)
`, username, passwordHash, nowMs, nowMs, nowMs)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (s *sqliteStore) LookupAccount(username string) (accountRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var row accountRow
	err := s.db.QueryRowContext(ctx, `
SELECT id, username, password_hash
FROM accounts
WHERE username = ?
`, username).Scan(&row.ID, &row.Username, &row.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accountRow{}, errAccountNotFound
		}
		return accountRow{}, err
	}
	return row, nil
}

func (s *sqliteStore) TouchLogin(accountID uint64, now time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nowMs := now.UnixMilli()
	_, err := s.db.ExecContext(ctx, `
UPDATE accounts
SET last_login_at_ms = ?,
    updated_at_ms = ?
WHERE id = ?
`, nowMs, nowMs, accountID)
	return err
}

func (s *sqliteStore) RevokeToken(jti string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nowMs := time.Now().UTC().UnixMilli()
	if _, err := s.db.ExecContext(ctx, `
DELETE FROM revoked_tokens WHERE expires_at_ms < ?
`, nowMs); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO revoked_tokens (jti, expires_at_ms)
VALUES (?, ?)
ON CONFLICT(jti) DO NOTHING
`, jti, expiresAt.UnixMilli())
	return err
}

func (s *sqliteStore) TokenRevoked(jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var one int
	err := s.db.QueryRowContext(ctx, `
SELECT 1
FROM revoked_tokens
WHERE jti = ?
  AND expires_at_ms >= ?
`, jti, time.Now().UTC().UnixMilli()).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func ensureSQLiteAuthSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL,
    last_login_at_ms INTEGER
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_accounts_username_ci ON accounts(lower(username))`,
		`
CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti TEXT PRIMARY KEY,
    expires_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expiry ON revoked_tokens(expires_at_ms)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isSQLiteUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
