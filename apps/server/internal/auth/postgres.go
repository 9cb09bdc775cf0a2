package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type postgresStore struct {
	db *sql.DB
}

func newPostgresStore(dsn string) (*postgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
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
	if err := ensurePostgresAuthSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &postgresStore{db: db}, nil
}

func (s *postgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *postgresStore) CreateAccount(username, passwordHash string, now time.Time) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id uint64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO accounts (username, password_hash, created_at, updated_at, last_login_at)
VALUES ($1, $2, $3, $3, $3)
RETURNING id
`, username, passwordHash, now).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	return id, nil
}

func (s *postgresStore) LookupAccount(username string) (accountRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var row accountRow
	err := s.db.QueryRowContext(ctx, `
SELECT id, username, password_hash
FROM accounts
WHERE username = $1
`, username).Scan(&row.ID, &row.Username, &row.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accountRow{}, errAccountNotFound
		}
		return accountRow{}, err
	}
	return row, nil
}

func (s *postgresStore) TouchLogin(accountID uint64, now time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
UPDATE accounts
SET last_login_at = $2,
    updated_at = $2
WHERE id = $1
`, accountID, now)
	return err
}

func (s *postgresStore) RevokeToken(jti string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `
DELETE FROM revoked_tokens WHERE expires_at < NOW()
`); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO revoked_tokens (jti, expires_at)
VALUES ($1, $2)
ON CONFLICT (jti) DO NOTHING
`, jti, expiresAt)
	return err
}

func (s *postgresStore) TokenRevoked(jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var one int
	err := s.db.QueryRowContext(ctx, `
SELECT 1
FROM revoked_tokens
WHERE jti = $1
  AND expires_at >= NOW()
`, jti).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func ensurePostgresAuthSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS accounts (
    id BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    last_login_at TIMESTAMPTZ
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_accounts_username_ci ON accounts(lower(username))`,
		`
CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti TEXT PRIMARY KEY,
    expires_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expiry ON revoked_tokens(expires_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
