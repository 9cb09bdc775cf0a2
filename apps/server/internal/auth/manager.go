package auth

import (
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type accountRow struct {
	ID           uint64
	Username     string
	PasswordHash string
}

var errAccountNotFound = errors.New("account not found")

// accountStore is the persistence contract behind Manager. Each backend
// stores accounts and the set of revoked token ids.
type accountStore interface {
	CreateAccount(username, passwordHash string, now time.Time) (uint64, error)
	LookupAccount(username string) (accountRow, error)
	TouchLogin(accountID uint64, now time.Time) error
	RevokeToken(jti string, expiresAt time.Time) error
	TokenRevoked(jti string) (bool, error)
	Close() error
}

// Manager implements Service over any accountStore.
type Manager struct {
	store  accountStore
	tokens *TokenIssuer
}

func NewManager(store accountStore, tokens *TokenIssuer) *Manager {
	return &Manager{store: store, tokens: tokens}
}

func (m *Manager) Register(username, password string) (Identity, string, error) {
	if err := validateUsername(username); err != nil {
		return Identity{}, "", err
	}
	if err := validatePassword(password); err != nil {
		return Identity{}, "", err
	}
	normalized := normalizeUsername(username)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, "", err
	}
	accountID, err := m.store.CreateAccount(normalized, string(hash), time.Now().UTC())
	if err != nil {
		return Identity{}, "", err
	}
	ident := Identity{AccountID: accountID, Username: normalized}
	token, err := m.tokens.Issue(ident)
	if err != nil {
		return Identity{}, "", err
	}
	log.Printf("[Auth] registered account %s (id=%d)", normalized, accountID)
	return ident, token, nil
}

func (m *Manager) Login(username, password string) (Identity, string, error) {
	normalized := normalizeUsername(username)
	row, err := m.store.LookupAccount(normalized)
	if err != nil {
		if errors.Is(err, errAccountNotFound) {
			return Identity{}, "", ErrInvalidCredentials
		}
		return Identity{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return Identity{}, "", ErrInvalidCredentials
	}
	if err := m.store.TouchLogin(row.ID, time.Now().UTC()); err != nil {
		log.Printf("[Auth] touch login for %s: %v", normalized, err)
	}
	ident := Identity{AccountID: row.ID, Username: row.Username}
	token, err := m.tokens.Issue(ident)
	if err != nil {
		return Identity{}, "", err
	}
	return ident, token, nil
}

func (m *Manager) ResolveSession(token string) (Identity, bool) {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		return Identity{}, false
	}
	revoked, err := m.store.TokenRevoked(claims.ID)
	if err != nil {
		log.Printf("[Auth] revocation check: %v", err)
		return Identity{}, false
	}
	if revoked {
		return Identity{}, false
	}
	return Identity{AccountID: claims.AccountID, Username: claims.Username}, true
}

func (m *Manager) Logout(token string) {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		return
	}
	expiresAt := time.Now().UTC().Add(m.tokens.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := m.store.RevokeToken(claims.ID, expiresAt); err != nil {
		log.Printf("[Auth] revoke token: %v", err)
	}
}

func (m *Manager) Close() error {
	return m.store.Close()
}
