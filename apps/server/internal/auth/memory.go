package auth

import (
	"sync"
	"time"
)

// memoryStore keeps accounts and revoked tokens in process memory.
// Suitable for single-binary deployments and tests.
type memoryStore struct {
	mu sync.Mutex

	nextAccountID uint64
	accountsByKey map[string]accountRow
	revoked       map[string]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextAccountID: 100000, // start from a readable non-trivial range
		accountsByKey: make(map[string]accountRow),
		revoked:       make(map[string]time.Time),
	}
}

func (s *memoryStore) CreateAccount(username, passwordHash string, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accountsByKey[username]; exists {
		return 0, ErrUsernameTaken
	}
	s.nextAccountID++
	s.accountsByKey[username] = accountRow{
		ID:           s.nextAccountID,
		Username:     username,
		PasswordHash: passwordHash,
	}
	return s.nextAccountID, nil
}

func (s *memoryStore) LookupAccount(username string) (accountRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.accountsByKey[username]
	if !exists {
		return accountRow{}, errAccountNotFound
	}
	return row, nil
}

func (s *memoryStore) TouchLogin(accountID uint64, now time.Time) error {
	return nil
}

func (s *memoryStore) RevokeToken(jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[jti] = expiresAt
	return nil
}

func (s *memoryStore) TokenRevoked(jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, exists := s.revoked[jti]
	if !exists {
		return false, nil
	}
	if exp.Before(time.Now()) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) Close() error { return nil }
