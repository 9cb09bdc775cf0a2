package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager(newMemoryStore(), NewTokenIssuer("test-secret-key", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	m := newTestManager()

	ident, token, err := m.Register("alice_01", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if ident.AccountID == 0 {
		t.Fatalf("expected account id")
	}
	if ident.PlayerID() != "alice_01" {
		t.Fatalf("expected player id alice_01, got %s", ident.PlayerID())
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	resolved, ok := m.ResolveSession(token)
	if !ok {
		t.Fatalf("expected valid session")
	}
	if resolved.AccountID != ident.AccountID {
		t.Fatalf("expected same account id, got %d and %d", ident.AccountID, resolved.AccountID)
	}
	if resolved.Username != "alice_01" {
		t.Fatalf("expected username alice_01, got %s", resolved.Username)
	}

	loginIdent, loginToken, err := m.Login("alice_01", "secret12")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loginIdent.AccountID != ident.AccountID {
		t.Fatalf("expected same account id after login")
	}
	if loginToken == "" {
		t.Fatalf("expected login token")
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	m := newTestManager()
	if _, _, err := m.Register("alice_01", "secret12"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := m.Register("Alice_01", "secret12"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	m := newTestManager()
	if _, _, err := m.Register("a", "secret12"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
	if _, _, err := m.Register("alice_01", "short"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	m := newTestManager()
	if _, _, err := m.Register("alice_01", "secret12"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := m.Login("alice_01", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := m.Login("never_seen", "secret12"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	m := newTestManager()
	_, token, err := m.Register("alice_01", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	m.Logout(token)
	if _, ok := m.ResolveSession(token); ok {
		t.Fatalf("expected logged out token to be invalid")
	}
}
