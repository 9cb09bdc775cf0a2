package auth

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{2,31}$`)

// Identity is a resolved account. The username doubles as the stable
// player id on the game wire.
type Identity struct {
	AccountID uint64
	Username  string
}

func (i Identity) PlayerID() string { return i.Username }

// Service is the auth contract consumed by gateway and HTTP handlers.
type Service interface {
	Register(username, password string) (Identity, string, error)
	Login(username, password string) (Identity, string, error)
	ResolveSession(token string) (Identity, bool)
	Logout(token string)
	Close() error
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(strings.TrimSpace(username)) {
		return ErrInvalidUsername
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 || len(password) > 72 {
		return ErrInvalidPassword
	}
	return nil
}
