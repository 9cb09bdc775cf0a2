package decks

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("deck not found")
	ErrInvalidName = errors.New("invalid deck name")
)

const maxDeckNameLen = 64

// SavedDeck is one named card pool belonging to an account.
type SavedDeck struct {
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Pool      []string  `json:"pool"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service stores player deck pools between sessions. Pools are validated
// against the deck-building rules before they are written.
type Service interface {
	Close() error
	SaveDeck(ctx context.Context, ownerID, name string, pool []string) error
	GetDeck(ctx context.Context, ownerID, name string) (SavedDeck, error)
	ListDecks(ctx context.Context, ownerID string) ([]SavedDeck, error)
	DeleteDeck(ctx context.Context, ownerID, name string) error
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || len(name) > maxDeckNameLen {
		return ErrInvalidName
	}
	return nil
}
