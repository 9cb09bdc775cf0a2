package card

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Catalog is the read-only card lookup shared by every session. It owns no
// game state; writes only happen during loading.
type Catalog struct {
	mu    sync.RWMutex
	cards map[string]*Card
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{cards: make(map[string]*Card)}
}

// BaseCatalog returns a catalog preloaded with the built-in card set.
func BaseCatalog() *Catalog {
	c := NewCatalog()
	for i := range BaseCards {
		c.cards[BaseCards[i].ID] = &BaseCards[i]
	}
	return c
}

// LoadFromFile loads card definitions from a JSON file.
func (c *Catalog) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}
	return c.LoadFromJSON(data)
}

// LoadFromJSON merges card definitions from raw JSON bytes. Entries without
// an ID are skipped; later entries win on ID collision.
func (c *Catalog) LoadFromJSON(data []byte) error {
	var list []*Card
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse catalog JSON: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range list {
		if entry.ID == "" {
			continue
		}
		c.cards[entry.ID] = entry
	}
	return nil
}

// Get returns a card by ID, or nil when unknown.
func (c *Catalog) Get(id string) *Card {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cards[id]
}

// Has reports whether the ID exists in the catalog.
func (c *Catalog) Has(id string) bool {
	return c.Get(id) != nil
}

// Len returns the number of distinct cards.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cards)
}

// IDs returns all card IDs in sorted order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.cards))
	for id := range c.cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IDsByType returns sorted card IDs filtered by type.
func (c *Catalog) IDsByType(t Type) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.cards))
	for id, entry := range c.cards {
		if entry.Type == t {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
