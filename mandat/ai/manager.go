package ai

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"mandat-lite/card"
	"mandat-lite/mandat"
)

// Manager owns the policies of every AI seat in a session. It is safe for
// concurrent use; the controller calls it from its event loop and from
// timer callbacks.
type Manager struct {
	mu      sync.RWMutex
	catalog *card.Catalog
	rng     *rand.Rand

	policies map[string]*RulePolicy
	tiers    map[string]Tier
}

func NewManager(catalog *card.Catalog, seed int64) *Manager {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		catalog:  catalog,
		rng:      rand.New(rand.NewSource(seed)),
		policies: make(map[string]*RulePolicy),
		tiers:    make(map[string]Tier),
	}
}

// Register attaches a policy of the given tier to a player. Re-registering
// replaces the previous policy.
func (m *Manager) Register(playerID string, tier Tier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[playerID] = NewRulePolicy(tier, m.catalog, m.rng.Int63())
	m.tiers[playerID] = tier
	log.Printf("[AI] registered %s policy for player %s", tier, playerID)
}

// Unregister drops the policy for a player that left the session.
func (m *Manager) Unregister(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.policies, playerID)
	delete(m.tiers, playerID)
}

// IsManaged reports whether the player is driven by this manager.
func (m *Manager) IsManaged(playerID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.policies[playerID]
	return ok
}

// ThinkDelay returns the pacing delay for the player's tier.
func (m *Manager) ThinkDelay(playerID string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tier, ok := m.tiers[playerID]; ok {
		return tier.ThinkDelay()
	}
	return 0
}

// Decide asks the player's policy for its next action.
func (m *Manager) Decide(s *mandat.SessionState, playerID string) (mandat.Action, bool) {
	m.mu.RLock()
	p, ok := m.policies[playerID]
	m.mu.RUnlock()
	if !ok {
		return mandat.Action{}, false
	}
	return p.Decide(s, playerID)
}

// Pending filters the session's pending deciders down to managed players.
func (m *Manager) Pending(s *mandat.SessionState) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for _, id := range s.PendingDeciders() {
		if _, ok := m.policies[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
