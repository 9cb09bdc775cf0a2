package lobby

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"mandat-lite/apps/server/internal/archive"
	"mandat-lite/apps/server/internal/codec"
	"mandat-lite/apps/server/internal/config"
	"mandat-lite/apps/server/internal/session"
	"mandat-lite/card"
	"mandat-lite/mandat"
)

const (
	idleSessionTTL    = 5 * time.Minute
	finishedLingerTTL = time.Minute
	reapInterval      = 30 * time.Second
	recentCacheSize   = 64
)

// Lobby manages the live session registry and a small cache of recently
// finished results for the landing screen.
type Lobby struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	catalog *card.Catalog
	cfg     config.Config
	archive archive.Service
	rng     *rand.Rand

	recent *lru.Cache[string, codec.SessionSummary]

	stopOnce sync.Once
	done     chan struct{}
}

func New(cfg config.Config, catalog *card.Catalog, archiveService archive.Service) (*Lobby, error) {
	recent, err := lru.New[string, codec.SessionSummary](recentCacheSize)
	if err != nil {
		return nil, err
	}
	l := &Lobby{
		sessions: make(map[string]*session.Session),
		catalog:  catalog,
		cfg:      cfg,
		archive:  archiveService,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		recent:   recent,
		done:     make(chan struct{}),
	}
	go l.reapLoop()
	return l, nil
}

// Overrides are the per-session rule knobs a creator may set. Zero values
// fall back to server configuration.
type Overrides struct {
	MaxPlayers       int
	MaxRounds        int
	MandateThreshold int
}

// Create starts a new session actor. Server-wide rule overrides apply
// first, then the creator's per-session overrides.
func (l *Lobby) Create(broadcastFn func(playerID string, data []byte), over Overrides) (*session.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := "session_" + uuid.New().String()[:8]
	for l.sessions[id] != nil {
		id = "session_" + uuid.New().String()[:8]
	}

	s, err := session.New(id, l.sessionConfig(over), l.catalog, broadcastFn, l.archive)
	if err != nil {
		return nil, err
	}
	l.sessions[id] = s
	log.Printf("[Lobby] Created session %s (%d live)", id, len(l.sessions))
	return s, nil
}

func (l *Lobby) sessionConfig(over Overrides) mandat.Config {
	cfg := mandat.DefaultConfig()
	if l.cfg.MaxRounds > 0 {
		cfg.MaxRounds = l.cfg.MaxRounds
	}
	if l.cfg.MandateThreshold > 0 {
		cfg.MandateThreshold = l.cfg.MandateThreshold
	}
	// Creator overrides win; the engine validates the final values.
	if over.MaxPlayers > 0 {
		cfg.MaxPlayers = over.MaxPlayers
	}
	if over.MaxRounds > 0 {
		cfg.MaxRounds = over.MaxRounds
	}
	if over.MandateThreshold > 0 {
		cfg.MandateThreshold = over.MandateThreshold
	}
	cfg.CoalitionsBlocked = l.cfg.BlockCoalitions
	cfg.Seed = l.cfg.SessionSeed
	if cfg.Seed == 0 {
		cfg.Seed = l.rng.Int63()
	}
	return cfg
}

// Get returns a session by ID, or nil.
func (l *Lobby) Get(sessionID string) *session.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sessions[sessionID]
}

// List returns summaries of every live session.
func (l *Lobby) List() []codec.SessionSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]codec.SessionSummary, 0, len(l.sessions))
	for _, s := range l.sessions {
		out = append(out, s.Summary())
	}
	return out
}

// Recent returns cached summaries of recently finished sessions, newest
// last.
func (l *Lobby) Recent() []codec.SessionSummary {
	keys := l.recent.Keys()
	out := make([]codec.SessionSummary, 0, len(keys))
	for _, k := range keys {
		if v, ok := l.recent.Get(k); ok {
			out = append(out, v)
		}
	}
	return out
}

// FindSessionOf locates the live session holding a seat for the player.
func (l *Lobby) FindSessionOf(playerID string) *session.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, s := range l.sessions {
		if s.HasPlayer(playerID) {
			return s
		}
	}
	return nil
}

func (l *Lobby) reapLoop() {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.reap()
		case <-l.done:
			return
		}
	}
}

// reap removes sessions nobody is attached to. Finished sessions leave a
// summary in the recent cache before they go.
func (l *Lobby) reap() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, s := range l.sessions {
		summary := s.Summary()
		finished := summary.Status == mandat.StatusCompleted.String()

		ttl := idleSessionTTL
		if finished {
			ttl = finishedLingerTTL
		}
		if !s.IsIdleFor(ttl) {
			continue
		}
		if finished {
			l.recent.Add(id, summary)
		}
		s.Stop()
		delete(l.sessions, id)
		log.Printf("[Lobby] Reaped session %s (finished=%v, %d live)", id, finished, len(l.sessions))
	}
}

// Close stops the reaper and every live session.
func (l *Lobby) Close() {
	l.stopOnce.Do(func() {
		close(l.done)
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, s := range l.sessions {
		s.Stop()
		delete(l.sessions, id)
	}
}
