package archive

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"mandat-lite/apps/server/internal/config"
	"mandat-lite/replay"
)

const (
	defaultRecentLimit = 100
	maxListLimit       = 100
)

var ErrNotFound = errors.New("not found")

// Service persists finished sessions: the final standings plus the action
// transcript that reproduces them.
type Service interface {
	Close() error
	SaveSession(ctx context.Context, rec SessionRecord) error
	GetSession(ctx context.Context, sessionID string) (SessionRecord, error)
	ListRecent(ctx context.Context, playerID string, limit int) ([]SessionRecord, error)
	GetTranscript(ctx context.Context, sessionID string) (*replay.Transcript, error)
}

// SessionRecord is one archived session.
type SessionRecord struct {
	SessionID  string             `json:"session_id"`
	FinishedAt time.Time          `json:"finished_at"`
	Rounds     int                `json:"rounds"`
	VictorID   string             `json:"victor_id,omitempty"`
	WinnerIDs  []string           `json:"winner_ids,omitempty"`
	Standings  []Standing         `json:"standings"`
	Transcript *replay.Transcript `json:"transcript,omitempty"`
}

// Standing is a participant's final line.
type Standing struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	AI        bool   `json:"ai,omitempty"`
	Mandates  int    `json:"mandates"`
	Influence int    `json:"influence"`
}

// NewService builds the archive backend selected by configuration.
func NewService(cfg config.Config) (Service, string, error) {
	switch cfg.ArchiveMode {
	case config.ArchiveModeMemory:
		return NewMemoryService(), config.ArchiveModeMemory, nil
	case config.ArchiveModeSQLite:
		svc, err := NewSQLiteService(cfg.ArchiveSQLitePath)
		if err != nil {
			return nil, "", err
		}
		return svc, config.ArchiveModeSQLite, nil
	case config.ArchiveModeDB:
		svc, err := NewPostgresService(cfg.PostgresDSN)
		if err != nil {
			return nil, "", err
		}
		return svc, config.ArchiveModeDB, nil
	}
	return nil, "", errors.New("unknown archive mode " + cfg.ArchiveMode)
}

// MemoryService keeps archived sessions in process memory. Good enough for
// single-binary deployments and tests.
type MemoryService struct {
	mu      sync.RWMutex
	records map[string]SessionRecord
}

func NewMemoryService() *MemoryService {
	return &MemoryService{records: make(map[string]SessionRecord)}
}

func (m *MemoryService) Close() error { return nil }

func (m *MemoryService) SaveSession(_ context.Context, rec SessionRecord) error {
	if rec.SessionID == "" {
		return errors.New("empty session id")
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}
	m.mu.Lock()
	m.records[rec.SessionID] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryService) GetSession(_ context.Context, sessionID string) (SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[sessionID]
	if !ok {
		return SessionRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryService) ListRecent(_ context.Context, playerID string, limit int) ([]SessionRecord, error) {
	limit = clampLimit(limit)

	m.mu.RLock()
	out := make([]SessionRecord, 0, len(m.records))
	for _, rec := range m.records {
		if playerID != "" && !recordHasPlayer(rec, playerID) {
			continue
		}
		trimmed := rec
		trimmed.Transcript = nil
		out = append(out, trimmed)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryService) GetTranscript(_ context.Context, sessionID string) (*replay.Transcript, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[sessionID]
	if !ok || rec.Transcript == nil {
		return nil, ErrNotFound
	}
	return rec.Transcript, nil
}

func recordHasPlayer(rec SessionRecord, playerID string) bool {
	for _, st := range rec.Standings {
		if st.PlayerID == playerID {
			return true
		}
	}
	return false
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return 20
	}
	return limit
}
