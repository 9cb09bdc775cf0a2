package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"mandat-lite/apps/server/internal/archive"
	"mandat-lite/apps/server/internal/codec"
	"mandat-lite/card"
	"mandat-lite/mandat"
	"mandat-lite/mandat/ai"
	"mandat-lite/replay"
)

// Session hosts one game as an actor: all state changes flow through a
// single event loop, so engine applies are naturally serialized.
type Session struct {
	ID string

	mu       sync.RWMutex
	engine   *mandat.Engine
	state    *mandat.SessionState
	recorder *replay.Recorder
	ai       *ai.Manager
	closed   bool
	stopOnce sync.Once

	events chan Event
	done   chan struct{}

	serverSeq uint64

	// Human decision timeout. Reset on every applied action.
	decisionDeadline time.Time

	// One outstanding think timer per AI seat.
	aiScheduled map[string]bool

	emptySince time.Time
	archived   bool

	broadcast func(playerID string, data []byte)
	archive   archive.Service
}

// Event types for the actor message queue.
type EventType int

const (
	EventAction EventType = iota
	EventAddAI
	EventAIDecide
	EventConnLost
	EventConnResume
	EventClose
)

// Event is a message to the session actor.
type Event struct {
	Type      EventType
	PlayerID  string
	Name      string
	Tier      string
	Action    mandat.Action
	Timestamp time.Time
	Response  chan error
}

var ErrSessionClosed = errors.New("session closed")

const (
	decisionTimeLimit = 30 * time.Second
	maxAISeats        = 16
)

var aiSeatNames = []string{
	"Margot", "Viktor", "Ines", "Bastian", "Clara", "Otto", "Renate", "Emil",
}

// New creates a session actor around a fresh engine. The config seed must be
// non-zero so the archived transcript replays deterministically.
func New(
	id string,
	cfg mandat.Config,
	catalog *card.Catalog,
	broadcastFn func(playerID string, data []byte),
	archiveService archive.Service,
) (*Session, error) {
	if cfg.Seed == 0 {
		return nil, fmt.Errorf("session %s: config seed must be set", id)
	}
	engine, err := mandat.NewEngine(cfg, catalog)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	s := &Session{
		ID:          id,
		engine:      engine,
		state:       engine.NewSession(id),
		recorder:    replay.NewRecorder(id, engine.Config()),
		ai:          ai.NewManager(catalog, cfg.Seed+1),
		events:      make(chan Event, 256),
		done:        make(chan struct{}),
		aiScheduled: make(map[string]bool),
		emptySince:  time.Now(),
		broadcast:   broadcastFn,
		archive:     archiveService,
	}

	go s.run()

	log.Printf("[Session %s] Created (max=%d, threshold=%d, seed=%d)",
		id, cfg.MaxPlayers, cfg.MandateThreshold, cfg.Seed)
	return s, nil
}

// run is the main actor loop.
func (s *Session) run() {
	// Sub-second heartbeat for decision timeouts.
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event := <-s.events:
			err := s.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-ticker.C:
			s.tick()
		case <-s.done:
			log.Printf("[Session %s] Actor stopped", s.ID)
			return
		}
	}
}

func (s *Session) handleEvent(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed && e.Type != EventClose {
		return ErrSessionClosed
	}

	switch e.Type {
	case EventAction:
		return s.applyLocked(e.Action)
	case EventAddAI:
		return s.handleAddAI(e.Tier)
	case EventAIDecide:
		return s.handleAIDecide(e.PlayerID)
	case EventConnLost:
		return s.handleConnLost(e.PlayerID)
	case EventConnResume:
		return s.handleConnResume(e.PlayerID, e.Name)
	case EventClose:
		s.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

// applyLocked runs one engine action, records it, and broadcasts the new
// state. On error the previous state stays visible unchanged.
func (s *Session) applyLocked(a mandat.Action) error {
	next, err := s.engine.Apply(s.state, a)
	if err != nil {
		return err
	}
	s.state = next
	s.recorder.Append(a)
	s.broadcastState()
	s.afterApplyLocked()
	return nil
}

func (s *Session) afterApplyLocked() {
	s.updateEmptySinceLocked(time.Now())

	if s.state.Status == mandat.StatusCompleted {
		s.finishLocked()
		return
	}

	s.scheduleAILocked()
	s.resetDecisionDeadlineLocked()
}

func (s *Session) handleAddAI(tier string) error {
	if s.state.Status != mandat.StatusLobby {
		return fmt.Errorf("AI seats can only be added in the lobby")
	}
	parsed, err := ai.ParseTier(tier)
	if err != nil {
		return err
	}

	var id string
	for n := 1; n <= maxAISeats; n++ {
		candidate := fmt.Sprintf("bot_%d", n)
		if s.state.PlayerByID(candidate) == nil {
			id = candidate
			break
		}
	}
	if id == "" {
		return fmt.Errorf("no free AI seat")
	}
	name := fmt.Sprintf("%s (%s)", aiSeatNames[len(s.state.Players)%len(aiSeatNames)], parsed)

	if err := s.applyLocked(mandat.Action{
		Type:     mandat.ActionTypeJoin,
		PlayerID: id,
		Name:     name,
		AI:       true,
		AITier:   string(parsed),
	}); err != nil {
		return err
	}
	s.ai.Register(id, parsed)
	return nil
}

// handleAIDecide fires when an AI think timer elapses. The seat may no
// longer owe a decision; that is not an error.
func (s *Session) handleAIDecide(playerID string) error {
	delete(s.aiScheduled, playerID)
	if s.state.Status != mandat.StatusActive {
		return nil
	}
	if !pendingContains(s.state.PendingDeciders(), playerID) {
		return nil
	}
	action, ok := s.ai.Decide(s.state, playerID)
	if !ok {
		return nil
	}
	if err := s.applyLocked(action); err != nil {
		log.Printf("[Session %s] AI action rejected for %s: %v", s.ID, playerID, err)
		// Fall back so a bad decision cannot wedge the phase.
		return s.applyLocked(autoAction(s.state, s.engine.Catalog(), playerID))
	}
	return nil
}

func (s *Session) handleConnLost(playerID string) error {
	p := s.state.PlayerByID(playerID)
	if p == nil || !p.Connected {
		return nil
	}
	log.Printf("[Session %s] Player %s connection lost", s.ID, playerID)
	if s.state.Status == mandat.StatusCompleted {
		// The engine rejects actions after completion; the connection flag
		// is plain bookkeeping at this point, and the idle clock must still
		// start so the lobby can reap the finished session. Swap in a clone
		// so published snapshots never see a half-written state.
		next := s.state.Clone()
		if cp := next.PlayerByID(playerID); cp != nil {
			cp.Connected = false
		}
		s.state = next
		s.updateEmptySinceLocked(time.Now())
		return nil
	}
	return s.applyLocked(mandat.Action{Type: mandat.ActionTypeLeave, PlayerID: playerID})
}

func (s *Session) handleConnResume(playerID, name string) error {
	p := s.state.PlayerByID(playerID)
	if p == nil {
		return fmt.Errorf("player %q not in session", playerID)
	}
	if p.Connected {
		s.sendSnapshotLocked(playerID)
		return nil
	}
	log.Printf("[Session %s] Player %s reconnected", s.ID, playerID)
	return s.applyLocked(mandat.Action{Type: mandat.ActionTypeJoin, PlayerID: playerID, Name: name})
}

func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state.Status != mandat.StatusActive {
		return
	}
	now := time.Now()
	if s.decisionDeadline.IsZero() || now.Before(s.decisionDeadline) {
		return
	}

	// A human has been silent past the limit; decide for them.
	for _, id := range s.state.PendingDeciders() {
		if s.ai.IsManaged(id) {
			continue
		}
		action := autoAction(s.state, s.engine.Catalog(), id)
		log.Printf("[Session %s] Decision timeout for %s -> auto %s", s.ID, id, mandat.ActionTypeDictionary[action.Type])
		if err := s.applyLocked(action); err != nil {
			log.Printf("[Session %s] auto action failed for %s: %v", s.ID, id, err)
		}
		return
	}
	s.decisionDeadline = time.Time{}
}

// scheduleAILocked arms a think timer for every managed seat that owes a
// decision and has no timer outstanding.
func (s *Session) scheduleAILocked() {
	for _, id := range s.ai.Pending(s.state) {
		if s.aiScheduled[id] {
			continue
		}
		s.aiScheduled[id] = true
		playerID := id
		delay := s.ai.ThinkDelay(playerID)
		time.AfterFunc(delay, func() {
			_ = s.SubmitEvent(Event{Type: EventAIDecide, PlayerID: playerID})
		})
	}
}

func (s *Session) resetDecisionDeadlineLocked() {
	for _, id := range s.state.PendingDeciders() {
		if !s.ai.IsManaged(id) {
			s.decisionDeadline = time.Now().Add(decisionTimeLimit)
			return
		}
	}
	s.decisionDeadline = time.Time{}
}

// finishLocked archives the completed session and tells every client.
func (s *Session) finishLocked() {
	s.decisionDeadline = time.Time{}
	if s.archived {
		return
	}
	s.archived = true

	rec := archive.SessionRecord{
		SessionID:  s.ID,
		FinishedAt: time.Now().UTC(),
		Rounds:     s.state.Round,
		VictorID:   s.state.VictorID,
		WinnerIDs:  append([]string(nil), s.state.WinnerIDs...),
		Transcript: s.recorder.Transcript(),
	}
	for _, p := range s.state.Players {
		rec.Standings = append(rec.Standings, archive.Standing{
			PlayerID:  p.ID,
			Name:      p.Name,
			AI:        p.AI,
			Mandates:  p.Mandates,
			Influence: p.Influence,
		})
	}
	if s.archive != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.archive.SaveSession(ctx, rec); err != nil {
				log.Printf("[Session %s] archive save failed: %v", s.ID, err)
			}
		}()
	}

	log.Printf("[Session %s] Completed after %d rounds (victor=%q winners=%v)",
		s.ID, s.state.Round, s.state.VictorID, s.state.WinnerIDs)
	s.broadcastEnded()
}

// SubmitEvent sends an event to the actor and waits for the result.
func (s *Session) SubmitEvent(e Event) error {
	e.Timestamp = time.Now()
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrSessionClosed
	}

	select {
	case s.events <- e:
	case <-s.done:
		return ErrSessionClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-s.done:
		return ErrSessionClosed
	}
}

// Submit runs one engine action through the actor.
func (s *Session) Submit(a mandat.Action) error {
	return s.SubmitEvent(Event{Type: EventAction, Action: a})
}

// AddAI seats a bot of the given tier.
func (s *Session) AddAI(tier string) error {
	return s.SubmitEvent(Event{Type: EventAddAI, Tier: tier})
}

// ConnLost marks a player disconnected.
func (s *Session) ConnLost(playerID string) error {
	return s.SubmitEvent(Event{Type: EventConnLost, PlayerID: playerID})
}

// ConnResume reattaches a player and resends the current state.
func (s *Session) ConnResume(playerID, name string) error {
	return s.SubmitEvent(Event{Type: EventConnResume, PlayerID: playerID, Name: name})
}

// Stop shuts down the session actor.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	s.closed = true
	s.decisionDeadline = time.Time{}
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *Session) updateEmptySinceLocked(now time.Time) {
	humans := 0
	for _, p := range s.state.Players {
		if !p.AI && p.Connected {
			humans++
		}
	}
	if humans == 0 {
		if s.emptySince.IsZero() {
			s.emptySince = now
		}
		return
	}
	s.emptySince = time.Time{}
}

// IsIdleFor reports whether no human has been attached for at least ttl.
func (s *Session) IsIdleFor(ttl time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return true
	}
	if s.emptySince.IsZero() {
		return false
	}
	return time.Since(s.emptySince) >= ttl
}

func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() *mandat.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Summary builds the lobby listing entry.
func (s *Session) Summary() codec.SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := codec.SessionSummary{
		ID:          s.ID,
		Status:      s.state.Status.String(),
		Round:       s.state.Round,
		PlayerCount: len(s.state.Players),
		MaxPlayers:  s.engine.Config().MaxPlayers,
		VictorID:    s.state.VictorID,
	}
	for _, p := range s.state.Players {
		summary.PlayerNames = append(summary.PlayerNames, p.Name)
	}
	return summary
}

// HasPlayer reports whether a seat exists for the id.
func (s *Session) HasPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.PlayerByID(playerID) != nil
}

// ---- broadcast helpers ----

func (s *Session) nextSeq() uint64 {
	s.serverSeq++
	return s.serverSeq
}

// broadcastState sends each connected player their redacted view.
func (s *Session) broadcastState() {
	seq := s.nextSeq()
	for _, p := range s.state.Players {
		if p.AI || !p.Connected {
			continue
		}
		s.sendStateTo(p.ID, seq)
	}
}

func (s *Session) sendSnapshotLocked(playerID string) {
	s.sendStateTo(playerID, s.nextSeq())
}

func (s *Session) sendStateTo(playerID string, seq uint64) {
	view := codec.BuildSessionView(s.state, playerID)
	data, err := codec.EncodeServer(codec.Wrap(s.ID, seq, view))
	if err != nil {
		log.Printf("[Session %s] Failed to encode state for %s: %v", s.ID, playerID, err)
		return
	}
	s.broadcast(playerID, data)
}

func (s *Session) broadcastEnded() {
	env := &codec.ServerEnvelope{
		Type:       codec.ServerTypeSessionEnded,
		SessionID:  s.ID,
		ServerSeq:  s.nextSeq(),
		ServerTsMs: time.Now().UnixMilli(),
	}
	data, err := codec.EncodeServer(env)
	if err != nil {
		return
	}
	for _, p := range s.state.Players {
		if p.AI || !p.Connected {
			continue
		}
		s.broadcast(p.ID, data)
	}
}

// ---- decision fallbacks ----

func pendingContains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// autoAction picks the least committal legal action for a silent player.
func autoAction(s *mandat.SessionState, catalog *card.Catalog, playerID string) mandat.Action {
	switch s.Phase {
	case mandat.PhaseTypeMomentum:
		return mandat.Action{Type: mandat.ActionTypeRollMomentum, PlayerID: playerID}

	case mandat.PhaseTypeCoalition:
		for _, pr := range s.Proposals {
			if pr.Status == mandat.ProposalPending && pr.Round == s.Round && pr.ToID == playerID {
				return mandat.Action{Type: mandat.ActionTypeDeclineCoalition, PlayerID: playerID, TargetID: pr.FromID}
			}
		}
		return mandat.Action{Type: mandat.ActionTypeEndTurn, PlayerID: playerID}

	case mandat.PhaseTypeCharacter:
		p := s.PlayerByID(playerID)
		if p != nil {
			for _, id := range p.Hand {
				if c := catalog.Get(id); c != nil && c.Type == card.TypeCharacter {
					return mandat.Action{Type: mandat.ActionTypePlayCharacter, PlayerID: playerID, CardID: id}
				}
			}
			if !p.DrewThisRound && p.Deck.PileSize() > 0 {
				return mandat.Action{Type: mandat.ActionTypeDrawCard, PlayerID: playerID}
			}
		}
		return mandat.Action{Type: mandat.ActionTypeDrawCard, PlayerID: playerID}

	default:
		return mandat.Action{Type: mandat.ActionTypeSkipSpecial, PlayerID: playerID}
	}
}
