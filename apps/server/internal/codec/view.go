package codec

import (
	"time"

	"mandat-lite/mandat"
)

// SessionView is the per-viewer projection of a session. Hidden
// information (other hands, face-down plays, draw order) never leaves the
// server: redaction happens here, not on the client.
type SessionView struct {
	ID                string          `json:"id"`
	Status            string          `json:"status"`
	Phase             string          `json:"phase"`
	Round             int             `json:"round"`
	MaxRounds         int             `json:"maxRounds"`
	MomentumLevel     int             `json:"momentumLevel"`
	MandateThreshold  int             `json:"mandateThreshold"`
	CoalitionsBlocked bool            `json:"coalitionsBlocked,omitempty"`
	ActivePlayerID    string          `json:"activePlayerId,omitempty"`
	PendingDeciders   []string        `json:"pendingDeciders,omitempty"`
	Players           []PlayerView    `json:"players"`
	Coalitions        []CoalitionView `json:"coalitions,omitempty"`
	Proposals         []ProposalView  `json:"proposals,omitempty"`
	Log               []LogView       `json:"log,omitempty"`
	WinnerIDs         []string        `json:"winnerIds,omitempty"`
	VictorID          string          `json:"victorId,omitempty"`
	Seq               uint64          `json:"seq"`
}

type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AI        bool   `json:"ai,omitempty"`
	Connected bool   `json:"connected"`
	Ready     bool   `json:"ready,omitempty"`
	SkipRound bool   `json:"skipRound,omitempty"`

	Mandates  int `json:"mandates"`
	Influence int `json:"influence"`

	HandCount    int `json:"handCount"`
	DrawCount    int `json:"drawCount"`
	DiscardCount int `json:"discardCount"`

	// Hand is populated for the viewer's own seat only.
	Hand []string `json:"hand,omitempty"`

	// Played slots carry the card id once visible, otherwise just the
	// committed flag.
	CharacterCommitted bool   `json:"characterCommitted,omitempty"`
	PlayedCharacter    string `json:"playedCharacter,omitempty"`
	SupportDecided     bool   `json:"supportDecided,omitempty"`
	SupportCommitted   bool   `json:"supportCommitted,omitempty"`
	PlayedSupport      string `json:"playedSupport,omitempty"`
	SupportOpenFace    bool   `json:"supportOpenFace,omitempty"`
}

type CoalitionView struct {
	MemberIDs         []string `json:"memberIds"`
	RoundFormed       int      `json:"roundFormed"`
	ConsecutiveRounds int      `json:"consecutiveRounds"`
	Active            bool     `json:"active"`
}

type ProposalView struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
	Round  int    `json:"round"`
	Status string `json:"status"`
}

type LogView struct {
	Seq      uint64 `json:"seq"`
	Round    int    `json:"round"`
	Phase    string `json:"phase"`
	Kind     string `json:"kind"`
	PlayerID string `json:"playerId,omitempty"`
	Message  string `json:"message"`
	TsMs     int64  `json:"tsMs"`
}

// BuildSessionView projects the session for one viewer. Pass an empty
// viewerID for a spectator projection with nothing private.
func BuildSessionView(s *mandat.SessionState, viewerID string) *SessionView {
	if s == nil {
		return nil
	}
	revealed := playsRevealed(s)

	view := &SessionView{
		ID:                s.ID,
		Status:            s.Status.String(),
		Phase:             s.Phase.String(),
		Round:             s.Round,
		MaxRounds:         s.MaxRounds,
		MomentumLevel:     s.MomentumLevel,
		MandateThreshold:  s.MandateThreshold,
		CoalitionsBlocked: s.CoalitionsBlocked,
		ActivePlayerID:    s.ActivePlayerID,
		PendingDeciders:   s.PendingDeciders(),
		WinnerIDs:         append([]string(nil), s.WinnerIDs...),
		VictorID:          s.VictorID,
		Seq:               s.Seq,
	}

	for _, p := range s.Players {
		view.Players = append(view.Players, buildPlayerView(p, viewerID, revealed))
	}
	for _, c := range s.Coalitions {
		if c == nil {
			continue
		}
		view.Coalitions = append(view.Coalitions, CoalitionView{
			MemberIDs:         append([]string(nil), c.MemberIDs...),
			RoundFormed:       c.RoundFormed,
			ConsecutiveRounds: c.ConsecutiveRounds,
			Active:            c.Active,
		})
	}
	for _, pr := range s.Proposals {
		if pr == nil {
			continue
		}
		view.Proposals = append(view.Proposals, ProposalView{
			FromID: pr.FromID,
			ToID:   pr.ToID,
			Round:  pr.Round,
			Status: pr.Status.String(),
		})
	}
	for _, entry := range s.Log {
		view.Log = append(view.Log, LogView{
			Seq:      entry.Seq,
			Round:    entry.Round,
			Phase:    entry.Phase.String(),
			Kind:     entry.Kind,
			PlayerID: entry.PlayerID,
			Message:  entry.Message,
			TsMs:     entry.At.UnixMilli(),
		})
	}
	return view
}

func buildPlayerView(p *mandat.Player, viewerID string, revealed bool) PlayerView {
	owner := p.ID == viewerID
	pv := PlayerView{
		ID:           p.ID,
		Name:         p.Name,
		AI:           p.AI,
		Connected:    p.Connected,
		Ready:        p.Ready,
		SkipRound:    p.SkipRound,
		Mandates:     p.Mandates,
		Influence:    p.EffectiveInfluence(),
		HandCount:    len(p.Hand),
		DrawCount:    len(p.Deck.DrawPile),
		DiscardCount: len(p.Deck.DiscardPile),

		CharacterCommitted: p.PlayedCharacter != "",
		SupportDecided:     p.SupportDecided,
		SupportCommitted:   p.PlayedSupport != "",
		SupportOpenFace:    p.SupportOpenFace,
	}
	if owner {
		pv.Hand = append([]string(nil), p.Hand...)
	}
	if p.PlayedCharacter != "" && (owner || revealed) {
		pv.PlayedCharacter = p.PlayedCharacter
	}
	if p.PlayedSupport != "" && (owner || revealed || p.SupportOpenFace) {
		pv.PlayedSupport = p.PlayedSupport
	}
	return pv
}

// playsRevealed reports whether face-down plays of the current round have
// been turned over.
func playsRevealed(s *mandat.SessionState) bool {
	switch s.Phase {
	case mandat.PhaseTypeResolution, mandat.PhaseTypeBackfire, mandat.PhaseTypeFinal, mandat.PhaseTypeFinished:
		return true
	}
	return s.Status == mandat.StatusCompleted
}

// nowMs is split out for tests.
var nowMs = func() int64 { return time.Now().UnixMilli() }

// Wrap stamps the common envelope fields around a session view.
func Wrap(sessionID string, seq uint64, view *SessionView) *ServerEnvelope {
	return &ServerEnvelope{
		Type:       ServerTypeSessionState,
		SessionID:  sessionID,
		ServerSeq:  seq,
		ServerTsMs: nowMs(),
		Session:    view,
	}
}
