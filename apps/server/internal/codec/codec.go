package codec

import (
	"encoding/json"
	"fmt"

	"mandat-lite/mandat"
)

// ClientEnvelope is the single inbound message shape. Type selects the
// operation; the remaining fields are payload and depend on it.
type ClientEnvelope struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	ClientSeq uint64 `json:"clientSeq,omitempty"`

	Name     string   `json:"name,omitempty"`
	DeckPool []string `json:"deckPool,omitempty"`

	// create-session rule overrides, zero means server default.
	MaxPlayers       int `json:"maxPlayers,omitempty"`
	MaxRounds        int `json:"maxRounds,omitempty"`
	MandateThreshold int `json:"mandateThreshold,omitempty"`

	AITier   string   `json:"aiTier,omitempty"`
	TargetID string   `json:"targetId,omitempty"`
	CardID   string   `json:"cardId,omitempty"`
	OpenFace bool     `json:"openFace,omitempty"`
	Ready    bool     `json:"ready,omitempty"`
}

// Client message types that are not engine actions.
const (
	ClientTypeCreateSession = "create-session"
	ClientTypeListSessions  = "list-sessions"
	ClientTypeAddAI         = "add-ai"
)

// ServerEnvelope is the single outbound message shape.
type ServerEnvelope struct {
	Type       string `json:"type"`
	SessionID  string `json:"sessionId,omitempty"`
	ServerSeq  uint64 `json:"serverSeq,omitempty"`
	ServerTsMs int64  `json:"serverTsMs,omitempty"`

	Error    *ErrorBody       `json:"error,omitempty"`
	Session  *SessionView     `json:"session,omitempty"`
	Sessions []SessionSummary `json:"sessions,omitempty"`
	PlayerID string           `json:"playerId,omitempty"`
}

// Server message types.
const (
	ServerTypeWelcome        = "welcome"
	ServerTypeError          = "error"
	ServerTypeSessionState   = "game-updated"
	ServerTypeSessionCreated = "session-created"
	ServerTypeSessionList    = "session-list"
	ServerTypeSessionEnded   = "session-ended"
)

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SessionSummary is the lobby listing entry.
type SessionSummary struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	Round       int      `json:"round"`
	PlayerCount int      `json:"playerCount"`
	MaxPlayers  int      `json:"maxPlayers"`
	PlayerNames []string `json:"playerNames,omitempty"`
	VictorID    string   `json:"victorId,omitempty"`
}

func DecodeClient(data []byte) (*ClientEnvelope, error) {
	var env ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode client envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("client envelope missing type")
	}
	return &env, nil
}

func EncodeServer(env *ServerEnvelope) ([]byte, error) {
	return json.Marshal(env)
}

// ActionFromEnvelope converts a gameplay client message into an engine
// action for the given authenticated player. Non-action types return false.
func ActionFromEnvelope(env *ClientEnvelope, playerID string) (mandat.Action, bool) {
	t, ok := mandat.ParseActionType(env.Type)
	if !ok {
		return mandat.Action{}, false
	}
	return mandat.Action{
		Type:     t,
		PlayerID: playerID,
		TargetID: env.TargetID,
		CardID:   env.CardID,
		OpenFace: env.OpenFace,
		Name:     env.Name,
		DeckPool: env.DeckPool,
		Ready:    env.Ready,
	}, true
}
