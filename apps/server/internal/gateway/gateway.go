package gateway

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mandat-lite/apps/server/internal/auth"
	"mandat-lite/apps/server/internal/codec"
	"mandat-lite/apps/server/internal/lobby"
	"mandat-lite/apps/server/internal/session"
	"mandat-lite/mandat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection is one WebSocket client.
type Connection struct {
	ID       string
	PlayerID string
	Guest    bool
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	// Current session binding.
	mu      sync.Mutex
	Session *session.Session
}

// Gateway owns the WebSocket endpoint: it authenticates connections and
// routes client envelopes to the lobby and session actors.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	playerConns map[string]*Connection
	nextConnID  uint64

	lobby *lobby.Lobby
	auth  auth.Service
}

func New(lby *lobby.Lobby, authService auth.Service) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		playerConns: make(map[string]*Connection),
		lobby:       lby,
		auth:        authService,
	}
}

// HandleWebSocket upgrades the connection. A valid bearer token (query
// param or Authorization header) binds the socket to that account; anybody
// else plays as a generated guest.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	playerID, guest := g.resolvePlayer(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)

	c := &Connection{
		ID:       connID,
		PlayerID: playerID,
		Guest:    guest,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
	// A reconnecting player displaces their stale socket.
	if prev := g.playerConns[playerID]; prev != nil {
		prev.Conn.Close()
	}
	g.connections[connID] = c
	g.playerConns[playerID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s (player=%s guest=%v), total: %d", connID, playerID, guest, total)

	go c.readPump()
	go c.writePump()

	c.sendEnvelope(&codec.ServerEnvelope{
		Type:     codec.ServerTypeWelcome,
		PlayerID: playerID,
	})

	// Reattach to a live session the player already sits in.
	if s := g.lobby.FindSessionOf(playerID); s != nil {
		c.bind(s)
		if err := s.ConnResume(playerID, ""); err != nil {
			log.Printf("[Gateway] resume failed for %s: %v", playerID, err)
		}
	}
}

func (g *Gateway) resolvePlayer(r *http.Request) (playerID string, guest bool) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
	}
	if token != "" {
		if ident, ok := g.auth.ResolveSession(token); ok {
			return ident.PlayerID(), false
		}
	}
	return "guest_" + uuid.New().String()[:8], true
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}

		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	env, err := codec.DecodeClient(data)
	if err != nil {
		c.sendError(1, "invalid message format")
		return
	}

	switch env.Type {
	case codec.ClientTypeCreateSession:
		c.handleCreateSession(env)
	case codec.ClientTypeListSessions:
		c.sendEnvelope(&codec.ServerEnvelope{
			Type:     codec.ServerTypeSessionList,
			Sessions: c.Gateway.lobby.List(),
		})
	case codec.ClientTypeAddAI:
		s := c.boundSession()
		if s == nil {
			c.sendError(3, "not in a session")
			return
		}
		if err := s.AddAI(env.AITier); err != nil {
			c.sendError(4, err.Error())
		}
	default:
		c.handleAction(env)
	}
}

// handleCreateSession spins up a fresh session and seats the creator.
func (c *Connection) handleCreateSession(env *codec.ClientEnvelope) {
	s, err := c.Gateway.lobby.Create(c.Gateway.broadcastToPlayer, lobby.Overrides{
		MaxPlayers:       env.MaxPlayers,
		MaxRounds:        env.MaxRounds,
		MandateThreshold: env.MandateThreshold,
	})
	if err != nil {
		c.sendError(2, err.Error())
		return
	}

	if err := s.Submit(mandat.Action{
		Type:     mandat.ActionTypeJoin,
		PlayerID: c.PlayerID,
		Name:     env.Name,
		DeckPool: env.DeckPool,
	}); err != nil {
		c.sendError(2, err.Error())
		return
	}
	c.bind(s)

	c.sendEnvelope(&codec.ServerEnvelope{
		Type:      codec.ServerTypeSessionCreated,
		SessionID: s.ID,
		PlayerID:  c.PlayerID,
	})
	log.Printf("[Gateway] Player %s created session %s", c.PlayerID, s.ID)
}

func (c *Connection) handleAction(env *codec.ClientEnvelope) {
	action, ok := codec.ActionFromEnvelope(env, c.PlayerID)
	if !ok {
		c.sendError(1, fmt.Sprintf("unknown message type %q", env.Type))
		return
	}

	s := c.boundSession()

	// A join addressed by id attaches the connection first.
	if action.Type == mandat.ActionTypeJoin && env.SessionID != "" {
		s = c.Gateway.lobby.Get(env.SessionID)
		if s == nil {
			c.sendError(3, "session not found")
			return
		}
		c.bind(s)
	}
	if s == nil {
		c.sendError(3, "not in a session")
		return
	}

	if action.Type == mandat.ActionTypeJoin && s.HasPlayer(c.PlayerID) {
		if err := s.ConnResume(c.PlayerID, env.Name); err != nil {
			c.sendError(5, err.Error())
		}
		return
	}

	if err := s.Submit(action); err != nil {
		c.sendError(5, err.Error())
	}
}

func (c *Connection) bind(s *session.Session) {
	c.mu.Lock()
	c.Session = s
	c.mu.Unlock()
}

func (c *Connection) boundSession() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Session
}

func (c *Connection) sendError(code int, msg string) {
	env := &codec.ServerEnvelope{
		Type:       codec.ServerTypeError,
		ServerTsMs: time.Now().UnixMilli(),
		Error: &codec.ErrorBody{
			Code:    code,
			Message: msg,
		},
	}
	if s := c.boundSession(); s != nil {
		env.SessionID = s.ID
	}
	c.sendEnvelope(env)
}

func (c *Connection) sendEnvelope(env *codec.ServerEnvelope) {
	data, err := codec.EncodeServer(env)
	if err != nil {
		log.Printf("[Gateway] Failed to encode envelope: %v", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		// Drop if buffer full
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	current := g.playerConns[c.PlayerID] == c
	if current {
		delete(g.playerConns, c.PlayerID)
	}
	total := len(g.connections)
	g.mu.Unlock()

	// A displaced socket must not mark the freshly connected player offline.
	if current {
		if s := c.boundSession(); s != nil {
			if err := s.ConnLost(c.PlayerID); err != nil && err != session.ErrSessionClosed {
				log.Printf("[Gateway] conn-lost notify failed for %s: %v", c.PlayerID, err)
			}
		}
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, total)
}

// broadcastToPlayer delivers a session frame to one player's socket.
func (g *Gateway) broadcastToPlayer(playerID string, data []byte) {
	g.mu.RLock()
	c := g.playerConns[playerID]
	g.mu.RUnlock()

	if c != nil {
		select {
		case c.Send <- data:
		default:
			// Drop if buffer full
		}
	}
}
