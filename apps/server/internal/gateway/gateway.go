package gateway

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"blackjack-lite/apps/server/internal/auth"
	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/apps/server/internal/lobby"
	"blackjack-lite/apps/server/internal/table"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID        string
	AccountID uint64
	Username  string
	Conn      *websocket.Conn
	Send      chan []byte
	Gateway   *Gateway
	LastPing  time.Time

	// Current table association
	TableID string
	Table   *table.Table
}

// Gateway manages WebSocket connections
type Gateway struct {
	mu           sync.RWMutex
	connections  map[string]*Connection
	accountConns map[uint64]*Connection // accountID -> connection
	nextConnID   uint64
	lobby        *lobby.Lobby
	auth         auth.Service

	// Error envelopes get their own sequence, separate from table streams.
	errSeq uint64
}

// New creates a new Gateway instance
func New(lby *lobby.Lobby, authService auth.Service) *Gateway {
	return &Gateway{
		connections:  make(map[string]*Connection),
		accountConns: make(map[uint64]*Connection),
		lobby:        lby,
		auth:         authService,
	}
}

// HandleWebSocket authenticates the session token, upgrades the
// connection, and starts its pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}
	accountID, username, ok := g.auth.ResolveSession(token)
	if !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)

	c := &Connection{
		ID:        connID,
		AccountID: accountID,
		Username:  username,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Gateway:   g,
		LastPing:  time.Now(),
	}
	g.connections[connID] = c
	g.accountConns[accountID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s (account=%d %s), total: %d", connID, accountID, username, total)

	go c.readPump()
	go c.writePump()
}

// sessionToken pulls the token from the query string (browser websocket
// clients cannot set headers) or the Authorization header.
func sessionToken(r *http.Request) string {
	if v := strings.TrimSpace(r.URL.Query().Get("token")); v != "" {
		return v
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, prefix))
	}
	return ""
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

		if messageType == websocket.TextMessage || messageType == websocket.BinaryMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	env, err := codec.DecodeClientEnvelope(data)
	if err != nil {
		log.Printf("[Gateway] Failed to decode: %v", err)
		c.sendError(1, "invalid message format")
		return
	}

	log.Printf("[Gateway] Received from account %d: type=%s", c.AccountID, env.Type)

	switch env.Type {
	case codec.ClientTypeJoin:
		c.handleJoin(env)
	case codec.ClientTypePlay:
		c.handlePlay(1)
	case codec.ClientTypePlayN:
		c.handlePlay(env.Rounds)
	case codec.ClientTypeReset:
		c.handleReset()
	case codec.ClientTypeSnapshot:
		c.handleSnapshot()
	default:
		log.Printf("[Gateway] Unknown command type: %q", env.Type)
		c.sendError(1, fmt.Sprintf("unknown command %q", env.Type))
	}
}

func (c *Connection) handleJoin(env *codec.ClientEnvelope) {
	// Quick start: reuse the account's table or create one
	t, err := c.Gateway.lobby.QuickStart(c.AccountID, env.Strategy, c.Gateway.broadcastToAccount)
	if err != nil {
		c.sendError(2, err.Error())
		return
	}

	c.TableID = t.ID
	c.Table = t

	// Push the opening snapshot
	t.SubmitEvent(table.Event{
		Type:      table.EventAttach,
		AccountID: c.AccountID,
	})

	log.Printf("[Gateway] Account %d joined table %s", c.AccountID, t.ID)
}

func (c *Connection) handlePlay(rounds int) {
	if c.Table == nil {
		c.sendError(3, "not at a table")
		return
	}
	if rounds < 1 {
		rounds = 1
	}

	err := c.Table.SubmitEvent(table.Event{
		Type:      table.EventPlay,
		AccountID: c.AccountID,
		Rounds:    rounds,
	})
	if err != nil {
		c.sendError(4, err.Error())
	}
}

func (c *Connection) handleReset() {
	if c.Table == nil {
		c.sendError(3, "not at a table")
		return
	}

	err := c.Table.SubmitEvent(table.Event{
		Type:      table.EventReset,
		AccountID: c.AccountID,
	})
	if err != nil {
		c.sendError(4, err.Error())
	}
}

func (c *Connection) handleSnapshot() {
	if c.Table == nil {
		c.sendError(3, "not at a table")
		return
	}

	err := c.Table.SubmitEvent(table.Event{
		Type:      table.EventAttach,
		AccountID: c.AccountID,
	})
	if err != nil {
		c.sendError(4, err.Error())
	}
}

func (c *Connection) sendError(code int32, msg string) {
	env := codec.WrapServerEnvelope(c.TableID, atomic.AddUint64(&c.Gateway.errSeq, 1), &codec.ErrorResponse{
		Code:    code,
		Message: msg,
	})
	data, err := codec.EncodeServerEnvelope(env)
	if err != nil {
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
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	// A reconnect may already own the account slot.
	if g.accountConns[c.AccountID] == c {
		delete(g.accountConns, c.AccountID)
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}

// broadcastToAccount sends a message to a specific account's connection
func (g *Gateway) broadcastToAccount(accountID uint64, data []byte) {
	g.mu.RLock()
	c := g.accountConns[accountID]
	g.mu.RUnlock()

	if c != nil {
		select {
		case c.Send <- data:
		default:
			// Drop if buffer full
		}
	}
}

// Broadcast sends a message to all connections
func (g *Gateway) Broadcast(message []byte) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.connections {
		select {
		case c.Send <- message:
		default:
			// Drop message if buffer full
		}
	}
}
