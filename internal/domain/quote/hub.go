package quote

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 16 * 1024
)

// newUpgrader accepts requests without an Origin header (non-browser
// clients) or from the same host. Other origins must pass allow.
func newUpgrader(allow func(origin string) bool) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if allow != nil && allow(origin) {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		},
	}
}

// Event is pushed to every client watching a session.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Payload   interface{} `json:"payload,omitempty"`
}

const (
	EventQuoteView     = "quote_view"
	EventError         = "error"
	EventSessionClosed = "session_closed"
)

// CommandFunc applies a command received from a client.
type CommandFunc func(cmd Command) error

type connection struct {
	sessionID uuid.UUID
	conn      *websocket.Conn
	send      chan []byte
}

// Hub fans quote updates out to the websocket clients of each session.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[*connection]bool
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[uuid.UUID]map[*connection]bool),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.sessions[c.sessionID]
	if !ok {
		conns = make(map[*connection]bool)
		h.sessions[c.sessionID] = conns
	}
	conns[c] = true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.sessions[c.sessionID]
	if !ok || !conns[c] {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.sessions, c.sessionID)
	}
}

// Broadcast sends an event to every client of a session. Slow clients miss it.
func (h *Hub) Broadcast(sessionID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.sessions[sessionID] {
		select {
		case c.send <- data:
		default:
		}
	}
}

// sendTo writes to one client if it is still registered.
func (h *Hub) sendTo(c *connection, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.sessions[c.sessionID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// CloseSession tells every client the session ended and disconnects them.
func (h *Hub) CloseSession(sessionID uuid.UUID) {
	h.Broadcast(sessionID, &Event{Type: EventSessionClosed, SessionID: sessionID.String()})

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.sessions[sessionID] {
		close(c.send)
	}
	delete(h.sessions, sessionID)
}

func (h *Hub) Subscribers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// ServeWS registers the connection, sends initial and runs the read and
// write loops. It blocks until the client goes away.
func (h *Hub) ServeWS(conn *websocket.Conn, sessionID uuid.UUID, initial *Event, apply CommandFunc) {
	c := &connection{
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, 64),
	}

	h.register(c)
	if initial != nil {
		h.sendTo(c, initial)
	}

	go h.writePump(c)
	h.readPump(c, apply)
}

func (h *Hub) readPump(c *connection, apply CommandFunc) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			h.sendTo(c, errorEvent(c.sessionID, "invalid command payload"))
			continue
		}
		if err := apply(cmd); err != nil {
			h.sendTo(c, errorEvent(c.sessionID, err.Error()))
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func errorEvent(sessionID uuid.UUID, msg string) *Event {
	return &Event{
		Type:      EventError,
		SessionID: sessionID.String(),
		Payload:   map[string]string{"message": msg},
	}
}
