package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"StockPulse/internal/metrics"
	"StockPulse/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Websocket message types.
const (
	MessageAlert   = "alert"
	MessageSession = "session"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Message is the envelope sent to browser clients.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// SessionPayload carries a session banner update.
type SessionPayload struct {
	Status model.SessionStatus `json:"status"`
	Banner string              `json:"banner"`
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans alerts and session updates out to connected browsers.
type Hub struct {
	log     zerolog.Logger
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
	session []byte
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*websocket.Conn]*client),
	}
}

// HandleWebSocket upgrades the request and keeps the client registered until
// it disconnects. The latest session update is replayed on connect.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade")
		return
	}
	c := &client{id: uuid.NewString(), conn: conn}

	h.mu.Lock()
	h.clients[conn] = c
	last := h.session
	count := len(h.clients)
	h.mu.Unlock()
	metrics.WSClients.Set(float64(count))
	h.log.Debug().Str("client", c.id).Int("total", count).Msg("websocket client connected")

	if last != nil {
		if err := c.write(last); err != nil {
			h.log.Warn().Err(err).Str("client", c.id).Msg("replay session")
		}
	}

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		count := len(h.clients)
		h.mu.Unlock()
		metrics.WSClients.Set(float64(count))
		conn.Close()
		h.log.Debug().Str("client", c.id).Int("remaining", count).Msg("websocket client disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Str("client", c.id).Msg("websocket error")
			}
			return
		}
	}
}

// Notify broadcasts the alert without waiting for clients.
func (h *Hub) Notify(_ context.Context, alert model.Alert) {
	data, err := json.Marshal(Message{Type: MessageAlert, Payload: alert})
	if err != nil {
		h.log.Error().Err(err).Msg("marshal alert")
		return
	}
	go h.broadcast(data)
}

// BroadcastSession sends a session update and keeps it for late joiners.
func (h *Hub) BroadcastSession(status model.SessionStatus, banner string) {
	data, err := json.Marshal(Message{Type: MessageSession, Payload: SessionPayload{Status: status, Banner: banner}})
	if err != nil {
		h.log.Error().Err(err).Msg("marshal session")
		return
	}
	h.mu.Lock()
	h.session = data
	h.mu.Unlock()
	h.broadcast(data)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.log.Warn().Err(err).Str("client", c.id).Msg("websocket write")
		}
	}
}
