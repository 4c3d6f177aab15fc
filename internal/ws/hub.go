package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// Client is one websocket connection belonging to an authenticated user.
// A user may hold several connections (multiple tabs/devices).
type Client struct {
	ID     string
	UserID int64
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

// updatePayload is the frame pushed to clients on a user-update signal.
type updatePayload struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// Hub tracks connected clients by user id and pushes best-effort refresh
// signals. Delivery is at most once: slow clients get dropped frames, not
// backpressure.
type Hub struct {
	mu         sync.RWMutex
	clients    map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("[Hub] Client connected: id=%s user=%d", client.ID, client.UserID)
		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok && conns[client] {
				delete(conns, client)
				if len(conns) == 0 {
					delete(h.clients, client.UserID)
				}
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[Hub] Client disconnected: id=%s user=%d", client.ID, client.UserID)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for client := range conns {
			close(client.send)
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
}

// NotifyUsers pushes a user_update frame to every connection of every given
// user. Users without connections are skipped; full send buffers drop the
// frame instead of blocking the worker.
func (h *Hub) NotifyUsers(ctx context.Context, userIDs []int64) error {
	payload, err := json.Marshal(updatePayload{
		Type:      "user_update",
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, userID := range userIDs {
		for client := range h.clients[userID] {
			select {
			case client.send <- payload:
			default:
				log.Printf("[Hub] Dropping frame for slow client id=%s user=%d", client.ID, userID)
			}
		}
	}
	return nil
}

// ServeWS upgrades an HTTP request to a websocket connection and registers it
// for the given user.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Hub] Upgrade failed for user %d: %v", userID, err)
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, 16),
		hub:    h,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump discards inbound frames (the protocol is push-only) and tears the
// client down when the peer goes away.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Hub] Read error: client=%s err=%v", c.ID, err)
			}
			return
		}
	}
}

// writePump forwards frames from the send channel and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
