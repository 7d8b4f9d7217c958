package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"plinkoServer/config"
	"plinkoServer/game"

	"github.com/gorilla/websocket"
)

// RoundsChannel is the only channel clients can subscribe to
const RoundsChannel = "rounds"

// Event types pushed to subscribers
const (
	EventRoundHistory   = "round_history"
	EventRoundCommitted = "round_committed"
	EventRoundStarted   = "round_started"
	EventRoundRevealed  = "round_revealed"
	EventError          = "error"
)

// RoundLister supplies the history sent to new subscribers
type RoundLister interface {
	RecentRounds(ctx context.Context, limit int) ([]*game.Round, error)
}

// Event is the JSON frame sent to clients. Rounds are always public views.
type Event struct {
	Type      string        `json:"type"`
	Round     *game.Round   `json:"round,omitempty"`
	Rounds    []*game.Round `json:"rounds,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

// ClientMessage is a message from a client
type ClientMessage struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// ClientConnection represents a connected client with their subscriptions
type ClientConnection struct {
	ID            string
	Conn          *websocket.Conn
	Subscriptions map[string]bool
	Send          chan []byte

	hub    *Hub
	mu     sync.Mutex
	closed bool
}

// enqueue queues data for the write pump, dropping it if the buffer is full
func (c *ClientConnection) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		log.Printf("⚠️  Client %s send buffer full, skipping message", c.ID)
		return false
	}
}

func (c *ClientConnection) subscribed(channel string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Subscriptions[channel]
}

func (c *ClientConnection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Hub fans round events out to websocket subscribers
type Hub struct {
	history  RoundLister
	upgrader websocket.Upgrader

	clients      map[*ClientConnection]bool
	clientsMutex sync.RWMutex

	broadcast  chan []byte
	register   chan *ClientConnection
	unregister chan *ClientConnection
	done       chan struct{}

	clientIDCounter int64
}

// NewHub creates a hub. An empty allowedOrigin accepts any origin.
func NewHub(history RoundLister, allowedOrigin string) *Hub {
	return &Hub{
		history: history,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.WSReadBufferSize,
			WriteBufferSize: config.WSWriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		clients:    make(map[*ClientConnection]bool),
		broadcast:  make(chan []byte, 100),
		register:   make(chan *ClientConnection),
		unregister: make(chan *ClientConnection),
		done:       make(chan struct{}),
	}
}

// Run is the central message dispatcher; it returns when ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	log.Println("🚀 Round event hub started")
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.clientsMutex.Unlock()
			log.Printf("✅ Client registered: %s (Total: %d)", client.ID, total)

		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			total := len(h.clients)
			h.clientsMutex.Unlock()
			log.Printf("👋 Client unregistered: %s (Total: %d)", client.ID, total)

		case message := <-h.broadcast:
			h.broadcastToSubscribers(RoundsChannel, message)

		case <-ctx.Done():
			h.clientsMutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.close()
			}
			h.clientsMutex.Unlock()
			log.Println("🛑 Round event hub stopped")
			return
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// broadcastToSubscribers sends message to all clients subscribed to a channel
func (h *Hub) broadcastToSubscribers(channel string, message []byte) {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	for client := range h.clients {
		if client.subscribed(channel) {
			client.enqueue(message)
		}
	}
}

/* =========================
   PUBLISHING
========================= */

func (h *Hub) PublishCommitted(round *game.Round) {
	h.publish(EventRoundCommitted, round)
}

func (h *Hub) PublishStarted(round *game.Round) {
	h.publish(EventRoundStarted, round)
}

func (h *Hub) PublishRevealed(round *game.Round) {
	h.publish(EventRoundRevealed, round)
}

func (h *Hub) publish(eventType string, round *game.Round) {
	data, err := json.Marshal(Event{
		Type:      eventType,
		Round:     round.Public(),
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("❌ Failed to marshal %s event: %v", eventType, err)
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		log.Printf("⚠️  Broadcast queue full, dropping %s for round %s", eventType, round.ID)
	}
}

/* =========================
   CONNECTIONS
========================= */

// ServeHTTP upgrades the request and starts the client's pumps
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Println("📥 WebSocket connection from:", r.RemoteAddr)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("❌ WebSocket upgrade failed:", err)
		return
	}

	client := &ClientConnection{
		ID:            h.generateClientID(),
		Conn:          conn,
		Subscriptions: make(map[string]bool),
		Send:          make(chan []byte, config.WSSendQueueSize),
		hub:           h,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *ClientConnection) writePump() {
	ticker := time.NewTicker(config.WSPingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("❌ Write error for client %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *ClientConnection) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ Read error for client %s: %v", c.ID, err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Printf("❌ Failed to parse message from client %s: %v", c.ID, err)
			c.sendError("invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *ClientConnection) handleMessage(msg ClientMessage) {
	channel, _ := msg.Data["channel"].(string)

	switch msg.Type {
	case "subscribe":
		if channel != RoundsChannel {
			c.sendError(fmt.Sprintf("unknown channel %q", channel))
			return
		}
		c.mu.Lock()
		c.Subscriptions[channel] = true
		c.mu.Unlock()
		log.Printf("📡 Client %s subscribed to: %s", c.ID, channel)

		c.sendInitialData()

	case "unsubscribe":
		c.mu.Lock()
		delete(c.Subscriptions, channel)
		c.mu.Unlock()
		log.Printf("📴 Client %s unsubscribed from: %s", c.ID, channel)

	default:
		log.Printf("⚠️  Unknown message type from client %s: %s", c.ID, msg.Type)
		c.sendError(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// sendInitialData sends the recent rounds to a new subscriber
func (c *ClientConnection) sendInitialData() {
	rounds := []*game.Round{}

	if c.hub.history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		recent, err := c.hub.history.RecentRounds(ctx, config.WSHistorySize)
		if err != nil {
			log.Printf("⚠️  Failed to load round history for client %s: %v", c.ID, err)
		}
		for _, round := range recent {
			rounds = append(rounds, round.Public())
		}
	}

	data, err := json.Marshal(Event{
		Type:      EventRoundHistory,
		Rounds:    rounds,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("❌ Failed to marshal round history: %v", err)
		return
	}

	if c.enqueue(data) {
		log.Printf("📨 Client %s subscribed to rounds - sent %d history items", c.ID, len(rounds))
	}
}

func (c *ClientConnection) sendError(message string) {
	data, _ := json.Marshal(Event{
		Type:      EventError,
		Error:     message,
		Timestamp: time.Now().UnixMilli(),
	})
	c.enqueue(data)
}

// generateClientID creates a unique client ID
func (h *Hub) generateClientID() string {
	id := atomic.AddInt64(&h.clientIDCounter, 1)
	return fmt.Sprintf("%d-%d", time.Now().Unix(), id)
}
