package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

const (
	// AdminTopic groups every admin dashboard connection.
	AdminTopic = "admin"

	sessionTopicPrefix = "session:"
)

// SessionTopic is the topic for one cart session.
func SessionTopic(session string) string {
	return sessionTopicPrefix + session
}

// ClientMessage is a message sent by a client. Only "ping" is understood.
type ClientMessage struct {
	Type string `json:"type"`
}

// Client is one websocket connection subscribed to a single topic.
type Client struct {
	Hub           *Hub
	Conn          *Conn
	Topic         string
	Send          chan []byte
	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex

	sendMu sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *Conn, topic string) *Client {
	return &Client{
		Hub:   hub,
		Conn:  conn,
		Topic: topic,
		Send:  make(chan []byte, 256),
	}
}

// trySend queues data without blocking. It reports false when the queue is full or closed.
func (c *Client) trySend(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Hub fans out events to connections by topic. Several connections may share a topic
// (one shopper with several tabs, several admins).
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	done       chan struct{}

	mu sync.RWMutex
}

type BroadcastMessage struct {
	Topic   string
	Message []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *BroadcastMessage, 1024),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Topic] = append(h.clients[client.Topic], client)
			count := len(h.clients[client.Topic])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"topic":       client.Topic,
				"connections": count,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[message.Topic] {
				if !client.trySend(message.Message) {
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"topic": message.Topic,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientList, ok := h.clients[client.Topic]
	if !ok {
		return
	}
	remaining := make([]*Client, 0, len(clientList))
	found := false
	for _, c := range clientList {
		if c == client {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return
	}
	if len(remaining) == 0 {
		delete(h.clients, client.Topic)
	} else {
		h.clients[client.Topic] = remaining
	}
	client.closeSend()

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"topic":                 client.Topic,
		"remaining_connections": len(remaining),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, clientList := range h.clients {
		for _, c := range clientList {
			c.closeSend()
		}
		delete(h.clients, topic)
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish queues a JSON-encoded message for every connection on topic. Messages are dropped
// when the queue is full; delivery is best effort.
func (h *Hub) Publish(topic string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err, nil)
		return err
	}

	select {
	case h.broadcast <- &BroadcastMessage{Topic: topic, Message: data}:
		return nil
	default:
		logger.Warn("Broadcast channel full, message dropped", map[string]interface{}{
			"topic": topic,
		})
		return nil
	}
}

// NotifySession sends a notification to every connection of a cart session.
func (h *Hub) NotifySession(session string, n model.Notification) {
	_ = h.Publish(SessionTopic(session), n)
}

// NotifyAdmins sends a notification to every admin connection.
func (h *Hub) NotifyAdmins(n model.Notification) {
	_ = h.Publish(AdminTopic, n)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ConnectionCount reports how many connections are subscribed to topic.
func (h *Hub) ConnectionCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// HandleClientMessage answers pings and ignores anything else. Clients over the rate limit are ignored.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"topic": client.Topic,
			"count": count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"topic": client.Topic,
			"error": err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		data, _ := json.Marshal(map[string]interface{}{
			"type":      "pong",
			"timestamp": now,
		})
		client.trySend(data)
	}
}
