package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/joeys1992/Date/middleware"
)

// Manager is the registry of live client connections, keyed by user id.
// Delivery is at-most-once: if a user has no open connection the event is
// dropped and the stored message remains the authoritative record.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool
}

type Client struct {
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]map[*Client]bool),
	}
}

func (m *Manager) register(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conns := m.clients[client.userID]
	if conns == nil {
		conns = make(map[*Client]bool)
		m.clients[client.userID] = conns
	}
	conns[client] = true
	log.Printf("✅ WebSocket client registered for user %s", client.userID)
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conns := m.clients[client.userID]
	if conns == nil {
		return
	}
	if _, ok := conns[client]; ok {
		delete(conns, client)
		close(client.send)
		if len(conns) == 0 {
			delete(m.clients, client.userID)
		}
		log.Printf("❌ WebSocket client unregistered for user %s", client.userID)
	}
}

// SendToUser pushes an event to every open connection of one user.
// Slow or dead connections are dropped rather than waited on.
func (m *Manager) SendToUser(userID string, eventType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		log.Printf("❌ Error marshaling WebSocket event: %v", err)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for client := range m.clients[userID] {
		select {
		case client.send <- data:
		default:
		}
	}
}

// ConnectedUsers returns how many distinct users are online.
func (m *Manager) ConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades /ws/:userId connections. The token is carried as a
// query parameter because browsers cannot set headers on the WebSocket
// handshake; it must resolve to the same user the path names.
func Handler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			return
		}

		claims, err := middleware.ParseToken(token)
		if err != nil || claims.UserID != userID {
			log.Printf("❌ WebSocket connection rejected for user %s: invalid token", userID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			userID:  userID,
			send:    make(chan []byte, 256),
			manager: manager,
		}
		manager.register(client)

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "connected",
			"payload": map[string]interface{}{
				"userId": userID,
				"time":   time.Now().Unix(),
			},
		})
		client.send <- welcome

		go client.writePump()
		go client.readPump()
	}
}

// readPump drains the connection until it closes. Clients only send pings;
// the channel is push-only.
func (c *Client) readPump() {
	defer func() {
		c.manager.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket read error: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
