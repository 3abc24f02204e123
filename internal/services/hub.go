package services

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// LeaderboardHub maintains the set of connected leaderboard clients and
// pushes freshly computed standings to them after each scoring cycle.
type LeaderboardHub struct {
	clients    map[*hubClient]bool
	broadcast  chan []byte
	register   chan *hubClient
	unregister chan *hubClient
	logger     *logrus.Logger
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewLeaderboardHub creates a hub; call Run in a goroutine to start it.
func NewLeaderboardHub(logger *logrus.Logger) *LeaderboardHub {
	return &LeaderboardHub{
		clients:    make(map[*hubClient]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
		logger:     logger,
	}
}

// Run drives the hub's register/unregister/broadcast loop.
func (h *LeaderboardHub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debugf("Leaderboard client connected (total: %d)", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debugf("Leaderboard client disconnected (total: %d)", len(h.clients))
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// BroadcastStandings fans a payload out to every connected client. A full
// broadcast buffer drops the message; the next cycle replaces it anyway.
func (h *LeaderboardHub) BroadcastStandings(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Errorf("Failed to marshal standings broadcast: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("Broadcast buffer full, dropping standings update")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a leaderboard subscription.
func (h *LeaderboardHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	c := &hubClient{conn: conn, send: make(chan []byte, 16)}
	h.register <- c

	go c.writeLoop()
	go c.readLoop(h)
}

func (c *hubClient) writeLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
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

// readLoop drains client frames so pings/pongs work; the leaderboard stream
// is one-way.
func (c *hubClient) readLoop(h *LeaderboardHub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
