package main

import (
	"sync"

	"go.uber.org/zap"
)

// Hub tracks live connections and ties each one to its player in the game
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	bound      map[EntityID]*Client
	register   chan *Client
	unregister chan *Client
	game       *Game
	log        *zap.Logger

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu        sync.Mutex
	ipConns       map[string]int
	totalConns    int
	maxConns      int
	maxConnsPerIP int
}

// NewHub creates a new Hub serving game
func NewHub(game *Game, cfg ServerConfig, log *zap.Logger) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		bound:         make(map[EntityID]*Client),
		register:      make(chan *Client, 64),
		unregister:    make(chan *Client, 64),
		game:          game,
		log:           log,
		ipConns:       make(map[string]int),
		maxConns:      cfg.MaxConns,
		maxConnsPerIP: cfg.MaxConnsPerIP,
	}
}

// CanAccept reports whether another connection from ip fits the limits
func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.maxConns {
		return false
	}
	if h.ipConns[ip] >= h.maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			old := h.bound[client.playerID]
			h.clients[client] = true
			h.bound[client.playerID] = client
			h.mu.Unlock()
			if old != nil {
				// A second socket for the same player replaces the first.
				old.conn.Close()
			}
			if err := h.game.SetClient(client.playerID, client); err != nil {
				client.log.Error("bind client", zap.Error(err))
				client.conn.Close()
				continue
			}
			client.log.Info("client connected", zap.String("addr", client.remoteAddr))

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				close(client.send)
			}
			current := h.bound[client.playerID] == client
			if current {
				delete(h.bound, client.playerID)
			}
			h.mu.Unlock()
			if !ok {
				continue
			}
			h.TrackDisconnect(client.remoteAddr)
			if current {
				h.game.RemovePlayer(client.playerID)
			}
			client.log.Info("client disconnected")
		}
	}
}

// Connected reports whether a socket is bound to the player
func (h *Hub) Connected(id EntityID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.bound[id]
	return ok
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
