package main

import (
	"sync"

	"go.uber.org/zap"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub tracks live sockets and delivers frames to them, grouped by room.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // by conn id
	byRoom  map[string]map[string]*Client // room id -> conn id -> client
	// Connection limiting (accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		byRoom:  make(map[string]map[string]*Client),
		ipConns: make(map[string]int),
		log:     log,
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
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

// Register adds a client to its room's delivery group.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	group := h.byRoom[c.roomID]
	if group == nil {
		group = make(map[string]*Client)
		h.byRoom[c.roomID] = group
	}
	group[c.id] = c
}

// Unregister removes a client and closes its send queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	if group, ok := h.byRoom[c.roomID]; ok {
		delete(group, c.id)
		if len(group) == 0 {
			delete(h.byRoom, c.roomID)
		}
	}
	close(c.send)
}

// BroadcastRoom delivers a frame to every socket in a room.
func (h *Hub) BroadcastRoom(roomID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.byRoom[roomID] {
		c.SendRaw(data)
	}
}

// SendTo delivers a frame to a single socket.
func (h *Hub) SendTo(connID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[connID]; ok {
		c.SendRaw(data)
	}
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
