package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MakeInvite derives a shareable token for a room. Stateless: the same
// secret and room always produce the same token, so invites survive a
// server restart.
func MakeInvite(secret, roomID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(roomID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:12])
}

func ValidateInvite(secret, roomID, token string) bool {
	if secret == "" {
		return true
	}
	return hmac.Equal([]byte(MakeInvite(secret, roomID)), []byte(token))
}

// RoomManager owns the live rooms and their tick goroutines.
type RoomManager struct {
	cfg      *Config
	log      *zap.Logger
	hub      *Hub
	enricher Enricher
	tracker  *Analytics
	store    ResultStore

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRoomManager(cfg *Config, log *zap.Logger, hub *Hub, enricher Enricher, tracker *Analytics, store ResultStore) *RoomManager {
	return &RoomManager{
		cfg:      cfg,
		log:      log,
		hub:      hub,
		enricher: enricher,
		tracker:  tracker,
		store:    store,
		rooms:    make(map[string]*Room),
	}
}

// normalizeRoomID keeps room ids url- and log-safe
func normalizeRoomID(id string) string {
	id = strings.TrimSpace(strings.ToLower(id))
	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 32 {
		out = out[:32]
	}
	return out
}

// GetOrCreate returns the room, spinning up its loop on first use.
func (m *RoomManager) GetOrCreate(id string) *Room {
	id = normalizeRoomID(id)
	if id == "" {
		id = "room_" + uuid.NewString()[:8]
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.rooms[id]; ok {
		return room
	}
	room := NewRoom(id, m.cfg, m.log, roomSink{hub: m.hub, roomID: id}, m.enricher, m.tracker, m.store)
	m.rooms[id] = room
	go room.Run()
	m.log.Info("room created", zap.String("room", id))
	return room
}

func (m *RoomManager) Get(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[normalizeRoomID(id)]
}

// StopAll shuts down every room loop, used on server shutdown.
func (m *RoomManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, room := range m.rooms {
		room.Stop()
	}
}

// roomSink scopes hub delivery to a single room so Room never needs to
// know about sockets.
type roomSink struct {
	hub    *Hub
	roomID string
}

func (s roomSink) Broadcast(data []byte)        { s.hub.BroadcastRoom(s.roomID, data) }
func (s roomSink) SendTo(connID string, b []byte) { s.hub.SendTo(connID, b) }
