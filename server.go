package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Server wires the HTTP surface to the hub and room manager.
type Server struct {
	cfg   *Config
	log   *zap.Logger
	hub   *Hub
	rooms *RoomManager
	auth  *Auth
	db    *DB
}

func NewServer(cfg *Config, log *zap.Logger, hub *Hub, rooms *RoomManager, auth *Auth, db *DB) *Server {
	return &Server{cfg: cfg, log: log, hub: hub, rooms: rooms, auth: auth, db: db}
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/invite/qr", s.handleInviteQR)
	return mux
}

// handleWS upgrades the socket and pins it to the requested room.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ip := extractIP(r)
	if !s.hub.CanAccept(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	room := s.rooms.GetOrCreate(r.URL.Query().Get("room"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade error", zap.Error(err))
		return
	}

	s.hub.TrackConnect(ip)

	client := NewClient(s.hub, room, s.auth, s.db, conn, ip, s.log)
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"conns":  s.hub.TotalConns(),
	})
}

// handleInviteQR renders a join link for a room as a QR code PNG.
func (s *Server) handleInviteQR(w http.ResponseWriter, r *http.Request) {
	roomID := normalizeRoomID(r.URL.Query().Get("room"))
	if roomID == "" {
		http.Error(w, "missing room", http.StatusBadRequest)
		return
	}

	joinURL := fmt.Sprintf("%s/?room=%s", s.cfg.PublicURL, url.QueryEscape(roomID))
	if s.cfg.InviteSecret != "" {
		joinURL += "&invite=" + url.QueryEscape(MakeInvite(s.cfg.InviteSecret, roomID))
	}

	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		s.log.Error("qr encode failed", zap.Error(err))
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
