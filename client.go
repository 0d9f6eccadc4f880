package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
)

// Client represents a WebSocket connection pinned to one room.
type Client struct {
	id         string
	roomID     string
	hub        *Hub
	room       *Room
	auth       *Auth
	db         *DB
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	log        *zap.Logger
	msgCount   int
	msgResetAt time.Time
	// Auth state
	authPlayerID int64  // 0 = unauthenticated/guest
	authUsername string // "" = unauthenticated
}

func NewClient(hub *Hub, room *Room, auth *Auth, db *DB, conn *websocket.Conn, remoteAddr string, log *zap.Logger) *Client {
	id := "c_" + GenerateID(8)
	return &Client{
		id:         id,
		roomID:     room.id,
		hub:        hub,
		room:       room,
		auth:       auth,
		db:         db,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
		log:        log.With(zap.String("conn", id)),
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.Unregister(c)
		c.room.HandleDisconnect(c.id, time.Now())
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("ws error", zap.Error(err))
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.log.Warn("rate limit exceeded, disconnecting", zap.String("addr", c.remoteAddr))
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix marks a binary state frame
			var err error
			if len(message) > 0 && message[0] == binaryMarker {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
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

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal error", zap.Error(err))
		return
	}
	c.SendRaw(data)
}

// SendRaw queues pre-marshaled bytes for delivery. Non-blocking: a
// client that cannot keep up loses frames rather than stalling the room.
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Code: ErrBadMessage, Msg: "malformed message"}})
		return
	}

	switch env.T {
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgReady:
		c.handleReady(env.D)
	case MsgStart:
		c.room.HandleStart(c.id, time.Now())
	case MsgInput:
		c.handleInput(env.D)
	case MsgChat:
		c.handleChat(env.D)
	case MsgAssist:
		c.handleAssist(env.D)
	case MsgLeave:
		c.room.HandleLeave(c.id, time.Now())
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgLeaderboard:
		c.handleLeaderboard()
	default:
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Code: ErrBadMessage, Msg: "unknown message type"}})
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Code: ErrBadMessage, Msg: "bad join payload"}})
		return
	}
	// authenticated accounts carry their username as the display name
	if msg.Name == "" && c.authUsername != "" {
		msg.Name = c.authUsername
	}
	c.room.HandleJoin(c.id, msg, time.Now())
}

func (c *Client) handleReady(data json.RawMessage) {
	var msg ReadyMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.room.HandleReady(c.id, msg.Ready)
}

func (c *Client) handleInput(data json.RawMessage) {
	var msg InputMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.room.HandleInput(c.id, msg, time.Now())
}

func (c *Client) handleChat(data json.RawMessage) {
	var msg ChatMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Code: ErrBadMessage, Msg: "bad chat payload"}})
		return
	}
	c.room.HandleChat(c.id, msg, time.Now())
}

func (c *Client) handleAssist(data json.RawMessage) {
	var msg AssistMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.room.HandleAssist(c.id, msg, time.Now())
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Code: ErrBadMessage, Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Code: ErrBadMessage, Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Code: ErrBadMessage, Msg: "invalid token"}})
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    msg.Token,
		Username: username,
		PlayerID: id,
	}})
}

func (c *Client) handleLeaderboard() {
	if c.db == nil {
		c.SendJSON(Envelope{T: MsgLeaderboardData, Data: []LeaderboardEntry{}})
		return
	}
	entries, err := c.db.Leaderboard(20)
	if err != nil {
		c.log.Error("leaderboard query failed", zap.Error(err))
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Code: ErrBadMessage, Msg: "leaderboard unavailable"}})
		return
	}
	c.SendJSON(Envelope{T: MsgLeaderboardData, Data: entries})
}
