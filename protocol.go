package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin        = "join"
	MsgReady       = "ready"
	MsgStart       = "start"
	MsgInput       = "input"
	MsgChat        = "chat"
	MsgAssist      = "assist"
	MsgLeave       = "leave"
	MsgRegister    = "register"
	MsgLogin       = "login"
	MsgAuth        = "auth"
	MsgLeaderboard = "leaderboard"
)

// Server -> Client message types. Snapshots travel as binary msgpack
// frames; everything else is a JSON Envelope.
const (
	MsgWelcome         = "welcome"
	MsgEvent           = "event"
	MsgError           = "error"
	MsgAuthOK          = "auth_ok"
	MsgLeaderboardData = "leaderboard_data"
)

// Error codes sent to the offending client only
const (
	ErrBadMessage    = "BAD_MESSAGE"
	ErrInviteInvalid = "INVITE_INVALID"
	ErrRoomFull      = "ROOM_FULL"
	ErrJoinClosed    = "JOIN_CLOSED"
	ErrBadPhase      = "BAD_PHASE"
	ErrNotHost       = "NOT_HOST"
	ErrNotReady      = "NOT_READY"
	ErrNotCaught     = "NOT_CAUGHT"
	ErrStaleSession  = "STALE_SESSION"
)

// Room event kinds
const (
	EventPlayerCaught    = "player_caught"
	EventArgumentStarted = "argument_started"
	EventRoundResolved   = "round_resolved"
	EventPlayerEaten     = "player_eaten"
	EventPlayerEscaped   = "player_escaped"
	EventGameOver        = "game_over"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinMsg is sent when a player wants to join (or rejoin) a room
type JoinMsg struct {
	RoomID   string `json:"room"`
	Name     string `json:"name"`
	ClientID string `json:"cid"`
	Invite   string `json:"invite,omitempty"`
}

// ReadyMsg toggles lobby readiness
type ReadyMsg struct {
	Ready bool `json:"ready"`
}

// InputMsg carries a player's 20 Hz movement intention
type InputMsg struct {
	Seq   uint64  `json:"seq"`
	MoveH float64 `json:"mh"` // strafe intention, [-1,1]
	MoveV float64 `json:"mv"` // forward intention, [-1,1]
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	DtMs  float64 `json:"dt"`
}

// ChatMsg is a persuasion attempt for the active argument session
type ChatMsg struct {
	SessionID string `json:"sid"`
	Text      string `json:"text"`
}

// AssistMsg nominates a target for extra monster attention
type AssistMsg struct {
	TargetID string `json:"tid"`
}

// WelcomeMsg is sent to a player right after a successful join
type WelcomeMsg struct {
	SelfID       string `json:"id"`
	RoomID       string `json:"room"`
	TickRate     int    `json:"tick"`
	MaxOccupants int    `json:"max"`
}

// RoomEvent is a discrete notification broadcast to all room members
type RoomEvent struct {
	Kind     string `json:"kind"`
	PlayerID string `json:"pid,omitempty"`
	Round    int    `json:"round,omitempty"`
	Points   int    `json:"points,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
	Result   string `json:"result,omitempty"`
}

// ErrorMsg sends an error to the offending client only
type ErrorMsg struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg authenticates an existing account
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg re-validates a previously issued token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"u"`
	PlayerID int64  `json:"pid"`
}

// PlayerSnap is one player's public state inside a snapshot
type PlayerSnap struct {
	ID        string  `json:"id" msgpack:"id"`
	Name      string  `json:"n" msgpack:"n"`
	IsBot     bool    `json:"bot" msgpack:"bot"`
	LifeState string  `json:"ls" msgpack:"ls"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	Z         float64 `json:"z" msgpack:"z"`
	Yaw       float64 `json:"yaw" msgpack:"yaw"`
	Pitch     float64 `json:"pitch" msgpack:"pitch"`
	Connected bool    `json:"c" msgpack:"c"`
	Ready     bool    `json:"r" msgpack:"r"`
}

// MonsterSnap is the monster's public state
type MonsterSnap struct {
	X        float64 `json:"x" msgpack:"x"`
	Z        float64 `json:"z" msgpack:"z"`
	Yaw      float64 `json:"yaw" msgpack:"yaw"`
	State    string  `json:"st" msgpack:"st"`
	TargetID string  `json:"tid,omitempty" msgpack:"tid,omitempty"`
}

// RoundSnap is one argument round's public state
type RoundSnap struct {
	Number        int      `json:"n" msgpack:"n"`
	Taunt         string   `json:"taunt" msgpack:"taunt"`
	PlayerMessage string   `json:"msg,omitempty" msgpack:"msg,omitempty"`
	MonsterReply  string   `json:"reply,omitempty" msgpack:"reply,omitempty"`
	Points        int      `json:"pts" msgpack:"pts"`
	Matched       []string `json:"kw,omitempty" msgpack:"kw,omitempty"`
	TimedOut      bool     `json:"to" msgpack:"to"`
}

// ArgumentSnap is the active argument session's public state
type ArgumentSnap struct {
	ID            string      `json:"id" msgpack:"id"`
	CaughtID      string      `json:"caught" msgpack:"caught"`
	Round         int         `json:"round" msgpack:"round"`
	TotalScore    int         `json:"score" msgpack:"score"`
	RequiredScore int         `json:"req" msgpack:"req"`
	RoundSeconds  int         `json:"secs" msgpack:"secs"`
	DeadlineMs    int64       `json:"deadline" msgpack:"deadline"`
	Outcome       string      `json:"outcome" msgpack:"outcome"`
	Rounds        []RoundSnap `json:"rounds" msgpack:"rounds"`
}

// RoomSnapshot is the full authoritative state projection broadcast
// after every tick and state-changing handler
type RoomSnapshot struct {
	NowMs   int64         `json:"now" msgpack:"now"`
	Tick    uint64        `json:"tick" msgpack:"tick"`
	Phase   string        `json:"phase" msgpack:"phase"`
	HostID  string        `json:"host" msgpack:"host"`
	Players []PlayerSnap  `json:"p" msgpack:"p"`
	Monster MonsterSnap   `json:"m" msgpack:"m"`
	Arg     *ArgumentSnap `json:"arg,omitempty" msgpack:"arg,omitempty"`
	Result  string        `json:"result,omitempty" msgpack:"result,omitempty"`
}

// LeaderboardEntry is one row of the escape leaderboard
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Games    int    `json:"games"`
	Escapes  int    `json:"escapes"`
	Eaten    int    `json:"eaten"`
}
