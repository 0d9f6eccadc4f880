package main

import (
	"math"
	"time"
)

const playerEyeHeight = 1.8

// LifeState tracks an occupant through the chase
type LifeState string

const (
	LifeAlive   LifeState = "alive"
	LifeCaught  LifeState = "caught"
	LifeEaten   LifeState = "eaten"
	LifeEscaped LifeState = "escaped"
)

// Player is one occupant's authoritative record. Identity is a triple:
// a stable player id, a stable client id that survives reconnects, and
// the current transport connection id (empty when detached). Human
// records persist for the room's lifetime so reconnection works; bot
// records are removed when the game ends.
type Player struct {
	ID       string
	ClientID string
	ConnID   string
	Name     string
	IsBot    bool

	Life       LifeState
	X, Y, Z    float64
	Yaw, Pitch float64

	Connected  bool
	Ready      bool
	LastUpdate time.Time
	GraceUntil time.Time // re-catch grace deadline

	// Bot autopilot state
	LateralPhase float64
}

// NewPlayer creates a fresh human record at the start line
func NewPlayer(id, clientID, connID, name string, cfg *Config, now time.Time) *Player {
	return &Player{
		ID:         id,
		ClientID:   clientID,
		ConnID:     connID,
		Name:       name,
		Life:       LifeAlive,
		Y:          playerEyeHeight,
		Z:          cfg.StartZ(),
		Connected:  true,
		LastUpdate: now,
	}
}

// InGrace reports whether the re-catch grace window is still open
func (p *Player) InGrace(now time.Time) bool {
	return now.Before(p.GraceUntil)
}

// ApplyInput integrates one movement intention into the player's
// position. Intention components are clamped to [-1,1], rotated into
// world space by the declared yaw, scaled by speed and a clamped
// delta-time factor, and the result is clamped to the room bounds.
func (p *Player) ApplyInput(in InputMsg, cfg *Config, now time.Time) {
	moveH := Clamp(in.MoveH, -1, 1)
	moveV := Clamp(in.MoveV, -1, 1)
	scale := DtScale(in.DtMs / 1000)

	sinY := math.Sin(in.Yaw)
	cosY := math.Cos(in.Yaw)
	// Forward/back and strafe relative to the declared yaw
	worldX := sinY*moveV + cosY*moveH
	worldZ := cosY*moveV - sinY*moveH

	length := math.Sqrt(worldX*worldX + worldZ*worldZ)
	if length > 0.0001 {
		step := cfg.PlayerSpeed * scale
		p.X += worldX / length * step * math.Min(length, 1)
		p.Z += worldZ / length * step * math.Min(length, 1)
	}

	p.X = Clamp(p.X, -cfg.HalfWidth(), cfg.HalfWidth())
	p.Z = Clamp(p.Z, -cfg.HalfDepth(), cfg.HalfDepth())
	p.Yaw = in.Yaw
	p.Pitch = in.Pitch
	p.LastUpdate = now
}

// Snap projects the record's public fields
func (p *Player) Snap() PlayerSnap {
	return PlayerSnap{
		ID:        p.ID,
		Name:      p.Name,
		IsBot:     p.IsBot,
		LifeState: string(p.Life),
		X:         p.X,
		Y:         p.Y,
		Z:         p.Z,
		Yaw:       p.Yaw,
		Pitch:     p.Pitch,
		Connected: p.Connected,
		Ready:     p.Ready,
	}
}
