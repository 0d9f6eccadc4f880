package main

import (
	"math"
	"time"
)

const (
	monsterHeight      = 1.6
	waypointReach      = 1.2 // switch patrol waypoint within this distance
	chaseDropoffFactor = 1.4 // hysteresis: give up chase beyond detect * this
	assistRangeFactor  = 1.5 // assist override works within detect * this
)

// MonsterState is the antagonist's behavior mode
type MonsterState string

const (
	MonsterPatrol MonsterState = "patrol"
	MonsterChase  MonsterState = "chase"
)

type waypoint struct {
	X, Z float64
}

// Monster is the room's single pursuing antagonist
type Monster struct {
	X, Y, Z   float64
	Yaw       float64
	State     MonsterState
	TargetID  string
	patrolIdx int
	patrol    []waypoint
	spawnX    float64
	spawnZ    float64
}

// NewMonster places the monster ahead of the start line with a fixed
// cyclic patrol route around its spawn.
func NewMonster(cfg *Config) *Monster {
	m := &Monster{
		spawnX: 0,
		spawnZ: cfg.StartZ() + 55,
	}
	m.Reset()
	return m
}

// Reset returns the monster to its spawn and patrol behavior
func (m *Monster) Reset() {
	m.X = m.spawnX
	m.Y = monsterHeight
	m.Z = m.spawnZ
	m.Yaw = 0
	m.State = MonsterPatrol
	m.TargetID = ""
	m.patrolIdx = 0
	m.patrol = []waypoint{
		{m.spawnX - 8, m.spawnZ - 10},
		{m.spawnX + 8, m.spawnZ - 2},
		{m.spawnX + 10, m.spawnZ + 8},
		{m.spawnX - 10, m.spawnZ + 14},
	}
}

// Update runs one AI tick: pick a target among alive players (with
// assist override), apply chase/patrol hysteresis, and step toward the
// current goal. Yaw follows the movement direction and is left alone
// when the step is negligible.
func (m *Monster) Update(dt float64, alive []*Player, assists *AssistBook, cfg *Config, now time.Time) {
	var nearest *Player
	nearestDist := math.MaxFloat64
	for _, p := range alive {
		d := PlanarDistance(m.X, m.Z, p.X, p.Z)
		if d < nearestDist {
			nearestDist = d
			nearest = p
		}
	}

	// A distress beacon overrides the baseline target when its subject
	// is alive and within extended range; the first entry whose subject
	// qualifies wins, later ones are held in reserve. The beacon also
	// extends the detection threshold, so a mark beyond normal range
	// still draws the monster in.
	target := nearest
	targetDist := nearestDist
	detect := cfg.DetectRange
	if assists != nil {
	beacons:
		for _, id := range assists.ActiveTargets(now) {
			for _, p := range alive {
				if p.ID != id {
					continue
				}
				if d := PlanarDistance(m.X, m.Z, p.X, p.Z); d <= cfg.DetectRange*assistRangeFactor {
					target = p
					targetDist = d
					detect = cfg.DetectRange * assistRangeFactor
					break beacons
				}
			}
		}
	}

	// Hysteresis keeps the state from flapping at the detection boundary
	if target != nil && targetDist <= detect {
		m.State = MonsterChase
	} else if target == nil || targetDist > detect*chaseDropoffFactor {
		m.State = MonsterPatrol
	}

	var goalX, goalZ float64
	if m.State == MonsterChase && target != nil {
		// the broadcast target always names the player actually chased
		m.TargetID = target.ID
		goalX, goalZ = target.X, target.Z
	} else {
		m.TargetID = ""
		wp := m.patrol[m.patrolIdx]
		if PlanarDistance(m.X, m.Z, wp.X, wp.Z) <= waypointReach {
			m.patrolIdx = (m.patrolIdx + 1) % len(m.patrol)
			wp = m.patrol[m.patrolIdx]
		}
		goalX, goalZ = wp.X, wp.Z
	}

	dx := goalX - m.X
	dz := goalZ - m.Z
	length := math.Sqrt(dx*dx + dz*dz)
	if length <= 0.001 {
		return
	}
	step := cfg.MonsterSpeed * DtScale(dt)
	moveX := dx / length * step
	moveZ := dz / length * step
	m.X = Clamp(m.X+moveX, -cfg.HalfWidth(), cfg.HalfWidth())
	m.Z = Clamp(m.Z+moveZ, -cfg.HalfDepth(), cfg.HalfDepth())
	m.Yaw = math.Atan2(moveX, moveZ)
}

// DistanceTo returns the planar distance to a player
func (m *Monster) DistanceTo(p *Player) float64 {
	return PlanarDistance(m.X, m.Z, p.X, p.Z)
}

// Snap projects the monster's public state
func (m *Monster) Snap() MonsterSnap {
	return MonsterSnap{
		X:        m.X,
		Z:        m.Z,
		Yaw:      m.Yaw,
		State:    string(m.State),
		TargetID: m.TargetID,
	}
}
