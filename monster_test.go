package main

import (
	"testing"
	"time"
)

func testMonsterPlayer(cfg *Config, id string, x, z float64) *Player {
	p := NewPlayer(id, "", "", id, cfg, time.Now())
	p.X, p.Z = x, z
	return p
}

func TestMonsterPatrolsWhenAlone(t *testing.T) {
	cfg := testConfig(t)
	m := NewMonster(cfg)
	now := time.Now()

	startX, startZ := m.X, m.Z
	for i := 0; i < 10; i++ {
		m.Update(1.0/20, nil, nil, cfg, now)
	}

	if m.State != MonsterPatrol {
		t.Errorf("expected patrol, got %s", m.State)
	}
	if m.X == startX && m.Z == startZ {
		t.Error("monster did not move along its patrol")
	}
}

func TestMonsterChasesInRange(t *testing.T) {
	cfg := testConfig(t)
	m := NewMonster(cfg)
	now := time.Now()

	p := testMonsterPlayer(cfg, "p_1", m.X+cfg.DetectRange-5, m.Z)
	before := m.DistanceTo(p)
	m.Update(1.0/20, []*Player{p}, nil, cfg, now)

	if m.State != MonsterChase {
		t.Fatalf("expected chase, got %s", m.State)
	}
	if m.TargetID != "p_1" {
		t.Errorf("target = %s", m.TargetID)
	}
	if m.DistanceTo(p) >= before {
		t.Error("monster should close the distance")
	}
}

func TestMonsterIgnoresOutOfRange(t *testing.T) {
	cfg := testConfig(t)
	m := NewMonster(cfg)
	now := time.Now()

	p := testMonsterPlayer(cfg, "p_1", m.X, m.Z+cfg.DetectRange*2)
	m.Update(1.0/20, []*Player{p}, nil, cfg, now)

	if m.State != MonsterPatrol {
		t.Errorf("expected patrol, got %s", m.State)
	}
}

func TestMonsterChaseHysteresis(t *testing.T) {
	cfg := testConfig(t)
	m := NewMonster(cfg)
	now := time.Now()

	p := testMonsterPlayer(cfg, "p_1", m.X+cfg.DetectRange-1, m.Z)
	m.Update(1.0/20, []*Player{p}, nil, cfg, now)
	if m.State != MonsterChase {
		t.Fatal("setup: should be chasing")
	}

	// just past detect range: the chase must not drop yet
	p.X = m.X + cfg.DetectRange*1.2
	m.Update(1.0/20, []*Player{p}, nil, cfg, now)
	if m.State != MonsterChase {
		t.Error("chase dropped inside the hysteresis band")
	}

	// well past the dropoff bound: back to patrol
	p.X = m.X + cfg.DetectRange*2
	m.Update(1.0/20, []*Player{p}, nil, cfg, now)
	if m.State != MonsterPatrol {
		t.Error("chase should drop past the dropoff bound")
	}
	if m.TargetID != "" {
		t.Error("target should clear on patrol")
	}
}

func TestMonsterPicksNearest(t *testing.T) {
	cfg := testConfig(t)
	m := NewMonster(cfg)
	now := time.Now()

	far := testMonsterPlayer(cfg, "p_far", m.X+30, m.Z)
	near := testMonsterPlayer(cfg, "p_near", m.X+10, m.Z)
	m.Update(1.0/20, []*Player{far, near}, nil, cfg, now)

	if m.TargetID != "p_near" {
		t.Errorf("expected nearest target, got %s", m.TargetID)
	}
}

func TestMonsterTargetFollowsChaseInBand(t *testing.T) {
	cfg := testConfig(t)
	m := NewMonster(cfg)
	now := time.Now()

	first := testMonsterPlayer(cfg, "p_first", m.X+5, m.Z)
	other := testMonsterPlayer(cfg, "p_other", m.X, m.Z+cfg.DetectRange*1.2)
	m.Update(1.0/20, []*Player{first, other}, nil, cfg, now)
	if m.TargetID != "p_first" {
		t.Fatal("setup: nearest should be chased")
	}

	// the first runner is gone and the survivor sits inside the
	// hysteresis band: the chase holds, and the broadcast target must
	// name the player actually being chased, never the dead one
	m.Update(1.0/20, []*Player{other}, nil, cfg, now)
	if m.State != MonsterChase {
		t.Fatalf("chase should hold inside the band, got %s", m.State)
	}
	if m.TargetID != "p_other" {
		t.Errorf("target = %s, want p_other", m.TargetID)
	}
}

func TestMonsterAssistOverride(t *testing.T) {
	cfg := testConfig(t)
	m := NewMonster(cfg)
	now := time.Now()

	near := testMonsterPlayer(cfg, "p_near", m.X+10, m.Z)
	marked := testMonsterPlayer(cfg, "p_marked", m.X+cfg.DetectRange+10, m.Z)

	assists := NewAssistBook(cfg)
	assists.Add("p_near", "p_marked", now)

	m.Update(1.0/20, []*Player{near, marked}, assists, cfg, now)
	if m.TargetID != "p_marked" {
		t.Errorf("assist should override target, got %s", m.TargetID)
	}

	// expired beacon: back to nearest
	later := now.Add(cfg.AssistDuration + time.Second)
	m.Update(1.0/20, []*Player{near, marked}, assists, cfg, later)
	if m.TargetID != "p_near" {
		t.Errorf("expected nearest after beacon expiry, got %s", m.TargetID)
	}
}

func TestMonsterAssistFallsThroughStaleEntry(t *testing.T) {
	cfg := testConfig(t)
	m := NewMonster(cfg)
	now := time.Now()

	runner := testMonsterPlayer(cfg, "p_runner", m.X+cfg.DetectRange+10, m.Z)
	assists := NewAssistBook(cfg)
	assists.Add("p_x", "p_gone", now) // mark no longer alive
	assists.Add("p_y", "p_runner", now)

	m.Update(1.0/20, []*Player{runner}, assists, cfg, now)
	if m.TargetID != "p_runner" {
		t.Errorf("stale beacon should fall through, got %q", m.TargetID)
	}
}

func TestMonsterResetReturnsToSpawn(t *testing.T) {
	cfg := testConfig(t)
	m := NewMonster(cfg)
	now := time.Now()

	p := testMonsterPlayer(cfg, "p_1", m.X+10, m.Z)
	for i := 0; i < 50; i++ {
		m.Update(1.0/20, []*Player{p}, nil, cfg, now)
	}
	m.Reset()

	if m.X != m.spawnX || m.Z != m.spawnZ {
		t.Error("reset should return the monster to spawn")
	}
	if m.State != MonsterPatrol || m.TargetID != "" {
		t.Error("reset should clear chase state")
	}
}
