package main

import (
	"testing"
	"time"
)

func TestSpawnBotsFillsParty(t *testing.T) {
	room, _ := newTestRoom(t)
	now := time.Now()
	joinTestPlayer(t, room, "c_1", "Alice")
	joinTestPlayer(t, room, "c_2", "Bob")

	room.mu.Lock()
	room.spawnBotsLocked(now)
	room.mu.Unlock()

	if room.reg.Count() != room.cfg.TargetParty {
		t.Fatalf("expected %d occupants, got %d", room.cfg.TargetParty, room.reg.Count())
	}
	for _, b := range room.reg.Bots() {
		if !b.Connected || !b.Ready {
			t.Error("bots should join connected and ready")
		}
		if !b.InGrace(now) {
			t.Error("bots should spawn with immunity")
		}
		if b.Name == "" {
			t.Error("bot should have a name")
		}
	}
}

func TestSpawnBotsNoopWhenPartyFull(t *testing.T) {
	room, _ := newTestRoom(t)
	now := time.Now()
	for i := 0; i < room.cfg.TargetParty; i++ {
		joinTestPlayer(t, room, "c_"+GenerateID(2), "Human")
	}

	room.mu.Lock()
	room.spawnBotsLocked(now)
	room.mu.Unlock()

	if len(room.reg.Bots()) != 0 {
		t.Error("full party should get no bots")
	}
}

func TestBotAutopilotAdvances(t *testing.T) {
	room, _ := newTestRoom(t)
	now := time.Now()
	joinTestPlayer(t, room, "c_1", "Alice")
	room.HandleStart("c_1", now)

	bots := room.reg.Bots()
	startZ := bots[0].Z

	room.mu.Lock()
	for i := 0; i < 40; i++ {
		room.tickBotsLocked(1.0/20, now)
	}
	room.mu.Unlock()

	for _, b := range bots {
		if b.Z <= startZ {
			t.Errorf("bot %s did not advance toward the finish", b.ID)
		}
		if b.X < -room.cfg.HalfWidth() || b.X > room.cfg.HalfWidth() {
			t.Errorf("bot %s left the map: X=%f", b.ID, b.X)
		}
	}
}

func TestBotAutopilotSkipsNonAlive(t *testing.T) {
	room, _ := newTestRoom(t)
	now := time.Now()
	joinTestPlayer(t, room, "c_1", "Alice")
	room.HandleStart("c_1", now)

	bot := room.reg.Bots()[0]
	bot.Life = LifeCaught
	frozen := bot.Z

	room.mu.Lock()
	room.tickBotsLocked(1.0/20, now)
	room.mu.Unlock()

	if bot.Z != frozen {
		t.Error("caught bot should not move")
	}
}

func TestBotDisplayNameWraps(t *testing.T) {
	if botDisplayName(0) != botNames[0] {
		t.Error("first bot should use the pool directly")
	}
	wrapped := botDisplayName(len(botNames))
	if wrapped == botNames[0] {
		t.Error("wrapped names should stay unique")
	}
}
