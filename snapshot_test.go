package main

import (
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

func TestSnapshotFrameDecodes(t *testing.T) {
	room, sink := newTestRoom(t)
	now := time.Now()
	p := joinTestPlayer(t, room, "c_1", "Alice")
	room.HandleStart("c_1", now)
	room.step(now.Add(50 * time.Millisecond))

	sink.mu.Lock()
	var frame []byte
	for _, raw := range sink.broadcasts {
		if len(raw) > 0 && raw[0] == binaryMarker {
			frame = raw
		}
	}
	sink.mu.Unlock()
	if frame == nil {
		t.Fatal("no binary snapshot broadcast")
	}

	var snap RoomSnapshot
	if err := msgpack.Unmarshal(frame[1:], &snap); err != nil {
		t.Fatalf("snapshot decode failed: %v", err)
	}
	if snap.Phase != PhasePlaying {
		t.Errorf("phase = %s", snap.Phase)
	}
	if len(snap.Players) != room.cfg.TargetParty {
		t.Errorf("expected %d players, got %d", room.cfg.TargetParty, len(snap.Players))
	}
	if snap.HostID != p.ID {
		t.Errorf("host = %s, want %s", snap.HostID, p.ID)
	}
	if snap.Monster.State == "" {
		t.Error("monster state missing")
	}
	if snap.Arg != nil {
		t.Error("no argument should be in the snapshot yet")
	}
}

func TestSnapshotCarriesArgument(t *testing.T) {
	room, _ := newTestRoom(t)
	now := time.Now()
	p := joinTestPlayer(t, room, "c_1", "Alice")
	room.HandleStart("c_1", now)
	p.X, p.Z = room.monster.X, room.monster.Z
	room.step(now.Add(50 * time.Millisecond))
	if room.phase != PhaseArgument {
		t.Fatal("setup: catch expected")
	}

	room.mu.Lock()
	snap := room.buildSnapshotLocked(now)
	room.mu.Unlock()

	if snap.Arg == nil {
		t.Fatal("argument missing from snapshot")
	}
	if snap.Arg.CaughtID != p.ID {
		t.Errorf("caught = %s", snap.Arg.CaughtID)
	}
	if snap.Arg.Rounds[0].Taunt == "" {
		t.Error("round taunt missing")
	}
}
