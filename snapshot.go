package main

import (
	"encoding/json"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// binaryMarker prefixes msgpack frames so clients can tell state
// snapshots apart from JSON control messages on the same socket.
const binaryMarker = 0xFF

func (r *Room) buildSnapshotLocked(now time.Time) *RoomSnapshot {
	snap := &RoomSnapshot{
		NowMs:  now.UnixMilli(),
		Tick:   r.tick,
		Phase:  r.phase,
		HostID: r.hostID,
		Result: r.result,
	}
	for _, p := range r.reg.All() {
		snap.Players = append(snap.Players, p.Snap())
	}
	if r.monster != nil {
		snap.Monster = r.monster.Snap()
	}
	if r.arg != nil {
		snap.Arg = r.arg.Snap()
	}
	return snap
}

func (r *Room) broadcastSnapshotLocked(now time.Time) {
	snap := r.buildSnapshotLocked(now)
	raw, err := msgpack.Marshal(snap)
	if err != nil {
		r.log.Error("snapshot encode failed", zap.Error(err))
		return
	}
	frame := make([]byte, 0, len(raw)+1)
	frame = append(frame, binaryMarker)
	frame = append(frame, raw...)
	r.out.Broadcast(frame)
}

func encodeEnvelope(t string, payload any) []byte {
	raw, err := json.Marshal(Envelope{T: t, Data: payload})
	if err != nil {
		return nil
	}
	return raw
}

func (r *Room) broadcastEventLocked(ev RoomEvent) {
	if raw := encodeEnvelope(MsgEvent, ev); raw != nil {
		r.out.Broadcast(raw)
	}
}

func (r *Room) sendErrorLocked(connID, code, msg string) {
	if raw := encodeEnvelope(MsgError, ErrorMsg{Code: code, Msg: msg}); raw != nil {
		r.out.SendTo(connID, raw)
	}
}
