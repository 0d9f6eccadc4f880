package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

var botNames = []string{"Moss", "Birch", "Fern", "Wren", "Alder", "Sorrel", "Reed", "Ivy"}

// spawnBotsLocked fills the party up to the configured target with bots.
// Bots get a spawn immunity window so the monster does not snap onto
// them the instant the game starts.
func (r *Room) spawnBotsLocked(now time.Time) {
	have := r.reg.Count()
	for i := 0; have < r.cfg.TargetParty; i++ {
		name := botDisplayName(i)
		id := "bot_" + GenerateID(4)
		p := NewPlayer(id, "", "", name, r.cfg, now)
		p.IsBot = true
		p.Connected = true
		p.Ready = true
		p.GraceUntil = now.Add(r.cfg.BotSpawnImmunity)
		// spread bots out along the start line
		p.X = Clamp(float64(have)*3.0-6.0, -r.cfg.HalfWidth(), r.cfg.HalfWidth())
		r.reg.Insert(p)
		have++
	}
}

// tickBotsLocked advances bot autopilot: a steady push toward the finish
// line with a sinusoidal lateral drift so bots do not run straight rails.
func (r *Room) tickBotsLocked(dt float64, now time.Time) {
	scale := DtScale(dt)
	for _, p := range r.reg.Bots() {
		if p.Life != LifeAlive {
			continue
		}
		p.LateralPhase += dt * r.cfg.BotDrift
		moveX := math.Sin(p.LateralPhase) * 0.6
		moveZ := 1.0
		length := math.Hypot(moveX, moveZ)
		step := r.cfg.BotSpeed * scale
		p.X += moveX / length * step
		p.Z += moveZ / length * step
		p.X = Clamp(p.X, -r.cfg.HalfWidth(), r.cfg.HalfWidth())
		p.Z = Clamp(p.Z, -r.cfg.HalfDepth(), r.cfg.HalfDepth())
		p.Yaw = math.Atan2(moveX, moveZ)
		p.LastUpdate = now
	}
}

// scheduleBotArgumentTurn plays one argument round on behalf of a caught
// bot. It runs off the lock: waits a think delay, optionally asks the
// enricher for a plea, then re-validates that the same argument session
// and round are still live before submitting. A stale turn is dropped.
func (r *Room) scheduleBotArgumentTurn(sessionID string, roundIndex int) {
	go func() {
		time.Sleep(r.cfg.BotThinkTime)

		plea := WinningPleas[roundIndex%len(WinningPleas)]
		if r.enricher != nil {
			ctx, cancel := context.WithTimeout(context.Background(), r.cfg.LLMTimeout)
			text, err := r.enricher.BotPlea(ctx, roundIndex)
			cancel()
			if err == nil && text != "" {
				plea = text
			} else if err != nil {
				r.log.Debug("bot plea enrichment failed", zap.Error(err))
			}
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.arg == nil || r.arg.ID != sessionID {
			return
		}
		if r.arg.Current != roundIndex || r.arg.Rounds[roundIndex].Resolved {
			return
		}
		r.resolveSubmitLocked(plea, false, time.Now())
	}()
}

// botDisplayName builds a deterministic placeholder for bots that joined
// after the name pool wrapped.
func botDisplayName(i int) string {
	if i < len(botNames) {
		return botNames[i]
	}
	return fmt.Sprintf("%s %d", botNames[i%len(botNames)], i/len(botNames)+1)
}
