package main

import "time"

// assistEntry is a spectator's distress beacon: extra monster attention
// on the target until the effect expires.
type assistEntry struct {
	TargetID  string
	ExpiresAt time.Time
}

// AssistBook holds active assist entries and per-spectator cooldowns.
// Entries decay on read.
type AssistBook struct {
	entries  []assistEntry
	lastUsed map[string]time.Time
	cooldown time.Duration
	duration time.Duration
}

func NewAssistBook(cfg *Config) *AssistBook {
	return &AssistBook{
		lastUsed: make(map[string]time.Time),
		cooldown: cfg.AssistCooldown,
		duration: cfg.AssistDuration,
	}
}

// Add records a beacon from the given spectator. Returns false while
// the spectator's cooldown is still running.
func (b *AssistBook) Add(fromID, targetID string, now time.Time) bool {
	if last, ok := b.lastUsed[fromID]; ok && now.Sub(last) < b.cooldown {
		return false
	}
	b.lastUsed[fromID] = now
	b.entries = append(b.entries, assistEntry{
		TargetID:  targetID,
		ExpiresAt: now.Add(b.duration),
	})
	return true
}

// ActiveTargets returns the targets of all non-expired entries, oldest
// first. The caller picks the first one it can actually use, so stale
// nominations fall through to later ones.
func (b *AssistBook) ActiveTargets(now time.Time) []string {
	b.prune(now)
	out := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e.TargetID)
	}
	return out
}

// Reset clears all entries and cooldowns (game restart)
func (b *AssistBook) Reset() {
	b.entries = nil
	b.lastUsed = make(map[string]time.Time)
}

func (b *AssistBook) prune(now time.Time) {
	kept := b.entries[:0]
	for _, e := range b.entries {
		if now.Before(e.ExpiresAt) {
			kept = append(kept, e)
		}
	}
	b.entries = kept
}
