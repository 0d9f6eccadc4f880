package main

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArgumentOutcome is the terminal state of a persuasion session
type ArgumentOutcome string

const (
	OutcomeInProgress ArgumentOutcome = "in_progress"
	OutcomeWon        ArgumentOutcome = "won"
	OutcomeLost       ArgumentOutcome = "lost"
)

// ArgumentRound is one taunt/plea/reply exchange
type ArgumentRound struct {
	Number        int
	Taunt         string
	PlayerMessage string
	MonsterReply  string
	Points        int
	Matched       []string
	TimedOut      bool
	Resolved      bool
}

// ArgumentSession is one persuasion mini-game instance. It is driven
// exclusively by explicit Submit calls and knows nothing about
// networking or timers; the room checks Deadline against its own clock.
type ArgumentSession struct {
	ID            string
	CaughtID      string
	Rounds        []ArgumentRound
	Current       int
	TotalScore    int
	RequiredScore int
	RoundSeconds  int
	Deadline      time.Time
	StartedAt     time.Time
	UpdatedAt     time.Time
	Outcome       ArgumentOutcome
}

// NewArgumentSession creates a session with all rounds pre-populated and
// round 0 active.
func NewArgumentSession(caughtID string, cfg *Config, now time.Time) *ArgumentSession {
	rounds := make([]ArgumentRound, cfg.Rounds)
	for i := range rounds {
		rounds[i] = ArgumentRound{
			Number: i + 1,
			Taunt:  MonsterTaunts[i%len(MonsterTaunts)],
		}
	}
	return &ArgumentSession{
		ID:            "arg_" + uuid.NewString(),
		CaughtID:      caughtID,
		Rounds:        rounds,
		RequiredScore: cfg.RequiredScore,
		RoundSeconds:  cfg.RoundSeconds,
		Deadline:      now.Add(time.Duration(cfg.RoundSeconds) * time.Second),
		StartedAt:     now,
		UpdatedAt:     now,
		Outcome:       OutcomeInProgress,
	}
}

// Submit scores the current round and either advances to the next round
// or resolves the outcome if this was the final one. Returns the
// resolved round index and false once the outcome has already left
// in_progress, guarding against duplicate delivery.
func (s *ArgumentSession) Submit(message string, timedOut bool, now time.Time) (int, bool) {
	if s.Outcome != OutcomeInProgress {
		return 0, false
	}
	if s.Current < 0 || s.Current >= len(s.Rounds) {
		return 0, false
	}

	idx := s.Current
	eval := EvaluateResponse(idx, message)
	if eval.TimedOut {
		timedOut = true
	}

	round := &s.Rounds[idx]
	round.PlayerMessage = strings.TrimSpace(message)
	round.MonsterReply = eval.MonsterReply
	round.Points = eval.Points
	round.Matched = eval.Matched
	round.TimedOut = timedOut
	round.Resolved = true

	total := 0
	for _, r := range s.Rounds {
		total += r.Points
	}
	s.TotalScore = total
	s.UpdatedAt = now

	if idx >= len(s.Rounds)-1 {
		if s.TotalScore >= s.RequiredScore {
			s.Outcome = OutcomeWon
		} else {
			s.Outcome = OutcomeLost
		}
	} else {
		s.Current = idx + 1
		s.Deadline = now.Add(time.Duration(s.RoundSeconds) * time.Second)
	}
	return idx, true
}

// BackfillReply replaces a resolved round's canned reply with enriched
// text. It is the only mutation permitted after a round resolves and is
// refused when the round has not resolved yet.
func (s *ArgumentSession) BackfillReply(roundIndex int, reply string) bool {
	if roundIndex < 0 || roundIndex >= len(s.Rounds) {
		return false
	}
	if !s.Rounds[roundIndex].Resolved || reply == "" {
		return false
	}
	s.Rounds[roundIndex].MonsterReply = reply
	return true
}

// Snap projects the session's public state for broadcast
func (s *ArgumentSession) Snap() *ArgumentSnap {
	rounds := make([]RoundSnap, len(s.Rounds))
	for i, r := range s.Rounds {
		rounds[i] = RoundSnap{
			Number:        r.Number,
			Taunt:         r.Taunt,
			PlayerMessage: r.PlayerMessage,
			MonsterReply:  r.MonsterReply,
			Points:        r.Points,
			Matched:       r.Matched,
			TimedOut:      r.TimedOut,
		}
	}
	return &ArgumentSnap{
		ID:            s.ID,
		CaughtID:      s.CaughtID,
		Round:         s.Current,
		TotalScore:    s.TotalScore,
		RequiredScore: s.RequiredScore,
		RoundSeconds:  s.RoundSeconds,
		DeadlineMs:    s.Deadline.UnixMilli(),
		Outcome:       string(s.Outcome),
		Rounds:        rounds,
	}
}
