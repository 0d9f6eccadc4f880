package main

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event kinds for analytics tracking
const (
	EvtJoin     = "join"
	EvtStart    = "game_start"
	EvtCatch    = "catch"
	EvtRound    = "argument_round"
	EvtEaten    = "eaten"
	EvtEscaped  = "escaped"
	EvtGameOver = "game_over"
)

// AnalyticsEvent represents a single trackable gameplay event
type AnalyticsEvent struct {
	Room     string
	Kind     string
	PlayerID string
	Value    int // points, seconds, occupants, depending on kind
	At       time.Time
}

// Analytics handles event tracking with batched background writes
type Analytics struct {
	db     *DB
	log    *zap.Logger
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB, log *zap.Logger) *Analytics {
	a := &Analytics{
		db:     db,
		log:    log,
		events: make(chan AnalyticsEvent, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(ev AnalyticsEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	select {
	case a.events <- ev:
	default:
		// Channel full — drop event rather than blocking the tick loop
	}
}

// Stop gracefully shuts down the analytics writer
func (a *Analytics) Stop() {
	close(a.stop)
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev := <-a.events:
			batch = append(batch, ev)
			// Flush immediately if batch is large
			if len(batch) >= 50 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			// Drain remaining events
			close(a.events)
			for ev := range a.events {
				batch = append(batch, ev)
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

func (a *Analytics) flush(batch []AnalyticsEvent) {
	if a.db == nil {
		return
	}
	if err := a.db.InsertEvents(batch); err != nil {
		a.log.Error("analytics flush failed", zap.Error(err), zap.Int("batch", len(batch)))
	}
}
