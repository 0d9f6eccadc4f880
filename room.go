package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Room phases
const (
	PhaseLobby    = "lobby"
	PhasePlaying  = "playing"
	PhaseArgument = "argument"
	PhaseGameOver = "game_over"
)

// Game results
const (
	ResultEscaped = "escaped" // at least one occupant crossed the finish line
	ResultWiped   = "wiped"   // the monster got everyone
)

// Broadcaster delivers encoded frames to room members. The hub
// implements it for real sockets; tests substitute a recorder.
type Broadcaster interface {
	Broadcast(data []byte)
	SendTo(connID string, data []byte)
}

// ResultStore persists game outcomes. May be backed by sqlite or absent.
type ResultStore interface {
	RecordOutcome(name, outcome string, durationMs int64)
	RecordGame(roomID, result string, occupants int)
}

// Room is one authoritative game session. All state behind mu; the tick
// loop and the socket handlers both take it. Handlers never block on IO
// while holding the lock.
type Room struct {
	id       string
	cfg      *Config
	log      *zap.Logger
	out      Broadcaster
	enricher Enricher
	tracker  *Analytics
	store    ResultStore

	mu        sync.Mutex
	phase     string
	hostID    string
	tick      uint64
	result    string
	reg       *Registry
	monster   *Monster
	assists   *AssistBook
	arg       *ArgumentSession
	startedAt time.Time
	lastStep  time.Time

	wake    chan struct{}
	done    chan struct{}
	stopped bool
}

func NewRoom(id string, cfg *Config, log *zap.Logger, out Broadcaster, enricher Enricher, tracker *Analytics, store ResultStore) *Room {
	return &Room{
		id:       id,
		cfg:      cfg,
		log:      log.With(zap.String("room", id)),
		out:      out,
		enricher: enricher,
		tracker:  tracker,
		store:    store,
		phase:    PhaseLobby,
		reg:      NewRegistry(),
		monster:  NewMonster(cfg),
		assists:  NewAssistBook(cfg),
		lastStep: time.Now(),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Run drives the tick loop. When the room has no connected humans it
// parks instead of burning the ticker, and a join or start wakes it.
func (r *Room) Run() {
	ticker := time.NewTicker(r.cfg.TickDuration())
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			if r.step(time.Now()) {
				continue
			}
			select {
			case <-r.done:
				return
			case <-r.wake:
				r.mu.Lock()
				r.lastStep = time.Now()
				r.mu.Unlock()
			}
		}
	}
}

func (r *Room) Stop() {
	r.mu.Lock()
	if !r.stopped {
		r.stopped = true
		close(r.done)
	}
	r.mu.Unlock()
}

func (r *Room) signalWake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// step advances one tick. Returns false when the room is idle and the
// loop should park.
func (r *Room) step(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	dt := now.Sub(r.lastStep).Seconds()
	r.lastStep = now

	if len(r.reg.ConnectedHumans()) == 0 {
		return false
	}

	switch r.phase {
	case PhasePlaying:
		r.tickBotsLocked(dt, now)
		r.monster.Update(dt, r.chaseableLocked(now), r.assists, r.cfg, now)
		r.checkCatchLocked(now)
		r.checkFinishLocked(now)
		r.checkGameOverLocked(now)
	case PhaseArgument:
		if r.arg != nil && now.After(r.arg.Deadline) {
			r.resolveSubmitLocked("", true, now)
		}
	}

	r.tick++
	r.broadcastSnapshotLocked(now)
	return true
}

// chaseableLocked filters spawn-immune occupants out of the monster's
// candidate list.
func (r *Room) chaseableLocked(now time.Time) []*Player {
	alive := r.reg.Alive()
	out := alive[:0]
	for _, p := range alive {
		if !p.InGrace(now) {
			out = append(out, p)
		}
	}
	return out
}

// dropPlayerLocked removes a player for good. A caught player leaving
// mid-argument forfeits it.
func (r *Room) dropPlayerLocked(p *Player, now time.Time) {
	if r.phase == PhaseArgument && r.arg != nil && r.arg.CaughtID == p.ID {
		r.log.Info("caught player left, argument forfeited", zap.String("player", p.ID))
		p.Life = LifeEaten
		r.arg = nil
		r.phase = PhasePlaying
		r.broadcastEventLocked(RoomEvent{Kind: EventPlayerEaten, PlayerID: p.ID})
	}
	r.reg.Remove(p.ID)
	if r.hostID == p.ID {
		r.hostID = r.reg.NextHost()
	}
	if r.phase == PhasePlaying {
		r.checkGameOverLocked(now)
	}
}

// HandleJoin admits a new player or reattaches a reconnecting one.
func (r *Room) HandleJoin(connID string, msg JoinMsg, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// reconnection path: same client id, socket replaced
	if msg.ClientID != "" {
		if p := r.reg.ByClientID(msg.ClientID); p != nil && !p.IsBot {
			p.ConnID = connID
			p.Connected = true
			if r.hostID == "" {
				r.hostID = p.ID
			}
			r.log.Info("player reconnected", zap.String("player", p.ID))
			r.welcomeLocked(connID, p.ID)
			r.signalWake()
			return
		}
	}

	if !ValidateInvite(r.cfg.InviteSecret, r.id, msg.Invite) {
		r.sendErrorLocked(connID, ErrInviteInvalid, "bad invite token")
		return
	}
	if r.phase != PhaseLobby && r.phase != PhaseGameOver {
		r.sendErrorLocked(connID, ErrJoinClosed, "game already in progress")
		return
	}
	if len(r.reg.ConnectedHumans()) >= r.cfg.MaxOccupants {
		r.sendErrorLocked(connID, ErrRoomFull, "room is full")
		return
	}

	name := strings.TrimSpace(msg.Name)
	if name == "" {
		name = "Runner_" + GenerateID(2)
	}
	if len(name) > 24 {
		name = name[:24]
	}

	p := NewPlayer("p_"+GenerateID(4), msg.ClientID, connID, name, r.cfg, now)
	p.Connected = true
	r.reg.Insert(p)
	if r.hostID == "" {
		r.hostID = p.ID
	}
	r.track(EvtJoin, p.ID, 0)
	r.log.Info("player joined", zap.String("player", p.ID), zap.String("name", name))
	r.welcomeLocked(connID, p.ID)
	r.signalWake()
}

func (r *Room) welcomeLocked(connID, playerID string) {
	raw := encodeEnvelope(MsgWelcome, WelcomeMsg{
		SelfID:       playerID,
		RoomID:       r.id,
		TickRate:     r.cfg.TickRate,
		MaxOccupants: r.cfg.MaxOccupants,
	})
	if raw != nil {
		r.out.SendTo(connID, raw)
	}
}

// HandleDisconnect marks the player's socket dead. The record stays in
// the registry for the room's lifetime so a later join with the same
// client id reattaches to it; only the host role moves on.
func (r *Room) HandleDisconnect(connID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.reg.ByConnID(connID)
	if p == nil {
		return
	}
	p.Connected = false
	p.ConnID = ""
	if r.hostID == p.ID {
		r.hostID = r.reg.NextHost()
	}
	r.log.Info("player disconnected", zap.String("player", p.ID))
	if r.phase == PhasePlaying {
		r.checkGameOverLocked(now)
	}
}

// HandleLeave is an explicit exit: the record is dropped rather than
// kept around for reconnection.
func (r *Room) HandleLeave(connID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.reg.ByConnID(connID)
	if p == nil {
		return
	}
	r.dropPlayerLocked(p, now)
}

func (r *Room) HandleReady(connID string, ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.reg.ByConnID(connID)
	if p == nil {
		return
	}
	if r.phase != PhaseLobby {
		r.sendErrorLocked(connID, ErrBadPhase, "can only ready up in the lobby")
		return
	}
	p.Ready = ready
}

// HandleStart begins the chase. Host only; everyone connected must be
// ready. Allowed from game_over so the host can run a rematch.
func (r *Room) HandleStart(connID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.reg.ByConnID(connID)
	if p == nil {
		return
	}
	if r.phase != PhaseLobby && r.phase != PhaseGameOver {
		r.sendErrorLocked(connID, ErrBadPhase, "game already running")
		return
	}
	if p.ID != r.hostID {
		r.sendErrorLocked(connID, ErrNotHost, "only the host can start")
		return
	}
	humans := r.reg.ConnectedHumans()
	if len(humans) < r.cfg.MinOccupants {
		r.sendErrorLocked(connID, ErrNotReady, "not enough players")
		return
	}
	for _, h := range humans {
		if !h.Ready {
			r.sendErrorLocked(connID, ErrNotReady, "everyone must be ready")
			return
		}
	}
	r.startGameLocked(now)
	r.signalWake()
}

func (r *Room) startGameLocked(now time.Time) {
	// rematch: clear the previous run's bots and corpses
	for _, p := range r.reg.All() {
		if p.IsBot {
			r.reg.Remove(p.ID)
		}
	}
	r.spawnBotsLocked(now)

	startZ := r.cfg.StartZ()
	lane := 0
	for _, p := range r.reg.All() {
		p.Life = LifeAlive
		p.Z = startZ
		if !p.IsBot {
			p.X = Clamp(float64(lane)*3.0, -r.cfg.HalfWidth(), r.cfg.HalfWidth())
			lane++
		}
		p.Yaw, p.Pitch = 0, 0
	}

	r.monster.Reset()
	r.assists.Reset()
	r.arg = nil
	r.result = ""
	r.phase = PhasePlaying
	r.startedAt = now
	r.lastStep = now
	r.track(EvtStart, "", r.reg.Count())
	r.log.Info("game started", zap.Int("occupants", r.reg.Count()))
}

// HandleInput applies a movement frame. Ignored outside the chase and
// for anyone not alive.
func (r *Room) HandleInput(connID string, in InputMsg, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhasePlaying {
		return
	}
	p := r.reg.ByConnID(connID)
	if p == nil || p.Life != LifeAlive {
		return
	}
	p.ApplyInput(in, r.cfg, now)
}

// HandleAssist is an eaten spectator's distress beacon: it nominates an
// alive occupant for extra monster attention. Subject to a per-player
// cooldown; senders still in the game are ignored.
func (r *Room) HandleAssist(connID string, msg AssistMsg, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhasePlaying && r.phase != PhaseArgument {
		r.sendErrorLocked(connID, ErrBadPhase, "no chase to assist")
		return
	}
	from := r.reg.ByConnID(connID)
	if from == nil || from.Life != LifeEaten {
		return
	}
	target := r.reg.Get(msg.TargetID)
	if target == nil || target.Life != LifeAlive {
		r.sendErrorLocked(connID, ErrBadMessage, "no such target")
		return
	}
	r.assists.Add(from.ID, target.ID, now)
}

// HandleChat is the caught player's plea for the current argument round.
func (r *Room) HandleChat(connID string, msg ChatMsg, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseArgument || r.arg == nil {
		r.sendErrorLocked(connID, ErrBadPhase, "no argument in progress")
		return
	}
	p := r.reg.ByConnID(connID)
	if p == nil || p.ID != r.arg.CaughtID {
		r.sendErrorLocked(connID, ErrNotCaught, "you are not the one caught")
		return
	}
	if msg.SessionID != r.arg.ID {
		r.sendErrorLocked(connID, ErrStaleSession, "argument session expired")
		return
	}
	r.resolveSubmitLocked(msg.Text, false, now)
}

// resolveSubmitLocked scores one argument round and transitions the room
// if the session resolved. Also the timeout path, with an empty message.
func (r *Room) resolveSubmitLocked(message string, timedOut bool, now time.Time) {
	if r.arg == nil {
		return
	}
	sessionID := r.arg.ID
	caughtID := r.arg.CaughtID
	idx, ok := r.arg.Submit(message, timedOut, now)
	if !ok {
		return
	}
	round := r.arg.Rounds[idx]
	r.track(EvtRound, caughtID, round.Points)
	ev := RoomEvent{
		Kind:     EventRoundResolved,
		PlayerID: caughtID,
		Round:    round.Number,
		Points:   round.Points,
	}
	if r.arg.Outcome != OutcomeInProgress {
		ev.Outcome = string(r.arg.Outcome)
	}
	r.broadcastEventLocked(ev)
	if !round.TimedOut {
		r.scheduleReplyEnrichment(sessionID, idx, round.PlayerMessage, round.Points)
	}

	switch r.arg.Outcome {
	case OutcomeWon:
		if p := r.reg.Get(caughtID); p != nil {
			p.Life = LifeAlive
			p.GraceUntil = now.Add(r.cfg.GraceDuration)
		}
		r.finishArgumentLocked(now)
	case OutcomeLost:
		if p := r.reg.Get(caughtID); p != nil {
			p.Life = LifeEaten
			if r.store != nil && !p.IsBot {
				name := p.Name
				elapsed := now.Sub(r.startedAt).Milliseconds()
				go r.store.RecordOutcome(name, string(LifeEaten), elapsed)
			}
		}
		r.track(EvtEaten, caughtID, 0)
		r.broadcastEventLocked(RoomEvent{Kind: EventPlayerEaten, PlayerID: caughtID})
		r.finishArgumentLocked(now)
	default:
		if p := r.reg.Get(caughtID); p != nil && p.IsBot {
			r.scheduleBotArgumentTurn(sessionID, r.arg.Current)
		}
	}
}

func (r *Room) finishArgumentLocked(now time.Time) {
	r.arg = nil
	r.assists.Reset()
	r.phase = PhasePlaying
	r.lastStep = now
	r.checkGameOverLocked(now)
}

// scheduleReplyEnrichment swaps the canned monster reply for generated
// text once it arrives, as long as the same session is still on screen.
func (r *Room) scheduleReplyEnrichment(sessionID string, roundIndex int, playerMessage string, points int) {
	if r.enricher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.LLMTimeout)
		text, err := r.enricher.MonsterReply(ctx, roundIndex, playerMessage, points)
		cancel()
		if err != nil || text == "" {
			if err != nil {
				r.log.Debug("reply enrichment failed", zap.Error(err))
			}
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.arg == nil || r.arg.ID != sessionID {
			return
		}
		r.arg.BackfillReply(roundIndex, text)
	}()
}

// checkCatchLocked looks for an occupant inside the catch radius. The
// lowest id wins a same-tick tie so the result does not depend on map
// iteration order. One catch per tick: catching flips the phase.
func (r *Room) checkCatchLocked(now time.Time) {
	if r.phase != PhasePlaying || r.arg != nil {
		return
	}
	for _, p := range r.reg.Alive() {
		if p.InGrace(now) {
			continue
		}
		if r.monster.DistanceTo(p) > r.cfg.CatchRadius {
			continue
		}
		p.Life = LifeCaught
		r.arg = NewArgumentSession(p.ID, r.cfg, now)
		r.phase = PhaseArgument
		r.track(EvtCatch, p.ID, 0)
		r.log.Info("player caught", zap.String("player", p.ID))
		r.broadcastEventLocked(RoomEvent{Kind: EventPlayerCaught, PlayerID: p.ID})
		r.broadcastEventLocked(RoomEvent{Kind: EventArgumentStarted, PlayerID: p.ID, Round: 1})
		if p.IsBot {
			r.scheduleBotArgumentTurn(r.arg.ID, 0)
		}
		return
	}
}

// checkFinishLocked retires anyone who crossed the finish line.
func (r *Room) checkFinishLocked(now time.Time) {
	finishZ := r.cfg.FinishZ()
	for _, p := range r.reg.Alive() {
		if p.Z < finishZ {
			continue
		}
		p.Life = LifeEscaped
		elapsed := now.Sub(r.startedAt).Milliseconds()
		r.track(EvtEscaped, p.ID, int(elapsed/1000))
		r.log.Info("player escaped", zap.String("player", p.ID), zap.Int64("ms", elapsed))
		r.broadcastEventLocked(RoomEvent{Kind: EventPlayerEscaped, PlayerID: p.ID})
		if r.store != nil && !p.IsBot {
			name := p.Name
			go r.store.RecordOutcome(name, string(LifeEscaped), elapsed)
		}
	}
}

// checkGameOverLocked ends the run once every human has finished. Bots
// never hold the game open, and only human escapes count toward the
// result. Humans who dropped mid-run without finishing don't block the
// verdict either; their record stays for reconnection.
func (r *Room) checkGameOverLocked(now time.Time) {
	if r.phase != PhasePlaying {
		return
	}
	humans := 0
	escaped := 0
	for _, p := range r.reg.All() {
		if p.IsBot {
			continue
		}
		if !p.Connected && (p.Life == LifeAlive || p.Life == LifeCaught) {
			continue
		}
		humans++
		switch p.Life {
		case LifeAlive, LifeCaught:
			return
		case LifeEscaped:
			escaped++
		}
	}
	if humans == 0 {
		return
	}
	if escaped > 0 {
		r.result = ResultEscaped
	} else {
		r.result = ResultWiped
	}
	r.phase = PhaseGameOver
	r.arg = nil
	r.track(EvtGameOver, "", escaped)
	r.log.Info("game over", zap.String("result", r.result), zap.Int("escaped", escaped))
	r.broadcastEventLocked(RoomEvent{Kind: EventGameOver, Result: r.result})
	if r.store != nil {
		roomID, result, n := r.id, r.result, r.reg.Count()
		go r.store.RecordGame(roomID, result, n)
	}
}

// track forwards a gameplay event to the analytics writer, if any.
func (r *Room) track(kind, playerID string, value int) {
	if r.tracker == nil {
		return
	}
	r.tracker.Track(AnalyticsEvent{
		Room:     r.id,
		Kind:     kind,
		PlayerID: playerID,
		Value:    value,
		At:       time.Now(),
	})
}
