package main

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"terrain-arena/internal/arena"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const maxSpectatorsPerSession = 20

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game runs the rounds of one session. At most one client holds the seat
// and steers the player; everyone else watches.
type Game struct {
	mu         sync.RWMutex
	sessionID  string
	cfg        arena.Config
	round      *arena.Round
	roundNo    int
	roundTicks uint64
	recorded   bool

	input    ClientInput
	aimSet   bool
	lastFire uint16
	fireReq  bool

	seatID     string
	seat       Broadcaster
	spectators map[string]Broadcaster

	tick         uint64
	tickDuration time.Duration
	every        uint64
	stop         chan struct{}
	stopOnce     sync.Once

	recorder  *Recorder
	log       zerolog.Logger
	newRand   func() arena.Rand
	roundOpts []arena.Option
}

// GameOption customises a Game
type GameOption func(*Game)

// WithRates overrides the tick and broadcast rates
func WithRates(tickRate, broadcastRate int) GameOption {
	return func(g *Game) {
		if tickRate <= 0 {
			return
		}
		g.tickDuration = time.Second / time.Duration(tickRate)
		if broadcastRate > 0 && broadcastRate <= tickRate {
			g.every = uint64(tickRate / broadcastRate)
		}
	}
}

// WithRecorder sends round results to the recorder
func WithRecorder(r *Recorder) GameOption {
	return func(g *Game) { g.recorder = r }
}

// WithGameLogger attaches a logger
func WithGameLogger(l zerolog.Logger) GameOption {
	return func(g *Game) { g.log = l }
}

// WithRandSource fixes the randomness used for each new round
func WithRandSource(fn func() arena.Rand) GameOption {
	return func(g *Game) { g.newRand = fn }
}

// WithRoundOptions passes extra options to every round, e.g. a fixed grid
func WithRoundOptions(opts ...arena.Option) GameOption {
	return func(g *Game) { g.roundOpts = append(g.roundOpts, opts...) }
}

// NewGame validates cfg and starts the first round
func NewGame(sessionID string, cfg arena.Config, opts ...GameOption) (*Game, error) {
	g := &Game{
		sessionID:    sessionID,
		cfg:          cfg,
		spectators:   make(map[string]Broadcaster),
		tickDuration: TickDuration,
		every:        BroadcastEvery,
		stop:         make(chan struct{}),
		log:          zerolog.Nop(),
		newRand: func() arena.Rand {
			return arena.NewRand(rand.Uint64())
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With().Str("session", sessionID).Logger()

	if err := g.startRound(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) startRound() error {
	opts := append([]arena.Option{arena.WithLogger(g.log)}, g.roundOpts...)
	r, err := arena.NewRound(g.cfg, g.newRand(), opts...)
	if err != nil {
		return err
	}
	g.round = r
	g.roundNo++
	g.roundTicks = 0
	g.recorded = false
	g.input = ClientInput{}
	g.aimSet = false
	g.fireReq = false
	return nil
}

// Run starts the game loop
func (g *Game) Run() {
	ticker := time.NewTicker(g.tickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop. It is safe before Run and when repeated.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Config returns the round settings of this session
func (g *Game) Config() arena.Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}

// TakeSeat gives the seat to id if it is free or already theirs
func (g *Game) TakeSeat(id string, client Broadcaster) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seat != nil && g.seatID != id {
		return false
	}
	g.seatID = id
	g.seat = client
	delete(g.spectators, id)
	g.welcome(client, SeatPlayer)
	return true
}

// AddSpectator adds a watcher. Returns false when the session is full.
func (g *Game) AddSpectator(id string, client Broadcaster) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.spectators) >= maxSpectatorsPerSession {
		return false
	}
	g.spectators[id] = client
	g.welcome(client, SeatSpectator)
	return true
}

// welcome confirms the join and sends the current terrain before any
// state frame can reach the client
func (g *Game) welcome(client Broadcaster, seat string) {
	client.SendJSON(Envelope{T: MsgJoined, Data: JoinedMsg{SID: g.sessionID, Seat: seat}})
	client.SendJSON(Envelope{T: MsgTerrain, Data: g.round.Grid.ToState()})
}

// RemoveClient drops id from the seat or the spectators
func (g *Game) RemoveClient(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seatID == id {
		g.seatID = ""
		g.seat = nil
		g.input = ClientInput{}
		g.aimSet = false
		g.fireReq = false
	}
	delete(g.spectators, id)
}

// Seated reports whether someone holds the seat
func (g *Game) Seated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.seat != nil
}

// SpectatorCount returns the number of watchers
func (g *Game) SpectatorCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.spectators)
}

// ClientCount returns seat plus spectators
func (g *Game) ClientCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := len(g.spectators)
	if g.seat != nil {
		n++
	}
	return n
}

// HandleInput stores the held keys of the seated client. A changed fire
// counter queues one shot for the next tick.
func (g *Game) HandleInput(id string, in ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id != g.seatID {
		return
	}
	if in.Fire != g.lastFire {
		g.fireReq = true
		g.lastFire = in.Fire
	}
	g.input = in
	g.aimSet = true
}

// Restart begins a new round. Only the seated client may restart.
func (g *Game) Restart(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id != g.seatID {
		return nil
	}
	g.recordResult()
	if err := g.startRound(); err != nil {
		return err
	}
	g.broadcastMsg(Envelope{T: MsgTerrain, Data: g.round.Grid.ToState()})
	g.log.Debug().Int("round", g.roundNo).Msg("round restarted")
	return nil
}

// Status returns the current round status
func (g *Game) Status() arena.Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.round.Status
}

// now is the round clock, derived from ticks so replays are exact
func (g *Game) now() time.Duration {
	return time.Duration(g.roundTicks) * g.tickDuration
}

// roundInput turns the client's held keys into a tick of core input. The
// aim is the direction from the player center to the aim point.
func (g *Game) roundInput() arena.Input {
	c := g.round.Player.Center()
	in := arena.Input{
		Up:    g.input.Up,
		Down:  g.input.Down,
		Left:  g.input.Left,
		Right: g.input.Right,
		Dash:  g.input.Dash,
		AimX:  g.input.MX - c.X,
		AimY:  g.input.MY - c.Y,
		Fire:  g.fireReq,
	}
	if !g.aimSet {
		in.AimX, in.AimY = 0, 0
	}
	g.fireReq = false
	return in
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++
	if !g.round.Over() && g.seat != nil {
		g.roundTicks++
		g.round.Tick(g.now(), g.roundInput())
		g.dispatchEvents()
	}

	if g.tick%g.every == 0 {
		g.broadcastState()
	}
}

func (g *Game) dispatchEvents() {
	for _, ev := range g.round.DrainEvents() {
		switch ev.Kind {
		case arena.EventKill:
			g.broadcastMsg(Envelope{T: MsgKill, Data: KillMsg{ID: ev.AdversaryID, X: ev.Pos.X, Y: ev.Pos.Y}})
		case arena.EventRespawn:
			g.broadcastMsg(Envelope{T: MsgRespawn, Data: RespawnMsg{ID: ev.AdversaryID, X: ev.Pos.X, Y: ev.Pos.Y}})
		case arena.EventRoundOver:
			g.broadcastMsg(Envelope{T: MsgOver, Data: OverMsg{
				Won:      ev.Won,
				Reason:   ev.Reason,
				Kills:    g.round.Kills,
				Duration: ev.At.Seconds(),
			}})
			g.recordResult()
		}
		g.recorder.Track(RoundEvent{
			SessionID:   g.sessionID,
			Round:       g.roundNo,
			Kind:        ev.Kind.String(),
			AdversaryID: ev.AdversaryID,
			X:           ev.Pos.X,
			Y:           ev.Pos.Y,
			At:          ev.At,
		})
	}
}

// recordResult stores a finished round once. Abandoned rounds with no
// ticks are not worth a row.
func (g *Game) recordResult() {
	if g.recorded || g.roundTicks == 0 {
		return
	}
	g.recorded = true
	g.recorder.Finish(RoundResult{
		SessionID:   g.sessionID,
		Round:       g.roundNo,
		Mode:        string(g.cfg.Mode),
		Adversaries: g.cfg.Adversaries,
		Fire:        g.cfg.AdversariesFire,
		Status:      g.round.Status.String(),
		Won:         g.round.Won(),
		Kills:       g.round.Kills,
		Duration:    g.now(),
	})
}

// broadcastState sends the current round snapshot as msgpack
func (g *Game) broadcastState() {
	data, err := encodeState(g.round.State())
	if err != nil {
		g.log.Error().Err(err).Msg("encode state")
		return
	}
	if g.seat != nil {
		g.seat.SendBinary(data)
	}
	for _, c := range g.spectators {
		c.SendBinary(data)
	}
}

// broadcastMsg sends a message to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		g.log.Error().Err(err).Str("type", msg.T).Msg("marshal broadcast")
		return
	}
	if g.seat != nil {
		sendPrepared(g.seat, msg, data)
	}
	for _, c := range g.spectators {
		sendPrepared(c, msg, data)
	}
}

// sendPrepared skips re-marshalling for real clients
func sendPrepared(b Broadcaster, msg Envelope, data []byte) {
	if c, ok := b.(*Client); ok {
		c.SendRaw(data)
		return
	}
	b.SendJSON(msg)
}

// encodeState packs a snapshot with the same field names as the JSON form
func encodeState(s arena.RoundState) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactFloats(true)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeState is the inverse of encodeState
func DecodeState(data []byte) (arena.RoundState, error) {
	var s arena.RoundState
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&s)
	return s, err
}
