package arena

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Mode is the win condition of a round
type Mode string

const (
	ModeHunt    Mode = "hunt"
	ModeCapture Mode = "capture"
)

// ErrInvalidConfig is wrapped by every Config validation failure
var ErrInvalidConfig = errors.New("invalid round config")

// Config is read once when a round starts
type Config struct {
	Adversaries     int     `mapstructure:"adversaries" json:"adversaries"`
	AdversariesFire bool    `mapstructure:"adversariesFire" json:"fire"`
	Mode            Mode    `mapstructure:"mode" json:"mode"`
	ViewportWidth   float64 `mapstructure:"viewportWidth" json:"vw"`
	ViewportHeight  float64 `mapstructure:"viewportHeight" json:"vh"`
	CellSize        float64 `mapstructure:"cellSize" json:"cellSize"`
	MaxCells        int     `mapstructure:"maxCells" json:"maxCells"`
}

// DefaultConfig is a three-adversary hunt on a 1000×700 viewport
func DefaultConfig() Config {
	return Config{
		Adversaries:    3,
		Mode:           ModeHunt,
		ViewportWidth:  1000,
		ViewportHeight: 700,
		CellSize:       DefaultCellSize,
		MaxCells:       DefaultMaxCells,
	}
}

// Validate checks the config can produce a playable grid
func (c Config) Validate() error {
	switch {
	case c.Adversaries < 0:
		return fmt.Errorf("%w: adversaries %d", ErrInvalidConfig, c.Adversaries)
	case c.Mode != ModeHunt && c.Mode != ModeCapture:
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell size %v", ErrInvalidConfig, c.CellSize)
	case c.ViewportWidth < c.CellSize || c.ViewportHeight < c.CellSize:
		return fmt.Errorf("%w: viewport %vx%v smaller than one cell", ErrInvalidConfig, c.ViewportWidth, c.ViewportHeight)
	}
	if cols, rows := GridDims(c.ViewportWidth, c.ViewportHeight, c.CellSize, c.MaxCells); cols == 0 || rows == 0 {
		return fmt.Errorf("%w: viewport %vx%v scales to a %dx%d grid", ErrInvalidConfig, c.ViewportWidth, c.ViewportHeight, cols, rows)
	}
	return nil
}

// Status is where a round stands
type Status uint8

const (
	StatusPlaying Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "playing"
	}
}

// EventKind labels things that happened during a tick
type EventKind uint8

const (
	EventKill EventKind = iota + 1
	EventRespawn
	EventRoundOver
)

func (k EventKind) String() string {
	switch k {
	case EventKill:
		return "kill"
	case EventRespawn:
		return "respawn"
	case EventRoundOver:
		return "over"
	default:
		return "unknown"
	}
}

// Event is drained by transports and front-ends after each tick
type Event struct {
	Kind        EventKind
	At          time.Duration
	AdversaryID int
	Pos         Vec
	Won         bool
	Reason      string
}

// Option customises a round
type Option func(*Round)

// WithLogger attaches a logger; rounds are silent by default
func WithLogger(l zerolog.Logger) Option {
	return func(r *Round) { r.log = l }
}

// WithAudio attaches an audio sink
func WithAudio(a AudioSink) Option {
	return func(r *Round) {
		if a != nil {
			r.audio = a
		}
	}
}

// WithGrid replaces the generated terrain with a prepared grid
func WithGrid(g *Grid) Option {
	return func(r *Round) { r.Grid = g }
}

// Round is one game from placement to win or loss. It is not safe for
// concurrent use; callers serialise Tick and State.
type Round struct {
	Config Config

	Grid        *Grid
	Player      *Player
	Adversaries []*Adversary
	Flag        *Objective
	Respawns    *Scheduler

	Status  Status
	EndedAt time.Duration
	Kills   int
	Ticks   uint64

	rng    Rand
	log    zerolog.Logger
	audio  AudioSink
	nextID int
	events []Event
	now    time.Duration
}

// NewRound builds terrain and places every entity at time zero
func NewRound(cfg Config, rng Rand, opts ...Option) (*Round, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Round{
		Config:   cfg,
		Respawns: NewScheduler(),
		rng:      rng,
		log:      zerolog.Nop(),
		audio:    NopAudio,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.Grid == nil {
		cols, rows := GridDims(cfg.ViewportWidth, cfg.ViewportHeight, cfg.CellSize, cfg.MaxCells)
		r.Grid = Generate(cols, rows, cfg.CellSize, rng)
	}

	pos, ok := r.Grid.RandomEmptyPosition(EntitySize, rng)
	if !ok {
		r.log.Debug().Msg("no clear cell for player, using fallback position")
	}
	r.Player = NewPlayer(pos, 0)

	for i := 0; i < cfg.Adversaries; i++ {
		pos, ok := SpawnAwayFrom(r.Grid, rng, r.Player.Pos, SpawnPlayerClearance, nil, 0)
		if !ok {
			r.log.Debug().Int("adversary", i).Msg("spawn search exhausted")
		}
		r.Adversaries = append(r.Adversaries, NewAdversary(
			r.newID(), pos, RandomPersonality(rng), rng.Float64()*AdversaryHueRange, cfg.AdversariesFire, 0))
	}

	if cfg.Mode == ModeCapture {
		r.Flag = NewObjective(r.placeFlag())
	}

	r.audio.Stop(CueIntro)
	r.audio.Play(CueGameplay)

	r.log.Info().
		Str("mode", string(cfg.Mode)).
		Int("cols", r.Grid.Cols).
		Int("rows", r.Grid.Rows).
		Int("adversaries", cfg.Adversaries).
		Bool("fire", cfg.AdversariesFire).
		Msg("round started")
	return r, nil
}

func (r *Round) newID() int {
	r.nextID++
	return r.nextID
}

// placeFlag keeps the flag more than SpawnPlayerClearance from the player
// and every adversary, falling back to the best candidate seen.
func (r *Round) placeFlag() Vec {
	var best Vec
	bestScore := -1.0
	for i := 0; i < spawnSearchAttempts; i++ {
		pos, _ := r.Grid.RandomEmptyPosition(EntitySize, r.rng)
		pd := Distance(pos, r.Player.Pos)
		ad := noObjectiveDistance
		for _, a := range r.Adversaries {
			ad = math.Min(ad, Distance(pos, a.Pos))
		}
		if pd > SpawnPlayerClearance && ad > SpawnPlayerClearance {
			return pos
		}
		if score := math.Min(pd, ad); score > bestScore {
			best, bestScore = pos, score
		}
	}
	r.log.Debug().Msg("flag placement exhausted")
	return best
}

// Now returns the clock value of the last tick
func (r *Round) Now() time.Duration { return r.now }

// Over reports whether the round has ended
func (r *Round) Over() bool { return r.Status != StatusPlaying }

// Won reports whether the round ended in a win
func (r *Round) Won() bool { return r.Status == StatusWon }

// Tick advances the round to now: player, then each adversary in list
// order, then the mode's scheduler. Once the round is over it does nothing.
func (r *Round) Tick(now time.Duration, in Input) Status {
	if r.Over() {
		return r.Status
	}
	r.now = now
	r.Ticks++

	r.Player.Update(now, in, r.Grid)

	alive := len(r.Adversaries)
	survivors := make([]*Adversary, 0, alive)
	for i, a := range r.Adversaries {
		out := a.Update(now, r.Player, r.Grid, r.rng)
		if a.Touches(r.Player) || out == OutcomeHitPlayer {
			// adversaries killed earlier this tick stay out of the roster
			r.Adversaries = append(survivors, r.Adversaries[i:]...)
			if a.Touches(r.Player) {
				r.end(now, false, "caught")
			} else {
				r.end(now, false, "shot")
			}
			return r.Status
		}
		if out == OutcomeWasHit {
			alive--
			r.kill(a, now, alive)
			continue
		}
		survivors = append(survivors, a)
	}
	r.Adversaries = survivors

	switch r.Config.Mode {
	case ModeHunt:
		if len(r.Adversaries) == 0 {
			r.end(now, true, "cleared")
		}
	case ModeCapture:
		r.respawn(now)
		r.capture(now)
	}
	return r.Status
}

func (r *Round) kill(a *Adversary, now time.Duration, alive int) {
	r.Kills++
	r.audio.Play(CueKill)
	r.events = append(r.events, Event{Kind: EventKill, At: now, AdversaryID: a.ID, Pos: a.Pos})
	if r.Config.Mode == ModeCapture {
		r.Respawns.Record(a, now, alive)
	}
	r.log.Debug().Int("adversary", a.ID).Dur("at", now).Msg("adversary down")
}

func (r *Round) respawn(now time.Duration) {
	for _, rec := range r.Respawns.Due(now, len(r.Adversaries)) {
		pos, ok := SpawnAwayFrom(r.Grid, r.rng, r.Player.Pos, SpawnPlayerClearance, r.Flag, RespawnFlagClearance)
		if !ok {
			r.log.Debug().Int("adversary", rec.ID).Msg("respawn search exhausted")
		}
		a := NewAdversary(rec.ID, pos, rec.Personality, rec.Hue, rec.CanFire, now)
		r.Adversaries = append(r.Adversaries, a)
		r.events = append(r.events, Event{Kind: EventRespawn, At: now, AdversaryID: a.ID, Pos: pos})
		r.log.Debug().
			Int("adversary", a.ID).
			Dur("delay", r.Respawns.Delay).
			Msg("adversary respawned")
	}
}

func (r *Round) capture(now time.Duration) {
	playerIn := r.Flag.Contains(r.Player.Rect())
	adversaryIn := false
	if !playerIn {
		for _, a := range r.Adversaries {
			if r.Flag.Contains(a.Rect()) {
				adversaryIn = true
				break
			}
		}
	}
	switch r.Flag.Tick(playerIn, adversaryIn) {
	case SidePlayer:
		r.end(now, true, "captured")
	case SideAdversary:
		r.end(now, false, "flag lost")
	}
}

func (r *Round) end(now time.Duration, won bool, reason string) {
	if won {
		r.Status = StatusWon
	} else {
		r.Status = StatusLost
	}
	r.EndedAt = now
	r.audio.Stop(CueGameplay)
	if won {
		r.audio.Play(CueWin)
	} else {
		r.audio.Play(CueLose)
	}
	r.events = append(r.events, Event{Kind: EventRoundOver, At: now, Won: won, Reason: reason})
	r.log.Info().
		Bool("won", won).
		Str("reason", reason).
		Int("kills", r.Kills).
		Dur("duration", now).
		Msg("round over")
}

// DrainEvents returns and clears the events collected since the last call
func (r *Round) DrainEvents() []Event {
	ev := r.events
	r.events = nil
	return ev
}

// State snapshots the round for rendering
func (r *Round) State() RoundState {
	now := r.now
	s := RoundState{
		Tick:        r.Ticks,
		Mode:        string(r.Config.Mode),
		Status:      r.Status.String(),
		Player:      r.Player.ToState(now),
		Adversaries: make([]AdversaryState, 0, len(r.Adversaries)),
		Projectiles: make([]ProjectileState, 0, len(r.Player.Projectiles)),
		Kills:       r.Kills,
	}
	for _, p := range r.Player.Projectiles {
		s.Projectiles = append(s.Projectiles, p.ToState())
	}
	for _, a := range r.Adversaries {
		s.Adversaries = append(s.Adversaries, a.ToState(now))
		for _, p := range a.Projectiles {
			s.Projectiles = append(s.Projectiles, p.ToState())
		}
	}
	if r.Flag != nil {
		s.Flag = r.Flag.ToState()
		s.RespawnDelay = r.Respawns.Delay.Seconds()
		for _, rec := range r.Respawns.Pending {
			left := r.Respawns.Remaining(rec, now)
			secs := int(math.Ceil(left.Seconds()))
			if secs <= 0 {
				continue
			}
			s.Pending = append(s.Pending, PendingState{ID: rec.ID, X: rec.LastPos.X, Y: rec.LastPos.Y, SecsLeft: secs})
		}
	}
	return s
}
