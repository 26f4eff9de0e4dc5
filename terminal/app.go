package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"terrain-arena/internal/arena"
)

const (
	tickRate     = 60
	tickDuration = time.Second / tickRate
	// terminals send no key-up; a movement key counts as held this many
	// ticks after its last repeat
	holdTicks = 9
)

type direction int

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
	dirCount
)

// App drives a local round from the keyboard and draws it with tcell
type App struct {
	screen tcell.Screen
	cfg    arena.Config
	audio  arena.AudioSink
	log    zerolog.Logger
	seed   uint64
	opts   []arena.Option

	round   *arena.Round
	roundNo int
	ticks   uint64

	held [dirCount]uint64 // tick until which each direction is held
	aim  arena.Vec
	dash bool
	fire bool
}

// NewApp starts the first round sized to the screen
func NewApp(screen tcell.Screen, cfg arena.Config, seed uint64, audio arena.AudioSink, log zerolog.Logger) (*App, error) {
	a := &App{
		screen: screen,
		cfg:    cfg,
		audio:  audio,
		log:    log,
		seed:   seed,
	}
	if err := a.restart(); err != nil {
		return nil, err
	}
	return a, nil
}

// restart begins a new round with the next seed
func (a *App) restart() error {
	w, h := a.screen.Size()
	a.cfg.ViewportWidth, a.cfg.ViewportHeight = ViewportFor(w, h)

	opts := append([]arena.Option{arena.WithLogger(a.log), arena.WithAudio(a.audio)}, a.opts...)
	r, err := arena.NewRound(a.cfg, arena.NewRand(a.seed+uint64(a.roundNo)), opts...)
	if err != nil {
		return err
	}
	a.round = r
	a.roundNo++
	a.ticks = 0
	a.held = [dirCount]uint64{}
	a.aim = arena.Vec{}
	a.dash, a.fire = false, false
	return nil
}

func (a *App) now() time.Duration {
	return time.Duration(a.ticks) * tickDuration
}

// HandleEvent applies one terminal event. It returns false when the user quits.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	return a.press(ev.Key(), ev.Rune())
}

func (a *App) press(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		a.fire = true
	case tcell.KeyUp:
		a.aim = arena.Vec{X: 0, Y: -1}
	case tcell.KeyDown:
		a.aim = arena.Vec{X: 0, Y: 1}
	case tcell.KeyLeft:
		a.aim = arena.Vec{X: -1, Y: 0}
	case tcell.KeyRight:
		a.aim = arena.Vec{X: 1, Y: 0}
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return false
		case 'w', 'W':
			a.hold(dirUp)
		case 's', 'S':
			a.hold(dirDown)
		case 'a', 'A':
			a.hold(dirLeft)
		case 'd', 'D':
			a.hold(dirRight)
		case ' ':
			a.dash = true
		case 'f', 'F':
			a.fire = true
		case 'r', 'R':
			if err := a.restart(); err != nil {
				a.log.Error().Err(err).Msg("restart failed")
			}
		}
	}
	return true
}

func (a *App) hold(d direction) {
	a.held[d] = a.ticks + holdTicks
	// opposite keys cancel so a quick reversal does not stall
	switch d {
	case dirUp:
		a.held[dirDown] = 0
	case dirDown:
		a.held[dirUp] = 0
	case dirLeft:
		a.held[dirRight] = 0
	case dirRight:
		a.held[dirLeft] = 0
	}
}

// input builds this tick's core input. Dash and fire are single-tick
// pulses; the aim is sent only once per arrow press.
func (a *App) input() arena.Input {
	in := arena.Input{
		Up:    a.held[dirUp] > a.ticks,
		Down:  a.held[dirDown] > a.ticks,
		Left:  a.held[dirLeft] > a.ticks,
		Right: a.held[dirRight] > a.ticks,
		Dash:  a.dash,
		AimX:  a.aim.X,
		AimY:  a.aim.Y,
		Fire:  a.fire,
	}
	a.dash, a.fire = false, false
	a.aim = arena.Vec{}
	return in
}

// Step advances the round one tick unless it is over
func (a *App) Step() {
	if a.round.Over() {
		return
	}
	in := a.input()
	a.ticks++
	a.round.Tick(a.now(), in)
	for _, ev := range a.round.DrainEvents() {
		a.log.Debug().Str("event", ev.Kind.String()).Int("adversary", ev.AdversaryID).Dur("at", ev.At).Msg("round event")
	}
}

// Draw renders the current round
func (a *App) Draw() {
	Draw(a.screen, a.round.Grid, a.round.State())
}

// Run polls events and ticks until the user quits
func (a *App) Run() {
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.Step()
			a.Draw()
		}
	}
}
