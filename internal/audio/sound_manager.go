package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"terrain-arena/internal/arena"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// Cue names, shared with the round
const (
	CueIntro    = arena.CueIntro
	CueGameplay = arena.CueGameplay
	CueKill     = arena.CueKill
	CueWin      = arena.CueWin
	CueLose     = arena.CueLose
)

// SoundManager synthesizes the round's cues and mixes them to the speaker
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	loops       map[string]*beep.Ctrl
	log         zerolog.Logger
	initialized bool
	speakerOn   bool
}

var _ arena.AudioSink = (*SoundManager)(nil)

// NewSoundManager creates a sound manager at 50% volume
func NewSoundManager(log zerolog.Logger) *SoundManager {
	mixer := &beep.Mixer{}
	sm := &SoundManager{
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2},
		loops:  make(map[string]*beep.Ctrl),
		log:    log,
	}
	sm.setVolume(50)
	return sm
}

// Initialize opens the speaker. Without it every cue is ignored.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.master)
	sm.speakerOn = true
	sm.initialized = true
	return nil
}

// Cleanup stops every cue and detaches from the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.lock()
	sm.stopAll()
	sm.mixer.Clear()
	sm.unlock()
	if sm.speakerOn {
		speaker.Clear()
	}
	sm.initialized = false
}

func (sm *SoundManager) lock() {
	if sm.speakerOn {
		speaker.Lock()
	}
}

func (sm *SoundManager) unlock() {
	if sm.speakerOn {
		speaker.Unlock()
	}
}

// Play starts a cue from the beginning. Looping cues restart if already
// playing.
func (sm *SoundManager) Play(name string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s, looped := cue(name, sampleRate)
	if s == nil {
		sm.log.Debug().Str("cue", name).Msg("unknown cue")
		return
	}

	sm.lock()
	defer sm.unlock()
	if looped {
		if old, ok := sm.loops[name]; ok {
			old.Paused = true
			old.Streamer = nil
		}
		ctrl := &beep.Ctrl{Streamer: s}
		sm.loops[name] = ctrl
		sm.mixer.Add(ctrl)
		return
	}
	sm.mixer.Add(s)
}

// Stop silences a looping cue
func (sm *SoundManager) Stop(name string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.lock()
	defer sm.unlock()
	sm.stop(name)
}

func (sm *SoundManager) stop(name string) {
	ctrl, ok := sm.loops[name]
	if !ok {
		return
	}
	ctrl.Paused = true
	ctrl.Streamer = nil
	delete(sm.loops, name)
}

// StopAll silences every looping cue
func (sm *SoundManager) StopAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.lock()
	defer sm.unlock()
	sm.stopAll()
}

func (sm *SoundManager) stopAll() {
	for name := range sm.loops {
		sm.stop(name)
	}
}

// SetVolume sets the master volume as a percentage
func (sm *SoundManager) SetVolume(percent int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.lock()
	defer sm.unlock()
	sm.setVolume(percent)
}

func (sm *SoundManager) setVolume(percent int) {
	v := float64(percent) / 100
	if v <= 0 {
		sm.master.Silent = true
		return
	}
	sm.master.Silent = false
	sm.master.Volume = math.Log2(math.Min(v, 1))
}

// Playing reports whether a looping cue is active
func (sm *SoundManager) Playing(name string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	_, ok := sm.loops[name]
	return ok
}
