package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
)

// newTestManager returns a manager that mixes without a speaker
func newTestManager() *SoundManager {
	sm := NewSoundManager(zerolog.Nop())
	sm.initialized = true
	return sm
}

func pull(s beep.Streamer, n int) [][2]float64 {
	buf := make([][2]float64, n)
	s.Stream(buf)
	return buf
}

func peak(buf [][2]float64) float64 {
	m := 0.0
	for _, s := range buf {
		if s[0] > m {
			m = s[0]
		}
		if -s[0] > m {
			m = -s[0]
		}
	}
	return m
}

func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(zerolog.Nop())

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("sound operations panicked without initialization: %v", r)
		}
	}()

	sm.Play(CueIntro)
	sm.Play(CueKill)
	sm.Stop(CueIntro)
	sm.StopAll()
	sm.SetVolume(80)
	sm.Cleanup()

	if sm.Playing(CueIntro) {
		t.Error("nothing should play before initialization")
	}
}

func TestLoopingCueStartStop(t *testing.T) {
	sm := newTestManager()

	sm.Play(CueGameplay)
	if !sm.Playing(CueGameplay) {
		t.Fatal("gameplay loop should be active")
	}
	if peak(pull(sm.master, 4800)) == 0 {
		t.Error("gameplay loop should produce sound")
	}

	sm.Stop(CueGameplay)
	if sm.Playing(CueGameplay) {
		t.Error("gameplay loop should stop")
	}
	pull(sm.master, 16) // let the mixer drop the stopped stream
	if peak(pull(sm.master, 4800)) != 0 {
		t.Error("stopped loop should be silent")
	}
}

func TestLoopOutlivesOnePhrase(t *testing.T) {
	sm := newTestManager()
	sm.Play(CueIntro)

	// one phrase is 1s; pull 1.5s and check the tail still sounds
	pull(sm.master, sampleRate.N(time.Second))
	if peak(pull(sm.master, sampleRate.N(500*time.Millisecond))) == 0 {
		t.Error("intro should repeat after its first phrase")
	}
}

func TestStopAll(t *testing.T) {
	sm := newTestManager()
	sm.Play(CueIntro)
	sm.Play(CueGameplay)

	sm.StopAll()
	if sm.Playing(CueIntro) || sm.Playing(CueGameplay) {
		t.Error("StopAll should stop every loop")
	}
}

func TestOneShotCueEnds(t *testing.T) {
	sm := newTestManager()
	sm.Play(CueKill)

	if peak(pull(sm.master, 4800)) == 0 {
		t.Error("kill cue should produce sound")
	}
	pull(sm.master, sampleRate.N(time.Second))
	if sm.mixer.Len() != 0 {
		t.Errorf("one-shot cue should leave the mixer, %d streams left", sm.mixer.Len())
	}
}

func TestSetVolumeZeroSilences(t *testing.T) {
	sm := newTestManager()
	sm.SetVolume(0)
	sm.Play(CueWin)

	if peak(pull(sm.master, 4800)) != 0 {
		t.Error("zero volume should be silent")
	}
}

func TestUnknownCueIgnored(t *testing.T) {
	sm := newTestManager()
	sm.Play("fanfare")
	if sm.mixer.Len() != 0 {
		t.Error("unknown cue should not be mixed")
	}
}

func TestOscillatorLength(t *testing.T) {
	osc := NewOscillator(440, 10*time.Millisecond, WaveSine, sampleRate)
	buf := make([][2]float64, 1000)

	n, ok := osc.Stream(buf)
	if n != sampleRate.N(10*time.Millisecond) || !ok {
		t.Errorf("expected %d samples, got %d ok=%v", sampleRate.N(10*time.Millisecond), n, ok)
	}
	n, ok = osc.Stream(buf)
	if n != 0 || ok {
		t.Error("exhausted oscillator should report done")
	}
}

func TestEnvelopeRamps(t *testing.T) {
	osc := NewOscillator(0, 100*time.Millisecond, WaveSquare, sampleRate)
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, sampleRate)
	buf := pull(env, sampleRate.N(100*time.Millisecond))

	if buf[0][0] != 0 {
		t.Errorf("attack should start silent, got %f", buf[0][0])
	}
	mid := len(buf) / 2
	if buf[mid][0] != 1 {
		t.Errorf("sustain should be full level, got %f", buf[mid][0])
	}
	if last := buf[len(buf)-1][0]; last <= 0 || last > 0.01 {
		t.Errorf("release should fade near zero, got %f", last)
	}
}
