package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite tone of the given shape
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with attack and release ramps over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.totalSamples - e.releaseSamples

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// repeat rebuilds a finite phrase each time it runs out
type repeat struct {
	build func() beep.Streamer
	cur   beep.Streamer
}

func newRepeat(build func() beep.Streamer) *repeat {
	return &repeat{build: build}
}

func (r *repeat) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if r.cur == nil {
			r.cur = r.build()
		}
		m, more := r.cur.Stream(samples[n:])
		n += m
		if !more {
			r.cur = nil
			if m == 0 {
				return n, n > 0
			}
		}
	}
	return n, true
}

func (r *repeat) Err() error { return nil }

// newVolume scales s by a linear gain, silencing it at zero
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

type note struct {
	freq float64
	dur  time.Duration
}

// phrase plays notes back to back on one wave shape
func phrase(rate beep.SampleRate, wave WaveType, gain float64, notes ...note) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		osc := NewOscillator(n.freq, n.dur, wave, rate)
		parts = append(parts, NewEnvelope(osc, n.dur, 10*time.Millisecond, n.dur/3, rate))
	}
	return newVolume(beep.Seq(parts...), gain)
}

// cue builds the streamer for a named cue. looped reports whether the cue
// repeats until stopped.
func cue(name string, rate beep.SampleRate) (s beep.Streamer, looped bool) {
	const q = 250 * time.Millisecond
	switch name {
	case CueIntro:
		return newRepeat(func() beep.Streamer {
			return phrase(rate, WaveSine, 0.3,
				note{220, q}, note{261.63, q}, note{329.63, q}, note{261.63, q})
		}), true
	case CueGameplay:
		return newRepeat(func() beep.Streamer {
			return phrase(rate, WaveSquare, 0.12,
				note{110, q}, note{110, q}, note{146.83, q}, note{130.81, q})
		}), true
	case CueKill:
		noise := NewOscillator(0, 80*time.Millisecond, WaveNoise, rate)
		burst := newVolume(NewEnvelope(noise, 80*time.Millisecond, 2*time.Millisecond, 60*time.Millisecond, rate), 0.4)
		return beep.Seq(burst, phrase(rate, WaveSaw, 0.3, note{660, 70 * time.Millisecond}, note{440, 90 * time.Millisecond})), false
	case CueWin:
		return phrase(rate, WaveSine, 0.5,
			note{523.25, 150 * time.Millisecond}, note{659.25, 150 * time.Millisecond},
			note{783.99, 150 * time.Millisecond}, note{1046.5, 400 * time.Millisecond}), false
	case CueLose:
		return phrase(rate, WaveSaw, 0.35,
			note{392, 220 * time.Millisecond}, note{329.63, 220 * time.Millisecond},
			note{261.63, 220 * time.Millisecond}, note{196, 500 * time.Millisecond}), false
	}
	return nil, false
}
