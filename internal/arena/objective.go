package arena

import "math"

const (
	FlagWidth     = 20.0
	FlagHeight    = 30.0
	FlagPoleWidth = 3.0
	CaptureRadius = 50.0
	CaptureMax    = 100.0

	captureRate   = 1.0
	captureDecay  = 0.2
	captureSettle = 0.5
)

// Side identifies who holds or is taking the flag
type Side uint8

const (
	SideNone Side = iota
	SidePlayer
	SideAdversary
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideAdversary:
		return "adversary"
	default:
		return "none"
	}
}

// Objective is the capture flag. Progress is signed: positive toward the
// player, negative toward the adversaries.
type Objective struct {
	Pos       Vec // top-left of the pole
	Progress  float64
	Owner     Side
	Capturing Side
}

// NewObjective places a neutral flag
func NewObjective(pos Vec) *Objective {
	return &Objective{Pos: pos}
}

// Center is the midpoint of the pole, used for the capture radius
func (o *Objective) Center() Vec {
	return Vec{o.Pos.X + FlagPoleWidth/2, o.Pos.Y + FlagHeight/2}
}

// Contains reports whether a box's center is inside the capture radius
func (o *Objective) Contains(r Rect) bool {
	return WithinRadius(o.Center(), r.Center(), CaptureRadius)
}

// Decay drifts progress 0.2 toward zero while nobody is capturing and
// settles it to exactly zero once it is within 0.5.
func (o *Objective) Decay() {
	if o.Capturing != SideNone {
		return
	}
	switch {
	case o.Progress > 0:
		o.Progress -= captureDecay
	case o.Progress < 0:
		o.Progress += captureDecay
	}
	if math.Abs(o.Progress) < captureSettle {
		o.Progress = 0
		o.Owner = SideNone
	}
}

// Advance adds one tick of capture for the current capturing side.
// Reversing the other side's progress goes at double rate. It returns
// true once the side reaches full capture.
func (o *Objective) Advance() bool {
	switch o.Capturing {
	case SidePlayer:
		if o.Progress < 0 {
			o.Progress += captureRate * 2
		} else {
			o.Progress += captureRate
		}
		if o.Progress >= CaptureMax {
			o.Progress = CaptureMax
			o.Owner = SidePlayer
			return true
		}
	case SideAdversary:
		if o.Progress > 0 {
			o.Progress -= captureRate * 2
		} else {
			o.Progress -= captureRate
		}
		if o.Progress <= -CaptureMax {
			o.Progress = -CaptureMax
			o.Owner = SideAdversary
			return true
		}
	}
	return false
}

// Tick runs one objective step given who is inside the radius. The player
// takes priority over adversaries. It returns the side that completed a
// capture this tick, or SideNone.
func (o *Objective) Tick(playerInside, adversaryInside bool) Side {
	o.Decay()

	if playerInside {
		o.Capturing = SidePlayer
		if o.Advance() {
			return SidePlayer
		}
		return SideNone
	}

	if adversaryInside {
		o.Capturing = SideAdversary
		if o.Advance() {
			return SideAdversary
		}
		return SideNone
	}
	o.Capturing = SideNone
	return SideNone
}
