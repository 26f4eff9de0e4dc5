package arena

import (
	"math"
	"time"
)

const (
	AdversarySpeed          = 2.0 // units/tick
	AdversaryReplanInterval = 600 * time.Millisecond
	AdversaryReplanDistance = 50.0
	AdversaryStuckLimit     = 30
	AdversaryStuckEpsilon   = 0.5
	AdversaryFireCooldown   = 2000 * time.Millisecond
	AdversaryInitialFireCD  = 2000 * time.Millisecond
	AdversaryHueRange       = 20.0

	forestSlowdown = 0.6
	waypointNoise  = 30.0
	minWaypoints   = 2
	extraWaypoints = 3 // 0..2 added to minWaypoints
	losSteps       = 10
	losProbeSize   = 4.0
)

// Outcome is what a single adversary update means for the round
type Outcome uint8

const (
	OutcomeNone      Outcome = iota
	OutcomeWasHit            // struck by a player projectile, remove it
	OutcomeHitPlayer         // one of its projectiles struck the player
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWasHit:
		return "was-hit"
	case OutcomeHitPlayer:
		return "hit-player"
	default:
		return "none"
	}
}

// Adversary is an AI pursuer
type Adversary struct {
	ID          int
	Pos         Vec
	Personality Personality
	Hue         float64 // red-ish, [0,20)
	CanFire     bool

	Waypoints     []Vec
	Offset        Vec
	StuckFrames   int
	LastReplan    time.Duration
	LastPlayerPos Vec
	LastPos       Vec

	SpawnedAt time.Duration
	LastFire  time.Duration

	Projectiles []*Projectile
}

// NewAdversary creates an adversary whose fire cooldowns count from now
func NewAdversary(id int, pos Vec, p Personality, hue float64, canFire bool, now time.Duration) *Adversary {
	return &Adversary{
		ID:            id,
		Pos:           pos,
		Personality:   p,
		Hue:           hue,
		CanFire:       canFire,
		LastPlayerPos: Vec{-1, -1},
		LastPos:       pos,
		SpawnedAt:     now,
		LastFire:      now,
	}
}

// Rect returns the adversary's bounding box
func (a *Adversary) Rect() Rect {
	return Rect{a.Pos.X, a.Pos.Y, EntitySize, EntitySize}
}

// Center returns the middle of the bounding box
func (a *Adversary) Center() Vec {
	return a.Rect().Center()
}

// Touches reports whether the adversary's box overlaps the player's
func (a *Adversary) Touches(p *Player) bool {
	return Overlaps(a.Rect(), p.Rect())
}

// NeedsReplan reports whether any replan trigger has fired
func (a *Adversary) NeedsReplan(now time.Duration, player Vec) bool {
	moved := math.Abs(a.LastPlayerPos.X-player.X) > AdversaryReplanDistance ||
		math.Abs(a.LastPlayerPos.Y-player.Y) > AdversaryReplanDistance
	return now-a.LastReplan > AdversaryReplanInterval ||
		len(a.Waypoints) == 0 ||
		moved ||
		a.StuckFrames > AdversaryStuckLimit
}

// Update runs one tick: replan, follow waypoints, maybe fire, then resolve
// projectile hits in both directions.
func (a *Adversary) Update(now time.Duration, player *Player, g *Grid, rng Rand) Outcome {
	if a.NeedsReplan(now, player.Pos) {
		a.Replan(now, player.Pos, rng)
	}

	if len(a.Waypoints) > 0 {
		a.follow(g)

		if math.Abs(a.Pos.X-a.LastPos.X) < AdversaryStuckEpsilon &&
			math.Abs(a.Pos.Y-a.LastPos.Y) < AdversaryStuckEpsilon {
			a.StuckFrames++
		} else {
			a.StuckFrames = 0
		}
		a.LastPos = a.Pos
	}

	if a.CanFire && a.fireReady(now) && a.HasLineOfSight(player.Center(), g) {
		a.fire(player.Center(), now)
	}

	playerBox := player.Rect()
	kept := a.Projectiles[:0]
	hit := false
	for _, p := range a.Projectiles {
		if hit {
			kept = append(kept, p)
			continue
		}
		p.Advance(g)
		if !p.Active {
			continue
		}
		if p.Hits(playerBox) {
			p.Active = false
			hit = true
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(a.Projectiles); i++ {
		a.Projectiles[i] = nil
	}
	a.Projectiles = kept
	if hit {
		return OutcomeHitPlayer
	}

	box := a.Rect()
	for _, p := range player.Projectiles {
		if p.Hits(box) {
			p.Active = false
			return OutcomeWasHit
		}
	}
	return OutcomeNone
}

// Replan recomputes the personality offset and a fresh waypoint queue
func (a *Adversary) Replan(now time.Duration, player Vec, rng Rand) {
	a.Offset = ComputeTargetOffset(a.Personality, a.Pos, player, rng)
	a.Waypoints = FindPath(a.Pos, player.Add(a.Offset), rng)
	a.LastReplan = now
	a.StuckFrames = 0
	a.LastPlayerPos = player
}

// FindPath lays 2-4 noisy waypoints on the line from start to target and
// ends on the target itself. No grid search is done.
func FindPath(start, target Vec, rng Rand) []Vec {
	d := target.Sub(start)
	if d.Len() == 0 {
		return nil
	}
	n := minWaypoints + rng.IntN(extraWaypoints)
	path := make([]Vec, 0, n+1)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n+1)
		noise := Vec{
			(rng.Float64()*2 - 1) * waypointNoise,
			(rng.Float64()*2 - 1) * waypointNoise,
		}
		path = append(path, start.Add(d.Scale(t)).Add(noise))
	}
	return append(path, target)
}

func (a *Adversary) follow(g *Grid) {
	d := a.Waypoints[0].Sub(a.Pos)
	dist := d.Len()
	if dist < AdversarySpeed {
		a.Waypoints = a.Waypoints[1:]
		return
	}

	step := d.Scale(AdversarySpeed / dist)
	if g.QueryCollision(a.rectAt(a.Pos.Add(step))) == Slow {
		step = step.Scale(forestSlowdown)
	}

	if g.QueryCollision(a.rectAt(a.Pos.Add(step))) != Blocked {
		a.Pos = a.Pos.Add(step)
		return
	}

	// slide along whatever blocked the combined move
	if g.QueryCollision(a.rectAt(Vec{a.Pos.X + step.X, a.Pos.Y})) != Blocked {
		a.Pos.X += step.X
	}
	if g.QueryCollision(a.rectAt(Vec{a.Pos.X, a.Pos.Y + step.Y})) != Blocked {
		a.Pos.Y += step.Y
	}
}

func (a *Adversary) rectAt(pos Vec) Rect {
	return Rect{pos.X, pos.Y, EntitySize, EntitySize}
}

func (a *Adversary) fireReady(now time.Duration) bool {
	return now-a.LastFire > AdversaryFireCooldown && now-a.SpawnedAt > AdversaryInitialFireCD
}

// FireReadiness returns 0..1 of the active fire cooldown, 1 when ready
func (a *Adversary) FireReadiness(now time.Duration) float64 {
	if e := now - a.SpawnedAt; e < AdversaryInitialFireCD {
		return float64(e) / float64(AdversaryInitialFireCD)
	}
	if e := now - a.LastFire; e < AdversaryFireCooldown {
		return float64(e) / float64(AdversaryFireCooldown)
	}
	return 1
}

// HasLineOfSight probes the interior points at tenths of the segment from
// the adversary center to target. Any Blocked probe hides the target.
func (a *Adversary) HasLineOfSight(target Vec, g *Grid) bool {
	from := a.Center()
	d := target.Sub(from)
	for i := 1; i < losSteps; i++ {
		pt := from.Add(d.Scale(float64(i) / losSteps))
		probe := Rect{pt.X - losProbeSize/2, pt.Y - losProbeSize/2, losProbeSize, losProbeSize}
		if g.QueryCollision(probe) == Blocked {
			return false
		}
	}
	return true
}

func (a *Adversary) fire(target Vec, now time.Duration) {
	from := a.Center()
	dir := target.Sub(from)
	if dir.Len() == 0 {
		return
	}
	a.LastFire = now
	a.Projectiles = append(a.Projectiles, NewProjectile(from, dir, true))
}
