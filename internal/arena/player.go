package arena

import "time"

const (
	EntitySize = 20.0

	PlayerSpeed         = 3.0 // units/tick
	PlayerDashSpeed     = 8.0
	PlayerDashDuration  = 300 * time.Millisecond
	PlayerDashCooldown  = 1500 * time.Millisecond
	PlayerFireCooldown  = 250 * time.Millisecond
	PlayerInitialFireCD = 2000 * time.Millisecond
)

// Input is one tick's intent from whatever drives the player
type Input struct {
	Up, Down, Left, Right bool
	Dash                  bool // held; edge-detected by the player
	AimX, AimY            float64
	Fire                  bool // one request per click
}

// MoveState is the movement state machine
type MoveState uint8

const (
	StateNormal MoveState = iota
	StateDashing
)

// Player is the controlled agent
type Player struct {
	Pos   Vec
	Aim   Vec // unit, starts facing right
	State MoveState

	DashDir       Vec
	DashRemaining time.Duration
	LastDash      time.Duration
	LastFire      time.Duration
	StartedAt     time.Duration

	Projectiles []*Projectile

	dashHeld bool
	lastTick time.Duration
}

// NewPlayer places a player whose cooldowns count from now
func NewPlayer(pos Vec, now time.Duration) *Player {
	return &Player{
		Pos:       pos,
		Aim:       Vec{1, 0},
		LastDash:  now - PlayerDashCooldown,
		LastFire:  now,
		StartedAt: now,
		lastTick:  now,
	}
}

// Rect returns the player's bounding box
func (p *Player) Rect() Rect {
	return Rect{p.Pos.X, p.Pos.Y, EntitySize, EntitySize}
}

// Center returns the middle of the bounding box
func (p *Player) Center() Vec {
	return p.Rect().Center()
}

// Update integrates one tick of input. The player is clamped to the world
// edge per axis and never tested against terrain.
func (p *Player) Update(now time.Duration, in Input, g *Grid) {
	dt := now - p.lastTick
	p.lastTick = now

	if p.State == StateDashing {
		p.DashRemaining -= dt
		if p.DashRemaining <= 0 {
			p.DashRemaining = 0
			p.State = StateNormal
		}
	}

	if aim := (Vec{in.AimX, in.AimY}); aim.Len() > 0 {
		p.Aim = aim.Normalize()
	}

	if in.Dash && !p.dashHeld {
		p.tryDash(now, in)
	}
	p.dashHeld = in.Dash

	var step Vec
	if p.State == StateDashing {
		step = p.DashDir.Scale(PlayerDashSpeed)
	} else {
		step = moveIntent(in).Normalize().Scale(PlayerSpeed)
	}

	next := p.Pos.Add(step)
	if next.X >= 0 && next.X+EntitySize <= g.Width() {
		p.Pos.X = next.X
	}
	if next.Y >= 0 && next.Y+EntitySize <= g.Height() {
		p.Pos.Y = next.Y
	}

	p.Projectiles = advanceAll(p.Projectiles, g)

	if in.Fire {
		p.Fire(now)
	}
}

func moveIntent(in Input) Vec {
	var v Vec
	if in.Up {
		v.Y--
	}
	if in.Down {
		v.Y++
	}
	if in.Left {
		v.X--
	}
	if in.Right {
		v.X++
	}
	return v
}

func (p *Player) tryDash(now time.Duration, in Input) {
	if now-p.LastDash < PlayerDashCooldown {
		return
	}
	dir := moveIntent(in)
	if dir.X == 0 && dir.Y == 0 {
		dir = p.Aim
	}
	p.DashDir = dir.Normalize()
	p.State = StateDashing
	p.DashRemaining = PlayerDashDuration
	p.LastDash = now
}

// CanFire reports whether both fire cooldowns have run out
func (p *Player) CanFire(now time.Duration) bool {
	return now-p.StartedAt >= PlayerInitialFireCD && now-p.LastFire >= PlayerFireCooldown
}

// Fire launches a projectile from the player center along the aim. It is a
// no-op while either cooldown is running.
func (p *Player) Fire(now time.Duration) bool {
	if !p.CanFire(now) {
		return false
	}
	p.LastFire = now
	p.Projectiles = append(p.Projectiles, NewProjectile(p.Center(), p.Aim, false))
	return true
}

// FireReadiness returns 0..1 of the active fire cooldown, 1 when ready
func (p *Player) FireReadiness(now time.Duration) float64 {
	if e := now - p.StartedAt; e < PlayerInitialFireCD {
		return float64(e) / float64(PlayerInitialFireCD)
	}
	if e := now - p.LastFire; e < PlayerFireCooldown {
		return float64(e) / float64(PlayerFireCooldown)
	}
	return 1
}

// DashReadiness returns 0..1 of the dash cooldown, 1 when a dash is available
func (p *Player) DashReadiness(now time.Duration) float64 {
	if e := now - p.LastDash; e < PlayerDashCooldown {
		return float64(e) / float64(PlayerDashCooldown)
	}
	return 1
}
