package arena

import (
	"math"
	"testing"
	"time"
)

const ms = time.Millisecond

func TestPlayerDiagonalSpeed(t *testing.T) {
	g := NewGrid(10, 10, 50)
	p := NewPlayer(Vec{200, 200}, 0)

	p.Update(16*ms, Input{Down: true, Right: true}, g)
	moved := Distance(Vec{200, 200}, p.Pos)
	if math.Abs(moved-PlayerSpeed) > 1e-9 {
		t.Errorf("diagonal step should be %f, got %f", PlayerSpeed, moved)
	}
}

func TestPlayerClampPerAxis(t *testing.T) {
	g := NewGrid(10, 10, 50)
	p := NewPlayer(Vec{0, 200}, 0)

	p.Update(16*ms, Input{Left: true, Down: true}, g)
	if p.Pos.X != 0 {
		t.Errorf("x should stay clamped at 0, got %f", p.Pos.X)
	}
	if p.Pos.Y <= 200 {
		t.Error("y should still move when only x is out of bounds")
	}

	p.Pos = Vec{480, 480}
	p.Update(32*ms, Input{Right: true, Down: true}, g)
	if p.Pos != (Vec{480, 480}) {
		t.Errorf("player at far corner should not move out, got %v", p.Pos)
	}
}

func TestPlayerIgnoresTerrain(t *testing.T) {
	g := NewGrid(10, 10, 50)
	fill(g, Mountain)
	p := NewPlayer(Vec{200, 200}, 0)

	p.Update(16*ms, Input{Right: true}, g)
	if p.Pos.X != 203 {
		t.Errorf("player should walk over mountains, got x=%f", p.Pos.X)
	}
}

func TestPlayerDashLifecycle(t *testing.T) {
	g := NewGrid(20, 20, 50)
	p := NewPlayer(Vec{100, 100}, 0)

	p.Update(16*ms, Input{Right: true, Dash: true}, g)
	if p.State != StateDashing {
		t.Fatal("dash press should start a dash")
	}
	if p.Pos.X != 100+PlayerDashSpeed {
		t.Errorf("dash should move at dash speed, got x=%f", p.Pos.X)
	}

	// held key and no movement keeps the stored direction
	p.Update(32*ms, Input{Dash: true}, g)
	if p.Pos.X != 100+2*PlayerDashSpeed {
		t.Errorf("dash should keep its direction, got x=%f", p.Pos.X)
	}

	p.Update(320*ms, Input{}, g)
	if p.State != StateNormal {
		t.Error("dash should end after its duration")
	}

	p.Update(400*ms, Input{Dash: true}, g)
	if p.State == StateDashing {
		t.Error("dash should be on cooldown")
	}
	p.Update(1600*ms, Input{}, g)
	p.Update(1620*ms, Input{Dash: true}, g)
	if p.State != StateDashing {
		t.Error("dash should be available after cooldown")
	}
}

func TestPlayerDashNeedsFreshPress(t *testing.T) {
	g := NewGrid(20, 20, 50)
	p := NewPlayer(Vec{100, 100}, 0)

	p.Update(16*ms, Input{Dash: true}, g)
	p.Update(400*ms, Input{Dash: true}, g)
	// held through the whole cooldown
	p.Update(2000*ms, Input{Dash: true}, g)
	if p.State == StateDashing {
		t.Error("a held key should not trigger a second dash")
	}
	if p.LastDash != 16*ms {
		t.Errorf("expected only the first dash, last dash at %v", p.LastDash)
	}
}

func TestPlayerDashUsesAimWhenIdle(t *testing.T) {
	g := NewGrid(20, 20, 50)
	p := NewPlayer(Vec{100, 100}, 0)

	p.Update(16*ms, Input{AimX: 0, AimY: 5, Dash: true}, g)
	if p.DashDir != (Vec{0, 1}) {
		t.Errorf("idle dash should follow aim, got %v", p.DashDir)
	}
}

func TestPlayerAimZeroKeepsPrevious(t *testing.T) {
	g := NewGrid(20, 20, 50)
	p := NewPlayer(Vec{100, 100}, 0)

	p.Update(16*ms, Input{AimX: 0, AimY: -2}, g)
	p.Update(32*ms, Input{}, g)
	if p.Aim != (Vec{0, -1}) {
		t.Errorf("zero aim should keep the previous direction, got %v", p.Aim)
	}
}

func TestPlayerFireCooldowns(t *testing.T) {
	p := NewPlayer(Vec{100, 100}, 0)

	if p.Fire(1999 * ms) {
		t.Error("fire before initial cooldown should be a no-op")
	}
	if !p.Fire(2000 * ms) {
		t.Error("fire at initial cooldown should succeed")
	}
	if p.Fire(2100 * ms) {
		t.Error("fire within per-shot cooldown should be a no-op")
	}
	if !p.Fire(2250 * ms) {
		t.Error("fire after per-shot cooldown should succeed")
	}
	if len(p.Projectiles) != 2 {
		t.Errorf("expected 2 projectiles, got %d", len(p.Projectiles))
	}
}

func TestPlayerInitialCooldownOverridesShotCooldown(t *testing.T) {
	p := NewPlayer(Vec{100, 100}, 0)
	p.LastFire = -time.Hour

	for _, now := range []time.Duration{0, 500 * ms, 1999 * ms} {
		if p.Fire(now) {
			t.Errorf("fire at %v should be a no-op", now)
		}
	}
}

func TestPlayerProjectileFromCenter(t *testing.T) {
	g := NewGrid(20, 20, 50)
	p := NewPlayer(Vec{100, 100}, 0)

	p.Update(2000*ms, Input{AimX: 1, AimY: 0, Fire: true}, g)
	if len(p.Projectiles) != 1 {
		t.Fatalf("expected a projectile, got %d", len(p.Projectiles))
	}
	if p.Projectiles[0].Pos != (Vec{110, 110}) {
		t.Errorf("projectile should spawn at player center, got %v", p.Projectiles[0].Pos)
	}

	p.Update(2016*ms, Input{}, g)
	if p.Projectiles[0].Pos.X != 115 {
		t.Errorf("projectile should advance with the player's tick, got %v", p.Projectiles[0].Pos)
	}
}
