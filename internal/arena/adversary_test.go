package arena

import (
	"testing"
	"time"
)

func TestStuckCounterForcesReplan(t *testing.T) {
	player := Vec{300, 100}
	a := NewAdversary(1, Vec{100, 100}, Aggressive, 0, false, 0)
	a.Waypoints = []Vec{{200, 100}}
	a.LastPlayerPos = player
	a.LastReplan = 0

	a.StuckFrames = 30
	if a.NeedsReplan(100*ms, player) {
		t.Error("stuck counter of 30 should not force a replan")
	}
	a.StuckFrames = 31
	if !a.NeedsReplan(100*ms, player) {
		t.Error("stuck counter of 31 should force a replan before the timer")
	}

	g := NewGrid(10, 10, 50)
	p := NewPlayer(player, 0)
	a.Update(100*ms, p, g, NewRand(1))
	if a.LastReplan != 100*ms {
		t.Errorf("replan should be stamped at 100ms, got %v", a.LastReplan)
	}
	if a.StuckFrames != 0 {
		t.Errorf("stuck counter should reset, got %d", a.StuckFrames)
	}
}

func TestReplanTriggers(t *testing.T) {
	player := Vec{300, 100}
	a := NewAdversary(1, Vec{100, 100}, Aggressive, 0, false, 0)
	a.Waypoints = []Vec{{200, 100}}
	a.LastPlayerPos = player

	if a.NeedsReplan(600*ms, player) {
		t.Error("exactly 600ms should not trigger a timed replan")
	}
	if !a.NeedsReplan(601*ms, player) {
		t.Error("over 600ms should trigger a replan")
	}
	if !a.NeedsReplan(10*ms, Vec{300, 151}) {
		t.Error("player moving over 50 units should trigger a replan")
	}
	a.Waypoints = nil
	if !a.NeedsReplan(10*ms, player) {
		t.Error("empty waypoint queue should trigger a replan")
	}
}

func TestFindPath(t *testing.T) {
	rng := &scriptRand{ints: []int{1}} // three intermediate points, zero noise
	path := FindPath(Vec{0, 0}, Vec{40, 0}, rng)

	want := []Vec{{10, 0}, {20, 0}, {30, 0}, {40, 0}}
	if len(path) != len(want) {
		t.Fatalf("expected %d waypoints, got %d", len(want), len(path))
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("waypoint %d: got %v, want %v", i, path[i], want[i])
		}
	}
}

func TestFindPathBounds(t *testing.T) {
	rng := NewRand(9)
	for i := 0; i < 100; i++ {
		path := FindPath(Vec{0, 0}, Vec{300, 300}, rng)
		if len(path) < 3 || len(path) > 5 {
			t.Fatalf("path length %d outside 3..5", len(path))
		}
		if path[len(path)-1] != (Vec{300, 300}) {
			t.Fatal("path should end on the target")
		}
	}
	if FindPath(Vec{5, 5}, Vec{5, 5}, rng) != nil {
		t.Error("zero-length path should be empty")
	}
}

func TestAdversaryForestSlowdown(t *testing.T) {
	g := NewGrid(10, 10, 50)
	fill(g, Forest)
	a := NewAdversary(1, Vec{100, 100}, Aggressive, 0, false, 0)
	a.Waypoints = []Vec{{300, 100}}

	a.follow(g)
	if got := a.Pos.X - 100; got < 1.2-1e-9 || got > 1.2+1e-9 {
		t.Errorf("forest step should be 1.2, got %f", got)
	}
}

func TestAdversaryWadesWater(t *testing.T) {
	g := NewGrid(10, 10, 50)
	fill(g, Water)
	a := NewAdversary(1, Vec{100, 100}, Aggressive, 0, false, 0)
	a.Waypoints = []Vec{{300, 100}}

	a.follow(g)
	if a.Pos.X != 102 {
		t.Errorf("water should not slow or block adversaries, got x=%f", a.Pos.X)
	}
}

func TestAdversarySlidesAlongWall(t *testing.T) {
	g := NewGrid(10, 10, 50)
	g.Set(3, 2, Mountain)
	a := NewAdversary(1, Vec{129, 125}, Aggressive, 0, false, 0)
	a.Waypoints = []Vec{{300, 200}}

	a.follow(g)
	if a.Pos.X != 129 {
		t.Errorf("x move into the wall should be rejected, got x=%f", a.Pos.X)
	}
	if a.Pos.Y <= 125 {
		t.Errorf("y move should slide along the wall, got y=%f", a.Pos.Y)
	}
}

func TestAdversaryPopsReachedWaypoint(t *testing.T) {
	g := NewGrid(10, 10, 50)
	a := NewAdversary(1, Vec{100, 100}, Aggressive, 0, false, 0)
	a.Waypoints = []Vec{{101, 100}, {200, 100}}

	a.follow(g)
	if len(a.Waypoints) != 1 {
		t.Errorf("waypoint within one step should be popped, %d left", len(a.Waypoints))
	}
	if a.Pos.X != 100 {
		t.Error("popping a waypoint should not move the adversary")
	}
}

func TestLineOfSight(t *testing.T) {
	g := NewGrid(10, 10, 50)
	a := NewAdversary(1, Vec{0, 105}, Aggressive, 0, false, 0)
	target := Vec{290, 115}

	if !a.HasLineOfSight(target, g) {
		t.Error("open ground should give line of sight")
	}
	g.Set(3, 2, Mountain)
	if a.HasLineOfSight(target, g) {
		t.Error("mountain between should block line of sight")
	}

	g = NewGrid(10, 10, 50)
	g.Set(3, 2, Water)
	if !a.HasLineOfSight(target, g) {
		t.Error("water should not block line of sight")
	}
}

func TestAdversaryFireGating(t *testing.T) {
	g := NewGrid(10, 10, 50)
	p := NewPlayer(Vec{400, 400}, 0)
	a := NewAdversary(1, Vec{100, 100}, Aggressive, 0, true, 0)
	rng := NewRand(5)

	a.Update(2000*ms, p, g, rng)
	if len(a.Projectiles) != 0 {
		t.Error("should not fire at exactly the initial cooldown")
	}
	a.Update(2001*ms, p, g, rng)
	if len(a.Projectiles) != 1 {
		t.Fatalf("should fire once cooldowns pass, got %d", len(a.Projectiles))
	}
	if !a.Projectiles[0].AdversaryOwned {
		t.Error("adversary projectile should be flagged")
	}
	a.Update(3000*ms, p, g, rng)
	if len(a.Projectiles) != 1 {
		t.Error("should not fire again within the cooldown")
	}
}

func TestAdversaryHoldsFireWithoutSight(t *testing.T) {
	g := NewGrid(10, 10, 50)
	for y := 0; y < 10; y++ {
		g.Set(5, y, Mountain)
	}
	p := NewPlayer(Vec{400, 100}, 0)
	a := NewAdversary(1, Vec{100, 100}, Aggressive, 0, true, 0)

	a.Update(5*time.Second, p, g, NewRand(5))
	if len(a.Projectiles) != 0 {
		t.Error("should not fire through a mountain wall")
	}
}

func TestAdversaryShotHitsPlayer(t *testing.T) {
	g := NewGrid(20, 20, 50)
	p := NewPlayer(Vec{200, 200}, 0)
	a := NewAdversary(1, Vec{600, 600}, Aggressive, 0, false, 0)
	a.Projectiles = []*Projectile{NewProjectile(Vec{190, 210}, Vec{1, 0}, true)}

	if out := a.Update(16*ms, p, g, NewRand(1)); out != OutcomeHitPlayer {
		t.Errorf("expected %v, got %v", OutcomeHitPlayer, out)
	}
	if len(a.Projectiles) != 0 {
		t.Error("projectile that hit should be removed")
	}
}

func TestAdversaryStruckByPlayer(t *testing.T) {
	g := NewGrid(20, 20, 50)
	p := NewPlayer(Vec{100, 100}, 0)
	a := NewAdversary(1, Vec{500, 500}, Aggressive, 0, false, 0)
	shot := NewProjectile(Vec{510, 510}, Vec{1, 0}, false)
	p.Projectiles = []*Projectile{shot}

	if out := a.Update(16*ms, p, g, NewRand(1)); out != OutcomeWasHit {
		t.Errorf("expected %v, got %v", OutcomeWasHit, out)
	}
	if shot.Active {
		t.Error("projectile should be spent on the hit")
	}

	b := NewAdversary(2, Vec{520, 520}, Aggressive, 0, false, 0)
	if out := b.Update(16*ms, p, g, NewRand(1)); out != OutcomeNone {
		t.Error("spent projectile should not hit a second adversary")
	}
}
