package arena

import "testing"

func TestProjectileStopsInMountain(t *testing.T) {
	g := NewGrid(10, 10, 50)
	g.Set(2, 2, Mountain)

	p := NewProjectile(Vec{120, 125}, Vec{1, 0}, false)
	p.Advance(g)
	if p.Active {
		t.Error("projectile inside mountain should deactivate")
	}
}

func TestProjectilePassesWaterAndForest(t *testing.T) {
	for _, terrain := range []Terrain{Water, Forest} {
		g := NewGrid(10, 10, 50)
		g.Set(2, 2, terrain)

		p := NewProjectile(Vec{120, 125}, Vec{1, 0}, false)
		p.Advance(g)
		if !p.Active {
			t.Errorf("projectile over %v should stay active", terrain)
		}
		if p.Pos.X != 125 {
			t.Errorf("expected x=125 after one tick, got %f", p.Pos.X)
		}
	}
}

func TestProjectileLeavesWorld(t *testing.T) {
	g := NewGrid(10, 10, 50)

	p := NewProjectile(Vec{497, 250}, Vec{1, 0}, false)
	p.Advance(g)
	if p.Active {
		t.Error("projectile past the world edge should deactivate")
	}
}

func TestProjectileDirectionNormalized(t *testing.T) {
	p := NewProjectile(Vec{0, 0}, Vec{3, 4}, true)
	if l := p.Dir.Len(); l < 0.999 || l > 1.001 {
		t.Errorf("direction should be unit length, got %f", l)
	}
	if !p.AdversaryOwned {
		t.Error("ownership flag should be kept")
	}
}

func TestProjectileInactiveDoesNotMove(t *testing.T) {
	g := NewGrid(10, 10, 50)
	p := NewProjectile(Vec{100, 100}, Vec{1, 0}, false)
	p.Active = false
	p.Advance(g)
	if p.Pos.X != 100 {
		t.Error("inactive projectile should not move")
	}
}

func TestAdvanceAllDropsInactive(t *testing.T) {
	g := NewGrid(10, 10, 50)
	g.Set(2, 2, Mountain)

	ps := []*Projectile{
		NewProjectile(Vec{250, 250}, Vec{1, 0}, false),
		NewProjectile(Vec{120, 125}, Vec{1, 0}, false),
		NewProjectile(Vec{300, 300}, Vec{0, 1}, false),
	}
	ps = advanceAll(ps, g)
	if len(ps) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(ps))
	}
	if ps[0].Pos.X != 255 || ps[1].Pos.Y != 305 {
		t.Error("survivors should keep their order")
	}
}
