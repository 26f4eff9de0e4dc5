package arena

const (
	ProjectileSpeed  = 5.0 // units/tick
	ProjectileRadius = 5.0
)

// ProjectileSamples is how many evenly spaced points along one tick of
// travel are tested against the grid. Thin walls can be skipped at low
// values.
var ProjectileSamples = 3

// Projectile is an energy ball owned by the entity that fired it
type Projectile struct {
	Pos            Vec
	Dir            Vec // unit
	Active         bool
	AdversaryOwned bool
}

// NewProjectile creates an active projectile at pos heading along dir
func NewProjectile(pos, dir Vec, adversaryOwned bool) *Projectile {
	return &Projectile{
		Pos:            pos,
		Dir:            dir.Normalize(),
		Active:         true,
		AdversaryOwned: adversaryOwned,
	}
}

// Advance moves the projectile one tick and samples the travelled segment.
// It goes inactive on leaving the world or touching Mountain; forest and
// water are flown over.
func (p *Projectile) Advance(g *Grid) {
	if !p.Active {
		return
	}
	prev := p.Pos
	p.Pos = p.Pos.Add(p.Dir.Scale(ProjectileSpeed))

	n := ProjectileSamples - 1
	if n < 1 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pt := prev.Add(p.Pos.Sub(prev).Scale(t))

		if pt.X < 0 || pt.Y < 0 || pt.X > g.Width() || pt.Y > g.Height() {
			p.Active = false
			return
		}
		box := Rect{pt.X - ProjectileRadius, pt.Y - ProjectileRadius, ProjectileRadius * 2, ProjectileRadius * 2}
		if g.QueryCollision(box) == Blocked {
			p.Active = false
			return
		}
	}
}

// Hits checks the projectile against an entity box
func (p *Projectile) Hits(r Rect) bool {
	return p.Active && CircleRect(p.Pos, ProjectileRadius, r)
}

// advanceAll steps every projectile and drops the inactive ones, keeping order
func advanceAll(ps []*Projectile, g *Grid) []*Projectile {
	kept := ps[:0]
	for _, p := range ps {
		p.Advance(g)
		if p.Active {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(ps); i++ {
		ps[i] = nil
	}
	return kept
}
