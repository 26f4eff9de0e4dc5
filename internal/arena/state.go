package arena

import "time"

// PlayerState is the render view of the player
type PlayerState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	AimX    float64 `json:"ax"`
	AimY    float64 `json:"ay"`
	Dashing bool    `json:"dash,omitempty"`
	DashDX  float64 `json:"ddx,omitempty"`
	DashDY  float64 `json:"ddy,omitempty"`
	FireCD  float64 `json:"fcd"` // 0..1, 1 = ready
	DashCD  float64 `json:"dcd"`
}

// AdversaryState is the render view of one adversary
type AdversaryState struct {
	ID          int     `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Personality string  `json:"p"`
	Hue         float64 `json:"h"`
	CanFire     bool    `json:"f,omitempty"`
	FireCD      float64 `json:"fcd,omitempty"`
}

// ProjectileState is the render view of one projectile
type ProjectileState struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Adversary bool    `json:"adv,omitempty"`
}

// FlagState is the render view of the objective
type FlagState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Progress float64 `json:"pr"`
	Owner    string  `json:"o"`
}

// PendingState is a dead adversary waiting to respawn
type PendingState struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	SecsLeft int     `json:"s"`
}

// TerrainState is sent once per round
type TerrainState struct {
	Cols     int       `json:"c"`
	Rows     int       `json:"r"`
	CellSize float64   `json:"cs"`
	Cells    []uint8   `json:"t"`
	Shade    []float64 `json:"v,omitempty"`
}

// RoundState is a full snapshot of a round at one tick
type RoundState struct {
	Tick         uint64            `json:"tick"`
	Mode         string            `json:"m"`
	Status       string            `json:"st"`
	Player       PlayerState       `json:"pl"`
	Adversaries  []AdversaryState  `json:"adv"`
	Projectiles  []ProjectileState `json:"pr"`
	Flag         *FlagState        `json:"fl,omitempty"`
	Pending      []PendingState    `json:"rs,omitempty"`
	RespawnDelay float64           `json:"rd,omitempty"` // seconds
	Kills        int               `json:"k"`
}

// ToState renders the player at now
func (p *Player) ToState(now time.Duration) PlayerState {
	return PlayerState{
		X:       p.Pos.X,
		Y:       p.Pos.Y,
		AimX:    p.Aim.X,
		AimY:    p.Aim.Y,
		Dashing: p.State == StateDashing,
		DashDX:  p.DashDir.X,
		DashDY:  p.DashDir.Y,
		FireCD:  p.FireReadiness(now),
		DashCD:  p.DashReadiness(now),
	}
}

// ToState renders the adversary at now
func (a *Adversary) ToState(now time.Duration) AdversaryState {
	s := AdversaryState{
		ID:          a.ID,
		X:           a.Pos.X,
		Y:           a.Pos.Y,
		Personality: a.Personality.String(),
		Hue:         a.Hue,
		CanFire:     a.CanFire,
	}
	if a.CanFire {
		s.FireCD = a.FireReadiness(now)
	}
	return s
}

// ToState renders the projectile
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{X: p.Pos.X, Y: p.Pos.Y, Adversary: p.AdversaryOwned}
}

// ToState renders the objective
func (o *Objective) ToState() *FlagState {
	return &FlagState{X: o.Pos.X, Y: o.Pos.Y, Progress: o.Progress, Owner: o.Owner.String()}
}

// ToState renders the grid
func (g *Grid) ToState() TerrainState {
	s := TerrainState{
		Cols:     g.Cols,
		Rows:     g.Rows,
		CellSize: g.CellSize,
		Cells:    make([]uint8, len(g.cells)),
		Shade:    make([]float64, len(g.cells)),
	}
	for i, c := range g.cells {
		s.Cells[i] = uint8(c.Terrain)
		s.Shade[i] = c.Variation
	}
	return s
}
