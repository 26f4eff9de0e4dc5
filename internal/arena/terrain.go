package arena

import "math"

// Terrain is the passability class of one grid cell
type Terrain uint8

const (
	Empty Terrain = iota
	Forest
	Mountain
	Water
)

func (t Terrain) String() string {
	switch t {
	case Forest:
		return "forest"
	case Mountain:
		return "mountain"
	case Water:
		return "water"
	default:
		return "empty"
	}
}

// Contact is the result of testing a box against the grid, ordered by priority
type Contact uint8

const (
	Clear Contact = iota
	Slow
	Wet
	Blocked
)

func (c Contact) String() string {
	switch c {
	case Slow:
		return "slow"
	case Wet:
		return "water"
	case Blocked:
		return "blocked"
	default:
		return "clear"
	}
}

const (
	DefaultCellSize = 50.0
	DefaultMaxCells = 400

	forestSeedRatio   = 0.1
	forestSpread      = 0.5
	mountainSeedRatio = 0.05
	waterSeedRatio    = 0.05
	waterSpread       = 0.3
	corridorEvery     = 4
	corridorClear     = 0.8
	variationRange    = 0.3

	EmptySearchAttempts = 100
)

// Cell is one grid square
type Cell struct {
	Terrain   Terrain
	Variation float64 // shading only
}

// Obstacle is a non-empty cell expressed as a world rectangle
type Obstacle struct {
	Rect
	Terrain Terrain
}

// Grid is the terrain of one round. It is never written after Generate.
type Grid struct {
	Cols, Rows int
	CellSize   float64

	cells     []Cell
	obstacles []Obstacle
}

// GridDims converts a viewport into grid dimensions, scaling both axes by
// sqrt(maxCells/requested) when the requested cell count exceeds maxCells.
func GridDims(viewportW, viewportH, cellSize float64, maxCells int) (cols, rows int) {
	cols = int(math.Floor(viewportW / cellSize))
	rows = int(math.Floor(viewportH / cellSize))
	if maxCells > 0 && cols*rows > maxCells {
		ratio := math.Sqrt(float64(maxCells) / float64(cols*rows))
		cols = int(math.Floor(float64(cols) * ratio))
		rows = int(math.Floor(float64(rows) * ratio))
	}
	return cols, rows
}

// NewGrid returns an all-Empty grid
func NewGrid(cols, rows int, cellSize float64) *Grid {
	return &Grid{
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
		cells:    make([]Cell, cols*rows),
	}
}

// Generate seeds forest, mountain and water clusters, then carves
// evenly spaced corridors back to Empty.
func Generate(cols, rows int, cellSize float64, rng Rand) *Grid {
	g := NewGrid(cols, rows, cellSize)
	for i := range g.cells {
		g.cells[i].Variation = rng.Float64() * variationRange
	}
	if cols == 0 || rows == 0 {
		return g
	}

	total := float64(cols * rows)
	g.seed(int(total*forestSeedRatio), Forest, forestSpread, rng)
	g.seed(int(total*mountainSeedRatio), Mountain, 0, rng)
	g.seed(int(total*waterSeedRatio), Water, waterSpread, rng)
	g.carveCorridors(rng)
	g.rebuildObstacles()
	return g
}

func (g *Grid) seed(count int, t Terrain, spread float64, rng Rand) {
	for i := 0; i < count; i++ {
		x := rng.IntN(g.Cols)
		y := rng.IntN(g.Rows)
		g.set(x, y, t)
		if spread <= 0 {
			continue
		}
		if x > 0 && rng.Float64() < spread {
			g.set(x-1, y, t)
		}
		if x < g.Cols-1 && rng.Float64() < spread {
			g.set(x+1, y, t)
		}
		if y > 0 && rng.Float64() < spread {
			g.set(x, y-1, t)
		}
		if y < g.Rows-1 && rng.Float64() < spread {
			g.set(x, y+1, t)
		}
	}
}

func (g *Grid) carveCorridors(rng Rand) {
	if n := g.Rows / corridorEvery; n > 0 {
		for i := 0; i < n; i++ {
			y := int(math.Floor(float64(i*g.Rows)/float64(n) + float64(g.Rows)/float64(n*2)))
			for x := 0; x < g.Cols; x++ {
				if rng.Float64() < corridorClear {
					g.set(x, y, Empty)
				}
			}
		}
	}
	if n := g.Cols / corridorEvery; n > 0 {
		for i := 0; i < n; i++ {
			x := int(math.Floor(float64(i*g.Cols)/float64(n) + float64(g.Cols)/float64(n*2)))
			for y := 0; y < g.Rows; y++ {
				if rng.Float64() < corridorClear {
					g.set(x, y, Empty)
				}
			}
		}
	}
}

func (g *Grid) set(x, y int, t Terrain) {
	g.cells[y*g.Cols+x].Terrain = t
}

// Set overwrites one cell and refreshes the obstacle list. Used to build
// fixed layouts; nothing calls it during a round.
func (g *Grid) Set(x, y int, t Terrain) {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return
	}
	g.set(x, y, t)
	g.rebuildObstacles()
}

func (g *Grid) rebuildObstacles() {
	g.obstacles = g.obstacles[:0]
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			c := g.cells[y*g.Cols+x]
			if c.Terrain == Empty {
				continue
			}
			g.obstacles = append(g.obstacles, Obstacle{
				Rect:    Rect{float64(x) * g.CellSize, float64(y) * g.CellSize, g.CellSize, g.CellSize},
				Terrain: c.Terrain,
			})
		}
	}
}

// Width is the world width in units
func (g *Grid) Width() float64 { return float64(g.Cols) * g.CellSize }

// Height is the world height in units
func (g *Grid) Height() float64 { return float64(g.Rows) * g.CellSize }

// Obstacles returns every non-empty cell as a rectangle, row-major
func (g *Grid) Obstacles() []Obstacle { return g.obstacles }

// Cell returns the cell at grid coordinates. Out of range yields an Empty cell.
func (g *Grid) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return Cell{}
	}
	return g.cells[y*g.Cols+x]
}

// Classify returns the terrain under a world point, Empty when outside the grid
func (g *Grid) Classify(p Vec) Terrain {
	x := int(math.Floor(p.X / g.CellSize))
	y := int(math.Floor(p.Y / g.CellSize))
	return g.Cell(x, y).Terrain
}

// QueryCollision classifies a box against the world edge and the obstacle
// list. Priority is edge/Mountain, then Water, then Forest.
func (g *Grid) QueryCollision(r Rect) Contact {
	if r.X < 0 || r.Y < 0 || r.X+r.W > g.Width() || r.Y+r.H > g.Height() {
		return Blocked
	}

	result := Clear
	for _, o := range g.obstacles {
		if !Overlaps(r, o.Rect) {
			continue
		}
		switch o.Terrain {
		case Mountain:
			return Blocked
		case Water:
			result = Wet
		case Forest:
			if result < Slow {
				result = Slow
			}
		}
	}
	return result
}

// RandomEmptyPosition samples top-left corners for a size×size box until one
// is Clear. After EmptySearchAttempts misses it returns (CellSize, CellSize),
// which callers must tolerate.
func (g *Grid) RandomEmptyPosition(size float64, rng Rand) (Vec, bool) {
	for i := 0; i < EmptySearchAttempts; i++ {
		x := math.Floor(rng.Float64() * (g.Width() - size))
		y := math.Floor(rng.Float64() * (g.Height() - size))
		if g.QueryCollision(Rect{x, y, size, size}) == Clear {
			return Vec{x, y}, true
		}
	}
	return Vec{g.CellSize, g.CellSize}, false
}
