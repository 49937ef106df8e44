package maze

import "math"

// Cell represents the kind of a single maze cell.
type Cell int

const (
	Empty Cell = iota // Walkable, rays pass through
	Wall              // Blocks rays and movement
)

func (c Cell) String() string {
	if c == Empty {
		return "empty"
	}
	return "wall"
}

// CellFromRune maps a maze character to its cell kind.
// A space is empty, every other character is a wall.
func CellFromRune(r rune) Cell {
	if r == ' ' {
		return Empty
	}
	return Wall
}

// Lookup is the read-only view of a maze used by the caster, the player and the renderers.
type Lookup interface {
	CellAt(row, col int) Cell
	Size() (rows, cols int)
}

// Grid is an immutable rectangular maze.
type Grid struct {
	rows  int
	cols  int
	cells [][]rune
}

// NewGrid builds a grid from rows of characters. Every row must have the same length;
// loaders are expected to have validated that already.
func NewGrid(rows []string) *Grid {
	g := &Grid{rows: len(rows)}
	g.cells = make([][]rune, len(rows))
	for i, row := range rows {
		g.cells[i] = []rune(row)
		if len(g.cells[i]) > g.cols {
			g.cols = len(g.cells[i])
		}
	}
	return g
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (rows, cols int) {
	return g.rows, g.cols
}

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < len(g.cells[row])
}

// CellAt returns the cell kind at (row, col). Out-of-range indices are walls.
func (g *Grid) CellAt(row, col int) Cell {
	if !g.InBounds(row, col) {
		return Wall
	}
	return CellFromRune(g.cells[row][col])
}

// Rune returns the raw map character at (row, col), or 0 when out of range.
func (g *Grid) Rune(row, col int) rune {
	if !g.InBounds(row, col) {
		return 0
	}
	return g.cells[row][col]
}

// Rows returns a copy of the maze as text rows.
func (g *Grid) Rows() []string {
	out := make([]string, g.rows)
	for i, row := range g.cells {
		out[i] = string(row)
	}
	return out
}

// WorldToCell converts world coordinates to grid indices using floor(coord / blockSize).
func WorldToCell(x, y, blockSize float64) (row, col int) {
	return int(math.Floor(y / blockSize)), int(math.Floor(x / blockSize))
}

// CellCenter returns the world coordinates of the center of a cell.
func CellCenter(row, col int, blockSize float64) (x, y float64) {
	return (float64(col) + 0.5) * blockSize, (float64(row) + 0.5) * blockSize
}

// Blocked reports whether the world point (x, y) lies in a wall cell or outside the grid.
func Blocked(l Lookup, x, y, blockSize float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return true
	}
	row, col := WorldToCell(x, y, blockSize)
	rows, cols := l.Size()
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return true
	}
	return l.CellAt(row, col) == Wall
}
