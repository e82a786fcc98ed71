/*
Package terrain is the grid model consumed by the path solver.

A Grid is a row-major array of cell kinds. Open and Track cells can carry a line,
Blocked and Water cells cannot. Neighbors are 4-connected, or 8-connected when diagonal
movement is enabled, and are always returned in the same order so that searches over the
same terrain are reproducible.
*/
package terrain

import (
	"errors"
	"fmt"
	"strings"

	"lintang/gridrouter/pkg/datastructure"
)

type Kind byte

const (
	Open    Kind = 0 // passable ground
	Blocked Kind = 1 // impassable (rock, building)
	Water   Kind = 2 // impassable
	Track   Kind = 3 // existing line, passable
)

var (
	ErrOutOfBounds      = errors.New("coordinate is outside the terrain")
	ErrMalformedTerrain = errors.New("malformed terrain")

	orthogonalDirections = []datastructure.GridCoordinate{
		{Row: -1, Col: 0}, // north
		{Row: 1, Col: 0},  // south
		{Row: 0, Col: -1}, // west
		{Row: 0, Col: 1},  // east
	}
	diagonalDirections = []datastructure.GridCoordinate{
		{Row: -1, Col: -1}, // north west
		{Row: -1, Col: 1},  // north east
		{Row: 1, Col: -1},  // south west
		{Row: 1, Col: 1},   // south east
	}
)

func (k Kind) Passable() bool {
	return k == Open || k == Track
}

func (k Kind) Symbol() byte {
	switch k {
	case Blocked:
		return '#'
	case Water:
		return '~'
	case Track:
		return '='
	default:
		return '.'
	}
}

func KindFromSymbol(b byte) (Kind, error) {
	switch b {
	case '.':
		return Open, nil
	case '#':
		return Blocked, nil
	case '~':
		return Water, nil
	case '=':
		return Track, nil
	default:
		return Open, fmt.Errorf("%w: unknown cell symbol %q", ErrMalformedTerrain, b)
	}
}

// Grid terrain berbentuk row-major: Cells[row*Cols + col].
type Grid struct {
	Rows     int
	Cols     int
	Cells    []Kind
	Diagonal bool
}

type Option func(*Grid)

func WithDiagonal(diagonal bool) Option {
	return func(g *Grid) {
		g.Diagonal = diagonal
	}
}

// New grid rows x cols yang semua cell nya Open.
func New(rows, cols int, opts ...Option) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrMalformedTerrain, rows, cols)
	}
	g := &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Kind, rows*cols),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Grid) InBounds(c datastructure.GridCoordinate) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// At kind dari cell c. Cell di luar grid dianggap Blocked.
func (g *Grid) At(c datastructure.GridCoordinate) Kind {
	if !g.InBounds(c) {
		return Blocked
	}
	return g.Cells[c.Row*g.Cols+c.Col]
}

func (g *Grid) Set(c datastructure.GridCoordinate, k Kind) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	g.Cells[c.Row*g.Cols+c.Col] = k
	return nil
}

func (g *Grid) Passable(c datastructure.GridCoordinate) bool {
	return g.At(c).Passable()
}

func (g *Grid) Bounds() (rows, cols int) {
	return g.Rows, g.Cols
}

// AvailableNeighbors tetangga yang bisa dilewati, urutan: N, S, W, E lalu NW, NE, SW, SE.
func (g *Grid) AvailableNeighbors(c datastructure.GridCoordinate) []datastructure.GridCoordinate {
	neighbors := make([]datastructure.GridCoordinate, 0, 8)
	for _, d := range orthogonalDirections {
		if nb := c.Add(d); g.Passable(nb) {
			neighbors = append(neighbors, nb)
		}
	}
	if !g.Diagonal {
		return neighbors
	}
	for _, d := range diagonalDirections {
		if nb := c.Add(d); g.Passable(nb) {
			neighbors = append(neighbors, nb)
		}
	}
	return neighbors
}

// PassableCells semua cell yang bisa dilewati, urut row-major.
func (g *Grid) PassableCells() []datastructure.GridCoordinate {
	cells := make([]datastructure.GridCoordinate, 0, len(g.Cells))
	for i, k := range g.Cells {
		if k.Passable() {
			cells = append(cells, datastructure.NewGridCoordinate(i/g.Cols, i%g.Cols))
		}
	}
	return cells
}

func (g *Grid) Clone() *Grid {
	cells := make([]Kind, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Rows: g.Rows, Cols: g.Cols, Cells: cells, Diagonal: g.Diagonal}
}

// Lines render grid jadi baris-baris ASCII, kebalikan dari ParseASCII.
func (g *Grid) Lines() []string {
	lines := make([]string, g.Rows)
	for r := 0; r < g.Rows; r++ {
		var sb strings.Builder
		for c := 0; c < g.Cols; c++ {
			sb.WriteByte(g.Cells[r*g.Cols+c].Symbol())
		}
		lines[r] = sb.String()
	}
	return lines
}

func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}
