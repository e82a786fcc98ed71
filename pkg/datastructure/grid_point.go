package datastructure

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
)

const (
	// NoPredecessor marks the start of an ancestry chain.
	NoPredecessor int32 = -1
	// UnvisitedScore is the g-score of a node that has not been reached yet.
	UnvisitedScore = math.MaxFloat64
	// HeuristicWeight scales the straight-line distance used as h-score.
	HeuristicWeight = 0.5
)

// GridCoordinate is a (row, col) cell of the terrain grid.
type GridCoordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewGridCoordinate(row, col int) GridCoordinate {
	return GridCoordinate{
		Row: row,
		Col: col,
	}
}

func (c GridCoordinate) Add(d GridCoordinate) GridCoordinate {
	return GridCoordinate{Row: c.Row + d.Row, Col: c.Col + d.Col}
}

func (c GridCoordinate) Sub(d GridCoordinate) GridCoordinate {
	return GridCoordinate{Row: c.Row - d.Row, Col: c.Col - d.Col}
}

// IsOrthogonalTo true kalau c dan o ada di row atau col yang sama.
func (c GridCoordinate) IsOrthogonalTo(o GridCoordinate) bool {
	return c.Row == o.Row || c.Col == o.Col
}

// Distance euclidean distance antar cell.
func (c GridCoordinate) Distance(o GridCoordinate) float64 {
	return c.point().Sub(o.point()).Norm()
}

func (c GridCoordinate) point() r2.Point {
	return r2.Point{X: float64(c.Col), Y: float64(c.Row)}
}

func (c GridCoordinate) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

var ErrInvalidCoordinate = errors.New("invalid grid coordinate")

// ParseGridCoordinate kebalikan dari String: "row,col".
func ParseGridCoordinate(s string) (GridCoordinate, error) {
	rowStr, colStr, ok := strings.Cut(s, ",")
	if !ok {
		return GridCoordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return GridCoordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return GridCoordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return NewGridCoordinate(row, col), nil
}

// SearchNode is one discovery of a cell during a single search. Predecessor is an
// index into the solver's node arena, never a pointer.
type SearchNode struct {
	Coordinate     GridCoordinate `json:"coordinate"`
	Predecessor    int32          `json:"-"`
	GScore         float64        `json:"g_score"`
	HScore         float64        `json:"h_score"`
	IsStraightLine bool           `json:"is_straight_line"`
	IsOnFinalPath  bool           `json:"is_on_final_path"`
}

func NewSearchNode(c GridCoordinate) SearchNode {
	return SearchNode{
		Coordinate:  c,
		Predecessor: NoPredecessor,
		GScore:      UnvisitedScore,
	}
}

// FScore g + h, dihitung ulang setiap kali dipanggil.
func (n SearchNode) FScore() float64 {
	return n.GScore + n.HScore
}

func (n SearchNode) HasPredecessor() bool {
	return n.Predecessor != NoPredecessor
}

// Heuristic estimasi cost dari cell from ke goal.
func Heuristic(from, goal GridCoordinate) float64 {
	return HeuristicWeight * from.Distance(goal)
}

// IsStraightLine reports whether p lies midway between prev and next on a straight line.
func IsStraightLine(prev, p, next GridCoordinate) bool {
	return 2*p.Row == prev.Row+next.Row && 2*p.Col == prev.Col+next.Col
}
