package terrain

import (
	"errors"

	"lintang/gridrouter/pkg/datastructure"

	"github.com/dhconnelly/rtreego"
)

var ErrNoPassableCell = errors.New("terrain has no passable cell")

var tol = 0.01

type cellRect struct {
	Location rtreego.Point
	Cell     datastructure.GridCoordinate
}

func (s *cellRect) Bounds() rtreego.Rect {
	// rectangle centered at s.Location with side lengths 2 * tol
	return s.Location.ToRect(tol)
}

// Snapper cari cell passable terdekat untuk titik start/end yang jatuh di cell yang tidak
// bisa dilewati (misal di tengah air).
type Snapper struct {
	grid  *Grid
	rtree *rtreego.Rtree
}

func NewSnapper(g *Grid) *Snapper {
	rt := rtreego.NewTree(2, 25, 50) // 2 dimension, 25 min entries dan 50 max entries
	for _, c := range g.PassableCells() {
		rt.Insert(&cellRect{
			Location: rtreego.Point{float64(c.Row), float64(c.Col)},
			Cell:     c,
		})
	}
	return &Snapper{grid: g, rtree: rt}
}

// Snap returns c itself when it is passable, otherwise the nearest passable cell.
func (s *Snapper) Snap(c datastructure.GridCoordinate) (datastructure.GridCoordinate, error) {
	if s.grid.Passable(c) {
		return c, nil
	}
	if s.rtree.Size() == 0 {
		return c, ErrNoPassableCell
	}
	nearest := s.rtree.NearestNeighbor(rtreego.Point{float64(c.Row), float64(c.Col)})
	if nearest == nil {
		return c, ErrNoPassableCell
	}
	return nearest.(*cellRect).Cell, nil
}
