package kv

import (
	"fmt"

	"lintang/gridrouter/pkg/datastructure"
	"lintang/gridrouter/pkg/terrain"
)

type TerrainRecord struct {
	Name     string
	Rows     int
	Cols     int
	Diagonal bool
	Cells    []byte
}

func NewTerrainRecord(name string, g *terrain.Grid) TerrainRecord {
	cells := make([]byte, len(g.Cells))
	for i, k := range g.Cells {
		cells[i] = byte(k)
	}
	return TerrainRecord{Name: name, Rows: g.Rows, Cols: g.Cols, Diagonal: g.Diagonal, Cells: cells}
}

func (r TerrainRecord) ToGrid() (*terrain.Grid, error) {
	g, err := terrain.New(r.Rows, r.Cols, terrain.WithDiagonal(r.Diagonal))
	if err != nil {
		return nil, err
	}
	if len(r.Cells) != len(g.Cells) {
		return nil, fmt.Errorf("%w: stored %d cells for %dx%d", terrain.ErrMalformedTerrain, len(r.Cells), r.Rows, r.Cols)
	}
	for i, b := range r.Cells {
		g.Cells[i] = terrain.Kind(b)
	}
	return g, nil
}

// RouteRecord hasil solve yang disimpan.
type RouteRecord struct {
	Terrain  string                         `json:"terrain"`
	Start    datastructure.GridCoordinate   `json:"start"`
	End      datastructure.GridCoordinate   `json:"end"`
	Path     []datastructure.GridCoordinate `json:"path"`
	Cost     float64                        `json:"cost"`
	Turns    int                            `json:"turns"`
	Steps    int                            `json:"steps"`
	Polyline string                         `json:"polyline"`
}

func terrainKey(name string) []byte {
	return []byte("terrain:" + name)
}

func routeKey(terrainName string, start, end datastructure.GridCoordinate) []byte {
	return []byte(fmt.Sprintf("route:%s:%s:%s", terrainName, start, end))
}

var terrainIndexKey = []byte("index:terrains")
