package pathsolver

import (
	"lintang/gridrouter/pkg/datastructure"

	"golang.org/x/exp/slices"
)

// Snapshot copy state solver pada satu waktu, aman dibaca tanpa lock.
type Snapshot struct {
	Status    Status                         `json:"status"`
	Start     *datastructure.GridCoordinate  `json:"start,omitempty"`
	End       *datastructure.GridCoordinate  `json:"end,omitempty"`
	Open      []datastructure.GridCoordinate `json:"open"`
	Closed    []datastructure.GridCoordinate `json:"closed"`
	FinalPath []datastructure.SearchNode     `json:"final_path"`
	Steps     int                            `json:"steps"`
	Turns     int                            `json:"turns"`
	Cost      float64                        `json:"cost"`
}

// Snapshot returns copies of the open, closed and final-path sets. A cell reached from
// several headings appears once; cells are sorted by row then col. A cell that is closed
// for one heading but still open for another is reported only in Closed, so Open and
// Closed never share a cell.
func (s *PathSolver) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Status:    s.status,
		Open:      uniqueCells(s.openIdx, s.closed),
		Closed:    uniqueCells(s.closed, nil),
		FinalPath: s.finalPathCopy(),
		Steps:     s.steps,
		Turns:     s.turns,
		Cost:      s.cost,
	}
	if s.hasStart {
		start := s.start
		snap.Start = &start
	}
	if s.hasEnd {
		end := s.end
		snap.End = &end
	}
	return snap
}

// uniqueCells cell dari set, tanpa duplikat dan tanpa cell yang ada di exclude.
func uniqueCells(set, exclude map[searchKey]int32) []datastructure.GridCoordinate {
	seen := make(map[datastructure.GridCoordinate]struct{}, len(set))
	for k := range exclude {
		seen[k.Cell] = struct{}{}
	}
	cells := make([]datastructure.GridCoordinate, 0, len(set))
	for k := range set {
		if _, ok := seen[k.Cell]; ok {
			continue
		}
		seen[k.Cell] = struct{}{}
		cells = append(cells, k.Cell)
	}
	slices.SortFunc(cells, compareCells)
	return cells
}

func compareCells(a, b datastructure.GridCoordinate) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}
