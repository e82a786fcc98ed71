// Package pathsolver is an incremental A* search over a terrain grid. A search is advanced
// one expansion at a time with Step, or in wall-clock slices with Solve, so that it can be
// driven from an event loop and inspected between slices.
package pathsolver

import (
	"context"
	"errors"
	"sync"
	"time"

	"lintang/gridrouter/pkg/datastructure"
)

// Terrain menyediakan tetangga yang bisa dilewati dari sebuah cell.
type Terrain interface {
	// AvailableNeighbors harus deterministik untuk snapshot terrain yang sama.
	AvailableNeighbors(c datastructure.GridCoordinate) []datastructure.GridCoordinate
	// Bounds jumlah row & col, hanya dipakai untuk render.
	Bounds() (rows, cols int)
}

// searchKey state pencarian: cell + arah datang. Turn penalty bergantung arah datang,
// jadi dua kedatangan dengan arah berbeda di cell yang sama adalah state berbeda.
type searchKey struct {
	Cell    datastructure.GridCoordinate
	Heading datastructure.GridCoordinate
}

type Option func(*PathSolver)

func WithCostModel(m CostModel) Option {
	return func(s *PathSolver) {
		s.costModel = m
	}
}

// PathSolver owns one search. All mutation happens under mu; readers get copies.
type PathSolver struct {
	mu        sync.RWMutex
	terrain   Terrain
	costModel CostModel

	start, end       datastructure.GridCoordinate
	hasStart, hasEnd bool

	nodes     []datastructure.SearchNode // arena, index = urutan discovery
	open      *MinHeap[searchKey]
	openIdx   map[searchKey]int32
	closed    map[searchKey]int32
	finalPath []int32 // start -> goal

	status  Status
	started bool
	steps   int
	turns   int
	cost    float64
}

func NewPathSolver(terrain Terrain, opts ...Option) *PathSolver {
	s := &PathSolver{
		terrain:   terrain,
		costModel: DefaultCostModel(),
		open:      NewMinHeap[searchKey](),
		openIdx:   make(map[searchKey]int32),
		closed:    make(map[searchKey]int32),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	return s
}

func (s *PathSolver) SetStart(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrSearchInProgress
	}
	s.start = datastructure.NewGridCoordinate(row, col)
	s.hasStart = true
	s.seed()
	return nil
}

func (s *PathSolver) SetEnd(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrSearchInProgress
	}
	s.end = datastructure.NewGridCoordinate(row, col)
	s.hasEnd = true
	s.seed()
	return nil
}

// Reset buang semua progress pencarian, start & end tetap.
func (s *PathSolver) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed()
}

// FullReset seperti Reset, tapi start & end juga dihapus.
func (s *PathSolver) FullReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasStart, s.hasEnd = false, false
	s.start, s.end = datastructure.GridCoordinate{}, datastructure.GridCoordinate{}
	s.seed()
}

func (s *PathSolver) IsConfigured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configured()
}

func (s *PathSolver) configured() bool {
	return s.hasStart && s.hasEnd
}

// seed kosongkan open/closed/final path lalu masukkan start node ke open set.
func (s *PathSolver) seed() {
	s.nodes = s.nodes[:0]
	s.open.Clear()
	s.openIdx = make(map[searchKey]int32)
	s.closed = make(map[searchKey]int32)
	s.finalPath = nil
	s.started = false
	s.steps, s.turns, s.cost = 0, 0, 0

	if !s.configured() {
		s.status = NotConfigured
		return
	}
	s.status = StillComputing

	startNode := datastructure.NewSearchNode(s.start)
	startNode.GScore = 0
	startNode.HScore = datastructure.Heuristic(s.start, s.end)
	idx := s.appendNode(startNode)
	key := searchKey{Cell: s.start}
	s.openIdx[key] = idx
	s.open.Insert(PriorityQueueNode[searchKey]{Rank: startNode.FScore(), Item: key})
}

func (s *PathSolver) appendNode(n datastructure.SearchNode) int32 {
	s.nodes = append(s.nodes, n)
	return int32(len(s.nodes) - 1)
}

func (s *PathSolver) keyOf(idx int32) searchKey {
	n := s.nodes[idx]
	if !n.HasPredecessor() {
		return searchKey{Cell: n.Coordinate}
	}
	return searchKey{Cell: n.Coordinate, Heading: n.Coordinate.Sub(s.nodes[n.Predecessor].Coordinate)}
}

// Step does exactly one expansion.
func (s *PathSolver) Step() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step()
}

func (s *PathSolver) step() Status {
	if s.status == SolutionFound {
		return SolutionFound
	}
	if !s.configured() {
		s.status = NotConfigured
		return NotConfigured
	}
	s.started = true
	if s.open.Size() == 0 {
		s.status = NoSolution
		return NoSolution
	}

	top, _ := s.open.ExtractMin()
	currIdx := s.openIdx[top.Item]
	delete(s.openIdx, top.Item)
	s.steps++

	current := s.nodes[currIdx]
	if current.Coordinate == s.end {
		s.status = SolutionFound
		s.reconstruct(currIdx)
		return SolutionFound
	}

	var prev *datastructure.GridCoordinate
	if current.HasPredecessor() {
		p := s.nodes[current.Predecessor].Coordinate
		prev = &p
	}

	for _, nb := range s.terrain.AvailableNeighbors(current.Coordinate) {
		key := searchKey{Cell: nb, Heading: nb.Sub(current.Coordinate)}
		if _, ok := s.closed[key]; ok {
			continue
		}

		hScore := datastructure.Heuristic(nb, s.end)
		gScore := current.GScore + s.costModel.StepCost(prev, current.Coordinate, nb)

		if openNodeIdx, inOpen := s.openIdx[key]; inOpen && gScore+hScore >= s.nodes[openNodeIdx].FScore() {
			continue
		}

		node := datastructure.NewSearchNode(nb)
		node.Predecessor = currIdx
		node.GScore = gScore
		node.HScore = hScore
		node.IsStraightLine = prev != nil && datastructure.IsStraightLine(*prev, current.Coordinate, nb)
		nodeIdx := s.appendNode(node)

		if s.pushOpen(PriorityQueueNode[searchKey]{Rank: node.FScore(), Item: key}) {
			s.openIdx[key] = nodeIdx
		}
	}

	s.closed[s.keyOf(currIdx)] = currIdx
	if s.open.Size() == 0 {
		s.status = NoSolution
		return NoSolution
	}
	return StillComputing
}

// pushOpen masukkan key ke open heap, atau turunkan rank nya kalau key sudah ada. False
// kalau rank baru tidak lebih kecil dari yang sudah di heap.
func (s *PathSolver) pushOpen(pqNode PriorityQueueNode[searchKey]) bool {
	if _, inOpen := s.openIdx[pqNode.Item]; !inOpen {
		s.open.Insert(pqNode)
		return true
	}
	// entry lama diganti node baru dengan g lebih kecil
	err := s.open.DecreaseKey(pqNode)
	if errors.Is(err, ErrKeyNotFound) {
		// openIdx dan heap tidak sinkron, key dimasukkan ulang
		s.open.Insert(pqNode)
		return true
	}
	return err == nil
}

// Solve menjalankan Step berulang kali sampai terminal state, maxDuration habis, atau ctx
// selesai. Waktu hanya dicek di antara step, minimal satu step selalu dijalankan.
// Lock diambil per step supaya reader (renderer) bisa membaca snapshot di sela-sela.
func (s *PathSolver) Solve(ctx context.Context, maxDuration time.Duration) Status {
	begin := time.Now()
	for {
		status := s.Step()
		if status != StillComputing {
			return status
		}
		if time.Since(begin) > maxDuration || ctx.Err() != nil {
			return status
		}
	}
}

func (s *PathSolver) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *PathSolver) Steps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps
}

// Cost total cost final path, 0 sebelum SolutionFound.
func (s *PathSolver) Cost() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cost
}

// TurnCount jumlah belokan di final path.
func (s *PathSolver) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turns
}

func (s *PathSolver) CostModel() CostModel {
	return s.costModel
}

func (s *PathSolver) Terrain() Terrain {
	return s.terrain
}
