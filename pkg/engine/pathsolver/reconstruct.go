package pathsolver

import (
	"lintang/gridrouter/pkg/datastructure"
	"lintang/gridrouter/pkg/util"
)

// reconstruct jalan mundur dari goal lewat predecessor sampai start. Sekalian tandai
// IsOnFinalPath, hitung ulang IsStraightLine tiap triple, dan hitung jumlah belokan.
func (s *PathSolver) reconstruct(goalIdx int32) {
	path := make([]int32, 0)
	turns := 0

	for idx := goalIdx; s.validIdx(idx); idx = s.nodes[idx].Predecessor {
		node := &s.nodes[idx]
		node.IsOnFinalPath = true
		node.IsStraightLine = false

		if pred := node.Predecessor; s.validIdx(pred) {
			if predPred := s.nodes[pred].Predecessor; s.validIdx(predPred) {
				node.IsStraightLine = datastructure.IsStraightLine(s.nodes[predPred].Coordinate,
					s.nodes[pred].Coordinate, node.Coordinate)
				if !node.IsStraightLine {
					turns++
				}
			}
		}
		path = append(path, idx)
		if len(path) > len(s.nodes) {
			// ancestry rusak (cycle), berhenti
			break
		}
	}

	util.ReverseG(path)
	s.finalPath = path
	s.turns = turns
	s.cost = s.nodes[goalIdx].GScore
}

// validIdx predecessor yang tidak ada / di luar arena dianggap akhir chain.
func (s *PathSolver) validIdx(idx int32) bool {
	return idx >= 0 && int(idx) < len(s.nodes)
}

// FinalPath copy node-node di final path, urut dari start ke goal. Kosong sebelum SolutionFound.
func (s *PathSolver) FinalPath() []datastructure.SearchNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalPathCopy()
}

func (s *PathSolver) finalPathCopy() []datastructure.SearchNode {
	path := make([]datastructure.SearchNode, 0, len(s.finalPath))
	if s.status != SolutionFound {
		return path
	}
	for _, idx := range s.finalPath {
		path = append(path, s.nodes[idx])
	}
	return path
}
