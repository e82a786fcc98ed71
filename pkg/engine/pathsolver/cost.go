package pathsolver

import (
	"lintang/gridrouter/pkg/datastructure"
)

const (
	OrthogonalMoveCost = 1.0
	// DiagonalMoveCost sengaja 1.5 bukan sqrt(2), biar path gak zig-zag diagonal.
	DiagonalMoveCost = 1.5
	// TurnPenalty jauh lebih besar dari move cost, rute lurus panjang lebih disukai.
	TurnPenalty = 5.0
)

// CostModel menentukan cost satu langkah antar cell yang bertetangga.
type CostModel struct {
	Orthogonal float64 `json:"orthogonal"`
	Diagonal   float64 `json:"diagonal"`
	Turn       float64 `json:"turn"`
}

func DefaultCostModel() CostModel {
	return CostModel{
		Orthogonal: OrthogonalMoveCost,
		Diagonal:   DiagonalMoveCost,
		Turn:       TurnPenalty,
	}
}

// MovementCost cost perpindahan dari -> to tanpa memperhitungkan belokan.
func (m CostModel) MovementCost(from, to datastructure.GridCoordinate) float64 {
	if from.IsOrthogonalTo(to) {
		return m.Orthogonal
	}
	return m.Diagonal
}

// TurnCost penalty kalau prev, current, next tidak segaris. Tanpa prev (awal path) bukan belokan.
func (m CostModel) TurnCost(prev *datastructure.GridCoordinate, current, next datastructure.GridCoordinate) float64 {
	if prev == nil {
		return 0
	}
	if datastructure.IsStraightLine(*prev, current, next) {
		return 0
	}
	return m.Turn
}

func (m CostModel) StepCost(prev *datastructure.GridCoordinate, current, next datastructure.GridCoordinate) float64 {
	return m.MovementCost(current, next) + m.TurnCost(prev, current, next)
}
