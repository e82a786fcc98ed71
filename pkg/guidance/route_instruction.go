package guidance

import (
	"math"

	"lintang/gridrouter/pkg/datastructure"

	"github.com/twpayne/go-polyline"
)

// Instructions turn-by-turn dari final path (start -> goal). Satu START, satu instruksi untuk
// setiap node yang tidak segaris dengan tetangganya, lalu FINISH.
func Instructions(path []datastructure.SearchNode) []Instruction {
	if len(path) == 0 {
		return []Instruction{}
	}
	if len(path) == 1 {
		return []Instruction{NewInstruction(FINISH, path[0].Coordinate, "")}
	}

	instructions := make([]Instruction, 0)
	heading := path[1].Coordinate.Sub(path[0].Coordinate)
	current := NewInstruction(START, path[0].Coordinate, azimuthToCompass(azimuth(heading)))

	for i := 1; i < len(path)-1; i++ {
		current.Cells++
		prev, p, next := path[i-1].Coordinate, path[i].Coordinate, path[i+1].Coordinate
		if datastructure.IsStraightLine(prev, p, next) {
			continue
		}
		instructions = append(instructions, current)

		newHeading := next.Sub(p)
		current = NewInstruction(GetTurnSign(heading, newHeading), p, azimuthToCompass(azimuth(newHeading)))
		heading = newHeading
	}
	current.Cells++
	instructions = append(instructions, current)
	instructions = append(instructions, NewInstruction(FINISH, path[len(path)-1].Coordinate, ""))
	return instructions
}

// EncodePath encode path jadi polyline string dari pasangan (row, col).
func EncodePath(path []datastructure.SearchNode) string {
	coords := make([][]float64, 0, len(path))
	for _, n := range path {
		coords = append(coords, []float64{float64(n.Coordinate.Row), float64(n.Coordinate.Col)})
	}
	return string(polyline.EncodeCoords(coords))
}

func DecodePath(encoded string) ([]datastructure.GridCoordinate, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	cells := make([]datastructure.GridCoordinate, 0, len(coords))
	for _, c := range coords {
		cells = append(cells, datastructure.NewGridCoordinate(int(math.Round(c[0])), int(math.Round(c[1]))))
	}
	return cells, nil
}
