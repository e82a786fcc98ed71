package guidance_test

import (
	"testing"

	"lintang/gridrouter/pkg/datastructure"
	"lintang/gridrouter/pkg/guidance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(row, col int) datastructure.GridCoordinate {
	return datastructure.NewGridCoordinate(row, col)
}

func pathOf(cells ...datastructure.GridCoordinate) []datastructure.SearchNode {
	path := make([]datastructure.SearchNode, len(cells))
	for i, cell := range cells {
		path[i] = datastructure.NewSearchNode(cell)
	}
	return path
}

func TestGetTurnSign(t *testing.T) {
	north, south := c(-1, 0), c(1, 0)
	east, west := c(0, 1), c(0, -1)

	tests := []struct {
		name       string
		prev, next datastructure.GridCoordinate
		want       int
	}{
		{"continue", east, east, guidance.CONTINUE_ON_LINE},
		{"north to east", north, east, guidance.TURN_RIGHT},
		{"north to west", north, west, guidance.TURN_LEFT},
		{"south to east", south, east, guidance.TURN_LEFT},
		{"east to south east", east, c(1, 1), guidance.TURN_SLIGHT_RIGHT},
		{"east to north east", east, c(-1, 1), guidance.TURN_SLIGHT_LEFT},
		{"east to south west", east, c(1, -1), guidance.TURN_SHARP_RIGHT},
		{"east to north west", east, c(-1, -1), guidance.TURN_SHARP_LEFT},
		{"reverse", east, west, guidance.U_TURN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guidance.GetTurnSign(tt.prev, tt.next))
		})
	}
}

func TestInstructions(t *testing.T) {
	t.Run("one turn", func(t *testing.T) {
		path := pathOf(c(0, 0), c(1, 0), c(2, 0), c(3, 0), c(4, 0), c(4, 1), c(4, 2), c(4, 3), c(4, 4))
		ins := guidance.Instructions(path)

		require.Len(t, ins, 3)
		assert.Equal(t, guidance.START, ins[0].Sign)
		assert.Equal(t, "Head South", ins[0].Description)
		assert.Equal(t, 4, ins[0].Cells)

		assert.Equal(t, guidance.TURN_LEFT, ins[1].Sign)
		assert.Equal(t, c(4, 0), ins[1].Point)
		assert.Equal(t, "Turn left heading East", ins[1].Description)
		assert.Equal(t, 4, ins[1].Cells)

		assert.Equal(t, guidance.FINISH, ins[2].Sign)
		assert.Equal(t, c(4, 4), ins[2].Point)
	})

	t.Run("straight diagonal", func(t *testing.T) {
		ins := guidance.Instructions(pathOf(c(4, 0), c(3, 1), c(2, 2)))
		require.Len(t, ins, 2)
		assert.Equal(t, "Head North East", ins[0].Description)
		assert.Equal(t, 2, ins[0].Cells)
	})

	t.Run("single node and empty path", func(t *testing.T) {
		ins := guidance.Instructions(pathOf(c(1, 1)))
		require.Len(t, ins, 1)
		assert.Equal(t, guidance.FINISH, ins[0].Sign)
		assert.Empty(t, guidance.Instructions(nil))
	})
}

func TestEncodePath(t *testing.T) {
	tests := []struct {
		name  string
		cells []datastructure.GridCoordinate
	}{
		{"diagonal then east", []datastructure.GridCoordinate{c(0, 0), c(1, 1), c(2, 2), c(2, 3)}},
		{"single cell", []datastructure.GridCoordinate{c(7, 3)}},
		{"large grid", []datastructure.GridCoordinate{c(1200, 40), c(1200, 41), c(1199, 41), c(0, 2047)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := guidance.EncodePath(pathOf(tt.cells...))
			assert.NotEmpty(t, encoded)

			decoded, err := guidance.DecodePath(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.cells, decoded)
		})
	}

	t.Run("invalid polyline", func(t *testing.T) {
		_, err := guidance.DecodePath("\x01")
		assert.Error(t, err)
	})
}
