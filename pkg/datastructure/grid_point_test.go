package datastructure_test

import (
	"math"
	"testing"

	"lintang/gridrouter/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridPoint(t *testing.T) {
	t.Run("new node has sentinel scores", func(t *testing.T) {
		n := datastructure.NewSearchNode(datastructure.NewGridCoordinate(1, 2))
		assert.Equal(t, datastructure.UnvisitedScore, n.GScore)
		assert.False(t, n.HasPredecessor())
		assert.False(t, n.IsOnFinalPath)
	})

	t.Run("f score is derived", func(t *testing.T) {
		n := datastructure.NewSearchNode(datastructure.NewGridCoordinate(0, 0))
		n.GScore = 3
		n.HScore = 1.25
		assert.Equal(t, 4.25, n.FScore())
		n.GScore = 1
		assert.Equal(t, 2.25, n.FScore())
	})

	t.Run("heuristic is half the euclidean distance", func(t *testing.T) {
		from := datastructure.NewGridCoordinate(0, 0)
		assert.Equal(t, 2.5, datastructure.Heuristic(from, datastructure.NewGridCoordinate(3, 4)))
		assert.InDelta(t, 0.5*math.Sqrt2, datastructure.Heuristic(from, datastructure.NewGridCoordinate(1, 1)), 1e-12)
		assert.Equal(t, 0.0, datastructure.Heuristic(from, from))
	})

	t.Run("straight line test", func(t *testing.T) {
		g := datastructure.NewGridCoordinate
		assert.True(t, datastructure.IsStraightLine(g(0, 0), g(0, 1), g(0, 2)))
		assert.True(t, datastructure.IsStraightLine(g(0, 0), g(1, 1), g(2, 2)))
		assert.True(t, datastructure.IsStraightLine(g(2, 0), g(1, 0), g(0, 0)))
		assert.False(t, datastructure.IsStraightLine(g(0, 0), g(0, 1), g(1, 1)))
		assert.False(t, datastructure.IsStraightLine(g(0, 0), g(1, 1), g(1, 2)))
	})

	t.Run("coordinate helpers", func(t *testing.T) {
		a := datastructure.NewGridCoordinate(2, 3)
		b := datastructure.NewGridCoordinate(2, 7)
		assert.True(t, a.IsOrthogonalTo(b))
		assert.False(t, a.IsOrthogonalTo(datastructure.NewGridCoordinate(3, 4)))
		assert.Equal(t, datastructure.NewGridCoordinate(0, -4), a.Sub(b))
		assert.Equal(t, b, a.Add(datastructure.NewGridCoordinate(0, 4)))
		assert.Equal(t, "2,3", a.String())
		assert.Equal(t, 4.0, a.Distance(b))
	})
}

func TestParseGridCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    datastructure.GridCoordinate
		wantErr bool
	}{
		{in: "3,4", want: datastructure.NewGridCoordinate(3, 4)},
		{in: " 10 , 0 ", want: datastructure.NewGridCoordinate(10, 0)},
		{in: "-1,2", want: datastructure.NewGridCoordinate(-1, 2)},
		{in: "3", wantErr: true},
		{in: "a,1", wantErr: true},
		{in: "1,b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := datastructure.ParseGridCoordinate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, datastructure.ErrInvalidCoordinate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) datastructure.GridCoordinate {
	t.Helper()
	c, err := datastructure.ParseGridCoordinate(s)
	require.NoError(t, err)
	return c
}
