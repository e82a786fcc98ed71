package terrain_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lintang/gridrouter/pkg/datastructure"
	"lintang/gridrouter/pkg/terrain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(row, col int) datastructure.GridCoordinate {
	return datastructure.NewGridCoordinate(row, col)
}

func TestParseASCII(t *testing.T) {
	t.Run("valid terrain", func(t *testing.T) {
		g, err := terrain.ParseASCII(strings.NewReader(`
..#
~=.
`))
		require.NoError(t, err)

		rows, cols := g.Bounds()
		assert.Equal(t, 2, rows)
		assert.Equal(t, 3, cols)
		assert.Equal(t, terrain.Blocked, g.At(c(0, 2)))
		assert.Equal(t, terrain.Water, g.At(c(1, 0)))
		assert.Equal(t, terrain.Track, g.At(c(1, 1)))
		assert.True(t, g.Passable(c(1, 1)))
		assert.False(t, g.Passable(c(1, 0)))
		assert.False(t, g.Passable(c(5, 5)))
		assert.Equal(t, "..#\n~=.", g.String())
	})

	t.Run("ragged rows", func(t *testing.T) {
		_, err := terrain.ParseASCII(strings.NewReader("...\n..\n"))
		assert.ErrorIs(t, err, terrain.ErrMalformedTerrain)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := terrain.ParseASCII(strings.NewReader(".x."))
		assert.ErrorIs(t, err, terrain.ErrMalformedTerrain)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := terrain.ParseASCII(strings.NewReader("\n\n"))
		assert.ErrorIs(t, err, terrain.ErrMalformedTerrain)
	})
}

func TestAvailableNeighbors(t *testing.T) {
	ascii := `
...
.#.
...`

	t.Run("four connected", func(t *testing.T) {
		g, err := terrain.ParseASCII(strings.NewReader(ascii))
		require.NoError(t, err)

		assert.Equal(t, []datastructure.GridCoordinate{c(1, 0), c(0, 1)}, g.AvailableNeighbors(c(0, 0)))
		assert.Equal(t, []datastructure.GridCoordinate{c(0, 1), c(2, 1), c(1, 0), c(1, 2)}, g.AvailableNeighbors(c(1, 1)))
	})

	t.Run("eight connected", func(t *testing.T) {
		g, err := terrain.ParseASCII(strings.NewReader(ascii), terrain.WithDiagonal(true))
		require.NoError(t, err)

		assert.Equal(t, []datastructure.GridCoordinate{c(1, 0), c(0, 1)}, g.AvailableNeighbors(c(0, 0)))
		assert.Equal(t, []datastructure.GridCoordinate{c(0, 1), c(2, 1), c(1, 0), c(1, 2),
			c(0, 0), c(0, 2), c(2, 0), c(2, 2)}, g.AvailableNeighbors(c(1, 1)))
	})

	t.Run("deterministic", func(t *testing.T) {
		g, err := terrain.ParseASCII(strings.NewReader(ascii), terrain.WithDiagonal(true))
		require.NoError(t, err)
		assert.Equal(t, g.AvailableNeighbors(c(2, 2)), g.AvailableNeighbors(c(2, 2)))
	})
}

func TestGridEditing(t *testing.T) {
	g, err := terrain.New(2, 2)
	require.NoError(t, err)

	require.NoError(t, g.Set(c(0, 1), terrain.Blocked))
	assert.ErrorIs(t, g.Set(c(2, 0), terrain.Blocked), terrain.ErrOutOfBounds)
	assert.Equal(t, []datastructure.GridCoordinate{c(0, 0), c(1, 0), c(1, 1)}, g.PassableCells())

	clone := g.Clone()
	require.NoError(t, clone.Set(c(0, 0), terrain.Water))
	assert.Equal(t, terrain.Open, g.At(c(0, 0)))

	_, err = terrain.New(0, 3)
	assert.ErrorIs(t, err, terrain.ErrMalformedTerrain)
}

func TestYAML(t *testing.T) {
	doc := `
name: harbour
diagonal: true
rows:
  - "..~"
  - "#.="
`
	name, g, err := terrain.LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "harbour", name)
	assert.True(t, g.Diagonal)
	assert.Equal(t, terrain.Track, g.At(c(1, 2)))

	var buf bytes.Buffer
	require.NoError(t, terrain.WriteYAML(&buf, name, g))
	name2, g2, err := terrain.LoadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, name, name2)
	assert.Equal(t, g, g2)

	_, _, err = terrain.LoadYAML(strings.NewReader("rows: [\"..\", \".\"]"))
	assert.ErrorIs(t, err, terrain.ErrMalformedTerrain)
}

func TestSnapper(t *testing.T) {
	g, err := terrain.ParseASCII(strings.NewReader(`
.....
~~~~~
~~~~~
~~~~~`))
	require.NoError(t, err)
	snapper := terrain.NewSnapper(g)

	got, err := snapper.Snap(c(3, 2))
	require.NoError(t, err)
	assert.Equal(t, c(0, 2), got)

	got, err = snapper.Snap(c(0, 4))
	require.NoError(t, err)
	assert.Equal(t, c(0, 4), got)

	walled, err := terrain.ParseASCII(strings.NewReader("###\n###"))
	require.NoError(t, err)
	_, err = terrain.NewSnapper(walled).Snap(c(0, 0))
	assert.ErrorIs(t, err, terrain.ErrNoPassableCell)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	asciiPath := filepath.Join(dir, "harbour.txt")
	require.NoError(t, os.WriteFile(asciiPath, []byte("..~\n#..\n"), 0o644))
	name, g, err := terrain.LoadFile(asciiPath, terrain.WithDiagonal(true))
	require.NoError(t, err)
	assert.Equal(t, "harbour", name)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 3, g.Cols)
	assert.True(t, g.Diagonal)

	yamlPath := filepath.Join(dir, "line.yaml")
	f, err := os.Create(yamlPath)
	require.NoError(t, err)
	require.NoError(t, terrain.WriteYAML(f, "metro", g))
	require.NoError(t, f.Close())

	name, loaded, err := terrain.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "metro", name)
	assert.Equal(t, g, loaded)

	badPath := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(badPath, []byte("..\n...\n"), 0o644))
	_, _, err = terrain.LoadFile(badPath)
	assert.ErrorIs(t, err, terrain.ErrMalformedTerrain)

	_, _, err = terrain.LoadFile(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
