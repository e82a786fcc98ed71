package terrain

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File format yaml untuk terrain.
//
//	name: solo
//	diagonal: true
//	rows:
//	  - "..#.."
//	  - "....."
type File struct {
	Name     string   `yaml:"name"`
	Diagonal bool     `yaml:"diagonal"`
	Rows     []string `yaml:"rows"`
}

// ParseASCII baca terrain dari baris-baris simbol ('.', '#', '~', '='). Baris kosong diabaikan.
func ParseASCII(r io.Reader, opts ...Option) (*Grid, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading terrain: %w", err)
	}
	return FromLines(lines, opts...)
}

func FromLines(lines []string, opts ...Option) (*Grid, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedTerrain)
	}
	cols := len(lines[0])
	g, err := New(len(lines), cols, opts...)
	if err != nil {
		return nil, err
	}
	for r, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedTerrain, r, len(line), cols)
		}
		for c := 0; c < cols; c++ {
			kind, err := KindFromSymbol(line[c])
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			g.Cells[r*cols+c] = kind
		}
	}
	return g, nil
}

// LoadYAML baca terrain File. Nama terrain dikembalikan terpisah.
func LoadYAML(r io.Reader) (string, *Grid, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedTerrain, err)
	}
	g, err := FromLines(f.Rows, WithDiagonal(f.Diagonal))
	if err != nil {
		return "", nil, err
	}
	return f.Name, g, nil
}

func WriteYAML(w io.Writer, name string, g *Grid) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(File{Name: name, Diagonal: g.Diagonal, Rows: g.Lines()})
}

// LoadFile baca terrain dari file .yaml/.yml, atau file ascii biasa. Untuk ascii nama
// terrain diambil dari nama file tanpa ekstensi.
func LoadFile(path string, opts ...Option) (string, *Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		name, g, err := LoadYAML(f)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", path, err)
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return name, g, nil
	}

	g, err := ParseASCII(f, opts...)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), g, nil
}
