package environment

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// DefaultGridSize is the default width and height.
const DefaultGridSize = 5

// Cell is the content of one grid square.
type Cell int

const (
	CellEmpty Cell = iota
	CellWall
	CellIntruder
	CellGuardian
)

// Grid is a width x height map of the dungeon.
type Grid struct {
	mu     sync.RWMutex
	width  int
	height int
	cells  [][]Cell
}

// NewGrid creates an empty grid. Non-positive sizes fall back to the default.
func NewGrid(width, height int) *Grid {
	if width <= 0 {
		width = DefaultGridSize
	}
	if height <= 0 {
		height = DefaultGridSize
	}
	g := &Grid{width: width, height: height}
	g.cells = g.blank()
	return g
}

func (g *Grid) blank() [][]Cell {
	cells := make([][]Cell, g.height)
	for y := range cells {
		cells[y] = make([]Cell, g.width)
	}
	return cells
}

// Size returns the grid width and height.
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// Set places c at (x, y).
func (g *Grid) Set(x, y int, c Cell) error {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return fmt.Errorf("cell (%d,%d) outside %dx%d grid", x, y, g.width, g.height)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells[y][x] = c
	return nil
}

// At returns the cell at (x, y), or CellEmpty outside the grid.
func (g *Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return CellEmpty
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cells[y][x]
}

// Reset empties every cell.
func (g *Grid) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells = g.blank()
}

// Render writes one line per row with cells separated by spaces.
func (g *Grid) Render(w io.Writer) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var b strings.Builder
	for _, row := range g.cells {
		for x, c := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(int(c)))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
