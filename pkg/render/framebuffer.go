// Package render turns meshes into grids of glyphs: it rotates and lights
// each face, projects it orthographically and fills a depth-tested cell
// buffer that terminal and text writers consume.
package render

import (
	"math"
	"strings"
)

// Background is the glyph of an empty cell.
const Background = ' '

// Cell is one character position of the frame.
type Cell struct {
	Depth    float64 // Smaller is nearer; +Inf when empty
	Glyph    rune
	Material int // -1 for none
}

// EmptyCell returns the state every cell is reset to by Clear.
func EmptyCell() Cell {
	return Cell{Depth: math.Inf(1), Glyph: Background, Material: -1}
}

// Empty reports whether no surface has been drawn into the cell.
func (c Cell) Empty() bool {
	return math.IsInf(c.Depth, 1)
}

// Framebuffer is a fixed grid of cells addressed in logical units.
// Logical units correct for non-square character cells: a cell spans
// LogicalWidth/Width horizontally and LogicalHeight/Height vertically.
type Framebuffer struct {
	Width         int // Columns
	Height        int // Rows
	LogicalWidth  float64
	LogicalHeight float64
	Cells         []Cell // Row-major

	dx, dy float64
}

// NewFramebuffer creates a cleared framebuffer.
func NewFramebuffer(cols, rows int, logicalW, logicalH float64) *Framebuffer {
	cols, rows = max(cols, 1), max(rows, 1)
	fb := &Framebuffer{
		Width:         cols,
		Height:        rows,
		LogicalWidth:  logicalW,
		LogicalHeight: logicalH,
		Cells:         make([]Cell, cols*rows),
		dx:            logicalW / float64(cols),
		dy:            logicalH / float64(rows),
	}
	fb.Clear()
	return fb
}

// Clear resets every cell to EmptyCell.
func (fb *Framebuffer) Clear() {
	// Use copy-doubling for faster clearing
	n := len(fb.Cells)
	if n == 0 {
		return
	}
	fb.Cells[0] = EmptyCell()
	for i := 1; i < n; i *= 2 {
		copy(fb.Cells[i:], fb.Cells[:i])
	}
}

// CellSize returns the logical width and height of one cell.
func (fb *Framebuffer) CellSize() (dx, dy float64) {
	return fb.dx, fb.dy
}

// At returns the cell at column x, row y.
// Returns an empty cell if out of bounds.
func (fb *Framebuffer) At(x, y int) Cell {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return EmptyCell()
	}
	return fb.Cells[y*fb.Width+x]
}

// idxX maps a logical x coordinate to a column, clamped to the grid.
func (fb *Framebuffer) idxX(x float64) int {
	return clampIndex(x/fb.dx, fb.Width)
}

// idxY maps a logical y coordinate to a row, clamped to the grid.
func (fb *Framebuffer) idxY(y float64) int {
	return clampIndex(y/fb.dy, fb.Height)
}

func clampIndex(v float64, n int) int {
	f := math.Floor(v)
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > float64(n-1):
		return n - 1
	}
	return int(f)
}

// Row returns the glyphs of row y.
func (fb *Framebuffer) Row(y int) string {
	var sb strings.Builder
	sb.Grow(fb.Width)
	for x := range fb.Width {
		sb.WriteRune(fb.At(x, y).Glyph)
	}
	return sb.String()
}

// Coverage counts the cells holding a surface.
func (fb *Framebuffer) Coverage() int {
	n := 0
	for _, c := range fb.Cells {
		if !c.Empty() {
			n++
		}
	}
	return n
}
