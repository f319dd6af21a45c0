package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

const baselineEpsilon = 1e-9

// Cell is one glyph slot of the canvas
type Cell struct {
	Rune rune
	Fg   RGB
}

// Canvas is a persistent cell raster addressed in pixel coordinates
// Each terminal cell covers cellSize x cellSize pixels
// Implements rain.Surface
type Canvas struct {
	cells    []Cell
	width    int
	height   int
	cellSize float64

	glyph     RGB
	fadeColor RGB
	fadeAlpha float64
	fadeFloor uint8
}

// CanvasStyle sets the colors of the rain and its trail fill
type CanvasStyle struct {
	Glyph     RGB
	FadeColor RGB
	FadeAlpha float64
	FadeFloor uint8
}

// NewCanvas creates a canvas of width x height cells
func NewCanvas(width, height, cellSize int, style CanvasStyle) *Canvas {
	c := &Canvas{
		cellSize:  float64(max(cellSize, 1)),
		glyph:     style.Glyph,
		fadeColor: style.FadeColor,
		fadeAlpha: style.FadeAlpha,
		fadeFloor: style.FadeFloor,
	}
	c.Resize(width, height)
	return c
}

// Resize adjusts dimensions in cells, reallocates only if capacity insufficient
// Content is cleared, matching a canvas whose backing size changed
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(c.cells) < size {
		c.cells = make([]Cell, size)
	} else {
		c.cells = c.cells[:size]
	}
	c.width = width
	c.height = height
	c.Clear()
}

// Clear resets all cells to empty using exponential copy
func (c *Canvas) Clear() {
	if len(c.cells) == 0 {
		return
	}
	c.cells[0] = Cell{}
	for filled := 1; filled < len(c.cells); filled *= 2 {
		copy(c.cells[filled:], c.cells[:filled])
	}
}

// Size returns dimensions in cells
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Get returns the cell at column x, row y; out of bounds yields an empty cell
func (c *Canvas) Get(x, y int) Cell {
	if !c.inBounds(x, y) {
		return Cell{}
	}
	return c.cells[y*c.width+x]
}

// inBounds returns true if in canvas bounds
func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// ===== SURFACE API =====

// Fade blends every glyph toward the fade color, clearing those that fall under the floor
func (c *Canvas) Fade() {
	for i := range c.cells {
		cell := &c.cells[i]
		if cell.Rune == 0 {
			continue
		}
		cell.Fg = Blend(cell.Fg, c.fadeColor, c.fadeAlpha)
		if cell.Fg.Brightness() < c.fadeFloor {
			*cell = Cell{}
		}
	}
}

// DrawGlyph paints r with its baseline at pixel (x, y)
// A baseline at y covers the row ending at y: row = ceil(y/cell) - 1
// Accumulated float error just above a row boundary still maps to the row it ends
func (c *Canvas) DrawGlyph(x, y float64, r rune) {
	col := int(math.Floor(x / c.cellSize))
	row := int(math.Ceil(y/c.cellSize-baselineEpsilon)) - 1
	if !c.inBounds(col, row) {
		return
	}
	c.cells[row*c.width+col] = Cell{Rune: r, Fg: c.glyph}
}

// ===== OUTPUT =====

// Blit writes every cell to the screen over the given background
func (c *Canvas) Blit(screen tcell.Screen, bg RGB) {
	base := tcell.StyleDefault.Background(bg.Tcell())
	for y := 0; y < c.height; y++ {
		row := c.cells[y*c.width : (y+1)*c.width]
		for x, cell := range row {
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			screen.SetContent(x, y, r, nil, base.Foreground(cell.Fg.Tcell()))
		}
	}
}
