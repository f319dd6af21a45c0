// Package rain simulates the falling-glyph background: a row of columns, each holding
// one fall-position, advanced once per tick and painted onto a Surface.
package rain

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/warmcontact/warm-contact/constant"
)

// Surface receives the paint operations of a tick, coordinates are in pixels
type Surface interface {
	// Fade overlays the whole viewport with the low-opacity trail fill
	Fade()
	// DrawGlyph paints r with its baseline at (x, y)
	DrawGlyph(x, y float64, r rune)
}

// Source is the random source consumed by the simulation
// *math/rand/v2.Rand satisfies it
type Source interface {
	Float64() float64
	IntN(n int) int
}

// ResizePolicy selects how the column set follows a viewport resize
type ResizePolicy uint8

const (
	// ResizeReallocate recomputes the column count, surviving columns keep their position
	ResizeReallocate ResizePolicy = iota
	// ResizeKeepStale updates the dimensions only, the column count stays as initialized
	ResizeKeepStale
)

// String returns the policy name used by configuration
func (p ResizePolicy) String() string {
	switch p {
	case ResizeReallocate:
		return "reallocate"
	case ResizeKeepStale:
		return "keep"
	default:
		return "unknown"
	}
}

// Options tunes a Field
type Options struct {
	CellSize       int
	DrawChance     float64
	ResetThreshold float64
	Increment      float64
	Alphabet       string
	ResizePolicy   ResizePolicy

	// OnReset is called with the column index each time a column restarts at the top
	OnReset func(column int)
}

// DefaultOptions returns the stock rain tuning
func DefaultOptions() Options {
	return Options{
		CellSize:       constant.CellSize,
		DrawChance:     constant.DrawChance,
		ResetThreshold: constant.ResetThreshold,
		Increment:      constant.FallIncrement,
		Alphabet:       constant.Alphabet,
		ResizePolicy:   ResizeReallocate,
	}
}

// Field owns the viewport dimensions, the column set and the collaborators of the simulation
type Field struct {
	surface Surface
	rng     Source

	cellSize       float64
	drawChance     float64
	resetThreshold float64
	increment      float64
	alphabet       []rune
	policy         ResizePolicy
	onReset        func(column int)

	width, height int
	drops         []float64
}

// NewField creates an uninitialized field; call Initialize before the first Tick
// A cell size below 1 falls back to the default
func NewField(surface Surface, rng Source, opts Options) *Field {
	cellSize := opts.CellSize
	if cellSize < 1 {
		cellSize = constant.CellSize
	}
	return &Field{
		surface:        surface,
		rng:            rng,
		cellSize:       float64(cellSize),
		drawChance:     opts.DrawChance,
		resetThreshold: opts.ResetThreshold,
		increment:      opts.Increment,
		alphabet:       printable(opts.Alphabet),
		policy:         opts.ResizePolicy,
		onReset:        opts.OnReset,
	}
}

// printable keeps the base rune of every grapheme cluster that occupies a terminal cell
// Trailing variation selectors and combining marks cannot be drawn in a cell of their own
func printable(s string) []rune {
	out := make([]rune, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		r := []rune(cluster)[0]
		if runewidth.RuneWidth(r) == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// columnCount returns floor(width / cellSize), never negative
func (f *Field) columnCount(width int) int {
	if width <= 0 {
		return 0
	}
	return int(float64(width) / f.cellSize)
}

// Initialize sets the viewport size and allocates one column per cell at the start position
func (f *Field) Initialize(width, height int) {
	f.width, f.height = width, height
	n := f.columnCount(width)
	f.drops = make([]float64, n)
	for i := range f.drops {
		f.drops[i] = constant.StartPosition
	}
}

// Resize updates the viewport size and applies the resize policy to the column set
func (f *Field) Resize(width, height int) {
	f.width, f.height = width, height
	n := f.columnCount(width)
	if n == 0 {
		f.drops = f.drops[:0]
		return
	}
	if f.policy == ResizeKeepStale {
		return
	}

	if n == len(f.drops) {
		return
	}
	if n < len(f.drops) {
		f.drops = f.drops[:n]
		return
	}
	old := len(f.drops)
	if cap(f.drops) >= n {
		f.drops = f.drops[:n]
	} else {
		grown := make([]float64, n)
		copy(grown, f.drops)
		f.drops = grown
	}
	for i := old; i < n; i++ {
		f.drops[i] = constant.StartPosition
	}
}

// Tick advances every column once and paints the frame
// A field with no columns touches neither the surface nor the random source
func (f *Field) Tick() {
	if len(f.drops) == 0 {
		return
	}

	f.surface.Fade()

	height := float64(f.height)
	for i := range f.drops {
		y := f.drops[i] * f.cellSize

		if len(f.alphabet) > 0 && f.rng.Float64() < f.drawChance {
			r := f.alphabet[f.rng.IntN(len(f.alphabet))]
			f.surface.DrawGlyph(float64(i)*f.cellSize, y, r)
		}

		if y > height && f.rng.Float64() > f.resetThreshold {
			f.drops[i] = constant.StartPosition
			if f.onReset != nil {
				f.onReset(i)
			}
			continue
		}

		f.drops[i] += f.increment
	}
}

// Columns returns the current column count
func (f *Field) Columns() int {
	return len(f.drops)
}

// Position returns the fall-position of column i
func (f *Field) Position(i int) float64 {
	return f.drops[i]
}

// Size returns the viewport dimensions last applied
func (f *Field) Size() (width, height int) {
	return f.width, f.height
}

// Alphabet returns a copy of the glyphs the field draws from
func (f *Field) Alphabet() []rune {
	out := make([]rune, len(f.alphabet))
	copy(out, f.alphabet)
	return out
}
