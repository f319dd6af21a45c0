package constant

import "time"

// Rain simulation defaults
const (
	// CellSize is the glyph cell edge in pixels, one terminal cell per cell
	CellSize = 10

	// TickInterval is the fixed period between simulation ticks
	TickInterval = 100 * time.Millisecond

	// DrawChance is the per-column probability of painting a glyph in a tick
	DrawChance = 0.3

	// ResetThreshold gates the restart of an out-of-bounds column, draw must exceed it
	ResetThreshold = 0.975

	// FallIncrement is the per-tick fall in glyph-cell units
	FallIncrement = 0.7

	// StartPosition is the fall-position of a fresh or restarted column
	StartPosition = 1.0

	// Alphabet is the glyph set eligible for the rain
	Alphabet = "Love❤️contact"
)

// Compositing defaults
const (
	// GlyphColor is the rain foreground
	GlyphColor = "#0F0"

	// FadeColor is the overlay filled over the whole viewport each tick
	FadeColor = "#000"

	// FadeAlpha is the overlay opacity, low values leave long trails
	FadeAlpha = 0.05

	// FadeFloor is the brightest channel value under which a faded glyph is cleared
	FadeFloor = 8
)

// Landing overlay defaults
const (
	// BubbleDelay is the wait before the mascot speech bubble appears
	BubbleDelay = 1 * time.Second

	// ResetSoundCooldown limits drip tones to one per window
	ResetSoundCooldown = 250 * time.Millisecond
)
