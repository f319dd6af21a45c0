// Package landing composes the page: the rain canvas underneath, the hero overlay on top
package landing

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/warmcontact/warm-contact/engine"
	"github.com/warmcontact/warm-contact/rain"
	"github.com/warmcontact/warm-contact/render"
)

// Settings carries the tuning the scene is built from
type Settings struct {
	Rain        rain.Options
	Style       render.CanvasStyle
	Background  render.RGB
	BubbleDelay time.Duration
}

// Scene implements engine.Scene over a tcell screen
// Viewport sizes arrive in pixels and are mapped to cells by the rain cell size
type Scene struct {
	screen     tcell.Screen
	clock      engine.Clock
	cellSize   int
	background render.RGB

	canvas  *render.Canvas
	field   *rain.Field
	overlay *Overlay
}

// NewScene wires the canvas, the rain field and the overlay
func NewScene(screen tcell.Screen, clock engine.Clock, rng rain.Source, s Settings) *Scene {
	cellSize := max(s.Rain.CellSize, 1)
	canvas := render.NewCanvas(0, 0, cellSize, s.Style)
	return &Scene{
		screen:     screen,
		clock:      clock,
		cellSize:   cellSize,
		background: s.Background,
		canvas:     canvas,
		field:      rain.NewField(canvas, rng, s.Rain),
		overlay:    NewOverlay(s.BubbleDelay),
	}
}

// Init sizes the canvas and the field, and schedules the bubble
func (s *Scene) Init(width, height int) {
	s.canvas.Resize(width/s.cellSize, height/s.cellSize)
	s.field.Initialize(width, height)
	s.overlay.Start(s.clock)
}

// Resize follows the viewport, the canvas is cleared like a resized raster
func (s *Scene) Resize(width, height int) {
	s.canvas.Resize(width/s.cellSize, height/s.cellSize)
	s.field.Resize(width, height)
}

// Tick advances the rain and presents one frame
func (s *Scene) Tick() {
	s.field.Tick()
	s.canvas.Blit(s.screen, s.background)
	s.overlay.Draw(s.screen)
	s.screen.Show()
}

// Release cancels the pending bubble timer
func (s *Scene) Release() {
	s.overlay.Stop()
}

// Overlay returns the page flags for input handling
func (s *Scene) Overlay() *Overlay {
	return s.overlay
}

// Field returns the rain simulation
func (s *Scene) Field() *rain.Field {
	return s.field
}
