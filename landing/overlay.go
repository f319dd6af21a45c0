package landing

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/warmcontact/warm-contact/engine"
	"github.com/warmcontact/warm-contact/render"
)

// Page copy drawn over the rain
const (
	Title      = "Тёплый контакт"
	Tagline    = "Бот, который продаёт с душой 🤖❤️"
	CallToAct  = "[Enter] Попробовать бесплатно"
	BubbleText = "Привет! Я помогу вам выбрать идеальный подарок 🎁"
	ModalTitle = "Заполните данные"
	ModalHint  = "[Esc] закрыть"
)

var modalFields = []string{"Ваше имя", "Телефон или Telegram"}

// Overlay colors
var (
	rgbTitle  = render.RGB{R: 249, G: 115, B: 22}  // Orange 500
	rgbText   = render.RGB{R: 229, G: 231, B: 235} // Gray 200
	rgbBubble = render.RGB{R: 55, G: 65, B: 81}    // Gray 700
	rgbModal  = render.RGB{R: 17, G: 24, B: 39}    // Gray 900
	rgbBorder = render.RGB{R: 75, G: 85, B: 99}    // Gray 600
	rgbAccent = render.RGB{R: 251, G: 146, B: 60}  // Orange 400
)

// Overlay holds the two page flags and draws the static chrome
// Flags are atomic: keys flip them on the input goroutine, the driver reads them while drawing
type Overlay struct {
	bubbleVisible atomic.Bool
	modalVisible  atomic.Bool

	delay time.Duration
	mu    sync.Mutex
	timer engine.Timer
}

// NewOverlay creates an overlay whose bubble appears delay after Start
func NewOverlay(delay time.Duration) *Overlay {
	return &Overlay{delay: delay}
}

// Start schedules the bubble, restarting hides it until the new timer fires
func (o *Overlay) Start(clock engine.Clock) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.timer != nil {
		o.timer.Stop()
	}
	o.bubbleVisible.Store(false)
	o.timer = clock.AfterFunc(o.delay, func() {
		o.bubbleVisible.Store(true)
	})
}

// Stop cancels a pending bubble timer
func (o *Overlay) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

// BubbleVisible reports whether the speech bubble is shown
func (o *Overlay) BubbleVisible() bool {
	return o.bubbleVisible.Load()
}

// ModalVisible reports whether the lead modal is open
func (o *Overlay) ModalVisible() bool {
	return o.modalVisible.Load()
}

// ToggleModal flips the modal flag
func (o *Overlay) ToggleModal() {
	for {
		v := o.modalVisible.Load()
		if o.modalVisible.CompareAndSwap(v, !v) {
			return
		}
	}
}

// HandleKey applies a key to the page, returns false when the user asked to quit
// Esc closes an open modal before it quits
func (o *Overlay) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		return o.modalVisible.Swap(false)
	case tcell.KeyEnter:
		o.ToggleModal()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'm':
			o.ToggleModal()
		}
	}
	return true
}

// ===== DRAWING =====

// Draw paints the hero block, the bubble and the modal onto the screen
func (o *Overlay) Draw(screen tcell.Screen) {
	w, h := screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	top := h/2 - 2
	title := tcell.StyleDefault.Foreground(rgbTitle.Tcell()).Bold(true)
	text := tcell.StyleDefault.Foreground(rgbText.Tcell())
	drawCentered(screen, top, Title, title)
	drawCentered(screen, top+2, Tagline, text)
	drawCentered(screen, top+4, CallToAct, tcell.StyleDefault.Foreground(rgbAccent.Tcell()))

	if o.bubbleVisible.Load() {
		bubble := tcell.StyleDefault.Background(rgbBubble.Tcell()).Foreground(rgbText.Tcell())
		padded := " " + BubbleText + " "
		x := w - uniseg.StringWidth(padded) - 2
		drawText(screen, max(x, 0), max(top-3, 0), padded, bubble)
	}

	if o.modalVisible.Load() {
		o.drawModal(screen, w, h)
	}
}

// drawModal paints a bordered box with the lead form labels
func (o *Overlay) drawModal(screen tcell.Screen, w, h int) {
	boxW := min(w-4, 44)
	boxH := 4 + 2*len(modalFields) + 1
	if boxW < 10 || boxH > h {
		return
	}
	x0 := (w - boxW) / 2
	y0 := (h - boxH) / 2

	fill := tcell.StyleDefault.Background(rgbModal.Tcell()).Foreground(rgbText.Tcell())
	border := fill.Foreground(rgbBorder.Tcell())

	for y := y0; y < y0+boxH; y++ {
		for x := x0; x < x0+boxW; x++ {
			r := ' '
			switch {
			case (y == y0 || y == y0+boxH-1) && (x == x0 || x == x0+boxW-1):
				r = '+'
			case y == y0 || y == y0+boxH-1:
				r = '-'
			case x == x0 || x == x0+boxW-1:
				r = '|'
			}
			st := fill
			if r != ' ' {
				st = border
			}
			screen.SetContent(x, y, r, nil, st)
		}
	}

	drawText(screen, x0+2, y0+1, ModalTitle, fill.Foreground(rgbAccent.Tcell()).Bold(true))
	for i, label := range modalFields {
		drawText(screen, x0+2, y0+3+2*i, label+": ____________", fill)
	}
	drawText(screen, x0+boxW-2-uniseg.StringWidth(ModalHint), y0+boxH-2, ModalHint, border)
}

// drawCentered writes s centered on row y
func drawCentered(screen tcell.Screen, y int, s string, style tcell.Style) {
	w, _ := screen.Size()
	x := (w - uniseg.StringWidth(s)) / 2
	drawText(screen, max(x, 0), y, s, style)
}

// drawText writes s from (x, y) one grapheme cluster per cell, clipping at the edge
// Selectors and combining marks ride along with their base rune
func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	w, h := screen.Size()
	if y < 0 || y >= h {
		return
	}
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cw := g.Width()
		if cw == 0 {
			continue
		}
		if x+cw > w {
			return
		}
		runes := g.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += cw
	}
}
