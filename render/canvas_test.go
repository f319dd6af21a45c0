package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func testStyle() CanvasStyle {
	return CanvasStyle{
		Glyph:     RGBGreen,
		FadeColor: RGBBlack,
		FadeAlpha: 0.05,
		FadeFloor: 8,
	}
}

func TestCanvas_DrawGlyphBaseline(t *testing.T) {
	c := NewCanvas(8, 6, 10, testStyle())

	tests := []struct {
		name     string
		x, y     float64
		col, row int
	}{
		{"start position draws top row", 0, 10, 0, 0},
		{"fractional position rounds down a row", 20, 17, 2, 1},
		{"exact multiple", 70, 60, 7, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.DrawGlyph(tt.x, tt.y, 'L')
			cell := c.Get(tt.col, tt.row)
			if cell.Rune != 'L' {
				t.Errorf("Expected 'L' at (%d,%d), got %q", tt.col, tt.row, cell.Rune)
			}
			if cell.Fg != RGBGreen {
				t.Errorf("Expected glyph color %v, got %v", RGBGreen, cell.Fg)
			}
		})
	}
}

func TestCanvas_DrawGlyphAccumulatedPosition(t *testing.T) {
	const ticks = 150
	c := NewCanvas(1, 120, 10, testStyle())

	// Positions as the rain accumulates them: 1, 1.7, 2.4 ...
	p := 1.0
	for i := 0; i < ticks; i++ {
		c.Clear()
		c.DrawGlyph(0, p*10, 'x')

		// Exact position is (10+7i)/10, row = ceil - 1
		want := (10+7*i+9)/10 - 1
		if c.Get(0, want).Rune != 'x' {
			t.Fatalf("tick %d position %.15f: expected row %d", i, p, want)
		}
		p += 0.7
	}
}

func TestCanvas_DrawGlyphOutOfBounds(t *testing.T) {
	c := NewCanvas(4, 3, 10, testStyle())

	c.DrawGlyph(0, 0, 'x')    // row -1
	c.DrawGlyph(0, 31, 'x')   // row 3
	c.DrawGlyph(40, 10, 'x')  // col 4
	c.DrawGlyph(-10, 10, 'x') // col -1

	w, h := c.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r := c.Get(x, y).Rune; r != 0 {
				t.Fatalf("Expected empty canvas, found %q at (%d,%d)", r, x, y)
			}
		}
	}
}

func TestCanvas_FadeLeavesTrailThenClears(t *testing.T) {
	c := NewCanvas(1, 1, 10, testStyle())
	c.DrawGlyph(0, 10, 'o')

	c.Fade()
	first := c.Get(0, 0)
	if first.Rune != 'o' {
		t.Fatal("Expected glyph to survive one fade")
	}
	if first.Fg.G >= 255 || first.Fg.G < 240 {
		t.Errorf("Expected one fade step to dim green slightly, got %d", first.Fg.G)
	}

	cleared := false
	for i := 0; i < 200; i++ {
		c.Fade()
		if c.Get(0, 0).Rune == 0 {
			cleared = true
			break
		}
	}
	if !cleared {
		t.Error("Expected glyph to be cleared after repeated fades")
	}
}

func TestCanvas_ResizeClears(t *testing.T) {
	c := NewCanvas(4, 4, 10, testStyle())
	c.DrawGlyph(10, 20, 'v')

	c.Resize(2, 2)
	if w, h := c.Size(); w != 2 || h != 2 {
		t.Fatalf("Expected 2x2, got %dx%d", w, h)
	}
	if c.Get(1, 1).Rune != 0 {
		t.Error("Expected resized canvas to be empty")
	}

	c.Resize(-3, 5)
	if w, h := c.Size(); w != 0 || h != 5 {
		t.Errorf("Expected negative width clamped to 0, got %dx%d", w, h)
	}
}

func TestCanvas_Blit(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(3, 2)

	c := NewCanvas(3, 2, 10, testStyle())
	c.DrawGlyph(10, 20, '❤')
	c.Blit(screen, RGBBlack)
	screen.Show()

	cells, w, _ := screen.GetContents()
	got := cells[1*w+1]
	if len(got.Runes) == 0 || got.Runes[0] != '❤' {
		t.Fatalf("Expected heart at (1,1), got %v", got.Runes)
	}
	fg, _, _ := got.Style.Decompose()
	if fg != RGBGreen.Tcell() {
		t.Errorf("Expected green foreground, got %v", fg)
	}

	blank := cells[0]
	if len(blank.Runes) == 0 || blank.Runes[0] != ' ' {
		t.Errorf("Expected blank cell to be a space, got %v", blank.Runes)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"#0F0", RGB{0, 255, 0}, false},
		{"#000000", RGB{0, 0, 0}, false},
		{"#ff8800", RGB{255, 136, 0}, false},
		{"green", RGB{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBlend(t *testing.T) {
	c := RGB{200, 100, 0}
	if got := Blend(c, RGBBlack, 0); got != c {
		t.Errorf("alpha 0 changed color: %v", got)
	}
	if got := Blend(c, RGBBlack, 1); got != RGBBlack {
		t.Errorf("alpha 1 did not replace: %v", got)
	}
	if got := Blend(c, RGBBlack, 0.5); got != (RGB{100, 50, 0}) {
		t.Errorf("alpha 0.5 = %v, want {100 50 0}", got)
	}
}
