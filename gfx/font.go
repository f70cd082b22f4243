package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"trendscope/hal"
)

// TinyFont measures and draws text with a tinyfont bitmap font.
type TinyFont struct {
	f       tinyfont.Fonter
	ascent  int
	descent int
}

// NewTinyFont derives line metrics from the printable ASCII glyphs of f.
func NewTinyFont(f tinyfont.Fonter) *TinyFont {
	if f == nil {
		f = &proggy.TinySZ8pt7b
	}
	t := &TinyFont{f: f}
	for r := rune(0x21); r < 0x7f; r++ {
		info := f.GetGlyph(r).Info()
		top := -int(info.YOffset)
		bottom := int(info.YOffset) + int(info.Height)
		if top > t.ascent {
			t.ascent = top
		}
		if bottom > t.descent {
			t.descent = bottom
		}
	}
	if t.ascent <= 0 {
		t.ascent = int(f.GetYAdvance())
	}
	return t
}

// DefaultFont is the small proportional font used on the device display.
func DefaultFont() *TinyFont { return NewTinyFont(&proggy.TinySZ8pt7b) }

func (t *TinyFont) TextWidth(s string) int {
	if s == "" {
		return 0
	}
	_, outbox := tinyfont.LineWidth(t.f, s)
	return int(outbox)
}

func (t *TinyFont) Ascent() int { return t.ascent }

func (t *TinyFont) LineHeight() int { return t.ascent + t.descent }

func (t *TinyFont) write(d *displayer, s string, c color.RGBA) {
	tinyfont.WriteLine(d, t.f, 0, int16(t.ascent), s, c)
}

// displayer adapts a Canvas to drivers.Displayer for tinyfont. Text is laid
// out at the origin and translated, or rotated a quarter turn
// counter-clockwise, into the canvas.
type displayer struct {
	c      *Canvas
	ox, oy int
	rotate bool
}

var _ drivers.Displayer = (*displayer)(nil)

func (d *displayer) Size() (x, y int16) {
	if d.rotate {
		return int16(d.c.h), int16(d.c.w)
	}
	return int16(d.c.w), int16(d.c.h)
}

func (d *displayer) SetPixel(x, y int16, c color.RGBA) {
	px, py := d.ox+int(x), d.oy+int(y)
	if d.rotate {
		px, py = d.ox+int(y), d.oy-int(x)
	}
	d.c.set(px, py, hal.PackRGB565(c))
}

func (d *displayer) Display() error { return nil }
