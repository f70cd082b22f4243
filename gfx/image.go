package gfx

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"trendscope/chart"
)

// FaceFont measures text with an x/image font face.
type FaceFont struct {
	face font.Face
}

// NewFaceFont wraps face; nil selects basicfont.Face7x13.
func NewFaceFont(face font.Face) *FaceFont {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &FaceFont{face: face}
}

func (f *FaceFont) TextWidth(s string) int {
	return font.MeasureString(f.face, s).Ceil()
}

func (f *FaceFont) Ascent() int { return f.face.Metrics().Ascent.Ceil() }

func (f *FaceFont) LineHeight() int {
	m := f.face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// Image is a chart.Surface backed by *image.RGBA. Pixels with zero alpha are
// transparent. It renders snapshots on the host where no display exists.
type Image struct {
	img  *image.RGBA
	font *FaceFont
}

func NewImage(w, h int, f *FaceFont) *Image {
	if f == nil {
		f = NewFaceFont(nil)
	}
	return &Image{img: image.NewRGBA(image.Rect(0, 0, maxZero(w), maxZero(h))), font: f}
}

// ImageFactory returns a chart.SurfaceFactory producing Image surfaces.
func ImageFactory(f *FaceFont) chart.SurfaceFactory {
	return func(w, h int) chart.Surface { return NewImage(w, h, f) }
}

func (m *Image) RGBA() *image.RGBA { return m.img }

func (m *Image) Size() (w, h int) {
	b := m.img.Bounds()
	return b.Dx(), b.Dy()
}

func toImageRect(r chart.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

func (m *Image) Fill(r chart.Rect, c color.RGBA) {
	c.A = 0xff
	draw.Draw(m.img, toImageRect(r).Intersect(m.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func (m *Image) Clear(r chart.Rect) {
	draw.Draw(m.img, toImageRect(r).Intersect(m.img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

func (m *Image) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	c.A = 0xff
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if image.Pt(x0, y0).In(m.img.Bounds()) {
			m.img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (m *Image) DrawText(x, y int, s string, c color.RGBA) {
	if s == "" {
		return
	}
	c.A = 0xff
	d := font.Drawer{
		Dst:  m.img,
		Src:  image.NewUniform(c),
		Face: m.font.face,
		Dot:  fixed.P(x, y+m.font.Ascent()),
	}
	d.DrawString(s)
}

// DrawTextVertical renders s into a scratch image and copies it rotated a
// quarter turn counter-clockwise.
func (m *Image) DrawTextVertical(x, y int, s string, c color.RGBA) {
	if s == "" {
		return
	}
	tw, lh := m.font.TextWidth(s), m.font.LineHeight()
	if tw <= 0 || lh <= 0 {
		return
	}
	tmp := NewImage(tw, lh, m.font)
	tmp.DrawText(0, 0, s, c)
	b := m.img.Bounds()
	for ty := 0; ty < lh; ty++ {
		for tx := 0; tx < tw; tx++ {
			p := tmp.img.RGBAAt(tx, ty)
			if p.A == 0 {
				continue
			}
			pt := image.Pt(x+ty, y-tx)
			if pt.In(b) {
				m.img.SetRGBA(pt.X, pt.Y, p)
			}
		}
	}
}

func (m *Image) At(x, y int) (color.RGBA, bool) {
	if !image.Pt(x, y).In(m.img.Bounds()) {
		return color.RGBA{}, false
	}
	p := m.img.RGBAAt(x, y)
	return p, p.A != 0
}

// Blit copies the opaque pixels of src within sr to dst. Blitting an Image
// onto itself moves pixels together with their transparency.
func (m *Image) Blit(src chart.Surface, sr chart.Rect, dst chart.Point) {
	sw, sh := src.Size()
	sr = sr.Intersect(chart.Rect{W: sw, H: sh})
	if sr.Empty() {
		return
	}
	dr := image.Rect(dst.X, dst.Y, dst.X+sr.W, dst.Y+sr.H)
	sp := image.Pt(sr.X, sr.Y)
	if si, ok := src.(*Image); ok {
		if si == m {
			// draw.Draw handles overlapping src and dst within one image.
			draw.Draw(m.img, dr, m.img, sp, draw.Src)
			return
		}
		draw.Draw(m.img, dr, si.img, sp, draw.Over)
		return
	}
	b := m.img.Bounds()
	for y := 0; y < sr.H; y++ {
		for x := 0; x < sr.W; x++ {
			c, ok := src.At(sr.X+x, sr.Y+y)
			if !ok {
				continue
			}
			pt := image.Pt(dst.X+x, dst.Y+y)
			if pt.In(b) {
				m.img.SetRGBA(pt.X, pt.Y, c)
			}
		}
	}
}

func maxZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
