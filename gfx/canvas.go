package gfx

import (
	"image"
	"image/color"

	"trendscope/chart"
	"trendscope/hal"
)

// Canvas is an RGB565 surface. Off-screen canvases carry a per-pixel
// opacity mask and start fully transparent; canvases wrapping a hal
// framebuffer are always opaque.
type Canvas struct {
	w      int
	h      int
	stride int
	pix    []byte
	mask   []bool

	fb   hal.Framebuffer
	font *TinyFont
}

// NewCanvas allocates a transparent off-screen canvas.
func NewCanvas(w, h int, font *TinyFont) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{
		w:      w,
		h:      h,
		stride: w * 2,
		pix:    make([]byte, w*h*2),
		mask:   make([]bool, w*h),
		font:   font,
	}
}

// Factory returns a chart.SurfaceFactory producing canvases that share font.
func Factory(font *TinyFont) chart.SurfaceFactory {
	return func(w, h int) chart.Surface { return NewCanvas(w, h, font) }
}

// WrapFramebuffer returns an opaque canvas drawing straight into fb.
// It returns nil when fb is not RGB565.
func WrapFramebuffer(fb hal.Framebuffer, font *TinyFont) *Canvas {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	return &Canvas{
		w:      fb.Width(),
		h:      fb.Height(),
		stride: fb.StrideBytes(),
		pix:    fb.Buffer(),
		fb:     fb,
		font:   font,
	}
}

func (c *Canvas) Size() (w, h int) { return c.w, c.h }

// Present forwards to the wrapped framebuffer, if any.
func (c *Canvas) Present() error {
	if c.fb == nil {
		return nil
	}
	return c.fb.Present()
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

func (c *Canvas) set(x, y int, p uint16) {
	if !c.inside(x, y) {
		return
	}
	off := y*c.stride + x*2
	if off < 0 || off+1 >= len(c.pix) {
		return
	}
	c.pix[off] = byte(p)
	c.pix[off+1] = byte(p >> 8)
	if c.mask != nil {
		c.mask[y*c.w+x] = true
	}
}

func (c *Canvas) get(x, y int) uint16 {
	off := y*c.stride + x*2
	if off < 0 || off+1 >= len(c.pix) {
		return 0
	}
	return uint16(c.pix[off]) | uint16(c.pix[off+1])<<8
}

func (c *Canvas) opaque(x, y int) bool {
	return c.mask == nil || c.mask[y*c.w+x]
}

func (c *Canvas) clip(r chart.Rect) chart.Rect {
	return r.Intersect(chart.Rect{W: c.w, H: c.h})
}

func (c *Canvas) Fill(r chart.Rect, col color.RGBA) {
	r = c.clip(r)
	if r.Empty() {
		return
	}
	p := hal.PackRGB565(col)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.set(x, y, p)
		}
	}
}

func (c *Canvas) Clear(r chart.Rect) {
	r = c.clip(r)
	if r.Empty() {
		return
	}
	for y := r.Y; y < r.Bottom(); y++ {
		row := y*c.stride + r.X*2
		for i := 0; i < r.W*2; i++ {
			c.pix[row+i] = 0
		}
		if c.mask != nil {
			m := c.mask[y*c.w+r.X : y*c.w+r.Right()]
			for i := range m {
				m[i] = false
			}
		}
	}
}

// DrawLine draws a 1px Bresenham line including both end points.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col color.RGBA) {
	p := hal.PackRGB565(col)
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
		c.set(x0, y0, p)
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

func (c *Canvas) DrawText(x, y int, s string, col color.RGBA) {
	if c.font == nil || s == "" {
		return
	}
	d := &displayer{c: c, ox: x, oy: y}
	c.font.write(d, s, col)
}

func (c *Canvas) DrawTextVertical(x, y int, s string, col color.RGBA) {
	if c.font == nil || s == "" {
		return
	}
	d := &displayer{c: c, ox: x, oy: y, rotate: true}
	c.font.write(d, s, col)
}

func (c *Canvas) At(x, y int) (color.RGBA, bool) {
	if !c.inside(x, y) || !c.opaque(x, y) {
		return color.RGBA{}, false
	}
	return hal.UnpackRGB565(c.get(x, y)), true
}

// Blit copies the opaque pixels of src within sr to dst. Blitting a canvas
// onto itself moves pixels together with their transparency, which is how
// the trace layer scrolls.
func (c *Canvas) Blit(src chart.Surface, sr chart.Rect, dst chart.Point) {
	sw, sh := src.Size()
	sr = sr.Intersect(chart.Rect{W: sw, H: sh})
	if sr.Empty() {
		return
	}
	if sc, ok := src.(*Canvas); ok {
		if sc == c {
			c.move(sr, dst)
			return
		}
		c.blitCanvas(sc, sr, dst)
		return
	}
	for y := 0; y < sr.H; y++ {
		for x := 0; x < sr.W; x++ {
			col, ok := src.At(sr.X+x, sr.Y+y)
			if !ok {
				continue
			}
			c.set(dst.X+x, dst.Y+y, hal.PackRGB565(col))
		}
	}
}

func (c *Canvas) blitCanvas(src *Canvas, sr chart.Rect, dst chart.Point) {
	for y := 0; y < sr.H; y++ {
		dy := dst.Y + y
		if dy < 0 || dy >= c.h {
			continue
		}
		for x := 0; x < sr.W; x++ {
			sx, sy := sr.X+x, sr.Y+y
			if !src.opaque(sx, sy) {
				continue
			}
			c.set(dst.X+x, dy, src.get(sx, sy))
		}
	}
}

// move shifts a region within c. Rows are processed in an order that never
// reads an already overwritten row; within a row copy handles overlap.
func (c *Canvas) move(sr chart.Rect, dst chart.Point) {
	dr := chart.Rect{X: dst.X, Y: dst.Y, W: sr.W, H: sr.H}.Intersect(chart.Rect{W: c.w, H: c.h})
	if dr.Empty() {
		return
	}
	sr.X += dr.X - dst.X
	sr.Y += dr.Y - dst.Y
	sr.W, sr.H = dr.W, dr.H

	rowCopy := func(y int) {
		s := (sr.Y+y)*c.stride + sr.X*2
		d := (dr.Y+y)*c.stride + dr.X*2
		copy(c.pix[d:d+dr.W*2], c.pix[s:s+dr.W*2])
		if c.mask != nil {
			ms := (sr.Y+y)*c.w + sr.X
			md := (dr.Y+y)*c.w + dr.X
			copy(c.mask[md:md+dr.W], c.mask[ms:ms+dr.W])
		}
	}
	if dr.Y > sr.Y {
		for y := dr.H - 1; y >= 0; y-- {
			rowCopy(y)
		}
		return
	}
	for y := 0; y < dr.H; y++ {
		rowCopy(y)
	}
}

// RGBA converts the canvas to an image; transparent pixels stay transparent.
func (c *Canvas) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.w, c.h))
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			col, ok := c.At(x, y)
			if !ok {
				continue
			}
			img.SetRGBA(x, y, col)
		}
	}
	return img
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
