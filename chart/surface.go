package chart

import "image/color"

// Rect is an integer pixel rectangle. W and H may be zero.
type Rect struct {
	X, Y int
	W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Right is the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom is the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) inset(dx, dy int) Rect {
	nw := r.W - 2*dx
	nh := r.H - 2*dy
	if nw < 0 {
		nw = 0
	}
	if nh < 0 {
		nh = 0
	}
	return Rect{X: r.X + dx, Y: r.Y + dy, W: nw, H: nh}
}

// Intersect clips r to o.
func (r Rect) Intersect(o Rect) Rect {
	x0 := maxInt(r.X, o.X)
	y0 := maxInt(r.Y, o.Y)
	x1 := minInt(r.Right(), o.Right())
	y1 := minInt(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Point is an integer pixel position.
type Point struct {
	X, Y int
}

// Surface is an off-screen or on-screen 2D pixel target.
//
// Pixels start transparent after Clear. Blit copies only non-transparent
// source pixels, so a cleared layer can be composited over another one.
// Blitting a surface onto itself is a move instead: transparency travels
// with the pixels and overlapping rectangles are allowed.
type Surface interface {
	Size() (w, h int)
	Fill(r Rect, c color.RGBA)
	Clear(r Rect)
	DrawLine(x0, y0, x1, y1 int, c color.RGBA)
	// DrawText draws s with its top-left corner at (x, y).
	DrawText(x, y int, s string, c color.RGBA)
	// DrawTextVertical draws s rotated 90° counter-clockwise, reading
	// bottom to top, with the text's top edge along column x and its
	// start at row y.
	DrawTextVertical(x, y int, s string, c color.RGBA)
	Blit(src Surface, sr Rect, dst Point)
	// At reports the pixel color and whether it is opaque.
	At(x, y int) (color.RGBA, bool)
}

// Font provides the text metrics used for layout.
type Font interface {
	TextWidth(s string) int
	Ascent() int
	LineHeight() int
}

// SurfaceFactory allocates a transparent surface of the given size.
type SurfaceFactory func(w, h int) Surface

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
