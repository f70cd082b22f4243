package chart

import "image/color"

// fixedFont is a monospace font: 6px per rune, 7px ascent, 9px lines.
type fixedFont struct{}

func (fixedFont) TextWidth(s string) int { return 6 * len([]rune(s)) }
func (fixedFont) Ascent() int            { return 7 }
func (fixedFont) LineHeight() int        { return 9 }

// memSurface is an RGBA surface with an opacity bit per pixel. Text is
// drawn as a one pixel underline and recorded.
type memSurface struct {
	w, h  int
	pix   []color.RGBA
	op    []bool
	texts []string
}

func newMemSurface(w, h int) *memSurface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &memSurface{w: w, h: h, pix: make([]color.RGBA, w*h), op: make([]bool, w*h)}
}

func memFactory(w, h int) Surface { return newMemSurface(w, h) }

func (m *memSurface) Size() (int, int) { return m.w, m.h }

func (m *memSurface) set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	m.pix[y*m.w+x] = c
	m.op[y*m.w+x] = true
}

func (m *memSurface) Fill(r Rect, c color.RGBA) {
	r = r.Intersect(Rect{W: m.w, H: m.h})
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			m.set(x, y, c)
		}
	}
}

func (m *memSurface) Clear(r Rect) {
	r = r.Intersect(Rect{W: m.w, H: m.h})
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			m.pix[y*m.w+x] = color.RGBA{}
			m.op[y*m.w+x] = false
		}
	}
}

func (m *memSurface) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		m.set(x0, y0, c)
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

func (m *memSurface) DrawText(x, y int, s string, c color.RGBA) {
	m.texts = append(m.texts, s)
	m.Fill(Rect{X: x, Y: y + 7, W: 6 * len([]rune(s)), H: 1}, c)
}

func (m *memSurface) DrawTextVertical(x, y int, s string, c color.RGBA) {
	m.texts = append(m.texts, s)
	n := 6 * len([]rune(s))
	m.Fill(Rect{X: x + 7, Y: y - n + 1, W: 1, H: n}, c)
}

func (m *memSurface) Blit(src Surface, sr Rect, dst Point) {
	sw, sh := src.Size()
	sr = sr.Intersect(Rect{W: sw, H: sh})
	if s, ok := src.(*memSurface); ok && s == m {
		pix := append([]color.RGBA(nil), m.pix...)
		op := append([]bool(nil), m.op...)
		for y := 0; y < sr.H; y++ {
			for x := 0; x < sr.W; x++ {
				dx, dy := dst.X+x, dst.Y+y
				if dx < 0 || dy < 0 || dx >= m.w || dy >= m.h {
					continue
				}
				si := (sr.Y+y)*m.w + sr.X + x
				m.pix[dy*m.w+dx] = pix[si]
				m.op[dy*m.w+dx] = op[si]
			}
		}
		return
	}
	for y := 0; y < sr.H; y++ {
		for x := 0; x < sr.W; x++ {
			if c, ok := src.At(sr.X+x, sr.Y+y); ok {
				m.set(dst.X+x, dst.Y+y, c)
			}
		}
	}
}

func (m *memSurface) At(x, y int) (color.RGBA, bool) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return color.RGBA{}, false
	}
	return m.pix[y*m.w+x], m.op[y*m.w+x]
}

func newTestChart() *Chart {
	return New(fixedFont{}, memFactory)
}

// sameRegion reports the first differing pixel of a and b within r.
func sameRegion(a, b *memSurface, r Rect) (x, y int, same bool) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			ca, oa := a.At(x, y)
			cb, ob := b.At(x, y)
			if ca != cb || oa != ob {
				return x, y, false
			}
		}
	}
	return 0, 0, true
}
