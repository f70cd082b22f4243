package chart

import (
	"image/color"
	"math"
)

func (c *Chart) paintStatic(s Surface) {
	w, h := s.Size()
	l := c.layout
	lh := c.font.LineHeight()

	s.Fill(Rect{W: w, H: h}, c.bg)
	c.strokeRect(s, Rect{W: w, H: h}, c.fg)

	p := l.plot
	c.xTicks = 0
	c.yTicks = c.yTicks[:0]
	if !p.Empty() {
		c.strokeRect(s, Rect{X: p.X - 1, Y: p.Y - 1, W: p.W + 2, H: p.H + 2}, c.fg)
		c.paintTimeAxis(s, p)
		for _, col := range l.columns {
			c.yTicks = append(c.yTicks, c.paintScale(s, p, col, lh))
		}
		if len(l.columns) == 0 {
			grid := blend(c.fg, c.bg, 80)
			for j := 1; j < gridLines; j++ {
				y := p.Y + j*p.H/gridLines
				dottedHLine(s, p.X, p.Right(), y, grid)
			}
		}
	}

	if c.title != "" && !l.title.Empty() {
		tw := c.font.TextWidth(c.title)
		s.DrawText(l.title.X+(l.title.W-tw)/2, l.title.Y, c.title, c.fg)
	}
	if c.xLabel != "" && !l.xLabel.Empty() {
		tw := c.font.TextWidth(c.xLabel)
		s.DrawText(p.X+(p.W-tw)/2, l.xLabel.Y, c.xLabel, c.fg)
	}
	if c.yLabel != "" && !l.yLabel.Empty() {
		tw := c.font.TextWidth(c.yLabel)
		y := l.yLabel.Y + (l.yLabel.H+tw)/2
		s.DrawTextVertical(l.yLabel.X, y, c.yLabel, c.fg)
	}
}

func (c *Chart) timeLabels(n int) []string {
	return tickLabels(-c.period, 0, n)
}

// paintTimeAxis draws vertical grid lines, tick marks and time labels.
func (c *Chart) paintTimeAxis(s Surface, p Rect) {
	n := ChooseTickCount(p.W, c.timeLabels, c.font.TextWidth)
	c.xTicks = n
	grid := blend(c.fg, c.bg, 80)
	labels := c.timeLabels(n)
	w, _ := s.Size()
	for i := 0; i <= n; i++ {
		x := p.X + i*(p.W-1)/n
		if i > 0 && i < n {
			dottedVLine(s, x, p.Y, p.Bottom(), grid)
		}
		s.Fill(Rect{X: x, Y: p.Bottom() + 1, W: 1, H: tickLen}, c.fg)
		if n > MinTicks || i == 0 || i == n {
			tw := c.font.TextWidth(labels[i])
			tx := clampInt(x-tw/2, 0, maxInt(w-tw, 0))
			s.DrawText(tx, p.Bottom()+tickLen+1, labels[i], c.fg)
		}
	}
}

// paintScale draws one value axis column and returns its division count.
func (c *Chart) paintScale(s Surface, p Rect, col scaleColumn, lh int) int {
	sc := col.scale
	extent := func(string) int { return lh }
	labelsFor := func(n int) []string { return scaleLabels(sc, n) }
	n := ChooseTickCount(p.H, labelsFor, extent)
	labels := labelsFor(n)
	right := col.x + col.w - 1
	first := len(c.yTicks) == 0
	grid := blend(c.fg, c.bg, 80)

	for i := 0; i <= n; i++ {
		y := p.Bottom() - 1 - i*(p.H-1)/n
		if first && i > 0 && i < n {
			dottedHLine(s, p.X, p.Right(), y, grid)
		}
		s.Fill(Rect{X: right - tickLen + 1, Y: y, W: tickLen, H: 1}, c.fg)
		tw := c.font.TextWidth(labels[i])
		tx := right - tickLen - 1 - tw
		ty := clampInt(y-lh/2, p.Y-1, maxInt(p.Bottom()-lh+1, p.Y-1))
		s.DrawText(tx, ty, labels[i], c.fg)
	}

	// One indicator mark per member trace, above the column.
	mx := right - tickLen - 1
	my := c.layout.marks.Y + 1
	for i := len(sc.Colors) - 1; i >= 0; i-- {
		mx -= markSize
		if mx < col.x {
			break
		}
		s.Fill(Rect{X: mx, Y: my, W: markSize, H: markSize}, sc.Colors[i])
		mx--
	}
	return n
}

func (c *Chart) strokeRect(s Surface, r Rect, col color.RGBA) {
	if r.Empty() {
		return
	}
	s.Fill(Rect{X: r.X, Y: r.Y, W: r.W, H: 1}, col)
	s.Fill(Rect{X: r.X, Y: r.Bottom() - 1, W: r.W, H: 1}, col)
	s.Fill(Rect{X: r.X, Y: r.Y, W: 1, H: r.H}, col)
	s.Fill(Rect{X: r.Right() - 1, Y: r.Y, W: 1, H: r.H}, col)
}

func dottedHLine(s Surface, x0, x1, y int, col color.RGBA) {
	for x := x0; x < x1; x += 2 {
		s.Fill(Rect{X: x, Y: y, W: 1, H: 1}, col)
	}
}

func dottedVLine(s Surface, x, y0, y1 int, col color.RGBA) {
	for y := y0; y < y1; y += 2 {
		s.Fill(Rect{X: x, Y: y, W: 1, H: 1}, col)
	}
}

// blend mixes a over b with alpha a8/255.
func blend(a, b color.RGBA, a8 uint8) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8((uint16(x)*uint16(a8) + uint16(y)*uint16(255-a8)) / 255)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// yFor maps v into the trace layer's rows, clamped to the layer.
func yFor(v, low, high float64, h int) int {
	if h <= 1 {
		return 0
	}
	f := (v - low) / (high - low)
	if math.IsNaN(f) {
		f = 0
	}
	y := float64(h-1) - f*float64(h-1)
	if y < 0 {
		return 0
	}
	if y > float64(h-1) {
		return h - 1
	}
	return int(math.Round(y))
}

func (c *Chart) paintTracesFull(s Surface) {
	w, h := s.Size()
	s.Clear(Rect{W: w, H: h})
	for i := range c.traces {
		t := &c.traces[i]
		if !t.Active() {
			continue
		}
		c.paintRun(s, t, 0, w, h)
	}
}

// paintTracesTail repaints the newest n columns of every trace plus the seam
// column to their left. The seam is shared with older segments, so it is
// cleared and redrawn pen by pen to keep the stacking of a full repaint.
func (c *Chart) paintTracesTail(s Surface, n int) {
	w, h := s.Size()
	clip := maxInt(w-n-1, 0)
	s.Clear(Rect{X: clip, W: w - clip, H: h})
	for i := range c.traces {
		t := &c.traces[i]
		if !t.Active() {
			continue
		}
		c.paintRun(s, t, clip, w, h)
	}
}

// paintRun draws t's history with the newest sample in the rightmost column.
// Only columns at or right of clip are touched.
func (c *Chart) paintRun(s Surface, t *Trace, clip, w, h int) {
	hist := t.history
	n := hist.Len()
	lo, hi, _ := ResolveRange(t)
	logAxis := t.limits.Log
	if logAxis {
		lo, hi = math.Log10(lo), math.Log10(hi)
	}

	// Sample i sits in column w-n+i; start one column left of clip so the
	// segment entering the clip column is drawn.
	from := maxInt(clip-1-(w-n), 0)
	prevOK := false
	var py int
	for i := from; i < n; i++ {
		x := w - n + i
		v, ok := hist.At(i).Value()
		if ok && logAxis {
			// Non-positive values have no place on a log axis.
			ok = v > 0
			v = math.Log10(v)
		}
		if !ok {
			prevOK = false
			continue
		}
		y := yFor(v, lo, hi, h)
		if prevOK {
			segment(s, x-1, py, y, clip, t.color)
		} else if x >= clip {
			s.Fill(Rect{X: x, Y: y, W: 1, H: 1}, t.color)
		}
		prevOK = true
		py = y
	}
}

// segment joins (x, y0) to (x+1, y1). Each column gets one vertical run
// meeting the other at the midpoint.
func segment(s Surface, x, y0, y1, clip int, col color.RGBA) {
	var a0, a1, b0, b1 int
	if y0 <= y1 {
		mid := (y0 + y1) / 2
		a0, a1 = y0, mid
		b0, b1 = minInt(mid+1, y1), y1
	} else {
		mid := (y0 + y1 + 1) / 2
		a0, a1 = mid, y0
		b0, b1 = y1, maxInt(mid-1, y1)
	}
	if x >= clip {
		s.DrawLine(x, a0, x, a1, col)
	}
	if x+1 >= clip {
		s.DrawLine(x+1, b0, x+1, b1, col)
	}
}
