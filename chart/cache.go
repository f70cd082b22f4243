package chart

type dirtyFlags uint8

const (
	dirtyStatic dirtyFlags = 1 << iota
	dirtyTraces

	dirtyAll = dirtyStatic | dirtyTraces
)

// CacheStats counts how the render cache satisfied paints.
type CacheStats struct {
	StaticRebuilds int
	TraceRebuilds  int
	TraceScrolls   int
}

type renderCache struct {
	static Surface
	traces Surface

	dirty   dirtyFlags
	pending int

	stats CacheStats
}

func (c *Chart) CacheStats() CacheStats { return c.cache.stats }

// NeedsPaint reports whether a Paint would change the composited output.
func (c *Chart) NeedsPaint() bool {
	return c.cache.static == nil || c.cache.dirty != 0 || c.cache.pending > 0
}

// Paint composites the cached layers into dst at its origin, refreshing
// whatever is stale first.
func (c *Chart) Paint(dst Surface) {
	if c.width <= 0 || c.height <= 0 || c.newSurface == nil {
		return
	}
	c.ensureStatic()
	c.updateTraces()

	dst.Blit(c.cache.static, Rect{W: c.width, H: c.height}, Point{})
	p := c.layout.plot
	if c.cache.traces != nil && !p.Empty() {
		dst.Blit(c.cache.traces, Rect{W: p.W, H: p.H}, Point{X: p.X, Y: p.Y})
	}
}

func (c *Chart) ensureStatic() {
	s := c.cache.static
	if s != nil && c.cache.dirty&dirtyStatic == 0 {
		if w, h := s.Size(); w == c.width && h == c.height {
			return
		}
	}
	c.RebuildStatic()
}

// RebuildStatic repaints the background layer unconditionally.
func (c *Chart) RebuildStatic() {
	if c.width <= 0 || c.height <= 0 || c.newSurface == nil {
		return
	}
	s := c.cache.static
	if s == nil {
		s = c.newSurface(c.width, c.height)
	} else if w, h := s.Size(); w != c.width || h != c.height {
		s = c.newSurface(c.width, c.height)
	}
	c.cache.static = s
	c.paintStatic(s)
	c.cache.dirty &^= dirtyStatic
	c.cache.stats.StaticRebuilds++
}

// updateTraces brings the trace layer up to date, scrolling it by the
// columns appended since the last paint when possible.
func (c *Chart) updateTraces() {
	p := c.layout.plot
	if p.Empty() {
		c.cache.traces = nil
		c.cache.pending = 0
		return
	}

	s := c.cache.traces
	full := s == nil || c.cache.dirty&dirtyTraces != 0
	if s != nil {
		if w, h := s.Size(); w != p.W || h != p.H {
			full = true
		}
	}
	n := c.cache.pending
	if n >= p.W {
		full = true
	}

	switch {
	case full:
		if s == nil {
			s = c.newSurface(p.W, p.H)
		} else if w, h := s.Size(); w != p.W || h != p.H {
			s = c.newSurface(p.W, p.H)
		}
		c.cache.traces = s
		c.paintTracesFull(s)
		c.cache.dirty &^= dirtyTraces
		c.cache.stats.TraceRebuilds++
	case n > 0:
		s.Blit(s, Rect{X: n, W: p.W - n, H: p.H}, Point{})
		c.paintTracesTail(s, n)
		c.cache.stats.TraceScrolls++
	}
	c.cache.pending = 0
}
