package chart

import (
	"fmt"
	"image/color"
	"math"
	"time"
)

// PenCount is the number of traces a chart carries.
const PenCount = 8

// DefaultPeriod is used when a non-positive period is configured.
const DefaultPeriod = 60.0

// Units is the time unit of the configured period.
type Units uint8

const (
	UnitsSeconds Units = iota
	UnitsMilliseconds
	UnitsMinutes
)

func (u Units) String() string {
	switch u {
	case UnitsMilliseconds:
		return "ms"
	case UnitsMinutes:
		return "min"
	default:
		return "sec"
	}
}

// ParseUnits is the inverse of Units.String.
func ParseUnits(s string) (Units, bool) {
	switch s {
	case "ms", "milli-second", "milliseconds":
		return UnitsMilliseconds, true
	case "sec", "", "second", "seconds":
		return UnitsSeconds, true
	case "min", "minute", "minutes":
		return UnitsMinutes, true
	default:
		return 0, false
	}
}

// Duration converts a period expressed in u.
func (u Units) Duration(period float64) time.Duration {
	var scale time.Duration
	switch u {
	case UnitsMilliseconds:
		scale = time.Millisecond
	case UnitsMinutes:
		scale = time.Minute
	default:
		scale = time.Second
	}
	return time.Duration(period * float64(scale))
}

var (
	DefaultForeground = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	DefaultBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}

	defaultPenColors = [PenCount]color.RGBA{
		{R: 0x4a, G: 0xdf, B: 0x6a, A: 0xff},
		{R: 0xff, G: 0xd1, B: 0x4a, A: 0xff},
		{R: 0x4a, G: 0xd1, B: 0xff, A: 0xff},
		{R: 0xff, G: 0x5a, B: 0x5a, A: 0xff},
		{R: 0xc0, G: 0x7a, B: 0xff, A: 0xff},
		{R: 0xff, G: 0x9a, B: 0x3a, A: 0xff},
		{R: 0x3a, G: 0xff, B: 0xd8, A: 0xff},
		{R: 0xee, G: 0xee, B: 0xee, A: 0xff},
	}
)

// DefaultPenColor returns the color pen i starts with.
func DefaultPenColor(i int) color.RGBA {
	if i < 0 || i >= PenCount {
		return DefaultForeground
	}
	return defaultPenColors[i]
}

// Chart is the strip chart engine. It is not safe for concurrent use: one
// goroutine owns it and feeds it channel events, heartbeats and paints.
type Chart struct {
	title  string
	xLabel string
	yLabel string
	period float64
	units  Units
	fg     color.RGBA
	bg     color.RGBA

	traces [PenCount]Trace

	font       Font
	newSurface SurfaceFactory

	width  int
	height int
	layout layout
	scales []Scale

	live    bool
	sampler Sampler
	cache   renderCache

	xTicks int
	yTicks []int
}

// New returns a chart with no channels attached.
func New(font Font, newSurface SurfaceFactory) *Chart {
	c := &Chart{
		title:      "Strip Chart",
		xLabel:     "Time",
		yLabel:     "Value",
		period:     DefaultPeriod,
		units:      UnitsSeconds,
		fg:         DefaultForeground,
		bg:         DefaultBackground,
		font:       font,
		newSurface: newSurface,
	}
	for i := range c.traces {
		c.traces[i] = newTrace(DefaultPenColor(i), 1)
	}
	c.relayout()
	c.cache.dirty = dirtyAll
	return c
}

func (c *Chart) Title() string  { return c.title }
func (c *Chart) XLabel() string { return c.xLabel }
func (c *Chart) YLabel() string { return c.yLabel }

func (c *Chart) Period() float64 { return c.period }
func (c *Chart) Units() Units    { return c.units }

func (c *Chart) Foreground() color.RGBA { return c.fg }
func (c *Chart) Background() color.RGBA { return c.bg }

func (c *Chart) SetTitle(s string) {
	if s == c.title {
		return
	}
	c.title = s
	c.changed(dirtyStatic)
}

func (c *Chart) SetXLabel(s string) {
	if s == c.xLabel {
		return
	}
	c.xLabel = s
	c.changed(dirtyStatic)
}

func (c *Chart) SetYLabel(s string) {
	if s == c.yLabel {
		return
	}
	c.yLabel = s
	c.changed(dirtyStatic)
}

// SetPeriod sets the visible time span in the current units. Non-positive
// values select DefaultPeriod.
func (c *Chart) SetPeriod(p float64) {
	if !(p > 0) || math.IsInf(p, 0) {
		p = DefaultPeriod
	}
	if math.Abs(p-c.period) < 1e-6 {
		return
	}
	c.period = p
	c.sampler.Configure(c.layout.plot.W, c.PeriodDuration())
	c.changed(dirtyStatic)
}

func (c *Chart) SetUnits(u Units) {
	if u == c.units {
		return
	}
	c.units = u
	c.sampler.Configure(c.layout.plot.W, c.PeriodDuration())
	c.changed(dirtyStatic)
}

// PeriodDuration is the visible time span.
func (c *Chart) PeriodDuration() time.Duration { return c.units.Duration(c.period) }

func (c *Chart) SetForeground(col color.RGBA) {
	if col == c.fg {
		return
	}
	c.fg = col
	c.changed(dirtyStatic)
}

func (c *Chart) SetBackground(col color.RGBA) {
	if col == c.bg {
		return
	}
	c.bg = col
	c.changed(dirtyStatic)
}

// Trace returns pen i, or nil when i is out of range.
func (c *Chart) Trace(i int) *Trace {
	if i < 0 || i >= PenCount {
		return nil
	}
	return &c.traces[i]
}

// SetChannel attaches pen i to a channel. An empty name deactivates the pen.
// Changing the channel of a pen resets its runtime state.
func (c *Chart) SetChannel(i int, name string) {
	t := c.Trace(i)
	if t == nil || t.channel == name {
		return
	}
	t.channel = name
	t.resetRuntime()
	c.changed(dirtyAll)
}

func (c *Chart) SetPenColor(i int, col color.RGBA) {
	t := c.Trace(i)
	if t == nil || t.color == col {
		return
	}
	t.color = col
	c.changed(dirtyAll)
}

func (c *Chart) SetPenLimits(i int, l Limits) {
	t := c.Trace(i)
	if t == nil || t.limits == l {
		return
	}
	t.limits = l
	c.changed(dirtyAll)
}

// SetUserLimits sets the runtime override used by LimitUser bounds.
func (c *Chart) SetUserLimits(i int, low, high float64) {
	t := c.Trace(i)
	if t == nil {
		return
	}
	t.hasUserLow, t.userLow = true, low
	t.hasUserHigh, t.userHigh = true, high
	c.changed(dirtyAll)
}

// ClearUserLimits drops the runtime override of pen i.
func (c *Chart) ClearUserLimits(i int) {
	t := c.Trace(i)
	if t == nil || (!t.hasUserLow && !t.hasUserHigh) {
		return
	}
	t.hasUserLow, t.hasUserHigh = false, false
	c.changed(dirtyAll)
}

// Live reports whether the chart is in live mode.
func (c *Chart) Live() bool { return c.live }

// SetLiveMode enters or leaves live mode. Entering resets every pen's
// runtime state; the sampler starts once a pen connects. Leaving stops the
// sampler and discards all history.
func (c *Chart) SetLiveMode(on bool) {
	if on == c.live {
		return
	}
	c.live = on
	c.sampler.Stop()
	for i := range c.traces {
		c.traces[i].resetRuntime()
	}
	if on {
		c.tryStart()
	}
	c.changed(dirtyAll)
}

// Sampler exposes the sampling state for inspection.
func (c *Chart) Sampler() *Sampler { return &c.sampler }

func (c *Chart) anyConnected() bool {
	for i := range c.traces {
		if c.traces[i].Active() && c.traces[i].connected {
			return true
		}
	}
	return false
}

func (c *Chart) tryStart() {
	if !c.live || c.sampler.Running() {
		return
	}
	c.sampler.Start(c.anyConnected(), c.layout.plot.W, c.PeriodDuration())
}

// OnConnectionChanged records a connection transition of pen i's channel.
func (c *Chart) OnConnectionChanged(i int, connected bool) {
	t := c.Trace(i)
	if t == nil || !c.live || !t.Active() {
		return
	}
	if connected == t.connected {
		return
	}
	t.connected = connected
	t.hasLatest = false
	if !connected {
		t.hasLiveLimits = false
		t.history.Clear()
	}
	c.changed(dirtyAll)
	if connected {
		c.tryStart()
	}
}

// OnValue records the newest value of pen i. The timestamp is kept for the
// readout only; sampling runs on heartbeat time.
func (c *Chart) OnValue(i int, v float64, stamp time.Time) {
	t := c.Trace(i)
	if t == nil || !c.live || !t.Active() || !t.connected {
		return
	}
	t.latest = v
	t.latestStamp = stamp
	t.hasLatest = true
}

// OnLimits records display limits reported by pen i's channel.
func (c *Chart) OnLimits(i int, low, high float64, valid bool) {
	t := c.Trace(i)
	if t == nil || !c.live || !t.Active() {
		return
	}
	before := c.rangeOf(t)
	t.hasLiveLimits = valid
	if valid {
		t.liveLow, t.liveHigh = low, high
	}
	if c.rangeOf(t) != before {
		c.changed(dirtyAll)
	}
}

func (c *Chart) rangeOf(t *Trace) [2]float64 {
	lo, hi, _ := ResolveRange(t)
	return [2]float64{lo, hi}
}

// SetGeometry informs the chart of its widget size in pixels.
func (c *Chart) SetGeometry(w, h int) {
	if w == c.width && h == c.height {
		return
	}
	c.width, c.height = w, h
	c.changed(dirtyAll)
}

func (c *Chart) Size() (w, h int) { return c.width, c.height }

// PlotRect is the rectangle the traces are drawn into.
func (c *Chart) PlotRect() Rect { return c.layout.plot }

// Capacity is the number of columns each history holds.
func (c *Chart) Capacity() int { return c.traces[0].history.Cap() }

// Tick advances the sampler to now and appends the due columns. It returns
// the number of columns appended.
func (c *Chart) Tick(now time.Time) int {
	if !c.live {
		return 0
	}
	n := c.sampler.Tick(now)
	for k := 0; k < n; k++ {
		c.appendColumn()
	}
	c.cache.pending += n
	return n
}

func (c *Chart) appendColumn() {
	for i := range c.traces {
		t := &c.traces[i]
		if !t.Active() {
			continue
		}
		t.history.Append(t.column())
	}
}

// Scales returns the value axes currently drawn.
func (c *Chart) Scales() []Scale { return c.scales }

// TickCounts returns the division counts chosen by the last static rebuild:
// the time axis and one per drawn scale.
func (c *Chart) TickCounts() (x int, y []int) { return c.xTicks, c.yTicks }

// Readout formats the latest value and resolved range of pen i.
func (c *Chart) Readout(i int) string {
	t := c.Trace(i)
	if t == nil || !t.Active() {
		return ""
	}
	lo, hi, _ := ResolveRange(t)
	val := "--"
	if v, _, ok := t.Latest(); ok && t.connected {
		val = formatNumberText(v)
	}
	return fmt.Sprintf("%s = %s [%s, %s]", t.channel, val, formatNumberText(lo), formatNumberText(hi))
}

// changed recomputes the layout and marks caches dirty. A new plot width
// resizes every history and the sampler's interval.
func (c *Chart) changed(flags dirtyFlags) {
	prevW := c.layout.plot.W
	c.relayout()
	if c.layout.plot.W != prevW {
		c.applyCapacity()
		flags |= dirtyTraces
	}
	c.cache.dirty |= flags
}

func (c *Chart) relayout() {
	c.scales = GroupScales(c.activeRanges())
	c.layout = computeLayout(c.width, c.height, c.font, c.title, c.xLabel, c.yLabel, c.scales, c.timeLabelWidth())
}

func (c *Chart) applyCapacity() {
	w := c.layout.plot.W
	c.sampler.Configure(w, c.PeriodDuration())
	if w < 1 {
		return
	}
	for i := range c.traces {
		c.traces[i].history.SetCapacity(w)
	}
}

func (c *Chart) activeRanges() []TraceRange {
	var out []TraceRange
	for i := range c.traces {
		t := &c.traces[i]
		if !t.Active() {
			continue
		}
		lo, hi, _ := ResolveRange(t)
		out = append(out, TraceRange{Pen: i, Color: t.color, Low: lo, High: hi, Log: t.limits.Log})
	}
	return out
}

func (c *Chart) timeLabelWidth() int {
	if c.font == nil {
		return 0
	}
	return c.font.TextWidth(formatNumberText(0))
}
