package chart

import (
	"image/color"
	"strings"
	"time"
)

// Trace is one pen of the chart: configuration plus live runtime state.
type Trace struct {
	channel string
	color   color.RGBA
	limits  Limits

	connected     bool
	hasLiveLimits bool
	liveLow       float64
	liveHigh      float64

	hasUserLow  bool
	hasUserHigh bool
	userLow     float64
	userHigh    float64

	hasLatest   bool
	latest      float64
	latestStamp time.Time

	history *History
}

func newTrace(c color.RGBA, capacity int) Trace {
	return Trace{
		color:   c,
		limits:  DefaultLimits(),
		history: NewHistory(capacity),
	}
}

// Active reports whether a channel is attached.
func (t *Trace) Active() bool { return strings.TrimSpace(t.channel) != "" }

func (t *Trace) Channel() string { return t.channel }

func (t *Trace) Color() color.RGBA { return t.color }

func (t *Trace) Limits() Limits { return t.limits }

func (t *Trace) Connected() bool { return t.connected }

func (t *Trace) History() *History { return t.history }

// Latest returns the newest value received since the channel connected.
func (t *Trace) Latest() (v float64, stamp time.Time, ok bool) {
	return t.latest, t.latestStamp, t.hasLatest
}

// LiveLimits returns the limits last reported by the channel.
func (t *Trace) LiveLimits() (low, high float64, ok bool) {
	return t.liveLow, t.liveHigh, t.hasLiveLimits
}

func (t *Trace) resetRuntime() {
	t.connected = false
	t.hasLiveLimits = false
	t.liveLow = 0
	t.liveHigh = 0
	t.hasLatest = false
	t.latest = 0
	t.latestStamp = time.Time{}
	t.history.Clear()
}

// column is the sample appended for one sampling slot.
func (t *Trace) column() Sample {
	if !t.connected || !t.hasLatest {
		return Missing()
	}
	return Present(t.latest)
}
