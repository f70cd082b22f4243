package trend

import (
	"fmt"
	"time"

	"trendscope/chart"
	"trendscope/gfx"
	"trendscope/hal"
	"trendscope/kernel"
)

const (
	minPeriod = 1.0
	maxPeriod = 3600.0
)

// Task owns a chart and drives it from channel events, the heartbeat and
// keyboard input. All chart access happens on the goroutine calling Step.
type Task struct {
	log   hal.Logger
	led   hal.LED
	chans hal.Channels
	keys  <-chan hal.KeyEvent

	fb     hal.Framebuffer
	canvas *gfx.Canvas
	chart  *chart.Chart

	mb   *kernel.Mailbox[notice]
	gen  uint32
	sess *session
	subs [chart.PenCount]hal.Subscription

	lastBeat    time.Time
	lastDropped uint64
}

// New builds a task painting into h's framebuffer with font.
func New(h hal.HAL, font *gfx.TinyFont) *Task {
	if font == nil {
		font = gfx.DefaultFont()
	}
	t := &Task{
		log:   h.Logger(),
		led:   h.LED(),
		chans: h.Channels(),
		mb:    kernel.NewMailbox[notice](),
	}
	if in := h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			t.keys = kbd.Events()
		}
	}
	if disp := h.Display(); disp != nil {
		t.fb = disp.Framebuffer()
	}
	t.canvas = gfx.WrapFramebuffer(t.fb, font)
	t.chart = chart.New(font, gfx.Factory(font))
	if t.canvas != nil {
		t.chart.SetGeometry(t.canvas.Size())
	}
	return t
}

// Chart returns the owned chart. Callers must stay on the task goroutine.
func (t *Task) Chart() *chart.Chart { return t.chart }

func (t *Task) logf(format string, args ...any) {
	if t.log == nil {
		return
	}
	t.log.WriteLineString(fmt.Sprintf(format, args...))
}

// SetLive enters or leaves live mode. Entering subscribes every active pen
// under a new generation, so events from earlier sessions are ignored.
func (t *Task) SetLive(on bool) {
	if on == t.chart.Live() {
		return
	}
	t.closeSubs()
	t.gen++
	t.sess = nil
	t.lastBeat = time.Time{}
	t.chart.SetLiveMode(on)

	if !on {
		t.logf("trend: live off")
		if t.led != nil {
			t.led.Low()
		}
		return
	}

	t.logf("trend: live on")
	if t.led != nil {
		t.led.High()
	}
	if t.chans == nil {
		t.logf("trend: no channel transport: %v", hal.ErrNotImplemented)
		return
	}
	t.sess = &session{gen: t.gen, mb: t.mb}
	for i := 0; i < chart.PenCount; i++ {
		tr := t.chart.Trace(i)
		if !tr.Active() {
			continue
		}
		sub, err := t.chans.Subscribe(tr.Channel(), penHandler{s: t.sess, pen: uint8(i)})
		if err != nil {
			t.logf("trend: pen %d %q: %v", i, tr.Channel(), err)
			continue
		}
		t.subs[i] = sub
	}
}

func (t *Task) closeSubs() {
	for i, sub := range t.subs {
		if sub == nil {
			continue
		}
		if err := sub.Close(); err != nil {
			t.logf("trend: pen %d: close: %v", i, err)
		}
		t.subs[i] = nil
	}
}

// Close ends the live session, if any.
func (t *Task) Close() {
	t.SetLive(false)
}

// Step handles pending input and channel events, runs the heartbeat when
// due and repaints the framebuffer if anything changed.
func (t *Task) Step(now time.Time) error {
	t.handleKeys()
	t.drain()
	if t.lastBeat.IsZero() || now.Sub(t.lastBeat) >= chart.Heartbeat {
		t.lastBeat = now
		t.chart.Tick(now)
	}
	return t.paint()
}

// drain applies every pen update reported since the last step. Notices
// give the order pens reported in; after the mailbox overflowed every slot of
// the current session is swept as well, so no update is lost.
func (t *Task) drain() {
	t.mb.Drain(func(n notice) {
		if n.s == nil {
			return
		}
		u, ok := n.s.slots[n.pen].take()
		if ok && n.s == t.sess && n.s.gen == t.gen {
			t.apply(int(n.pen), u)
		}
	})
	d := t.mb.Dropped()
	if d == t.lastDropped {
		return
	}
	t.logf("trend: dropped %d notices", d-t.lastDropped)
	t.lastDropped = d
	if t.sess == nil {
		return
	}
	for i := range t.sess.slots {
		if u, ok := t.sess.slots[i].take(); ok {
			t.apply(i, u)
		}
	}
}

func (t *Task) apply(pen int, u update) {
	if !t.chart.Live() {
		return
	}
	if u.conn {
		// A disconnect that was followed by a reconnect still clears the
		// trace.
		if u.down {
			t.setConnected(pen, false)
		}
		if u.connected {
			t.setConnected(pen, true)
		}
	}
	if u.limits {
		t.chart.OnLimits(pen, u.low, u.high, u.valid)
	}
	if u.value {
		t.chart.OnValue(pen, u.v, u.stamp)
	}
}

func (t *Task) setConnected(pen int, connected bool) {
	tr := t.chart.Trace(pen)
	if tr == nil || tr.Connected() == connected {
		return
	}
	t.chart.OnConnectionChanged(pen, connected)
	state := "disconnected"
	if connected {
		state = "connected"
	}
	t.logf("trend: pen %d %q %s", pen, tr.Channel(), state)
}

func (t *Task) handleKeys() {
	if t.keys == nil {
		return
	}
	for {
		select {
		case ev := <-t.keys:
			t.handleKey(ev)
		default:
			return
		}
	}
}

func (t *Task) handleKey(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	switch ev.Code {
	case hal.KeyEnter:
		t.SetLive(!t.chart.Live())
	case hal.KeyEscape:
		t.SetLive(false)
	case hal.KeyUp:
		t.setPeriod(t.chart.Period() * 2)
	case hal.KeyDown:
		t.setPeriod(t.chart.Period() / 2)
	case hal.KeyLeft, hal.KeyRight:
		u := t.chart.Units()
		if ev.Code == hal.KeyRight {
			u = (u + 1) % 3
		} else {
			u = (u + 2) % 3
		}
		t.chart.SetUnits(u)
		t.logf("trend: period %g %s", t.chart.Period(), u)
	}
}

func (t *Task) setPeriod(p float64) {
	if p < minPeriod {
		p = minPeriod
	}
	if p > maxPeriod {
		p = maxPeriod
	}
	t.chart.SetPeriod(p)
	t.logf("trend: period %g %s", t.chart.Period(), t.chart.Units())
}

func (t *Task) paint() error {
	if t.canvas == nil || !t.chart.NeedsPaint() {
		return nil
	}
	t.chart.Paint(t.canvas)
	if err := t.canvas.Present(); err != nil {
		return fmt.Errorf("trend: present: %w", err)
	}
	return nil
}
