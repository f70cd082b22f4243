package trend

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"trendscope/chart"
	"trendscope/hal"
	"trendscope/kernel"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeLog struct{ lines []string }

func (l *fakeLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *fakeLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func (l *fakeLog) has(sub string) bool {
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeLED struct{ on bool }

func (l *fakeLED) High() { l.on = true }
func (l *fakeLED) Low()  { l.on = false }

type fakeSub struct{ c *fakeChannels }

func (s fakeSub) Close() error {
	s.c.closed++
	return nil
}

// fakeChannels keeps the latest handler per channel; tests call handlers
// directly.
type fakeChannels struct {
	handlers map[string]hal.ChannelHandler
	closed   int
}

func (c *fakeChannels) Subscribe(name string, h hal.ChannelHandler) (hal.Subscription, error) {
	if name == "BAD" {
		return nil, fmt.Errorf("%w: %s", hal.ErrUnknownChannel, name)
	}
	c.handlers[name] = h
	return fakeSub{c: c}, nil
}

type fakeKeyboard struct{ ch chan hal.KeyEvent }

func (k fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type fakeDisplay struct{ fb hal.Framebuffer }

func (d fakeDisplay) Framebuffer() hal.Framebuffer { return d.fb }

type fakeInput struct{ kbd fakeKeyboard }

func (i fakeInput) Keyboard() hal.Keyboard { return i.kbd }

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeHAL struct {
	log   *fakeLog
	led   *fakeLED
	fb    hal.Framebuffer
	kbd   fakeKeyboard
	clock *fakeClock
	chans *fakeChannels
}

func newFakeHAL() *fakeHAL {
	return &fakeHAL{
		log:   &fakeLog{},
		led:   &fakeLED{},
		fb:    hal.NewMemFramebuffer(320, 240),
		kbd:   fakeKeyboard{ch: make(chan hal.KeyEvent, 8)},
		clock: &fakeClock{now: t0},
		chans: &fakeChannels{handlers: map[string]hal.ChannelHandler{}},
	}
}

func (h *fakeHAL) Logger() hal.Logger     { return h.log }
func (h *fakeHAL) LED() hal.LED           { return h.led }
func (h *fakeHAL) Display() hal.Display   { return fakeDisplay{fb: h.fb} }
func (h *fakeHAL) Input() hal.Input       { return fakeInput{kbd: h.kbd} }
func (h *fakeHAL) Time() hal.Time         { return h.clock }
func (h *fakeHAL) Channels() hal.Channels { return h.chans }

func (h *fakeHAL) press(code hal.KeyCode) {
	h.kbd.ch <- hal.KeyEvent{Code: code, Press: true}
}

func (h *fakeHAL) handler(name string) hal.ChannelHandler { return h.chans.handlers[name] }

func newTask(t *testing.T, channels ...string) (*Task, *fakeHAL) {
	t.Helper()
	h := newFakeHAL()
	task := New(h, nil)
	for i, name := range channels {
		task.Chart().SetChannel(i, name)
	}
	return task, h
}

func TestSetLiveSubscribesActivePens(t *testing.T) {
	task, h := newTask(t, "A", "BAD")
	task.SetLive(true)

	if h.handler("A") == nil {
		t.Fatalf("pen 0 not subscribed")
	}
	if !h.log.has(`trend: pen 1 "BAD"`) {
		t.Fatalf("subscribe error not logged: %q", h.log.lines)
	}
	if !h.led.on {
		t.Fatalf("LED off in live mode")
	}

	task.Close()
	if h.chans.closed != 1 || h.led.on {
		t.Fatalf("after Close closed=%d led=%v, want 1,false", h.chans.closed, h.led.on)
	}
}

func TestEventsReachChart(t *testing.T) {
	task, h := newTask(t, "A")
	task.SetLive(true)
	ch := h.handler("A")
	ch.ConnectionChanged(true)
	ch.Limits(0, 10, true)
	ch.Value(5, t0)

	if err := task.Step(t0); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	tr := task.Chart().Trace(0)
	if !tr.Connected() {
		t.Fatalf("pen 0 not connected")
	}
	if v, ok := tr.History().At(0).Value(); !ok || v != 5 {
		t.Fatalf("column = %v,%v, want 5,true", v, ok)
	}
	if lo, hi, _ := chart.ResolveRange(tr); lo != 0 || hi != 100 {
		// Default limits ignore the channel's report.
		t.Fatalf("ResolveRange() = %v,%v, want 0,100", lo, hi)
	}
	if !h.log.has(`trend: pen 0 "A" connected`) {
		t.Fatalf("connection not logged: %q", h.log.lines)
	}

	painted := false
	for _, b := range h.fb.Buffer() {
		if b != 0 {
			painted = true
			break
		}
	}
	if !painted {
		t.Fatalf("framebuffer still blank after Step")
	}
}

func TestStaleGenerationIgnored(t *testing.T) {
	task, h := newTask(t, "A")
	task.SetLive(true)
	old := h.handler("A")
	task.SetLive(false)
	task.SetLive(true)

	old.ConnectionChanged(true)
	task.Step(t0)
	if task.Chart().Trace(0).Connected() {
		t.Fatalf("event from a closed session was applied")
	}

	h.handler("A").ConnectionChanged(true)
	task.Step(t0)
	if !task.Chart().Trace(0).Connected() {
		t.Fatalf("event from the current session was ignored")
	}
}

func TestHeartbeatGatesSampling(t *testing.T) {
	task, h := newTask(t, "A")
	task.SetLive(true)
	h.handler("A").ConnectionChanged(true)
	h.handler("A").Value(1, t0)
	task.Step(t0)

	hist := task.Chart().Trace(0).History()
	iv := task.Chart().Sampler().Interval()
	task.Step(t0.Add(chart.Heartbeat / 2))
	if hist.Len() != 1 {
		t.Fatalf("Len() = %d before the next heartbeat, want 1", hist.Len())
	}
	task.Step(t0.Add(10 * iv))
	if hist.Len() != 11 {
		t.Fatalf("Len() = %d, want 11", hist.Len())
	}
}

func TestKeys(t *testing.T) {
	task, h := newTask(t, "A")
	c := task.Chart()

	h.press(hal.KeyUp)
	task.Step(t0)
	if c.Period() != 2*chart.DefaultPeriod {
		t.Fatalf("Period() after Up = %v", c.Period())
	}

	c.SetPeriod(1)
	h.press(hal.KeyDown)
	task.Step(t0)
	if c.Period() != minPeriod {
		t.Fatalf("Period() after Down = %v, want %v", c.Period(), minPeriod)
	}

	h.press(hal.KeyLeft)
	task.Step(t0)
	if c.Units() != chart.UnitsMinutes {
		t.Fatalf("Units() after Left = %v, want min", c.Units())
	}
	h.press(hal.KeyRight)
	task.Step(t0)
	if c.Units() != chart.UnitsSeconds {
		t.Fatalf("Units() after Right = %v, want sec", c.Units())
	}

	h.press(hal.KeyEnter)
	task.Step(t0)
	if !c.Live() || h.handler("A") == nil {
		t.Fatalf("Enter did not start live mode")
	}
	h.press(hal.KeyEscape)
	task.Step(t0)
	if c.Live() {
		t.Fatalf("Escape left live mode on")
	}
}

func TestDisconnectSurvivesValueBurst(t *testing.T) {
	task, h := newTask(t, "A")
	task.SetLive(true)
	ch := h.handler("A")
	ch.ConnectionChanged(true)
	ch.Value(1, t0)
	task.Step(t0)

	for i := 0; i < 3*kernel.MailboxSlots; i++ {
		ch.Value(float64(i), t0)
	}
	ch.Limits(0, 10, true)
	ch.ConnectionChanged(false)
	task.Step(t0.Add(chart.Heartbeat))

	tr := task.Chart().Trace(0)
	if tr.Connected() {
		t.Fatalf("pen still connected after a disconnect behind %d values", 3*kernel.MailboxSlots)
	}
	if _, _, ok := tr.LiveLimits(); ok {
		t.Fatalf("live limits kept across the disconnect")
	}
	hist := tr.History()
	for i := 0; i < hist.Len(); i++ {
		if _, ok := hist.At(i).Value(); ok {
			t.Fatalf("column %d present after the disconnect", i)
		}
	}
}

func TestReconnectBetweenStepsClearsTrace(t *testing.T) {
	task, h := newTask(t, "A")
	task.SetLive(true)
	ch := h.handler("A")
	ch.ConnectionChanged(true)
	ch.Value(1, t0)
	task.Step(t0)

	ch.ConnectionChanged(false)
	ch.ConnectionChanged(true)
	ch.Value(7, t0)
	task.Step(t0)

	tr := task.Chart().Trace(0)
	if !tr.Connected() {
		t.Fatalf("pen disconnected after reconnect")
	}
	if tr.History().Len() != 0 {
		t.Fatalf("History().Len() = %d after a reconnect, want 0", tr.History().Len())
	}
	if v, _, ok := tr.Latest(); !ok || v != 7 {
		t.Fatalf("Latest() = %v,%v, want 7,true", v, ok)
	}
	if !h.log.has(`trend: pen 0 "A" disconnected`) {
		t.Fatalf("disconnect not logged: %q", h.log.lines)
	}
}

func TestFullMailboxDoesNotLoseUpdates(t *testing.T) {
	task, h := newTask(t, "A")
	task.SetLive(true)
	for task.mb.TrySend(notice{}) {
	}

	h.handler("A").ConnectionChanged(true)
	task.Step(t0)
	if !task.Chart().Trace(0).Connected() {
		t.Fatalf("connect lost while the mailbox was full")
	}
	if !h.log.has("trend: dropped 1 notices") {
		t.Fatalf("drop not logged: %q", h.log.lines)
	}
}
