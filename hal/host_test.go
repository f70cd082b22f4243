//go:build !tinygo

package hal

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"
)

type recordingHandler struct {
	conn   chan bool
	values chan float64
	limits chan [2]float64
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		conn:   make(chan bool, 16),
		values: make(chan float64, 256),
		limits: make(chan [2]float64, 16),
	}
}

func (h *recordingHandler) ConnectionChanged(c bool) { h.conn <- c }

func (h *recordingHandler) Value(v float64, _ time.Time) {
	select {
	case h.values <- v:
	default:
	}
}

func (h *recordingHandler) Limits(lo, hi float64, valid bool) {
	if valid {
		h.limits <- [2]float64{lo, hi}
	}
}

func recvBool(t *testing.T, ch <-chan bool) bool {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for connection event")
		return false
	}
}

func TestSimChannelsSubscribe(t *testing.T) {
	now := time.Unix(0, 0)
	c := newSimChannels(func() time.Time { return now })

	h := newRecordingHandler()
	sub, err := c.Subscribe("SIM:SINE", h)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	if !recvBool(t, h.conn) {
		t.Fatalf("first connection event = false, want true")
	}
	select {
	case l := <-h.limits:
		if l != [2]float64{0, 100} {
			t.Fatalf("limits = %v, want [0 100]", l)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for limits")
	}
	select {
	case v := <-h.values:
		if v != 50 {
			t.Fatalf("value at t=0 = %v, want 50", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for value")
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := sub.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestSimChannelsUnknown(t *testing.T) {
	c := newSimChannels(nil)
	_, err := c.Subscribe("PLC:TEMP", newRecordingHandler())
	if !errors.Is(err, ErrUnknownChannel) {
		t.Fatalf("Subscribe err = %v, want ErrUnknownChannel", err)
	}
}

func TestHostTimeAdvance(t *testing.T) {
	base := time.Unix(100, 0)
	tm := newHostTime(func() time.Time { return base })
	if got := tm.Now(); !got.Equal(base) {
		t.Fatalf("Now() = %v, want %v", got, base)
	}
	tm.advance(16*time.Millisecond + 600*time.Microsecond)
	if got := tm.Now().Sub(base); got != 16*time.Millisecond {
		t.Fatalf("Now()-base = %v, want 16ms", got)
	}
}

func TestHostLEDLogsTransitions(t *testing.T) {
	var buf bytes.Buffer
	h := newHost(HostConfig{}, &buf)
	h.LED().High()
	h.LED().High()
	h.LED().Low()

	if got := strings.Count(buf.String(), "led: HIGH"); got != 1 {
		t.Fatalf("HIGH lines = %d, want 1", got)
	}
	if !strings.Contains(buf.String(), "led: LOW") {
		t.Fatalf("missing LOW line in %q", buf.String())
	}
	fb := h.Display().Framebuffer()
	if fb.Width() != defaultWidth || fb.Height() != defaultHeight {
		t.Fatalf("framebuffer = %dx%d, want %dx%d", fb.Width(), fb.Height(), defaultWidth, defaultHeight)
	}
}

func TestRGB565RoundTrip(t *testing.T) {
	if got := PackRGB565(color.RGBA{R: 0xff}); got != 0xF800 {
		t.Fatalf("PackRGB565(red) = %#04x, want 0xf800", got)
	}
	for _, c := range []color.RGBA{
		{A: 0xff},
		{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		{R: 0xff, A: 0xff},
		{G: 0xff, A: 0xff},
		{B: 0xff, A: 0xff},
	} {
		if got := UnpackRGB565(PackRGB565(c)); got != c {
			t.Fatalf("UnpackRGB565(PackRGB565(%v)) = %v", c, got)
		}
	}
}

func TestHostKeyboardDropsWhenFull(t *testing.T) {
	k := newHostKeyboard()
	n := 0
	for k.push(KeyEvent{Code: KeyUp, Press: true}) {
		n++
	}
	if n != cap(k.ch) {
		t.Fatalf("queued %d events, want %d", n, cap(k.ch))
	}
	if ev := <-k.Events(); ev.Code != KeyUp || !ev.Press {
		t.Fatalf("Events() = %+v", ev)
	}
}
