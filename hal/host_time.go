//go:build !tinygo

package hal

import (
	"sync"
	"time"
)

const tickDur = time.Millisecond

// hostTime is a millisecond clock that only moves when the host runner
// steps or advances it.
type hostTime struct {
	mu   sync.Mutex
	base time.Time
	seq  uint64

	wall func() time.Time
	last time.Time
	acc  time.Duration
}

func newHostTime(wall func() time.Time) *hostTime {
	if wall == nil {
		wall = time.Now
	}
	return &hostTime{base: wall(), wall: wall}
}

func (t *hostTime) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.base.Add(time.Duration(t.seq) * tickDur)
}

// step advances the clock by the wall time elapsed since the previous step,
// in whole ticks.
func (t *hostTime) step() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.wall()
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.seq++
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	ticks := uint64(t.acc / tickDur)
	if ticks == 0 {
		return
	}
	t.acc = t.acc % tickDur
	t.seq += ticks
}

// advance moves the clock by exactly d, rounded down to whole ticks.
func (t *hostTime) advance(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d > 0 {
		t.seq += uint64(d / tickDur)
	}
}
