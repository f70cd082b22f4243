// Package simrun replays simulated channels against a chart on a virtual
// clock, so a live session can be reproduced offline.
package simrun

import (
	"fmt"
	"time"

	"trendscope/chart"
	"trendscope/hal"
)

// Epoch is the virtual time a session starts at.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Resolution is the virtual clock step.
const Resolution = 10 * time.Millisecond

type feed struct {
	pen       int
	sig       *hal.Signal
	next      time.Duration
	connected bool
}

// Session drives c in live mode from the simulated signals its pens name.
type Session struct {
	c       *chart.Chart
	feeds   []*feed
	elapsed time.Duration
	beat    time.Duration
	columns int

	// Unknown lists pens whose channel is not a simulated signal.
	Unknown []error
}

// Start puts c in live mode and binds each active pen to its signal.
func Start(c *chart.Chart) *Session {
	s := &Session{c: c}
	c.SetLiveMode(true)
	for i := 0; i < chart.PenCount; i++ {
		t := c.Trace(i)
		if !t.Active() {
			continue
		}
		sig, ok := hal.LookupSignal(t.Channel())
		if !ok {
			s.Unknown = append(s.Unknown, fmt.Errorf("pen %d %q: %w", i, t.Channel(), hal.ErrUnknownChannel))
			continue
		}
		s.feeds = append(s.feeds, &feed{pen: i, sig: sig})
	}
	s.publish()
	s.columns += c.Tick(s.Now())
	return s
}

// Now is the current virtual time.
func (s *Session) Now() time.Time { return Epoch.Add(s.elapsed) }

// Columns is the number of columns appended so far.
func (s *Session) Columns() int { return s.columns }

// Advance moves the virtual clock forward by d, publishing channel updates
// as they fall due and running the chart heartbeat.
func (s *Session) Advance(d time.Duration) {
	end := s.elapsed + d
	for s.elapsed+Resolution <= end {
		s.elapsed += Resolution
		s.publish()
		s.beat += Resolution
		if s.beat >= chart.Heartbeat {
			s.beat = 0
			s.columns += s.c.Tick(s.Now())
		}
	}
}

func (s *Session) publish() {
	now := s.Now()
	for _, f := range s.feeds {
		if s.elapsed < f.next {
			continue
		}
		f.next = s.elapsed + f.sig.Every
		v, up := f.sig.At(s.elapsed)
		if up != f.connected {
			f.connected = up
			s.c.OnConnectionChanged(f.pen, up)
			if up {
				s.c.OnLimits(f.pen, f.sig.Low, f.sig.High, f.sig.HasLimits)
			}
		}
		if up {
			s.c.OnValue(f.pen, v, now)
		}
	}
}
