package chart

import "time"

const (
	// Heartbeat is the rate the owner is expected to call Sampler.Tick at.
	Heartbeat = 100 * time.Millisecond
	// MinSampleInterval bounds the column rate for tiny periods or huge plots.
	MinSampleInterval = 10 * time.Millisecond
	// MaxBurst bounds the columns appended by one tick after a stall. Time
	// beyond it is dropped: the watermark still advances past every due
	// interval.
	MaxBurst = 32
)

// Schedule converts heartbeat time into whole sample columns.
//
// A zero watermark means nothing has been sampled yet: one column is taken
// immediately and the watermark starts at now. Otherwise the watermark
// advances by whole intervals only, so the column grid stays phase-locked to
// the first sample. When more than maxBurst columns are due, the excess is
// skipped: the watermark still moves past it but only maxBurst columns are
// returned.
func Schedule(now, watermark time.Time, interval time.Duration, maxBurst int) (columns int, next time.Time) {
	if watermark.IsZero() {
		return 1, now
	}
	if interval <= 0 {
		return 0, watermark
	}
	elapsed := now.Sub(watermark)
	if elapsed < interval {
		return 0, watermark
	}
	due := int64(elapsed / interval)
	next = watermark.Add(time.Duration(due) * interval)
	if maxBurst > 0 && due > int64(maxBurst) {
		due = int64(maxBurst)
	}
	return int(due), next
}

// SampleInterval is the time one horizontal pixel represents.
func SampleInterval(period time.Duration, capacity int) time.Duration {
	if capacity < 1 {
		capacity = 1
	}
	d := period / time.Duration(capacity)
	if d < MinSampleInterval {
		d = MinSampleInterval
	}
	return d
}

// Sampler turns heartbeats into column counts. It does no I/O and owns no
// timer; the caller drives Tick.
type Sampler struct {
	running   bool
	capacity  int
	period    time.Duration
	interval  time.Duration
	watermark time.Time
}

func (s *Sampler) Running() bool { return s.running }

func (s *Sampler) Interval() time.Duration { return s.interval }

func (s *Sampler) Capacity() int { return s.capacity }

func (s *Sampler) Watermark() time.Time { return s.watermark }

// Start moves the sampler to Running. It refuses while no trace is
// connected. A running sampler only has its geometry refreshed.
func (s *Sampler) Start(anyConnected bool, plotWidth int, period time.Duration) bool {
	if s.running {
		s.Configure(plotWidth, period)
		return true
	}
	if !anyConnected {
		return false
	}
	s.running = true
	s.watermark = time.Time{}
	s.Configure(plotWidth, period)
	return true
}

// Configure recomputes capacity and interval. A non-positive width leaves
// the sampler without capacity until a valid width arrives.
func (s *Sampler) Configure(plotWidth int, period time.Duration) {
	s.period = period
	if plotWidth < 1 {
		s.capacity = 0
		s.interval = 0
		return
	}
	s.capacity = plotWidth
	s.interval = SampleInterval(period, plotWidth)
}

// Stop is idempotent.
func (s *Sampler) Stop() {
	s.running = false
	s.watermark = time.Time{}
}

// Tick returns how many columns are due at now.
func (s *Sampler) Tick(now time.Time) int {
	if !s.running || s.capacity < 1 {
		return 0
	}
	n, next := Schedule(now, s.watermark, s.interval, MaxBurst)
	s.watermark = next
	return n
}
