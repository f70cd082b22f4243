package hal

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Signal is a deterministic simulated channel. Its value and connection
// state are pure functions of the time elapsed since subscription.
type Signal struct {
	Name string

	// Every is the publish interval. It is not a divisor of
	// the chart heartbeat.
	Every time.Duration

	Low, High float64
	HasLimits bool

	value func(e time.Duration) float64
	down  func(e time.Duration) bool
}

// At returns the value at elapsed time e and whether the channel is
// connected then.
func (s *Signal) At(e time.Duration) (v float64, connected bool) {
	if e < 0 {
		e = -e
	}
	if s.down != nil && s.down(e) {
		return 0, false
	}
	return s.value(e), true
}

func phase(e, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	return float64(e%period) / float64(period)
}

// noise is a stateless hash of n scaled to [0, 1).
func noise(n uint64) float64 {
	n ^= n >> 33
	n *= 0xff51afd7ed558ccd
	n ^= n >> 33
	n *= 0xc4ceb9fe1a85ec53
	n ^= n >> 33
	return float64(n>>11) / float64(1<<53)
}

var signals = map[string]*Signal{
	"SIM:SINE": {
		Every: 70 * time.Millisecond, Low: 0, High: 100, HasLimits: true,
		value: func(e time.Duration) float64 {
			return 50 + 40*math.Sin(2*math.Pi*phase(e, 10*time.Second))
		},
	},
	"SIM:RAMP": {
		Every: 150 * time.Millisecond, Low: 0, High: 10, HasLimits: true,
		value: func(e time.Duration) float64 { return 10 * phase(e, 20*time.Second) },
	},
	"SIM:SQUARE": {
		Every: 250 * time.Millisecond,
		value: func(e time.Duration) float64 {
			if phase(e, 4*time.Second) < 0.5 {
				return 80
			}
			return 20
		},
	},
	"SIM:NOISE": {
		Every: 35 * time.Millisecond, Low: 0, High: 100, HasLimits: true,
		value: func(e time.Duration) float64 {
			return 100 * noise(uint64(e/(35*time.Millisecond)))
		},
	},
	"SIM:FLAKY": {
		Every: 90 * time.Millisecond, Low: -1, High: 1, HasLimits: true,
		value: func(e time.Duration) float64 {
			if p := phase(e, 10*time.Second); p >= 0.5 && p < 0.6 {
				return math.NaN()
			}
			return math.Sin(2 * math.Pi * phase(e, 3*time.Second))
		},
		down: func(e time.Duration) bool { return phase(e, 10*time.Second) >= 0.8 },
	},
	"SIM:BIG": {
		Every: 200 * time.Millisecond, Low: 0, High: 2e6, HasLimits: true,
		value: func(e time.Duration) float64 {
			return 1e6 + 8e5*math.Sin(2*math.Pi*phase(e, 30*time.Second))
		},
	},
	"SIM:TINY": {
		Every: 110 * time.Millisecond, Low: 0, High: 0.001, HasLimits: true,
		value: func(e time.Duration) float64 {
			return 0.0005 + 0.0004*math.Cos(2*math.Pi*phase(e, 7*time.Second))
		},
	},
}

func init() {
	for name, s := range signals {
		s.Name = name
	}
}

// LookupSignal finds a simulated channel by name. Names are matched after
// trimming surrounding space.
func LookupSignal(name string) (*Signal, bool) {
	s, ok := signals[strings.TrimSpace(name)]
	return s, ok
}

// SignalNames lists the simulated channels in name order.
func SignalNames() []string {
	out := make([]string, 0, len(signals))
	for name := range signals {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
