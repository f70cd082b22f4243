package chart

import "math"

// LimitSource selects where one bound of a trace's display range comes from.
type LimitSource uint8

const (
	// LimitDefault uses the configured default value.
	LimitDefault LimitSource = iota
	// LimitChannel uses the display limits reported by the channel, falling
	// back to the default until the channel has reported them.
	LimitChannel
	// LimitUser uses a runtime override set with SetUserLimits, falling back
	// to the default when no override is set.
	LimitUser
)

func (s LimitSource) String() string {
	switch s {
	case LimitDefault:
		return "default"
	case LimitChannel:
		return "channel"
	case LimitUser:
		return "user"
	default:
		return "unknown"
	}
}

// ParseLimitSource is the inverse of LimitSource.String.
func ParseLimitSource(s string) (LimitSource, bool) {
	switch s {
	case "default", "":
		return LimitDefault, true
	case "channel":
		return LimitChannel, true
	case "user":
		return LimitUser, true
	default:
		return 0, false
	}
}

// Limits is the configured range policy of one trace.
type Limits struct {
	LowSource   LimitSource
	LowDefault  float64
	HighSource  LimitSource
	HighDefault float64
	// Log plots the pen on a log10 axis.
	Log bool
}

// DefaultLimits is the range a new pen starts with.
func DefaultLimits() Limits {
	return Limits{
		LowSource:   LimitDefault,
		LowDefault:  0,
		HighSource:  LimitDefault,
		HighDefault: 100,
	}
}

// ResolveRange returns the effective display range of t.
//
// valid is false when a bound fell back to its default because the requested
// source had nothing to offer, or when the range had to be widened. The
// returned range is always paintable: high > low, and both are positive for
// a log axis.
func ResolveRange(t *Trace) (low, high float64, valid bool) {
	var lowOK, highOK bool
	low, lowOK = resolveBound(t, t.limits.LowSource, t.limits.LowDefault, t.liveLow, t.userLow, t.hasUserLow)
	high, highOK = resolveBound(t, t.limits.HighSource, t.limits.HighDefault, t.liveHigh, t.userHigh, t.hasUserHigh)
	valid = lowOK && highOK

	if math.IsNaN(low) || math.IsInf(low, 0) {
		low = 0
		valid = false
	}
	if math.IsNaN(high) || math.IsInf(high, 0) || high <= low {
		high = low + 1
		valid = false
	}
	if t.limits.Log {
		l, h := SafeLogRange(low, high)
		if l != low || h != high {
			valid = false
		}
		low, high = l, h
	}
	return low, high, valid
}

func resolveBound(t *Trace, src LimitSource, def, live, user float64, hasUser bool) (float64, bool) {
	switch src {
	case LimitChannel:
		if t.connected && t.hasLiveLimits {
			return live, true
		}
		return def, false
	case LimitUser:
		if hasUser {
			return user, true
		}
		return def, false
	default:
		return def, true
	}
}

// SafeLogRange returns bounds usable on a log10 scale: both strictly
// positive and high > low.
func SafeLogRange(low, high float64) (float64, float64) {
	if !(high > 0) || math.IsInf(high, 0) {
		high = 1
	}
	if !(low > 0) || low >= high {
		low = high / 1e6
	}
	if low < 1e-12 {
		low = 1e-12
	}
	if high <= low {
		high = low * 10
	}
	return low, high
}
