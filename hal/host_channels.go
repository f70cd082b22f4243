//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
	"time"
)

// simChannels publishes simulated signals, one goroutine per subscription.
type simChannels struct {
	now func() time.Time
}

func newSimChannels(now func() time.Time) *simChannels {
	if now == nil {
		now = time.Now
	}
	return &simChannels{now: now}
}

func (c *simChannels) Subscribe(name string, h ChannelHandler) (Subscription, error) {
	sig, ok := LookupSignal(name)
	if !ok {
		return nil, fmt.Errorf("channels: subscribe %q: %w", name, ErrUnknownChannel)
	}
	if h == nil {
		return nil, fmt.Errorf("channels: subscribe %q: nil handler", name)
	}
	sub := &simSubscription{done: make(chan struct{})}
	go sub.run(sig, h, c.now)
	return sub, nil
}

type simSubscription struct {
	once sync.Once
	done chan struct{}
}

func (s *simSubscription) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *simSubscription) run(sig *Signal, h ChannelHandler, now func() time.Time) {
	t0 := now()
	connected := false

	publish := func() {
		at := now()
		v, up := sig.At(at.Sub(t0))
		if up != connected {
			connected = up
			h.ConnectionChanged(up)
			if up {
				h.Limits(sig.Low, sig.High, sig.HasLimits)
			}
		}
		if up {
			h.Value(v, at)
		}
	}

	publish()
	tk := time.NewTicker(sig.Every)
	defer tk.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-tk.C:
			publish()
		}
	}
}
