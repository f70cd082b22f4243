package trend

import (
	"sync"
	"time"

	"trendscope/chart"
	"trendscope/kernel"
)

// update is everything one pen reported since the task last looked.
// Connection changes and limits are latched; values overwrite each other.
type update struct {
	conn      bool // a connection change was reported
	down      bool // at least one of them was a disconnect
	connected bool

	limits bool
	valid  bool
	low    float64
	high   float64

	value bool
	v     float64
	stamp time.Time
}

type penSlot struct {
	mu      sync.Mutex
	pending bool
	u       update
}

// take returns and resets the pending update.
func (s *penSlot) take() (update, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		return update{}, false
	}
	u := s.u
	s.u = update{}
	s.pending = false
	return u, true
}

// session is one live-mode subscription round. Handlers of earlier sessions
// keep writing into their own slots, which the task never applies.
type session struct {
	gen   uint32
	mb    *kernel.Mailbox[notice]
	slots [chart.PenCount]penSlot
}

// notice tells the task that a pen slot has something pending. At most one
// notice per slot is queued at a time.
type notice struct {
	s   *session
	pen uint8
}

// penHandler folds one pen's channel callbacks into its session slot.
type penHandler struct {
	s   *session
	pen uint8
}

func (h penHandler) record(fn func(u *update)) {
	sl := &h.s.slots[h.pen]
	sl.mu.Lock()
	fn(&sl.u)
	first := !sl.pending
	sl.pending = true
	sl.mu.Unlock()
	if first {
		// A full mailbox is noticed by the task, which then sweeps the slots.
		h.s.mb.TrySend(notice{s: h.s, pen: h.pen})
	}
}

func (h penHandler) ConnectionChanged(connected bool) {
	h.record(func(u *update) {
		u.conn = true
		u.connected = connected
		if !connected {
			u.down = true
			u.limits = false
		}
		u.value = false
	})
}

func (h penHandler) Value(v float64, stamp time.Time) {
	h.record(func(u *update) {
		u.value = true
		u.v, u.stamp = v, stamp
	})
}

func (h penHandler) Limits(low, high float64, valid bool) {
	h.record(func(u *update) {
		u.limits = true
		u.low, u.high, u.valid = low, high, valid
	})
}
