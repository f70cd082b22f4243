package kernel

import "sync/atomic"

// MailboxSlots is the fixed capacity of a Mailbox.
const MailboxSlots = 256

type slot[T any] struct {
	// turn is 2*round while the slot is free for round's producer and
	// 2*round+1 while it holds round's value.
	turn atomic.Uint64
	val  T
}

// Mailbox is a bounded multi-producer, single-consumer queue. Producers never
// block: TrySend fails when the mailbox is full. The zero value is ready to use.
type Mailbox[T any] struct {
	head  atomic.Uint64
	tail  atomic.Uint64
	slots [MailboxSlots]slot[T]

	dropped atomic.Uint64
}

// NewMailbox returns an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{}
}

// TrySend attempts to enqueue v, returning false if the mailbox is full.
func (mb *Mailbox[T]) TrySend(v T) bool {
	if mb.push(v) {
		return true
	}
	mb.dropped.Add(1)
	return false
}

func (mb *Mailbox[T]) push(v T) bool {
	for {
		head := mb.head.Load()
		s := &mb.slots[head%MailboxSlots]
		want := (head / MailboxSlots) * 2
		turn := s.turn.Load()
		switch {
		case turn == want:
			if !mb.head.CompareAndSwap(head, head+1) {
				continue
			}
			s.val = v
			s.turn.Store(want + 1)
			return true
		case turn < want:
			// Previous round not consumed yet.
			return false
		}
		// Another producer claimed head; reload.
	}
}

// TryRecv attempts to dequeue one value, returning false if empty. Only one
// goroutine may receive.
func (mb *Mailbox[T]) TryRecv() (T, bool) {
	var zero T
	tail := mb.tail.Load()
	s := &mb.slots[tail%MailboxSlots]
	want := (tail/MailboxSlots)*2 + 1
	if s.turn.Load() != want {
		return zero, false
	}
	v := s.val
	s.val = zero
	s.turn.Store(want + 1)
	mb.tail.Store(tail + 1)
	return v, true
}

// Drain passes every queued value to fn in order and returns how many there
// were.
func (mb *Mailbox[T]) Drain(fn func(T)) int {
	n := 0
	for {
		v, ok := mb.TryRecv()
		if !ok {
			return n
		}
		fn(v)
		n++
	}
}

// Dropped returns the number of failed TrySend calls.
func (mb *Mailbox[T]) Dropped() uint64 { return mb.dropped.Load() }
