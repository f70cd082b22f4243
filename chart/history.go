package chart

import "math"

// Sample is one buffered column of a trace: a value or a tombstone.
type Sample struct {
	v  float64
	ok bool
}

// Present returns a sample holding v. Non-finite values become tombstones.
func Present(v float64) Sample {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Sample{}
	}
	return Sample{v: v, ok: true}
}

// Missing returns a tombstone.
func Missing() Sample { return Sample{} }

// Value returns the sample value and whether the sample is present.
func (s Sample) Value() (float64, bool) { return s.v, s.ok }

// History is a fixed-capacity rolling buffer of samples, oldest first.
type History struct {
	buf   []Sample
	head  int
	count int
}

// NewHistory returns a buffer that holds at most capacity samples.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Sample, capacity)}
}

func (h *History) Len() int { return h.count }

func (h *History) Cap() int { return len(h.buf) }

// SetCapacity changes the ceiling. Shrinking drops the oldest samples.
func (h *History) SetCapacity(n int) {
	if n < 1 {
		n = 1
	}
	if n == len(h.buf) {
		return
	}
	keep := h.count
	if keep > n {
		keep = n
	}
	buf := make([]Sample, n)
	start := h.count - keep
	for i := 0; i < keep; i++ {
		buf[i] = h.At(start + i)
	}
	h.buf = buf
	h.count = keep
	h.head = keep % n
}

// Append pushes s to the back, evicting the oldest sample when full.
func (h *History) Append(s Sample) {
	h.buf[h.head] = s
	h.head++
	if h.head >= len(h.buf) {
		h.head = 0
	}
	if h.count < len(h.buf) {
		h.count++
	}
}

// At returns the i-th sample, oldest first. Out of range yields a tombstone.
func (h *History) At(i int) Sample {
	if i < 0 || i >= h.count {
		return Sample{}
	}
	start := h.head - h.count
	if start < 0 {
		start += len(h.buf)
	}
	idx := start + i
	if idx >= len(h.buf) {
		idx -= len(h.buf)
	}
	return h.buf[idx]
}

// Clear drops every sample and keeps the capacity.
func (h *History) Clear() {
	for i := range h.buf {
		h.buf[i] = Sample{}
	}
	h.head = 0
	h.count = 0
}
