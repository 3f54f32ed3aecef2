package series

import (
	"github.com/alphapulse/alphapulse/models"
)

// DefaultHistoryCapacity bounds the signal history kept by a monitor.
const DefaultHistoryCapacity = 100

// History is a fixed-capacity ring buffer of emitted signals. It is the
// only state that outlives a single analysis call and must have exactly
// one writer (the monitor that owns it).
type History struct {
	buf   []models.Signal
	next  int
	count int
}

// NewHistory creates a ring buffer with the given capacity
// (DefaultHistoryCapacity when capacity <= 0).
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{buf: make([]models.Signal, capacity)}
}

// Push records a signal, evicting the oldest when full.
func (h *History) Push(sig models.Signal) {
	h.buf[h.next] = sig
	h.next = (h.next + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Len returns the number of stored signals.
func (h *History) Len() int { return h.count }

// Snapshot returns the stored signals oldest-first.
func (h *History) Snapshot() []models.Signal {
	out := make([]models.Signal, 0, h.count)
	start := h.next - h.count
	if start < 0 {
		start += len(h.buf)
	}
	for i := 0; i < h.count; i++ {
		out = append(out, h.buf[(start+i)%len(h.buf)])
	}
	return out
}
