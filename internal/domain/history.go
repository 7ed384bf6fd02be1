package domain

// Ramp describes the synthetic decreasing series a history is seeded with:
// entry i = clamp(Start - Step*i, Floor, Start)
type Ramp struct {
	Start int
	Step  int
	Floor int
}

// DefaultRamp returns the 100, 98, 96 ... 20 ramp
func DefaultRamp() Ramp {
	return Ramp{Start: 100, Step: 2, Floor: 20}
}

// At returns ramp entry i
func (r Ramp) At(i int) int {
	return clamp(r.Start-r.Step*i, r.Floor, r.Start)
}

// ClassifiedLevel is one history entry paired with its band
type ClassifiedLevel struct {
	Level int          `json:"level"`
	Band  SeverityBand `json:"band"`
}

// History is a bounded, newest-first sequence of battery levels.
// It is not safe for concurrent use; the owning session serializes access.
type History struct {
	capacity int
	entries  []int
}

// NewHistory creates an empty history. Capacities below 1 are raised to 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		capacity: capacity,
		entries:  make([]int, 0, capacity),
	}
}

// SeedHistory fills a new history with capacity ramp entries, index 0 being
// the first (highest) ramp value
func SeedHistory(capacity int, ramp Ramp) *History {
	h := NewHistory(capacity)
	for i := 0; i < h.capacity; i++ {
		h.entries = append(h.entries, ramp.At(i))
	}
	return h
}

// Push prepends level and evicts the oldest entry once over capacity
func (h *History) Push(level int) {
	if len(h.entries) < h.capacity {
		h.entries = append(h.entries, 0)
	}
	copy(h.entries[1:], h.entries[:len(h.entries)-1])
	h.entries[0] = level
}

// Len returns the number of stored entries
func (h *History) Len() int {
	return len(h.entries)
}

// Cap returns the maximum number of entries
func (h *History) Cap() int {
	return h.capacity
}

// Latest returns the most recent entry
func (h *History) Latest() (int, bool) {
	if len(h.entries) == 0 {
		return 0, false
	}
	return h.entries[0], true
}

// Levels returns a copy of the entries, newest first
func (h *History) Levels() []int {
	out := make([]int, len(h.entries))
	copy(out, h.entries)
	return out
}

// Renderable classifies every entry, preserving newest-first order
func (h *History) Renderable(t Thresholds) []ClassifiedLevel {
	out := make([]ClassifiedLevel, len(h.entries))
	for i, level := range h.entries {
		out[i] = ClassifiedLevel{Level: level, Band: t.Classify(level)}
	}
	return out
}
