package collage

// Usage counts how often each source image has been placed.
//
// A Usage is owned by the caller and passed to the planner explicitly, so
// independent compositions never share counters by accident. MaxRepeats of
// zero means unlimited.
type Usage struct {
	Counts     map[int]int `json:"counts"`
	MaxRepeats int         `json:"max_repeats,omitempty"`
}

// NewUsage returns empty counters with the given repeat cap.
func NewUsage(maxRepeats int) *Usage {
	return &Usage{Counts: make(map[int]int), MaxRepeats: max(0, maxRepeats)}
}

// Count returns how often ref has been used.
func (u *Usage) Count(ref int) int {
	if u == nil {
		return 0
	}
	return u.Counts[ref]
}

// Record increments the counter for ref.
func (u *Usage) Record(ref int) {
	if u.Counts == nil {
		u.Counts = make(map[int]int)
	}
	u.Counts[ref]++
}

// Exhausted reports whether ref reached MaxRepeats.
func (u *Usage) Exhausted(ref int) bool {
	return u != nil && u.MaxRepeats > 0 && u.Counts[ref] >= u.MaxRepeats
}

// Total returns the sum of all counters.
func (u *Usage) Total() int {
	if u == nil {
		return 0
	}
	n := 0
	for _, c := range u.Counts {
		n += c
	}
	return n
}

// Reset clears all counters and keeps MaxRepeats.
func (u *Usage) Reset() {
	clear(u.Counts)
}
