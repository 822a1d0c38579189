package state

// ScrollTracker debounces scroll-to-latest. Observe reports growth of the
// active sequence once; repeated observations of the same length, or a
// shrink, report nothing.
type ScrollTracker struct {
	last int
}

// Observe records the active sequence length and reports whether it grew
// since the previous observation.
func (t *ScrollTracker) Observe(n int) bool {
	grew := n > t.last
	t.last = n
	return grew
}

// Reset records n as seen without reporting growth. Call it when the active
// conversation changes.
func (t *ScrollTracker) Reset(n int) {
	t.last = n
}

// Last returns the most recently observed length.
func (t *ScrollTracker) Last() int {
	return t.last
}
