package vterm

// historyLine is a row evicted from the primary screen. It is immutable once
// stored; the plain-text projection is cached at eviction time.
type historyLine struct {
	cells []Cell
	text  string
}

// scrollback is a fixed-capacity ring buffer of lines that scrolled off the
// top of the primary screen. Capacity 0 disables history entirely.
type scrollback struct {
	lines []historyLine
	head  int // next write position
	count int // stored lines, <= cap
}

func newScrollback(capacity int) *scrollback {
	return &scrollback{lines: make([]historyLine, capacity)}
}

// push stores an evicted row, overwriting the oldest line when full. The row
// is stored as-is: callers hand over ownership at eviction.
func (s *scrollback) push(cells []Cell) {
	if len(s.lines) == 0 {
		return
	}
	s.lines[s.head] = historyLine{cells: cells, text: lineText(cells)}
	s.head = (s.head + 1) % len(s.lines)
	if s.count < len(s.lines) {
		s.count++
	}
}

// len returns the number of stored lines.
func (s *scrollback) len() int {
	return s.count
}

// line returns the stored line at index i, oldest first.
func (s *scrollback) line(i int) historyLine {
	if i < 0 || i >= s.count {
		return historyLine{}
	}
	idx := (s.head - s.count + i) % len(s.lines)
	if idx < 0 {
		idx += len(s.lines)
	}
	return s.lines[idx]
}

// clear drops all history without deallocating the ring.
func (s *scrollback) clear() {
	for i := range s.lines {
		s.lines[i] = historyLine{}
	}
	s.head = 0
	s.count = 0
}
