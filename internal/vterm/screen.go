package vterm

// CursorShape enumerates the DECSCUSR cursor shapes.
type CursorShape uint8

const (
	ShapeBlock CursorShape = iota
	ShapeUnderline
	ShapeBar
)

func (s CursorShape) String() string {
	switch s {
	case ShapeUnderline:
		return "underline"
	case ShapeBar:
		return "bar"
	default:
		return "block"
	}
}

// CursorStyle is the rendered cursor appearance.
type CursorStyle struct {
	Shape    CursorShape
	Blinking bool
}

// defaultCursorStyle is a blinking block, the state after a full reset.
func defaultCursorStyle() CursorStyle {
	return CursorStyle{Shape: ShapeBlock, Blinking: true}
}

// cursor is the mutable cursor of one screen. pendingWrap means the last
// glyph filled the right margin and the wrap is deferred until the next
// printable glyph.
type cursor struct {
	row, col    int
	pendingWrap bool
}

// savedCursor is the DECSC slot: position plus the pen and origin mode that
// were active at save time.
type savedCursor struct {
	row, col int
	pen      Style
	origin   bool
}

// screen is one rows x cols grid with its own cursor, pen, scroll region,
// tab stops and saved-cursor slot. Primary and alternate screens are both
// this type; only the swap path and scrollback eviction distinguish them.
type screen struct {
	rows, cols int
	lines      [][]Cell

	cur cursor
	pen Style

	// Scroll region bounds, 0-indexed, both inclusive.
	scrollTop    int
	scrollBottom int

	origin   bool
	tabStops map[int]bool
	saved    savedCursor
}

func newScreen(cols, rows int) *screen {
	s := &screen{
		rows:         rows,
		cols:         cols,
		lines:        make([][]Cell, rows),
		scrollTop:    0,
		scrollBottom: rows - 1,
		tabStops:     make(map[int]bool),
	}
	for i := range s.lines {
		s.lines[i] = newBlankLine(cols)
	}
	s.setDefaultTabStops(0)
	return s
}

// setDefaultTabStops places a stop on every 8th column at or beyond from.
func (s *screen) setDefaultTabStops(from int) {
	for c := from; c < s.cols; c++ {
		if c%8 == 0 {
			s.tabStops[c] = true
		}
	}
}

// reset restores the screen to its freshly-constructed state.
func (s *screen) reset() {
	for i := range s.lines {
		s.lines[i] = newBlankLine(s.cols)
	}
	s.cur = cursor{}
	s.pen = Style{}
	s.scrollTop = 0
	s.scrollBottom = s.rows - 1
	s.origin = false
	s.tabStops = make(map[int]bool)
	s.setDefaultTabStops(0)
	s.saved = savedCursor{}
}

// regionTop returns the row the cursor homes to under origin mode.
func (s *screen) regionTop() int {
	if s.origin {
		return s.scrollTop
	}
	return 0
}

// regionBottom returns the lowest row addressable under origin mode.
func (s *screen) regionBottom() int {
	if s.origin {
		return s.scrollBottom
	}
	return s.rows - 1
}

// moveTo positions the cursor at an absolute (origin-relative when origin
// mode is on) row and column, clamping to bounds and clearing pending wrap.
func (s *screen) moveTo(row, col int) {
	row += s.regionTop()
	s.cur.row = clamp(row, s.regionTop(), s.regionBottom())
	s.cur.col = clamp(col, 0, s.cols-1)
	s.cur.pendingWrap = false
}

// moveRel moves the cursor by row/column deltas without scrolling. Vertical
// motion stops at the scroll-region edge when the cursor starts inside it.
func (s *screen) moveRel(dRow, dCol int) {
	top, bottom := 0, s.rows-1
	if s.cur.row >= s.scrollTop {
		top = s.scrollTop
	}
	if s.cur.row <= s.scrollBottom {
		bottom = s.scrollBottom
	}
	s.cur.row = clamp(s.cur.row+dRow, top, bottom)
	s.cur.col = clamp(s.cur.col+dCol, 0, s.cols-1)
	s.cur.pendingWrap = false
}

// setColumn moves the cursor to an absolute column on the current row.
func (s *screen) setColumn(col int) {
	s.cur.col = clamp(col, 0, s.cols-1)
	s.cur.pendingWrap = false
}

// setRow moves the cursor to an absolute row, keeping the column.
func (s *screen) setRow(row int) {
	row += s.regionTop()
	s.cur.row = clamp(row, s.regionTop(), s.regionBottom())
	s.cur.pendingWrap = false
}

// setScrollRegion installs a scroll region from 0-indexed inclusive bounds.
// Invalid regions are ignored; a valid change homes the cursor.
func (s *screen) setScrollRegion(top, bottom int) {
	top = clamp(top, 0, s.rows-1)
	bottom = clamp(bottom, 0, s.rows-1)
	if top >= bottom {
		return
	}
	s.scrollTop = top
	s.scrollBottom = bottom
	s.moveTo(0, 0)
}

// saveCursor records the DECSC state.
func (s *screen) saveCursor() {
	s.saved = savedCursor{row: s.cur.row, col: s.cur.col, pen: s.pen, origin: s.origin}
}

// restoreCursor reinstates the DECSC state. With nothing saved this homes the
// cursor with a default pen, matching a fresh slot.
func (s *screen) restoreCursor() {
	s.cur.row = clamp(s.saved.row, 0, s.rows-1)
	s.cur.col = clamp(s.saved.col, 0, s.cols-1)
	s.cur.pendingWrap = false
	s.pen = s.saved.pen
	s.origin = s.saved.origin
}

// scrollUp shifts the scroll region up by n rows and returns the rows pushed
// out of the region's top, oldest first. The caller decides whether they go
// to scrollback.
func (s *screen) scrollUp(n int) [][]Cell {
	if n <= 0 {
		return nil
	}
	span := s.scrollBottom - s.scrollTop + 1
	if n > span {
		n = span
	}
	evicted := make([][]Cell, 0, n)
	for i := 0; i < n; i++ {
		evicted = append(evicted, s.lines[s.scrollTop+i])
	}
	copy(s.lines[s.scrollTop:], s.lines[s.scrollTop+n:s.scrollBottom+1])
	for r := s.scrollBottom - n + 1; r <= s.scrollBottom; r++ {
		s.lines[r] = newBlankLine(s.cols)
	}
	return evicted
}

// scrollDown shifts the scroll region down by n rows; rows leaving the
// region's bottom are discarded.
func (s *screen) scrollDown(n int) {
	if n <= 0 {
		return
	}
	span := s.scrollBottom - s.scrollTop + 1
	if n > span {
		n = span
	}
	copy(s.lines[s.scrollTop+n:s.scrollBottom+1], s.lines[s.scrollTop:s.scrollBottom+1-n])
	for r := s.scrollTop; r < s.scrollTop+n; r++ {
		s.lines[r] = newBlankLine(s.cols)
	}
}

// lineFeed advances the cursor one row, scrolling the region when the cursor
// sits on its bottom row. Returns any rows evicted from the region top.
func (s *screen) lineFeed() [][]Cell {
	s.cur.pendingWrap = false
	if s.cur.row == s.scrollBottom {
		return s.scrollUp(1)
	}
	if s.cur.row < s.rows-1 {
		s.cur.row++
	}
	return nil
}

// reverseIndex moves the cursor one row up, scrolling the region down when
// the cursor sits on its top row.
func (s *screen) reverseIndex() {
	s.cur.pendingWrap = false
	if s.cur.row == s.scrollTop {
		s.scrollDown(1)
		return
	}
	if s.cur.row > 0 {
		s.cur.row--
	}
}

// wrap resolves a deferred wrap: carriage return plus line feed.
func (s *screen) wrap() [][]Cell {
	s.cur.col = 0
	return s.lineFeed()
}

// clearWideAt blanks the full wide-glyph pair covering (row, col), if any,
// so a partial overwrite never leaves an orphaned half.
func (s *screen) clearWideAt(row, col int) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return
	}
	c := s.lines[row][col]
	if c.Continued && col > 0 {
		s.lines[row][col-1] = blankCell()
		s.lines[row][col] = blankCell()
		return
	}
	if c.Width == 2 && col+1 < s.cols {
		s.lines[row][col] = blankCell()
		s.lines[row][col+1] = blankCell()
	}
}

// writeGlyph paints a printable glyph at the cursor, resolving any deferred
// wrap first. Wide glyphs that no longer fit before the right margin wrap
// whole; they never split across rows. Returns rows evicted by wrapping.
func (s *screen) writeGlyph(glyph string, width int) [][]Cell {
	var evicted [][]Cell
	if width == 2 && s.cols < 2 {
		width = 1 // degenerate single-column grid; wide glyphs cannot pair
	}
	if s.cur.pendingWrap {
		evicted = append(evicted, s.wrap()...)
	}
	if width == 2 && s.cur.col >= s.cols-1 {
		evicted = append(evicted, s.wrap()...)
	}
	row, col := s.cur.row, s.cur.col
	s.clearWideAt(row, col)
	if width == 2 {
		s.clearWideAt(row, col+1)
	}
	s.lines[row][col] = Cell{Glyph: glyph, Width: width, Style: s.pen}
	if width == 2 {
		s.lines[row][col+1] = Cell{Width: 0, Continued: true, Style: s.pen}
	}
	if col+width >= s.cols {
		s.cur.col = s.cols - 1
		s.cur.pendingWrap = true
	} else {
		s.cur.col = col + width
	}
	return evicted
}

// mergeCombining folds a zero-width mark into the previously painted glyph.
// With no previous cell on the row the mark is dropped.
func (s *screen) mergeCombining(mark string) {
	row, col := s.cur.row, s.cur.col
	if !s.cur.pendingWrap {
		if col == 0 {
			return
		}
		col--
	}
	if s.lines[row][col].Continued && col > 0 {
		col--
	}
	c := &s.lines[row][col]
	if c.Glyph == "" {
		return
	}
	c.Glyph += mark
}

// insertLines inserts n blank rows at the cursor, pushing rows below it to
// the region bottom. No-op when the cursor is outside the scroll region.
func (s *screen) insertLines(n int) {
	if s.cur.row < s.scrollTop || s.cur.row > s.scrollBottom || n <= 0 {
		return
	}
	span := s.scrollBottom - s.cur.row + 1
	if n > span {
		n = span
	}
	copy(s.lines[s.cur.row+n:s.scrollBottom+1], s.lines[s.cur.row:s.scrollBottom+1-n])
	for r := s.cur.row; r < s.cur.row+n; r++ {
		s.lines[r] = newBlankLine(s.cols)
	}
	s.cur.pendingWrap = false
}

// deleteLines removes n rows at the cursor, pulling rows up from the region
// bottom. No-op when the cursor is outside the scroll region.
func (s *screen) deleteLines(n int) {
	if s.cur.row < s.scrollTop || s.cur.row > s.scrollBottom || n <= 0 {
		return
	}
	span := s.scrollBottom - s.cur.row + 1
	if n > span {
		n = span
	}
	copy(s.lines[s.cur.row:s.scrollBottom+1-n], s.lines[s.cur.row+n:s.scrollBottom+1])
	for r := s.scrollBottom - n + 1; r <= s.scrollBottom; r++ {
		s.lines[r] = newBlankLine(s.cols)
	}
	s.cur.pendingWrap = false
}

// insertChars shifts cells right of the cursor further right by n, filling
// the gap with blanks. Cells pushed past the margin are lost.
func (s *screen) insertChars(n int) {
	if n <= 0 {
		return
	}
	row, col := s.cur.row, s.cur.col
	if n > s.cols-col {
		n = s.cols - col
	}
	s.clearWideAt(row, col)
	line := s.lines[row]
	copy(line[col+n:], line[col:s.cols-n])
	for i := col; i < col+n; i++ {
		line[i] = blankCell()
	}
	s.fixWideBoundaries(row)
}

// deleteChars removes n cells at the cursor, shifting the rest of the row
// left and back-filling with blanks.
func (s *screen) deleteChars(n int) {
	if n <= 0 {
		return
	}
	row, col := s.cur.row, s.cur.col
	if n > s.cols-col {
		n = s.cols - col
	}
	s.clearWideAt(row, col)
	line := s.lines[row]
	copy(line[col:], line[col+n:])
	for i := s.cols - n; i < s.cols; i++ {
		line[i] = blankCell()
	}
	s.fixWideBoundaries(row)
}

// eraseChars blanks n cells starting at the cursor without shifting.
func (s *screen) eraseChars(n int) {
	if n <= 0 {
		return
	}
	row, col := s.cur.row, s.cur.col
	end := col + n
	if end > s.cols {
		end = s.cols
	}
	s.blankRange(row, col, end-1)
}

// blankRange blanks the inclusive cell range [from, to] on a row, widening
// the range as needed so no wide-glyph pair is cut in half.
func (s *screen) blankRange(row, from, to int) {
	if from > 0 && s.lines[row][from].Continued {
		from--
	}
	if to+1 < s.cols && s.lines[row][to].Width == 2 {
		to++
	}
	for c := from; c <= to; c++ {
		s.lines[row][c] = blankCell()
	}
}

// fixWideBoundaries repairs wide-pair invariants after a row shift: any
// continuation without its primary, or primary without its continuation,
// becomes a blank.
func (s *screen) fixWideBoundaries(row int) {
	line := s.lines[row]
	for c := 0; c < s.cols; c++ {
		if line[c].Continued {
			if c == 0 || line[c-1].Width != 2 {
				line[c] = blankCell()
			}
			continue
		}
		if line[c].Width == 2 && (c+1 >= s.cols || !line[c+1].Continued) {
			line[c] = blankCell()
		}
	}
}

// eraseLine implements EL: 0 = cursor to end, 1 = start to cursor, 2 = all.
func (s *screen) eraseLine(mode int) {
	row, col := s.cur.row, s.cur.col
	switch mode {
	case 0:
		s.blankRange(row, col, s.cols-1)
	case 1:
		s.blankRange(row, 0, col)
	case 2:
		s.blankRange(row, 0, s.cols-1)
	}
}

// eraseDisplay implements ED modes 0-2. Mode 3 (scrollback) is handled by
// the owning terminal.
func (s *screen) eraseDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseLine(0)
		for r := s.cur.row + 1; r < s.rows; r++ {
			s.lines[r] = newBlankLine(s.cols)
		}
	case 1:
		s.eraseLine(1)
		for r := 0; r < s.cur.row; r++ {
			s.lines[r] = newBlankLine(s.cols)
		}
	case 2:
		for r := 0; r < s.rows; r++ {
			s.lines[r] = newBlankLine(s.cols)
		}
	}
}

// setTabStop marks the cursor column as a tab stop.
func (s *screen) setTabStop() {
	s.tabStops[s.cur.col] = true
}

// clearTabStop removes the stop at the cursor column.
func (s *screen) clearTabStop() {
	delete(s.tabStops, s.cur.col)
}

// clearAllTabStops removes every stop.
func (s *screen) clearAllTabStops() {
	s.tabStops = make(map[int]bool)
}

// tab advances the cursor to the next tab stop, or the right margin when no
// stops remain.
func (s *screen) tab() {
	s.cur.pendingWrap = false
	for c := s.cur.col + 1; c < s.cols; c++ {
		if s.tabStops[c] {
			s.cur.col = c
			return
		}
	}
	s.cur.col = s.cols - 1
}

// resize regrows the grid, preserving overlapping content. The scroll region
// resets to the full screen and the cursor is clamped into bounds; pending
// wrap survives only if the cursor still sits on the right margin.
func (s *screen) resize(cols, rows int) {
	if cols == s.cols && rows == s.rows {
		return
	}
	next := make([][]Cell, rows)
	for r := range next {
		next[r] = newBlankLine(cols)
		if r < s.rows {
			copy(next[r], s.lines[r][:minInt(cols, s.cols)])
		}
	}
	oldCols := s.cols
	s.lines = next
	s.cols = cols
	s.rows = rows
	s.scrollTop = 0
	s.scrollBottom = rows - 1
	s.cur.row = clamp(s.cur.row, 0, rows-1)
	s.cur.col = clamp(s.cur.col, 0, cols-1)
	if s.cur.col != cols-1 {
		s.cur.pendingWrap = false
	}
	if cols > oldCols {
		s.setDefaultTabStops(oldCols)
	}
	for r := 0; r < rows; r++ {
		s.fixWideBoundaries(r)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
