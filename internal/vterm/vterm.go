package vterm

import (
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ScreenKind identifies which of the two screens is active.
type ScreenKind uint8

const (
	// Primary is the scrollback-backed screen.
	Primary ScreenKind = iota
	// Alternate is the fixed-size screen used by full-screen applications.
	Alternate
)

func (k ScreenKind) String() string {
	if k == Alternate {
		return "alternate"
	}
	return "primary"
}

// DefaultScrollback is the history capacity used when none is configured.
const DefaultScrollback = 1000

// VTerm is a single terminal instance: two screens, a cursor, scrollback
// history, and a viewport over it. It is advanced only by sequential calls;
// there is no internal locking, and the owner serializes Write/Resize against
// snapshots.
type VTerm struct {
	cols, rows int

	primary   *screen
	alternate *screen
	active    ScreenKind

	cursorVisible bool
	cursorStyle   CursorStyle

	history *scrollback
	viewTop int
	follow  bool

	parser *parser
}

// Option configures a VTerm at construction.
type Option func(*VTerm) error

// WithScrollback sets the history capacity in lines. Zero disables history.
func WithScrollback(capacity int) Option {
	return func(t *VTerm) error {
		if capacity < 0 {
			return fmt.Errorf("vterm: negative scrollback capacity %d", capacity)
		}
		t.history = newScrollback(capacity)
		return nil
	}
}

// New creates a terminal with the given dimensions. Dimensions must be
// positive; construction is the only operation that can fail.
func New(cols, rows int, opts ...Option) (*VTerm, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("vterm: invalid dimensions %dx%d", cols, rows)
	}
	t := &VTerm{
		cols:          cols,
		rows:          rows,
		primary:       newScreen(cols, rows),
		alternate:     newScreen(cols, rows),
		active:        Primary,
		cursorVisible: true,
		cursorStyle:   defaultCursorStyle(),
		follow:        true,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	if t.history == nil {
		t.history = newScrollback(DefaultScrollback)
	}
	t.parser = newParser(t)
	return t, nil
}

// scr returns the active screen.
func (t *VTerm) scr() *screen {
	if t.active == Alternate {
		return t.alternate
	}
	return t.primary
}

// Size returns the current dimensions.
func (t *VTerm) Size() (cols, rows int) {
	return t.cols, t.rows
}

// Write feeds raw child-process output through the interpreter. It never
// fails and always reports the full chunk consumed; malformed escape
// sequences are absorbed without corrupting the grid. Implements io.Writer.
func (t *VTerm) Write(p []byte) (int, error) {
	t.parser.parse(p)
	if t.follow {
		t.viewTop = t.history.len()
	}
	return len(p), nil
}

// WriteString feeds text output through the interpreter.
func (t *VTerm) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

// Resize changes the terminal dimensions. Non-positive dimensions are
// ignored entirely.
func (t *VTerm) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	t.primary.resize(cols, rows)
	t.alternate.resize(cols, rows)
	t.cols = cols
	t.rows = rows
	t.clampViewport()
}

// ScrollViewport moves the viewport by delta rows: negative toward older
// history, positive toward the live screen. Leaving the bottom clears
// follow-output; returning to it re-asserts follow-output.
func (t *VTerm) ScrollViewport(delta int) {
	if delta == 0 {
		return
	}
	t.viewTop = clamp(t.viewTop+delta, 0, t.history.len())
	t.follow = t.viewTop == t.history.len()
}

// SetFollowOutput pins (or unpins) the viewport to the live screen bottom.
func (t *VTerm) SetFollowOutput(pin bool) {
	t.follow = pin
	if pin {
		t.viewTop = t.history.len()
	}
}

// clampViewport keeps the viewport inside the available history after
// history or dimension changes.
func (t *VTerm) clampViewport() {
	if t.follow {
		t.viewTop = t.history.len()
		return
	}
	t.viewTop = clamp(t.viewTop, 0, t.history.len())
}

// evict routes rows scrolled off a region top into history. Only the primary
// screen keeps history, and only when the scroll region's top row coincides
// with the screen's top row; rows above a lowered region top are pinned
// status rows and are never produced here.
func (t *VTerm) evict(lines [][]Cell) {
	if len(lines) == 0 {
		return
	}
	if t.active != Primary || t.primary.scrollTop != 0 {
		return
	}
	for _, line := range lines {
		t.history.push(line)
	}
}

// print paints one printable rune at the cursor.
func (t *VTerm) print(r rune) {
	if r == utf8.RuneError {
		r = '�'
	}
	s := t.scr()
	w := runewidth.RuneWidth(r)
	if w == 0 {
		s.mergeCombining(string(r))
		return
	}
	if w > 2 {
		w = 2
	}
	t.evict(s.writeGlyph(string(r), w))
}

// execute handles a C0 control byte.
func (t *VTerm) execute(b byte) {
	s := t.scr()
	switch b {
	case '\n', '\v', '\f':
		t.evict(s.lineFeed())
	case '\r':
		s.setColumn(0)
	case '\b':
		if s.cur.col > 0 {
			s.cur.col--
		}
		s.cur.pendingWrap = false
	case '\t':
		s.tab()
	}
	// BEL and remaining C0 bytes are deliberate no-ops.
}

// dispatchEsc handles single-character ESC sequences.
func (t *VTerm) dispatchEsc(b byte) {
	s := t.scr()
	switch b {
	case '7': // DECSC
		s.saveCursor()
	case '8': // DECRC
		s.restoreCursor()
	case 'D': // IND
		t.evict(s.lineFeed())
	case 'E': // NEL
		t.evict(s.lineFeed())
		s.setColumn(0)
	case 'M': // RI
		s.reverseIndex()
	case 'H': // HTS
		s.setTabStop()
	case 'c': // RIS
		t.fullReset()
	case '=', '>': // keypad modes, not modeled
	}
}

// fullReset restores the terminal to its constructed state on the primary
// screen. Scrollback history survives; only the live state resets.
func (t *VTerm) fullReset() {
	t.primary.reset()
	t.alternate.reset()
	t.active = Primary
	t.cursorVisible = true
	t.cursorStyle = defaultCursorStyle()
	t.clampViewport()
}

// handleOSC consumes an Operating System Command string. Titles, color
// queries and the palette probe's traffic land here; the oracle tolerates
// them without modeling their content.
func (t *VTerm) handleOSC(data []byte) {
	_ = data
}

// dispatchCSI executes one decoded CSI sequence. Unknown final bytes are
// deliberate no-ops: the sequence was already consumed safely.
func (t *VTerm) dispatchCSI(c csiSeq) {
	if c.private == '?' {
		t.dispatchPrivate(c)
		return
	}
	if c.private != 0 {
		return
	}
	s := t.scr()
	switch c.final {
	case 'A': // CUU
		s.moveRel(-c.param(0, 1), 0)
	case 'B': // CUD
		s.moveRel(c.param(0, 1), 0)
	case 'C': // CUF
		s.moveRel(0, c.param(0, 1))
	case 'D': // CUB
		s.moveRel(0, -c.param(0, 1))
	case 'E': // CNL
		s.moveRel(c.param(0, 1), 0)
		s.setColumn(0)
	case 'F': // CPL
		s.moveRel(-c.param(0, 1), 0)
		s.setColumn(0)
	case 'G', '`': // CHA / HPA
		s.setColumn(c.param(0, 1) - 1)
	case 'H', 'f': // CUP / HVP
		s.moveTo(c.param(0, 1)-1, c.param(1, 1)-1)
	case 'I': // CHT
		for i := c.param(0, 1); i > 0; i-- {
			s.tab()
		}
	case 'J': // ED
		t.eraseDisplay(c.param(0, 0))
	case 'K': // EL
		s.eraseLine(c.param(0, 0))
	case 'L': // IL
		s.insertLines(c.param(0, 1))
	case 'M': // DL
		s.deleteLines(c.param(0, 1))
	case 'P': // DCH
		s.deleteChars(c.param(0, 1))
	case '@': // ICH
		s.insertChars(c.param(0, 1))
	case 'S': // SU
		t.evict(s.scrollUp(c.param(0, 1)))
	case 'T': // SD
		s.scrollDown(c.param(0, 1))
	case 'X': // ECH
		s.eraseChars(c.param(0, 1))
	case 'd': // VPA
		s.setRow(c.param(0, 1) - 1)
	case 'g': // TBC
		switch c.param(0, 0) {
		case 0:
			s.clearTabStop()
		case 3:
			s.clearAllTabStops()
		}
	case 'm': // SGR
		t.applySGR(c.params)
	case 'r': // DECSTBM; the bare form resets to the full screen
		top := c.param(0, 1) - 1
		bottom := c.param(1, t.rows) - 1
		if len(c.params) == 0 || (top == 0 && bottom == t.rows-1) {
			s.scrollTop = 0
			s.scrollBottom = t.rows - 1
			s.moveTo(0, 0)
			return
		}
		s.setScrollRegion(top, bottom)
	case 's': // ANSI save cursor
		s.saveCursor()
	case 'u': // ANSI restore cursor
		s.restoreCursor()
	case 'q':
		if c.inter == ' ' { // DECSCUSR
			t.setCursorStyle(c.param(0, 0))
		}
	}
}

// dispatchPrivate handles DEC private sequences (CSI ? ...).
func (t *VTerm) dispatchPrivate(c csiSeq) {
	set := false
	switch c.final {
	case 'h':
		set = true
	case 'l':
	default:
		return
	}
	for _, mode := range c.params {
		t.setPrivateMode(mode, set)
	}
}

// setPrivateMode applies one DEC private mode toggle. Modes outside the
// modeled set are consumed without effect.
func (t *VTerm) setPrivateMode(mode int, set bool) {
	switch mode {
	case 6: // DECOM
		s := t.scr()
		s.origin = set
		s.moveTo(0, 0)
	case 25: // DECTCEM
		t.cursorVisible = set
	case 47, 1047: // alternate screen, no cursor bookkeeping
		if set {
			t.enterAlternate(false)
		} else {
			t.exitAlternate(false)
		}
	case 1048: // cursor save/restore only
		if set {
			t.primary.saveCursor()
		} else {
			t.primary.restoreCursor()
		}
	case 1049: // save cursor + alternate screen + clear on entry
		if set {
			t.primary.saveCursor()
			t.enterAlternate(true)
		} else {
			t.exitAlternate(true)
		}
	}
}

// enterAlternate switches to the alternate screen. When clear is set the
// alternate grid is blanked and the cursor carries over from the primary.
func (t *VTerm) enterAlternate(clear bool) {
	if t.active == Alternate {
		return
	}
	if clear {
		for r := range t.alternate.lines {
			t.alternate.lines[r] = newBlankLine(t.alternate.cols)
		}
		t.alternate.cur = t.primary.cur
		t.alternate.pen = t.primary.pen
	}
	t.active = Alternate
}

// exitAlternate returns to the primary screen, optionally restoring the
// cursor saved at entry.
func (t *VTerm) exitAlternate(restoreCursor bool) {
	if t.active == Primary {
		return
	}
	t.active = Primary
	if restoreCursor {
		t.primary.restoreCursor()
	}
}

// eraseDisplay implements ED including mode 3 (drop scrollback only).
func (t *VTerm) eraseDisplay(mode int) {
	if mode == 3 {
		t.history.clear()
		t.clampViewport()
		return
	}
	t.scr().eraseDisplay(mode)
}

// setCursorStyle applies DECSCUSR. Out-of-range values fall back to the
// nearest valid style.
func (t *VTerm) setCursorStyle(n int) {
	if n < 0 {
		n = 0
	}
	if n > 6 {
		n = 6
	}
	switch n {
	case 0, 1:
		t.cursorStyle = CursorStyle{Shape: ShapeBlock, Blinking: true}
	case 2:
		t.cursorStyle = CursorStyle{Shape: ShapeBlock, Blinking: false}
	case 3:
		t.cursorStyle = CursorStyle{Shape: ShapeUnderline, Blinking: true}
	case 4:
		t.cursorStyle = CursorStyle{Shape: ShapeUnderline, Blinking: false}
	case 5:
		t.cursorStyle = CursorStyle{Shape: ShapeBar, Blinking: true}
	case 6:
		t.cursorStyle = CursorStyle{Shape: ShapeBar, Blinking: false}
	}
}

// applySGR folds a Select Graphic Rendition parameter list into the pen.
// Truncated or unrecognized extended-color specs are ignored without
// touching unrelated attributes.
func (t *VTerm) applySGR(params []int) {
	s := t.scr()
	if len(params) == 0 {
		s.pen = Style{}
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			s.pen = Style{}
		case p == 1:
			s.pen.Bold = true
		case p == 2:
			s.pen.Dim = true
		case p == 3:
			s.pen.Italic = true
		case p == 4:
			s.pen.Underline = true
		case p == 7:
			s.pen.Inverse = true
		case p == 21:
			s.pen.Bold = false
		case p == 22:
			s.pen.Bold = false
			s.pen.Dim = false
		case p == 23:
			s.pen.Italic = false
		case p == 24:
			s.pen.Underline = false
		case p == 27:
			s.pen.Inverse = false
		case p >= 30 && p <= 37:
			s.pen.FG = Indexed(uint8(p - 30))
		case p == 39:
			s.pen.FG = Color{}
		case p >= 40 && p <= 47:
			s.pen.BG = Indexed(uint8(p - 40))
		case p == 49:
			s.pen.BG = Color{}
		case p >= 90 && p <= 97:
			s.pen.FG = Indexed(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			s.pen.BG = Indexed(uint8(p - 100 + 8))
		case p == 38 || p == 48:
			color, consumed, ok := parseExtendedColor(params[i+1:])
			i += consumed
			if !ok {
				continue
			}
			if p == 38 {
				s.pen.FG = color
			} else {
				s.pen.BG = color
			}
		}
	}
}

// parseExtendedColor decodes the tail of a 38/48 SGR spec and reports how
// many parameters it consumed. A malformed spec, whether truncated or led by
// an unrecognized subtype, consumes the remaining parameters: without a known
// lead there is no way to tell payload from unrelated attributes, and
// reinterpreting a color payload as attributes is worse than dropping it.
func parseExtendedColor(rest []int) (c Color, consumed int, ok bool) {
	if len(rest) == 0 {
		return Color{}, 0, false
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return Color{}, len(rest), false
		}
		return Indexed(uint8(clamp(rest[1], 0, 255))), 2, true
	case 2:
		if len(rest) < 4 {
			return Color{}, len(rest), false
		}
		r := uint8(clamp(rest[1], 0, 255))
		g := uint8(clamp(rest[2], 0, 255))
		b := uint8(clamp(rest[3], 0, 255))
		return RGB(r, g, b), 4, true
	default:
		return Color{}, len(rest), false
	}
}
