package vterm

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Cursor is the cursor state exposed in a Frame.
type Cursor struct {
	Row, Col int
	Visible  bool
	Style    CursorStyle
}

// Viewport describes which window of history plus live screen a Frame shows.
// While FollowOutput is true, Top+rows always equals TotalRows.
type Viewport struct {
	Top          int
	TotalRows    int
	FollowOutput bool
}

// Frame is an immutable snapshot of terminal state. It shares no storage
// with the live grid: a caller holding a Frame is unaffected by later
// writes. Hash is empty when the snapshot was taken without hashing.
type Frame struct {
	Cols, Rows   int
	ActiveScreen ScreenKind
	Cursor       Cursor
	Viewport     Viewport
	Lines        []string // plain text, one per visible row
	RichLines    [][]Cell // styled cells, one row per visible row
	Hash         string
}

// Snapshot captures the current terminal state including its content hash.
func (t *VTerm) Snapshot() Frame {
	f := t.project()
	f.Hash = hashFrame(f)
	return f
}

// SnapshotWithoutHash captures the current terminal state, skipping the hash
// computation for callers that poll frequently and only need text.
func (t *VTerm) SnapshotWithoutHash() Frame {
	return t.project()
}

// project builds the frame for the current viewport: history lines above,
// live grid rows below, all copied out of the mutable state.
func (t *VTerm) project() Frame {
	f := Frame{
		Cols:         t.cols,
		Rows:         t.rows,
		ActiveScreen: t.active,
		Cursor: Cursor{
			Row:     t.scr().cur.row,
			Col:     t.scr().cur.col,
			Visible: t.cursorVisible,
			Style:   t.cursorStyle,
		},
		Lines:     make([]string, t.rows),
		RichLines: make([][]Cell, t.rows),
	}

	if t.active == Alternate {
		f.Viewport = Viewport{Top: 0, TotalRows: t.rows, FollowOutput: t.follow}
		for r := 0; r < t.rows; r++ {
			f.RichLines[r] = cloneLine(t.alternate.lines[r])
			f.Lines[r] = lineText(f.RichLines[r])
		}
		return f
	}

	histLen := t.history.len()
	top := clamp(t.viewTop, 0, histLen)
	f.Viewport = Viewport{Top: top, TotalRows: histLen + t.rows, FollowOutput: t.follow}
	for r := 0; r < t.rows; r++ {
		idx := top + r
		if idx < histLen {
			h := t.history.line(idx)
			f.RichLines[r] = padLine(h.cells, t.cols)
			f.Lines[r] = h.text
			continue
		}
		row := idx - histLen
		if row < t.rows {
			f.RichLines[r] = cloneLine(t.primary.lines[row])
			f.Lines[r] = lineText(f.RichLines[r])
		} else {
			f.RichLines[r] = newBlankLine(t.cols)
			f.Lines[r] = ""
		}
	}
	return f
}

// padLine copies a history row to exactly cols cells, padding with blanks or
// truncating; history keeps the width it was evicted at, frames do not.
func padLine(cells []Cell, cols int) []Cell {
	out := newBlankLine(cols)
	copy(out, cells[:minInt(len(cells), cols)])
	if cols > 0 && out[cols-1].Width == 2 {
		out[cols-1] = blankCell() // truncation cut a wide pair in half
	}
	return out
}

// hashFrame computes the deterministic content digest of a frame. Identical
// ingest histories on identically-sized fresh terminals hash identically.
func hashFrame(f Frame) string {
	h := blake3.New()
	var buf [4]byte
	writeU32 := func(v uint32) {
		binary.BigEndian.PutUint32(buf[:], v)
		h.Write(buf[:])
	}
	writeBool := func(b bool) {
		if b {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	writeStr := func(s string) {
		writeU32(uint32(len(s)))
		h.Write([]byte(s))
	}

	h.Write([]byte("glasspane-frame-v1"))
	writeU32(uint32(f.Cols))
	writeU32(uint32(f.Rows))
	h.Write([]byte{byte(f.ActiveScreen)})
	writeU32(uint32(f.Cursor.Row))
	writeU32(uint32(f.Cursor.Col))
	writeBool(f.Cursor.Visible)
	h.Write([]byte{byte(f.Cursor.Style.Shape)})
	writeBool(f.Cursor.Style.Blinking)
	writeU32(uint32(f.Viewport.Top))
	writeU32(uint32(f.Viewport.TotalRows))
	writeBool(f.Viewport.FollowOutput)

	writeU32(uint32(len(f.Lines)))
	for _, line := range f.Lines {
		writeStr(line)
	}
	writeU32(uint32(len(f.RichLines)))
	for _, row := range f.RichLines {
		writeU32(uint32(len(row)))
		for _, c := range row {
			writeStr(c.Glyph)
			h.Write([]byte{byte(c.Width)})
			writeBool(c.Continued)
			hashStyle(h, c.Style)
		}
	}

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

func hashStyle(h *blake3.Hasher, s Style) {
	hashColor(h, s.FG)
	hashColor(h, s.BG)
	var flags byte
	if s.Bold {
		flags |= 1 << 0
	}
	if s.Dim {
		flags |= 1 << 1
	}
	if s.Italic {
		flags |= 1 << 2
	}
	if s.Underline {
		flags |= 1 << 3
	}
	if s.Inverse {
		flags |= 1 << 4
	}
	h.Write([]byte{flags})
}

func hashColor(h *blake3.Hasher, c Color) {
	h.Write([]byte{byte(c.Mode), c.Index, c.R, c.G, c.B})
}
