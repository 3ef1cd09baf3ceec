// Package buffer owns the document being edited: an ordered slice of
// lines, the cursor, the dirty state and the undo history. Lines never
// contain '\n'; columns are rune indices and the cursor may sit one past
// the end of a line but never beyond.
package buffer

import (
	"errors"
	"os"
	"strings"
	"unicode"
)

type Cursor struct {
	Row int
	Col int
}

type Buffer struct {
	lines    [][]rune
	cursor   Cursor
	filename string

	undo      []change
	redo      []change
	savePoint int
	group     uint64
	grouping  bool
}

// New returns a buffer holding a single empty line.
func New() *Buffer {
	return &Buffer{lines: [][]rune{{}}}
}

func (b *Buffer) Cursor() Cursor { return b.cursor }

func (b *Buffer) Filename() string { return b.filename }

func (b *Buffer) SetFilename(p string) { b.filename = p }

func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns the content of row i, or nil when i is out of range.
func (b *Buffer) Line(i int) []rune {
	if i < 0 || i >= len(b.lines) {
		return nil
	}
	return b.lines[i]
}

// Dirty reports whether the content differs from the last save point.
func (b *Buffer) Dirty() bool {
	return len(b.undo) != b.savePoint
}

// MarkSaved records the current undo depth as the clean state.
func (b *Buffer) MarkSaved() {
	b.savePoint = len(b.undo)
}

// InsertRune inserts r at the cursor and advances the cursor past it.
func (b *Buffer) InsertRune(r rune) {
	if len(b.lines) == 0 {
		b.lines = [][]rune{{}}
		b.cursor = Cursor{}
	}
	pos := b.cursor
	if pos.Col > len(b.lines[pos.Row]) {
		pos.Col = len(b.lines[pos.Row])
	}
	if !b.insertRuneAt(pos, r) {
		return
	}
	b.record(change{kind: changeDeleteRune, pos: pos, r: r})
}

func (b *Buffer) InsertTab() { b.InsertRune('\t') }

// Backspace deletes the rune before the cursor, joining with the previous
// line when the cursor is at column zero. No-op at the document start.
func (b *Buffer) Backspace() {
	if b.cursor.Col > 0 {
		pos := Cursor{Row: b.cursor.Row, Col: b.cursor.Col - 1}
		line := b.lines[pos.Row]
		if pos.Col >= len(line) {
			pos.Col = len(line) - 1
		}
		if pos.Col < 0 {
			return
		}
		r := line[pos.Col]
		if !b.deleteRuneAt(pos) {
			return
		}
		b.record(change{kind: changeInsertRune, pos: pos, r: r})
		return
	}
	if b.cursor.Row == 0 {
		return
	}
	pos := Cursor{Row: b.cursor.Row - 1, Col: len(b.lines[b.cursor.Row-1])}
	if !b.joinLineAt(pos) {
		return
	}
	b.record(change{kind: changeSplitLine, pos: pos})
}

// DeleteForward deletes the rune under the cursor, joining with the next
// line when the cursor is at the end of its line. No-op at document end.
func (b *Buffer) DeleteForward() {
	row, col := b.cursor.Row, b.cursor.Col
	if row < 0 || row >= len(b.lines) {
		return
	}
	line := b.lines[row]
	if col < len(line) {
		pos := Cursor{Row: row, Col: col}
		r := line[col]
		if b.deleteRuneAt(pos) {
			b.record(change{kind: changeInsertRune, pos: pos, r: r})
		}
		return
	}
	if row < len(b.lines)-1 {
		pos := Cursor{Row: row, Col: len(line)}
		if b.joinLineAt(pos) {
			b.record(change{kind: changeSplitLine, pos: pos})
		}
	}
}

// InsertNewline splits the current line at the cursor; the tail becomes a
// new line and the cursor moves to its start.
func (b *Buffer) InsertNewline() {
	pos := b.cursor
	if pos.Col > len(b.lines[pos.Row]) {
		pos.Col = len(b.lines[pos.Row])
	}
	if !b.splitLineAt(pos) {
		return
	}
	b.record(change{kind: changeJoinLine, pos: pos})
}

// MoveCursor shifts the cursor by (dx, dy). The row moves first and is
// clamped; the column is clamped against the new row before and after dx
// is applied. Horizontal motion never wraps to another line.
func (b *Buffer) MoveCursor(dx, dy int) {
	if len(b.lines) == 0 {
		b.cursor = Cursor{}
		return
	}
	row := b.cursor.Row + dy
	if row < 0 {
		row = 0
	}
	if row >= len(b.lines) {
		row = len(b.lines) - 1
	}
	b.cursor.Row = row

	lineLen := len(b.lines[row])
	col := b.cursor.Col
	if col > lineLen {
		col = lineLen
	}
	col += dx
	if col < 0 {
		col = 0
	}
	if col > lineLen {
		col = lineLen
	}
	b.cursor.Col = col
}

// SetCursor places the cursor at (x, y). Out-of-range rows are ignored;
// the column is clamped to the row length.
func (b *Buffer) SetCursor(x, y int) {
	if y < 0 || y >= len(b.lines) {
		return
	}
	b.cursor.Row = y
	if x < 0 {
		x = 0
	}
	if x > len(b.lines[y]) {
		x = len(b.lines[y])
	}
	b.cursor.Col = x
}

// DeleteLine removes row pos. When the cursor's row vanishes and it was
// not the first row, the cursor moves to column zero of the previous row.
func (b *Buffer) DeleteLine(pos int) {
	if pos < 0 || pos >= len(b.lines) {
		return
	}
	removed := b.lines[pos]
	if len(b.lines) == 1 && len(removed) == 0 {
		b.cursor = Cursor{}
		return
	}
	orig := b.cursor
	b.beginGroup()
	// Replay the removal as primitives so undo can rebuild the line.
	if len(b.lines) == 1 {
		for i := len(removed) - 1; i >= 0; i-- {
			p := Cursor{Row: 0, Col: i}
			if b.deleteRuneAt(p) {
				b.append(change{kind: changeInsertRune, pos: p, r: removed[i]})
			}
		}
		b.cursor = Cursor{}
		b.endGroup()
		return
	}
	for i := len(removed) - 1; i >= 0; i-- {
		p := Cursor{Row: pos, Col: i}
		if b.deleteRuneAt(p) {
			b.append(change{kind: changeInsertRune, pos: p, r: removed[i]})
		}
	}
	join := Cursor{Row: pos, Col: 0}
	if pos == len(b.lines)-1 {
		join = Cursor{Row: pos - 1, Col: len(b.lines[pos-1])}
	}
	if b.joinLineAt(join) {
		b.append(change{kind: changeSplitLine, pos: join})
	}
	b.endGroup()

	// The primitives moved the cursor; put it back relative to where it
	// stood before the delete. Rows above pos are untouched, rows below
	// shift up one, and a cursor on the deleted row itself lands at
	// column zero (of the previous row when its own row vanished).
	switch {
	case orig.Row < pos:
		b.cursor = orig
	case orig.Row > pos:
		b.cursor = Cursor{Row: orig.Row - 1, Col: orig.Col}
	default:
		if orig.Row >= len(b.lines) && orig.Row > 0 {
			b.cursor = Cursor{Row: orig.Row - 1, Col: 0}
		} else {
			b.cursor = Cursor{Row: orig.Row, Col: 0}
		}
	}
	b.clampCursor()
}

// Load replaces the buffer content with the file at path. Content is split
// on '\n' with the trailing empty token from a final newline dropped; an
// empty file yields one empty line. The cursor resets and the buffer is
// clean afterwards.
func (b *Buffer) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	b.lines = SplitLines(data)
	b.cursor = Cursor{}
	b.filename = path
	b.undo = nil
	b.redo = nil
	b.savePoint = 0
	b.group = 0
	return nil
}

// Save writes the joined lines to the buffer's file, or to path when it is
// non-empty. It does not touch the dirty state; the caller decides when to
// call MarkSaved.
func (b *Buffer) Save(path string) error {
	if path == "" {
		if b.filename == "" {
			return errors.New("no file name")
		}
		path = b.filename
	}
	if err := os.WriteFile(path, []byte(b.Content()), 0o644); err != nil {
		return err
	}
	b.filename = path
	return nil
}

// Content returns the document joined with '\n', no trailing newline.
func (b *Buffer) Content() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(line))
	}
	return sb.String()
}

// SplitLines parses file content into lines. The empty token after a final
// newline is dropped so that load/save round-trips content without one.
func SplitLines(data []byte) [][]rune {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	parts := strings.Split(text, "\n")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

func isSpaceRune(r rune) bool { return unicode.IsSpace(r) }

// wordLeftTarget computes where a word-left motion from pos lands:
// whitespace behind the cursor is skipped, then the word itself. At column
// zero the target spills to the end of the previous line.
func (b *Buffer) wordLeftTarget(pos Cursor) Cursor {
	if pos.Row < 0 || pos.Row >= len(b.lines) {
		return pos
	}
	if pos.Col <= 0 {
		if pos.Row == 0 {
			return pos
		}
		return Cursor{Row: pos.Row - 1, Col: len(b.lines[pos.Row-1])}
	}
	line := b.lines[pos.Row]
	i := pos.Col
	if i > len(line) {
		i = len(line)
	}
	for i > 0 && isSpaceRune(line[i-1]) {
		i--
	}
	for i > 0 && !isSpaceRune(line[i-1]) {
		i--
	}
	return Cursor{Row: pos.Row, Col: i}
}

// wordRightTarget computes where a word-right motion from pos lands: the
// current word is skipped, then the whitespace after it. At the end of a
// line the target spills to the start of the next line.
func (b *Buffer) wordRightTarget(pos Cursor) Cursor {
	if pos.Row < 0 || pos.Row >= len(b.lines) {
		return pos
	}
	line := b.lines[pos.Row]
	if pos.Col >= len(line) {
		if pos.Row >= len(b.lines)-1 {
			return pos
		}
		return Cursor{Row: pos.Row + 1, Col: 0}
	}
	i := pos.Col
	if i < 0 {
		i = 0
	}
	for i < len(line) && !isSpaceRune(line[i]) {
		i++
	}
	for i < len(line) && isSpaceRune(line[i]) {
		i++
	}
	return Cursor{Row: pos.Row, Col: i}
}

func (b *Buffer) MoveWordLeft()  { b.cursor = b.wordLeftTarget(b.cursor) }
func (b *Buffer) MoveWordRight() { b.cursor = b.wordRightTarget(b.cursor) }

// CutWordToStart deletes from the word-left target up to the cursor by
// repeated single-rune backspaces, grouped into one undoable step.
func (b *Buffer) CutWordToStart() {
	target := b.wordLeftTarget(b.cursor)
	if target == b.cursor {
		return
	}
	b.beginGroup()
	for b.cursor != target {
		before := b.cursor
		b.Backspace()
		if b.cursor == before {
			break
		}
	}
	b.endGroup()
}

// CutWordToEnd deletes from the cursor up to the word-right target by
// repeated single-rune forward deletions, grouped into one undoable step.
func (b *Buffer) CutWordToEnd() {
	target := b.wordRightTarget(b.cursor)
	if target == b.cursor {
		return
	}
	var n int
	if target.Row == b.cursor.Row {
		n = target.Col - b.cursor.Col
	} else {
		// Everything to the end of the line, plus the join itself.
		n = len(b.lines[b.cursor.Row]) - b.cursor.Col + 1 + target.Col
	}
	b.beginGroup()
	for i := 0; i < n; i++ {
		b.DeleteForward()
	}
	b.endGroup()
}

func (b *Buffer) clampCursor() {
	if len(b.lines) == 0 {
		b.cursor = Cursor{}
		return
	}
	if b.cursor.Row < 0 {
		b.cursor.Row = 0
	}
	if b.cursor.Row >= len(b.lines) {
		b.cursor.Row = len(b.lines) - 1
	}
	if b.cursor.Col < 0 {
		b.cursor.Col = 0
	}
	if b.cursor.Col > len(b.lines[b.cursor.Row]) {
		b.cursor.Col = len(b.lines[b.cursor.Row])
	}
}
