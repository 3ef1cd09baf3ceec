package buffer

import "errors"

type changeKind int

const (
	changeInsertRune changeKind = iota
	changeDeleteRune
	changeSplitLine
	changeJoinLine
)

// change is one recorded inverse of an edit primitive. Changes sharing a
// group id undo and redo together.
type change struct {
	kind  changeKind
	pos   Cursor
	r     rune
	group uint64
}

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Undo reverts the most recent change group.
func (b *Buffer) Undo() error {
	if len(b.undo) == 0 {
		return ErrNothingToUndo
	}
	group := b.undo[len(b.undo)-1].group
	for len(b.undo) > 0 && b.undo[len(b.undo)-1].group == group {
		idx := len(b.undo) - 1
		ch := b.undo[idx]
		b.undo = b.undo[:idx]
		inv, ok := b.applyChange(ch)
		if !ok {
			return errors.New("undo failed")
		}
		inv.group = ch.group
		b.redo = append(b.redo, inv)
	}
	return nil
}

// Redo re-applies the most recently undone change group.
func (b *Buffer) Redo() error {
	if len(b.redo) == 0 {
		return ErrNothingToRedo
	}
	group := b.redo[len(b.redo)-1].group
	for len(b.redo) > 0 && b.redo[len(b.redo)-1].group == group {
		idx := len(b.redo) - 1
		ch := b.redo[idx]
		b.redo = b.redo[:idx]
		inv, ok := b.applyChange(ch)
		if !ok {
			return errors.New("redo failed")
		}
		inv.group = ch.group
		b.undo = append(b.undo, inv)
	}
	return nil
}

func (b *Buffer) applyChange(ch change) (change, bool) {
	switch ch.kind {
	case changeInsertRune:
		if !b.insertRuneAt(ch.pos, ch.r) {
			return change{}, false
		}
		return change{kind: changeDeleteRune, pos: ch.pos, r: ch.r}, true
	case changeDeleteRune:
		if !b.deleteRuneAt(ch.pos) {
			return change{}, false
		}
		return change{kind: changeInsertRune, pos: ch.pos, r: ch.r}, true
	case changeSplitLine:
		if !b.splitLineAt(ch.pos) {
			return change{}, false
		}
		return change{kind: changeJoinLine, pos: ch.pos}, true
	case changeJoinLine:
		if !b.joinLineAt(ch.pos) {
			return change{}, false
		}
		return change{kind: changeSplitLine, pos: ch.pos}, true
	default:
		return change{}, false
	}
}

// record stores a change as its own group, unless a multi-change group is
// open, and clears the redo stack.
func (b *Buffer) record(ch change) {
	if b.grouping {
		b.append(ch)
		return
	}
	b.invalidateSavePoint()
	b.group++
	ch.group = b.group
	b.undo = append(b.undo, ch)
	b.redo = b.redo[:0]
}

// invalidateSavePoint marks the saved state unreachable when a new change
// diverges from the history that was saved: once the undo stack is shorter
// than the save point, no amount of undoing can get back to the saved
// content, so the buffer stays dirty until the next save.
func (b *Buffer) invalidateSavePoint() {
	if len(b.undo) < b.savePoint {
		b.savePoint = -1
	}
}

// BeginGroup opens an undo group: every change recorded until EndGroup
// undoes as one step. Groups do not nest.
func (b *Buffer) BeginGroup() { b.beginGroup() }
func (b *Buffer) EndGroup()   { b.endGroup() }

func (b *Buffer) beginGroup() {
	b.group++
	b.grouping = true
}

func (b *Buffer) append(ch change) {
	b.invalidateSavePoint()
	ch.group = b.group
	b.undo = append(b.undo, ch)
}

func (b *Buffer) endGroup() {
	b.grouping = false
	b.redo = b.redo[:0]
}

func (b *Buffer) insertRuneAt(pos Cursor, r rune) bool {
	if pos.Row < 0 || pos.Row >= len(b.lines) {
		return false
	}
	line := b.lines[pos.Row]
	if pos.Col < 0 {
		pos.Col = 0
	}
	if pos.Col > len(line) {
		pos.Col = len(line)
	}
	line = append(line, 0)
	copy(line[pos.Col+1:], line[pos.Col:])
	line[pos.Col] = r
	b.lines[pos.Row] = line
	b.cursor = Cursor{Row: pos.Row, Col: pos.Col + 1}
	return true
}

func (b *Buffer) deleteRuneAt(pos Cursor) bool {
	if pos.Row < 0 || pos.Row >= len(b.lines) {
		return false
	}
	line := b.lines[pos.Row]
	if pos.Col < 0 || pos.Col >= len(line) {
		return false
	}
	copy(line[pos.Col:], line[pos.Col+1:])
	b.lines[pos.Row] = line[:len(line)-1]
	b.cursor = pos
	return true
}

func (b *Buffer) splitLineAt(pos Cursor) bool {
	if pos.Row < 0 || pos.Row >= len(b.lines) {
		return false
	}
	line := b.lines[pos.Row]
	if pos.Col < 0 {
		pos.Col = 0
	}
	if pos.Col > len(line) {
		pos.Col = len(line)
	}
	left := append([]rune(nil), line[:pos.Col]...)
	right := append([]rune(nil), line[pos.Col:]...)

	lines := make([][]rune, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:pos.Row]...)
	lines = append(lines, left, right)
	lines = append(lines, b.lines[pos.Row+1:]...)
	b.lines = lines

	b.cursor = Cursor{Row: pos.Row + 1, Col: 0}
	return true
}

func (b *Buffer) joinLineAt(pos Cursor) bool {
	if pos.Row < 0 || pos.Row+1 >= len(b.lines) {
		return false
	}
	left := b.lines[pos.Row]
	right := b.lines[pos.Row+1]
	if pos.Col < 0 {
		pos.Col = 0
	}
	if pos.Col > len(left) {
		pos.Col = len(left)
	}
	merged := append(left, right...)

	lines := make([][]rune, 0, len(b.lines)-1)
	lines = append(lines, b.lines[:pos.Row]...)
	lines = append(lines, merged)
	lines = append(lines, b.lines[pos.Row+2:]...)
	b.lines = lines

	b.cursor = Cursor{Row: pos.Row, Col: pos.Col}
	return true
}
