package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ked-editor/ked/internal/input"
	"github.com/ked-editor/ked/internal/search"
)

// Render draws the full frame: text viewport, status line, prompt line.
// The bottom two rows belong to the bars; everything above is viewport.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	viewHeight := h - 2
	if viewHeight < 1 {
		viewHeight = 1
	}
	e.viewHeight = viewHeight
	e.ensureCursorVisible(viewHeight)

	s.SetStyle(e.styleMain)
	s.Clear()

	for y := 0; y < viewHeight; y++ {
		lineIdx := e.scroll + y
		if lineIdx >= e.buf.LineCount() {
			continue
		}
		e.drawLine(s, y, w, lineIdx)
	}

	if h >= 2 {
		e.renderStatusline(s, w, h-2)
	}
	var promptCursor int
	if h >= 1 {
		promptCursor = e.renderPromptline(s, w, h-1)
	}

	mode := e.handler.Mode()
	if mode == input.ModeSearch || mode == input.ModePrompt || mode == input.ModeCommand {
		s.ShowCursor(promptCursor, h-1)
	} else {
		cur := e.buf.Cursor()
		cy := cur.Row - e.scroll
		cx := visualCol(e.buf.Line(cur.Row), cur.Col, e.tabWidth)
		if cx >= w {
			cx = w - 1
		}
		if cy >= 0 && cy < viewHeight {
			s.ShowCursor(cx, cy)
		} else {
			s.HideCursor()
		}
	}

	s.Show()
}

func (e *Editor) ensureCursorVisible(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	row := e.buf.Cursor().Row
	// Jumps far outside the view recenter, small drifts just nudge
	// the edge.
	if row < e.scroll-1 || row >= e.scroll+viewHeight+1 {
		e.scroll = row - viewHeight/2
		if e.scroll < 0 {
			e.scroll = 0
		}
		return
	}
	if row < e.scroll {
		e.scroll = row
		return
	}
	if row >= e.scroll+viewHeight {
		e.scroll = row - viewHeight + 1
	}
}

func (e *Editor) drawLine(s tcell.Screen, y, w, lineIdx int) {
	line := e.buf.Line(lineIdx)
	matches := e.matchesOnLine(lineIdx)

	x := 0
	for col, r := range line {
		if x >= w {
			break
		}
		style := e.styleMain
		if withinMatch(matches, col) {
			style = e.styleSearch
		}
		if r == '\t' {
			next := x + e.tabWidth - (x % e.tabWidth)
			for ; x < next && x < w; x++ {
				s.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func (e *Editor) matchesOnLine(lineIdx int) []search.Match {
	all := e.searcher.Matches()
	var out []search.Match
	for _, m := range all {
		if m.Line == lineIdx {
			out = append(out, m)
		}
	}
	return out
}

func withinMatch(matches []search.Match, col int) bool {
	for _, m := range matches {
		if col >= m.Start && col < m.End {
			return true
		}
	}
	return false
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	mode := "NORMAL"
	switch e.handler.Mode() {
	case input.ModeSearch:
		mode = "SEARCH"
	case input.ModePrompt:
		mode = "PROMPT"
	case input.ModeCommand:
		mode = "COMMAND"
	}
	name := e.buf.Filename()
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	dirty := ""
	if e.buf.Dirty() {
		dirty = "*"
	}

	status := fmt.Sprintf(" %s | %s%s ", mode, name, dirty)
	if e.statusMessage != "" {
		status = fmt.Sprintf(" %s | %s%s | %s ", mode, name, dirty, e.statusMessage)
	}

	cur := e.buf.Cursor()
	row := cur.Row + 1
	col := visualCol(e.buf.Line(cur.Row), cur.Col, e.tabWidth) + 1
	right := fmt.Sprintf(" Ln %d, Col %d", row, col)
	if e.gitBranch != "" {
		right += " | " + formatGitBranch(e.gitBranchSymbol, e.gitBranch)
	}

	line := composeStatusLine(status, right, w)
	for x, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styleStatus)
	}
}

// renderPromptline draws the bottom row and returns the column where
// the terminal cursor should sit while a query or prompt is being
// typed.
func (e *Editor) renderPromptline(s tcell.Screen, w, y int) int {
	var left string
	var rightText string

	switch e.handler.Mode() {
	case input.ModeSearch:
		left = "Search: " + e.handler.SearchText()
		if e.searcher.HasMatches() {
			rightText = fmt.Sprintf(" [%d/%d] ", e.searcher.CurrentIndex()+1, len(e.searcher.Matches()))
		} else if e.handler.SearchText() != "" {
			rightText = " [no matches] "
		}
	case input.ModePrompt, input.ModeCommand:
		left = e.promptLabel() + e.handler.PromptText()
	default:
		left = " ^S save  ^W save as  ^Q quit  ^F find  ^G goto  ^K cut  ^Y copy  ^P paste  ^Z undo  ^T redo"
	}

	leftRunes := []rune(left)
	cursorX := len(leftRunes)

	rightRunes := []rune(rightText)
	rightStart := w - len(rightRunes)
	if rightStart < 0 {
		rightStart = 0
		rightRunes = rightRunes[:w]
	}

	for x := 0; x < w; x++ {
		switch {
		case x < len(leftRunes):
			s.SetContent(x, y, leftRunes[x], nil, e.stylePrompt)
		case x >= rightStart && x-rightStart < len(rightRunes):
			s.SetContent(x, y, rightRunes[x-rightStart], nil, e.stylePrompt)
		default:
			s.SetContent(x, y, ' ', nil, e.stylePrompt)
		}
	}

	if cursorX >= w {
		cursorX = w - 1
	}
	return cursorX
}

func (e *Editor) promptLabel() string {
	switch e.prompt {
	case promptGotoLine:
		return "Go to line: "
	case promptSaveAs:
		return "Save as: "
	case promptQuitConfirm:
		return "Quit without saving? (y/n): "
	}
	return ": "
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := width - len(leftRunes) - len(rightRunes)
	if spaceCount < 0 {
		spaceCount = 0
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := 0; i < spaceCount; i++ {
		line = append(line, ' ')
	}
	line = append(line, rightRunes...)
	return line
}

func formatGitBranch(symbol, branch string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "git:"
	}
	if strings.HasSuffix(symbol, ":") || strings.HasSuffix(symbol, " ") {
		return symbol + branch
	}
	return symbol + " " + branch
}

func visualCol(line []rune, logicalCol int, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	if logicalCol < 0 {
		logicalCol = 0
	}
	if logicalCol > len(line) {
		logicalCol = len(line)
	}
	col := 0
	for i := 0; i < logicalCol; i++ {
		if line[i] == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		col++
	}
	return col
}
