// Package search implements incremental text search over a buffer.
// Matches are recomputed from scratch on every query change; the engine
// never caches across edits, so the controller clears it whenever the
// buffer mutates.
package search

import "github.com/ked-editor/ked/internal/buffer"

// Match is one occurrence of the query: [Start, End) in runes on Line.
type Match struct {
	Line  int
	Start int
	End   int
}

type Engine struct {
	query   []rune
	matches []Match
	current int
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Query() string { return string(e.query) }

func (e *Engine) Matches() []Match { return e.matches }

func (e *Engine) HasMatches() bool { return len(e.matches) > 0 }

func (e *Engine) CurrentIndex() int { return e.current }

// Current returns the selected match. Valid only when HasMatches.
func (e *Engine) Current() Match {
	if len(e.matches) == 0 {
		return Match{}
	}
	return e.matches[e.current]
}

// Clear drops the query and all matches.
func (e *Engine) Clear() {
	e.query = nil
	e.matches = nil
	e.current = 0
}

// Update replaces the query, rescans the whole buffer and, when at
// least one match exists, moves the cursor to the first one. Occurrences
// never overlap: the scan resumes at the end of each match.
func (e *Engine) Update(buf *buffer.Buffer, query string) {
	e.query = []rune(query)
	e.matches = e.matches[:0]
	e.current = 0
	if len(e.query) == 0 {
		return
	}

	for row := 0; row < buf.LineCount(); row++ {
		line := buf.Line(row)
		col := 0
		for col+len(e.query) <= len(line) {
			if matchAt(line, col, e.query) {
				e.matches = append(e.matches, Match{
					Line:  row,
					Start: col,
					End:   col + len(e.query),
				})
				col += len(e.query)
			} else {
				col++
			}
		}
	}

	if len(e.matches) > 0 {
		m := e.matches[0]
		buf.SetCursor(m.Start, m.Line)
	}
}

// Next selects the following match circularly and moves the cursor to
// it. No-op without matches.
func (e *Engine) Next(buf *buffer.Buffer) {
	if len(e.matches) == 0 {
		return
	}
	e.current = (e.current + 1) % len(e.matches)
	m := e.matches[e.current]
	buf.SetCursor(m.Start, m.Line)
}

// Prev selects the preceding match circularly and moves the cursor to
// it. No-op without matches.
func (e *Engine) Prev(buf *buffer.Buffer) {
	if len(e.matches) == 0 {
		return
	}
	e.current = (e.current - 1 + len(e.matches)) % len(e.matches)
	m := e.matches[e.current]
	buf.SetCursor(m.Start, m.Line)
}

func matchAt(line []rune, at int, query []rune) bool {
	for i, q := range query {
		if line[at+i] != q {
			return false
		}
	}
	return true
}
