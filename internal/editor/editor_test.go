package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ked-editor/ked/internal/buffer"
	"github.com/ked-editor/ked/internal/config"
	"github.com/ked-editor/ked/internal/input"
	"github.com/ked-editor/ked/internal/keys"
)

func newEditor() *Editor {
	return New(config.Default())
}

func pressCtrl(e *Editor, c byte) {
	e.HandleKey(keys.Key{Kind: keys.KindCtrl, Ctrl: c})
}

func pressRunes(e *Editor, s string) {
	for _, r := range s {
		e.HandleKey(keys.Key{Kind: keys.KindRune, Rune: r})
	}
}

func pressEnter(e *Editor) {
	e.HandleKey(keys.Key{Kind: keys.KindEnter})
}

func typeLines(e *Editor, lines ...string) {
	for i, l := range lines {
		if i > 0 {
			pressEnter(e)
		}
		pressRunes(e, l)
	}
}

func TestTypingEditsBuffer(t *testing.T) {
	e := newEditor()
	typeLines(e, "hello", "world")
	if got := e.Buffer().Content(); got != "hello\nworld" {
		t.Fatalf("Content = %q, want %q", got, "hello\nworld")
	}
}

func TestQuitCleanBuffer(t *testing.T) {
	e := newEditor()
	pressCtrl(e, 17)
	if !e.ShouldQuit() {
		t.Fatalf("clean buffer should quit immediately")
	}
}

func TestQuitDirtyBufferAsksFirst(t *testing.T) {
	e := newEditor()
	pressRunes(e, "x")
	pressCtrl(e, 17)
	if e.ShouldQuit() {
		t.Fatalf("dirty buffer quit without confirmation")
	}
	if e.Mode() != input.ModePrompt {
		t.Fatalf("Mode = %v, want ModePrompt", e.Mode())
	}

	pressRunes(e, "y")
	pressEnter(e)
	if !e.ShouldQuit() {
		t.Fatalf("confirmed quit did not quit")
	}
}

func TestQuitConfirmRejected(t *testing.T) {
	e := newEditor()
	pressRunes(e, "x")
	pressCtrl(e, 17)
	pressRunes(e, "n")
	pressEnter(e)
	if e.ShouldQuit() {
		t.Fatalf("rejected confirmation still quit")
	}
	if e.Mode() != input.ModeNormal {
		t.Fatalf("Mode = %v, want ModeNormal", e.Mode())
	}
}

// A plain "y" in normal mode is just a character; only the dedicated
// confirmation prompt may quit.
func TestPlainYDoesNotQuit(t *testing.T) {
	e := newEditor()
	pressRunes(e, "y")
	pressEnter(e)
	if e.ShouldQuit() {
		t.Fatalf("typing y in normal mode quit the editor")
	}
	if got := e.Buffer().Content(); got != "y\n" && got != "y" {
		// One line "y" plus the entered newline.
		t.Fatalf("Content = %q", got)
	}
}

func TestGotoLine(t *testing.T) {
	e := newEditor()
	typeLines(e, "one", "two", "three")

	pressCtrl(e, 7)
	if e.Mode() != input.ModePrompt {
		t.Fatalf("Mode = %v, want ModePrompt", e.Mode())
	}
	pressRunes(e, "2")
	pressEnter(e)

	if e.Mode() != input.ModeNormal {
		t.Fatalf("Mode = %v, want ModeNormal", e.Mode())
	}
	if e.Buffer().Cursor() != (buffer.Cursor{Row: 1, Col: 0}) {
		t.Fatalf("Cursor = %+v, want {1 0}", e.Buffer().Cursor())
	}
}

func TestGotoLineOutOfRangeIgnored(t *testing.T) {
	e := newEditor()
	typeLines(e, "one", "two")
	e.Buffer().SetCursor(1, 0)

	for _, text := range []string{"99", "0", "abc"} {
		pressCtrl(e, 7)
		pressRunes(e, text)
		pressEnter(e)
		if e.Buffer().Cursor() != (buffer.Cursor{Row: 0, Col: 1}) {
			t.Fatalf("goto %q moved cursor to %+v", text, e.Buffer().Cursor())
		}
	}
}

func TestSaveKnownFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	e := newEditor()
	if err := e.OpenFile(path); err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	pressRunes(e, "data")
	pressCtrl(e, 19)

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(out) != "data" {
		t.Fatalf("file = %q, want %q", string(out), "data")
	}
	if e.Buffer().Dirty() {
		t.Fatalf("buffer dirty after successful save")
	}
}

func TestSaveWithoutNamePromptsForOne(t *testing.T) {
	dir := t.TempDir()
	e := newEditor()
	pressRunes(e, "abc")
	pressCtrl(e, 19)
	if e.Mode() != input.ModeCommand {
		t.Fatalf("Mode = %v, want ModeCommand", e.Mode())
	}

	path := filepath.Join(dir, "new.txt")
	pressRunes(e, path)
	pressEnter(e)

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(out) != "abc" {
		t.Fatalf("file = %q, want %q", string(out), "abc")
	}
	if e.Buffer().Filename() != path {
		t.Fatalf("Filename = %q, want %q", e.Buffer().Filename(), path)
	}
}

func TestOpenMissingFileKeepsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.txt")
	e := newEditor()
	if err := e.OpenFile(path); err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	if e.Buffer().Filename() != path {
		t.Fatalf("Filename = %q, want %q", e.Buffer().Filename(), path)
	}
	if e.Buffer().LineCount() != 1 {
		t.Fatalf("LineCount = %d, want 1", e.Buffer().LineCount())
	}
}

func TestCutCopyPaste(t *testing.T) {
	e := newEditor()
	typeLines(e, "first", "second")

	e.Buffer().SetCursor(0, 0)
	pressCtrl(e, 25) // copy "first"
	e.Buffer().SetCursor(0, 1)
	pressCtrl(e, 11) // cut "second", overwriting the clipboard
	if got := e.Buffer().Content(); got != "first" {
		t.Fatalf("Content after cut = %q, want %q", got, "first")
	}

	e.Buffer().SetCursor(5, 0)
	pressCtrl(e, 16) // paste
	if got := e.Buffer().Content(); got != "firstsecond\n" {
		t.Fatalf("Content after paste = %q, want %q", got, "firstsecond\n")
	}
}

func TestPasteIsOneUndoStep(t *testing.T) {
	e := newEditor()
	typeLines(e, "line")
	e.Buffer().SetCursor(0, 0)
	pressCtrl(e, 25) // copy
	e.Buffer().SetCursor(4, 0)
	pressCtrl(e, 16) // paste "line\n"

	pressCtrl(e, 26) // undo
	if got := e.Buffer().Content(); got != "line" {
		t.Fatalf("Content after undo = %q, want %q", got, "line")
	}

	pressCtrl(e, 20) // redo
	if got := e.Buffer().Content(); got != "lineline\n" {
		t.Fatalf("Content after redo = %q, want %q", got, "lineline\n")
	}
}

func TestPasteEmptyClipboardIsNoop(t *testing.T) {
	e := newEditor()
	pressRunes(e, "a")
	pressCtrl(e, 16)
	if got := e.Buffer().Content(); got != "a" {
		t.Fatalf("Content = %q, want %q", got, "a")
	}
}

func TestSearchJumpsAndHighlights(t *testing.T) {
	e := newEditor()
	typeLines(e, "alpha", "beta", "alpha beta")
	e.Buffer().SetCursor(0, 0)

	pressCtrl(e, 6)
	if e.Mode() != input.ModeSearch {
		t.Fatalf("Mode = %v, want ModeSearch", e.Mode())
	}
	pressRunes(e, "beta")
	if e.Buffer().Cursor() != (buffer.Cursor{Row: 1, Col: 0}) {
		t.Fatalf("Cursor = %+v, want {1 0}", e.Buffer().Cursor())
	}
	if len(e.searcher.Matches()) != 2 {
		t.Fatalf("matches = %d, want 2", len(e.searcher.Matches()))
	}

	pressEnter(e)
	if e.Mode() != input.ModeNormal {
		t.Fatalf("Mode = %v, want ModeNormal", e.Mode())
	}
	// Matches survive submit for next/prev navigation.
	pressCtrl(e, 14)
	if e.Buffer().Cursor() != (buffer.Cursor{Row: 2, Col: 6}) {
		t.Fatalf("Cursor = %+v, want {2 6}", e.Buffer().Cursor())
	}
	pressCtrl(e, 18)
	if e.Buffer().Cursor() != (buffer.Cursor{Row: 1, Col: 0}) {
		t.Fatalf("Cursor = %+v, want {1 0}", e.Buffer().Cursor())
	}
}

func TestSearchSubmitWithoutMatchesStaysInSearch(t *testing.T) {
	e := newEditor()
	typeLines(e, "alpha")
	pressCtrl(e, 6)
	pressRunes(e, "zzz")
	pressEnter(e)
	if e.Mode() != input.ModeSearch {
		t.Fatalf("Mode = %v, want ModeSearch", e.Mode())
	}
	if e.statusMessage != "no matches" {
		t.Fatalf("statusMessage = %q, want %q", e.statusMessage, "no matches")
	}
}

func TestSearchCancelClearsMatches(t *testing.T) {
	e := newEditor()
	typeLines(e, "alpha")
	pressCtrl(e, 6)
	pressRunes(e, "alpha")
	e.HandleKey(keys.Key{Kind: keys.KindEscape})
	if e.Mode() != input.ModeNormal {
		t.Fatalf("Mode = %v, want ModeNormal", e.Mode())
	}
	if e.searcher.HasMatches() {
		t.Fatalf("matches survived cancel")
	}
}

func TestEditInvalidatesMatches(t *testing.T) {
	e := newEditor()
	typeLines(e, "alpha alpha")
	pressCtrl(e, 6)
	pressRunes(e, "alpha")
	pressEnter(e)
	if !e.searcher.HasMatches() {
		t.Fatalf("no matches to begin with")
	}

	pressRunes(e, "x")
	if e.searcher.HasMatches() {
		t.Fatalf("stale matches survived an edit")
	}
}

func TestUndoRedoMessagesOnEmptyHistory(t *testing.T) {
	e := newEditor()
	pressCtrl(e, 26)
	if e.statusMessage != "nothing to undo" {
		t.Fatalf("statusMessage = %q, want %q", e.statusMessage, "nothing to undo")
	}
	pressCtrl(e, 20)
	if e.statusMessage != "nothing to redo" {
		t.Fatalf("statusMessage = %q, want %q", e.statusMessage, "nothing to redo")
	}
}

func TestStatusMessageClearedByNextKey(t *testing.T) {
	e := newEditor()
	pressCtrl(e, 26)
	if e.statusMessage == "" {
		t.Fatalf("expected a status message")
	}
	pressRunes(e, "a")
	if e.statusMessage != "" {
		t.Fatalf("statusMessage = %q, want cleared", e.statusMessage)
	}
}

func TestLineStartEndAndPaging(t *testing.T) {
	e := newEditor()
	typeLines(e, "some text here")

	pressCtrl(e, 1)
	if e.Buffer().Cursor().Col != 0 {
		t.Fatalf("Col = %d, want 0", e.Buffer().Cursor().Col)
	}
	pressCtrl(e, 5)
	if e.Buffer().Cursor().Col != 14 {
		t.Fatalf("Col = %d, want 14", e.Buffer().Cursor().Col)
	}
}
