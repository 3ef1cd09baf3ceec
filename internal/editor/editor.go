// Package editor is the controller: it owns the buffer, clipboard,
// search engine and input interpreter, and maps actions onto them. It
// runs single-threaded; every HandleKey call executes atomically
// between reads of the next input event.
package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ked-editor/ked/internal/buffer"
	"github.com/ked-editor/ked/internal/config"
	"github.com/ked-editor/ked/internal/input"
	"github.com/ked-editor/ked/internal/keys"
	"github.com/ked-editor/ked/internal/logger"
	"github.com/ked-editor/ked/internal/search"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptGotoLine
	promptSaveAs
	promptQuitConfirm
)

type Editor struct {
	buf      *buffer.Buffer
	handler  *input.Handler
	searcher *search.Engine

	// The clipboard holds a single cut/copy payload; '\n' separates
	// lines so multi-line pastes rebuild their breaks.
	clipboard []rune

	prompt        promptKind
	statusMessage string
	quit          bool

	scroll     int
	viewHeight int
	tabWidth   int

	gitBranch       string
	gitBranchSymbol string

	styleMain   tcell.Style
	styleStatus tcell.Style
	stylePrompt tcell.Style
	styleSearch tcell.Style
}

func New(cfg config.Config) *Editor {
	theme := cfg.Theme
	e := &Editor{
		buf:             buffer.New(),
		handler:         input.NewHandler(),
		searcher:        search.NewEngine(),
		tabWidth:        cfg.Editor.TabWidth,
		gitBranchSymbol: cfg.Editor.GitBranchSymbol,
		viewHeight:      1,
	}
	e.styleMain = styleFromColors(theme.Foreground, theme.Background)
	e.styleStatus = styleFromColors(theme.StatuslineForeground, theme.StatuslineBackground)
	e.stylePrompt = styleFromColors(theme.PromptForeground, theme.PromptBackground)
	e.styleSearch = styleFromColors(theme.SearchForeground, theme.SearchBackground)
	return e
}

func (e *Editor) Buffer() *buffer.Buffer { return e.buf }

func (e *Editor) Mode() input.Mode { return e.handler.Mode() }

func (e *Editor) ShouldQuit() bool { return e.quit }

func (e *Editor) Scroll() int { return e.scroll }

func (e *Editor) SetGitBranch(b string) { e.gitBranch = b }

func (e *Editor) SetScroll(y int) {
	if y < 0 {
		y = 0
	}
	e.scroll = y
}

// OpenFile loads path into the buffer. A nonexistent path is not an
// error: the buffer starts empty and the name sticks for the first save.
func (e *Editor) OpenFile(path string) error {
	err := e.buf.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		e.buf.SetFilename(path)
	}
	logger.Info("opened file", "path", path, "lines", e.buf.LineCount())
	return nil
}

// HandleKey translates and dispatches one logical key. The transient
// status message is dropped first, so it survives exactly until the
// next key press.
func (e *Editor) HandleKey(k keys.Key) {
	e.statusMessage = ""
	act := e.handler.HandleKey(k)
	e.dispatch(act)
}

func (e *Editor) dispatch(act input.Action) {
	switch act.Kind {
	case input.ActionNone:

	case input.ActionInsertRune:
		e.buf.InsertRune(act.Rune)
		e.editHappened()
	case input.ActionInsertNewline:
		e.buf.InsertNewline()
		e.editHappened()
	case input.ActionInsertTab:
		e.buf.InsertTab()
		e.editHappened()
	case input.ActionBackspace:
		e.buf.Backspace()
		e.editHappened()
	case input.ActionDeleteForward:
		e.buf.DeleteForward()
		e.editHappened()
	case input.ActionCutWordStart:
		e.buf.CutWordToStart()
		e.editHappened()
	case input.ActionCutWordEnd:
		e.buf.CutWordToEnd()
		e.editHappened()

	case input.ActionMoveLeft:
		e.buf.MoveCursor(-1, 0)
	case input.ActionMoveRight:
		e.buf.MoveCursor(1, 0)
	case input.ActionMoveUp:
		e.buf.MoveCursor(0, -1)
	case input.ActionMoveDown:
		e.buf.MoveCursor(0, 1)
	case input.ActionWordLeft:
		e.buf.MoveWordLeft()
	case input.ActionWordRight:
		e.buf.MoveWordRight()
	case input.ActionLineStart:
		e.buf.SetCursor(0, e.buf.Cursor().Row)
	case input.ActionLineEnd:
		row := e.buf.Cursor().Row
		e.buf.SetCursor(len(e.buf.Line(row)), row)
	case input.ActionPageUp:
		e.buf.MoveCursor(0, -e.viewHeight)
	case input.ActionPageDown:
		e.buf.MoveCursor(0, e.viewHeight)

	case input.ActionFind:
		e.searcher.Clear()
		e.handler.SetMode(input.ModeSearch)
	case input.ActionFindNext:
		e.searcher.Next(e.buf)
	case input.ActionFindPrev:
		e.searcher.Prev(e.buf)
	case input.ActionGotoLine:
		e.prompt = promptGotoLine
		e.handler.SetMode(input.ModePrompt)

	case input.ActionSave:
		if e.buf.Filename() == "" {
			e.prompt = promptSaveAs
			e.handler.SetMode(input.ModeCommand)
			return
		}
		e.saveTo("")
	case input.ActionSaveAs:
		e.prompt = promptSaveAs
		e.handler.SetMode(input.ModeCommand)
	case input.ActionQuit:
		if e.buf.Dirty() {
			e.prompt = promptQuitConfirm
			e.handler.SetMode(input.ModePrompt)
			return
		}
		e.quit = true

	case input.ActionCutLine:
		e.yankLine()
		e.buf.DeleteLine(e.buf.Cursor().Row)
		e.editHappened()
	case input.ActionCopyLine:
		e.yankLine()
		e.statusMessage = "copied line"
	case input.ActionPaste:
		e.paste()
	case input.ActionUndo:
		if err := e.buf.Undo(); err != nil {
			e.statusMessage = "nothing to undo"
			return
		}
		e.editHappened()
	case input.ActionRedo:
		if err := e.buf.Redo(); err != nil {
			e.statusMessage = "nothing to redo"
			return
		}
		e.editHappened()
	case input.ActionCancel:
		e.toNormal()

	case input.ActionSearchChanged:
		e.searcher.Update(e.buf, e.handler.SearchText())
	case input.ActionSearchSubmit:
		if !e.searcher.HasMatches() {
			e.statusMessage = "no matches"
			return
		}
		e.handler.SetMode(input.ModeNormal)
	case input.ActionSearchCancel:
		e.searcher.Clear()
		e.toNormal()

	case input.ActionPromptChanged:

	case input.ActionPromptSubmit:
		e.submitPrompt(e.handler.PromptText())
	case input.ActionPromptCancel:
		e.toNormal()
	}
}

func (e *Editor) toNormal() {
	e.prompt = promptNone
	e.handler.SetMode(input.ModeNormal)
}

// editHappened invalidates anything derived from buffer content.
// Stale match positions are worse than no matches.
func (e *Editor) editHappened() {
	if e.searcher.HasMatches() || e.searcher.Query() != "" {
		e.searcher.Clear()
	}
}

func (e *Editor) yankLine() {
	line := e.buf.Line(e.buf.Cursor().Row)
	e.clipboard = append(e.clipboard[:0], line...)
	e.clipboard = append(e.clipboard, '\n')
}

// paste replays the clipboard through the single-character insert
// primitives inside one undo group, so one undo removes the whole
// paste.
func (e *Editor) paste() {
	if len(e.clipboard) == 0 {
		return
	}
	e.buf.BeginGroup()
	for _, r := range e.clipboard {
		if r == '\n' {
			e.buf.InsertNewline()
			continue
		}
		e.buf.InsertRune(r)
	}
	e.buf.EndGroup()
	e.editHappened()
}

func (e *Editor) saveTo(path string) {
	if err := e.buf.Save(path); err != nil {
		logger.Error("save failed", "path", path, "error", err)
		e.statusMessage = err.Error()
		return
	}
	e.buf.MarkSaved()
	e.statusMessage = fmt.Sprintf("saved %s", filepath.Base(e.buf.Filename()))
	logger.Info("saved file", "path", e.buf.Filename())
}

func (e *Editor) submitPrompt(text string) {
	kind := e.prompt
	e.toNormal()

	switch kind {
	case promptGotoLine:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || n < 1 || n > e.buf.LineCount() {
			return
		}
		e.buf.SetCursor(0, n-1)
	case promptSaveAs:
		name := strings.TrimSpace(text)
		if name == "" {
			return
		}
		e.saveTo(name)
	case promptQuitConfirm:
		if strings.TrimSpace(text) == "y" {
			e.quit = true
		}
	}
}

func styleFromColors(fg, bg string) tcell.Style {
	return tcell.StyleDefault.
		Foreground(parseColor(fg, tcell.ColorDefault)).
		Background(parseColor(bg, tcell.ColorDefault))
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
