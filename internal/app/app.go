// Package app wires the terminal, config, session and editor together
// and runs the blocking event loop.
package app

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/ked-editor/ked/internal/config"
	"github.com/ked-editor/ked/internal/editor"
	"github.com/ked-editor/ked/internal/gitinfo"
	"github.com/ked-editor/ked/internal/keys"
	"github.com/ked-editor/ked/internal/logger"
	"github.com/ked-editor/ked/internal/session"
)

// App is the top-level runtime for ked.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	var sm *session.Manager
	if cfg.Editor.Session {
		sm, err = session.NewManager()
		if err != nil {
			logger.Warn("session disabled", "error", err)
		} else {
			defer sm.Stop()
		}
	}

	ed := editor.New(cfg)

	var openPath string
	if len(a.args) > 0 {
		openPath = a.args[0]
		if err := ed.OpenFile(openPath); err != nil {
			return err
		}
		if abs, err := filepath.Abs(openPath); err == nil {
			openPath = abs
		}
		restoreFileState(ed, sm, openPath)
	}

	gitPath := openPath
	if gitPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			gitPath = cwd
		}
	}
	ed.SetGitBranch(gitinfo.Branch(gitPath))
	lastGitCheck := time.Now()

	ed.Render(s)
	for {
		ev := s.PollEvent()
		if ev == nil {
			// The event stream is gone; nothing sane left to do.
			return errors.New("input stream closed")
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			ed.HandleKey(keys.Decode(ev))
		case *tcell.EventResize:
			s.Sync()
		}

		recordFileState(ed, sm)

		if ed.ShouldQuit() {
			logger.Info("quit")
			return nil
		}

		if gitPath != "" && time.Since(lastGitCheck) > 2*time.Second {
			lastGitCheck = time.Now()
			ed.SetGitBranch(gitinfo.Branch(gitPath))
		}

		ed.Render(s)
	}
}

// recordFileState snapshots cursor and scroll under the buffer's current
// name, so a save-as starts tracking the new path right away.
func recordFileState(ed *editor.Editor, sm *session.Manager) {
	if sm == nil {
		return
	}
	name := ed.Buffer().Filename()
	if name == "" {
		return
	}
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	cur := ed.Buffer().Cursor()
	sm.SetFileState(name, session.FileState{
		CursorRow: cur.Row,
		CursorCol: cur.Col,
		ScrollY:   ed.Scroll(),
	})
}

func restoreFileState(ed *editor.Editor, sm *session.Manager, absPath string) {
	if sm == nil {
		return
	}
	state, ok := sm.GetFileState(absPath)
	if !ok {
		return
	}
	ed.Buffer().SetCursor(state.CursorCol, state.CursorRow)
	ed.SetScroll(state.ScrollY)
}
