// Package session persists per-file cursor and scroll positions across
// runs, so reopening a file lands where the last edit happened.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState stores the remembered state of a single file.
type FileState struct {
	CursorRow int `json:"cursor_row"`
	CursorCol int `json:"cursor_col"`
	ScrollY   int `json:"scroll_y"`
}

// Session stores the complete editor session state.
type Session struct {
	Files      map[string]FileState `json:"files"`
	ActiveFile string               `json:"active_file,omitempty"`
	LastSaved  time.Time            `json:"last_saved"`
}

// Manager handles session persistence. Reads and writes are safe to
// call from the editor loop while the autosave goroutine runs.
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
}

func NewManager() (*Manager, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		session: Session{
			Files: make(map[string]FileState),
		},
		path:     path,
		stopChan: make(chan struct{}),
	}

	m.load()

	go m.autosaveLoop()

	return m, nil
}

func sessionPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateDir, "ked")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return // no existing session, start fresh
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return
	}
	if session.Files == nil {
		session.Files = make(map[string]FileState)
	}
	m.session = session
}

// Save persists the session to disk when something changed.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

// ForceSave saves even if not dirty
func (m *Manager) ForceSave() error {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	return m.Save()
}

// GetFileState returns the saved state for a file
func (m *Manager) GetFileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.session.Files[absPath]
	return state, ok
}

// SetFileState updates the state for a file
func (m *Manager) SetFileState(absPath string, state FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Files[absPath] = state
	m.session.ActiveFile = absPath
	m.dirty = true
}

// GetActiveFile returns the last active file
func (m *Manager) GetActiveFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.ActiveFile
}

func (m *Manager) autosaveLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = m.Save()
		case <-m.stopChan:
			return
		}
	}
}

// Stop stops the autosave loop and saves final state
func (m *Manager) Stop() {
	close(m.stopChan)
	_ = m.ForceSave()
}
