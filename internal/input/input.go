// Package input is the mode-sensitive key interpreter: it turns logical
// keys into editor actions and owns the per-mode text accumulation
// buffers. The search query and prompt text live here and nowhere else;
// switching mode always clears both, so no text leaks between modes.
package input

import "github.com/ked-editor/ked/internal/keys"

type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModePrompt
	ModeCommand
)

type ActionKind int

const (
	ActionNone ActionKind = iota

	// Normal-mode edits and motion.
	ActionInsertRune
	ActionInsertNewline
	ActionInsertTab
	ActionBackspace
	ActionDeleteForward
	ActionCutWordStart
	ActionCutWordEnd
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionWordLeft
	ActionWordRight
	ActionLineStart
	ActionLineEnd
	ActionPageUp
	ActionPageDown

	// Normal-mode commands.
	ActionFind
	ActionFindNext
	ActionFindPrev
	ActionGotoLine
	ActionSave
	ActionSaveAs
	ActionQuit
	ActionCutLine
	ActionCopyLine
	ActionPaste
	ActionUndo
	ActionRedo
	ActionCancel

	// Search-mode signals.
	ActionSearchChanged
	ActionSearchSubmit
	ActionSearchCancel

	// Prompt/command-mode signals.
	ActionPromptChanged
	ActionPromptSubmit
	ActionPromptCancel
)

// Action is what a key press means in the current mode. Rune carries the
// character for ActionInsertRune.
type Action struct {
	Kind ActionKind
	Rune rune
}

// Handler is the interpreter state machine. It is the sole owner and
// mutator of the search and prompt accumulation buffers.
type Handler struct {
	mode       Mode
	searchText []rune
	promptText []rune
}

func NewHandler() *Handler {
	return &Handler{mode: ModeNormal}
}

func (h *Handler) Mode() Mode { return h.mode }

// SetMode switches the interpreter mode and clears both accumulation
// buffers, even when re-entering the current mode.
func (h *Handler) SetMode(m Mode) {
	h.mode = m
	h.searchText = h.searchText[:0]
	h.promptText = h.promptText[:0]
}

func (h *Handler) SearchText() string { return string(h.searchText) }

func (h *Handler) PromptText() string { return string(h.promptText) }

// HandleKey translates one logical key into an action, mutating the
// mode-local accumulation buffer as a side effect.
func (h *Handler) HandleKey(k keys.Key) Action {
	switch h.mode {
	case ModeSearch:
		return h.handleSearch(k)
	case ModePrompt, ModeCommand:
		return h.handlePrompt(k)
	default:
		return h.handleNormal(k)
	}
}

func (h *Handler) handleNormal(k keys.Key) Action {
	switch k.Kind {
	case keys.KindRune:
		return Action{Kind: ActionInsertRune, Rune: k.Rune}
	case keys.KindEnter:
		return Action{Kind: ActionInsertNewline}
	case keys.KindTab:
		return Action{Kind: ActionInsertTab}
	case keys.KindBackspace:
		return Action{Kind: ActionBackspace}
	case keys.KindDelete:
		return Action{Kind: ActionDeleteForward}
	case keys.KindDeleteWordLeft:
		return Action{Kind: ActionCutWordStart}
	case keys.KindDeleteWordRight:
		return Action{Kind: ActionCutWordEnd}
	case keys.KindEscape:
		return Action{Kind: ActionCancel}
	case keys.KindUp:
		return Action{Kind: ActionMoveUp}
	case keys.KindDown:
		return Action{Kind: ActionMoveDown}
	case keys.KindLeft:
		return Action{Kind: ActionMoveLeft}
	case keys.KindRight:
		return Action{Kind: ActionMoveRight}
	case keys.KindWordLeft:
		return Action{Kind: ActionWordLeft}
	case keys.KindWordRight:
		return Action{Kind: ActionWordRight}
	case keys.KindHome:
		return Action{Kind: ActionLineStart}
	case keys.KindEnd:
		return Action{Kind: ActionLineEnd}
	case keys.KindPageUp:
		return Action{Kind: ActionPageUp}
	case keys.KindPageDown:
		return Action{Kind: ActionPageDown}
	case keys.KindCtrl:
		return normalCtrlAction(k.Ctrl)
	}
	return Action{Kind: ActionNone}
}

// normalCtrlAction maps a control byte to its normal-mode action. Bytes
// 8 (backspace), 9 (tab) and 13 (enter) never reach here; the decoder
// reports them as named keys.
func normalCtrlAction(c byte) Action {
	switch c {
	case 1: // ctrl-a
		return Action{Kind: ActionLineStart}
	case 2: // ctrl-b
		return Action{Kind: ActionMoveLeft}
	case 3: // ctrl-c
		return Action{Kind: ActionCancel}
	case 4: // ctrl-d
		return Action{Kind: ActionDeleteForward}
	case 5: // ctrl-e
		return Action{Kind: ActionLineEnd}
	case 6: // ctrl-f
		return Action{Kind: ActionFind}
	case 7: // ctrl-g
		return Action{Kind: ActionGotoLine}
	case 11: // ctrl-k
		return Action{Kind: ActionCutLine}
	case 12: // ctrl-l
		return Action{Kind: ActionMoveRight}
	case 14: // ctrl-n
		return Action{Kind: ActionFindNext}
	case 15, 19: // ctrl-o, ctrl-s
		return Action{Kind: ActionSave}
	case 16: // ctrl-p
		return Action{Kind: ActionPaste}
	case 17, 24: // ctrl-q, ctrl-x
		return Action{Kind: ActionQuit}
	case 18: // ctrl-r
		return Action{Kind: ActionFindPrev}
	case 20: // ctrl-t
		return Action{Kind: ActionRedo}
	case 21, 26: // ctrl-u, ctrl-z
		return Action{Kind: ActionUndo}
	case 22: // ctrl-v
		return Action{Kind: ActionPageDown}
	case 23: // ctrl-w
		return Action{Kind: ActionSaveAs}
	case 25: // ctrl-y
		return Action{Kind: ActionCopyLine}
	default:
		return Action{Kind: ActionNone}
	}
}

func (h *Handler) handleSearch(k keys.Key) Action {
	switch k.Kind {
	case keys.KindRune:
		h.searchText = append(h.searchText, k.Rune)
		return Action{Kind: ActionSearchChanged}
	case keys.KindBackspace, keys.KindDelete:
		if len(h.searchText) == 0 {
			return Action{Kind: ActionNone}
		}
		h.searchText = h.searchText[:len(h.searchText)-1]
		return Action{Kind: ActionSearchChanged}
	case keys.KindEnter:
		return Action{Kind: ActionSearchSubmit}
	case keys.KindEscape:
		return Action{Kind: ActionSearchCancel}
	case keys.KindCtrl:
		switch k.Ctrl {
		case 3, 7, 18: // ctrl-c, ctrl-g, ctrl-r
			return Action{Kind: ActionSearchCancel}
		case 19: // ctrl-s
			return Action{Kind: ActionSearchSubmit}
		}
	}
	return Action{Kind: ActionNone}
}

// handlePrompt serves both prompt and command mode; the two differ only
// in which controller flow consumes the submitted text.
func (h *Handler) handlePrompt(k keys.Key) Action {
	switch k.Kind {
	case keys.KindRune:
		h.promptText = append(h.promptText, k.Rune)
		return Action{Kind: ActionPromptChanged}
	case keys.KindBackspace, keys.KindDelete:
		if len(h.promptText) == 0 {
			return Action{Kind: ActionNone}
		}
		h.promptText = h.promptText[:len(h.promptText)-1]
		return Action{Kind: ActionPromptChanged}
	case keys.KindEnter:
		return Action{Kind: ActionPromptSubmit}
	case keys.KindEscape:
		return Action{Kind: ActionPromptCancel}
	case keys.KindCtrl:
		switch k.Ctrl {
		case 3, 7: // ctrl-c, ctrl-g
			return Action{Kind: ActionPromptCancel}
		}
	}
	return Action{Kind: ActionNone}
}
