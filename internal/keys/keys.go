// Package keys maps terminal key events onto the closed set of logical
// keys the editor understands. tcell owns the raw escape-sequence read;
// everything it reports is collapsed here into a Key value, and anything
// outside the set degrades to a bare Escape rather than an error.
package keys

import (
	"github.com/gdamore/tcell/v2"
)

type Kind int

const (
	KindRune Kind = iota
	KindCtrl
	KindEscape
	KindEnter
	KindBackspace
	KindDelete
	KindTab
	KindUp
	KindDown
	KindLeft
	KindRight
	KindHome
	KindEnd
	KindPageUp
	KindPageDown
	KindWordLeft
	KindWordRight
	KindDeleteWordLeft
	KindDeleteWordRight
)

// Key is one logical key event. Rune is set for KindRune, Ctrl holds the
// control byte (1..26) for KindCtrl.
type Key struct {
	Kind Kind
	Rune rune
	Ctrl byte
}

// Decode translates a tcell key event into a logical Key.
//
// Control chords arrive from tcell with Key() equal to the control byte
// itself, so codes 1..26 pass through as KindCtrl except for the bytes
// that double as named keys: 8 and 127 are backspace, 9 is tab, 10 and 13
// are enter. Ctrl- or Alt-modified horizontal arrows become word motion,
// and the same modifiers on backspace/delete become word deletion.
func Decode(ev *tcell.EventKey) Key {
	word := ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0

	switch ev.Key() {
	case tcell.KeyRune:
		return Key{Kind: KindRune, Rune: ev.Rune()}
	case tcell.KeyTab:
		return Key{Kind: KindTab}
	case tcell.KeyCR, tcell.KeyLF:
		return Key{Kind: KindEnter}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if word {
			return Key{Kind: KindDeleteWordLeft}
		}
		return Key{Kind: KindBackspace}
	case tcell.KeyDelete:
		if word {
			return Key{Kind: KindDeleteWordRight}
		}
		return Key{Kind: KindDelete}
	case tcell.KeyUp:
		return Key{Kind: KindUp}
	case tcell.KeyDown:
		return Key{Kind: KindDown}
	case tcell.KeyLeft:
		if word {
			return Key{Kind: KindWordLeft}
		}
		return Key{Kind: KindLeft}
	case tcell.KeyRight:
		if word {
			return Key{Kind: KindWordRight}
		}
		return Key{Kind: KindRight}
	case tcell.KeyHome:
		return Key{Kind: KindHome}
	case tcell.KeyEnd:
		return Key{Kind: KindEnd}
	case tcell.KeyPgUp:
		return Key{Kind: KindPageUp}
	case tcell.KeyPgDn:
		return Key{Kind: KindPageDown}
	case tcell.KeyEscape:
		return Key{Kind: KindEscape}
	}

	if k := ev.Key(); k >= 1 && k <= 26 {
		return Key{Kind: KindCtrl, Ctrl: byte(k)}
	}

	// Unrecognized sequence (function keys and friends).
	return Key{Kind: KindEscape}
}
