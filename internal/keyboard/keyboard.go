// Package keyboard models the on-screen keyboard shown under the passage.
package keyboard

import (
	"strings"
	"unicode"
)

// Space is the label of the space bar key.
const Space = "Space"

// Rows is the QWERTY layout in display order. The last row is the space bar.
var Rows = [][]string{
	{"Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P"},
	{"A", "S", "D", "F", "G", "H", "J", "K", "L"},
	{"Z", "X", "C", "V", "B", "N", "M"},
	{Space},
}

var (
	homeLeft  = map[string]struct{}{"A": {}, "S": {}, "D": {}, "F": {}}
	homeRight = map[string]struct{}{"J": {}, "K": {}, "L": {}}
)

// KeyClass is the highlight class of a key.
type KeyClass int

const (
	Normal KeyClass = iota
	HomeLeft
	HomeRight
	Focus
	Next
)

// Board resolves key classes for one render.
type Board struct {
	next    string
	hasNext bool
	focus   map[string]struct{}
}

// New builds a board highlighting the key for next, when hasNext is set,
// and every key in focus.
func New(next rune, hasNext bool, focus string) Board {
	b := Board{focus: ParseFocus(focus)}
	if hasNext {
		b.next, b.hasNext = KeyFor(next)
	}
	return b
}

// ParseFocus returns the set of key labels named by the letters in s.
func ParseFocus(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, r := range s {
		if key, ok := KeyFor(r); ok {
			set[key] = struct{}{}
		}
	}
	return set
}

// KeyFor maps a character to its key label. Letters match case-insensitively
// and any whitespace maps to the space bar.
func KeyFor(r rune) (string, bool) {
	if unicode.IsSpace(r) {
		return Space, true
	}
	if r > unicode.MaxASCII || !unicode.IsLetter(r) {
		return "", false
	}
	return strings.ToUpper(string(r)), true
}

// Class returns the class of key. Next wins over focus, focus over home row.
func (b Board) Class(key string) KeyClass {
	if b.hasNext && key == b.next {
		return Next
	}
	if _, ok := b.focus[key]; ok {
		return Focus
	}
	if _, ok := homeLeft[key]; ok {
		return HomeLeft
	}
	if _, ok := homeRight[key]; ok {
		return HomeRight
	}
	return Normal
}
