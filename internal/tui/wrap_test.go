package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/keyflow/internal/session"
)

func styled(target, input string) []styledRune {
	return buildStyledRunes([]rune(target), session.Classify(input, target))
}

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := styled("ab", "a")
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	runes := styled("a", "a")
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	runes := styled("abc", "ax")
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
	if runes[2].s != cursorStyle.Render("c") {
		t.Fatalf("expected cursor on third rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	runes := styled("one two", "o")
	if runes[0].s != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[1].s != cursorStyle.Render("n") {
		t.Fatalf("expected cursor style for next rune")
	}
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
	if runes[6].s != pendingStyle.Render("o") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	runes := styled("a b", "ax")
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render(string(wrongSpaceRune)) {
		t.Fatalf("expected red dot for wrong space")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := styled("one two three", "")
	out := wrapStyledRunes(runes, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lineWidthOf(styled("one two ", "")) != 8 {
		t.Fatalf("unexpected first line width")
	}
}

func TestWrapStyledRunesHardBreaksLongWords(t *testing.T) {
	runes := styled("abcdefghij", "")
	out := wrapStyledRunes(runes, 4)
	if got := strings.Count(out, "\n"); got != 2 {
		t.Fatalf("expected 2 line breaks, got %d: %q", got, out)
	}
}

func TestWrapStyledRunesNoWidth(t *testing.T) {
	runes := styled("one two", "")
	if wrapStyledRunes(runes, 0) != renderStyledRunes(runes) {
		t.Fatalf("expected unwrapped output for zero width")
	}
}

func TestWordForCursor(t *testing.T) {
	words := findWords([]rune("ab cd"))
	if w := wordForCursor(words, 2); w == nil || w.start != 3 {
		t.Fatalf("expected next word when cursor is on a space, got %+v", w)
	}
	if w := wordForCursor(words, -1); w != nil {
		t.Fatalf("expected no word without cursor")
	}
}
