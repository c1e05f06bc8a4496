package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keyflow/internal/session"
)

const wrongSpaceRune = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func buildStyledRunes(targetRunes []rune, classes []session.Class) []styledRune {
	cursorIndex := -1
	for i, c := range classes {
		if c == session.Current {
			cursorIndex = i
			break
		}
	}
	words := findWords(targetRunes)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		switch classes[i] {
		case session.Correct:
			style = correctStyle
		case session.Incorrect:
			style = incorrectStyle
			if target == ' ' {
				displayed = wrongSpaceRune
			}
		case session.Current:
			style = cursorStyle
		default:
			if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

// wordForCursor returns the word holding the cursor, or the next word when
// the cursor sits on a space. No cursor means nothing is highlighted.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx+1]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
