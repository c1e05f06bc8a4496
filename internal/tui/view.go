package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keyflow/internal/keyboard"
	"github.com/verte-zerg/keyflow/internal/metrics"
)

const (
	accentColor = lipgloss.Color("#C89A3A")
	errorColor  = lipgloss.Color("#FF4D4F")
	barWidthMax = 60
	spaceWidth  = 17
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(errorColor).Underline(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(accentColor)
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(accentColor).Bold(true)

	focusLettersStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle        = lipgloss.NewStyle().Foreground(errorColor)
	cardStyle         = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	barFullStyle   = lipgloss.NewStyle().Foreground(accentColor)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	doneStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(accentColor).
			Padding(0, 2)

	keyNextStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#1A1A1A")).Background(accentColor).Bold(true)
	keyFocusStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(accentColor).Background(lipgloss.Color("#3A2F1A")).Bold(true)
	keyHomeLeftStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A3A3A"))
	keyHomeRightStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#D0D0D0")).Background(lipgloss.Color("#303030"))
	keyNormalStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#8C8C8C")).Background(lipgloss.Color("#262626"))
)

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.state.Snapshot()
	width := m.contentWidth()

	sections := make([]string, 0, 9)
	if f := m.renderFocus(); f != "" {
		sections = append(sections, f)
	}
	sections = append(sections,
		renderStats(snap.Metrics),
		renderProgress(snap.Progress, width),
		m.renderPassage(width),
		renderKeyboard(keyboard.New(snap.NextChar, snap.HasNext, m.focus)),
		m.input.View(),
	)
	if snap.IsComplete {
		sections = append(sections, renderCompletion(snap.Metrics))
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	sections = append(sections, m.help.View(m.keys))

	body := lipgloss.JoinVertical(lipgloss.Center, spaced(sections)...)
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) renderFocus() string {
	letters := strings.ToUpper(strings.TrimSpace(m.focus))
	if letters == "" {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		focusLettersStyle.Render(strings.Join(strings.Split(letters, ""), " ")),
		mutedStyle.Render("Focus on these keys"),
	)
}

func (m *Model) renderPassage(width int) string {
	target := []rune(m.state.Target())
	if len(target) == 0 {
		return mutedStyle.Render("(empty passage)")
	}
	wrapped := wrapStyledRunes(buildStyledRunes(target, m.state.Classes()), width)
	if width <= 0 {
		return wrapped
	}
	return lipgloss.NewStyle().Width(width).Render(wrapped)
}

func renderStats(mt metrics.Metrics) string {
	cards := []string{
		renderCard("WPM", fmt.Sprintf("%d", mt.WPM)),
		renderCard("Accuracy", fmt.Sprintf("%d%%", mt.Accuracy)),
		renderCard("Errors", fmt.Sprintf("%d", mt.ErrorCount)),
		renderCard("Time", formatElapsed(mt.ElapsedSeconds)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(title, value string) string {
	content := lipgloss.JoinVertical(lipgloss.Center, cardValueStyle.Render(value), cardTitleStyle.Render(title))
	return cardStyle.Width(12).Align(lipgloss.Center).Render(content)
}

func formatElapsed(seconds float64) string {
	return fmt.Sprintf("%ds", int(math.Round(seconds)))
}

func renderProgress(pct, width int) string {
	barWidth := barWidthMax
	if width > 0 && width-6 < barWidth {
		barWidth = max(width-6, 1)
	}
	pct = min(max(pct, 0), 100)
	filled := barWidth * pct / 100
	bar := barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %s", bar, mutedStyle.Render(fmt.Sprintf("%3d%%", pct)))
}

func renderKeyboard(b keyboard.Board) string {
	rows := make([]string, 0, len(keyboard.Rows))
	for _, row := range keyboard.Rows {
		keys := make([]string, 0, len(row))
		for _, label := range row {
			style := keyStyle(b.Class(label))
			if label == keyboard.Space {
				style = style.Width(spaceWidth).Align(lipgloss.Center)
			}
			keys = append(keys, style.Render(label))
		}
		rows = append(rows, strings.Join(keys, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func keyStyle(c keyboard.KeyClass) lipgloss.Style {
	switch c {
	case keyboard.Next:
		return keyNextStyle
	case keyboard.Focus:
		return keyFocusStyle
	case keyboard.HomeLeft:
		return keyHomeLeftStyle
	case keyboard.HomeRight:
		return keyHomeRightStyle
	default:
		return keyNormalStyle
	}
}

func renderCompletion(mt metrics.Metrics) string {
	msg := fmt.Sprintf("Great job! You completed the text with %d WPM and %d%% accuracy!", mt.WPM, mt.Accuracy)
	return doneStyle.Render(msg)
}

func spaced(sections []string) []string {
	out := make([]string, 0, len(sections)*2)
	for i, s := range sections {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, s)
	}
	return out
}
