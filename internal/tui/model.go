// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/keyflow/internal/model"
	"github.com/verte-zerg/keyflow/internal/session"
)

// Source supplies new passages on request.
type Source interface {
	Resolve(ctx context.Context) (model.Passage, error)
	CanRenew() bool
}

type passageChangedMsg struct {
	passage model.Passage
}

// PassageChanged returns a message that replaces the current passage and
// starts a fresh session. It is safe to deliver with tea.Program.Send.
func PassageChanged(p model.Passage) tea.Msg {
	return passageChangedMsg{passage: p}
}

// Model implements the Bubble Tea typing UI. It owns the single live
// session.State and swaps it on every input change.
type Model struct {
	source  Source
	passage model.Passage
	focus   string

	state session.State
	input textinput.Model
	keys  keyMap
	help  help.Model
	now   func() time.Time

	width  int
	height int
	errMsg string
}

// NewModel constructs a typing TUI model for passage p. source may be nil
// when the passage cannot be replaced.
func NewModel(p model.Passage, focus string, source Source) *Model {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Start typing here..."
	input.CharLimit = 0
	input.Focus()

	canRenew := source != nil && source.CanRenew()
	m := &Model{
		source: source,
		focus:  focus,
		input:  input,
		keys:   newKeyMap(canRenew),
		help:   help.New(),
		now:    time.Now,
	}
	m.startPassage(p)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.contentWidth()-len([]rune(m.input.Prompt))-1, 0)
		m.help.Width = m.width
		return m, nil
	case passageChangedMsg:
		m.startPassage(msg.passage)
		return m, m.focusInput()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset), key.Matches(msg, m.keys.Retry):
			return m, m.reset()
		case key.Matches(msg, m.keys.Next):
			return m, m.nextPassage()
		}
		if m.state.IsComplete() {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.applyInput()
		return m, cmd
	default:
		// Cursor blinks and clipboard reads from the entry field land here;
		// a clipboard read changes the value without a key message.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if !m.state.IsComplete() {
			m.applyInput()
		}
		return m, cmd
	}
}

// Snapshot returns the current session snapshot.
func (m *Model) Snapshot() session.Snapshot {
	return m.state.Snapshot()
}

func (m *Model) applyInput() {
	value := m.input.Value()
	if value == m.state.Input() {
		return
	}
	m.apply(value)
}

func (m *Model) apply(value string) {
	m.state = m.state.ApplyInput(value, m.now())
	if m.state.IsComplete() {
		m.input.Blur()
		m.keys.Retry.SetEnabled(true)
		log.Debug().
			Int("wpm", m.state.Metrics().WPM).
			Int("accuracy", m.state.Metrics().Accuracy).
			Msg("Passage completed")
	}
}

func (m *Model) reset() tea.Cmd {
	m.state = m.state.Reset()
	m.input.Reset()
	m.keys.Retry.SetEnabled(false)
	m.errMsg = ""
	m.completeEmptyTarget()
	return m.focusInput()
}

func (m *Model) nextPassage() tea.Cmd {
	p, err := m.source.Resolve(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load next passage")
		m.errMsg = err.Error()
		return nil
	}
	m.startPassage(p)
	return m.focusInput()
}

// focusInput returns focus to the entry field unless the session is complete.
func (m *Model) focusInput() tea.Cmd {
	if m.state.IsComplete() {
		return nil
	}
	return m.input.Focus()
}

func (m *Model) startPassage(p model.Passage) {
	m.passage = p
	m.state = session.New(p.Body)
	m.input.Reset()
	m.keys.Retry.SetEnabled(false)
	m.errMsg = ""
	m.completeEmptyTarget()
	log.Debug().Str("origin", p.Origin).Int("chars", len([]rune(p.Body))).Msg("Passage started")
}

// An empty passage has no keystroke that would change the entry field, so it
// is matched against the empty input as soon as it starts.
func (m *Model) completeEmptyTarget() {
	if m.state.Target() == "" {
		m.apply("")
	}
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}
