// Package session implements the typing-session state machine.
//
// A State is a value. ApplyInput and Reset return a new State and leave the
// receiver untouched, so a host can hold the single current instance and
// swap it on every input event.
package session

import (
	"math"
	"time"

	"github.com/verte-zerg/keyflow/internal/metrics"
)

// State is the state of one typing session against a fixed target text.
type State struct {
	target []rune
	input  []rune

	typing   bool
	complete bool

	started   bool
	startedAt time.Time

	metrics metrics.Metrics
}

// Snapshot is a read-only copy of a State for rendering.
type Snapshot struct {
	Target     string
	Input      string
	IsTyping   bool
	IsComplete bool
	Started    bool
	StartedAt  time.Time
	Metrics    metrics.Metrics
	// Progress is the typed share of the target in percent, capped at 100.
	Progress int
	// NextChar is the next expected character; HasNext is false once the
	// input has reached the end of the target.
	NextChar rune
	HasNext  bool
}

// New creates a session for target with no input.
func New(target string) State {
	return State{
		target:  []rune(target),
		metrics: metrics.Default(),
	}
}

// ApplyInput replaces the input with value, the full content of the entry
// field, as observed at now. A completed session ignores further input.
func (s State) ApplyInput(value string, now time.Time) State {
	if s.complete {
		return s
	}
	input := []rune(value)

	started, startedAt := s.started, s.startedAt
	if !started && len(input) > 0 {
		started, startedAt = true, now
	}

	elapsed := 0.0
	if started {
		elapsed = now.Sub(startedAt).Seconds()
	}

	return State{
		target:    s.target,
		input:     input,
		typing:    len(input) > 0,
		complete:  equalRunes(input, s.target),
		started:   started,
		startedAt: startedAt,
		metrics:   metrics.Compute(input, s.target, elapsed),
	}
}

// Reset clears the input, flags, start time and metrics, keeping the target.
func (s State) Reset() State {
	return New(string(s.target))
}

// Target returns the target text.
func (s State) Target() string { return string(s.target) }

// Input returns the current input.
func (s State) Input() string { return string(s.input) }

// IsTyping reports whether the input is non-empty.
func (s State) IsTyping() bool { return s.typing }

// IsComplete reports whether the input exactly matches the target.
func (s State) IsComplete() bool { return s.complete }

// StartedAt returns the time of the first keystroke and whether it happened.
func (s State) StartedAt() (time.Time, bool) { return s.startedAt, s.started }

// Metrics returns the metrics computed by the last transition.
func (s State) Metrics() metrics.Metrics { return s.metrics }

// Classes classifies every target character against the current input.
func (s State) Classes() []Class {
	return classify(s.input, s.target)
}

// Snapshot returns a read-only view of the state.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Target:     string(s.target),
		Input:      string(s.input),
		IsTyping:   s.typing,
		IsComplete: s.complete,
		Started:    s.started,
		StartedAt:  s.startedAt,
		Metrics:    s.metrics,
		Progress:   progress(len(s.input), len(s.target)),
	}
	if len(s.input) < len(s.target) {
		snap.NextChar = s.target[len(s.input)]
		snap.HasNext = true
	}
	return snap
}

func progress(typed, total int) int {
	if total == 0 || typed >= total {
		return 100
	}
	return int(math.Round(float64(typed) * 100 / float64(total)))
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
