// Package metrics derives live typing metrics from the input and target text.
package metrics

import (
	"math"
	"strings"
)

// Metrics holds the values shown while a passage is being typed.
type Metrics struct {
	WPM            int
	Accuracy       int
	ErrorCount     int
	ElapsedSeconds float64
}

// Default returns the metrics of a session that has not started.
func Default() Metrics {
	return Metrics{Accuracy: 100}
}

// Compute derives all metrics for input typed against target over elapsedSeconds.
//
// Errors are counted only where input and target overlap, so characters typed
// past the end of the target are not penalized.
func Compute(input, target []rune, elapsedSeconds float64) Metrics {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	errors := CountErrors(input, target)
	return Metrics{
		WPM:            wpm(WordCount(string(input)), elapsedSeconds),
		Accuracy:       accuracy(len(input), errors),
		ErrorCount:     errors,
		ElapsedSeconds: elapsedSeconds,
	}
}

// WordCount returns the number of whitespace-delimited words in s.
// Empty and whitespace-only strings have zero words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// CountErrors counts positions where input differs from target.
func CountErrors(input, target []rune) int {
	n := min(len(input), len(target))
	errors := 0
	for i := 0; i < n; i++ {
		if input[i] != target[i] {
			errors++
		}
	}
	return errors
}

func wpm(words int, elapsedSeconds float64) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	return int(math.Round(float64(words) / elapsedSeconds * 60))
}

func accuracy(typed, errors int) int {
	if typed <= 0 {
		return 100
	}
	acc := int(math.Round(float64(typed-errors) / float64(typed) * 100))
	if acc < 0 {
		return 0
	}
	if acc > 100 {
		return 100
	}
	return acc
}
