// Package generator builds practice passages from a word list.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// Generator produces randomized practice text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects count words uniformly.
func (g *Generator) Generate(words []string, count int) []string {
	if len(words) == 0 || count <= 0 {
		return nil
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, words[g.rnd.Intn(len(words))])
	}
	return result
}

// GenerateFocused selects count words, weighting each word by how many of
// its letters are in focus. A word with k focus letters has weight 1+k*factor.
func (g *Generator) GenerateFocused(words []string, count int, focus string, factor float64) []string {
	focusSet := focusLetters(focus)
	if len(focusSet) == 0 || factor <= 0 {
		return g.Generate(words, count)
	}
	if len(words) == 0 || count <= 0 {
		return nil
	}

	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		focusCount := 0
		for _, r := range word {
			if _, ok := focusSet[unicode.ToLower(r)]; ok {
				focusCount++
			}
		}
		w := 1.0 + float64(focusCount)*factor
		weights[i] = w
		total += w
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(words) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, words[idx])
	}
	return result
}

// Passage joins generated words into a single line of text.
func (g *Generator) Passage(words []string, count int, focus string, factor float64) string {
	return strings.Join(g.GenerateFocused(words, count, focus, factor), " ")
}

func focusLetters(focus string) map[rune]struct{} {
	set := map[rune]struct{}{}
	for _, r := range focus {
		if unicode.IsLetter(r) {
			set[unicode.ToLower(r)] = struct{}{}
		}
	}
	return set
}
