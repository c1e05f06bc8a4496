// Package wordlist loads word lists used to generate passages.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Builtin is used when no word list file is available.
var Builtin = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "it",
	"for", "not", "on", "with", "he", "as", "you", "do", "at", "this",
	"but", "his", "by", "from", "they", "we", "say", "her", "she", "or",
	"an", "will", "my", "one", "all", "would", "there", "their", "what", "so",
	"up", "out", "if", "about", "who", "get", "which", "go", "me", "when",
	"make", "can", "like", "time", "no", "just", "him", "know", "take", "people",
	"into", "year", "your", "good", "some", "could", "them", "see", "other", "than",
	"then", "now", "look", "only", "come", "its", "over", "think", "also", "back",
	"after", "use", "two", "how", "our", "work", "first", "well", "way", "even",
	"new", "want", "because", "any", "these", "give", "day", "most", "us", "add",
	"fall", "glass", "flask", "salad", "dash", "fast", "safe", "sad", "ask", "desk",
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords reads one word per line, skipping blank lines and words the
// English filter rejects.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if !Keep(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// LoadOrBuiltin loads the word list at path, falling back to Builtin when
// path is empty or does not exist.
func LoadOrBuiltin(path string) ([]string, error) {
	if path == "" {
		return Builtin, nil
	}
	words, err := LoadWords(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Builtin, nil
		}
		return nil, err
	}
	return words, nil
}
