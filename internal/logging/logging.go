// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// ParseLevel parses a level name, treating an empty string as DefaultLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		name = DefaultLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Setup points the global logger at w with a console format.
func Setup(w io.Writer, level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: true})
}

// SetupFile sends logs to the file at path, creating it if needed. The
// returned function closes the file. On failure logging is left on stderr.
func SetupFile(path string, level zerolog.Level) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	Setup(f, level)
	return f.Close, nil
}
