// Package passage resolves the target text for a practice session.
package passage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/keyflow/internal/generator"
	"github.com/verte-zerg/keyflow/internal/model"
	"github.com/verte-zerg/keyflow/internal/store"
	"github.com/verte-zerg/keyflow/internal/wordlist"
)

// SampleText is the passage used when nothing else is configured.
const SampleText = "The quick brown fox jumps over the lazy dog. This is a sample text for typing practice. Focus on accuracy first, then speed will follow naturally."

// Library is the subset of the passage store used for sourcing.
type Library interface {
	GetPassage(ctx context.Context, id int64) (model.Passage, error)
	RandomPassage(ctx context.Context) (model.Passage, error)
}

// Resolver produces passages for one practice configuration.
type Resolver struct {
	cfg   model.Config
	lib   Library
	gen   *generator.Generator
	words []string
}

// NewResolver validates cfg and prepares any word list the source needs.
// lib may be nil unless the source is the library.
func NewResolver(cfg model.Config, lib Library, gen *generator.Generator) (*Resolver, error) {
	r := &Resolver{cfg: cfg, lib: lib, gen: gen}
	switch cfg.Source {
	case model.SourceSample, model.SourceText:
	case model.SourceFile:
		if cfg.File == "" {
			return nil, fmt.Errorf("source %q requires a passage file", cfg.Source)
		}
	case model.SourceLibrary:
		if lib == nil {
			return nil, fmt.Errorf("source %q requires the passage library", cfg.Source)
		}
	case model.SourceWords:
		if cfg.Words <= 0 {
			return nil, fmt.Errorf("--words must be > 0")
		}
		words, err := wordlist.LoadOrBuiltin(cfg.WordListPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list: %w", err)
		}
		r.words = words
		if r.gen == nil {
			r.gen = generator.New()
		}
	default:
		return nil, fmt.Errorf("unknown passage source %q", cfg.Source)
	}
	return r, nil
}

// Resolve returns the passage for the configured source.
func (r *Resolver) Resolve(ctx context.Context) (model.Passage, error) {
	switch r.cfg.Source {
	case model.SourceText:
		return model.Passage{Title: "Custom text", Body: Normalize(r.cfg.Text), Origin: "text"}, nil
	case model.SourceFile:
		return LoadFile(r.cfg.File)
	case model.SourceLibrary:
		var (
			p   model.Passage
			err error
		)
		if r.cfg.PassageID > 0 {
			p, err = r.lib.GetPassage(ctx, r.cfg.PassageID)
		} else {
			p, err = r.lib.RandomPassage(ctx)
		}
		if err != nil {
			if errors.Is(err, store.ErrPassageNotFound) && r.cfg.PassageID <= 0 {
				return model.Passage{}, fmt.Errorf("passage library is empty; add one with: keyflow passage add")
			}
			return model.Passage{}, fmt.Errorf("failed to load passage: %w", err)
		}
		p.Body = Normalize(p.Body)
		return p, nil
	case model.SourceWords:
		body := r.gen.Passage(r.words, r.cfg.Words, r.cfg.Focus, r.cfg.FocusFactor)
		return model.Passage{Title: "Generated words", Body: body, Origin: "words"}, nil
	default:
		return model.Passage{Title: "Sample", Body: SampleText, Origin: "sample"}, nil
	}
}

// CanRenew reports whether Resolve may return a different passage each call.
func (r *Resolver) CanRenew() bool {
	switch r.cfg.Source {
	case model.SourceWords:
		return true
	case model.SourceLibrary:
		return r.cfg.PassageID <= 0
	default:
		return false
	}
}

// WatchPath returns the file to watch for changes, if any.
func (r *Resolver) WatchPath() (string, bool) {
	if r.cfg.Source != model.SourceFile || !r.cfg.Watch {
		return "", false
	}
	return r.cfg.File, true
}

// LoadFile reads a passage from a text file.
func LoadFile(path string) (model.Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Passage{}, fmt.Errorf("failed to read passage file: %w", err)
	}
	return model.Passage{Title: path, Body: Normalize(string(data)), Origin: path}, nil
}

// Normalize collapses every run of whitespace, including newlines, into a
// single space and trims both ends, so the passage fits one entry line.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
