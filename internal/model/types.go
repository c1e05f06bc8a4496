// Package model defines shared data structures.
package model

import "time"

// Passage source names.
const (
	SourceSample  = "sample"
	SourceText    = "text"
	SourceFile    = "file"
	SourceLibrary = "library"
	SourceWords   = "words"
)

// Config defines practice settings.
type Config struct {
	Source       string
	Text         string
	File         string
	PassageID    int64
	Words        int
	WordListPath string
	Focus        string
	FocusFactor  float64
	Watch        bool
}

// Passage is a target text ready to be typed.
type Passage struct {
	ID        int64
	Title     string
	Body      string
	CreatedAt time.Time
	// Origin describes where the passage came from, e.g. a file path.
	Origin string
}
