// Package session owns loaded tagging models, one per granularity.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teatak/tagseg/lexicon"
	"github.com/teatak/tagseg/tag"
)

// Granularity selects which trained tagger segments the text.
type Granularity string

const (
	Fine   Granularity = "fine"
	Coarse Granularity = "coarse"
)

var (
	// ErrGranularity is returned for anything other than fine or coarse.
	ErrGranularity = errors.New("invalid granularity")
	// ErrModelNotFound is returned when a model artifact is missing.
	ErrModelNotFound = errors.New("model not found")
	// ErrClosed is returned to a Get that raced with Registry.Close.
	ErrClosed = errors.New("session registry closed")
)

// ParseGranularity validates a granularity name.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Fine, Coarse:
		return g, nil
	}
	return "", fmt.Errorf("%w %q: want %q or %q", ErrGranularity, s, Fine, Coarse)
}

// Granularities lists the valid modes.
func Granularities() []Granularity {
	return []Granularity{Fine, Coarse}
}

// Session tags padded batches of character ids. Implementations must be
// safe for concurrent Run calls.
type Session interface {
	// Run returns one tag row per id row. Rows may be longer than the text
	// they encode; callers slice them.
	Run(ids [][]int64, factors lexicon.FactorMatrix) ([][]tag.Tag, error)
	Close() error
}
