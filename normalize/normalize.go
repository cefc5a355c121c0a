// Package normalize canonicalizes raw input before it reaches the tagger.
//
// Full-width digits and Latin letters are folded to half-width, the
// ideographic space becomes an ASCII space, and every run of separators
// collapses to a single space. Full-width punctuation is left alone because
// the tagger was trained on it.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

const ideographicSpace = '　'

var (
	// ErrZeroLength is returned for a text that is empty after trimming.
	ErrZeroLength = errors.New("text is empty")
	// ErrMaxLength is matched by every *MaxLengthError.
	ErrMaxLength = errors.New("text exceeds maximum length")
)

// MaxLengthError carries the rune length of a rejected text.
type MaxLengthError struct {
	Length int
	Max    int
}

func (e *MaxLengthError) Error() string {
	return fmt.Sprintf("text length %d exceeds maximum %d", e.Length, e.Max)
}

func (e *MaxLengthError) Is(target error) bool {
	return target == ErrMaxLength
}

// Normalizer formats texts. A zero MaxLength disables the length check.
type Normalizer struct {
	MaxLength int
}

// Format validates text and returns its canonical form.
func (n Normalizer) Format(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrZeroLength
	}
	if l := utf8.RuneCountInString(text); n.MaxLength > 0 && l > n.MaxLength {
		return "", &MaxLengthError{Length: l, Max: n.MaxLength}
	}

	var sb strings.Builder
	sb.Grow(len(text))
	inSep := false
	for _, r := range text {
		r = fold(r)
		if isSeparator(r) {
			if !inSep {
				sb.WriteByte(' ')
			}
			inSep = true
			continue
		}
		inSep = false
		sb.WriteRune(r)
	}
	return strings.TrimSpace(sb.String()), nil
}

// FormatAll formats every text, stopping at the first failure.
func (n Normalizer) FormatAll(texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, text := range texts {
		s, err := n.Format(text)
		if err != nil {
			return nil, &TextError{Index: i, Err: err}
		}
		out[i] = s
	}
	return out, nil
}

// TextError ties a validation failure to the position of the text in its batch.
type TextError struct {
	Index int
	Err   error
}

func (e *TextError) Error() string {
	return fmt.Sprintf("text %d: %v", e.Index, e.Err)
}

func (e *TextError) Unwrap() error {
	return e.Err
}

func fold(r rune) rune {
	if r == ideographicSpace {
		return ' '
	}
	if isFullwidthAlnum(r) {
		if narrow := width.LookupRune(r).Narrow(); narrow != 0 {
			return narrow
		}
	}
	return r
}

func isFullwidthAlnum(r rune) bool {
	return (r >= '０' && r <= '９') ||
		(r >= 'Ａ' && r <= 'Ｚ') ||
		(r >= 'ａ' && r <= 'ｚ')
}

// isSeparator matches \p{Z} and every Unicode white space rune, including
// U+0085, so nothing strings.Fields would split on survives normalization.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r)
}
