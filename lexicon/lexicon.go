// Package lexicon turns dictionary matches into per-character bias for the
// tagger.
//
// Every dictionary word of two or more characters found in a text pushes its
// first character toward B, its inner characters toward M and its last
// character toward E. The strength of the push is the interference factor.
package lexicon

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/teatak/tagseg/normalize"
	"github.com/teatak/tagseg/tag"
)

// DefaultInterferenceFactor is the bias applied to matched characters until
// SetInterferenceFactor is called.
const DefaultInterferenceFactor float32 = 2

// Factor holds the additive bias of one character for tags B, M, E and S.
type Factor [tag.NumBias]float32

// FactorMatrix is the bias of a batch, one row per text. Rows are padded to
// the longest text with zero factors.
type FactorMatrix [][]Factor

// Lexicon holds user and system words.
type Lexicon struct {
	mu     sync.RWMutex
	words  map[string]struct{}
	maxLen int
	factor float32
}

// New creates an empty lexicon with the default interference factor.
func New() *Lexicon {
	return &Lexicon{
		words:  make(map[string]struct{}),
		factor: DefaultInterferenceFactor,
	}
}

// Load adds words from a file.
// File format: one word per line, optionally followed by a frequency which
// is ignored.
func (l *Lexicon) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		words = append(words, parts[0])
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	l.AddWords(words...)
	return nil
}

// AddWords adds literal words. Words are normalized like input text, so
// "ＡＩ芯片" is stored as "AI芯片". Blank and punctuation-only entries are
// skipped.
func (l *Lexicon) AddWords(words ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range words {
		w, ok := canonical(w)
		if !ok || isPunctuation(w) {
			continue
		}
		l.words[w] = struct{}{}
		if n := utf8.RuneCountInString(w); n > l.maxLen {
			l.maxLen = n
		}
	}
}

// AddSource adds a user dictionary given either as a file path or as a
// word list. Both may be empty.
func (l *Lexicon) AddSource(path string, words []string) error {
	if path != "" {
		if err := l.Load(path); err != nil {
			return err
		}
	}
	l.AddWords(words...)
	return nil
}

// Contains checks if a word, normalized, exists in the lexicon.
func (l *Lexicon) Contains(word string) bool {
	w, ok := canonical(word)
	if !ok {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok = l.words[w]
	return ok
}

// Len returns the number of words.
func (l *Lexicon) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.words)
}

// MaxLen returns the rune length of the longest word.
func (l *Lexicon) MaxLen() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.maxLen
}

// SetInterferenceFactor sets how strongly matches bias the tagger. Larger
// values make results follow the lexicon more closely.
func (l *Lexicon) SetInterferenceFactor(f float32) {
	l.mu.Lock()
	l.factor = f
	l.mu.Unlock()
}

// ResetInterferenceFactor restores DefaultInterferenceFactor.
func (l *Lexicon) ResetInterferenceFactor() {
	l.SetInterferenceFactor(DefaultInterferenceFactor)
}

// InterferenceFactor returns the current factor.
func (l *Lexicon) InterferenceFactor() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.factor
}

// Factor computes the bias matrix of a batch of normalized texts.
func (l *Lexicon) Factor(texts []string) FactorMatrix {
	l.mu.RLock()
	defer l.mu.RUnlock()

	maxLen := 0
	runes := make([][]rune, len(texts))
	for i, text := range texts {
		runes[i] = []rune(text)
		maxLen = max(maxLen, len(runes[i]))
	}

	m := make(FactorMatrix, len(texts))
	for i, rs := range runes {
		row := make([]Factor, maxLen)
		l.match(rs, row)
		m[i] = row
	}
	return m
}

// match marks every dictionary word of length >= 2 in rs.
func (l *Lexicon) match(rs []rune, row []Factor) {
	n := len(rs)
	for i := 0; i < n; i++ {
		for j := i + 2; j <= n; j++ {
			if j-i > l.maxLen {
				break
			}
			if _, ok := l.words[string(rs[i:j])]; ok {
				l.mark(row, i, j)
			}
		}
	}
}

func (l *Lexicon) mark(row []Factor, start, end int) {
	set := func(pos int, t tag.Tag) {
		row[pos][t] = max(row[pos][t], l.factor)
	}
	set(start, tag.B)
	for k := start + 1; k < end-1; k++ {
		set(k, tag.M)
	}
	set(end-1, tag.E)
}

// canonical applies the input normalization to a dictionary word.
func canonical(word string) (string, bool) {
	w, err := normalize.Normalizer{}.Format(word)
	return w, err == nil
}
