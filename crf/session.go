package crf

import (
	"fmt"
	"unicode/utf8"

	"github.com/teatak/tagseg/lexicon"
	"github.com/teatak/tagseg/tag"
	"github.com/teatak/tagseg/vocab"
)

// Session runs a CRF model as a tagger. The model is read-only after
// loading, so Run is safe for concurrent use.
type Session struct {
	model *Model
	vocab *vocab.Vocab
}

// NewSession pairs a model with the vocabulary used to turn ids back into
// characters.
func NewSession(model *Model, v *vocab.Vocab) *Session {
	return &Session{model: model, vocab: v}
}

// Open loads a model file into a Session.
func Open(path string, v *vocab.Vocab) (*Session, error) {
	m := NewModel()
	if err := m.Load(path); err != nil {
		return nil, err
	}
	return NewSession(m, v), nil
}

// Run decodes every row of ids. Pad positions are tagged X.
func (s *Session) Run(ids [][]int64, factors lexicon.FactorMatrix) ([][]tag.Tag, error) {
	if len(factors) != len(ids) {
		return nil, fmt.Errorf("crf: %d id rows but %d factor rows", len(ids), len(factors))
	}

	out := make([][]tag.Tag, len(ids))
	for i, row := range ids {
		n := len(row)
		for n > 0 && row[n-1] == s.vocab.PadID {
			n--
		}
		runes := make([]rune, n)
		for j := range n {
			runes[j] = s.char(row[j])
		}

		tags := make([]tag.Tag, len(row))
		copy(tags, s.model.Decode(runes, factors[i]))
		for j := n; j < len(row); j++ {
			tags[j] = tag.X
		}
		out[i] = tags
	}
	return out, nil
}

func (s *Session) char(id int64) rune {
	c, ok := s.vocab.Char(id)
	if !ok || id == s.vocab.UnkID {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(c)
	return r
}

// Close is a no-op; the model lives in Go memory.
func (s *Session) Close() error {
	return nil
}
