package vocab

import (
	"bufio"
	"os"
	"slices"
	"strings"
)

// Reserved token names. A file with neither takes them as ids 0 and 1 in
// front of its own tokens; a file with only one gets the other appended.
const (
	PadToken = "[PAD]"
	UnkToken = "[UNK]"
)

// Vocab maps characters to the integer ids the tagger was trained with.
type Vocab struct {
	ids    map[string]int64
	tokens []string
	PadID  int64
	UnkID  int64
}

// NewVocab builds a vocabulary from tokens in id order. Empty tokens keep
// their position but map to nothing.
func NewVocab(tokens []string) *Vocab {
	hasPad := slices.Contains(tokens, PadToken)
	hasUnk := slices.Contains(tokens, UnkToken)

	v := &Vocab{ids: make(map[string]int64, len(tokens)+2)}
	if !hasPad && !hasUnk {
		v.tokens = append(v.tokens, PadToken, UnkToken)
	}
	v.tokens = append(v.tokens, tokens...)
	if hasPad != hasUnk {
		if hasPad {
			v.tokens = append(v.tokens, UnkToken)
		} else {
			v.tokens = append(v.tokens, PadToken)
		}
	}

	for i, t := range v.tokens {
		if t == "" {
			continue
		}
		if _, ok := v.ids[t]; !ok {
			v.ids[t] = int64(i)
		}
	}
	v.PadID = v.ids[PadToken]
	v.UnkID = v.ids[UnkToken]
	return v
}

// Load reads a vocabulary file with one token per line; the id of a token
// is its line index. Blank lines still take an id.
func Load(path string) (*Vocab, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var tokens []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		tokens = append(tokens, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewVocab(tokens), nil
}

// Len returns the number of ids including the reserved ones.
func (v *Vocab) Len() int {
	return len(v.tokens)
}

// ID returns the id of a single character, or UnkID.
func (v *Vocab) ID(char string) int64 {
	if id, ok := v.ids[char]; ok {
		return id
	}
	return v.UnkID
}

// Char returns the token stored at id.
func (v *Vocab) Char(id int64) (string, bool) {
	if id < 0 || id >= int64(len(v.tokens)) || v.tokens[id] == "" {
		return "", false
	}
	return v.tokens[id], true
}

// CharIDs encodes every rune of every text. Rows are right-padded with
// PadID to the longest text so the result is rectangular.
func (v *Vocab) CharIDs(texts []string) [][]int64 {
	maxLen := 0
	runes := make([][]rune, len(texts))
	for i, text := range texts {
		runes[i] = []rune(text)
		maxLen = max(maxLen, len(runes[i]))
	}

	ids := make([][]int64, len(texts))
	for i, rs := range runes {
		row := make([]int64, maxLen)
		for j := range row {
			if j < len(rs) {
				row[j] = v.ID(string(rs[j]))
			} else {
				row[j] = v.PadID
			}
		}
		ids[i] = row
	}
	return ids
}
