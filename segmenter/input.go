package segmenter

import "fmt"

// Input is either a single text or a list of texts.
type Input struct {
	text    string
	texts   []string
	isBatch bool
	valid   bool
}

// Text wraps a single text.
func Text(s string) Input {
	return Input{text: s, valid: true}
}

// Texts wraps a list of texts.
func Texts(s []string) Input {
	return Input{texts: s, isBatch: true, valid: true}
}

// ParseInput resolves a decoded JSON value: a string or an array of strings.
func ParseInput(v any) (Input, error) {
	switch in := v.(type) {
	case string:
		return Text(in), nil
	case []string:
		return Texts(in), nil
	case []any:
		texts := make([]string, len(in))
		for i, item := range in {
			s, ok := item.(string)
			if !ok {
				return Input{}, fmt.Errorf("%w: element %d is %T", ErrUnsupportedInput, i, item)
			}
			texts[i] = s
		}
		return Texts(texts), nil
	default:
		return Input{}, fmt.Errorf("%w: got %T", ErrUnsupportedInput, v)
	}
}

// IsBatch reports whether the input is a list.
func (in Input) IsBatch() bool {
	return in.isBatch
}

// Result is the output of CutInput: Words for a single text, Batch for a list.
type Result struct {
	Words []string
	Batch [][]string
}
