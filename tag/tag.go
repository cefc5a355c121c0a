package tag

// Tag is a per-character label from which word boundaries are rebuilt.
type Tag uint8

const (
	B Tag = iota // Begin
	M            // Middle
	E            // End
	S            // Single
	X            // Break marker, closes a word like S and E
)

// NumBias is the number of tags that carry a lexicon bias channel (B, M, E, S).
const NumBias = 4

// NumTags is the size of the tag scheme.
const NumTags = 5

// Closes reports whether the character carrying t ends the current word.
func (t Tag) Closes() bool {
	return t == S || t == E || t == X
}

func (t Tag) String() string {
	switch t {
	case B:
		return "B"
	case M:
		return "M"
	case E:
		return "E"
	case S:
		return "S"
	case X:
		return "X"
	}
	return "?"
}

// Parse converts a tag name into a Tag.
func Parse(s string) (Tag, bool) {
	switch s {
	case "B":
		return B, true
	case "M":
		return M, true
	case "E":
		return E, true
	case "S":
		return S, true
	case "X":
		return X, true
	default:
		return 0, false
	}
}

// FromWord returns the tag sequence of a single word: S for one rune,
// otherwise B M... E.
func FromWord(word string) []Tag {
	n := len([]rune(word))
	switch n {
	case 0:
		return nil
	case 1:
		return []Tag{S}
	}
	tags := make([]Tag, n)
	tags[0] = B
	for k := 1; k < n-1; k++ {
		tags[k] = M
	}
	tags[n-1] = E
	return tags
}
