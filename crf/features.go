package crf

const boundary = "_BOS_"

// ExtractFeatures generates feature strings for a character at a given index in a sequence.
//
//	U00: x[i-2]  U01: x[i-1]  U02: x[i]  U03: x[i+1]  U04: x[i+2]
func ExtractFeatures(runes []rune, idx int) []string {
	feats := make([]string, 0, 5)
	for k, offset := range [...]int{-2, -1, 0, 1, 2} {
		pos := idx + offset
		char := boundary
		if pos >= 0 && pos < len(runes) {
			char = string(runes[pos])
		}
		feats = append(feats, featurePrefix[k]+char)
	}
	return feats
}

var featurePrefix = [...]string{"U00:", "U01:", "U02:", "U03:", "U04:"}
