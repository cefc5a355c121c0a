package lexicon

import "unicode"

// isPunctuation reports whether every rune of s is punctuation, a symbol,
// or sits in the CJK symbol and full-width form blocks. Such entries never
// form words.
func isPunctuation(s string) bool {
	for _, r := range s {
		switch {
		case unicode.IsPunct(r), unicode.IsSymbol(r):
		case r >= 0x3000 && r <= 0x303F:
		case r >= 0xFF00 && r <= 0xFFEF && !isFullwidthAlnum(r):
		default:
			return false
		}
	}
	return true
}

func isFullwidthAlnum(r rune) bool {
	return (r >= 0xFF10 && r <= 0xFF19) ||
		(r >= 0xFF21 && r <= 0xFF3A) ||
		(r >= 0xFF41 && r <= 0xFF5A)
}
