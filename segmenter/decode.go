package segmenter

import (
	"strings"

	"github.com/teatak/tagseg/tag"
)

// Decode rebuilds words from a normalized text and its per-character tags.
// A word closes on S, E or X. Spaces left in the text by normalization also
// split words, so the result never contains whitespace.
func Decode(text string, tags []tag.Tag) []string {
	var words []string
	var buf strings.Builder
	i := 0
	for _, r := range text {
		buf.WriteRune(r)
		if i < len(tags) && tags[i].Closes() {
			words = append(words, buf.String())
			buf.Reset()
		}
		i++
	}
	if buf.Len() > 0 {
		words = append(words, buf.String())
	}
	return strings.Fields(strings.Join(words, " "))
}
