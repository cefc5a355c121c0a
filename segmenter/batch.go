package segmenter

import "iter"

// Batches yields contiguous slices of at most size texts, in order. The
// sequence is lazy and finite. Empty input or a non-positive size yields
// nothing.
func Batches(texts []string, size int) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		if size <= 0 {
			return
		}
		for start := 0; start < len(texts); start += size {
			end := min(start+size, len(texts))
			if !yield(texts[start:end:end]) {
				return
			}
		}
	}
}

// numBatches is ceil(n/size).
func numBatches(n, size int) int {
	if size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
