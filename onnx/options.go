// Package onnx runs exported tagging models with ONNX Runtime.
//
// A model takes two inputs, character ids [batch, length] and lexicon
// factors [batch, length, 4], and returns either tag ids [batch, length] or
// tag scores [batch, length, tags].
package onnx

import (
	"errors"
	"fmt"

	"github.com/teatak/tagseg/tag"
)

// ErrUnavailable is returned when the binary was built without cgo.
var ErrUnavailable = errors.New("onnx: runtime not available in this build")

// Options configures sessions and the shared runtime.
type Options struct {
	// LibraryPath of libonnxruntime; empty means auto-detect.
	LibraryPath string
	// IntraOpThreads for intra-op parallelism (0 = runtime default).
	IntraOpThreads int
	// InterOpThreads for inter-op parallelism (0 = runtime default).
	InterOpThreads int
	// UseCUDA appends the CUDA execution provider, falling back to CPU when
	// it cannot be enabled.
	UseCUDA    bool
	CUDADevice int
}

// argmaxTags reduces scores laid out as [batch, length, numTags] to tag ids.
func argmaxTags(scores []float32, batch, length, numTags int) ([][]tag.Tag, error) {
	if batch*length*numTags != len(scores) {
		return nil, fmt.Errorf("onnx: output has %d values, want %d×%d×%d", len(scores), batch, length, numTags)
	}
	out := make([][]tag.Tag, batch)
	for b := range batch {
		row := make([]tag.Tag, length)
		for i := range length {
			off := (b*length + i) * numTags
			best := 0
			for k := 1; k < numTags; k++ {
				if scores[off+k] > scores[off+best] {
					best = k
				}
			}
			row[i] = toTag(int64(best))
		}
		out[b] = row
	}
	return out, nil
}

// idTags reshapes integer tag ids laid out as [batch, length].
func idTags[T int32 | int64](ids []T, batch, length int) ([][]tag.Tag, error) {
	if batch*length != len(ids) {
		return nil, fmt.Errorf("onnx: output has %d values, want %d×%d", len(ids), batch, length)
	}
	out := make([][]tag.Tag, batch)
	for b := range batch {
		row := make([]tag.Tag, length)
		for i := range length {
			row[i] = toTag(int64(ids[b*length+i]))
		}
		out[b] = row
	}
	return out, nil
}

// toTag maps ids outside the scheme to X so they still close a word.
func toTag(id int64) tag.Tag {
	if id < 0 || id >= tag.NumTags {
		return tag.X
	}
	return tag.Tag(id)
}

// flatten lays out ragged-free rows for a tensor.
func flatten[T any](rows [][]T) ([]T, int) {
	if len(rows) == 0 {
		return nil, 0
	}
	length := len(rows[0])
	out := make([]T, 0, len(rows)*length)
	for _, row := range rows {
		out = append(out, row...)
	}
	return out, length
}
