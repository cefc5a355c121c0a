package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teatak/tagseg/crf"
	"github.com/teatak/tagseg/onnx"
	"github.com/teatak/tagseg/vocab"
)

// FileLoader opens model files by granularity. Files ending in .onnx run on
// ONNX Runtime; anything else is read as a text CRF model.
func FileLoader(models map[Granularity]string, v *vocab.Vocab, opts onnx.Options) Loader {
	return func(g Granularity) (Session, error) {
		path, ok := models[g]
		if !ok || path == "" {
			return nil, fmt.Errorf("%w: no model configured for granularity %q", ErrModelNotFound, g)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrModelNotFound, path, err)
		}

		if strings.EqualFold(filepath.Ext(path), ".onnx") {
			s, err := onnx.Open(path, opts)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
		s, err := crf.Open(path, v)
		if err != nil {
			return nil, fmt.Errorf("load crf model %s: %w", path, err)
		}
		return s, nil
	}
}
