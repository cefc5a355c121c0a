//go:build !cgo

package onnx

import (
	"github.com/teatak/tagseg/lexicon"
	"github.com/teatak/tagseg/tag"
)

// InitRuntime always fails without cgo.
func InitRuntime(string) error { return ErrUnavailable }

// DestroyRuntime is a no-op without cgo.
func DestroyRuntime() error { return nil }

// Session is a placeholder so callers compile without cgo.
type Session struct{}

// Open always fails without cgo.
func Open(string, Options) (*Session, error) { return nil, ErrUnavailable }

func (*Session) Run([][]int64, lexicon.FactorMatrix) ([][]tag.Tag, error) {
	return nil, ErrUnavailable
}

func (*Session) Close() error { return nil }
