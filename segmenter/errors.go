package segmenter

import "errors"

var (
	// ErrJobs is returned for a worker count below one.
	ErrJobs = errors.New("number of jobs must be positive")
	// ErrUnsupportedInput is returned for input that is neither a text nor a list of texts.
	ErrUnsupportedInput = errors.New("input must be a string or a list of strings")
	// ErrTagMismatch is returned when the tagger output does not line up with the batch.
	ErrTagMismatch = errors.New("tagger output does not match input")
)
