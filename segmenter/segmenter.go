// Package segmenter cuts Chinese text into words with a tagging model.
//
// Each batch is normalized, biased with the lexicon, encoded, tagged and
// decoded. CutBatch spreads batches over a bounded pool of goroutines and
// always returns results in input order.
package segmenter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/teatak/tagseg/config"
	"github.com/teatak/tagseg/lexicon"
	"github.com/teatak/tagseg/normalize"
	"github.com/teatak/tagseg/session"
	"github.com/teatak/tagseg/vocab"
)

// Config holds the collaborators and limits of a Segmenter.
type Config struct {
	Granularity     session.Granularity
	Sessions        *session.Registry
	Vocab           *vocab.Vocab
	Lexicon         *lexicon.Lexicon
	MaxBatchSize    int
	MaxStringLength int
}

// Segmenter handles the text segmentation.
type Segmenter struct {
	granularity session.Granularity
	sessions    *session.Registry
	vocab       *vocab.Vocab
	lexicon     *lexicon.Lexicon
	normalizer  normalize.Normalizer
	batchSize   int
}

// New creates a segmenter. A nil Lexicon starts empty.
func New(cfg Config) (*Segmenter, error) {
	g, err := session.ParseGranularity(string(cfg.Granularity))
	if err != nil {
		return nil, err
	}
	if cfg.Sessions == nil {
		return nil, errors.New("segmenter: session registry is required")
	}
	if cfg.Vocab == nil {
		return nil, errors.New("segmenter: vocabulary is required")
	}
	if cfg.MaxBatchSize <= 0 {
		return nil, fmt.Errorf("segmenter: max batch size must be positive, got %d", cfg.MaxBatchSize)
	}
	lex := cfg.Lexicon
	if lex == nil {
		lex = lexicon.New()
	}
	return &Segmenter{
		granularity: g,
		sessions:    cfg.Sessions,
		vocab:       cfg.Vocab,
		lexicon:     lex,
		normalizer:  normalize.Normalizer{MaxLength: cfg.MaxStringLength},
		batchSize:   cfg.MaxBatchSize,
	}, nil
}

// FromConfig loads the vocabulary and the system lexicons named by cfg,
// adds the user dictionaries (file paths) and words, and opens sessions
// from cfg's models on first use. Close releases them.
func FromConfig(cfg *config.Config, g session.Granularity, userDicts []string, userWords []string) (*Segmenter, error) {
	v, err := vocab.Load(cfg.Vocab)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	lex, err := LoadLexicon(cfg, userDicts, userWords)
	if err != nil {
		return nil, err
	}
	return New(Config{
		Granularity:     g,
		Sessions:        session.NewRegistry(session.FileLoader(cfg.Models, v, cfg.ONNXOptions())),
		Vocab:           v,
		Lexicon:         lex,
		MaxBatchSize:    cfg.Limits.MaxBatchSize,
		MaxStringLength: cfg.Limits.MaxStringLength,
	})
}

// LoadLexicon builds a lexicon from the system files in cfg plus user
// dictionaries and words, with cfg's interference factor. Missing system
// files are skipped; missing user dictionaries are errors.
func LoadLexicon(cfg *config.Config, userDicts []string, userWords []string) (*lexicon.Lexicon, error) {
	lex := lexicon.New()
	for _, path := range cfg.Lexicons {
		err := lex.Load(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("system lexicon not found", "path", path)
		case err != nil:
			return nil, fmt.Errorf("load lexicon %s: %w", path, err)
		}
	}
	for _, path := range userDicts {
		if err := lex.Load(path); err != nil {
			return nil, fmt.Errorf("load dictionary %s: %w", path, err)
		}
	}
	lex.AddWords(userWords...)
	lex.SetInterferenceFactor(cfg.InterferenceFactor)
	return lex, nil
}

// Granularity returns the mode chosen at construction.
func (s *Segmenter) Granularity() session.Granularity {
	return s.granularity
}

// MaxBatchSize is the number of texts sent to the tagger at once.
func (s *Segmenter) MaxBatchSize() int {
	return s.batchSize
}

// Lexicon returns the lexicon biasing this segmenter.
func (s *Segmenter) Lexicon() *lexicon.Lexicon {
	return s.lexicon
}

// Cut segments a single text.
func (s *Segmenter) Cut(text string) ([]string, error) {
	res, err := s.cutBatch([]string{text})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// CutBatch segments texts using up to jobs concurrent workers. Output i
// always belongs to texts[i].
func (s *Segmenter) CutBatch(texts []string, jobs int) ([][]string, error) {
	if jobs <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrJobs, jobs)
	}
	if jobs == 1 {
		return s.cutSequential(texts)
	}
	return s.cutParallel(texts, jobs)
}

// CutInput dispatches a resolved Input.
func (s *Segmenter) CutInput(in Input, jobs int) (Result, error) {
	if !in.valid {
		return Result{}, ErrUnsupportedInput
	}
	if jobs <= 0 {
		return Result{}, fmt.Errorf("%w, got %d", ErrJobs, jobs)
	}
	if !in.isBatch {
		words, err := s.Cut(in.text)
		return Result{Words: words}, err
	}
	batch, err := s.CutBatch(in.texts, jobs)
	return Result{Batch: batch}, err
}

func (s *Segmenter) cutSequential(texts []string) ([][]string, error) {
	out := make([][]string, 0, len(texts))
	for batch := range Batches(texts, s.batchSize) {
		res, err := s.cutBatch(batch)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

func (s *Segmenter) cutParallel(texts []string, jobs int) ([][]string, error) {
	n := numBatches(len(texts), s.batchSize)
	slog.Debug("dispatching batches", "texts", len(texts), "batches", n, "jobs", jobs, "granularity", s.granularity)

	results := make([][][]string, n)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(jobs)
	idx := 0
	for batch := range Batches(texts, s.batchSize) {
		i := idx
		g.Go(func() error {
			// another batch already failed; the call returns its error
			if ctx.Err() != nil {
				return nil
			}
			res, err := s.cutBatch(batch)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
		idx++
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(texts))
	for _, res := range results {
		out = append(out, res...)
	}
	return out, nil
}

// cutBatch runs one batch through normalize, bias, encode, tag and decode.
// Any invalid text fails the whole batch.
func (s *Segmenter) cutBatch(raw []string) ([][]string, error) {
	texts, err := s.normalizer.FormatAll(raw)
	if err != nil {
		return nil, err
	}

	factors := s.lexicon.Factor(texts)
	ids := s.vocab.CharIDs(texts)

	sess, err := s.sessions.Get(s.granularity)
	if err != nil {
		return nil, err
	}
	tags, err := sess.Run(ids, factors)
	if err != nil {
		return nil, fmt.Errorf("tag batch: %w", err)
	}
	if len(tags) != len(texts) {
		return nil, fmt.Errorf("%w: %d tag rows for %d texts", ErrTagMismatch, len(tags), len(texts))
	}

	out := make([][]string, len(texts))
	for i, text := range texts {
		n := utf8.RuneCountInString(text)
		if len(tags[i]) < n {
			return nil, fmt.Errorf("%w: text %d has %d characters but %d tags", ErrTagMismatch, i, n, len(tags[i]))
		}
		out[i] = Decode(text, tags[i][:n])
	}
	return out, nil
}

// Close closes the session registry. Segmenters sharing it lose their
// sessions too.
func (s *Segmenter) Close() error {
	return s.sessions.Close()
}

// SetInterferenceFactor sets the lexicon bias strength for later calls.
func (s *Segmenter) SetInterferenceFactor(f float32) {
	s.lexicon.SetInterferenceFactor(f)
}

// ResetInterferenceFactor restores the default bias strength.
func (s *Segmenter) ResetInterferenceFactor() {
	s.lexicon.ResetInterferenceFactor()
}

// AddWords adds user words to the lexicon.
func (s *Segmenter) AddWords(words ...string) {
	s.lexicon.AddWords(words...)
}

// LoadDict adds a user dictionary file to the lexicon.
func (s *Segmenter) LoadDict(path string) error {
	return s.lexicon.Load(path)
}
