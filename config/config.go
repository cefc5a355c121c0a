// Package config loads pipeline settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/teatak/tagseg/lexicon"
	"github.com/teatak/tagseg/onnx"
	"github.com/teatak/tagseg/session"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

const (
	DefaultMaxBatchSize    = 512
	DefaultMaxStringLength = 1024
	DefaultAddr            = "127.0.0.1:8866"
)

// Limits bounds the work of a single call.
type Limits struct {
	MaxBatchSize    int `yaml:"max_batch_size"`
	MaxStringLength int `yaml:"max_string_length"`
}

// ONNX mirrors onnx.Options.
type ONNX struct {
	Library        string `yaml:"library"`
	IntraOpThreads int    `yaml:"intra_op_threads"`
	InterOpThreads int    `yaml:"inter_op_threads"`
	CUDA           bool   `yaml:"cuda"`
	CUDADevice     int    `yaml:"cuda_device"`
}

// Server configures the HTTP service.
type Server struct {
	Addr string `yaml:"addr"`
}

// Config is the full set of pipeline settings.
type Config struct {
	Vocab              string                         `yaml:"vocab"`
	Lexicons           []string                       `yaml:"lexicons"`
	Models             map[session.Granularity]string `yaml:"models"`
	Limits             Limits                         `yaml:"limits"`
	InterferenceFactor float32                        `yaml:"interference_factor"`
	ONNX               ONNX                           `yaml:"onnx"`
	Server             Server                         `yaml:"server"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Vocab:    "data/vocab.txt",
		Lexicons: []string{"data/lexicon/default.txt"},
		Models: map[session.Granularity]string{
			session.Fine:   "data/model/fine.onnx",
			session.Coarse: "data/model/coarse.onnx",
		},
		Limits: Limits{
			MaxBatchSize:    DefaultMaxBatchSize,
			MaxStringLength: DefaultMaxStringLength,
		},
		InterferenceFactor: lexicon.DefaultInterferenceFactor,
		Server:             Server{Addr: DefaultAddr},
	}
}

// Load reads path on top of Default, resolves relative paths against the
// file's directory, then applies environment overrides. An empty path uses
// TAGSEG_CONFIG, and without it the defaults alone.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.resolve(filepath.Dir(path))
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Vocab = abs(c.Vocab)
	for i, p := range c.Lexicons {
		c.Lexicons[i] = abs(p)
	}
	for g, p := range c.Models {
		c.Models[g] = abs(p)
	}
	c.ONNX.Library = abs(c.ONNX.Library)
}

func (c *Config) applyEnv() {
	c.Limits.MaxBatchSize = MaxBatchSize(c.Limits.MaxBatchSize)
	c.Limits.MaxStringLength = MaxStringLength(c.Limits.MaxStringLength)
	if lib := ONNXLibrary(); lib != "" {
		c.ONNX.Library = lib
	}
	if host := Host(); host != "" {
		c.Server.Addr = host
	}
}

// Validate checks limits, the interference factor and model entries.
func (c *Config) Validate() error {
	if c.Limits.MaxBatchSize <= 0 {
		return fmt.Errorf("%w: limits.max_batch_size must be positive, got %d", ErrInvalid, c.Limits.MaxBatchSize)
	}
	if c.Limits.MaxStringLength <= 0 {
		return fmt.Errorf("%w: limits.max_string_length must be positive, got %d", ErrInvalid, c.Limits.MaxStringLength)
	}
	if c.InterferenceFactor < 0 {
		return fmt.Errorf("%w: interference_factor must not be negative, got %g", ErrInvalid, c.InterferenceFactor)
	}
	for g, p := range c.Models {
		if _, err := session.ParseGranularity(string(g)); err != nil {
			return fmt.Errorf("%w: models: %w", ErrInvalid, err)
		}
		if p == "" {
			return fmt.Errorf("%w: models.%s is empty", ErrInvalid, g)
		}
	}
	return nil
}

// ONNXOptions converts the onnx section.
func (c *Config) ONNXOptions() onnx.Options {
	return onnx.Options{
		LibraryPath:    c.ONNX.Library,
		IntraOpThreads: c.ONNX.IntraOpThreads,
		InterOpThreads: c.ONNX.InterOpThreads,
		UseCUDA:        c.ONNX.CUDA,
		CUDADevice:     c.ONNX.CUDADevice,
	}
}
