package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teatak/tagseg/session"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TAGSEG_CONFIG",
		"TAGSEG_MAX_BATCH_SIZE",
		"TAGSEG_MAX_STRING_LENGTH",
		"TAGSEG_ONNX_LIB",
		"TAGSEG_HOST",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagseg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxBatchSize, cfg.Limits.MaxBatchSize)
	assert.Equal(t, DefaultMaxStringLength, cfg.Limits.MaxStringLength)
	assert.Equal(t, float32(2), cfg.InterferenceFactor)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Contains(t, cfg.Models, session.Fine)
	assert.Contains(t, cfg.Models, session.Coarse)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
vocab: vocab.txt
lexicons: [lex/a.txt, /abs/b.txt]
models:
  fine: fine.crf
  coarse: models/coarse.onnx
limits:
  max_batch_size: 16
  max_string_length: 100
interference_factor: 3.5
onnx:
  intra_op_threads: 2
  cuda: true
server:
  addr: 0.0.0.0:9000
`)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vocab.txt"), cfg.Vocab)
	assert.Equal(t, []string{filepath.Join(dir, "lex/a.txt"), "/abs/b.txt"}, cfg.Lexicons)
	assert.Equal(t, filepath.Join(dir, "fine.crf"), cfg.Models[session.Fine])
	assert.Equal(t, filepath.Join(dir, "models/coarse.onnx"), cfg.Models[session.Coarse])
	assert.Equal(t, 16, cfg.Limits.MaxBatchSize)
	assert.Equal(t, 100, cfg.Limits.MaxStringLength)
	assert.Equal(t, float32(3.5), cfg.InterferenceFactor)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)

	opts := cfg.ONNXOptions()
	assert.Equal(t, 2, opts.IntraOpThreads)
	assert.True(t, opts.UseCUDA)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "limits:\n  max_batch_size: 16\n")
	t.Setenv("TAGSEG_MAX_BATCH_SIZE", "8")
	t.Setenv("TAGSEG_MAX_STRING_LENGTH", "oops")
	t.Setenv("TAGSEG_ONNX_LIB", "/opt/ort/libonnxruntime.so")
	t.Setenv("TAGSEG_HOST", "\"localhost:1234\"")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Limits.MaxBatchSize)
	assert.Equal(t, DefaultMaxStringLength, cfg.Limits.MaxStringLength)
	assert.Equal(t, "/opt/ort/libonnxruntime.so", cfg.ONNX.Library)
	assert.Equal(t, "localhost:1234", cfg.Server.Addr)
}

func TestLoadFromEnvPath(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "limits:\n  max_string_length: 7\n")
	t.Setenv("TAGSEG_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Limits.MaxStringLength)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "limits: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "limits:\n  max_batch_size: 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "limits:\n  max_string_length: -1\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "models:\n  medium: m.onnx\n"))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, session.ErrGranularity)

	_, err = Load(writeConfig(t, "models:\n  fine: \"\"\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "interference_factor: -1\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"0", slog.LevelInfo},
		{"false", slog.LevelInfo},
		{"1", slog.LevelDebug},
		{"yes", slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Setenv("TAGSEG_DEBUG", tt.value)
		assert.Equal(t, tt.want, LogLevel(), "TAGSEG_DEBUG=%q", tt.value)
	}
}
