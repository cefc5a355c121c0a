package segmenter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teatak/tagseg/config"
	"github.com/teatak/tagseg/session"
)

// writeModelDir lays out a vocabulary, a lexicon and a CRF model that
// prefers two-character words.
func writeModelDir(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	cfg := config.Default()
	cfg.Vocab = write("vocab.txt", "[PAD]\n[UNK]\n我\n爱\n北\n京\n天\n安\n门\n")
	cfg.Lexicons = []string{write("system.txt", "北京 100\n天安门 50\n"), filepath.Join(dir, "missing.txt")}
	cfg.Models = map[session.Granularity]string{
		session.Fine: write("fine.crf", strings.Join([]string{
			"T B E 1.0",
			"T E B 1.0",
			"T S S 0.5",
			"F U02:我 S 2.0",
			"F U02:爱 S 2.0",
		}, "\n")+"\n"),
	}
	return cfg
}

func TestFromConfig(t *testing.T) {
	cfg := writeModelDir(t)
	seg, err := FromConfig(cfg, session.Fine, nil, []string{"安门"})
	require.NoError(t, err)
	defer seg.Close()

	assert.Equal(t, session.Fine, seg.Granularity())
	assert.Equal(t, config.DefaultMaxBatchSize, seg.MaxBatchSize())
	assert.True(t, seg.Lexicon().Contains("北京"))
	assert.True(t, seg.Lexicon().Contains("安门"))

	words, err := seg.Cut("我爱北京")
	require.NoError(t, err)
	assert.Equal(t, []string{"我", "爱", "北京"}, words)

	res, err := seg.CutBatch([]string{"我爱", "北京天安门"}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "我爱", strings.Join(res[0], ""))
	assert.Equal(t, "北京天安门", strings.Join(res[1], ""))
}

func TestFromConfigMissingModel(t *testing.T) {
	cfg := writeModelDir(t)
	seg, err := FromConfig(cfg, session.Coarse, nil, nil)
	require.NoError(t, err)

	_, err = seg.Cut("我爱")
	assert.ErrorIs(t, err, session.ErrModelNotFound)
}

func TestLoadLexicon(t *testing.T) {
	cfg := writeModelDir(t)
	cfg.InterferenceFactor = 3

	lex, err := LoadLexicon(cfg, nil, []string{"我爱"})
	require.NoError(t, err)
	assert.Equal(t, 3, lex.Len())
	assert.Equal(t, float32(3), lex.InterferenceFactor())

	_, err = LoadLexicon(cfg, []string{filepath.Join(t.TempDir(), "user.txt")}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = FromConfig(&config.Config{Vocab: filepath.Join(t.TempDir(), "none.txt")}, session.Fine, nil, nil)
	assert.Error(t, err)
}

func TestLoadDict(t *testing.T) {
	cfg := writeModelDir(t)
	seg, err := FromConfig(cfg, session.Fine, nil, nil)
	require.NoError(t, err)
	defer seg.Close()

	path := filepath.Join(t.TempDir(), "user.txt")
	require.NoError(t, os.WriteFile(path, []byte("我爱 3\n，，\n"), 0o644))
	require.NoError(t, seg.LoadDict(path))
	assert.True(t, seg.Lexicon().Contains("我爱"))
	assert.False(t, seg.Lexicon().Contains("，，"))

	words, err := seg.Cut("我爱北京")
	require.NoError(t, err)
	assert.Equal(t, "我爱北京", strings.Join(words, ""))

	assert.Error(t, seg.LoadDict(filepath.Join(t.TempDir(), "none.txt")))
}
