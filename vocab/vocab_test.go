package vocab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVocabReservesSpecialTokens(t *testing.T) {
	v := NewVocab([]string{"我", "爱", "北", "京"})

	assert.Equal(t, int64(0), v.PadID)
	assert.Equal(t, int64(1), v.UnkID)
	assert.Equal(t, 6, v.Len())
	assert.Equal(t, int64(2), v.ID("我"))
	assert.Equal(t, int64(5), v.ID("京"))
	assert.Equal(t, v.UnkID, v.ID("天"))
}

func TestNewVocabUsesFileSpecialTokens(t *testing.T) {
	v := NewVocab([]string{"我", "[UNK]", "爱", "[PAD]"})

	assert.Equal(t, int64(3), v.PadID)
	assert.Equal(t, int64(1), v.UnkID)
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, int64(0), v.ID("我"))
}

func TestCharIDs(t *testing.T) {
	v := NewVocab([]string{"我", "爱", "北", "京"})

	ids := v.CharIDs([]string{"我爱北京", "京", "我x"})
	require.Len(t, ids, 3)
	for _, row := range ids {
		assert.Len(t, row, 4)
	}
	assert.Equal(t, []int64{2, 3, 4, 5}, ids[0])
	assert.Equal(t, []int64{5, 0, 0, 0}, ids[1])
	assert.Equal(t, []int64{2, 1, 0, 0}, ids[2])
}

func TestChar(t *testing.T) {
	v := NewVocab([]string{"我"})

	c, ok := v.Char(2)
	assert.True(t, ok)
	assert.Equal(t, "我", c)

	_, ok = v.Char(99)
	assert.False(t, ok)
	_, ok = v.Char(-1)
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte("[PAD]\n[UNK]\n我\n\n爱\n"), 0o644))

	v, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.PadID)
	assert.Equal(t, int64(1), v.UnkID)
	assert.Equal(t, int64(2), v.ID("我"))
	assert.Equal(t, int64(4), v.ID("爱"))
	_, ok := v.Char(3)
	assert.False(t, ok)

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadKeepsLinePositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte("[PAD]\r\n[UNK]\r\n\r\n我\r\n"), 0o644))

	v, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.ID("我"))
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, v.UnkID, v.ID(""))
}

func TestNewVocabSingleSpecialToken(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		wantPad int64
		wantUnk int64
	}{
		{"pad only", []string{"[PAD]", "我", "爱"}, 0, 3},
		{"unk only", []string{"我", "[UNK]", "爱"}, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVocab(tt.tokens)
			assert.Equal(t, tt.wantPad, v.PadID)
			assert.Equal(t, tt.wantUnk, v.UnkID)
			assert.Equal(t, 4, v.Len())
			for i, tok := range tt.tokens {
				assert.Equal(t, int64(i), v.ID(tok), tok)
			}
		})
	}
}
