package server

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teatak/tagseg/config"
	"github.com/teatak/tagseg/session"
)

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	cfg := config.Default()
	cfg.Vocab = write("vocab.txt", "我\n爱\n北\n京\n")
	cfg.Lexicons = nil
	cfg.Models = map[session.Granularity]string{
		session.Coarse: write("coarse.crf", "T B E 1.0\nF U02:我 B 1.0\n"),
	}
	dict := write("user.txt", "北京\n")

	s, err := FromConfig(cfg, []string{dict})
	require.NoError(t, err)
	assert.Equal(t, session.Coarse, s.defaultMode)
	assert.Equal(t, []session.Granularity{session.Coarse}, s.granularities())
	assert.True(t, s.segmenters[session.Coarse].Lexicon().Contains("北京"))

	h := s.GenerateRoutes()
	resp := decodeCut(t, do(t, h, http.MethodPost, "/api/cut", `{"input": ["我爱北京"]}`))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, session.Coarse, resp.Granularity)

	w := do(t, h, http.MethodPost, "/api/cut", `{"input": "我爱", "granularity": "fine"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err = FromConfig(cfg, []string{filepath.Join(dir, "missing.txt")})
	assert.Error(t, err)
}
