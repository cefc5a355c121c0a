package crf

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/teatak/tagseg/tag"
)

// Model is a linear-chain CRF over the B, M, E and S tags. It is read-only
// once loaded.
type Model struct {
	// Trans is indexed [from][to].
	Trans [tag.NumBias][tag.NumBias]float64
	// Feats maps a feature such as "U02:京" to per-tag weights.
	Feats map[string]map[tag.Tag]float64
}

// NewModel returns a model with no weights.
func NewModel() *Model {
	return &Model{
		Feats: make(map[string]map[tag.Tag]float64),
	}
}

// Load merges a text model into m. Lines are "T from to weight" for
// transitions and "F feature tag weight" for features; blank lines and lines
// starting with # are skipped.
func (m *Model) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}
		weight, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}

		switch parts[0] {
		case "T":
			from, ok1 := parseBias(parts[1])
			to, ok2 := parseBias(parts[2])
			if ok1 && ok2 {
				m.Trans[from][to] = weight
			}
		case "F":
			if t, ok := parseBias(parts[2]); ok {
				m.SetFeat(parts[1], t, weight)
			}
		}
	}
	return scanner.Err()
}

// Save saves the model to a file. Features are written in sorted order so
// saved models diff cleanly.
func (m *Model) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)

	for i := range tag.NumBias {
		for j := range tag.NumBias {
			if m.Trans[i][j] != 0 {
				fmt.Fprintf(writer, "T %s %s %f\n", tag.Tag(i), tag.Tag(j), m.Trans[i][j])
			}
		}
	}

	feats := make([]string, 0, len(m.Feats))
	for feat := range m.Feats {
		feats = append(feats, feat)
	}
	sort.Strings(feats)
	for _, feat := range feats {
		for t := range tag.NumBias {
			if w := m.Feats[feat][tag.Tag(t)]; w != 0 {
				fmt.Fprintf(writer, "F %s %s %f\n", feat, tag.Tag(t), w)
			}
		}
	}
	return writer.Flush()
}

// SetFeat sets a feature weight.
func (m *Model) SetFeat(feat string, t tag.Tag, w float64) {
	if m.Feats[feat] == nil {
		m.Feats[feat] = make(map[tag.Tag]float64)
	}
	m.Feats[feat][t] = w
}

// parseBias accepts only the tags the chain is built over. X may appear in
// model files written by other tools and is ignored.
func parseBias(s string) (tag.Tag, bool) {
	t, ok := tag.Parse(s)
	if !ok || int(t) >= tag.NumBias {
		return 0, false
	}
	return t, true
}
