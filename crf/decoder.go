package crf

import (
	"math"

	"github.com/teatak/tagseg/lexicon"
	"github.com/teatak/tagseg/tag"
)

// Decode performs Viterbi decoding to find the best tag sequence. bias, when
// non-nil, is added to the emission score of every position it covers.
func (m *Model) Decode(runes []rune, bias []lexicon.Factor) []tag.Tag {
	n := len(runes)
	if n == 0 {
		return []tag.Tag{}
	}

	// dp[i][t] = max score ending at i with tag t
	dp := make([][tag.NumBias]float64, n)
	// path[i][t] = previous tag that gave max score
	path := make([][tag.NumBias]int, n)

	for t := range tag.NumBias {
		dp[0][t] = m.emission(runes, bias, 0, t)
	}

	for i := 1; i < n; i++ {
		for curr := range tag.NumBias {
			maxScore := -math.MaxFloat64
			bestPrev := 0
			emission := m.emission(runes, bias, i, curr)
			for prev := range tag.NumBias {
				score := dp[i-1][prev] + m.Trans[prev][curr] + emission
				if score > maxScore {
					maxScore = score
					bestPrev = prev
				}
			}
			dp[i][curr] = maxScore
			path[i][curr] = bestPrev
		}
	}

	maxScore := -math.MaxFloat64
	bestEnd := 0
	for t := range tag.NumBias {
		if dp[n-1][t] > maxScore {
			maxScore = dp[n-1][t]
			bestEnd = t
		}
	}

	// Backtrack
	best := make([]int, n)
	best[n-1] = bestEnd
	for i := n - 1; i > 0; i-- {
		best[i-1] = path[i][best[i]]
	}
	tags := make([]tag.Tag, n)
	for i, t := range best {
		tags[i] = tag.Tag(t)
	}
	return tags
}

func (m *Model) emission(runes []rune, bias []lexicon.Factor, idx int, t int) float64 {
	score := 0.0
	for _, feat := range ExtractFeatures(runes, idx) {
		if weights, ok := m.Feats[feat]; ok {
			score += weights[tag.Tag(t)]
		}
	}
	if idx < len(bias) {
		score += float64(bias[idx][t])
	}
	return score
}
