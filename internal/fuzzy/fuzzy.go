// Package fuzzy scores candidate strings (file paths, symbol names)
// against a query using a subsequence-plus-bonuses formula shared by the
// File and Symbol search strategies.
package fuzzy

import (
	"strings"
	"unicode"
)

// DefaultThreshold is the score below which a candidate is suppressed.
const DefaultThreshold = 0.3

const boundaryChars = "/_-."

// Score reports how well query fuzzy-matches candidate as a case-insensitive
// subsequence. ok is false when query's characters don't all appear in
// candidate in order, in which case score is always 0 and the candidate
// must be excluded by the caller regardless of threshold.
//
// The formula: a leftmost-greedy subsequence match is found first (the
// same match every call returns for the same inputs, satisfying
// extraction-style determinism); the match is then scored by how early it
// starts, how much of it is contiguous, how much of it lands on a
// word-boundary character, and a small nudge for matches that land
// entirely within the candidate's basename (the segment after the last
// '/'). The raw score is capped at 1.0; an exact case-insensitive
// basename match always returns 1.0.
func Score(query, candidate string) (float64, bool) {
	if query == "" {
		return 0, false
	}
	if base := basename(candidate); strings.EqualFold(base, query) {
		return 1.0, true
	}

	positions, ok := matchPositions(query, candidate)
	if !ok {
		return 0, false
	}

	n := len(positions)
	candLen := len([]rune(candidate))
	if candLen == 0 {
		return 0, false
	}

	runes := []rune(candidate)
	baseStart := baseStartIndex(runes)

	earlyStart := 1 - float64(positions[0])/float64(candLen)
	consecutive := float64(longestRun(positions)) / float64(n)

	boundaryCount := 0
	for _, p := range positions {
		if isBoundary(runes, p) {
			boundaryCount++
		}
	}
	boundaryRatio := float64(boundaryCount) / float64(n)

	inBasename := 0
	for _, p := range positions {
		if p >= baseStart {
			inBasename++
		}
	}
	basenameRatio := float64(inBasename) / float64(n)

	raw := 0.5*earlyStart + 0.3*consecutive + 0.2*boundaryRatio
	score := raw * (1 + 0.05*basenameRatio)
	if score > 1.0 {
		score = 1.0
	}
	return score, true
}

// matchPositions finds the leftmost subsequence match of query in
// candidate, case-insensitively, returning the matched rune index for
// each query rune in order.
func matchPositions(query, candidate string) ([]int, bool) {
	q := []rune(strings.ToLower(query))
	c := []rune(strings.ToLower(candidate))

	positions := make([]int, 0, len(q))
	ci := 0
	for _, qr := range q {
		for ci < len(c) && c[ci] != qr {
			ci++
		}
		if ci >= len(c) {
			return nil, false
		}
		positions = append(positions, ci)
		ci++
	}
	return positions, true
}

func longestRun(positions []int) int {
	best, cur := 1, 1
	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			cur++
		} else {
			cur = 1
		}
		if cur > best {
			best = cur
		}
	}
	return best
}

func isBoundary(candidate []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := candidate[i-1]
	if strings.ContainsRune(boundaryChars, prev) {
		return true
	}
	return unicode.IsUpper(candidate[i]) && unicode.IsLower(prev)
}

func basename(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func baseStartIndex(candidate []rune) int {
	for i := len(candidate) - 1; i >= 0; i-- {
		if candidate[i] == '/' {
			return i + 1
		}
	}
	return 0
}
