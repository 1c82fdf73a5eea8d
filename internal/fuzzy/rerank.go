package fuzzy

import "github.com/hbollon/go-edlib"

// Scored pairs a candidate string with its fuzzy Score result.
type Scored struct {
	Text  string
	Score float64
}

// scoreEpsilon is how close two Score results must be to count as a tie
// worth breaking by a second, costlier algorithm.
const scoreEpsilon = 1e-9

// BreakTies stable-sorts items by descending score, and within a run of
// equal scores, by descending Jaro-Winkler similarity to query. This is
// the Symbol strategy's secondary re-ranker: the primary subsequence
// scorer already produces a total order, but it commonly ties (e.g. two
// identifiers that both match the query as a 3-character prefix); edlib's
// edit-distance-aware similarity breaks those ties the way the teacher's
// own fuzzy matcher already uses go-edlib, applied here to ranking rather
// than accept/reject.
func BreakTies(query string, items []Scored) []Scored {
	out := make([]Scored, len(items))
	copy(out, items)

	start := 0
	for start < len(out) {
		end := start + 1
		for end < len(out) && sameScore(out[start].Score, out[end].Score) {
			end++
		}
		if end-start > 1 {
			rerankGroup(query, out[start:end])
		}
		start = end
	}
	return out
}

func sameScore(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < scoreEpsilon
}

func rerankGroup(query string, group []Scored) {
	similarities := make([]float32, len(group))
	for i, item := range group {
		sim, err := edlib.StringsSimilarity(query, item.Text, edlib.JaroWinkler)
		if err != nil {
			sim = 0
		}
		similarities[i] = sim
	}
	for i := 1; i < len(group); i++ {
		j := i
		for j > 0 && similarities[j] > similarities[j-1] {
			group[j], group[j-1] = group[j-1], group[j]
			similarities[j], similarities[j-1] = similarities[j-1], similarities[j]
			j--
		}
	}
}
