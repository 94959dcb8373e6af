package completion

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match returns the candidates that match partial, keeping their relative
// order.
//
// Both modes ignore case. In prefix mode a candidate matches when it begins
// with partial. In fuzzy mode a candidate matches when it contains every
// character of partial in order, not necessarily adjacent, so "vw" matches
// "view"; fuzzy results are ordered by match distance, ties keeping candidate
// order. Every prefix match is also a fuzzy match. An empty partial matches
// every candidate.
func Match(partial string, candidates []string, fuzzyMode bool) []string {
	if partial == "" {
		return append([]string(nil), candidates...)
	}
	if !fuzzyMode {
		lower := strings.ToLower(partial)
		var out []string
		for _, c := range candidates {
			if strings.HasPrefix(strings.ToLower(c), lower) {
				out = append(out, c)
			}
		}
		return out
	}

	type ranked struct {
		text     string
		distance int
	}
	var hits []ranked
	for _, c := range candidates {
		if d := fuzzy.RankMatchFold(partial, c); d >= 0 {
			hits = append(hits, ranked{text: c, distance: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].distance < hits[j].distance
	})
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.text
	}
	return out
}
