package retrieval

import (
	"sort"
	"strings"

	"github.com/klapom/AEGIS-Rag-sub009/model"
)

// Rerank adjusts candidate relevance scores with a heading-match boost and
// re-sorts descending. For each candidate the boost is the fraction of its
// section headings that lexically match the query, scaled by boostWeight, so
// the boost always lies in [0, boostWeight] and a score never decreases.
// Candidates without heading metadata keep their score unchanged.
//
// The sort is stable: candidates with equal adjusted scores keep their
// original relative order. The input slice is not modified.
func Rerank(query string, candidates []*model.RetrievalResult, boostWeight float64) []*model.RetrievalResult {
	results := make([]*model.RetrievalResult, len(candidates))
	for i, candidate := range candidates {
		reranked := *candidate
		boost := headingBoost(query, candidate, boostWeight)
		reranked.HeadingBoost = boost
		reranked.Score = candidate.Score + boost
		results[i] = &reranked
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

func headingBoost(query string, candidate *model.RetrievalResult, boostWeight float64) float64 {
	if boostWeight <= 0 || candidate.Chunk == nil || len(candidate.Chunk.SectionHeadings) == 0 {
		return 0
	}

	matches := 0
	for _, heading := range candidate.Chunk.SectionHeadings {
		if queryTokenOverlap(query, heading) {
			matches++
		}
	}

	return float64(matches) / float64(len(candidate.Chunk.SectionHeadings)) * boostWeight
}

// queryTokenOverlap reports whether a heading lexically matches the query.
// The test is a case-insensitive substring check or, failing that, token-set
// containment of the heading's words in the query's words. Deliberately not
// fuzzy or semantic, so the boost stays predictable and explainable.
func queryTokenOverlap(query string, heading string) bool {
	h := strings.ToLower(strings.TrimSpace(heading))
	q := strings.ToLower(strings.TrimSpace(query))
	if h == "" || q == "" {
		return false
	}

	if strings.Contains(q, h) {
		return true
	}

	queryTokens := make(map[string]bool)
	for _, token := range strings.Fields(q) {
		queryTokens[token] = true
	}
	for _, token := range strings.Fields(h) {
		if !queryTokens[token] {
			return false
		}
	}
	return true
}
