package retrieval

import (
	"testing"

	"github.com/klapom/AEGIS-Rag-sub009/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(chunkID string, score float64, headings ...string) *model.RetrievalResult {
	return &model.RetrievalResult{
		Chunk: &model.Chunk{
			ChunkID:         chunkID,
			SectionHeadings: headings,
			NumSections:     len(headings),
		},
		Score:           score,
		SimilarityScore: score,
		RetrievalMethod: "vector",
	}
}

func TestRerank(t *testing.T) {
	t.Run("Full heading match gets the full boost", func(t *testing.T) {
		candidates := []*model.RetrievalResult{
			candidate("a:0", 0.5, "Pump Installation"),
		}

		results := Rerank("pump installation steps", candidates, 0.3)

		require.Len(t, results, 1)
		assert.InDelta(t, 0.8, results[0].Score, 1e-9)
		assert.InDelta(t, 0.3, results[0].HeadingBoost, 1e-9)
	})

	t.Run("Partial heading match gets a fractional boost", func(t *testing.T) {
		candidates := []*model.RetrievalResult{
			candidate("a:0", 0.5, "Pump Installation", "Warranty"),
		}

		results := Rerank("pump installation steps", candidates, 0.3)

		require.Len(t, results, 1)
		assert.InDelta(t, 0.15, results[0].HeadingBoost, 1e-9, "Expected one of two headings to match")
		assert.InDelta(t, 0.65, results[0].Score, 1e-9)
	})

	t.Run("Match is case-insensitive", func(t *testing.T) {
		candidates := []*model.RetrievalResult{
			candidate("a:0", 0.5, "TROUBLESHOOTING"),
		}

		results := Rerank("troubleshooting the pump", candidates, 0.3)

		assert.Greater(t, results[0].HeadingBoost, 0.0)
	})

	t.Run("Heading tokens out of order still match", func(t *testing.T) {
		candidates := []*model.RetrievalResult{
			candidate("a:0", 0.5, "Installation Pump"),
		}

		results := Rerank("pump installation steps", candidates, 0.3)

		assert.Greater(t, results[0].HeadingBoost, 0.0, "Expected token-set containment to match out-of-order headings")
	})

	t.Run("Boosted candidate overtakes an unboosted one", func(t *testing.T) {
		candidates := []*model.RetrievalResult{
			candidate("a:0", 0.60, "Unrelated Heading"),
			candidate("b:0", 0.55, "Maintenance Schedule"),
		}

		results := Rerank("maintenance schedule", candidates, 0.3)

		assert.Equal(t, "b:0", results[0].Chunk.ChunkID, "Expected heading match to promote the candidate")
		assert.Equal(t, "a:0", results[1].Chunk.ChunkID)
	})

	t.Run("Empty headings get zero boost, never an error", func(t *testing.T) {
		candidates := []*model.RetrievalResult{
			{Chunk: &model.Chunk{ChunkID: "a:0"}, Score: 0.4},
			{Score: 0.3}, // no chunk at all
		}

		results := Rerank("any query", candidates, 0.3)

		require.Len(t, results, 2)
		assert.Zero(t, results[0].HeadingBoost)
		assert.Zero(t, results[1].HeadingBoost)
		assert.InDelta(t, 0.4, results[0].Score, 1e-9)
	})

	t.Run("Ties preserve original order", func(t *testing.T) {
		candidates := []*model.RetrievalResult{
			candidate("first:0", 0.5, "No Match A"),
			candidate("second:0", 0.5, "No Match B"),
			candidate("third:0", 0.5, "No Match C"),
		}

		results := Rerank("completely unrelated query", candidates, 0.3)

		assert.Equal(t, "first:0", results[0].Chunk.ChunkID)
		assert.Equal(t, "second:0", results[1].Chunk.ChunkID)
		assert.Equal(t, "third:0", results[2].Chunk.ChunkID)
	})

	t.Run("Input slice is not modified", func(t *testing.T) {
		candidates := []*model.RetrievalResult{
			candidate("a:0", 0.5, "Maintenance"),
		}

		Rerank("maintenance", candidates, 0.3)

		assert.InDelta(t, 0.5, candidates[0].Score, 1e-9, "Expected original candidate untouched")
		assert.Zero(t, candidates[0].HeadingBoost)
	})
}

func TestRerankProperties(t *testing.T) {
	queries := []string{
		"pump installation",
		"safety warnings for operators",
		"",
		"zzz qqq xxx",
	}
	candidates := []*model.RetrievalResult{
		candidate("a:0", 0.9, "Pump Installation", "Safety"),
		candidate("b:0", 0.7, "Safety Warnings"),
		candidate("c:0", 0.7),
		candidate("d:0", 0.1, "Operators", "Pump", "Unrelated"),
		{Score: 0.05},
	}

	for _, query := range queries {
		results := Rerank(query, candidates, 0.3)

		t.Run("Scores never decrease", func(t *testing.T) {
			require.Len(t, results, len(candidates))
			for _, result := range results {
				assert.GreaterOrEqual(t, result.Score, result.SimilarityScore)
			}
		})

		t.Run("Boost bounded by weight", func(t *testing.T) {
			for _, result := range results {
				assert.GreaterOrEqual(t, result.HeadingBoost, 0.0)
				assert.LessOrEqual(t, result.HeadingBoost, 0.3)
			}
		})

		t.Run("Sorted descending", func(t *testing.T) {
			for i := 1; i < len(results); i++ {
				assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
			}
		})
	}
}

func TestQueryTokenOverlap(t *testing.T) {
	t.Run("Substring match", func(t *testing.T) {
		assert.True(t, queryTokenOverlap("how to install the pump", "install the pump"))
	})

	t.Run("Token subset match", func(t *testing.T) {
		assert.True(t, queryTokenOverlap("pump install guide", "install pump"))
	})

	t.Run("No match on disjoint tokens", func(t *testing.T) {
		assert.False(t, queryTokenOverlap("warranty information", "installation"))
	})

	t.Run("Empty heading never matches", func(t *testing.T) {
		assert.False(t, queryTokenOverlap("anything", ""))
		assert.False(t, queryTokenOverlap("anything", "   "))
	})

	t.Run("Empty query never matches", func(t *testing.T) {
		assert.False(t, queryTokenOverlap("", "Introduction"))
	})
}
