package retrieval

import (
	"context"

	"github.com/klapom/AEGIS-Rag-sub009/database"
	"github.com/klapom/AEGIS-Rag-sub009/model"
)

// Engine provides vector retrieval with optional section-aware reranking
type Engine struct {
	chunks database.ChunksDBHandlerFunctions
}

// NewEngine creates a new retrieval engine
func NewEngine(chunks database.ChunksDBHandlerFunctions) *Engine {
	return &Engine{
		chunks: chunks,
	}
}

// VectorRetrieve performs pure vector similarity search
func (e *Engine) VectorRetrieve(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	chunks, err := e.chunks.SelectChunksBySimilarity(ctx, embedding, config.TopK, config.SimilarityThreshold, config.DocumentKeys)
	if err != nil {
		return nil, err
	}

	results := make([]*model.RetrievalResult, len(chunks))
	for i, chunk := range chunks {
		score := 0.0
		if chunk.Similarity != nil {
			score = *chunk.Similarity
		}
		results[i] = &model.RetrievalResult{
			Chunk:           chunk,
			Score:           score,
			SimilarityScore: score,
			RetrievalMethod: "vector",
		}
	}

	return results, nil
}

// RetrieveAndRerank performs vector search followed by the heading boost
// rerank driven by the query text.
func (e *Engine) RetrieveAndRerank(ctx context.Context, query string, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	candidates, err := e.VectorRetrieve(ctx, embedding, config)
	if err != nil {
		return nil, err
	}

	results := Rerank(query, candidates, config.BoostWeight)
	for _, result := range results {
		if result.HeadingBoost > 0 {
			result.RetrievalMethod = "vector+heading"
		}
	}

	return results, nil
}
