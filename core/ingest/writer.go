package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/klapom/AEGIS-Rag-sub009/core/pipeline"
	"github.com/klapom/AEGIS-Rag-sub009/model"
)

// VectorIndex is the port to the vector store consumed by the writer
type VectorIndex interface {
	UpsertChunk(ctx context.Context, chunk *model.Chunk) error
	DeleteChunksByDocument(ctx context.Context, docKey string) error
}

// ChunkIndexWriter embeds chunk texts and persists them into the vector
// index. Re-ingestion of a document deletes its existing chunks first, so
// the delete and the subsequent writes form the document's critical section;
// different documents may be written concurrently.
type ChunkIndexWriter struct {
	index    VectorIndex
	embedder pipeline.EmbedFunc
	logger   *slog.Logger

	// Workers bounds concurrent in-flight embedding requests per document.
	Workers int
	// EmbedTimeout bounds a single embedding call; a timed-out call counts
	// toward the retry budget.
	EmbedTimeout time.Duration
	// EmbedRetries is the number of retries after the first attempt.
	EmbedRetries uint64
	// UpsertRetries is the retry budget for a single index upsert.
	UpsertRetries uint64
}

// NewChunkIndexWriter creates a writer with the default worker pool size,
// per-call timeout and retry budgets.
func NewChunkIndexWriter(index VectorIndex, embedder pipeline.EmbedFunc, logger *slog.Logger) *ChunkIndexWriter {
	return &ChunkIndexWriter{
		index:         index,
		embedder:      embedder,
		logger:        logger,
		Workers:       4,
		EmbedTimeout:  30 * time.Second,
		EmbedRetries:  2,
		UpsertRetries: 2,
	}
}

// Write deletes the document's existing chunks and writes the new set.
// Embedding failures are partial: a chunk that exhausts its retries is
// recorded in the report and skipped while the rest of the document
// continues. Upsert failures are not partial; if an upsert exhausts its
// retries the document is failed wholesale so it is never left half-indexed.
func (w *ChunkIndexWriter) Write(ctx context.Context, docKey string, chunks []*model.Chunk) (*model.IndexReport, error) {
	err := w.index.DeleteChunksByDocument(ctx, docKey)
	if err != nil {
		return nil, &model.IndexWriteError{DocumentKey: docKey, Err: err}
	}

	embeddings := make([][]float32, len(chunks))
	embedFailed := make([]bool, len(chunks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(w.Workers)

	for i, chunk := range chunks {
		group.Go(func() error {
			embedding, err := w.embedChunk(groupCtx, chunk)
			if err != nil {
				w.logger.Warn("embedding failed, excluding chunk from index",
					slog.String("chunk_id", chunk.ChunkID),
					slog.String("error", err.Error()))
				embedFailed[i] = true
				return nil
			}
			embeddings[i] = embedding
			return nil
		})
	}

	// Goroutines never return errors, so Wait only reports ctx cancellation.
	if err := group.Wait(); err != nil {
		return nil, &model.IndexWriteError{DocumentKey: docKey, Err: err}
	}

	report := &model.IndexReport{}
	for i, chunk := range chunks {
		if embedFailed[i] {
			report.FailedChunkIDs = append(report.FailedChunkIDs, chunk.ChunkID)
			continue
		}
		chunk.Embedding = embeddings[i]

		err := w.upsertChunk(ctx, chunk)
		if err != nil {
			return nil, &model.IndexWriteError{DocumentKey: docKey, Err: err}
		}
		report.ChunksIndexed++
	}

	return report, nil
}

// embedChunk requests an embedding with a per-call timeout and bounded
// exponential backoff.
func (w *ChunkIndexWriter) embedChunk(ctx context.Context, chunk *model.Chunk) ([]float32, error) {
	var embedding []float32

	operation := func() error {
		vector, err := w.embedOnce(ctx, chunk.Content)
		if err != nil {
			return &model.EmbeddingTransientError{ChunkID: chunk.ChunkID, Err: err}
		}
		embedding = vector
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), w.EmbedRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return embedding, nil
}

func (w *ChunkIndexWriter) embedOnce(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, w.EmbedTimeout)
	defer cancel()

	type embedResult struct {
		vector []float32
		err    error
	}
	done := make(chan embedResult, 1)
	go func() {
		vector, err := w.embedder(text)
		done <- embedResult{vector: vector, err: err}
	}()

	select {
	case <-callCtx.Done():
		return nil, callCtx.Err()
	case result := <-done:
		return result.vector, result.err
	}
}

func (w *ChunkIndexWriter) upsertChunk(ctx context.Context, chunk *model.Chunk) error {
	operation := func() error {
		return w.index.UpsertChunk(ctx, chunk)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), w.UpsertRetries), ctx)
	return backoff.Retry(operation, policy)
}
