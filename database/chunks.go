package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/klapom/AEGIS-Rag-sub009/helper"
	"github.com/klapom/AEGIS-Rag-sub009/model"
	loadSql "github.com/klapom/AEGIS-Rag-sub009/sql"
)

// ChunksDBHandlerFunctions defines the interface for Chunks database operations.
type ChunksDBHandlerFunctions interface {
	UpsertChunk(ctx context.Context, chunk *model.Chunk) error
	SelectChunk(ctx context.Context, chunkID string) (*model.Chunk, error)
	SelectChunksByDocument(ctx context.Context, docKey string) ([]*model.Chunk, error)
	SelectChunksBySimilarity(ctx context.Context, embedding []float32, limit int, threshold float64, docKeys []string) ([]*model.Chunk, error)
	DeleteChunksByDocument(ctx context.Context, docKey string) error
}

// ChunksDBHandler handles chunk-related database operations. It is the
// vector index: chunk text, multi-section payload and embedding all live here.
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It initializes the database connection and loads chunk-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table in the database.
// If the table already exists, it does not create it again.
// It also creates the embedding index.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing chunks table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// UpsertChunk inserts a chunk with its payload and embedding, replacing any
// existing row with the same chunk ID.
func (h *ChunksDBHandler) UpsertChunk(ctx context.Context, chunk *model.Chunk) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM upsert_chunk($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		chunk.ChunkID,
		chunk.DocumentID,
		chunk.Content,
		chunk.TokenCount,
		chunk.NumSections,
		chunk.PrimarySection,
		pq.Array(chunk.SectionHeadings),
		pq.Array(intsToInt64s(chunk.SectionPages)),
		chunk.SectionBBoxes,
		pq.Array(chunk.Embedding),
	)

	return scanChunkRow(row, chunk)
}

// SelectChunk retrieves a chunk by its ID
func (h *ChunksDBHandler) SelectChunk(ctx context.Context, chunkID string) (*model.Chunk, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_chunk($1)`,
		chunkID,
	)

	chunk := &model.Chunk{}
	if err := scanChunkRow(row, chunk); err != nil {
		return nil, err
	}

	return chunk, nil
}

// SelectChunksByDocument retrieves all chunks for a document
func (h *ChunksDBHandler) SelectChunksByDocument(ctx context.Context, docKey string) ([]*model.Chunk, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_chunks_by_document($1)`,
		docKey,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		if err := scanChunkRow(rows, chunk); err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chunks, nil
}

// SelectChunksBySimilarity performs cosine similarity search over the chunk
// embeddings. If docKeys is nil or empty, all documents are searched.
func (h *ChunksDBHandler) SelectChunksBySimilarity(ctx context.Context, embedding []float32, limit int, threshold float64, docKeys []string) ([]*model.Chunk, error) {
	embeddingVector := pgvector.NewVector(embedding)

	var docKeysParam interface{}
	if len(docKeys) > 0 {
		docKeysParam = pq.Array(docKeys)
	} else {
		docKeysParam = nil
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_chunks_by_similarity($1, $2, $3, $4)`,
		embeddingVector,
		limit,
		threshold,
		docKeysParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		var headings pq.StringArray
		var pages pq.Int64Array

		err := rows.Scan(
			&chunk.ChunkID,
			&chunk.DocumentID,
			&chunk.DocumentKey,
			&chunk.Content,
			&chunk.TokenCount,
			&chunk.NumSections,
			&chunk.PrimarySection,
			&headings,
			&pages,
			&chunk.SectionBBoxes,
			&chunk.CreatedAt,
			&chunk.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		chunk.SectionHeadings = []string(headings)
		chunk.SectionPages = int64sToInts(pages)

		results = append(results, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// DeleteChunksByDocument removes all chunks of a document from the index.
func (h *ChunksDBHandler) DeleteChunksByDocument(ctx context.Context, docKey string) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_chunks_by_document($1)`,
		docKey,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChunkRow(row rowScanner, chunk *model.Chunk) error {
	var headings pq.StringArray
	var pages pq.Int64Array

	err := row.Scan(
		&chunk.ChunkID,
		&chunk.DocumentID,
		&chunk.DocumentKey,
		&chunk.Content,
		&chunk.TokenCount,
		&chunk.NumSections,
		&chunk.PrimarySection,
		&headings,
		&pages,
		&chunk.SectionBBoxes,
		&chunk.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	chunk.SectionHeadings = []string(headings)
	chunk.SectionPages = int64sToInts(pages)

	return nil
}

func intsToInt64s(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func int64sToInts(in []int64) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
