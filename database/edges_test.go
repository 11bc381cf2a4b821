package database

import (
	"context"
	"testing"
	"time"

	"github.com/klapom/AEGIS-Rag-sub009/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgesNewEdgesDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewEdgesDBHandler", func(t *testing.T) {
		// Documents and sections tables must exist for the foreign keys
		_, err := NewDocumentsDBHandler(database, true)
		require.NoError(t, err)
		_, err = NewSectionsDBHandler(database, true)
		require.NoError(t, err)

		edgesDbHandler, err := NewEdgesDBHandler(database, true)
		assert.NoError(t, err, "Expected NewEdgesDBHandler to not return an error")
		require.NotNil(t, edgesDbHandler, "Expected NewEdgesDBHandler to return a non-nil instance")
		require.NotNil(t, edgesDbHandler.db, "Expected NewEdgesDBHandler to have a non-nil database instance")
		require.NotNil(t, edgesDbHandler.db.Instance, "Expected NewEdgesDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewEdgesDBHandler with nil database", func(t *testing.T) {
		_, err := NewEdgesDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating EdgesDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestEdgesInsert(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)
	sectionsDbHandler, err := NewSectionsDBHandler(database, true)
	require.NoError(t, err)
	chunksDbHandler, err := NewChunksDBHandler(database, 384, true)
	require.NoError(t, err)
	edgesDbHandler, err := NewEdgesDBHandler(database, true)
	require.NoError(t, err)

	doc := &model.Document{
		Key:      "edges-insert",
		Title:    "Test Document",
		Source:   "test.pdf",
		Metadata: map[string]interface{}{},
	}
	err = documentsDbHandler.UpsertDocument(ctx, doc)
	require.NoError(t, err)

	section := &model.Section{
		DocumentID: doc.ID,
		Heading:    "Introduction",
		Level:      1,
		PageNo:     1,
		Order:      0,
		TokenCount: 100,
	}
	err = sectionsDbHandler.InsertSection(ctx, section)
	require.NoError(t, err)

	chunk := &model.Chunk{
		ChunkID:         "edges-insert:0",
		DocumentID:      doc.ID,
		Content:         "Chunk content",
		TokenCount:      100,
		SectionHeadings: []string{"Introduction"},
		SectionPages:    []int{1},
		PrimarySection:  "Introduction",
		NumSections:     1,
		Embedding:       testEmbedding(0),
	}
	err = chunksDbHandler.UpsertChunk(ctx, chunk)
	require.NoError(t, err)

	t.Run("Insert contains_chunk edge", func(t *testing.T) {
		edge := &model.Edge{
			DocumentID: doc.ID,
			EdgeType:   model.EdgeTypeContainsChunk,
			SectionID:  section.ID,
			ChunkID:    &chunk.ChunkID,
		}

		err := edgesDbHandler.InsertEdge(ctx, edge)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.NotZero(t, edge.ID, "Expected inserted edge to have an ID")
		assert.WithinDuration(t, edge.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")
	})

	// Cleanup
	documentsDbHandler.DeleteDocument(ctx, doc.Key)
}

func TestEdgesGetAndCount(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)
	sectionsDbHandler, err := NewSectionsDBHandler(database, true)
	require.NoError(t, err)
	chunksDbHandler, err := NewChunksDBHandler(database, 384, true)
	require.NoError(t, err)
	edgesDbHandler, err := NewEdgesDBHandler(database, true)
	require.NoError(t, err)

	doc := &model.Document{
		Key:      "edges-get",
		Title:    "Test Document",
		Source:   "test.pdf",
		Metadata: map[string]interface{}{},
	}
	err = documentsDbHandler.UpsertDocument(ctx, doc)
	require.NoError(t, err)

	sections := make([]*model.Section, 2)
	for i := range sections {
		sections[i] = &model.Section{
			DocumentID: doc.ID,
			Heading:    "Section " + string(rune('A'+i)),
			Level:      1,
			PageNo:     i + 1,
			Order:      i,
			TokenCount: 100,
		}
		err = sectionsDbHandler.InsertSection(ctx, sections[i])
		require.NoError(t, err)
	}

	chunk := &model.Chunk{
		ChunkID:         "edges-get:0",
		DocumentID:      doc.ID,
		Content:         "Merged chunk",
		TokenCount:      200,
		SectionHeadings: []string{"Section A", "Section B"},
		SectionPages:    []int{1, 2},
		PrimarySection:  "Section A",
		NumSections:     2,
		Embedding:       testEmbedding(0),
	}
	err = chunksDbHandler.UpsertChunk(ctx, chunk)
	require.NoError(t, err)

	// Both sections contributed to the chunk
	for _, section := range sections {
		edge := &model.Edge{
			DocumentID: doc.ID,
			EdgeType:   model.EdgeTypeContainsChunk,
			SectionID:  section.ID,
			ChunkID:    &chunk.ChunkID,
		}
		err = edgesDbHandler.InsertEdge(ctx, edge)
		require.NoError(t, err)
	}

	t.Run("Get edges by section", func(t *testing.T) {
		edges, err := edgesDbHandler.SelectEdgesBySection(ctx, sections[0].ID)
		assert.NoError(t, err, "Expected GetBySection to not return an error")
		require.Len(t, edges, 1, "Expected one edge from the section")
		assert.Equal(t, chunk.ChunkID, *edges[0].ChunkID, "Expected edge to point at the chunk")
	})

	t.Run("Get edges by chunk", func(t *testing.T) {
		edges, err := edgesDbHandler.SelectEdgesByChunk(ctx, chunk.ChunkID)
		assert.NoError(t, err, "Expected GetByChunk to not return an error")
		assert.Len(t, edges, 2, "Expected one edge per contributing section")
	})

	t.Run("Count edges by document", func(t *testing.T) {
		count, err := edgesDbHandler.CountEdgesByDocument(ctx, doc.Key, nil)
		assert.NoError(t, err, "Expected Count to not return an error")
		assert.Equal(t, int64(2), count, "Expected count to match inserted edges")

		edgeType := model.EdgeTypeContainsChunk
		count, err = edgesDbHandler.CountEdgesByDocument(ctx, doc.Key, &edgeType)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count, "Expected all edges to be contains_chunk")

		edgeType = model.EdgeTypeDefines
		count, err = edgesDbHandler.CountEdgesByDocument(ctx, doc.Key, &edgeType)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count, "Expected no defines edges")
	})

	// Cleanup
	documentsDbHandler.DeleteDocument(ctx, doc.Key)
}

func TestEdgesDeleteByDocument(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)
	sectionsDbHandler, err := NewSectionsDBHandler(database, true)
	require.NoError(t, err)
	edgesDbHandler, err := NewEdgesDBHandler(database, true)
	require.NoError(t, err)

	doc := &model.Document{
		Key:      "edges-delete",
		Title:    "Test Document",
		Source:   "test.pdf",
		Metadata: map[string]interface{}{},
	}
	err = documentsDbHandler.UpsertDocument(ctx, doc)
	require.NoError(t, err)

	section := &model.Section{
		DocumentID: doc.ID,
		Heading:    "Section",
		Level:      1,
		PageNo:     1,
		Order:      0,
		TokenCount: 50,
	}
	err = sectionsDbHandler.InsertSection(ctx, section)
	require.NoError(t, err)

	chunkID := "edges-delete:0"
	edge := &model.Edge{
		DocumentID: doc.ID,
		EdgeType:   model.EdgeTypeContainsChunk,
		SectionID:  section.ID,
		ChunkID:    &chunkID,
	}
	err = edgesDbHandler.InsertEdge(ctx, edge)
	require.NoError(t, err)

	err = edgesDbHandler.DeleteEdgesByDocument(ctx, doc.ID)
	assert.NoError(t, err, "Expected DeleteByDocument to not return an error")

	count, err := edgesDbHandler.CountEdgesByDocument(ctx, doc.Key, nil)
	assert.NoError(t, err)
	assert.Zero(t, count, "Expected no edges after deletion")

	// Cleanup
	documentsDbHandler.DeleteDocument(ctx, doc.Key)
}
