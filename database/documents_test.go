package database

import (
	"context"
	"testing"
	"time"

	"github.com/klapom/AEGIS-Rag-sub009/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentsNewDocumentsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewDocumentsDBHandler", func(t *testing.T) {
		documentsDbHandler, err := NewDocumentsDBHandler(database, true)
		assert.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")
		require.NotNil(t, documentsDbHandler, "Expected NewDocumentsDBHandler to return a non-nil instance")
		require.NotNil(t, documentsDbHandler.db, "Expected NewDocumentsDBHandler to have a non-nil database instance")
		require.NotNil(t, documentsDbHandler.db.Instance, "Expected NewDocumentsDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewDocumentsDBHandler with nil database", func(t *testing.T) {
		_, err := NewDocumentsDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating DocumentsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestDocumentsUpsert(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")

	t.Run("Upsert new document", func(t *testing.T) {
		doc := &model.Document{
			Key:      "manual-001",
			Title:    "Test Document",
			Source:   "test_source.pdf",
			Metadata: map[string]interface{}{"author": "Test Author", "year": 2024},
		}

		err := documentsDbHandler.UpsertDocument(ctx, doc)
		assert.NoError(t, err, "Expected Upsert to not return an error")
		assert.NotEmpty(t, doc.RID, "Expected inserted document to have a RID")
		assert.NotZero(t, doc.ID, "Expected inserted document to have an ID")
		assert.WithinDuration(t, doc.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")
		assert.WithinDuration(t, doc.UpdatedAt, time.Now(), 2*time.Second, "Expected UpdatedAt to be set")

		// Cleanup
		documentsDbHandler.DeleteDocument(ctx, doc.Key)
	})

	t.Run("Upsert existing key keeps identity", func(t *testing.T) {
		doc := &model.Document{
			Key:      "manual-002",
			Title:    "First Title",
			Source:   "test.pdf",
			Metadata: map[string]interface{}{},
		}
		err := documentsDbHandler.UpsertDocument(ctx, doc)
		require.NoError(t, err)
		firstID := doc.ID
		firstRID := doc.RID

		updated := &model.Document{
			Key:      "manual-002",
			Title:    "Second Title",
			Source:   "test.pdf",
			Metadata: map[string]interface{}{"revision": 2},
		}
		err = documentsDbHandler.UpsertDocument(ctx, updated)
		assert.NoError(t, err, "Expected Upsert of existing key to not return an error")
		assert.Equal(t, firstID, updated.ID, "Expected ID to be stable across upserts")
		assert.Equal(t, firstRID, updated.RID, "Expected RID to be stable across upserts")
		assert.Equal(t, "Second Title", updated.Title, "Expected title to be updated")

		// Cleanup
		documentsDbHandler.DeleteDocument(ctx, doc.Key)
	})
}

func TestDocumentsGet(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	doc := &model.Document{
		Key:      "manual-get",
		Title:    "Test Document",
		Source:   "test.pdf",
		Metadata: map[string]interface{}{"key": "value"},
	}
	err = documentsDbHandler.UpsertDocument(ctx, doc)
	require.NoError(t, err)

	retrievedDoc, err := documentsDbHandler.SelectDocument(ctx, doc.Key)
	assert.NoError(t, err, "Expected Get to not return an error")
	assert.NotNil(t, retrievedDoc, "Expected Get to return a non-nil document")
	assert.Equal(t, doc.RID, retrievedDoc.RID, "Expected document RIDs to match")
	assert.Equal(t, doc.Title, retrievedDoc.Title, "Expected titles to match")
	assert.Equal(t, doc.Source, retrievedDoc.Source, "Expected sources to match")

	// Cleanup
	documentsDbHandler.DeleteDocument(ctx, doc.Key)
}

func TestDocumentsGetAll(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	docCount := 5
	docs := make([]*model.Document, docCount)
	for i := 0; i < docCount; i++ {
		docs[i] = &model.Document{
			Key:      "manual-all-" + string(rune('A'+i)),
			Title:    "Test Document " + string(rune('A'+i)),
			Source:   "test.pdf",
			Metadata: map[string]interface{}{},
		}
		err = documentsDbHandler.UpsertDocument(ctx, docs[i])
		require.NoError(t, err)
	}

	retrievedDocs, err := documentsDbHandler.SelectAllDocuments(ctx, nil, 10)
	assert.NoError(t, err, "Expected SelectAllDocuments to not return an error")
	assert.GreaterOrEqual(t, len(retrievedDocs), docCount, "Expected to retrieve at least the inserted documents")

	pageLength := 3
	paginatedDocs, err := documentsDbHandler.SelectAllDocuments(ctx, nil, pageLength)
	assert.NoError(t, err, "Expected SelectAllDocuments to not return an error")
	assert.LessOrEqual(t, len(paginatedDocs), pageLength, "Expected at most pageLength documents")

	// Cleanup
	for _, doc := range docs {
		documentsDbHandler.DeleteDocument(ctx, doc.Key)
	}
}

func TestDocumentsDelete(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	doc := &model.Document{
		Key:      "manual-delete",
		Title:    "Test Document",
		Source:   "test.pdf",
		Metadata: map[string]interface{}{},
	}
	err = documentsDbHandler.UpsertDocument(ctx, doc)
	require.NoError(t, err)

	err = documentsDbHandler.DeleteDocument(ctx, doc.Key)
	assert.NoError(t, err, "Expected Delete to not return an error")

	_, err = documentsDbHandler.SelectDocument(ctx, doc.Key)
	assert.Error(t, err, "Expected Get of deleted document to return an error")
}
