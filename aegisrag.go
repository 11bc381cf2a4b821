package aegisrag

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/klapom/AEGIS-Rag-sub009/core/graph"
	"github.com/klapom/AEGIS-Rag-sub009/core/ingest"
	"github.com/klapom/AEGIS-Rag-sub009/core/pipeline"
	"github.com/klapom/AEGIS-Rag-sub009/core/retrieval"
	"github.com/klapom/AEGIS-Rag-sub009/database"
	"github.com/klapom/AEGIS-Rag-sub009/helper"
	"github.com/klapom/AEGIS-Rag-sub009/model"
	loadSql "github.com/klapom/AEGIS-Rag-sub009/sql"
)

// Indexer provides a unified interface to section-aware ingestion and
// retrieval: block extraction, adaptive chunking, vector indexing, graph
// provenance and heading-boosted search.
type Indexer struct {
	DB         *helper.Database
	Documents  *database.DocumentsDBHandler
	Sections   *database.SectionsDBHandler
	Chunks     *database.ChunksDBHandler
	Edges      *database.EdgesDBHandler
	Entities   *database.EntitiesDBHandler
	Pipeline   *pipeline.Pipeline
	Writer     *ingest.ChunkIndexWriter // Set once an embedder is attached
	Provenance *ingest.GraphProvenanceBuilder
	Engine     *retrieval.Engine
	// Logging
	log *slog.Logger
}

// NewIndexer creates a new Indexer instance with all handlers initialized
func NewIndexer(config *helper.DatabaseConfiguration, embeddingDim int) (*Indexer, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("aegisrag", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers in the correct order (documents first, the rest
	// reference them). force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	sections, err := database.NewSectionsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create sections handler", err)
	}

	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	edges, err := database.NewEdgesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create edges handler", err)
	}

	entities, err := database.NewEntitiesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create entities handler", err)
	}

	return &Indexer{
		DB:         db,
		Documents:  documents,
		Sections:   sections,
		Chunks:     chunks,
		Edges:      edges,
		Entities:   entities,
		Pipeline:   pipeline.NewPipeline(),
		Provenance: ingest.NewGraphProvenanceBuilder(sections, edges, logger),
		Engine:     retrieval.NewEngine(chunks),
		log:        logger,
	}, nil
}

// Close closes the database connection
func (i *Indexer) Close() error {
	if i.DB != nil && i.DB.Instance != nil {
		return i.DB.Instance.Close()
	}
	return nil
}

// SetEmbedder attaches the embedding function used for chunk indexing and
// query embedding.
func (i *Indexer) SetEmbedder(embedder pipeline.EmbedFunc) {
	i.Pipeline.SetEmbedder(embedder)
	i.Writer = ingest.NewChunkIndexWriter(i.Chunks, embedder, i.log)
}

// UseDefaultEmbedder attaches the all-MiniLM-L6-v2 embedder (384 dimensions)
func (i *Indexer) UseDefaultEmbedder() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	i.SetEmbedder(embedder)
	return nil
}

// IngestDocument runs the full ingestion for one document: extract sections
// from the block stream, merge them into chunks, upsert the document row,
// then write the vector index and the provenance graph concurrently (the
// two stores are independent and neither waits for the other).
//
// An index write failure fails the whole ingestion so the document is never
// left half-indexed. A graph failure only degrades the report; the partial
// graph is rebuilt on the next ingestion of the same document key.
func (i *Indexer) IngestDocument(ctx context.Context, doc *model.Document, blocks []model.Block, config model.ChunkerConfig) (*model.IngestReport, error) {
	if i.Writer == nil {
		return nil, helper.NewError("ingest document", fmt.Errorf("embedder not set, use SetEmbedder() first"))
	}
	if doc.Key == "" {
		return nil, helper.NewError("ingest document", fmt.Errorf("document key is empty"))
	}

	sections, chunks, err := i.Pipeline.Process(doc.Key, blocks, config)
	if err != nil {
		return nil, helper.NewError("process blocks", err)
	}

	if err := i.Documents.UpsertDocument(ctx, doc); err != nil {
		return nil, helper.NewError("upsert document", err)
	}
	for _, chunk := range chunks {
		chunk.DocumentID = doc.ID
	}

	i.log.Info("Processed document into chunks",
		slog.String("document_key", doc.Key),
		slog.Int("num_sections", len(sections)),
		slog.Int("num_chunks", len(chunks)))

	var indexReport *model.IndexReport
	var graphReport *model.GraphReport
	var graphErr error

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		report, err := i.Writer.Write(groupCtx, doc.Key, chunks)
		if err != nil {
			return err
		}
		indexReport = report
		return nil
	})
	group.Go(func() error {
		report, err := i.Provenance.Build(groupCtx, doc, sections, chunks)
		if err != nil {
			graphErr = err
			return nil
		}
		graphReport = report
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, helper.NewError("write chunk index", err)
	}

	report := &model.IngestReport{
		DocumentKey:    doc.Key,
		ChunksCreated:  len(chunks),
		ChunksIndexed:  indexReport.ChunksIndexed,
		ChunksFailed:   len(indexReport.FailedChunkIDs),
		FailedChunkIDs: indexReport.FailedChunkIDs,
	}

	if graphErr != nil {
		i.log.Warn("graph provenance build failed, continuing without it",
			slog.String("document_key", doc.Key),
			slog.String("error", graphErr.Error()))
		for _, chunk := range chunks {
			report.GraphLinksFailed += chunk.NumSections
		}
	} else {
		report.GraphLinksCreated = graphReport.LinksCreated
		report.GraphLinksFailed = graphReport.LinksFailed
	}

	return report, nil
}

// Search performs vector similarity search for a query string
func (i *Indexer) Search(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	embedding, err := i.embedQuery(query)
	if err != nil {
		return nil, err
	}
	return i.Engine.VectorRetrieve(ctx, embedding, config)
}

// SearchWithRerank performs vector search followed by the section-aware
// heading boost rerank.
func (i *Indexer) SearchWithRerank(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	embedding, err := i.embedQuery(query)
	if err != nil {
		return nil, err
	}
	return i.Engine.RetrieveAndRerank(ctx, query, embedding, config)
}

func (i *Indexer) embedQuery(query string) ([]float32, error) {
	if i.Pipeline == nil || i.Pipeline.Embedder == nil {
		return nil, helper.NewError("embed query", fmt.Errorf("embedder not set, use SetEmbedder() first"))
	}
	embedding, err := i.Pipeline.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}
	return embedding, nil
}

// Outline returns a document's sections in order with the IDs of the chunks
// each section contributed to, read from the provenance graph.
func (i *Indexer) Outline(ctx context.Context, docKey string) ([]*graph.OutlineEntry, error) {
	reader := graphReader{sections: i.Sections, edges: i.Edges}
	return graph.Outline(ctx, reader, docKey)
}

// ChangeIndexType switches the chunk embedding index between HNSW and
// IVFFlat.
func (i *Indexer) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return i.Chunks.ChangeIndexType(ctx, indexType, params)
}

// graphReader adapts the database handlers to the graph read interface
type graphReader struct {
	sections database.SectionsDBHandlerFunctions
	edges    database.EdgesDBHandlerFunctions
}

func (r graphReader) GetSectionsByDocument(ctx context.Context, docKey string) ([]*model.Section, error) {
	return r.sections.SelectSectionsByDocument(ctx, docKey)
}

func (r graphReader) GetEdgesBySection(ctx context.Context, sectionID int64) ([]*model.Edge, error) {
	return r.edges.SelectEdgesBySection(ctx, sectionID)
}
