package ingest

import (
	"context"
	"log/slog"

	"github.com/klapom/AEGIS-Rag-sub009/model"
)

// SectionStore is the port to the graph store's section nodes
type SectionStore interface {
	InsertSection(ctx context.Context, section *model.Section) error
	DeleteSectionsByDocument(ctx context.Context, documentID int64) error
}

// EdgeStore is the port to the graph store's provenance edges
type EdgeStore interface {
	InsertEdge(ctx context.Context, edge *model.Edge) error
}

// GraphProvenanceBuilder persists the Document, Section and Chunk hierarchy
// into the graph store. Chunk nodes are thin references; the chunk text
// lives only in the vector index.
//
// Graph provenance is enrichment, not primary storage: individual writes
// that fail are logged, counted and skipped, and the partial graph is
// reconciled on the next re-ingestion of the document.
type GraphProvenanceBuilder struct {
	sections SectionStore
	edges    EdgeStore
	logger   *slog.Logger
}

// NewGraphProvenanceBuilder creates a builder over the given stores
func NewGraphProvenanceBuilder(sections SectionStore, edges EdgeStore, logger *slog.Logger) *GraphProvenanceBuilder {
	return &GraphProvenanceBuilder{
		sections: sections,
		edges:    edges,
		logger:   logger,
	}
}

// Build replaces the document's section nodes and links every chunk to each
// section it spans, one edge per heading entry the chunk carries.
//
// When a document repeats a heading string, each heading occurrence in the
// chunk stream consumes the first unconsumed section node with that heading
// in document order. Sections contribute to exactly one chunk and chunks
// list their headings in document order, so the cursor pairs every edge
// with the section that actually produced the text.
func (b *GraphProvenanceBuilder) Build(ctx context.Context, doc *model.Document, sections []*model.Section, chunks []*model.Chunk) (*model.GraphReport, error) {
	err := b.sections.DeleteSectionsByDocument(ctx, doc.ID)
	if err != nil {
		return nil, &model.GraphWriteError{DocumentKey: doc.Key, Err: err}
	}

	report := &model.GraphReport{}

	byHeading := make(map[string][]*model.Section)
	for i, section := range sections {
		section.DocumentID = doc.ID
		section.Order = i

		err := b.sections.InsertSection(ctx, section)
		if err != nil {
			b.logger.Warn("section node write failed, chunk links to it will be skipped",
				slog.String("document_key", doc.Key),
				slog.String("heading", section.Heading),
				slog.Int("order", i),
				slog.String("error", err.Error()))
			report.LinksFailed++
			continue
		}
		report.SectionsCreated++
		byHeading[section.Heading] = append(byHeading[section.Heading], section)
	}

	cursor := make(map[string]int)
	for _, chunk := range chunks {
		for _, heading := range chunk.SectionHeadings {
			section := nextSection(byHeading, cursor, heading)
			if section == nil {
				b.logger.Warn("no section node for chunk heading",
					slog.String("document_key", doc.Key),
					slog.String("chunk_id", chunk.ChunkID),
					slog.String("heading", heading))
				report.LinksFailed++
				continue
			}

			edge := &model.Edge{
				DocumentID: doc.ID,
				EdgeType:   model.EdgeTypeContainsChunk,
				SectionID:  section.ID,
				ChunkID:    &chunk.ChunkID,
			}
			err := b.edges.InsertEdge(ctx, edge)
			if err != nil {
				b.logger.Warn("chunk edge write failed",
					slog.String("document_key", doc.Key),
					slog.String("chunk_id", chunk.ChunkID),
					slog.String("heading", heading),
					slog.String("error", err.Error()))
				report.LinksFailed++
				continue
			}
			report.LinksCreated++
		}
	}

	return report, nil
}

// nextSection returns the first unconsumed section with the given heading
// and advances the per-heading cursor.
func nextSection(byHeading map[string][]*model.Section, cursor map[string]int, heading string) *model.Section {
	candidates := byHeading[heading]
	idx := cursor[heading]
	if idx >= len(candidates) {
		return nil
	}
	cursor[heading] = idx + 1
	return candidates[idx]
}
