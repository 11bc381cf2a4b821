package graph

import (
	"context"

	"github.com/klapom/AEGIS-Rag-sub009/model"
)

// GraphDB defines the read side of the provenance graph
type GraphDB interface {
	GetSectionsByDocument(ctx context.Context, docKey string) ([]*model.Section, error)
	GetEdgesBySection(ctx context.Context, sectionID int64) ([]*model.Edge, error)
}

// OutlineEntry is one section of a document outline with the chunks that
// carry its text
type OutlineEntry struct {
	Section  *model.Section
	ChunkIDs []string
}

// Outline walks a document's provenance graph and returns its sections in
// document order, each with the IDs of the chunks it contributed to. A
// section whose edges cannot be read is returned without chunk references
// rather than failing the whole outline; the graph is best-effort by
// construction and may be partial.
func Outline(ctx context.Context, db GraphDB, docKey string) ([]*OutlineEntry, error) {
	sections, err := db.GetSectionsByDocument(ctx, docKey)
	if err != nil {
		return nil, err
	}

	entries := make([]*OutlineEntry, 0, len(sections))
	for _, section := range sections {
		entry := &OutlineEntry{Section: section}

		edges, err := db.GetEdgesBySection(ctx, section.ID)
		if err == nil {
			for _, edge := range edges {
				if edge.EdgeType != model.EdgeTypeContainsChunk || edge.ChunkID == nil {
					continue
				}
				entry.ChunkIDs = append(entry.ChunkIDs, *edge.ChunkID)
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
