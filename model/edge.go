package model

import "time"

// EdgeType represents the type of relationship in the provenance graph.
type EdgeType string

const (
	// EdgeTypeContainsChunk links a section node to a chunk that carries its
	// text. A chunk spanning three sections has three inbound edges.
	EdgeTypeContainsChunk EdgeType = "contains_chunk"
	// EdgeTypeDefines links a section node to an entity. These edges are
	// written by downstream extraction, never by the chunking core.
	EdgeTypeDefines EdgeType = "defines"
)

// Edge represents a relationship from a section node to a chunk or entity.
// Document -> Section ordering is not an edge; it lives on the section row
// itself (document_id plus order).
type Edge struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	EdgeType   EdgeType  `json:"edge_type"`
	SectionID  int64     `json:"section_id"`
	ChunkID    *string   `json:"chunk_id,omitempty"`
	EntityID   *int64    `json:"entity_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
