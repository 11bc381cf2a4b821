package model

// RetrievalResult represents a chunk retrieved by a query. HeadingBoost is
// the section-aware score adjustment applied on top of SimilarityScore.
type RetrievalResult struct {
	Chunk           *Chunk  `json:"chunk"`
	Score           float64 `json:"score"`
	SimilarityScore float64 `json:"similarity_score"`
	HeadingBoost    float64 `json:"heading_boost"`
	RetrievalMethod string  `json:"retrieval_method"`
}

// IndexReport summarizes a vector index write for one document.
type IndexReport struct {
	ChunksIndexed  int      `json:"chunks_indexed"`
	FailedChunkIDs []string `json:"failed_chunk_ids,omitempty"`
}

// GraphReport summarizes a provenance graph build for one document.
type GraphReport struct {
	SectionsCreated int `json:"sections_created"`
	LinksCreated    int `json:"links_created"`
	LinksFailed     int `json:"links_failed"`
}

// IngestReport is the per-document ingestion summary returned to operators so
// that "chunking ran correctly" can be distinguished from "storage partially
// failed".
type IngestReport struct {
	DocumentKey       string   `json:"document_key"`
	ChunksCreated     int      `json:"chunks_created"`
	ChunksIndexed     int      `json:"chunks_indexed"`
	ChunksFailed      int      `json:"chunks_failed"`
	GraphLinksCreated int      `json:"graph_links_created"`
	GraphLinksFailed  int      `json:"graph_links_failed"`
	FailedChunkIDs    []string `json:"failed_chunk_ids,omitempty"`
}
