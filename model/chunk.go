package model

import "time"

// Chunk is the retrievable unit: the text of one or more sections plus the
// multi-section metadata that gives it precise provenance. A chunk never
// spans sections from more than one document, and its parallel lists
// (SectionHeadings/SectionPages/SectionBBoxes) always have NumSections
// entries. Chunks are immutable after creation; re-ingestion of a document
// deletes and recreates all of its chunks.
type Chunk struct {
	ChunkID         string        `json:"chunk_id"`
	DocumentID      int64         `json:"document_id,omitempty"`
	DocumentKey     string        `json:"document_key"`
	Content         string        `json:"content"`
	TokenCount      int           `json:"token_count"`
	SectionHeadings []string      `json:"section_headings"`
	SectionPages    []int         `json:"section_pages"`
	SectionBBoxes   BoundingBoxes `json:"section_bboxes"`
	PrimarySection  string        `json:"primary_section"`
	NumSections     int           `json:"num_sections"`
	Embedding       []float32     `json:"embedding,omitempty"`
	CreatedAt       time.Time     `json:"created_at,omitempty"`
	// Results
	Similarity *float64 `json:"similarity,omitempty"`
}
