package model

import (
	"time"

	"github.com/google/uuid"
)

// Document represents a source document. Key is the caller-supplied document
// identifier; re-ingesting the same Key replaces all derived sections and
// chunks, so no stale provenance survives a re-index.
type Document struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Source    string    `json:"source,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
