package model

import "fmt"

// ParseStructureError reports a malformed block stream. It is fatal to a
// single document's chunking; the caller decides whether to fall back to a
// non-adaptive strategy or skip the document.
type ParseStructureError struct {
	BlockIndex int
	Reason     string
}

func (e *ParseStructureError) Error() string {
	return fmt.Sprintf("parse structure error at block %d: %s", e.BlockIndex, e.Reason)
}

// ConfigurationError reports an invalid threshold ordering. It is fatal at
// startup, never per-document.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// EmbeddingTransientError wraps a retryable embedding-service failure for one
// chunk. After the retry budget is exhausted the chunk is recorded as failed
// and the rest of the document continues.
type EmbeddingTransientError struct {
	ChunkID string
	Err     error
}

func (e *EmbeddingTransientError) Error() string {
	return fmt.Sprintf("embedding failed for chunk %s: %v", e.ChunkID, e.Err)
}

func (e *EmbeddingTransientError) Unwrap() error {
	return e.Err
}

// IndexWriteError reports a vector index write that exhausted its retries.
// The document's ingestion is marked failed and must be retried wholesale;
// it is never left half-indexed.
type IndexWriteError struct {
	DocumentKey string
	Err         error
}

func (e *IndexWriteError) Error() string {
	return fmt.Sprintf("index write failed for document %s: %v", e.DocumentKey, e.Err)
}

func (e *IndexWriteError) Unwrap() error {
	return e.Err
}

// GraphWriteError reports a failed provenance graph write. Graph provenance
// is enrichment, not primary storage: these are logged and skipped, and the
// partial graph is reconciled on the next re-ingestion.
type GraphWriteError struct {
	DocumentKey string
	Err         error
}

func (e *GraphWriteError) Error() string {
	return fmt.Sprintf("graph write failed for document %s: %v", e.DocumentKey, e.Err)
}

func (e *GraphWriteError) Unwrap() error {
	return e.Err
}
