package model

import "fmt"

// ChunkerConfig holds the token thresholds for adaptive section chunking.
// MinTokens is advisory: a trailing under-sized chunk is still emitted, and
// no section is ever forced to merge across the large-section boundary.
type ChunkerConfig struct {
	MinTokens             int `json:"min_tokens"`
	MaxTokens             int `json:"max_tokens"`
	LargeSectionThreshold int `json:"large_section_threshold"`
}

// DefaultChunkerConfig returns the standard thresholds for dense prose.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		MinTokens:             800,
		MaxTokens:             1800,
		LargeSectionThreshold: 1200,
	}
}

// Validate checks the threshold ordering. A violation is a configuration
// error raised before any section is processed, never per-document.
func (c ChunkerConfig) Validate() error {
	if c.MinTokens <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("min tokens must be positive, got %d", c.MinTokens)}
	}
	if c.MinTokens >= c.LargeSectionThreshold {
		return &ConfigurationError{Reason: fmt.Sprintf("min tokens (%d) must be below large section threshold (%d)", c.MinTokens, c.LargeSectionThreshold)}
	}
	if c.LargeSectionThreshold > c.MaxTokens {
		return &ConfigurationError{Reason: fmt.Sprintf("large section threshold (%d) must not exceed max tokens (%d)", c.LargeSectionThreshold, c.MaxTokens)}
	}
	return nil
}

// QueryConfig represents configuration for a retrieval query.
type QueryConfig struct {
	// Vector search parameters
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`

	// Document filtering
	DocumentKeys []string `json:"document_keys,omitempty"`

	// Heading boost weight for section-aware reranking
	BoostWeight float64 `json:"boost_weight"`
}

// DefaultQueryConfig returns a sensible default configuration.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:                5,
		SimilarityThreshold: 0.0,
		BoostWeight:         0.3,
	}
}
