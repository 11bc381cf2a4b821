package pipeline

import (
	"fmt"
	"strings"

	"github.com/klapom/AEGIS-Rag-sub009/model"
)

// ChunkSections merges an ordered section list into chunks using the
// adaptive token-threshold rules from the chunker config:
//
//   - a section larger than LargeSectionThreshold always stands alone,
//   - otherwise sections merge left to right while the accumulated total
//     stays within MaxTokens,
//   - the trailing accumulator is always emitted, even below MinTokens.
//
// MinTokens is advisory only. No section is ever split or dropped, so the
// summed token counts of the output equal those of the input and section
// order is preserved across chunks.
//
// Chunk IDs are assigned as "<docKey>:<seq>" so that concurrent documents
// never share an ID sequence.
func ChunkSections(docKey string, sections []*model.Section, config model.ChunkerConfig) ([]*model.Chunk, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var chunks []*model.Chunk
	var current []*model.Section
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, buildChunk(docKey, len(chunks), current))
		current = nil
		currentTokens = 0
	}

	for _, section := range sections {
		switch {
		case section.TokenCount > config.LargeSectionThreshold:
			// A section this large carries a clean signal on its own and
			// must not be diluted by merging.
			flush()
			current = []*model.Section{section}
			flush()
		case currentTokens+section.TokenCount <= config.MaxTokens:
			current = append(current, section)
			currentTokens += section.TokenCount
		default:
			flush()
			current = []*model.Section{section}
			currentTokens = section.TokenCount
		}
	}

	flush()

	return chunks, nil
}

// buildChunk constructs one chunk from the accumulated sections. The chunk
// text joins each section's heading and body with blank lines; the token
// count is the sum of the constituents so that no tokens are lost or
// invented relative to the input sections.
func buildChunk(docKey string, seq int, sections []*model.Section) *model.Chunk {
	parts := make([]string, 0, len(sections))
	headings := make([]string, 0, len(sections))
	pages := make([]int, 0, len(sections))
	bboxes := make(model.BoundingBoxes, 0, len(sections))
	tokenCount := 0

	for _, section := range sections {
		part := section.Heading + "\n\n" + section.Text
		parts = append(parts, strings.TrimSpace(part))
		headings = append(headings, section.Heading)
		pages = append(pages, section.PageNo)
		bboxes = append(bboxes, section.BBox)
		tokenCount += section.TokenCount
	}

	return &model.Chunk{
		ChunkID:         fmt.Sprintf("%s:%d", docKey, seq),
		DocumentKey:     docKey,
		Content:         strings.Join(parts, "\n\n"),
		TokenCount:      tokenCount,
		SectionHeadings: headings,
		SectionPages:    pages,
		SectionBBoxes:   bboxes,
		PrimarySection:  headings[0],
		NumSections:     len(headings),
	}
}
