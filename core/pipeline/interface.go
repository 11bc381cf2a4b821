package pipeline

import "github.com/klapom/AEGIS-Rag-sub009/model"

// ExtractFunc converts a parsed document's ordered block stream into sections
type ExtractFunc func(blocks []model.Block) ([]*model.Section, error)

// ChunkFunc merges sections into retrievable chunks carrying multi-section metadata
type ChunkFunc func(docKey string, sections []*model.Section, config model.ChunkerConfig) ([]*model.Chunk, error)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// Pipeline combines section extraction and adaptive chunking.
// Embedding is attached separately because it is the only stage that
// performs I/O; extraction and chunking are pure.
type Pipeline struct {
	Extractor ExtractFunc
	Chunker   ChunkFunc
	Embedder  EmbedFunc // Optional until an embedder is set
}

// NewPipeline creates a pipeline with the default extractor and chunker
func NewPipeline() *Pipeline {
	return &Pipeline{
		Extractor: ExtractSections,
		Chunker:   ChunkSections,
	}
}

// SetEmbedder sets the embedding function used at index-write time
func (p *Pipeline) SetEmbedder(embedder EmbedFunc) {
	p.Embedder = embedder
}

// Process runs blocks through extraction and chunking, returning both the
// section list and the chunk list. Both are needed downstream: the chunks go
// to the vector index, the sections and chunks together to the provenance
// graph.
func (p *Pipeline) Process(docKey string, blocks []model.Block, config model.ChunkerConfig) ([]*model.Section, []*model.Chunk, error) {
	sections, err := p.Extractor(blocks)
	if err != nil {
		return nil, nil, err
	}

	chunks, err := p.Chunker(docKey, sections, config)
	if err != nil {
		return nil, nil, err
	}

	return sections, chunks, nil
}
