package domain

import "context"

// Extractor turns a document file into plain text.
type Extractor interface {
	Extract(path string) (string, error)
}

// Embedder converts a batch of texts into vectors, one per input,
// order-preserving.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces text from a prompt via a language model. Output may be
// stochastic; callers only rely on the prompt they supplied.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorIndex persists chunk vectors and supports similarity search within a
// named collection.
type VectorIndex interface {
	// Ensure creates the collection for the given vector dimension if it
	// does not exist yet.
	Ensure(ctx context.Context, collection string, dimension int) error
	// Upsert stores chunks with their vectors. Chunk keys are stable, so
	// re-loading the same document overwrites rather than duplicates.
	Upsert(ctx context.Context, collection string, chunks []Chunk, vectors [][]float32) error
	// Query returns up to topK chunks ranked by similarity. A non-empty
	// documentID restricts results to that document.
	Query(ctx context.Context, collection string, vector []float32, topK int, documentID string) ([]ScoredChunk, error)
	// DocumentChunks returns every chunk of one document ordered by index.
	DocumentChunks(ctx context.Context, collection, documentID string) ([]Chunk, error)
	// Documents lists the document ids present in the collection.
	Documents(ctx context.Context, collection string) ([]string, error)
	// Count reports the number of indexed chunks in the collection.
	Count(ctx context.Context, collection string) (uint64, error)
	// Drop deletes the collection and everything in it.
	Drop(ctx context.Context, collection string) error
}
