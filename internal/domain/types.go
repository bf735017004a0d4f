package domain

import (
	"fmt"
	"time"
)

// Document describes a file loaded into a collection. Created at load time,
// never mutated afterwards; removed only by a collection reset.
type Document struct {
	ID       string
	Path     string
	LoadedAt time.Time
	Chunks   int
}

// Chunk is the unit of embedding and retrieval: a bounded slice of one
// document's text, totally ordered by Index within the document. Start and
// End are rune offsets into the source text.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
	Start      int
	End        int
}

// Key returns the chunk's collection-unique identifier.
func (c Chunk) Key() string {
	return fmt.Sprintf("%s_%d", c.DocumentID, c.Index)
}

// ScoredChunk is a chunk paired with the similarity score the index
// returned for it.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// Scope is the subset of indexed chunks an operation may draw from: a whole
// collection, narrowed to one document when DocumentID is set.
type Scope struct {
	Collection string
	DocumentID string
}

func (s Scope) String() string {
	if s.DocumentID != "" {
		return fmt.Sprintf("document %q in collection %q", s.DocumentID, s.Collection)
	}
	return fmt.Sprintf("collection %q", s.Collection)
}

// RetrievalContext is the ranked set of chunks assembled for one query.
// Ephemeral; never persisted.
type RetrievalContext struct {
	Query   string
	Scope   Scope
	Results []ScoredChunk
}

// Turn is one question/answer exchange. Session memory holds at most one.
type Turn struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}
