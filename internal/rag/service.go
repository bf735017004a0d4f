package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"doclens/internal/chunker"
	"doclens/internal/domain"
	"doclens/internal/session"
)

// Service wires the collaborators together: extraction, chunking, embedding,
// vector search and generation. It holds no mutable state of its own; session
// state is passed in and out of the operations that touch it.
type Service struct {
	extractor domain.Extractor
	embedder  domain.Embedder
	generator domain.Generator
	index     domain.VectorIndex
}

// New builds a service from the injected collaborators.
func New(extractor domain.Extractor, embedder domain.Embedder, generator domain.Generator, index domain.VectorIndex) *Service {
	return &Service{extractor: extractor, embedder: embedder, generator: generator, index: index}
}

// LoadDocument extracts the file's text, chunks it with the configured window,
// embeds the chunks and upserts them into the collection. The document id is
// the base filename, so re-loading the same file overwrites its chunks.
func (s *Service) LoadDocument(ctx context.Context, path, collection string, chunkSize, overlap int) (*domain.Document, error) {
	text, err := s.extractor.Extract(path)
	if err != nil {
		return nil, err
	}
	ck, err := chunker.New(chunkSize, overlap)
	if err != nil {
		return nil, err
	}
	documentID := filepath.Base(path)
	chunks := ck.Chunk(documentID, text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s contains no text", path)
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, &domain.ServiceError{
			Service: "embedding",
			Err:     fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks)),
		}
	}

	if err := s.index.Ensure(ctx, collection, len(vectors[0])); err != nil {
		return nil, err
	}
	if err := s.index.Upsert(ctx, collection, chunks, vectors); err != nil {
		return nil, err
	}
	return &domain.Document{
		ID:       documentID,
		Path:     path,
		LoadedAt: time.Now(),
		Chunks:   len(chunks),
	}, nil
}

// ListDocuments returns the document ids indexed in the collection.
func (s *Service) ListDocuments(ctx context.Context, collection string) ([]string, error) {
	return s.index.Documents(ctx, collection)
}

// ChunkCount reports how many chunks the collection holds.
func (s *Service) ChunkCount(ctx context.Context, collection string) (uint64, error) {
	return s.index.Count(ctx, collection)
}

// SetFocus points the session at one document after verifying it exists in
// the collection. On failure the prior focus is left unchanged.
func (s *Service) SetFocus(ctx context.Context, state *session.State, documentID string) error {
	docs, err := s.index.Documents(ctx, state.Config.Collection)
	if err != nil {
		return err
	}
	for _, id := range docs {
		if id == documentID {
			state.SetFocus(documentID)
			return nil
		}
	}
	return &domain.NotFoundError{Kind: "document", Name: documentID, Available: docs}
}

// ResetCollection drops the vector collection. A session focus pointing into
// the dropped collection is cleared, since its document no longer exists.
func (s *Service) ResetCollection(ctx context.Context, state *session.State, collection string) error {
	if err := s.index.Drop(ctx, collection); err != nil {
		return err
	}
	if state.Focus != "" && state.Config.Collection == collection {
		state.ClearFocus()
	}
	return nil
}
