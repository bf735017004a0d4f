package rag

import (
	"context"
	"fmt"
	"sort"

	"doclens/internal/domain"
)

// Retrieve embeds the query and returns the top-k most similar chunks within
// the scope, ranked by descending score with ties broken by ascending chunk
// index. Read-only: session state is never touched.
//
// A scope holding fewer chunks than topK yields all of them without error.
// An unknown document id fails with NotFoundError; a scope with no indexed
// chunks at all fails with ErrEmptyScope.
func (s *Service) Retrieve(ctx context.Context, query string, scope domain.Scope, topK int) (*domain.RetrievalContext, error) {
	if topK < 1 {
		return nil, &domain.ConfigError{Param: "top-k", Reason: "must be at least 1"}
	}

	if scope.DocumentID != "" {
		docs, err := s.index.Documents(ctx, scope.Collection)
		if err != nil {
			return nil, err
		}
		found := false
		for _, id := range docs {
			if id == scope.DocumentID {
				found = true
				break
			}
		}
		if !found {
			return nil, &domain.NotFoundError{Kind: "document", Name: scope.DocumentID, Available: docs}
		}
	} else {
		count, err := s.index.Count(ctx, scope.Collection)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("%s: %w", scope, domain.ErrEmptyScope)
		}
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, &domain.ServiceError{
			Service: "embedding",
			Err:     fmt.Errorf("got %d vectors for a single query", len(vectors)),
		}
	}

	results, err := s.index.Query(ctx, scope.Collection, vectors[0], topK, scope.DocumentID)
	if err != nil {
		return nil, err
	}
	// the index already ranks by score; re-sort to pin the deterministic
	// tie-break on chunk index
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Index < results[j].Chunk.Index
	})
	return &domain.RetrievalContext{Query: query, Scope: scope, Results: results}, nil
}
