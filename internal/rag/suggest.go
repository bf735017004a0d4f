package rag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"doclens/internal/domain"
)

// suggestSampleSize bounds how many chunks feed the suggestion prompt,
// independent of how many questions are requested.
const suggestSampleSize = 8

var listPrefixRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// SuggestQuestions samples representative chunks from the scope, evenly
// spaced by position rather than random, and asks the generator for num
// questions.
// If the model produces fewer distinct lines, the partial list is returned
// as-is; padding would invent questions and failing would be worse.
func (s *Service) SuggestQuestions(ctx context.Context, scope domain.Scope, num int) ([]string, error) {
	if num < 1 {
		return nil, &domain.ConfigError{Param: "num", Reason: "must be at least 1"}
	}

	chunks, err := s.scopeChunks(ctx, scope)
	if err != nil {
		return nil, err
	}
	sample := evenlySpaced(chunks, suggestSampleSize)

	var b strings.Builder
	fmt.Fprintf(&b, "Below are excerpts from a document collection. Propose exactly %d insightful questions a reader could ask about this material.\n", num)
	b.WriteString("Write one question per line with no numbering or bullets.\n\nExcerpts:\n---\n")
	for _, ch := range sample {
		fmt.Fprintf(&b, "%s\n\n", ch.Text)
	}
	b.WriteString("---\n\nQuestions:\n")

	raw, err := s.generator.Generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var questions []string
	seen := map[string]struct{}{}
	for _, line := range strings.Split(raw, "\n") {
		q := strings.TrimSpace(listPrefixRe.ReplaceAllString(line, ""))
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		questions = append(questions, q)
		if len(questions) == num {
			break
		}
	}
	return questions, nil
}

// scopeChunks collects the ordered chunks the scope covers: one document's
// chunks, or every document's chunks in collection order.
func (s *Service) scopeChunks(ctx context.Context, scope domain.Scope) ([]domain.Chunk, error) {
	if scope.DocumentID != "" {
		chunks, err := s.index.DocumentChunks(ctx, scope.Collection, scope.DocumentID)
		if err != nil {
			return nil, err
		}
		if len(chunks) == 0 {
			docs, derr := s.index.Documents(ctx, scope.Collection)
			if derr != nil {
				return nil, derr
			}
			return nil, &domain.NotFoundError{Kind: "document", Name: scope.DocumentID, Available: docs}
		}
		return chunks, nil
	}

	docs, err := s.index.Documents(ctx, scope.Collection)
	if err != nil {
		return nil, err
	}
	var all []domain.Chunk
	for _, id := range docs {
		chunks, err := s.index.DocumentChunks(ctx, scope.Collection, id)
		if err != nil {
			return nil, err
		}
		all = append(all, chunks...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: %w", scope, domain.ErrEmptyScope)
	}
	return all, nil
}

// evenlySpaced picks up to max chunks spread across the sequence, always
// including the first one.
func evenlySpaced(chunks []domain.Chunk, max int) []domain.Chunk {
	if len(chunks) <= max {
		return chunks
	}
	sample := make([]domain.Chunk, 0, max)
	for i := 0; i < max; i++ {
		sample = append(sample, chunks[i*len(chunks)/max])
	}
	return sample
}
