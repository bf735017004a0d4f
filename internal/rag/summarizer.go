package rag

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"doclens/internal/domain"
	"doclens/internal/session"
)

// summaryWorkers bounds how many sibling group summaries run concurrently
// within one reduction level.
const summaryWorkers = 4

// summaryUnit is one node of the reduction: its text and the contiguous
// chunk range it covers.
type summaryUnit struct {
	text  string
	first int
	last  int
}

// SummarizeOptions tune one summarization run. Zero values fall back to the
// session configuration.
type SummarizeOptions struct {
	// MaxChunks truncates the document's chunk sequence before grouping.
	// Truncation rather than sampling, so the summary covers a contiguous
	// prefix. Zero means the whole document.
	MaxChunks int
	// GroupSize is the most chunks (or child summaries) absorbed by one
	// generation call.
	GroupSize int
}

// Summarize produces one coherent summary of the whole document via
// map-reduce: contiguous groups of at most GroupSize units are summarized
// independently, then the level's summaries become the next level's input,
// until a single node remains. Group order always follows document order in
// the assembled output, no matter how concurrent calls complete. Any failed
// group aborts the run.
func (s *Service) Summarize(ctx context.Context, documentID string, state *session.State, opts SummarizeOptions) (string, error) {
	groupSize := opts.GroupSize
	if groupSize == 0 {
		groupSize = state.Config.GroupSize
	}
	if groupSize < 2 {
		return "", &domain.ConfigError{Param: "group size", Reason: "must be at least 2"}
	}
	if opts.MaxChunks < 0 {
		return "", &domain.ConfigError{Param: "max chunks", Reason: "must not be negative"}
	}

	collection := state.Config.Collection
	chunks, err := s.index.DocumentChunks(ctx, collection, documentID)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		docs, derr := s.index.Documents(ctx, collection)
		if derr != nil {
			return "", derr
		}
		return "", &domain.NotFoundError{Kind: "document", Name: documentID, Available: docs}
	}
	if opts.MaxChunks > 0 && len(chunks) > opts.MaxChunks {
		chunks = chunks[:opts.MaxChunks]
	}

	units := make([]summaryUnit, len(chunks))
	for i, ch := range chunks {
		units[i] = summaryUnit{text: ch.Text, first: ch.Index, last: ch.Index}
	}

	for level := 0; ; level++ {
		groups := partition(units, groupSize)
		next := make([]summaryUnit, len(groups))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(summaryWorkers)
		for gi, group := range groups {
			g.Go(func() error {
				prompt := groupPrompt(documentID, level, group)
				text, genErr := s.generator.Generate(gctx, prompt)
				if genErr != nil {
					return &domain.SummaryError{
						Level:      level,
						Group:      gi,
						FirstChunk: group[0].first,
						LastChunk:  group[len(group)-1].last,
						Err:        genErr,
					}
				}
				// written by group index, so document order survives
				// out-of-order completion
				next[gi] = summaryUnit{
					text:  text,
					first: group[0].first,
					last:  group[len(group)-1].last,
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}

		units = next
		if len(units) == 1 {
			return units[0].text, nil
		}
	}
}

// partition splits units into contiguous groups of at most size elements.
// The last group may be smaller, never empty.
func partition(units []summaryUnit, size int) [][]summaryUnit {
	groups := make([][]summaryUnit, 0, (len(units)+size-1)/size)
	for start := 0; start < len(units); start += size {
		end := start + size
		if end > len(units) {
			end = len(units)
		}
		groups = append(groups, units[start:end])
	}
	return groups
}

// groupPrompt builds the generation prompt for one group. Level 0 works on
// raw document excerpts; higher levels synthesize the previous level's
// summaries.
func groupPrompt(documentID string, level int, group []summaryUnit) string {
	texts := make([]string, len(group))
	for i, u := range group {
		texts[i] = u.text
	}
	joined := strings.Join(texts, "\n\n---\n\n")

	if level == 0 {
		return fmt.Sprintf(
			"Provide a concise summary of the following excerpts from the document %q. The excerpts are consecutive and in order.\n\n---\n%s\n---\n\nSummary:\n",
			documentID, joined)
	}
	return fmt.Sprintf(
		"The following are summaries of consecutive sections of the document %q.\nSynthesize them into a single, coherent summary that flows well and captures the main points.\n\nSection summaries:\n---\n%s\n---\n\nOverall summary of %q:\n",
		documentID, joined, documentID)
}
