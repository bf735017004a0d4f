package rag

import (
	"context"
	"fmt"
	"strings"

	"doclens/internal/domain"
	"doclens/internal/session"
)

// Ask retrieves context for the question, builds the answer prompt and makes
// a single generation call. On success the new turn replaces the session's
// one-slot memory; on any failure memory is left exactly as it was.
//
// When no explicit persona is given, the session's default persona applies.
func (s *Service) Ask(ctx context.Context, question string, scope domain.Scope, persona string, state *session.State) (string, *domain.RetrievalContext, error) {
	rc, err := s.Retrieve(ctx, question, scope, state.Config.TopK)
	if err != nil {
		return "", nil, err
	}
	if persona == "" {
		persona = state.Config.Persona
	}
	prompt := buildAnswerPrompt(question, rc, persona, state.Memory)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", nil, err
	}
	state.RecordTurn(question, answer)
	return answer, rc, nil
}

// buildAnswerPrompt assembles persona instruction, the prior turn, the
// retrieved chunks in ranked order with source citations, and the question.
// The template is fixed for a given input even though the model's output is
// not.
func buildAnswerPrompt(question string, rc *domain.RetrievalContext, persona string, memory *domain.Turn) string {
	var b strings.Builder
	b.WriteString("You are doclens, an expert assistant. Answer the user's question based solely on the provided context.\n")
	b.WriteString("If the context does not contain the information needed, say that you cannot answer from the loaded documents. Do not answer from general knowledge.\n")
	if persona != "" {
		fmt.Fprintf(&b, "Answer from the perspective of %s.\n", persona)
	}
	b.WriteString("Be concise and answer the question directly.\n")

	if memory != nil {
		b.WriteString("\nPrevious exchange:\n")
		fmt.Fprintf(&b, "Q: %s\n", memory.Question)
		fmt.Fprintf(&b, "A: %s\n", memory.Answer)
	}

	b.WriteString("\nContext:\n---\n")
	for _, r := range rc.Results {
		fmt.Fprintf(&b, "[%s #%d] %s\n\n", r.Chunk.DocumentID, r.Chunk.Index, r.Chunk.Text)
	}
	b.WriteString("---\n")

	fmt.Fprintf(&b, "\nQuestion: %s\n\nAnswer:\n", question)
	return b.String()
}
