package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclens/internal/domain"
)

func TestSuggestQuestionsStripsListPrefixes(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "1. What is chunking?\n- Why use overlap?\n• How are scores ranked?\n\n2) Does order matter?", nil
	}}
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 3))

	qs, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs"}, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"What is chunking?",
		"Why use overlap?",
		"How are scores ranked?",
		"Does order matter?",
	}, qs)
}

func TestSuggestQuestionsCapsAtRequestedCount(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "q one\nq two\nq three\nq four", nil
	}}
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 3))

	qs, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"q one", "q two"}, qs)
}

func TestSuggestQuestionsReturnsPartialList(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "only one question\nonly one question", nil
	}}
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 3))

	qs, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs"}, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"only one question"}, qs)
}

func TestSuggestQuestionsSamplesAcrossDocument(t *testing.T) {
	gen := &fakeGenerator{}
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 40))

	_, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs", DocumentID: "doc.txt"}, 3)
	require.NoError(t, err)

	prompt := gen.lastPrompt()
	assert.Contains(t, prompt, "<c0>")
	assert.Contains(t, prompt, "<c35>")
	assert.Equal(t, suggestSampleSize, strings.Count(prompt, "<c"))
}

func TestSuggestQuestionsShortScopeUsesAllChunks(t *testing.T) {
	gen := &fakeGenerator{}
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 3))

	_, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs"}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(gen.lastPrompt(), "<c"))
}

func TestSuggestQuestionsRequestedCountInPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 3))

	_, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs"}, 7)
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt(), "exactly 7")
}

func TestSuggestQuestionsInvalidCount(t *testing.T) {
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, &fakeGenerator{}, chunkedIndex("doc.txt", 3))

	_, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs"}, 0)
	var ce *domain.ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestSuggestQuestionsUnknownDocument(t *testing.T) {
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, &fakeGenerator{}, chunkedIndex("doc.txt", 3))

	_, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs", DocumentID: "missing.txt"}, 3)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"doc.txt"}, nf.Available)
}

func TestSuggestQuestionsEmptyCollection(t *testing.T) {
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, &fakeGenerator{}, &cannedIndex{})

	_, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs"}, 3)
	assert.ErrorIs(t, err, domain.ErrEmptyScope)
}

func TestSuggestQuestionsGeneratorFailure(t *testing.T) {
	genErr := errors.New("model offline")
	gen := &fakeGenerator{respond: func(string) (string, error) { return "", fmt.Errorf("generate: %w", genErr) }}
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 3))

	_, err := svc.SuggestQuestions(context.Background(), domain.Scope{Collection: "docs"}, 3)
	assert.ErrorIs(t, err, genErr)
}
