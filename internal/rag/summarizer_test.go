package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclens/internal/domain"
)

func chunkedIndex(documentID string, n int) *cannedIndex {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			DocumentID: documentID,
			Index:      i,
			Text:       fmt.Sprintf("<c%d>", i),
		}
	}
	return &cannedIndex{
		documents: []string{documentID},
		count:     uint64(n),
		chunks:    map[string][]domain.Chunk{documentID: chunks},
	}
}

// echoGenerator returns the body between the prompt's --- markers, so leaf
// markers like <c3> survive every reduction level and the final summary
// reveals which chunks fed it and in what order.
func echoGenerator() *fakeGenerator {
	return &fakeGenerator{respond: func(prompt string) (string, error) {
		start := strings.Index(prompt, "---\n")
		end := strings.LastIndex(prompt, "\n---")
		return prompt[start+4 : end], nil
	}}
}

func TestSummarizeSingleLevelWhenChunksFitOneGroup(t *testing.T) {
	gen := echoGenerator()
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 4))

	out, err := svc.Summarize(context.Background(), "doc.txt", testState(), SummarizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.callCount())
	for i := 0; i < 4; i++ {
		assert.Contains(t, out, fmt.Sprintf("<c%d>", i))
	}
}

func TestSummarizeLevelAndCallCounts(t *testing.T) {
	// 250 chunks with groups of 10: 25 leaf calls, then 3, then 1.
	gen := echoGenerator()
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("big.txt", 250))

	_, err := svc.Summarize(context.Background(), "big.txt", testState(), SummarizeOptions{GroupSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25+3+1, gen.callCount())
}

func TestSummarizePreservesDocumentOrder(t *testing.T) {
	gen := echoGenerator()
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 23))

	out, err := svc.Summarize(context.Background(), "doc.txt", testState(), SummarizeOptions{GroupSize: 3})
	require.NoError(t, err)

	prev := -1
	for i := 0; i < 23; i++ {
		pos := strings.Index(out, fmt.Sprintf("<c%d>", i))
		require.NotEqual(t, -1, pos, "chunk %d missing from summary", i)
		assert.Greater(t, pos, prev, "chunk %d out of order", i)
		prev = pos
	}
}

func TestSummarizeMaxChunksTruncates(t *testing.T) {
	gen := echoGenerator()
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 40))

	out, err := svc.Summarize(context.Background(), "doc.txt", testState(), SummarizeOptions{MaxChunks: 5, GroupSize: 10})
	require.NoError(t, err)
	assert.Contains(t, out, "<c4>")
	assert.NotContains(t, out, "<c5>")
	assert.Equal(t, 1, gen.callCount())
}

func TestSummarizeGroupFailureReportsRange(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "<c7>") {
			return "", &domain.ServiceError{Service: "generation", Err: fmt.Errorf("boom")}
		}
		return "fine", nil
	}}
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, gen, chunkedIndex("doc.txt", 12))

	_, err := svc.Summarize(context.Background(), "doc.txt", testState(), SummarizeOptions{GroupSize: 4})
	require.Error(t, err)

	var se *domain.SummaryError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Level)
	assert.Equal(t, 1, se.Group)
	assert.Equal(t, 4, se.FirstChunk)
	assert.Equal(t, 7, se.LastChunk)
}

func TestSummarizeGroupSizeTooSmall(t *testing.T) {
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, &fakeGenerator{}, chunkedIndex("doc.txt", 4))

	_, err := svc.Summarize(context.Background(), "doc.txt", testState(), SummarizeOptions{GroupSize: 1})
	var ce *domain.ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestSummarizeNegativeMaxChunks(t *testing.T) {
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, &fakeGenerator{}, chunkedIndex("doc.txt", 4))

	_, err := svc.Summarize(context.Background(), "doc.txt", testState(), SummarizeOptions{MaxChunks: -1})
	var ce *domain.ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestSummarizeUnknownDocument(t *testing.T) {
	index := chunkedIndex("doc.txt", 4)
	svc := New(&fakeExtractor{}, &fakeEmbedder{}, &fakeGenerator{}, index)

	_, err := svc.Summarize(context.Background(), "nope.txt", testState(), SummarizeOptions{})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope.txt", nf.Name)
	assert.Equal(t, []string{"doc.txt"}, nf.Available)
}
