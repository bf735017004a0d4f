package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclens/internal/domain"
	"doclens/internal/session"
	"doclens/internal/vectorstore/memory"
)

func testState() *session.State {
	return &session.State{
		Config: session.Config{
			ChunkSize:  1000,
			Overlap:    150,
			TopK:       3,
			GroupSize:  5,
			Collection: "docs",
		},
	}
}

func TestLoadDocumentChunksEmbedsAndIndexes(t *testing.T) {
	ctx := context.Background()
	index := memory.New()
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 10)
	svc := New(&fakeExtractor{text: text}, &fakeEmbedder{}, &fakeGenerator{}, index)

	doc, err := svc.LoadDocument(ctx, "/data/notes.txt", "docs", 100, 20)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.ID)
	assert.Equal(t, "/data/notes.txt", doc.Path)
	assert.Positive(t, doc.Chunks)
	assert.False(t, doc.LoadedAt.IsZero())

	count, err := index.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, uint64(doc.Chunks), count)

	chunks, err := index.DocumentChunks(ctx, "docs", "notes.txt")
	require.NoError(t, err)
	require.Len(t, chunks, doc.Chunks)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.NotEmpty(t, strings.TrimSpace(ch.Text))
	}
}

func TestLoadDocumentReloadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	index := memory.New()
	text := strings.Repeat("alpha beta gamma delta. ", 20)
	svc := New(&fakeExtractor{text: text}, &fakeEmbedder{}, &fakeGenerator{}, index)

	first, err := svc.LoadDocument(ctx, "notes.txt", "docs", 80, 10)
	require.NoError(t, err)
	second, err := svc.LoadDocument(ctx, "notes.txt", "docs", 80, 10)
	require.NoError(t, err)
	assert.Equal(t, first.Chunks, second.Chunks)

	count, err := index.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, uint64(first.Chunks), count)
}

func TestLoadDocumentPropagatesExtractorError(t *testing.T) {
	extractErr := &domain.UnsupportedFormatError{Path: "x.pdf", Ext: ".pdf"}
	svc := New(&fakeExtractor{err: extractErr}, &fakeEmbedder{}, &fakeGenerator{}, memory.New())

	_, err := svc.LoadDocument(context.Background(), "x.pdf", "docs", 100, 20)
	var ufe *domain.UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
}

func TestLoadDocumentRejectsInvalidChunking(t *testing.T) {
	svc := New(&fakeExtractor{text: "hello"}, &fakeEmbedder{}, &fakeGenerator{}, memory.New())
	_, err := svc.LoadDocument(context.Background(), "a.txt", "docs", 10, 10)
	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadDocumentEmptyText(t *testing.T) {
	svc := New(&fakeExtractor{text: "   \n "}, &fakeEmbedder{}, &fakeGenerator{}, memory.New())
	_, err := svc.LoadDocument(context.Background(), "a.txt", "docs", 100, 20)
	assert.Error(t, err)
}

func TestSetFocusValidatesDocument(t *testing.T) {
	ctx := context.Background()
	index := memory.New()
	svc := New(&fakeExtractor{text: "some document text here"}, &fakeEmbedder{}, &fakeGenerator{}, index)
	_, err := svc.LoadDocument(ctx, "report.txt", "docs", 100, 20)
	require.NoError(t, err)

	state := testState()
	require.NoError(t, svc.SetFocus(ctx, state, "report.txt"))
	assert.Equal(t, "report.txt", state.Focus)

	err = svc.SetFocus(ctx, state, "missing.txt")
	var nfe *domain.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Contains(t, nfe.Available, "report.txt")
	// prior focus unchanged on failure
	assert.Equal(t, "report.txt", state.Focus)
}

func TestResetCollectionClearsStaleFocus(t *testing.T) {
	ctx := context.Background()
	index := memory.New()
	svc := New(&fakeExtractor{text: "some document text here"}, &fakeEmbedder{}, &fakeGenerator{}, index)
	_, err := svc.LoadDocument(ctx, "report.txt", "docs", 100, 20)
	require.NoError(t, err)

	state := testState()
	require.NoError(t, svc.SetFocus(ctx, state, "report.txt"))

	require.NoError(t, svc.ResetCollection(ctx, state, "docs"))
	assert.Empty(t, state.Focus)

	count, err := index.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestResetOtherCollectionKeepsFocus(t *testing.T) {
	ctx := context.Background()
	index := memory.New()
	svc := New(&fakeExtractor{text: "some document text here"}, &fakeEmbedder{}, &fakeGenerator{}, index)
	_, err := svc.LoadDocument(ctx, "report.txt", "docs", 100, 20)
	require.NoError(t, err)

	state := testState()
	require.NoError(t, svc.SetFocus(ctx, state, "report.txt"))

	require.NoError(t, svc.ResetCollection(ctx, state, "scratch"))
	assert.Equal(t, "report.txt", state.Focus)
}
