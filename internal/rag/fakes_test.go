package rag

import (
	"context"
	"hash/fnv"
	"sync"

	"doclens/internal/domain"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeEmbedder derives a deterministic 4-dimensional vector from each text.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), texts...))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		h := fnv.New32a()
		h.Write([]byte(t))
		sum := h.Sum32()
		out[i] = []float32{
			float32(sum&0xff) + 1,
			float32((sum>>8)&0xff) + 1,
			float32((sum>>16)&0xff) + 1,
			float32((sum>>24)&0xff) + 1,
		}
	}
	return out, nil
}

// fakeGenerator answers prompts via a scripted function and records every
// prompt it saw. Safe for the summarizer's concurrent group calls.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	respond func(prompt string) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.respond == nil {
		return "generated answer", nil
	}
	return f.respond(prompt)
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// cannedIndex returns preset query results, for pinning down ranking
// behavior independent of any similarity math.
type cannedIndex struct {
	results   []domain.ScoredChunk
	documents []string
	count     uint64
	chunks    map[string][]domain.Chunk
}

func (c *cannedIndex) Ensure(context.Context, string, int) error { return nil }

func (c *cannedIndex) Upsert(context.Context, string, []domain.Chunk, [][]float32) error {
	return nil
}

func (c *cannedIndex) Query(context.Context, string, []float32, int, string) ([]domain.ScoredChunk, error) {
	return c.results, nil
}

func (c *cannedIndex) DocumentChunks(_ context.Context, _, documentID string) ([]domain.Chunk, error) {
	return c.chunks[documentID], nil
}

func (c *cannedIndex) Documents(context.Context, string) ([]string, error) {
	return c.documents, nil
}

func (c *cannedIndex) Count(context.Context, string) (uint64, error) { return c.count, nil }

func (c *cannedIndex) Drop(context.Context, string) error { return nil }
