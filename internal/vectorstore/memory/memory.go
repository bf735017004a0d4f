package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"doclens/internal/domain"
)

// Index is an in-memory vector store using brute-force cosine similarity.
// Nothing survives the process; it backs tests and single-process
// experiments where running Qdrant is overkill.
type Index struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	dimension int
	points    map[string]point // keyed by chunk key, so upsert overwrites
}

type point struct {
	chunk  domain.Chunk
	vector []float32
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{collections: map[string]*collection{}}
}

func (x *Index) Ensure(_ context.Context, name string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("memory index: invalid dimension %d", dimension)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.collections[name]; !ok {
		x.collections[name] = &collection{dimension: dimension, points: map[string]point{}}
	}
	return nil
}

func (x *Index) Upsert(_ context.Context, name string, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("memory index: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	col, ok := x.collections[name]
	if !ok {
		return fmt.Errorf("memory index: collection %q not initialized", name)
	}
	for i, ch := range chunks {
		if len(vectors[i]) != col.dimension {
			return fmt.Errorf("memory index: vector dimension %d, collection expects %d", len(vectors[i]), col.dimension)
		}
		col.points[ch.Key()] = point{chunk: ch, vector: vectors[i]}
	}
	return nil
}

func (x *Index) Query(_ context.Context, name string, vector []float32, topK int, documentID string) ([]domain.ScoredChunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	col, ok := x.collections[name]
	if !ok {
		return nil, nil
	}
	var results []domain.ScoredChunk
	for _, p := range col.points {
		if documentID != "" && p.chunk.DocumentID != documentID {
			continue
		}
		results = append(results, domain.ScoredChunk{Chunk: p.chunk, Score: cosine(vector, p.vector)})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Index < results[j].Chunk.Index
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (x *Index) DocumentChunks(_ context.Context, name, documentID string) ([]domain.Chunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	col, ok := x.collections[name]
	if !ok {
		return nil, nil
	}
	var chunks []domain.Chunk
	for _, p := range col.points {
		if p.chunk.DocumentID == documentID {
			chunks = append(chunks, p.chunk)
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

func (x *Index) Documents(_ context.Context, name string) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	col, ok := x.collections[name]
	if !ok {
		return nil, nil
	}
	seen := map[string]struct{}{}
	for _, p := range col.points {
		seen[p.chunk.DocumentID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (x *Index) Count(_ context.Context, name string) (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	col, ok := x.collections[name]
	if !ok {
		return 0, nil
	}
	return uint64(len(col.points)), nil
}

func (x *Index) Drop(_ context.Context, name string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.collections, name)
	return nil
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
