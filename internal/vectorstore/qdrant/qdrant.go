package qdrant

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"

	"doclens/internal/domain"
)

// scrollPageSize bounds one scroll request when walking a collection.
const scrollPageSize = 256

// Index stores chunk vectors in a Qdrant collection over gRPC.
type Index struct {
	client *qdrantclient.Client
}

// Config contains connection details for a Qdrant server.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// New connects to Qdrant. The connection is lazy; errors surface on first use.
func New(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	client, err := qdrantclient.NewClient(&qdrantclient.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &Index{client: client}, nil
}

// Close releases the underlying gRPC connection.
func (x *Index) Close() error { return x.client.Close() }

// Ensure creates the collection with cosine distance if it does not exist.
func (x *Index) Ensure(ctx context.Context, collection string, dimension int) error {
	exists, err := x.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("qdrant: checking collection %q: %w", collection, err)
	}
	if exists {
		return nil
	}
	err = x.client.CreateCollection(ctx, &qdrantclient.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrantclient.NewVectorsConfig(&qdrantclient.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrantclient.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: creating collection %q: %w", collection, err)
	}
	return nil
}

// Upsert writes chunks with their vectors. Point ids are derived
// deterministically from the chunk key so re-loading a document overwrites
// its previous points instead of duplicating them.
func (x *Index) Upsert(ctx context.Context, collection string, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("qdrant: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	points := make([]*qdrantclient.PointStruct, len(chunks))
	for i, ch := range chunks {
		points[i] = &qdrantclient.PointStruct{
			Id:      qdrantclient.NewID(pointID(ch)),
			Vectors: qdrantclient.NewVectors(vectors[i]...),
			Payload: qdrantclient.NewValueMap(map[string]any{
				"document_id": ch.DocumentID,
				"chunk_index": int64(ch.Index),
				"text":        ch.Text,
				"start":       int64(ch.Start),
				"end":         int64(ch.End),
			}),
		}
	}
	_, err := x.client.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrantclient.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upserting %d points into %q: %w", len(points), collection, err)
	}
	return nil
}

// Query returns up to topK chunks ranked by cosine similarity, optionally
// filtered to one document via the payload filter.
func (x *Index) Query(ctx context.Context, collection string, vector []float32, topK int, documentID string) ([]domain.ScoredChunk, error) {
	req := &qdrantclient.QueryPoints{
		CollectionName: collection,
		Query:          qdrantclient.NewQuery(vector...),
		Limit:          qdrantclient.PtrOf(uint64(topK)),
		WithPayload:    qdrantclient.NewWithPayload(true),
	}
	if documentID != "" {
		req.Filter = &qdrantclient.Filter{
			Must: []*qdrantclient.Condition{qdrantclient.NewMatch("document_id", documentID)},
		}
	}
	points, err := x.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant: querying %q: %w", collection, err)
	}
	results := make([]domain.ScoredChunk, 0, len(points))
	for _, p := range points {
		results = append(results, domain.ScoredChunk{
			Chunk: chunkFromPayload(p.GetPayload()),
			Score: p.GetScore(),
		})
	}
	return results, nil
}

// DocumentChunks scrolls every point of one document, ordered by chunk index.
// A missing collection yields no chunks rather than an error, consistent
// with Count and Documents.
func (x *Index) DocumentChunks(ctx context.Context, collection, documentID string) ([]domain.Chunk, error) {
	exists, err := x.client.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("qdrant: checking collection %q: %w", collection, err)
	}
	if !exists {
		return nil, nil
	}
	filter := &qdrantclient.Filter{
		Must: []*qdrantclient.Condition{qdrantclient.NewMatch("document_id", documentID)},
	}
	var chunks []domain.Chunk
	err = x.scroll(ctx, collection, filter, func(p *qdrantclient.RetrievedPoint) {
		chunks = append(chunks, chunkFromPayload(p.GetPayload()))
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

// Documents lists the distinct document ids present in the collection.
func (x *Index) Documents(ctx context.Context, collection string) ([]string, error) {
	exists, err := x.client.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("qdrant: checking collection %q: %w", collection, err)
	}
	if !exists {
		return nil, nil
	}
	seen := map[string]struct{}{}
	err = x.scroll(ctx, collection, nil, func(p *qdrantclient.RetrievedPoint) {
		if v, ok := p.GetPayload()["document_id"]; ok {
			seen[v.GetStringValue()] = struct{}{}
		}
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Count reports the number of indexed chunks; a missing collection counts as
// empty rather than an error.
func (x *Index) Count(ctx context.Context, collection string) (uint64, error) {
	exists, err := x.client.CollectionExists(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("qdrant: checking collection %q: %w", collection, err)
	}
	if !exists {
		return 0, nil
	}
	n, err := x.client.Count(ctx, &qdrantclient.CountPoints{
		CollectionName: collection,
		Exact:          qdrantclient.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: counting %q: %w", collection, err)
	}
	return n, nil
}

// Drop deletes the collection and all its points.
func (x *Index) Drop(ctx context.Context, collection string) error {
	if err := x.client.DeleteCollection(ctx, collection); err != nil {
		return fmt.Errorf("qdrant: deleting collection %q: %w", collection, err)
	}
	return nil
}

// scroll pages through matching points using the raw points client, which
// exposes the next-page offset the high-level helper hides.
func (x *Index) scroll(ctx context.Context, collection string, filter *qdrantclient.Filter, visit func(*qdrantclient.RetrievedPoint)) error {
	points := x.client.GetPointsClient()
	var offset *qdrantclient.PointId
	for {
		resp, err := points.Scroll(ctx, &qdrantclient.ScrollPoints{
			CollectionName: collection,
			Filter:         filter,
			Limit:          qdrantclient.PtrOf(uint32(scrollPageSize)),
			WithPayload:    qdrantclient.NewWithPayload(true),
			Offset:         offset,
		})
		if err != nil {
			return fmt.Errorf("qdrant: scrolling %q: %w", collection, err)
		}
		for _, p := range resp.GetResult() {
			visit(p)
		}
		offset = resp.GetNextPageOffset()
		if offset == nil {
			return nil
		}
	}
}

// pointID derives a stable UUID from the chunk key. Qdrant point ids must be
// integers or UUIDs, and stability is what makes re-loading idempotent.
func pointID(ch domain.Chunk) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(ch.Key())).String()
}

func chunkFromPayload(payload map[string]*qdrantclient.Value) domain.Chunk {
	var ch domain.Chunk
	if v, ok := payload["document_id"]; ok {
		ch.DocumentID = v.GetStringValue()
	}
	if v, ok := payload["chunk_index"]; ok {
		ch.Index = int(v.GetIntegerValue())
	}
	if v, ok := payload["text"]; ok {
		ch.Text = v.GetStringValue()
	}
	if v, ok := payload["start"]; ok {
		ch.Start = int(v.GetIntegerValue())
	}
	if v, ok := payload["end"]; ok {
		ch.End = int(v.GetIntegerValue())
	}
	return ch
}
