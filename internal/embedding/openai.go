package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"doclens/internal/domain"
	"doclens/internal/retry"
)

// OpenAIEmbedder is an OpenAI-compatible embeddings client, for setups that
// point at api.openai.com or any server speaking the same /embeddings shape.
type OpenAIEmbedder struct {
	baseURL   string
	apiKey    string
	model     string
	batchSize int
	client    *http.Client
	policy    retry.Policy
}

// OpenAIConfig configures the OpenAI-compatible embeddings client.
type OpenAIConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	BatchSize int
}

// NewOpenAI creates the client using the provided configuration. The API key
// is read from the configured environment variable.
func NewOpenAI(cfg OpenAIConfig, policy retry.Policy) (*OpenAIEmbedder, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	bs := cfg.BatchSize
	if bs <= 0 {
		bs = 32
	}
	return &OpenAIEmbedder{
		baseURL:   cfg.BaseURL,
		apiKey:    key,
		model:     cfg.Model,
		batchSize: bs,
		client:    &http.Client{Timeout: t},
		policy:    policy,
	}, nil
}

// Embed returns one vector per input text, in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	type reqBody struct {
		Input []string `json:"input"`
		Model string   `json:"model"`
	}
	var vectors [][]float32
	err := e.policy.Do(ctx, func() error {
		data, err := json.Marshal(reqBody{Input: batch, Model: e.model})
		if err != nil {
			return &domain.ServiceError{Service: "embedding", Err: err}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(data))
		if err != nil {
			return &domain.ServiceError{Service: "embedding", Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+e.apiKey)

		resp, err := e.client.Do(req)
		if err != nil {
			return &domain.ServiceError{Service: "embedding", Retryable: true, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return &domain.ServiceError{
				Service:   "embedding",
				Retryable: true,
				Err:       fmt.Errorf("embeddings request failed: %s", resp.Status),
			}
		}
		if resp.StatusCode >= 300 {
			return &domain.ServiceError{
				Service: "embedding",
				Err:     fmt.Errorf("embeddings request failed: %s", resp.Status),
			}
		}

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return &domain.ServiceError{Service: "embedding", Retryable: true, Err: err}
		}
		var decoded struct {
			Data []struct {
				Embedding []float32 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return &domain.ServiceError{Service: "embedding", Err: err}
		}
		if len(decoded.Data) != len(batch) {
			return &domain.ServiceError{
				Service: "embedding",
				Err:     fmt.Errorf("got %d embeddings for %d inputs", len(decoded.Data), len(batch)),
			}
		}
		vectors = vectors[:0]
		for _, d := range decoded.Data {
			vectors = append(vectors, d.Embedding)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}
