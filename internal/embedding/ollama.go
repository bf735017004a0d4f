package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"doclens/internal/domain"
	"doclens/internal/retry"
)

// batchSize bounds how many texts go into one embed call so a large
// document does not produce an oversized request.
const batchSize = 100

// OllamaEmbedder produces embeddings via a local Ollama server.
type OllamaEmbedder struct {
	client *api.Client
	model  string
	policy retry.Policy
}

// OllamaConfig configures the Ollama embeddings client.
type OllamaConfig struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// NewOllama creates an embedder backed by the Ollama embed API.
func NewOllama(cfg OllamaConfig, policy retry.Policy) (*OllamaEmbedder, error) {
	if cfg.Host == "" {
		cfg.Host = "http://localhost:11434"
	}
	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", cfg.Host, err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &OllamaEmbedder{
		client: api.NewClient(base, &http.Client{Timeout: timeout}),
		model:  cfg.Model,
		policy: policy,
	}, nil
}

// Embed returns one vector per input text, in input order. Transient server
// failures are retried per the policy before surfacing.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		var resp *api.EmbedResponse
		err := e.policy.Do(ctx, func() error {
			var callErr error
			resp, callErr = e.client.Embed(ctx, &api.EmbedRequest{
				Model: e.model,
				Input: batch,
			})
			if callErr != nil {
				return &domain.ServiceError{Service: "embedding", Retryable: retryableOllama(callErr), Err: callErr}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Embeddings) != len(batch) {
			return nil, &domain.ServiceError{
				Service: "embedding",
				Err:     fmt.Errorf("got %d embeddings for %d inputs", len(resp.Embeddings), len(batch)),
			}
		}
		out = append(out, resp.Embeddings...)
	}
	return out, nil
}

// retryableOllama treats rate limiting, server errors and plain network
// failures as transient; other HTTP statuses (auth, bad request) are fatal.
func retryableOllama(err error) bool {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return true
}
