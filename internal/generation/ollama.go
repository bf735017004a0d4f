package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"doclens/internal/domain"
	"doclens/internal/retry"
)

// OllamaGenerator produces answers via a local Ollama server.
type OllamaGenerator struct {
	client *api.Client
	model  string
	policy retry.Policy
}

// Config configures the Ollama generation client.
type Config struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// New creates a generator backed by the Ollama generate API.
func New(cfg Config, policy retry.Policy) (*OllamaGenerator, error) {
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
	return &OllamaGenerator{
		client: api.NewClient(base, &http.Client{Timeout: timeout}),
		model:  cfg.Model,
		policy: policy,
	}, nil
}

// Generate runs one completion for the prompt and returns the full response
// text. Transient server failures are retried per the policy; each attempt
// restarts with an empty response buffer.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	var sb strings.Builder
	err := g.policy.Do(ctx, func() error {
		sb.Reset()
		req := &api.GenerateRequest{
			Model:  g.model,
			Prompt: prompt,
			Stream: &stream,
			Options: map[string]any{
				"temperature": 0.2,
			},
		}
		callErr := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
			sb.WriteString(resp.Response)
			return nil
		})
		if callErr != nil {
			return &domain.ServiceError{Service: "generation", Retryable: retryableOllama(callErr), Err: callErr}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

func retryableOllama(err error) bool {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return true
}
