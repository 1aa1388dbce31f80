// Package llm wraps the language-model providers behind the translate,
// structure_to_record, and summarize_with_risks tools. Providers are
// stateless: one instruction-plus-input request, one text reply.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Provider names accepted by New.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Provider is the single-call completion contract shared by all backends.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single completion request.
type Request struct {
	Instructions string
	Input        string
}

// Config selects and configures a provider.
type Config struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKey    string
	APIKeyEnv string
	Timeout   time.Duration
}

// New constructs the configured provider. The http client is optional and
// exists so tests can point the provider at a local server.
func New(ctx context.Context, cfg Config, httpClient *http.Client) (Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg, httpClient)
	case ProviderGemini:
		return NewGemini(ctx, cfg, httpClient)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
