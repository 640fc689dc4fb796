// Package ai exposes a single text-completion capability backed by one of
// several hosted model providers.
package ai

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Provider names accepted by New.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// Default models per provider.
const (
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultGeminiModel    = "gemini-2.5-flash"
)

// Request is a single-turn completion request.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer produces a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Options selects and configures a provider backend.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// New builds the Completer for opts.Provider.
func New(ctx context.Context, opts Options) (Completer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, eris.New("ai: api key is required")
	}

	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case ProviderAnthropic, "":
		return NewAnthropic(opts), nil
	case ProviderOpenAI:
		return NewOpenAI(opts), nil
	case ProviderGemini:
		return NewGemini(ctx, opts)
	default:
		return nil, eris.Errorf("ai: unknown provider %q", opts.Provider)
	}
}

func modelOr(model, fallback string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	return fallback
}
