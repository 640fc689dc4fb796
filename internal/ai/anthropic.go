package ai

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// Anthropic completes prompts with Claude.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates an Anthropic completer from opts.
func NewAnthropic(opts Options) *Anthropic {
	return NewAnthropicWithClient(anthropic.NewClient(opts.APIKey, opts.BaseURL), opts.Model)
}

// NewAnthropicWithClient wraps an existing client.
func NewAnthropicWithClient(client anthropic.Client, model string) *Anthropic {
	return &Anthropic{client: client, model: modelOr(model, DefaultAnthropicModel)}
}

// Complete implements Completer.
func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	temp := req.Temperature
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   int64(req.MaxTokens),
		System:      req.System,
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "ai: anthropic complete")
	}
	resp.Usage.LogCost(a.model, "complete")
	return resp.Text(), nil
}
