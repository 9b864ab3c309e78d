package intelligence

import (
	"context"

	"github.com/signalnine/algolens/internal/gateway"
)

// GatewayProvider routes prompts through an OpenAI-compatible proxy.
type GatewayProvider struct {
	client *gateway.Client
}

// NewGatewayProvider returns an unconfigured provider when url is empty.
func NewGatewayProvider(url, model, apiKey string) *GatewayProvider {
	if url == "" {
		return &GatewayProvider{}
	}
	return &GatewayProvider{client: gateway.NewClient(url, model, apiKey)}
}

func (g *GatewayProvider) ID() string   { return "gateway" }
func (g *GatewayProvider) Name() string { return "LLM Gateway" }

func (g *GatewayProvider) Description() string {
	if g.client == nil {
		return "OpenAI-compatible proxy (not configured)"
	}
	return "OpenAI-compatible proxy at " + g.client.URL()
}

func (g *GatewayProvider) IsConfigured() bool { return g.client != nil }

func (g *GatewayProvider) Generate(ctx context.Context, p Prompt) (*Generation, error) {
	if g.client == nil {
		return nil, ErrNotConfigured
	}
	comp, err := g.client.Complete(ctx, p.Text, p.Format == FormatTrace)
	if err != nil {
		return nil, err
	}
	return &Generation{
		Text:  comp.Text,
		Model: comp.Model,
		Usage: Usage{InputTokens: comp.InputTokens, OutputTokens: comp.OutputTokens},
	}, nil
}
