package intelligence

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-3-flash-preview"

var stringListSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

var traceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"steps": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"step":        {Type: genai.TypeInteger},
					"description": {Type: genai.TypeString},
					"variables": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"key":   {Type: genai.TypeString},
								"value": {Type: genai.TypeString},
							},
						},
					},
					"data": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"pointers": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"varName": {Type: genai.TypeString},
								"index":   {Type: genai.TypeInteger},
							},
						},
						Nullable: genai.Ptr(true),
					},
				},
				Required: []string{"step", "description", "data", "variables"},
			},
		},
	},
}

// GeminiProvider calls the Gemini API through the genai SDK. The client is
// created on first use so an unconfigured provider costs nothing.
type GeminiProvider struct {
	model  string
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiProvider(model, apiKey string) *GeminiProvider {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{model: model, apiKey: apiKey}
}

func (g *GeminiProvider) ID() string          { return "gemini" }
func (g *GeminiProvider) Name() string        { return "Google Gemini" }
func (g *GeminiProvider) Description() string { return "Hosted via Google AI Studio (Fast, Reliable)" }
func (g *GeminiProvider) IsConfigured() bool  { return g.apiKey != "" }

func (g *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, p Prompt) (*Generation, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	var cfg *genai.GenerateContentConfig
	switch p.Format {
	case FormatStringList:
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json", ResponseSchema: stringListSchema}
	case FormatTrace:
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json", ResponseSchema: traceSchema}
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(p.Text), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	gen := &Generation{Text: resp.Text(), Model: g.model}
	if resp.ModelVersion != "" {
		gen.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		gen.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return gen, nil
}
