package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/signalnine/algolens/internal/retry"
)

const (
	DefaultOllamaEndpoint = "http://localhost:11434"
	DefaultOllamaModel    = "llama3"
)

// OllamaProvider calls a local Ollama daemon. It always reports configured;
// reachability is only known at call time.
type OllamaProvider struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewOllamaProvider(endpoint, model string) *OllamaProvider {
	if endpoint == "" {
		endpoint = DefaultOllamaEndpoint
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaProvider{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (o *OllamaProvider) ID() string   { return "ollama" }
func (o *OllamaProvider) Name() string { return "Ollama (Local)" }

func (o *OllamaProvider) Description() string {
	return "Runs locally on your machine (Privacy-focused)"
}

func (o *OllamaProvider) IsConfigured() bool { return true }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (o *OllamaProvider) Generate(ctx context.Context, p Prompt) (*Generation, error) {
	reqBody := ollamaRequest{Model: o.model, Prompt: p.Text}
	if p.Format.JSON() {
		reqBody.Format = "json"
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama at %s: %w", o.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &retry.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", err)
	}
	model := out.Model
	if model == "" {
		model = o.model
	}
	return &Generation{
		Text:  out.Response,
		Model: model,
		Usage: Usage{InputTokens: out.PromptEvalCount, OutputTokens: out.EvalCount},
	}, nil
}
