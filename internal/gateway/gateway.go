// Package gateway talks to OpenAI-compatible chat completion endpoints such
// as a litellm proxy, and loads provider credentials from env files.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/signalnine/algolens/internal/retry"
)

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Completion is a single assistant reply with its token usage.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

func NewClient(baseURL, model, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) URL() string {
	return c.baseURL
}

func (c *Client) Model() string {
	return c.model
}

type chatRequest struct {
	Model          string            `json:"model"`
	Temperature    float64           `json:"temperature"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends prompt as a single user message. jsonMode asks the backend
// for a JSON object response where supported.
func (c *Client) Complete(ctx context.Context, prompt string, jsonMode bool) (*Completion, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Temperature: 0,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	}
	if jsonMode {
		reqBody.ResponseFormat = map[string]string{"type": "json_object"}
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &retry.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var chatResult chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResult); err != nil {
		return nil, fmt.Errorf("decoding gateway response: %w", err)
	}
	if len(chatResult.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}
	model := chatResult.Model
	if model == "" {
		model = c.model
	}
	return &Completion{
		Text:         chatResult.Choices[0].Message.Content,
		Model:        model,
		InputTokens:  chatResult.Usage.PromptTokens,
		OutputTokens: chatResult.Usage.CompletionTokens,
	}, nil
}

// ParseEnvFile reads KEY=VALUE lines, skipping blanks and comments and
// accepting an "export " prefix and quoted values.
func ParseEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vars := make(map[string]string)
	for _, line := range splitLines(data) {
		s := strings.TrimSpace(string(line))
		if s == "" || s[0] == '#' {
			continue
		}
		s = strings.TrimPrefix(s, "export ")
		eqIdx := strings.IndexByte(s, '=')
		if eqIdx < 0 {
			continue
		}
		vars[strings.TrimSpace(s[:eqIdx])] = stripQuotes(s[eqIdx+1:])
	}
	return vars, nil
}

// LoadEnvFile exports the file's variables into the process environment
// without overriding variables that are already set. It returns the keys it set.
func LoadEnvFile(path string) ([]string, error) {
	vars, err := ParseEnvFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading secrets env file: %w", err)
	}
	var set []string
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return set, fmt.Errorf("setting %s: %w", k, err)
		}
		set = append(set, k)
	}
	return set, nil
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
