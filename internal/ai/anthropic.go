// README: Anthropic messages adapter (optional image block followed by text).
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// DefaultAnthropicBaseURL is the public Anthropic API root.
	DefaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
)

// AnthropicProvider implements Provider against the messages endpoint.
type AnthropicProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Provider = (*AnthropicProvider)(nil)

// NewAnthropicProvider returns a provider; an empty baseURL means DefaultAnthropicBaseURL.
func NewAnthropicProvider(apiKey, baseURL string, client *http.Client) *AnthropicProvider {
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &AnthropicProvider{apiKey: apiKey, baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (p *AnthropicProvider) Kind() ProviderKind { return ProviderAnthropic }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

// Generate sends one user message and returns the first content block's text.
func (p *AnthropicProvider) Generate(ctx context.Context, call Call) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return "", fmt.Errorf("anthropic: %w", ErrNotConfigured)
	}

	content := make([]anthropicContent, 0, 2)
	if call.ImageBase64 != "" {
		img := parseInlineImage(call.ImageBase64)
		content = append(content, anthropicContent{
			Type:   "image",
			Source: &anthropicSource{Type: "base64", MediaType: img.MediaType, Data: img.Data},
		})
	}
	content = append(content, anthropicContent{Type: "text", Text: call.Prompt})

	reqBody, err := json.Marshal(anthropicRequest{
		Model:       call.Model,
		MaxTokens:   MaxOutputTokens,
		Temperature: Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: content}},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("anthropic: build request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: ProviderAnthropic, Model: call.Model, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderAnthropic, Model: call.Model, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{Provider: ProviderAnthropic, Model: call.Model, StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}

	var ar anthropicResponse
	if err := json.Unmarshal(body, &ar); err != nil || len(ar.Content) == 0 {
		return "", nil
	}
	return strings.TrimSpace(ar.Content[0].Text), nil
}
