// README: OpenAI chat-completions adapter (text + optional inline image).
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

// DefaultOpenAIBaseURL is the public OpenAI API root.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements Provider against the chat completions endpoint.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider returns a provider; an empty baseURL means DefaultOpenAIBaseURL.
func NewOpenAIProvider(apiKey, baseURL string, client *http.Client) *OpenAIProvider {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAIProvider{apiKey: apiKey, baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (p *OpenAIProvider) Kind() ProviderKind { return ProviderOpenAI }

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string       `json:"role"`
	Content []openAIPart `json:"content"`
}

type openAIPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends one user message and returns the first choice's content.
func (p *OpenAIProvider) Generate(ctx context.Context, call Call) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return "", fmt.Errorf("openai: %w", ErrNotConfigured)
	}

	parts := []openAIPart{{Type: "text", Text: call.Prompt}}
	if call.ImageBase64 != "" {
		img := parseInlineImage(call.ImageBase64)
		parts = append(parts, openAIPart{Type: "image_url", ImageURL: &openAIImageURL{URL: img.DataURI()}})
	}

	reqBody, err := json.Marshal(openAIRequest{
		Model:       call.Model,
		Messages:    []openAIMessage{{Role: "user", Content: parts}},
		Temperature: Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Model: call.Model, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Model: call.Model, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{Provider: ProviderOpenAI, Model: call.Model, StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}

	var cr openAIResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", nil
	}
	if len(cr.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
