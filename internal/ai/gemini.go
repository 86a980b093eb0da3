// README: Gemini adapter backed by Google's generative-ai-go SDK.
package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements Provider using Google's Gemini models.
// The SDK client is created on first use and shared by later calls; a missing key
// is only reported when the provider is reached.
type GeminiProvider struct {
	apiKey string
	opts   []option.ClientOption

	mu     sync.Mutex
	client *genai.Client
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider returns a provider; extra client options are appended after the API key.
func NewGeminiProvider(apiKey string, opts ...option.ClientOption) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, opts: opts}
}

func (p *GeminiProvider) Kind() ProviderKind { return ProviderGemini }

// Close releases the SDK client, if one was created.
func (p *GeminiProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

// sdkClient returns the shared client. A failed creation is not cached.
func (p *GeminiProvider) sdkClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	opts := append([]option.ClientOption{option.WithAPIKey(p.apiKey)}, p.opts...)
	client, err := genai.NewClient(context.WithoutCancel(ctx), opts...)
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}

// Generate sends the prompt (and optional image blob) and joins the text parts of the first candidate.
func (p *GeminiProvider) Generate(ctx context.Context, call Call) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return "", fmt.Errorf("gemini: %w", ErrNotConfigured)
	}

	client, err := p.sdkClient(ctx)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Model: call.Model, Err: fmt.Errorf("create client: %w", err)}
	}

	model := client.GenerativeModel(call.Model)
	model.SetTemperature(Temperature)
	model.SetMaxOutputTokens(MaxOutputTokens)

	parts := make([]genai.Part, 0, 2)
	if call.ImageBase64 != "" {
		img := parseInlineImage(call.ImageBase64)
		data, err := img.Bytes()
		if err != nil {
			return "", &ProviderError{Provider: ProviderGemini, Model: call.Model, Err: err}
		}
		parts = append(parts, genai.ImageData(img.Format(), data))
	}
	parts = append(parts, genai.Text(call.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Model: call.Model, Err: fmt.Errorf("generate content: %w", err)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(text.String()), nil
}
