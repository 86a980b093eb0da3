// README: Generation request/result types and model id routing.
package ai

import (
	"strings"
	"time"
)

// ProviderKind names an upstream LLM service.
type ProviderKind string

const (
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderGemini    ProviderKind = "gemini"
)

// Temperature is used by every adapter.
const Temperature = 0.3

// MaxOutputTokens caps the output of providers that require an explicit limit.
const MaxOutputTokens = 2000

// GenerationRequest is the orchestrator's sole input.
type GenerationRequest struct {
	Prompt      string
	ImageBase64 string
	Model       string
	Fallback    []string
}

// Candidates returns the attempt order: primary first, then the fallback list.
func (r GenerationRequest) Candidates() []string {
	out := make([]string, 0, 1+len(r.Fallback))
	out = append(out, r.Model)
	return append(out, r.Fallback...)
}

// GenerationResult is the outcome of a successful walk.
type GenerationResult struct {
	Text string
	// Model is the candidate id that produced Text, as it was supplied.
	Model    string
	Attempts []Attempt
}

// Attempt records one provider call made during a walk.
type Attempt struct {
	Model    string
	Provider ProviderKind
	Err      error
	Duration time.Duration
}

// ModelRef is a model id split into provider and upstream model name.
type ModelRef struct {
	Provider ProviderKind
	Name     string
}

// ParseModel routes a model id to its provider.
// An explicit "provider:model" tag wins; otherwise a case-insensitive "claude"
// prefix routes to Anthropic, "gemini" to Gemini and anything else to OpenAI.
func ParseModel(id string) ModelRef {
	id = strings.TrimSpace(id)
	if tag, name, ok := strings.Cut(id, ":"); ok {
		switch kind := ProviderKind(strings.ToLower(tag)); kind {
		case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
			return ModelRef{Provider: kind, Name: name}
		}
	}

	lower := strings.ToLower(id)
	switch {
	case strings.HasPrefix(lower, "claude"):
		return ModelRef{Provider: ProviderAnthropic, Name: id}
	case strings.HasPrefix(lower, "gemini"):
		return ModelRef{Provider: ProviderGemini, Name: id}
	default:
		return ModelRef{Provider: ProviderOpenAI, Name: id}
	}
}
