// README: Provider contract shared by every LLM adapter and the orchestrator.
package ai

import (
	"context"
	"fmt"
)

// Provider is one upstream LLM service.
// Implementations must check their credential at call time so a missing key
// surfaces as ErrNotConfigured on the attempt, not at construction.
type Provider interface {
	// Kind reports which upstream the provider talks to.
	Kind() ProviderKind

	// Generate sends a single-turn prompt (optionally with one inline image)
	// and returns the trimmed text. An unexpected response shape yields "" and no error.
	Generate(ctx context.Context, call Call) (string, error)
}

// Call is the per-attempt input handed to a Provider.
type Call struct {
	Prompt      string
	ImageBase64 string
	Model       string
}

// disabledProvider stands in for a provider whose credential was never configured.
type disabledProvider struct {
	kind ProviderKind
}

// Disabled returns a Provider that fails every call with ErrNotConfigured.
func Disabled(kind ProviderKind) Provider {
	return disabledProvider{kind: kind}
}

func (d disabledProvider) Kind() ProviderKind { return d.kind }

func (d disabledProvider) Generate(_ context.Context, _ Call) (string, error) {
	return "", fmt.Errorf("%s: %w", d.kind, ErrNotConfigured)
}
