// README: Generation orchestrator; walks primary + fallback models in order.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Orchestrator routes each candidate model to its provider and returns the first usable answer.
type Orchestrator struct {
	providers map[ProviderKind]Provider
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrchestrator registers providers by Kind. Kinds without a provider behave as Disabled.
func NewOrchestrator(logger *zap.Logger, providers ...Provider) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	ps := make(map[ProviderKind]Provider, len(providers))
	for _, p := range providers {
		ps[p.Kind()] = p
	}
	return &Orchestrator{providers: ps, logger: logger, now: time.Now}
}

func (o *Orchestrator) provider(kind ProviderKind) Provider {
	if p, ok := o.providers[kind]; ok {
		return p
	}
	return Disabled(kind)
}

// Generate tries req.Model then each fallback in order, stopping at the first success.
// Errors and empty output move on to the next candidate; when none is left an
// *ExhaustedError is returned.
func (o *Orchestrator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	candidates := req.Candidates()
	attempts := make([]Attempt, 0, len(candidates))

	for _, id := range candidates {
		ref := ParseModel(id)
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Model: id, Provider: ref.Provider, Err: err})
			break
		}

		start := o.now()
		text, err := o.provider(ref.Provider).Generate(ctx, Call{
			Prompt:      req.Prompt,
			ImageBase64: req.ImageBase64,
			Model:       ref.Name,
		})
		if err == nil && strings.TrimSpace(text) == "" {
			err = fmt.Errorf("%s: model %s: %w", ref.Provider, id, ErrEmptyOutput)
		}
		attempt := Attempt{Model: id, Provider: ref.Provider, Err: err, Duration: o.now().Sub(start)}
		attempts = append(attempts, attempt)

		if err != nil {
			o.logger.Warn("model attempt failed",
				zap.String("model", id),
				zap.String("provider", string(ref.Provider)),
				zap.Duration("duration", attempt.Duration),
				zap.Error(err),
			)
			continue
		}
		return GenerationResult{Text: text, Model: id, Attempts: attempts}, nil
	}

	return GenerationResult{Attempts: attempts}, &ExhaustedError{Attempts: attempts}
}
