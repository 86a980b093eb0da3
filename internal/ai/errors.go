// README: Error taxonomy for provider calls and fallback exhaustion.
package ai

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConfigured is returned when a provider credential was never configured.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrEmptyOutput is returned by the orchestrator when a provider answers with no text.
	ErrEmptyOutput = errors.New("empty model output")

	// ErrExhausted is matched by ExhaustedError.
	ErrExhausted = errors.New("all models failed")
)

// ProviderError is a transport or HTTP status failure from an adapter.
type ProviderError struct {
	Provider   ProviderKind
	Model      string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: model %s: api status %d: %s", e.Provider, e.Model, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: model %s: %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ExhaustedError reports that every candidate failed.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	models := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		models = append(models, a.Model)
	}
	return fmt.Sprintf("falha ao gerar resposta nos modelos informados (%s)", strings.Join(models, ", "))
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// Unwrap exposes the per-attempt errors to errors.Is / errors.As.
func (e *ExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

const maxErrorBody = 512

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
