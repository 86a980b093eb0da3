// README: Budget drafting workflow (PDF branch, model selection, prompt, generation, usage).
package budget

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tripbudget/internal/ai"
)

// Extractor turns a base64 attachment into text.
type Extractor interface {
	ExtractText(ctx context.Context, b64 string) (string, error)
}

// Generator runs a model walk.
type Generator interface {
	Generate(ctx context.Context, req ai.GenerationRequest) (ai.GenerationResult, error)
}

// UsageRecorder receives the attempts of every walk, successful or not.
type UsageRecorder interface {
	RecordAttempts(ctx context.Context, requestID, workflow string, attempts []ai.Attempt)
}

type ServiceDeps struct {
	Selector  Selector
	Extractor Extractor
	Generator Generator
	Usage     UsageRecorder
	Logger    *zap.Logger
}

// Service drafts WhatsApp-ready budgets.
type Service struct {
	selector  Selector
	extractor Extractor
	generator Generator
	usage     UsageRecorder
	logger    *zap.Logger
}

func NewService(deps ServiceDeps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		selector:  deps.Selector,
		extractor: deps.Extractor,
		generator: deps.Generator,
		usage:     deps.Usage,
		logger:    logger,
	}
}

// Draft runs one request. In the pdf workflow the PDF text, when a PDF is attached, is
// appended to the notes under PDFMarker before selection; extraction errors are returned
// as-is, with no fallback.
func (s *Service) Draft(ctx context.Context, requestID string, req DraftRequest) (Draft, error) {
	workflow := strings.ToLower(strings.TrimSpace(req.Workflow))
	if workflow == "" {
		workflow = WorkflowBudget
	}
	form := req.Form

	if workflow == WorkflowPDF {
		if strings.TrimSpace(form.PDFBase64) == "" {
			s.logger.Debug("pdf workflow without pdf", zap.String("request_id", requestID))
		} else {
			text, err := s.extractor.ExtractText(ctx, form.PDFBase64)
			if err != nil {
				return Draft{}, fmt.Errorf("budget: extract pdf: %w", err)
			}
			form.Notes = strings.TrimSpace(form.Notes + "\n\n" + PDFMarker + "\n" + text)
		}
	}

	pref := s.selector.Select(form, req.Preference)
	s.logger.Info("models selected",
		zap.String("request_id", requestID),
		zap.String("workflow", workflow),
		zap.String("model", pref.Model),
		zap.Strings("fallback", pref.Fallback),
	)

	res, err := s.generator.Generate(ctx, ai.GenerationRequest{
		Prompt:      BuildPrompt(form),
		ImageBase64: form.ImageBase64,
		Model:       pref.Model,
		Fallback:    pref.Fallback,
	})
	if s.usage != nil {
		s.usage.RecordAttempts(ctx, requestID, workflow, res.Attempts)
	}
	if err != nil {
		return Draft{}, err
	}
	return Draft{Text: res.Text, Model: res.Model}, nil
}
