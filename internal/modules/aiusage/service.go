// README: Usage service; converts generation attempts into records and fans out to recorders.
package aiusage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tripbudget/internal/ai"
)

// Service records generation attempts. Recording is best effort and never fails a request.
type Service struct {
	recorders []Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a Service; nil recorders are skipped.
func NewService(logger *zap.Logger, recorders ...Recorder) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	rs := make([]Recorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return &Service{recorders: rs, logger: logger, now: time.Now}
}

// Enabled reports whether any recorder is configured.
func (s *Service) Enabled() bool {
	return s != nil && len(s.recorders) > 0
}

// RecordAttempts stores one Usage per attempt.
func (s *Service) RecordAttempts(ctx context.Context, requestID, workflow string, attempts []ai.Attempt) {
	if !s.Enabled() || len(attempts) == 0 {
		return
	}
	at := s.now()
	records := make([]Usage, 0, len(attempts))
	for _, a := range attempts {
		u := Usage{
			RequestID: requestID,
			Workflow:  workflow,
			Model:     a.Model,
			Provider:  string(a.Provider),
			Success:   a.Err == nil,
			Latency:   a.Duration,
			At:        at,
		}
		if a.Err != nil {
			u.Error = a.Err.Error()
		}
		records = append(records, u)
	}
	for _, r := range s.recorders {
		if err := r.Record(ctx, records); err != nil {
			s.logger.Warn("usage record failed", zap.String("request_id", requestID), zap.Error(err))
		}
	}
}
