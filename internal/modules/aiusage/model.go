// README: Generation usage records (metadata only; generated text is never stored).
package aiusage

import (
	"context"
	"time"
)

// Usage is one provider attempt made while drafting a budget.
type Usage struct {
	RequestID string
	Workflow  string
	Model     string
	Provider  string
	Success   bool
	Error     string
	Latency   time.Duration
	At        time.Time
}

// Recorder persists usage records.
type Recorder interface {
	Record(ctx context.Context, records []Usage) error
}

// counterTTL bounds how long per-day counters live in Redis.
const counterTTL = 35 * 24 * time.Hour
