package collections

import (
	"context"

	"github.com/relovedshop/reloved-backend/pkg/logger"
)

// Severity classifies a feedback message.
type Severity string

const (
	SeverityNeutral     Severity = "neutral"
	SeverityDestructive Severity = "destructive"
)

// Feedback is a short-lived toast-style message surfaced after a mutation.
type Feedback struct {
	Severity    Severity
	Title       string
	Description string
}

// Sink receives feedback fire-and-forget. Implementations must not block the
// calling operation.
type Sink interface {
	Publish(ctx context.Context, fb Feedback)
}

// LoggerSink reports feedback through the structured logger. It backs the
// HTTP surface, where the message also travels to the client in the response
// envelope.
type LoggerSink struct {
	logg *logger.Logger
}

// NewLoggerSink wraps the provided logger as a feedback sink.
func NewLoggerSink(logg *logger.Logger) *LoggerSink {
	return &LoggerSink{logg: logg}
}

// Publish logs the feedback at a level matching its severity.
func (s *LoggerSink) Publish(ctx context.Context, fb Feedback) {
	if s == nil || s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"feedback_title":    fb.Title,
		"feedback_severity": string(fb.Severity),
	})
	if fb.Severity == SeverityDestructive {
		s.logg.Warn(ctx, fb.Description)
		return
	}
	s.logg.Info(ctx, fb.Description)
}
