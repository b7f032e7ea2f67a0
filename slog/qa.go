// Package slog provides logging decorators for docqa services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkaminski/docqa"
)

// Ensure LoggingQAService implements docqa.QAService.
var _ docqa.QAService = (*LoggingQAService)(nil)

// LoggingQAService wraps a QAService with structured logging.
type LoggingQAService struct {
	next   docqa.QAService
	logger *slog.Logger
}

// NewLoggingQAService creates a new LoggingQAService.
func NewLoggingQAService(next docqa.QAService, logger *slog.Logger) *LoggingQAService {
	return &LoggingQAService{next: next, logger: logger}
}

// Ask delegates to the wrapped service and logs the operation.
func (s *LoggingQAService) Ask(ctx context.Context, q docqa.Query) (answer *docqa.Answer, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"question_len", len(q.Question),
			"duration", time.Since(begin),
			"err", err,
		}
		if answer != nil {
			attrs = append(attrs,
				"session", answer.SessionID,
				"confidence", answer.Confidence,
				"sources", len(answer.Sources),
			)
		}
		s.logger.Info("ask", attrs...)
	}(time.Now())
	return s.next.Ask(ctx, q)
}

// Health delegates to the wrapped service.
func (s *LoggingQAService) Health(ctx context.Context) docqa.Health {
	return s.next.Health(ctx)
}

// Reload delegates to the wrapped service and logs the operation.
func (s *LoggingQAService) Reload(ctx context.Context, source string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("reload",
			"source", source,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Reload(ctx, source)
}
