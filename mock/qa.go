package mock

import (
	"context"

	"github.com/pkaminski/docqa"
)

var _ docqa.QAService = (*QAService)(nil)

// QAService is a mock implementation of docqa.QAService.
type QAService struct {
	AskFn    func(ctx context.Context, q docqa.Query) (*docqa.Answer, error)
	HealthFn func(ctx context.Context) docqa.Health
	ReloadFn func(ctx context.Context, source string) error
}

func (s *QAService) Ask(ctx context.Context, q docqa.Query) (*docqa.Answer, error) {
	return s.AskFn(ctx, q)
}

func (s *QAService) Health(ctx context.Context) docqa.Health {
	return s.HealthFn(ctx)
}

func (s *QAService) Reload(ctx context.Context, source string) error {
	return s.ReloadFn(ctx, source)
}
