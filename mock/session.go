package mock

import (
	"context"

	"github.com/pkaminski/docqa"
)

var _ docqa.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of docqa.SessionService.
type SessionService struct {
	GetOrCreateSessionFn func(ctx context.Context, id string) (*docqa.Session, error)
	CreateMessageFn      func(ctx context.Context, msg *docqa.Message) error
	CreateMessagesFn     func(ctx context.Context, msgs []*docqa.Message) error
	SessionHistoryFn     func(ctx context.Context, sessionID string) ([]*docqa.Message, error)
	RecentContextFn      func(ctx context.Context, sessionID string, n int) ([]*docqa.Message, error)
	DeleteSessionFn      func(ctx context.Context, id string) error
}

func (s *SessionService) GetOrCreateSession(ctx context.Context, id string) (*docqa.Session, error) {
	return s.GetOrCreateSessionFn(ctx, id)
}

func (s *SessionService) CreateMessage(ctx context.Context, msg *docqa.Message) error {
	return s.CreateMessageFn(ctx, msg)
}

func (s *SessionService) CreateMessages(ctx context.Context, msgs []*docqa.Message) error {
	return s.CreateMessagesFn(ctx, msgs)
}

func (s *SessionService) SessionHistory(ctx context.Context, sessionID string) ([]*docqa.Message, error) {
	return s.SessionHistoryFn(ctx, sessionID)
}

func (s *SessionService) RecentContext(ctx context.Context, sessionID string, n int) ([]*docqa.Message, error) {
	return s.RecentContextFn(ctx, sessionID, n)
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.DeleteSessionFn(ctx, id)
}
