package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkaminski/docqa"
)

// Ensure SessionService implements docqa.SessionService at compile time.
var _ docqa.SessionService = (*SessionService)(nil)

// SessionService stores sessions and their histories in memory. Each
// session carries its own lock, so appends are serialized per session ID
// while distinct sessions proceed in parallel.
type SessionService struct {
	mu       sync.RWMutex // guards the sessions map only
	sessions map[string]*sessionState
}

type sessionState struct {
	mu       sync.Mutex // serializes appends and reads of one session
	session  docqa.Session
	messages []*docqa.Message
}

// NewSessionService creates an empty SessionService.
func NewSessionService() *SessionService {
	return &SessionService{sessions: make(map[string]*sessionState)}
}

// GetOrCreateSession returns the session with the given ID, creating a new
// one with a fresh identifier when id is empty or unknown.
func (s *SessionService) GetOrCreateSession(ctx context.Context, id string) (*docqa.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if state, ok := s.sessions[id]; ok {
			state.mu.Lock()
			defer state.mu.Unlock()
			session := state.session
			return &session, nil
		}
	}

	now := time.Now().UTC()
	session := docqa.Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[session.ID] = &sessionState{session: session}

	out := session
	return &out, nil
}

// CreateMessage appends a message to its session's history. The message is
// assigned an ID and timestamp if it has none. Returns ENOTFOUND if the
// session does not exist.
func (s *SessionService) CreateMessage(ctx context.Context, msg *docqa.Message) error {
	return s.CreateMessages(ctx, []*docqa.Message{msg})
}

// CreateMessages appends a batch of messages to one session as a single
// unit. The batch is validated up front and appended under the session
// lock, so either every message lands, contiguously, or none do.
func (s *SessionService) CreateMessages(ctx context.Context, msgs []*docqa.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	for _, msg := range msgs {
		if err := msg.Validate(); err != nil {
			return err
		}
		if msg.SessionID != msgs[0].SessionID {
			return docqa.Errorf(docqa.EINVALID, "batched messages must share a session")
		}
	}

	state, err := s.state(msgs[0].SessionID)
	if err != nil {
		return err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	now := time.Now().UTC()
	for _, msg := range msgs {
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
		}
		stored := *msg
		state.messages = append(state.messages, &stored)
	}
	state.session.UpdatedAt = now
	return nil
}

// SessionHistory returns all messages for a session in chronological order.
func (s *SessionService) SessionHistory(ctx context.Context, sessionID string) ([]*docqa.Message, error) {
	state, err := s.state(sessionID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return copyMessages(state.messages), nil
}

// RecentContext returns the last n messages in chronological order. Unknown
// sessions and sessions with no history yield an empty list.
func (s *SessionService) RecentContext(ctx context.Context, sessionID string, n int) ([]*docqa.Message, error) {
	if n <= 0 {
		return nil, nil
	}

	state, err := s.state(sessionID)
	if err != nil {
		if docqa.ErrorCode(err) == docqa.ENOTFOUND {
			return nil, nil
		}
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	msgs := state.messages
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return copyMessages(msgs), nil
}

// DeleteSession removes a session and its messages.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return docqa.Errorf(docqa.ENOTFOUND, "session %q not found", id)
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionService) state(id string) (*sessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, docqa.Errorf(docqa.ENOTFOUND, "session %q not found", id)
	}
	return state, nil
}

func copyMessages(msgs []*docqa.Message) []*docqa.Message {
	out := make([]*docqa.Message, len(msgs))
	for i, m := range msgs {
		msg := *m
		out[i] = &msg
	}
	return out
}
