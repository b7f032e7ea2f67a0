package docqa

import (
	"context"
	"time"
)

// MessageType distinguishes user questions from assistant answers.
type MessageType string

// Message types.
const (
	MessageQuestion MessageType = "question"
	MessageAnswer   MessageType = "answer"
)

// Valid reports whether the message type is a known value.
func (t MessageType) Valid() bool {
	return t == MessageQuestion || t == MessageAnswer
}

// Session represents a logical conversation thread. A session is created
// lazily on the first question and stays active indefinitely; retention is
// an external concern.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is a single conversation turn. Messages are immutable once
// created; session history grows by appending only.
type Message struct {
	ID        string           `json:"id"`
	SessionID string           `json:"sessionId"`
	Type      MessageType      `json:"type"`
	Content   string           `json:"content"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Validate returns an error if the message contains invalid fields.
func (m *Message) Validate() error {
	if m.SessionID == "" {
		return Errorf(EINVALID, "message session ID required")
	}
	if !m.Type.Valid() {
		return Errorf(EINVALID, "message type must be question or answer")
	}
	if m.Content == "" {
		return Errorf(EINVALID, "message content required")
	}
	return nil
}

// MessageMetadata carries answer quality markers alongside answer messages.
type MessageMetadata struct {
	Confidence  float64 `json:"confidence"`
	SourceCount int     `json:"sourceCount"`
}

// SessionService manages per-session ordered conversation history.
//
// Implementations must serialize appends per session ID: concurrent
// questions within the same session must not interleave or lose appends.
// Different sessions must not block each other.
type SessionService interface {
	// GetOrCreateSession returns the session with the given ID, creating
	// a new session with a fresh identifier if id is empty or unknown.
	// An unknown ID is never an error.
	GetOrCreateSession(ctx context.Context, id string) (*Session, error)

	// CreateMessage appends a message to its session's history and bumps
	// the session's UpdatedAt. The append is atomic: it either fully
	// happens or leaves the history untouched.
	CreateMessage(ctx context.Context, msg *Message) error

	// CreateMessages appends a batch of messages to one session as a
	// single atomic unit: either every message is appended, in order and
	// without other appends interleaving, or none are. All messages must
	// share a session ID. Recording a question/answer turn this way means
	// a failure cannot leave a dangling question in the history.
	CreateMessages(ctx context.Context, msgs []*Message) error

	// SessionHistory returns all messages for a session in chronological
	// order. Returns ENOTFOUND if the session does not exist.
	SessionHistory(ctx context.Context, sessionID string) ([]*Message, error)

	// RecentContext returns the last n messages for a session in
	// chronological order. A session with no history yields an empty
	// list; so does an unknown session.
	RecentContext(ctx context.Context, sessionID string, n int) ([]*Message, error)

	// DeleteSession removes a session and all its messages.
	// Returns ENOTFOUND if the session does not exist.
	DeleteSession(ctx context.Context, id string) error
}
