package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkaminski/docqa"
)

// Compile-time interface verification.
var _ docqa.SessionService = (*SessionService)(nil)

// SessionService implements docqa.SessionService using SQLite.
//
// The database's single-writer connection makes each message append atomic;
// the append and the session's updated_at bump share one transaction, so a
// request that dies mid-flight leaves no partial history.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// GetOrCreateSession returns an existing session or creates a new one when
// id is empty or unknown. An unknown id is never an error.
func (s *SessionService) GetOrCreateSession(ctx context.Context, id string) (*docqa.Session, error) {
	if id != "" {
		session, err := s.findSessionByID(ctx, id)
		if err == nil {
			return session, nil
		}
		if docqa.ErrorCode(err) != docqa.ENOTFOUND {
			return nil, err
		}
	}

	now := time.Now().UTC()
	session := &docqa.Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, session.ID, session.Name, session.CreatedAt.Format(time.RFC3339Nano), session.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}

	return session, nil
}

// CreateMessage appends a message to its session's history and bumps the
// session's updated_at in the same transaction.
func (s *SessionService) CreateMessage(ctx context.Context, msg *docqa.Message) error {
	return s.CreateMessages(ctx, []*docqa.Message{msg})
}

// CreateMessages appends a batch of messages to one session. The inserts
// and the updated_at bump share one transaction, so a failure anywhere in
// the batch rolls back the whole turn.
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

	for _, msg := range msgs {
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now().UTC()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	last := msgs[len(msgs)-1]
	res, err := tx.ExecContext(ctx, `
		UPDATE sessions SET updated_at = ? WHERE id = ?
	`, last.CreatedAt.Format(time.RFC3339Nano), last.SessionID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return docqa.Errorf(docqa.ENOTFOUND, "session %q not found", last.SessionID)
	}

	for _, msg := range msgs {
		metadata, err := encodeMetadata(msg)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO messages (id, session_id, type, content, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, msg.ID, msg.SessionID, string(msg.Type), msg.Content, metadata, msg.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func encodeMetadata(msg *docqa.Message) (any, error) {
	if msg.Metadata == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(msg.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message metadata: %w", err)
	}
	return string(encoded), nil
}

// SessionHistory returns all messages for a session in chronological order.
func (s *SessionService) SessionHistory(ctx context.Context, sessionID string) ([]*docqa.Message, error) {
	if _, err := s.findSessionByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.messages(ctx, sessionID, 0)
}

// RecentContext returns the last n messages in chronological order. Unknown
// sessions yield an empty list.
func (s *SessionService) RecentContext(ctx context.Context, sessionID string, n int) ([]*docqa.Message, error) {
	if n <= 0 {
		return nil, nil
	}
	if _, err := s.findSessionByID(ctx, sessionID); err != nil {
		if docqa.ErrorCode(err) == docqa.ENOTFOUND {
			return nil, nil
		}
		return nil, err
	}
	return s.messages(ctx, sessionID, n)
}

// DeleteSession removes a session; messages cascade.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return docqa.Errorf(docqa.ENOTFOUND, "session %q not found", id)
	}
	return nil
}

func (s *SessionService) findSessionByID(ctx context.Context, id string) (*docqa.Session, error) {
	var session docqa.Session
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`, id).Scan(&session.ID, &session.Name, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, docqa.Errorf(docqa.ENOTFOUND, "session %q not found", id)
	}
	if err != nil {
		return nil, err
	}

	if session.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if session.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &session, nil
}

// messages returns a session's messages in chronological order, keeping
// only the last n when n > 0. The rowid tie-break keeps ordering stable for
// messages created within the same timestamp granularity.
func (s *SessionService) messages(ctx context.Context, sessionID string, n int) ([]*docqa.Message, error) {
	query := `
		SELECT id, session_id, type, content, metadata, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY created_at, rowid
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*docqa.Message
	for rows.Next() {
		var msg docqa.Message
		var msgType string
		var metadata sql.NullString
		var createdAt string

		if err := rows.Scan(&msg.ID, &msg.SessionID, &msgType, &msg.Content, &metadata, &createdAt); err != nil {
			return nil, err
		}

		msg.Type = docqa.MessageType(msgType)
		if msg.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			var meta docqa.MessageMetadata
			if err := json.Unmarshal([]byte(metadata.String), &meta); err != nil {
				return nil, fmt.Errorf("failed to decode message metadata: %w", err)
			}
			msg.Metadata = &meta
		}

		msgs = append(msgs, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs, nil
}
