package sqlite_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkaminski/docqa"
	"github.com/pkaminski/docqa/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionService_GetOrCreateSession(t *testing.T) {
	t.Parallel()

	t.Run("creates session with fresh id", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(openTestDB(t))

		session, err := svc.GetOrCreateSession(context.Background(), "")

		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.False(t, session.CreatedAt.IsZero())
	})

	t.Run("returns existing session", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(openTestDB(t))
		ctx := context.Background()

		created, err := svc.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		got, err := svc.GetOrCreateSession(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown id creates new session", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(openTestDB(t))

		session, err := svc.GetOrCreateSession(context.Background(), "unknown-id")

		require.NoError(t, err)
		assert.NotEqual(t, "unknown-id", session.ID)
	})
}

func TestSessionService_CreateMessage(t *testing.T) {
	t.Parallel()

	t.Run("round-trips message with metadata", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(openTestDB(t))
		ctx := context.Background()

		session, err := svc.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		msg := &docqa.Message{
			SessionID: session.ID,
			Type:      docqa.MessageAnswer,
			Content:   "Cron triggers run on a schedule.",
			Metadata:  &docqa.MessageMetadata{Confidence: 0.82, SourceCount: 3},
		}
		require.NoError(t, svc.CreateMessage(ctx, msg))

		history, err := svc.SessionHistory(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, docqa.MessageAnswer, history[0].Type)
		assert.Equal(t, "Cron triggers run on a schedule.", history[0].Content)
		require.NotNil(t, history[0].Metadata)
		assert.InDelta(t, 0.82, history[0].Metadata.Confidence, 1e-9)
		assert.Equal(t, 3, history[0].Metadata.SourceCount)
	})

	t.Run("bumps session updated_at", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(openTestDB(t))
		ctx := context.Background()

		session, err := svc.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		require.NoError(t, svc.CreateMessage(ctx, &docqa.Message{
			SessionID: session.ID,
			Type:      docqa.MessageQuestion,
			Content:   "hello",
		}))

		updated, err := svc.GetOrCreateSession(ctx, session.ID)
		require.NoError(t, err)
		assert.False(t, updated.UpdatedAt.Before(session.UpdatedAt))
	})

	t.Run("unknown session returns ENOTFOUND without side effects", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		svc := sqlite.NewSessionService(db)
		ctx := context.Background()

		err := svc.CreateMessage(ctx, &docqa.Message{
			SessionID: "missing",
			Type:      docqa.MessageQuestion,
			Content:   "hello",
		})

		require.Error(t, err)
		assert.Equal(t, docqa.ENOTFOUND, docqa.ErrorCode(err))

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&count))
		assert.Zero(t, count)
	})
}

func TestSessionService_CreateMessages(t *testing.T) {
	t.Parallel()

	t.Run("appends a whole turn in order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(openTestDB(t))
		ctx := context.Background()

		session, err := svc.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		err = svc.CreateMessages(ctx, []*docqa.Message{
			{SessionID: session.ID, Type: docqa.MessageQuestion, Content: "how?"},
			{
				SessionID: session.ID,
				Type:      docqa.MessageAnswer,
				Content:   "like this",
				Metadata:  &docqa.MessageMetadata{Confidence: 0.7, SourceCount: 2},
			},
		})
		require.NoError(t, err)

		history, err := svc.SessionHistory(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, docqa.MessageQuestion, history[0].Type)
		assert.Equal(t, docqa.MessageAnswer, history[1].Type)
		require.NotNil(t, history[1].Metadata)
		assert.Equal(t, 2, history[1].Metadata.SourceCount)
	})

	t.Run("unknown session rolls the batch back", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		svc := sqlite.NewSessionService(db)
		ctx := context.Background()

		err := svc.CreateMessages(ctx, []*docqa.Message{
			{SessionID: "missing", Type: docqa.MessageQuestion, Content: "how?"},
			{SessionID: "missing", Type: docqa.MessageAnswer, Content: "like this"},
		})
		require.Error(t, err)
		assert.Equal(t, docqa.ENOTFOUND, docqa.ErrorCode(err))

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("invalid member leaves the history untouched", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		svc := sqlite.NewSessionService(db)
		ctx := context.Background()

		session, err := svc.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		err = svc.CreateMessages(ctx, []*docqa.Message{
			{SessionID: session.ID, Type: docqa.MessageQuestion, Content: "how?"},
			{SessionID: session.ID},
		})
		require.Error(t, err)
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("mixed session ids are rejected", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(openTestDB(t))
		ctx := context.Background()

		a, err := svc.GetOrCreateSession(ctx, "")
		require.NoError(t, err)
		b, err := svc.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		err = svc.CreateMessages(ctx, []*docqa.Message{
			{SessionID: a.ID, Type: docqa.MessageQuestion, Content: "how?"},
			{SessionID: b.ID, Type: docqa.MessageAnswer, Content: "like this"},
		})
		require.Error(t, err)
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})
}

func TestSessionService_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	const sequential = 3
	const concurrent = 20

	svc := sqlite.NewSessionService(openTestDB(t))
	ctx := context.Background()

	session, err := svc.GetOrCreateSession(ctx, "")
	require.NoError(t, err)

	for i := 0; i < sequential; i++ {
		require.NoError(t, svc.CreateMessage(ctx, &docqa.Message{
			SessionID: session.ID,
			Type:      docqa.MessageQuestion,
			Content:   fmt.Sprintf("seq %d", i),
		}))
	}

	var wg sync.WaitGroup
	errs := make(chan error, concurrent)
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- svc.CreateMessage(ctx, &docqa.Message{
				SessionID: session.ID,
				Type:      docqa.MessageAnswer,
				Content:   fmt.Sprintf("conc %d", i),
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	history, err := svc.SessionHistory(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, history, sequential+concurrent)
}

func TestSessionService_RecentContext(t *testing.T) {
	t.Parallel()

	t.Run("returns last n chronologically", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(openTestDB(t))
		ctx := context.Background()

		session, err := svc.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		for i := 0; i < 6; i++ {
			require.NoError(t, svc.CreateMessage(ctx, &docqa.Message{
				SessionID: session.ID,
				Type:      docqa.MessageQuestion,
				Content:   fmt.Sprintf("m%d", i),
			}))
		}

		recent, err := svc.RecentContext(ctx, session.ID, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "m4", recent[0].Content)
		assert.Equal(t, "m5", recent[1].Content)
	})

	t.Run("unknown session yields empty list", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(openTestDB(t))

		recent, err := svc.RecentContext(context.Background(), "missing", 4)
		require.NoError(t, err)
		assert.Empty(t, recent)
	})
}

func TestSessionService_DeleteSession(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := sqlite.NewSessionService(db)
	ctx := context.Background()

	session, err := svc.GetOrCreateSession(ctx, "")
	require.NoError(t, err)

	require.NoError(t, svc.CreateMessage(ctx, &docqa.Message{
		SessionID: session.ID,
		Type:      docqa.MessageQuestion,
		Content:   "hello",
	}))

	require.NoError(t, svc.DeleteSession(ctx, session.ID))

	// Messages cascade with the session.
	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&count))
	assert.Zero(t, count)

	err = svc.DeleteSession(ctx, session.ID)
	require.Error(t, err)
	assert.Equal(t, docqa.ENOTFOUND, docqa.ErrorCode(err))
}
