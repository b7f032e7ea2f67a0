package docqa_test

import (
	"testing"

	"github.com/pkaminski/docqa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid question", func(t *testing.T) {
		t.Parallel()

		msg := &docqa.Message{SessionID: "s1", Type: docqa.MessageQuestion, Content: "hi"}
		require.NoError(t, msg.Validate())
	})

	t.Run("valid answer with metadata", func(t *testing.T) {
		t.Parallel()

		msg := &docqa.Message{
			SessionID: "s1",
			Type:      docqa.MessageAnswer,
			Content:   "hello",
			Metadata:  &docqa.MessageMetadata{Confidence: 0.8, SourceCount: 3},
		}
		require.NoError(t, msg.Validate())
	})

	t.Run("missing session ID", func(t *testing.T) {
		t.Parallel()

		msg := &docqa.Message{Type: docqa.MessageQuestion, Content: "hi"}
		err := msg.Validate()

		require.Error(t, err)
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()

		msg := &docqa.Message{SessionID: "s1", Type: "note", Content: "hi"}
		err := msg.Validate()

		require.Error(t, err)
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		msg := &docqa.Message{SessionID: "s1", Type: docqa.MessageAnswer}
		err := msg.Validate()

		require.Error(t, err)
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})
}

func TestMessageType_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, docqa.MessageQuestion.Valid())
	assert.True(t, docqa.MessageAnswer.Valid())
	assert.False(t, docqa.MessageType("").Valid())
	assert.False(t, docqa.MessageType("system").Valid())
}
