package docqa_test

import (
	"errors"
	"testing"

	"github.com/pkaminski/docqa"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docqa.Errorf(docqa.ENOTFOUND, "session %q not found", "test")

	assert.Equal(t, docqa.ENOTFOUND, docqa.ErrorCode(err))
	assert.Equal(t, "session \"test\" not found", docqa.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docqa.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, docqa.EINTERNAL, docqa.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docqa.ErrorMessage(nil))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", docqa.ErrorMessage(errors.New("boom")))
}
