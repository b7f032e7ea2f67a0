package docqa

import (
	"errors"
	"fmt"
)

// Application error codes. These are stable, machine-distinguishable kinds
// that callers can branch on without parsing messages.
const (
	ECORPUS      = "corpus"      // corpus source unreadable or structurally invalid
	EEMBEDDING   = "embedding"   // embedding capability failed for a given text
	EINTERNAL    = "internal"    // unexpected internal error
	EINVALID     = "invalid"     // malformed request
	ENOCONTENT   = "no_content"  // corpus yielded zero indexable sections
	ENOTFOUND    = "not_found"   // entity does not exist
	EUNAVAILABLE = "unavailable" // index not ready yet; retryable after backoff
)

// Error represents an application error with a machine-readable code and a
// human-readable message. Internal errors should not leak their details to
// end users; use EINTERNAL with a generic message and log the cause.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("docqa error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs a new Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
