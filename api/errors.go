// api/errors.go

package api

import (
	"errors"

	"github.com/suksuki/bazi-sub002/model"
)

// ErrorCode classifies a facade-level failure for callers that want to
// branch on it without inspecting the wrapped model/core error.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInvalidInput
	ErrCodeConfig
	ErrCodeInternal
)

// Error is the error type Facade.Analyze returns: it carries a trace id
// so a caller can correlate a failure with the structured log entry
// that recorded it.
type Error struct {
	Code    ErrorCode
	TraceID string
	Err     error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError classifies err (typically a *model.ModelError or
// *core.CoreError) into a facade Error, attaching traceID.
func wrapError(err error, traceID string) *Error {
	if err == nil {
		return nil
	}

	code := ErrCodeUnknown
	var modelErr *model.ModelError
	if errors.As(err, &modelErr) {
		switch modelErr.Code {
		case model.ErrCodeConfigOutOfRange:
			code = ErrCodeConfig
		default:
			code = ErrCodeInvalidInput
		}
	}

	return &Error{Code: code, TraceID: traceID, Err: err}
}
