// model/errors.go

package model

import "errors"

var (
	// ErrInvalidSymbol: pillar or day-master refers to an unknown
	// stem/branch index (§7).
	ErrInvalidSymbol = errors.New("unknown stem or branch symbol")

	// ErrInconsistentDayMaster: declared day-master differs from the
	// day-pillar's stem (§7).
	ErrInconsistentDayMaster = errors.New("declared day-master does not match day pillar stem")

	// ErrNonFiniteArithmetic: a ProbValue computation produced NaN/Inf
	// (§7, should not occur with valid input; guarded as an assertion).
	ErrNonFiniteArithmetic = errors.New("non-finite value produced during analysis")

	// ErrMissingTable: one of the static domain tables is absent or
	// malformed at load time (§7).
	ErrMissingTable = errors.New("static domain table missing or malformed")

	// ErrConfigOutOfRange: a config numeric is outside its documented
	// range (§7; never silently clamped).
	ErrConfigOutOfRange = errors.New("configuration value out of documented range")
)

// ErrorCode classifies a ModelError into one of §7's five fatal kinds.
type ErrorCode int

const (
	ErrCodeNone ErrorCode = iota
	ErrCodeInvalidSymbol
	ErrCodeInconsistentDayMaster
	ErrCodeNonFiniteArithmetic
	ErrCodeMissingTable
	ErrCodeConfigOutOfRange
)

// ModelError is the error type raised by the domain-level analysis in
// this package, as distinct from core.CoreError's arithmetic-only scope.
type ModelError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/errors.As to see through to the cause,
// including a wrapped core.CoreError.
func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError constructs a ModelError.
func NewModelError(code ErrorCode, message string, err error) *ModelError {
	return &ModelError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsModelError reports whether err is, or wraps, a *ModelError.
func IsModelError(err error) bool {
	var modelErr *ModelError
	return errors.As(err, &modelErr)
}

// GetErrorCode extracts the ErrorCode from err, or ErrCodeNone if err
// is not a *ModelError.
func GetErrorCode(err error) ErrorCode {
	var modelErr *ModelError
	if errors.As(err, &modelErr) {
		return modelErr.Code
	}
	return ErrCodeNone
}

// WrapError wraps err with an added message, preserving err's
// ModelError code if it has one.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	var code ErrorCode
	var modelErr *ModelError
	if errors.As(err, &modelErr) {
		code = modelErr.Code
	}
	return NewModelError(code, message, err)
}
