// internal/engine/errors.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Common engine errors
var (
	ErrBrowserNotFound = errors.New("browser not found")
	ErrTimeout         = errors.New("timed out waiting for page elements")
	ErrScrape          = errors.New("scrape failed")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrParseError      = errors.New("failed to parse page")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// ErrCodeDependency means the browser could not be started at all.
	ErrCodeDependency ErrorCode = "DEPENDENCY"
	// ErrCodeTimeout means the expected elements never appeared.
	ErrCodeTimeout    ErrorCode = "TIMEOUT"
	ErrCodeScrape     ErrorCode = "SCRAPE"
	ErrCodeValidation ErrorCode = "VALIDATION"
	ErrCodeParse      ErrorCode = "PARSE"
)

var codeSentinels = map[ErrorCode]error{
	ErrCodeDependency: ErrBrowserNotFound,
	ErrCodeTimeout:    ErrTimeout,
	ErrCodeScrape:     ErrScrape,
	ErrCodeValidation: ErrInvalidURL,
	ErrCodeParse:      ErrParseError,
}

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is matches another EngineError by code, or the sentinel for this code.
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	if s, ok := codeSentinels[e.Code]; ok && s == target {
		return true
	}
	return false
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Details:    make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first EngineError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsMissingExecutable reports whether err means a browser binary could not be run.
func IsMissingExecutable(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}

// Classify maps a raw automation error to an EngineError. waiting reports
// whether the failure happened during the bounded element waits.
func Classify(err error, waiting bool) *EngineError {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee
	}
	switch {
	case IsMissingExecutable(err):
		return NewEngineError(ErrCodeDependency, "could not start browser", err)
	case waiting && errors.Is(err, context.DeadlineExceeded):
		return NewEngineError(ErrCodeTimeout, "expected page elements did not appear", err)
	default:
		return NewEngineError(ErrCodeScrape, "browser automation failed", err)
	}
}
