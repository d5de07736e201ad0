// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeFetch    ErrorType = "fetch"
	ErrorTypeExtract  ErrorType = "extract"
	ErrorTypeUpstream ErrorType = "upstream"
	ErrorTypeInternal ErrorType = "internal"
	ErrorTypeConfig   ErrorType = "config"
)

// Error codes
const (
	ErrEmptyURL            = "INPUT_001"
	ErrMalformedURL        = "INPUT_002"
	ErrFetchExhausted      = "FETCH_001"
	ErrExtraction          = "EXTRACT_001"
	ErrUpstreamUnavailable = "UPSTREAM_001"
	ErrUnexpected          = "INTERNAL_001"
	ErrConfigValidation    = "CONFIG_001"
)

// Error is the application error type
type Error struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Inner   error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("[%s-%s] %s: %v", e.Type, e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("[%s-%s] %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

// New creates a new Error
func New(errType ErrorType, code string, message string, inner error) *Error {
	return &Error{
		Type:    errType,
		Code:    code,
		Message: message,
		Inner:   inner,
	}
}

func NewInputError(code string, message string) *Error {
	return New(ErrorTypeInput, code, message, nil)
}

func NewFetchError(message string, inner error) *Error {
	return New(ErrorTypeFetch, ErrFetchExhausted, message, inner)
}

func NewExtractError(message string, inner error) *Error {
	return New(ErrorTypeExtract, ErrExtraction, message, inner)
}

func NewUpstreamError(message string, inner error) *Error {
	return New(ErrorTypeUpstream, ErrUpstreamUnavailable, message, inner)
}

func NewInternalError(message string, inner error) *Error {
	return New(ErrorTypeInternal, ErrUnexpected, message, inner)
}

func NewConfigError(message string, inner error) *Error {
	return New(ErrorTypeConfig, ErrConfigValidation, message, inner)
}

// IsType reports whether err wraps an *Error of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Code returns the error code carried by err, or "" when err is not an *Error
func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// UserMessage converts err into the text shown to end users.
// Input errors keep their message; everything else is generic.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Type == ErrorTypeInput {
		return appErr.Message
	}
	return "Failed to analyze article. Please check the URL and try again."
}

// FromPanic turns a recovered panic value into an internal error with a short stack
func FromPanic(component string, r interface{}) *Error {
	stack := make([]byte, 4096)
	stack = stack[:runtime.Stack(stack, false)]
	return NewInternalError(
		fmt.Sprintf("panic in %s", component),
		fmt.Errorf("%v\n%s", r, stack),
	)
}
