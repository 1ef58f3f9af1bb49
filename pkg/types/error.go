package types

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable code carried by every tool failure.
type ErrorCode string

const (
	CodeBrowserInit     ErrorCode = "BROWSER_INIT_ERROR" // CodeBrowserInit indicates the driver, browser, context or page could not be created.
	CodeLogin           ErrorCode = "LOGIN_ERROR"        // CodeLogin indicates the login workflow faulted.
	CodeGenerate        ErrorCode = "GENERATE_ERROR"     // CodeGenerate indicates no generate trigger matched or generation faulted.
	CodeDownload        ErrorCode = "DOWNLOAD_ERROR"     // CodeDownload indicates no download trigger matched or the download failed.
	CodeTrackNotFound   ErrorCode = "TRACK_NOT_FOUND"    // CodeTrackNotFound indicates the requested track is absent from the library.
	CodeStatus          ErrorCode = "STATUS_ERROR"       // CodeStatus indicates the status report could not be produced.
	CodeClose           ErrorCode = "CLOSE_ERROR"        // CodeClose indicates at least one teardown step failed.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"   // CodeInvalidArgument indicates a tool received malformed arguments.
	CodeUnknownTool     ErrorCode = "UNKNOWN_TOOL"       // CodeUnknownTool indicates no tool is registered under the requested name.
	CodeRateLimited     ErrorCode = "RATE_LIMITED"       // CodeRateLimited indicates the invocation rate limit was exceeded.
	CodeInternal        ErrorCode = "INTERNAL_ERROR"     // CodeInternal indicates a failure with no more specific code.
)

// Error is a failure surfaced across the tool boundary.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// NewError creates an error with the given code and message.
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with the given code that carries cause.
func Wrap(code ErrorCode, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports a match when target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Ensure returns err unchanged when it already carries a code, otherwise
// wraps it under code. A nil err stays nil.
func Ensure(err error, code ErrorCode, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return Wrap(code, err, format, args...)
}

// CodeOf extracts the code from err, or CodeInternal when it has none.
func CodeOf(err error) ErrorCode {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return CodeInternal
}
