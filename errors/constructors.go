package errors

import "fmt"

// New creates a PlatformError with the given code and message.
// The classification comes from the code's default mapping.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidLocator, "locator has no branch")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a PlatformError with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodePathEscape, "%q is outside %q", path, root)
func Newf(code ErrorCode, format string, args ...any) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}
