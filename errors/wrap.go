package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Wrap wraps err with a code and message while keeping err reachable through
// Unwrap, errors.Is and errors.As.
//
// If err is already a PlatformError its classification is preserved, otherwise the
// default classification for code is used. Returns nil if err is nil.
//
// Example:
//
//	if err := transport.Clone(ctx, req); err != nil {
//	    return errors.Wrap(err, errors.CodeTransport, "failed to clone repository")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	return WrapWithContext(err, code, message, nil)
}

// Wrapf wraps err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...any) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches a copy of ctx in a single operation.
// Returns nil if err is nil.
//
// Example:
//
//	return errors.WrapWithContext(err, errors.CodePushConflict, "push rejected",
//	    map[string]any{"repository": url, "branch": branch})
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]any) PlatformError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		classification = platformErr.Classification()
	}

	var contextCopy map[string]any
	if ctx != nil {
		contextCopy = maps.Clone(ctx)
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		context:        contextCopy,
		cause:          err,
	}
}
