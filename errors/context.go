package errors

import (
	"errors"
	"maps"
)

// WithContext returns a copy of err with key set to value in its context.
// Existing context fields are preserved.
//
// A plain error is first converted into a PlatformError with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "repository", wc.URL)
func WithContext(err error, key string, value any) PlatformError {
	if err == nil {
		return nil
	}

	var platformErr PlatformError
	if !errors.As(err, &platformErr) {
		platformErr = &platformError{
			code:           CodeUnknown,
			classification: ClassificationPermanent,
			message:        err.Error(),
			cause:          err,
		}
	}

	ctx := make(map[string]any)
	maps.Copy(ctx, platformErr.Context())
	ctx[key] = value

	return &platformError{
		code:           platformErr.Code(),
		classification: platformErr.Classification(),
		message:        platformErr.Message(),
		context:        ctx,
		cause:          platformErr.Unwrap(),
	}
}
