package errors

// ErrorClassification indicates whether an error should trigger a retry.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry.
	// Examples: network timeouts, transport failures.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry.
	// Examples: malformed locators, path escapes, missing repositories.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
// Nothing in this module retries internally; the classification is advice for callers.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeTransport: ClassificationRetryable,
	CodeTimeout:   ClassificationRetryable,

	CodeInvalidLocator:     ClassificationPermanent,
	CodeHostResolution:     ClassificationPermanent,
	CodePathEscape:         ClassificationPermanent,
	CodeRepositoryNotFound: ClassificationPermanent,
	CodePushConflict:       ClassificationPermanent,
	CodeNotFound:           ClassificationPermanent,
	CodeAlreadyExists:      ClassificationPermanent,
	CodeConflict:           ClassificationPermanent,
	CodeUnauthorized:       ClassificationPermanent,
	CodeForbidden:          ClassificationPermanent,
	CodeInvalidInput:       ClassificationPermanent,
	CodeInvalidConfig:      ClassificationPermanent,
	CodeExecutionFailed:    ClassificationPermanent,
	CodePublishFailed:      ClassificationPermanent,
	CodeInternal:           ClassificationPermanent,
	CodeUnknown:            ClassificationPermanent,
}

// recoverableCodes lists conditions a transfer adapter can map to "resource absent"
// instead of failing the whole connection.
var recoverableCodes = map[ErrorCode]bool{
	CodeRepositoryNotFound: true,
	CodeNotFound:           true,
}

// getDefaultClassification returns the default classification for an error code.
// Returns ClassificationPermanent if the code is not in the map.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
