package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Locator errors.

	// CodeInvalidLocator indicates a locator string could not be parsed or resolved.
	CodeInvalidLocator ErrorCode = "INVALID_LOCATOR"

	// CodeHostResolution indicates a pages hostname did not match the provider
	// pattern and had no usable CNAME alias.
	CodeHostResolution ErrorCode = "HOST_RESOLUTION_FAILED"

	// CodePathEscape indicates a resolved resource lies outside its working copy.
	CodePathEscape ErrorCode = "PATH_ESCAPE_VIOLATION"

	// Repository errors.

	// CodeRepositoryNotFound indicates the remote repository does not exist.
	CodeRepositoryNotFound ErrorCode = "REPOSITORY_NOT_FOUND"

	// CodeTransport indicates a clone, fetch or push failed on the wire.
	CodeTransport ErrorCode = "TRANSPORT_ERROR"

	// CodePushConflict indicates the remote rejected a non-fast-forward push.
	CodePushConflict ErrorCode = "PUSH_CONFLICT"

	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a resource already exists and cannot be created again.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates a resource state conflict that prevents the operation.
	CodeConflict ErrorCode = "CONFLICT"

	// Permission errors.

	// CodeUnauthorized indicates the request lacks valid authentication credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden indicates the caller lacks permission for the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeTimeout indicates an operation exceeded its deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// Execution errors.

	// CodeExecutionFailed indicates an external command failed.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodePublishFailed indicates flushing a connection's working copies failed.
	CodePublishFailed ErrorCode = "PUBLISH_FAILED"

	// System errors.

	// CodeInternal indicates an internal system error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
