// Package errors provides the structured error type used across gitwagon.
//
// Every failure surfaced by the locator, pages, registry and wagon packages is a
// PlatformError carrying an ErrorCode. The domain codes mirror the failure kinds a
// transfer adapter has to tell apart:
//
//   - CodeInvalidLocator: the locator string is malformed (fatal)
//   - CodeHostResolution: a pages hostname could not be mapped to an account
//   - CodeRepositoryNotFound: the remote repository is absent (recoverable)
//   - CodePathEscape: a resource resolved outside every working copy (fatal)
//   - CodeTransport: clone/fetch/push failed on the wire (retryable)
//   - CodePushConflict: the remote rejected a non-fast-forward push
//
// The package stays compatible with the standard library (errors.Is, errors.As,
// errors.Unwrap), so go-git sentinels remain reachable through a wrapped chain.
//
// # Quick Start
//
//	err := errors.New(errors.CodeInvalidLocator, "locator has no branch")
//
//	if err := transport.Clone(ctx, req); err != nil {
//	    return errors.Wrap(err, errors.CodeTransport, "failed to clone repository")
//	}
//
//	if errors.IsRecoverable(err) {
//	    // treat the resource as absent
//	}
//
// Adding context:
//
//	err = errors.WithContext(err, "repository", url)
//
// JSON serialization (used by the CLI's --json output):
//
//	json.NewEncoder(os.Stderr).Encode(errors.ToJSON(err))
package errors
