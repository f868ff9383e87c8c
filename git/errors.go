package git

import (
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	platformerrors "github.com/jmgilman/go/gitwagon/errors"
)

// nonFastForwardMessage prefixes the unwrapped error go-git's Push returns when
// the remote rejects an update.
const nonFastForwardMessage = "non-fast-forward update"

// wrapError annotates err with context. Known go-git errors become platform errors
// with a matching code; the original error stays in the chain either way.
// If err is nil, returns nil.
func wrapError(err error, context string) error {
	if err == nil {
		return nil
	}

	code, ok := classifyError(err)
	if !ok {
		return fmt.Errorf("%s: %w", context, err)
	}

	return platformerrors.Wrap(err, code, context)
}

// classifyError maps go-git errors to platform error codes. The second result is
// false for errors with no sensible mapping.
//
//nolint:gocyclo,cyclop // Each case is a simple mapping
func classifyError(err error) (platformerrors.ErrorCode, bool) {
	switch {
	case errors.Is(err, transport.ErrRepositoryNotFound),
		errors.Is(err, gogit.ErrRepositoryNotExists):
		return platformerrors.CodeRepositoryNotFound, true

	case errors.Is(err, plumbing.ErrReferenceNotFound),
		errors.Is(err, gogit.ErrRemoteNotFound),
		errors.Is(err, gogit.NoMatchingRefSpecError{}):
		return platformerrors.CodeNotFound, true

	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		return platformerrors.CodeNotFound, true

	case errors.Is(err, gogit.ErrRepositoryAlreadyExists),
		errors.Is(err, gogit.ErrRemoteExists),
		errors.Is(err, gogit.ErrBranchExists):
		return platformerrors.CodeAlreadyExists, true

	case errors.Is(err, transport.ErrAuthenticationRequired):
		return platformerrors.CodeUnauthorized, true
	case errors.Is(err, transport.ErrAuthorizationFailed):
		return platformerrors.CodeForbidden, true

	case errors.Is(err, gogit.ErrNonFastForwardUpdate),
		strings.Contains(err.Error(), nonFastForwardMessage):
		return platformerrors.CodePushConflict, true

	case errors.Is(err, gogit.ErrEmptyCommit),
		errors.Is(err, gogit.ErrWorktreeNotClean):
		return platformerrors.CodeConflict, true

	case errors.Is(err, gogit.ErrMissingURL),
		errors.Is(err, gogit.ErrMissingAuthor),
		errors.Is(err, gogit.ErrInvalidReference):
		return platformerrors.CodeInvalidInput, true
	}

	return "", false
}
