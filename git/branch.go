package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	platformerrors "github.com/jmgilman/go/gitwagon/errors"
)

// CurrentBranch returns the short name of the branch HEAD points to. It works on
// unborn branches, where HEAD names a branch with no commits yet.
//
// Returns ErrConflict when HEAD is detached.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", wrapError(err, "failed to read HEAD")
	}

	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}

	return "", platformerrors.Newf(platformerrors.CodeConflict, "HEAD is detached at %s", head.Hash())
}

// RelinkHead points HEAD at refs/heads/<branch> without touching the index or
// the working tree. If the branch does not exist yet, the next commit creates it
// with the current tree, which is how a missing branch is bootstrapped.
func (r *Repository) RelinkHead(branch string) error {
	if branch == "" {
		return wrapError(errors.New("branch name is required"), "failed to relink HEAD")
	}

	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return wrapError(err, fmt.Sprintf("failed to relink HEAD to %q", branch))
	}

	return nil
}
