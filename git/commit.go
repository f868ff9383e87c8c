package git

import (
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// StageAll stages every change in the working tree, deletions included.
func (r *Repository) StageAll() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return wrapError(err, "failed to get worktree")
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return wrapError(err, "failed to stage changes")
	}

	return nil
}

// IsClean reports whether the working tree matches HEAD.
func (r *Repository) IsClean() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, wrapError(err, "failed to get worktree")
	}

	status, err := wt.Status()
	if err != nil {
		return false, wrapError(err, "failed to read worktree status")
	}

	return status.IsClean(), nil
}

// CreateCommit commits the staged changes on the current HEAD and returns the
// commit hash.
//
// Without AllowEmpty a clean index fails with ErrConflict.
//
// Example:
//
//	hash, err := repo.CreateCommit(git.CommitOptions{
//	    Author:  "gitwagon",
//	    Email:   "gitwagon@localhost",
//	    Message: "Publish site",
//	})
func (r *Repository) CreateCommit(opts CommitOptions) (string, error) {
	if opts.Author == "" {
		return "", wrapError(gogit.ErrMissingAuthor, "failed to create commit")
	}
	if opts.Message == "" {
		return "", wrapError(fmt.Errorf("message is required"), "failed to create commit")
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", wrapError(err, "failed to get worktree")
	}

	hash, err := wt.Commit(opts.Message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  opts.Author,
			Email: opts.Email,
			When:  time.Now(),
		},
		AllowEmptyCommits: opts.AllowEmpty,
	})
	if err != nil {
		return "", wrapError(err, "failed to create commit")
	}

	return hash.String(), nil
}
