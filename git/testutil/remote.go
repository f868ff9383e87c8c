package testutil

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/jmgilman/go/gitwagon/git"
)

// Remote is a bare repository on disk standing in for a hosted remote.
type Remote struct {
	root  string
	repo  *git.Repository
	seeds int
}

// NewRemote creates an empty bare repository under root.
func NewRemote(root string) (*Remote, error) {
	repo, err := git.Init(filepath.Join(root, "remote.git"), git.WithBare())
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return nil, err
	}
	return &Remote{root: root, repo: repo}, nil
}

// URL returns the file URL of the remote.
func (r *Remote) URL() string {
	return "file://" + r.repo.Path()
}

// Path returns the directory of the bare repository.
func (r *Remote) Path() string {
	return r.repo.Path()
}

// Seed replaces branch on the remote with a single commit holding files. The
// first seeded branch becomes the remote's default branch.
func (r *Remote) Seed(ctx context.Context, branch string, files map[string]string) error {
	r.seeds++
	seed, err := git.Init(filepath.Join(r.root, fmt.Sprintf("seed-%d", r.seeds)))
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return err
	}

	if err := seed.RelinkHead(branch); err != nil {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return err
	}
	if _, err := CreateTestCommitWithFiles(seed, files, "seed "+branch); err != nil {
		return err
	}
	if err := seed.AddRemote(git.RemoteOptions{Name: git.DefaultRemote, URL: r.URL()}); err != nil {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return err
	}
	if err := seed.PushBranch(ctx, branch, git.PushOptions{Force: true}); err != nil {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return err
	}

	if r.seeds == 1 {
		return r.SetDefaultBranch(branch)
	}
	return nil
}

// SetDefaultBranch points the remote's HEAD at branch.
func (r *Remote) SetDefaultBranch(branch string) error {
	//nolint:wrapcheck // Test utility - errors from git package are already wrapped
	return r.repo.RelinkHead(branch)
}

// ReadFile returns the content of path on branch as currently stored in the
// remote.
func (r *Remote) ReadFile(branch, path string) (string, error) {
	repo := r.repo.Underlying()

	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	file, err := commit.File(path)
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	//nolint:wrapcheck // Test utility - errors from go-git are transparent
	return file.Contents()
}

// CommitCount returns the number of commits reachable from branch.
func (r *Remote) CommitCount(branch string) (int, error) {
	repo := r.repo.Underlying()

	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return 0, err
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return 0, err
	}

	count := 0
	for {
		count++
		if commit.NumParents() == 0 {
			return count, nil
		}
		commit, err = commit.Parent(0)
		if err != nil {
			//nolint:wrapcheck // Test utility - errors from go-git are transparent
			return 0, err
		}
	}
}
