package git

import (
	"context"
	"errors"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// DefaultRemote is the remote name Clone configures and Push uses by default.
const DefaultRemote = "origin"

// RemoteOperations defines the network operations of this package. Tests replace
// the go-git implementation through WithRemoteOperations.
type RemoteOperations interface {
	// Clone clones a remote repository into fs, which is the future working tree.
	Clone(ctx context.Context, fs billy.Filesystem, opts CloneOptions) (*Repository, error)

	// Push uploads refs to a remote.
	Push(ctx context.Context, repo *Repository, opts PushOptions) error
}

type defaultRemoteOps struct{}

// Clone implements RemoteOperations.Clone with go-git's CloneContext.
func (d *defaultRemoteOps) Clone(ctx context.Context, fs billy.Filesystem, opts CloneOptions) (*Repository, error) {
	storage, err := dotGitStorage(fs)
	if err != nil {
		return nil, err
	}

	repo, err := gogit.CloneContext(ctx, storage, fs, &gogit.CloneOptions{
		URL:           opts.URL,
		Auth:          opts.Auth,
		ReferenceName: opts.ReferenceName,
	})
	if err != nil {
		return nil, wrapError(err, "failed to clone repository")
	}

	return &Repository{
		repo: repo,
		fs:   fs,
	}, nil
}

// Push implements RemoteOperations.Push with go-git's PushContext. An up-to-date
// remote is not an error.
func (d *defaultRemoteOps) Push(ctx context.Context, repo *Repository, opts PushOptions) error {
	remoteName := opts.RemoteName
	if remoteName == "" {
		remoteName = DefaultRemote
	}

	pushOpts := &gogit.PushOptions{
		RemoteName: remoteName,
		RemoteURL:  opts.RemoteURL,
		Auth:       opts.Auth,
		Force:      opts.Force,
	}
	for _, refSpec := range opts.RefSpecs {
		pushOpts.RefSpecs = append(pushOpts.RefSpecs, config.RefSpec(refSpec))
	}

	err := repo.repo.PushContext(ctx, pushOpts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapError(err, "failed to push to remote")
	}

	return nil
}

// AddRemote adds a remote to the repository configuration.
//
// Example:
//
//	err := repo.AddRemote(git.RemoteOptions{Name: "origin", URL: url})
func (r *Repository) AddRemote(opts RemoteOptions) error {
	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: opts.Name,
		URLs: []string{opts.URL},
	})
	if err != nil {
		return wrapError(err, "failed to add remote")
	}

	return nil
}

// RemoteURL returns the first URL configured for the named remote.
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", wrapError(err, "failed to read remote")
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", wrapError(gogit.ErrMissingURL, "failed to read remote")
	}
	return urls[0], nil
}

// Push uploads refs to the remote described by opts.
//
// Example:
//
//	err := repo.Push(ctx, git.PushOptions{
//	    RefSpecs: []string{"refs/heads/gh-pages:refs/heads/gh-pages"},
//	    Auth:     auth,
//	})
func (r *Repository) Push(ctx context.Context, opts PushOptions) error {
	ops := r.remoteOps
	if ops == nil {
		ops = &defaultRemoteOps{}
	}
	//nolint:wrapcheck // Errors from remoteOps are already wrapped in their implementations
	return ops.Push(ctx, r, opts)
}

// PushBranch pushes the local branch to the same branch name on the remote.
func (r *Repository) PushBranch(ctx context.Context, branch string, opts PushOptions) error {
	ref := "refs/heads/" + branch
	opts.RefSpecs = []string{ref + ":" + ref}
	return r.Push(ctx, opts)
}
