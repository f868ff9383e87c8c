package registry

import (
	"context"
	"errors"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/git"
)

// GoGitTransport implements Transport with go-git.
type GoGitTransport struct {
	opts []git.RepositoryOption
}

// NewGoGitTransport creates a go-git backed transport. The options are passed
// to every git.Clone and git.Open call.
func NewGoGitTransport(opts ...git.RepositoryOption) *GoGitTransport {
	return &GoGitTransport{opts: opts}
}

// Clone implements Transport.Clone.
func (t *GoGitTransport) Clone(ctx context.Context, req CloneRequest) (string, error) {
	repo, err := t.clone(ctx, req, req.Branch)
	if err != nil && req.Branch != "" && isMissingBranch(err) {
		repo, err = t.clone(ctx, req, "")
	}
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		repo, err = t.initEmpty(req)
	}
	if err != nil {
		return "", err
	}

	//nolint:wrapcheck // Errors from git are already wrapped
	return repo.CurrentBranch()
}

func (t *GoGitTransport) clone(ctx context.Context, req CloneRequest, branch string) (*git.Repository, error) {
	// go-git leaves a partially initialized repository behind on failure.
	if err := resetDir(req.Dir); err != nil {
		return nil, err
	}

	opts := append([]git.RepositoryOption{git.WithAuth(req.Auth), git.WithBranch(branch)}, t.opts...)
	//nolint:wrapcheck // Errors from git are already wrapped
	return git.Clone(ctx, req.URL, req.Dir, opts...)
}

func (t *GoGitTransport) initEmpty(req CloneRequest) (*git.Repository, error) {
	if err := resetDir(req.Dir); err != nil {
		return nil, err
	}

	repo, err := git.Init(req.Dir, t.opts...)
	if err != nil {
		//nolint:wrapcheck // Errors from git are already wrapped
		return nil, err
	}
	if err := repo.AddRemote(git.RemoteOptions{Name: git.DefaultRemote, URL: req.URL}); err != nil {
		//nolint:wrapcheck // Errors from git are already wrapped
		return nil, err
	}
	return repo, nil
}

// ForceCheckout implements Transport.ForceCheckout.
func (t *GoGitTransport) ForceCheckout(_ context.Context, dir, branch string) error {
	repo, err := git.Open(dir, t.opts...)
	if err != nil {
		//nolint:wrapcheck // Errors from git are already wrapped
		return err
	}
	//nolint:wrapcheck // Errors from git are already wrapped
	return repo.RelinkHead(branch)
}

// StageCommitPush implements Transport.StageCommitPush.
func (t *GoGitTransport) StageCommitPush(ctx context.Context, req PushRequest) error {
	repo, err := git.Open(req.Dir, t.opts...)
	if err != nil {
		//nolint:wrapcheck // Errors from git are already wrapped
		return err
	}

	if err := repo.StageAll(); err != nil {
		//nolint:wrapcheck // Errors from git are already wrapped
		return err
	}

	clean, err := repo.IsClean()
	if err != nil {
		//nolint:wrapcheck // Errors from git are already wrapped
		return err
	}
	if clean {
		return nil
	}

	if _, err := repo.CreateCommit(git.CommitOptions{
		Author:  req.Author.Name,
		Email:   req.Author.Email,
		Message: req.Message,
	}); err != nil {
		//nolint:wrapcheck // Errors from git are already wrapped
		return err
	}

	//nolint:wrapcheck // Errors from git are already wrapped
	return repo.PushBranch(ctx, req.Branch, git.PushOptions{
		RemoteURL: req.URL,
		Auth:      req.Auth,
	})
}

// isMissingBranch reports whether a clone failed because the requested branch
// is not on the remote.
func isMissingBranch(err error) bool {
	return platformerrors.HasCode(err, platformerrors.CodeNotFound) &&
		!errors.Is(err, transport.ErrEmptyRemoteRepository)
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to clear clone directory")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to create clone directory")
	}
	return nil
}
