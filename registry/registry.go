package registry

import (
	"context"
	"errors"
	"os"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/git"
	"github.com/jmgilman/go/gitwagon/internal/logging"
	"github.com/jmgilman/go/gitwagon/locator"
)

// New creates an empty registry resolving resource names with builder.
//
// Example:
//
//	reg := registry.New(builder, registry.WithWorkDir(dir))
//	defer reg.Flush(ctx)
func New(builder locator.Builder, opts ...Option) *Registry {
	r := &Registry{
		builder:  builder,
		workRoot: os.TempDir(),
		authFor:  git.Credentials{}.AuthFor,
		message:  DefaultCommitMessage,
		author:   Signature{Name: DefaultAuthorName, Email: DefaultAuthorEmail},
		copies:   make(map[string]*WorkingCopy),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewNopLogger()
	}
	if r.transport == nil {
		r.transport = NewGoGitTransport()
	}

	return r
}

// Builder returns the builder resource names are resolved with.
func (r *Registry) Builder() locator.Builder {
	return r.builder
}

// Acquire returns the working copy of repositoryURL, cloning it on first use.
// When branch does not exist on the remote, HEAD is relinked to it so the next
// Flush creates it.
//
// A failed clone leaves nothing behind: its directory is removed and a later
// Acquire tries again.
func (r *Registry) Acquire(ctx context.Context, repositoryURL, branch string) (*WorkingCopy, error) {
	key := normalizeURL(repositoryURL)
	if wc, ok := r.copies[key]; ok {
		return wc, nil
	}

	if r.flushed {
		return nil, platformerrors.Newf(platformerrors.CodeConflict, "registry was flushed, cannot acquire %s", repositoryURL)
	}

	log := r.logger.WithOperation("acquire").WithRepository(repositoryURL)

	auth, err := r.authFor(repositoryURL)
	if err != nil {
		return nil, platformerrors.WrapWithContext(err, platformerrors.CodeUnauthorized, "failed to prepare authentication", map[string]any{
			"repository": repositoryURL,
		})
	}

	if err := os.MkdirAll(r.workRoot, 0o750); err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to create work directory")
	}
	dir, err := os.MkdirTemp(r.workRoot, dirPrefix(key))
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to create working copy directory")
	}

	wc, err := r.checkout(ctx, log, CloneRequest{URL: repositoryURL, Branch: branch, Dir: dir, Auth: auth})
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			log.Warn(ctx, "failed to remove working copy directory", "dir", dir, "error", rmErr)
		}
		return nil, err
	}

	wc.Key = key
	r.copies[key] = wc
	r.order = append(r.order, wc)
	return wc, nil
}

func (r *Registry) checkout(ctx context.Context, log *logging.Logger, req CloneRequest) (*WorkingCopy, error) {
	log.Debug(ctx, "cloning repository", "branch", req.Branch, "dir", req.Dir)

	cloned, err := r.transport.Clone(ctx, req)
	if err != nil {
		return nil, transportError(err, "failed to clone repository", req.URL)
	}
	log.Debug(ctx, "cloned repository", "branch", cloned)

	if cloned != req.Branch {
		log.Info(ctx, "bootstrapping branch missing on remote", "branch", req.Branch, "cloned", cloned)
		if err := r.transport.ForceCheckout(ctx, req.Dir, req.Branch); err != nil {
			return nil, transportError(err, "failed to bootstrap branch", req.URL)
		}
	}

	root, err := canonicalize(req.Dir)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to canonicalize working copy directory")
	}

	return &WorkingCopy{
		URL:    req.URL,
		Dir:    req.Dir,
		Branch: req.Branch,
		root:   root,
	}, nil
}

// Resolve locates resourceName, acquires the repository it lives in and maps
// it onto the working copy.
//
// Fails with CodePathEscape when the resource resolves outside the working
// copy, following symbolic links.
func (r *Registry) Resolve(ctx context.Context, resourceName string) (*Resolution, error) {
	loc, err := r.builder.Locate(ctx, resourceName)
	if err != nil {
		//nolint:wrapcheck // Builders return platform errors
		return nil, err
	}

	wc, err := r.Acquire(ctx, loc.RepositoryURL, loc.Branch)
	if err != nil {
		return nil, err
	}

	path, err := wc.localPath(loc.Resource)
	if err != nil {
		return nil, err
	}

	return &Resolution{Locator: loc, WorkingCopy: wc, Path: path}, nil
}

// ResolveToLocalPath returns the local file path backing resourceName.
//
// Example:
//
//	path, err := reg.ResolveToLocalPath(ctx, "css/site.css")
func (r *Registry) ResolveToLocalPath(ctx context.Context, resourceName string) (string, error) {
	res, err := r.Resolve(ctx, resourceName)
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// Lookup returns the working copy containing path.
func (r *Registry) Lookup(path string) (*WorkingCopy, bool) {
	canonical, err := canonicalize(path)
	if err != nil {
		return nil, false
	}
	for _, wc := range r.order {
		if within(wc.root, canonical) {
			return wc, true
		}
	}
	return nil, false
}

// MarkDirty records that wc has local modifications.
func (r *Registry) MarkDirty(wc *WorkingCopy) {
	if wc != nil {
		wc.Dirty = true
	}
}

// WorkingCopies returns the working copies in creation order.
func (r *Registry) WorkingCopies() []*WorkingCopy {
	return append([]*WorkingCopy(nil), r.order...)
}

// Flush stages, commits and pushes every working copy in creation order.
// Working copies that were pushed are deleted; a failed one keeps its
// directory and the remaining ones are still flushed. The first error is
// returned. Calling Flush again does nothing.
func (r *Registry) Flush(ctx context.Context) error {
	if r.flushed {
		return nil
	}
	r.flushed = true

	var first error
	for _, wc := range r.order {
		if err := r.flush(ctx, wc); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (r *Registry) flush(ctx context.Context, wc *WorkingCopy) error {
	log := r.logger.WithOperation("flush").WithRepository(wc.URL)

	auth, err := r.authFor(wc.URL)
	if err != nil {
		err = platformerrors.WrapWithContext(err, platformerrors.CodeUnauthorized, "failed to prepare authentication", map[string]any{
			"repository": wc.URL,
		})
	} else {
		err = r.transport.StageCommitPush(ctx, PushRequest{
			Dir:     wc.Dir,
			URL:     wc.URL,
			Branch:  wc.Branch,
			Message: r.message,
			Author:  r.author,
			Auth:    auth,
		})
		if err != nil {
			err = transportError(err, "failed to push working copy", wc.URL)
		}
	}
	if err != nil {
		log.Error(ctx, "flush failed, keeping working copy", "dir", wc.Dir, "branch", wc.Branch, "error", err)
		return err
	}

	if err := os.RemoveAll(wc.Dir); err != nil {
		log.Warn(ctx, "failed to remove working copy", "dir", wc.Dir, "error", err)
		return nil
	}
	log.Debug(ctx, "removed working copy", "dir", wc.Dir, "dirty", wc.Dirty)
	return nil
}

// transportError wraps err, keeping the codes callers act on and reporting
// everything else as a transport error or timeout.
func transportError(err error, message, repositoryURL string) error {
	code := platformerrors.CodeTransport
	if errors.Is(err, context.DeadlineExceeded) {
		code = platformerrors.CodeTimeout
	}
	for _, keep := range []platformerrors.ErrorCode{
		platformerrors.CodeRepositoryNotFound,
		platformerrors.CodePushConflict,
		platformerrors.CodeUnauthorized,
		platformerrors.CodeForbidden,
	} {
		if platformerrors.HasCode(err, keep) {
			code = keep
			break
		}
	}

	return platformerrors.WrapWithContext(err, code, message, map[string]any{
		"repository": repositoryURL,
	})
}
