package git

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Init creates a new Git repository at path.
//
// By default the repository is created on the local disk with its metadata in a
// .git directory. WithBare places the metadata at path itself and skips the
// working tree.
//
// Examples:
//
//	repo, err := git.Init("/path/to/repo")
//	repo, err := git.Init("/path/to/remote.git", git.WithBare())
func Init(path string, opts ...RepositoryOption) (*Repository, error) {
	options := applyOptions(opts)

	root, err := rootFilesystem(options, path)
	if err != nil {
		return nil, err
	}

	if options.bare {
		storage := filesystem.NewStorage(root, cache.NewObjectLRUDefault())
		repo, err := gogit.Init(storage, nil)
		if err != nil {
			return nil, wrapError(err, "failed to initialize bare repository")
		}
		return newRepository(path, repo, root, options), nil
	}

	storage, err := dotGitStorage(root)
	if err != nil {
		return nil, err
	}

	repo, err := gogit.Init(storage, root)
	if err != nil {
		return nil, wrapError(err, "failed to initialize repository")
	}

	return newRepository(path, repo, root, options), nil
}

// Open opens an existing repository at path. Both standard and bare layouts are
// recognised.
func Open(path string, opts ...RepositoryOption) (*Repository, error) {
	options := applyOptions(opts)

	root, err := rootFilesystem(options, path)
	if err != nil {
		return nil, err
	}

	var repo *gogit.Repository
	if stat, statErr := root.Stat(gogit.GitDirName); statErr == nil && stat.IsDir() {
		storage, err := dotGitStorage(root)
		if err != nil {
			return nil, err
		}
		repo, err = gogit.Open(storage, root)
		if err != nil {
			return nil, wrapError(err, "failed to open repository")
		}
	} else {
		storage := filesystem.NewStorage(root, cache.NewObjectLRUDefault())
		repo, err = gogit.Open(storage, nil)
		if err != nil {
			return nil, wrapError(err, "failed to open repository")
		}
	}

	return newRepository(path, repo, root, options), nil
}

// Clone clones url into path and checks out the branch chosen with WithBranch,
// or the remote's default branch.
//
// Examples:
//
//	repo, err := git.Clone(ctx, "https://github.com/org/repo", dir)
//	repo, err := git.Clone(ctx, url, dir, git.WithBranch("gh-pages"), git.WithAuth(auth))
func Clone(ctx context.Context, url string, path string, opts ...RepositoryOption) (*Repository, error) {
	options := applyOptions(opts)

	root, err := rootFilesystem(options, path)
	if err != nil {
		return nil, err
	}

	repo, err := options.remoteOps.Clone(ctx, root, CloneOptions{
		URL:           url,
		Auth:          options.auth,
		ReferenceName: options.referenceName,
	})
	if err != nil {
		//nolint:wrapcheck // Errors from remoteOps are already wrapped in their implementations
		return nil, err
	}

	repo.path = path
	repo.remoteOps = options.remoteOps
	return repo, nil
}

// Underlying returns the go-git repository for operations not covered by this
// wrapper.
func (r *Repository) Underlying() *gogit.Repository {
	return r.repo
}

// Filesystem returns the filesystem scoped to the working tree (or to the
// repository directory for bare repositories).
func (r *Repository) Filesystem() billy.Filesystem {
	return r.fs
}

// Path returns the path the repository was created or opened with.
func (r *Repository) Path() string {
	return r.path
}

func applyOptions(opts []RepositoryOption) *repositoryOptions {
	options := &repositoryOptions{
		remoteOps: &defaultRemoteOps{},
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func newRepository(path string, repo *gogit.Repository, fs billy.Filesystem, options *repositoryOptions) *Repository {
	return &Repository{
		path:      path,
		repo:      repo,
		fs:        fs,
		remoteOps: options.remoteOps,
	}
}

// rootFilesystem returns a filesystem whose root is path.
func rootFilesystem(options *repositoryOptions, path string) (billy.Filesystem, error) {
	if options.fs == nil {
		return osfs.New(path, osfs.WithBoundOS()), nil
	}

	if err := options.fs.MkdirAll(path, 0o755); err != nil {
		return nil, wrapError(err, "failed to create repository directory")
	}

	scoped, err := options.fs.Chroot(path)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to path")
	}
	return scoped, nil
}

func dotGitStorage(root billy.Filesystem) (*filesystem.Storage, error) {
	dotGit, err := root.Chroot(gogit.GitDirName)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to .git")
	}
	return filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault()), nil
}
