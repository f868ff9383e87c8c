package git

import (
	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Repository wraps a go-git repository together with the billy filesystem holding
// its working tree.
type Repository struct {
	path      string
	repo      *gogit.Repository
	fs        billy.Filesystem
	remoteOps RemoteOperations
}

// Auth is an authentication method understood by go-git transports.
type Auth = transport.AuthMethod

// CloneOptions configures a clone.
type CloneOptions struct {
	URL           string
	Auth          Auth
	ReferenceName plumbing.ReferenceName // empty clones the remote's default branch
}

// PushOptions configures a push.
type PushOptions struct {
	RemoteName string // Default: "origin"
	RemoteURL  string // overrides the remote's configured URL when set
	RefSpecs   []string
	Auth       Auth
	Force      bool
}

// CommitOptions configures commit creation.
type CommitOptions struct {
	Author     string
	Email      string
	Message    string
	AllowEmpty bool
}

// RemoteOptions configures remote management.
type RemoteOptions struct {
	Name string
	URL  string
}

// RepositoryOption configures repository creation operations (Init, Open, Clone).
type RepositoryOption func(*repositoryOptions)

type repositoryOptions struct {
	fs            billy.Filesystem
	remoteOps     RemoteOperations
	bare          bool
	auth          Auth
	referenceName plumbing.ReferenceName
}

// WithFilesystem sets the billy filesystem the repository path is resolved
// against. If not provided, the path is opened on the local disk.
//
// Example:
//
//	repo, err := git.Init("/repo", git.WithFilesystem(memfs.New()))
func WithFilesystem(fs billy.Filesystem) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.fs = fs
	}
}

// WithRemoteOperations replaces the go-git backed network operations, mainly
// for tests that must not touch a remote.
func WithRemoteOperations(ops RemoteOperations) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.remoteOps = ops
	}
}

// WithBare creates a bare repository. Only applicable to Init.
func WithBare() RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.bare = true
	}
}

// WithAuth sets authentication for Clone.
func WithAuth(auth Auth) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.auth = auth
	}
}

// WithBranch selects the branch Clone checks out.
func WithBranch(branch string) RepositoryOption {
	return func(opts *repositoryOptions) {
		if branch == "" {
			opts.referenceName = ""
			return
		}
		opts.referenceName = plumbing.NewBranchReferenceName(branch)
	}
}
