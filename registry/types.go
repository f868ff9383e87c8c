package registry

import (
	"context"

	"github.com/jmgilman/go/gitwagon/git"
	"github.com/jmgilman/go/gitwagon/internal/logging"
	"github.com/jmgilman/go/gitwagon/locator"
)

// Registry maps repository URLs to local working copies.
type Registry struct {
	builder   locator.Builder
	transport Transport
	workRoot  string
	authFor   func(url string) (git.Auth, error)
	logger    *logging.Logger
	message   string
	author    Signature

	copies  map[string]*WorkingCopy
	order   []*WorkingCopy
	flushed bool
}

// WorkingCopy is a local clone owned by a Registry.
type WorkingCopy struct {
	// Key is the normalized repository URL the copy is registered under.
	Key string

	// URL is the repository URL the copy was cloned from and is pushed to.
	URL string

	// Dir is the directory holding the working tree.
	Dir string

	// Branch is the branch HEAD points to.
	Branch string

	// Dirty is set once something was written through the registry.
	Dirty bool

	root string // canonical form of Dir
}

// Root returns Dir with symbolic links resolved. Paths returned by the
// registry are always below Root.
func (wc *WorkingCopy) Root() string {
	return wc.root
}

// Resolution is the outcome of resolving a resource name.
type Resolution struct {
	Locator     locator.Locator
	WorkingCopy *WorkingCopy
	Path        string
}

// Signature identifies the author of flush commits.
type Signature struct {
	Name  string
	Email string
}

// CloneRequest describes one clone.
type CloneRequest struct {
	URL    string
	Branch string // falls back to the remote's default branch when missing
	Dir    string // existing, empty directory
	Auth   git.Auth
}

// PushRequest describes staging, committing and pushing one working copy.
type PushRequest struct {
	Dir     string
	URL     string
	Branch  string
	Message string
	Author  Signature
	Auth    git.Auth
}

// Transport performs the git operations a Registry needs.
type Transport interface {
	// Clone clones req.URL into req.Dir and returns the branch HEAD points to
	// afterwards. When req.Branch does not exist on the remote the default
	// branch is cloned instead. An empty remote yields an initialized
	// repository with origin configured.
	Clone(ctx context.Context, req CloneRequest) (string, error)

	// ForceCheckout points HEAD of the working copy in dir at branch without
	// touching the working tree.
	ForceCheckout(ctx context.Context, dir, branch string) error

	// StageCommitPush stages every change, commits and pushes req.Branch. A
	// working copy without changes is neither committed nor pushed.
	StageCommitPush(ctx context.Context, req PushRequest) error
}
