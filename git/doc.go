// Package git is a thin wrapper around go-git covering what a repository-backed
// transfer needs: creating and cloning working copies, staging and committing the
// whole tree, relinking HEAD to a branch that does not exist yet, and pushing a
// single branch back to its origin.
//
// All repository I/O goes through go-billy. By default a repository is rooted on the
// local disk with osfs; tests pass WithFilesystem(memfs.New()) to stay in memory.
//
// # Factory Functions
//
// Init creates a repository, Open opens an existing one and Clone fetches one from a
// remote URL. All three accept RepositoryOption values:
//
//	repo, err := git.Clone(ctx, "ssh://git@github.com/org/site.git", dir,
//	    git.WithAuth(auth),
//	    git.WithBranch("gh-pages"))
//
// # Network Operations
//
// Clone and Push go through the RemoteOperations interface. The default
// implementation calls go-git directly; tests substitute their own through
// WithRemoteOperations.
//
// # Authentication
//
//	auth, err := git.SSHKeyFile("git", "/home/user/.ssh/id_ed25519", git.WithSSHPassword(pass))
//	auth, err := git.SSHAgent("git")
//	auth := git.BasicAuth("user", "token")
//
// # Errors
//
// Errors returned by this package are classified into platform error codes (see
// package errors) while the go-git cause stays in the chain, so both of these work:
//
//	errors.HasCode(err, errors.CodeRepositoryNotFound)
//	errors.Is(err, transport.ErrRepositoryNotFound)
//
// # Escape Hatches
//
// Repository.Underlying returns the go-git repository for anything not covered here.
package git
