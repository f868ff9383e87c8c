// Package registry keeps the local working copies of the repositories a
// transfer session touches.
//
// A Registry clones each repository at most once, on first use, into a
// temporary directory under its work root. Resource names are turned into
// local paths through a locator.Builder, and every path handed out is checked
// against the canonical root of its working copy, so a resource can never
// point outside the repository it was resolved in.
//
// Branches that do not exist on the remote yet are bootstrapped: the clone
// falls back to the remote's default branch and HEAD is relinked to the
// requested branch, so the first Flush creates it.
//
// # Lifecycle
//
//	reg := registry.New(locator.NewDirectBuilder(base),
//	    registry.WithCredentials(creds),
//	    registry.WithLogger(logger),
//	)
//	path, err := reg.ResolveToLocalPath(ctx, "docs/index.html")
//	// write to path ...
//	err = reg.Flush(ctx) // stage, commit and push every working copy
//
// Flush walks the working copies in creation order and is best effort: a
// failing repository does not stop the others, its directory is left in place
// for inspection, and the first error is returned. A Registry is meant to be
// used by one goroutine, like the session that owns it.
//
// # Transports
//
// GoGitTransport, the default, talks to remotes through go-git. CLITransport
// runs the git binary instead, which picks up the user's git configuration and
// credential helpers.
package registry
