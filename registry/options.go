package registry

import (
	"github.com/jmgilman/go/gitwagon/git"
	"github.com/jmgilman/go/gitwagon/internal/logging"
)

const (
	// DefaultCommitMessage is the message of commits created by Flush.
	DefaultCommitMessage = "Published by gitwagon"

	// DefaultAuthorName and DefaultAuthorEmail sign commits created by Flush.
	DefaultAuthorName  = "gitwagon"
	DefaultAuthorEmail = "gitwagon@localhost"
)

// Option configures a Registry.
type Option func(*Registry)

// WithTransport replaces the go-git transport.
//
// Example:
//
//	reg := registry.New(builder, registry.WithTransport(registry.NewCLITransport()))
func WithTransport(transport Transport) Option {
	return func(r *Registry) {
		r.transport = transport
	}
}

// WithWorkDir sets the directory working copies are created in. Defaults to
// os.TempDir().
func WithWorkDir(dir string) Option {
	return func(r *Registry) {
		r.workRoot = dir
	}
}

// WithAuth uses the same authentication method for every repository.
func WithAuth(auth git.Auth) Option {
	return func(r *Registry) {
		r.authFor = func(string) (git.Auth, error) { return auth, nil }
	}
}

// WithCredentials derives the authentication method per repository URL.
//
// Example:
//
//	reg := registry.New(builder, registry.WithCredentials(git.Credentials{
//	    PrivateKeyFile: "~/.ssh/id_ed25519",
//	}))
func WithCredentials(creds git.Credentials) Option {
	return func(r *Registry) {
		r.authFor = creds.AuthFor
	}
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithCommitMessage sets the message of commits created by Flush.
func WithCommitMessage(message string) Option {
	return func(r *Registry) {
		r.message = message
	}
}

// WithAuthor sets the author of commits created by Flush.
func WithAuthor(name, email string) Option {
	return func(r *Registry) {
		r.author = Signature{Name: name, Email: email}
	}
}
