package wagon

import (
	"context"

	"github.com/go-git/go-billy/v5"
	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/git"
	"github.com/jmgilman/go/gitwagon/internal/logging"
	"github.com/jmgilman/go/gitwagon/locator"
	"github.com/jmgilman/go/gitwagon/pages"
	"github.com/jmgilman/go/gitwagon/registry"
)

// Session is one connection to a locator. It owns the registry of working
// copies it touched and must be closed to publish changes. A Session is not
// safe for concurrent use.
type Session struct {
	builder  locator.Builder
	registry *registry.Registry
	logger   *logging.Logger
	fs       map[*registry.WorkingCopy]billy.Filesystem
}

// Option configures Open.
type Option func(*options)

type options struct {
	logger      *logging.Logger
	resolver    *pages.Resolver
	credentials *git.Credentials
	registry    []registry.Option
}

// WithLogger sets the logger used by the session, its registry and the default
// pages resolver.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCredentials sets the credentials repositories are accessed with.
func WithCredentials(creds git.Credentials) Option {
	return func(o *options) {
		o.credentials = &creds
	}
}

// WithTransport selects the git transport.
func WithTransport(transport registry.Transport) Option {
	return WithRegistryOptions(registry.WithTransport(transport))
}

// WithWorkDir sets where working copies are cloned.
func WithWorkDir(dir string) Option {
	return WithRegistryOptions(registry.WithWorkDir(dir))
}

// WithPagesResolver replaces the resolver used for pages locators.
func WithPagesResolver(resolver *pages.Resolver) Option {
	return func(o *options) {
		o.resolver = resolver
	}
}

// WithRegistryOptions passes options through to the registry.
func WithRegistryOptions(opts ...registry.Option) Option {
	return func(o *options) {
		o.registry = append(o.registry, opts...)
	}
}

// Open starts a session on locatorString. Nothing is cloned until the first
// resource is accessed.
//
// git: locators are used as they are. Locators using one of the pages
// resolver's schemes (github:, githubpages:) are mapped to their repository
// first, which may issue an HTTP request and a DNS lookup. Anything else fails
// with CodeInvalidLocator.
func Open(ctx context.Context, locatorString string, opts ...Option) (*Session, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewNopLogger()
	}
	if o.resolver == nil {
		o.resolver = pages.NewResolver(pages.WithLogger(o.logger))
	}

	builder, err := newBuilder(ctx, o.resolver, locatorString)
	if err != nil {
		return nil, err
	}

	regOpts := []registry.Option{registry.WithLogger(o.logger)}
	if o.credentials != nil {
		regOpts = append(regOpts, registry.WithCredentials(*o.credentials))
	}
	regOpts = append(regOpts, o.registry...)

	base := builder.Base()
	o.logger.Debug(ctx, "opened session", "repository", base.RepositoryURL, "branch", base.Branch, "resource", base.Resource)

	return &Session{
		builder:  builder,
		registry: registry.New(builder, regOpts...),
		logger:   o.logger,
		fs:       make(map[*registry.WorkingCopy]billy.Filesystem),
	}, nil
}

func newBuilder(ctx context.Context, resolver *pages.Resolver, locatorString string) (locator.Builder, error) {
	scheme := locator.SchemeOf(locatorString)
	switch {
	case scheme == locator.Scheme:
		base, err := locator.Parse(locatorString)
		if err != nil {
			//nolint:wrapcheck // Parse returns platform errors
			return nil, err
		}
		return locator.NewDirectBuilder(base), nil
	case resolver.Host().HasScheme(scheme):
		//nolint:wrapcheck // NewBuilder returns platform errors
		return pages.NewBuilder(ctx, resolver, locatorString)
	default:
		err := platformerrors.Newf(platformerrors.CodeInvalidLocator, "unsupported locator scheme %q", scheme)
		return nil, platformerrors.WithContext(err, "locator", locatorString)
	}
}

// Locator returns the locator the session was opened on.
func (s *Session) Locator() locator.Locator {
	return s.builder.Base()
}

// Registry returns the registry holding the session's working copies.
func (s *Session) Registry() *registry.Registry {
	return s.registry
}

// ResolveToLocalPath returns the local path backing resource, cloning its
// repository if needed.
func (s *Session) ResolveToLocalPath(ctx context.Context, resource string) (string, error) {
	//nolint:wrapcheck // Registry returns platform errors
	return s.registry.ResolveToLocalPath(ctx, resource)
}

// Close commits and pushes every working copy. See registry.Registry.Flush.
func (s *Session) Close(ctx context.Context) error {
	//nolint:wrapcheck // Registry returns platform errors
	return s.registry.Flush(ctx)
}
