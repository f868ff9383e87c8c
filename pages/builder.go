package pages

import (
	"context"
	"net/url"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/locator"
)

// Builder is the locator.Builder for pages sessions. Resource names are resolved
// against the site URL and mapped back to repositories with the provider's rules,
// so "../other/index.html" reaches the sibling project's repository.
type Builder struct {
	resolver *Resolver
	site     *url.URL
	base     locator.Locator
}

var _ locator.Builder = (*Builder)(nil)

// NewBuilder resolves pagesURL once, including its redirect, and anchors the
// Builder there.
func NewBuilder(ctx context.Context, resolver *Resolver, pagesURL string) (*Builder, error) {
	site, err := resolver.SiteURL(ctx, pagesURL)
	if err != nil {
		return nil, err
	}

	base, err := resolver.Derive(ctx, site)
	if err != nil {
		return nil, err
	}

	return &Builder{
		resolver: resolver,
		site:     site,
		base:     base,
	}, nil
}

// Base implements locator.Builder.
func (b *Builder) Base() locator.Locator {
	return b.base
}

// Locate implements locator.Builder.
//
// On an account site every resource stays in the site repository, since the
// first path segment there is a directory rather than a project.
func (b *Builder) Locate(ctx context.Context, resourceName string) (locator.Locator, error) {
	if resourceName == "" || resourceName == "." {
		return b.base, nil
	}

	ref, err := url.Parse(resourceName)
	if err != nil {
		return locator.Locator{}, platformerrors.WrapWithContext(err, platformerrors.CodeInvalidLocator,
			"resource name is not a valid relative URL", map[string]any{"resource": resourceName})
	}
	resolved := b.site.ResolveReference(ref)

	if b.site.Path == "" || b.site.Path == "/" {
		account, err := b.resolver.Account(ctx, b.site.Hostname())
		if err != nil {
			return locator.Locator{}, err
		}
		return b.resolver.siteLocator(account, resolved.Path), nil
	}

	return b.resolver.Derive(ctx, resolved)
}
