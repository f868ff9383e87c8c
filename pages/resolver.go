package pages

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/internal/logging"
	"github.com/jmgilman/go/gitwagon/locator"
)

// Resolver maps pages URLs to locators. Account names found for a host, directly
// or through DNS, are remembered for the lifetime of the Resolver.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	host     Host
	pattern  *regexp.Regexp
	lookup   CNAMELookup
	client   *http.Client
	logger   *logging.Logger
	accounts map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHost selects the pages provider. Defaults to GitHub.
func WithHost(host Host) Option {
	return func(r *Resolver) {
		r.host = host
	}
}

// WithLookup sets the CNAME lookup used for custom domains.
func WithLookup(lookup CNAMELookup) Option {
	return func(r *Resolver) {
		r.lookup = lookup
	}
}

// WithHTTPClient sets the client used to follow the site redirect. Its
// CheckRedirect is replaced so that at most one redirect is followed.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver. Without WithLookup custom domains are looked up
// with DNSLookup against the system's resolvers.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		host:     GitHub,
		client:   &http.Client{},
		logger:   logging.NewNopLogger(),
		accounts: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}

	client := *r.client
	client.CheckRedirect = followOnce
	r.client = &client
	r.pattern = r.host.pattern()

	return r
}

// Host returns the provider this Resolver derives repositories for.
func (r *Resolver) Host() Host {
	return r.host
}

// Resolve derives the locator for pagesURL. An outer provider scheme such as
// "githubpages:" is stripped first.
//
// Example:
//
//	loc, err := r.Resolve(ctx, "http://customsite.example")
//	// with customsite.example CNAME acct.github.io.:
//	// loc.RepositoryURL == "ssh://git@github.com/acct/acct.github.io.git"
//	// loc.Branch == "master", loc.Resource == "/"
func (r *Resolver) Resolve(ctx context.Context, pagesURL string) (locator.Locator, error) {
	site, err := r.SiteURL(ctx, pagesURL)
	if err != nil {
		return locator.Locator{}, err
	}
	return r.Derive(ctx, site)
}

// SiteURL parses pagesURL and, for http and https, follows at most one redirect
// so that folder URLs missing their trailing slash are normalised.
func (r *Resolver) SiteURL(ctx context.Context, pagesURL string) (*url.URL, error) {
	raw := pagesURL
	if scheme, rest, ok := strings.Cut(pagesURL, ":"); ok && r.host.HasScheme(scheme) {
		raw = rest
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, platformerrors.WrapWithContext(err, platformerrors.CodeInvalidLocator,
			"pages URL is not valid", map[string]any{"url": pagesURL})
	}
	if u.Host == "" {
		return nil, platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeInvalidLocator, "pages URL has no host"), "url", pagesURL)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return u, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidLocator, "pages URL is not valid")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, platformerrors.WrapWithContext(err, platformerrors.CodeTransport,
			"failed to reach pages site", map[string]any{"url": u.String()})
	}
	_ = resp.Body.Close()

	final := resp.Request.URL
	if final.String() != u.String() {
		r.logger.Debug(ctx, "pages site redirected", "from", u.String(), "to", final.String())
	}
	return final, nil
}

// Derive maps an already normalised site URL to a locator without any HTTP
// traffic. The host may still need a DNS lookup.
func (r *Resolver) Derive(ctx context.Context, site *url.URL) (locator.Locator, error) {
	account, err := r.Account(ctx, site.Hostname())
	if err != nil {
		return locator.Locator{}, err
	}

	if site.Path == "" || site.Path == "/" {
		return r.siteLocator(account, "/"), nil
	}

	project, resource, _ := strings.Cut(strings.TrimPrefix(site.Path, "/"), "/")
	resource = "/" + resource

	return locator.Locator{
		RepositoryURL: r.host.projectRepository(account, project),
		Branch:        r.host.PagesBranch,
		Resource:      resource,
	}, nil
}

// Account returns the account name served at host. A host of the form
// <account>.<domain> never triggers a DNS lookup; any other host must be a CNAME
// alias of such a host.
func (r *Resolver) Account(ctx context.Context, host string) (string, error) {
	host = strings.ToLower(host)
	if account, ok := r.accounts[host]; ok {
		return account, nil
	}

	if m := r.pattern.FindStringSubmatch(host); m != nil {
		r.accounts[host] = m[1]
		return m[1], nil
	}

	lookup, err := r.cnameLookup()
	if err != nil {
		return "", err
	}

	target, err := lookup.LookupCNAME(ctx, host)
	if err != nil {
		return "", platformerrors.WrapWithContext(err, platformerrors.CodeHostResolution,
			"CNAME lookup failed", map[string]any{"host": host})
	}
	if target == "" {
		r.logger.Error(ctx, "no CNAME record for pages host", "host", host)
		return "", hostResolutionError(host, "host is not a pages host and has no CNAME record")
	}

	m := r.pattern.FindStringSubmatch(strings.ToLower(target))
	if m == nil {
		return "", platformerrors.WithContext(
			hostResolutionError(host, "CNAME target is not a pages host"), "target", target)
	}

	r.logger.Debug(ctx, "pages host resolved through CNAME", "host", host, "target", target, "account", m[1])
	r.accounts[host] = m[1]
	return m[1], nil
}

func (r *Resolver) siteLocator(account, resource string) locator.Locator {
	return locator.Locator{
		RepositoryURL: r.host.siteRepository(account),
		Branch:        r.host.SiteBranch,
		Resource:      resource,
	}
}

func (r *Resolver) cnameLookup() (CNAMELookup, error) {
	if r.lookup != nil {
		return r.lookup, nil
	}

	lookup, err := NewDNSLookup()
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeHostResolution, "no DNS resolver available")
	}
	r.lookup = lookup
	return lookup, nil
}

func hostResolutionError(host, message string) error {
	return platformerrors.WithContext(platformerrors.New(platformerrors.CodeHostResolution, message), "host", host)
}

// followOnce lets the client follow a single redirect and then hands back the
// second redirect response as is.
func followOnce(_ *http.Request, via []*http.Request) error {
	if len(via) > 1 {
		return http.ErrUseLastResponse
	}
	return nil
}
