package locator

import (
	"net/url"
	"strings"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
)

// Scheme is the outer scheme of direct locators.
const Scheme = "git"

// Locator addresses a resource inside one branch of one repository. It is a
// value type; Resolve returns new locators instead of changing existing ones.
type Locator struct {
	// RepositoryURL is the transport URL handed to git, e.g. ssh://host/org/repo.git.
	RepositoryURL string

	// Branch is the branch holding the resource. Never empty for a parsed locator.
	Branch string

	// Resource is the path of the resource relative to the working-copy root.
	Resource string
}

// Parse parses a locator string of the form git:<uri>?<branch>#<resource>.
//
// "##" is un-escaped to "#" before the query and fragment are split off, and the
// resource is percent-decoded. Parse fails with CodeInvalidLocator when the inner
// URI is not absolute, is not a valid URI, or carries no branch.
//
// Example:
//
//	loc, err := locator.Parse("git:ssh://github.com/trajano/trajano.git?gh-pages#/")
//	// loc.RepositoryURL == "ssh://github.com/trajano/trajano.git"
//	// loc.Branch == "gh-pages", loc.Resource == "/"
func Parse(s string) (Locator, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok || !strings.EqualFold(scheme, Scheme) {
		return Locator{}, invalid(s, "locator must start with %q", Scheme+":")
	}

	return parseInner(strings.ReplaceAll(rest, "##", "#"), s)
}

// parseInner parses <uri>?<branch>#<resource> with the "##" escape already removed.
func parseInner(inner, original string) (Locator, error) {
	head, resource, _ := strings.Cut(inner, "#")

	u, err := url.Parse(head)
	if err != nil {
		return Locator{}, wrapInvalid(err, original, "inner URI is not valid")
	}
	if !u.IsAbs() {
		return Locator{}, invalid(original, "inner URI %q is not absolute", head)
	}
	if u.RawQuery == "" {
		return Locator{}, invalid(original, "no branch given")
	}

	branch, err := url.QueryUnescape(u.RawQuery)
	if err != nil {
		return Locator{}, wrapInvalid(err, original, "branch is not correctly escaped")
	}

	decoded, err := url.PathUnescape(resource)
	if err != nil {
		return Locator{}, wrapInvalid(err, original, "resource is not correctly escaped")
	}

	repo, _, _ := strings.Cut(head, "?")
	return Locator{
		RepositoryURL: repo,
		Branch:        branch,
		Resource:      decoded,
	}, nil
}

// String serialises l so that Parse(l.String()) == l.
func (l Locator) String() string {
	resource := strings.ReplaceAll(l.Resource, "%", "%25")
	resource = strings.ReplaceAll(resource, "#", "##")
	return Scheme + ":" + l.RepositoryURL + "?" + url.QueryEscape(l.Branch) + "#" + resource
}

// SchemeOf returns the lower-cased outer scheme of a locator string, or "" when
// there is none.
func SchemeOf(s string) string {
	scheme, _, ok := strings.Cut(s, ":")
	if !ok {
		return ""
	}
	return strings.ToLower(scheme)
}

func invalid(locator, format string, args ...any) error {
	err := platformerrors.Newf(platformerrors.CodeInvalidLocator, format, args...)
	return platformerrors.WithContext(err, "locator", locator)
}

func wrapInvalid(cause error, locator, message string) error {
	return platformerrors.WrapWithContext(cause, platformerrors.CodeInvalidLocator, message,
		map[string]any{"locator": locator})
}
