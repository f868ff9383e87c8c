package locator

import (
	"net/url"
	"strings"
)

// Resolve computes the locator reached by navigating relativePath from base.
//
// relativePath is percent-decoded first. Without a '?' the navigation stays in
// base's repository and the decoded path becomes the new resource. With a '?' the
// path names a repository boundary: it is resolved against base's repository URL
// joined with base's resource, and the segment holding the '?' becomes the new
// repository with the text after '?' as its branch. The new resource starts at the
// first '/' or '#' following the branch.
//
// "." and "" return base unchanged. Paths crossing more than one repository
// boundary fail with CodeInvalidLocator. Containment is not checked here.
//
// Example:
//
//	base, _ := locator.Parse("git:ssh://github.com/trajano/trajano.git?gh-pages#/")
//	loc, _ := locator.Resolve(base, "../coding-standards.git%3Fgh-pages%23")
//	// loc.RepositoryURL == "ssh://github.com/trajano/coding-standards.git"
//	// loc.Branch == "gh-pages"
func Resolve(base Locator, relativePath string) (Locator, error) {
	if relativePath == "" || relativePath == "." {
		return base, nil
	}

	decoded, err := url.PathUnescape(relativePath)
	if err != nil {
		return Locator{}, wrapInvalid(err, relativePath, "relative path is not correctly escaped")
	}

	switch strings.Count(decoded, "?") {
	case 0:
		return Locator{
			RepositoryURL: base.RepositoryURL,
			Branch:        base.Branch,
			Resource:      decoded,
		}, nil
	case 1:
	default:
		return Locator{}, invalid(relativePath, "relative path crosses more than one repository boundary")
	}

	// The boundary token is "<repo>?<branch>" followed by an optional '/' or '#'
	// that starts the resource.
	repoPath, tail, _ := strings.Cut(decoded, "?")

	baseURL, err := url.Parse(base.RepositoryURL)
	if err != nil {
		return Locator{}, wrapInvalid(err, base.RepositoryURL, "repository URL is not valid")
	}
	baseURL.Path = joinResource(baseURL.Path, base.Resource)
	baseURL.RawPath = ""
	baseURL.RawQuery = ""
	baseURL.Fragment = ""

	resolved := baseURL.ResolveReference(&url.URL{Path: repoPath})
	resolved.RawQuery = ""
	resolved.Fragment = ""

	branch, resource := tail, ""
	if i := strings.IndexAny(tail, "/#"); i >= 0 {
		branch = tail[:i]
		if tail[i] == '#' {
			resource = tail[i+1:]
		} else {
			resource = tail[i:]
		}
	}
	if branch == "" {
		return Locator{}, invalid(relativePath, "no branch given after repository boundary")
	}

	return Locator{
		RepositoryURL: resolved.String(),
		Branch:        branch,
		Resource:      resource,
	}, nil
}

// joinResource appends resource to the repository path. A non-empty resource is
// always separated by a '/' so the repository directory acts as the base for
// relative navigation.
func joinResource(repoPath, resource string) string {
	if resource == "" {
		return repoPath
	}
	if !strings.HasPrefix(resource, "/") {
		resource = "/" + resource
	}
	return repoPath + resource
}
