package pages

import (
	"regexp"
	"strings"
)

// Host describes a pages-hosting provider.
type Host struct {
	// Domain is the suffix of account host names, e.g. github.io.
	Domain string

	// TransportRoot is prepended to "<account>/<repo>.git" to form repository URLs.
	TransportRoot string

	// SiteSuffix completes the account site repository name "<account>.<suffix>.git".
	SiteSuffix string

	// SiteBranch is the branch serving the account site.
	SiteBranch string

	// PagesBranch is the branch serving project sites.
	PagesBranch string

	// Schemes are the outer locator schemes naming this provider.
	Schemes []string
}

// GitHub is GitHub Pages.
var GitHub = Host{
	Domain:        "github.io",
	TransportRoot: "ssh://git@github.com/",
	SiteSuffix:    "github.io",
	SiteBranch:    "master",
	PagesBranch:   "gh-pages",
	Schemes:       []string{"github", "githubpages"},
}

// HasScheme reports whether scheme names this provider.
func (h Host) HasScheme(scheme string) bool {
	for _, s := range h.Schemes {
		if strings.EqualFold(s, scheme) {
			return true
		}
	}
	return false
}

// pattern matches "<account>.<domain>" with an optional trailing root dot.
func (h Host) pattern() *regexp.Regexp {
	return regexp.MustCompile(`^([a-z0-9-]+)\.` + regexp.QuoteMeta(h.Domain) + `\.?$`)
}

func (h Host) siteRepository(account string) string {
	return h.TransportRoot + account + "/" + account + "." + h.SiteSuffix + ".git"
}

func (h Host) projectRepository(account, project string) string {
	return h.TransportRoot + account + "/" + project + ".git"
}
