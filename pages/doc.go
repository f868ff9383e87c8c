// Package pages derives repository locators from public pages-hosting URLs.
//
// A site served at https://acct.github.io/project/ lives on the gh-pages branch of
// ssh://git@github.com/acct/project.git, and the account site at
// https://acct.github.io/ on the master branch of acct.github.io.git. Custom
// domains are mapped back to the account through their DNS CNAME record.
//
//	r := pages.NewResolver(pages.WithLookup(lookup))
//	loc, err := r.Resolve(ctx, "githubpages:http://acct.github.io/foo")
//	// loc.RepositoryURL == "ssh://git@github.com/acct/foo.git", loc.Branch == "gh-pages"
package pages
