// Package locator parses, serialises and resolves repository locators.
//
// A locator addresses a file inside a branch of a remote git repository with a
// single string:
//
//	git:ssh://git@github.com/acct/repo.git?gh-pages#/docs/index.html
//
// The inner URI's query is the branch and its fragment is the resource path,
// relative to the root of the repository's working copy. A literal '#' inside the
// outer string is written as "##".
//
// Resolve navigates relative to a locator. A relative path may walk past the
// repository root into a sibling repository by naming it together with its branch,
// as in "../other.git%3Fgh-pages%23/index.html".
package locator
