// Package wagon implements the transfer-adapter side of gitwagon: a Session
// opened on a locator reads and writes resources in the repositories that
// locator reaches and publishes every change when it is closed.
//
// Two locator families are accepted:
//
//	git:ssh://git@github.com/acct/site.git?gh-pages#/docs/
//	github:https://acct.github.io/project/
//
// The first names the repository and branch directly. The second is a pages
// site URL that is mapped to its backing repository; relative resource names
// such as "../other-project/index.html" then reach sibling project sites.
//
// Example:
//
//	s, err := wagon.Open(ctx, "github:https://acct.github.io/site/")
//	if err != nil {
//	    return err
//	}
//	w, err := s.Put(ctx, "index.html")
//	// write the page ...
//	w.Close()
//	return s.Close(ctx) // commit and push
package wagon
